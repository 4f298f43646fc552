package xrpl

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// Environment keys for wallet material.
const (
	SeedEnv    = "XRPL_SEED"
	AccountEnv = "XRPL_ACCOUNT"
)

// LoadSeedFromEnv reads the signing seed and classic address, loading .env best-effort.
// fallbackAccount is used when XRPL_ACCOUNT is unset.
func LoadSeedFromEnv(seedKey, fallbackAccount string) (seed, account string, err error) {
	_ = godotenv.Load()
	if seedKey == "" {
		seedKey = SeedEnv
	}
	seed = os.Getenv(seedKey)
	if seed == "" {
		return "", "", errors.New(seedKey + " not set")
	}
	account = os.Getenv(AccountEnv)
	if account == "" {
		account = fallbackAccount
	}
	if account == "" {
		return "", "", errors.New(AccountEnv + " not set")
	}
	return seed, account, nil
}
