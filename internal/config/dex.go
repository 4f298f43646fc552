// Package config also contains DEX-specific configuration surfaces.
package config

import (
	"os"
	"time"
)

// DefaultSoloIssuer is the Sologenic issuing account for SOLO.
const DefaultSoloIssuer = "rsoLo2S1kiGeCcn6hCUXVrCpGMWLrRrLZz"

// Dex defines network endpoints and defaults for XRPL order placement.
type Dex struct {
	NodeURL          string            `yaml:"node_url"`       // rippled JSON-RPC
	SologenicBase    string            `yaml:"sologenic_base"` // order book + token metadata
	BaseCurrency     string            `yaml:"base_currency"`
	QuoteCurrency    string            `yaml:"quote_currency"`
	Issuers          map[string]string `yaml:"issuers"`
	RequestTimeoutMs int               `yaml:"request_timeout_ms"`
}

// Wallet stores env-backed signing material metadata. Secrets never live in the YAML file.
type Wallet struct {
	Account string `yaml:"account"`
	SeedEnv string `yaml:"seed_env"`
}

func (d *Dex) applyDefaults() {
	if d.NodeURL == "" {
		d.NodeURL = "https://s.devnet.rippletest.net:51234"
	}
	if d.SologenicBase == "" {
		d.SologenicBase = "https://api.sologenic.org/api/v1"
	}
	if d.BaseCurrency == "" {
		d.BaseCurrency = "XRP"
	}
	if d.QuoteCurrency == "" {
		d.QuoteCurrency = "SOLO"
	}
	if d.Issuers == nil {
		d.Issuers = map[string]string{}
	}
	if _, ok := d.Issuers["SOLO"]; !ok {
		d.Issuers["SOLO"] = DefaultSoloIssuer
	}
	if d.RequestTimeoutMs <= 0 {
		d.RequestTimeoutMs = 10000
	}
}

// RequestTimeout bounds each outbound order-book or submission call.
func (d Dex) RequestTimeout() time.Duration {
	return time.Duration(d.RequestTimeoutMs) * time.Millisecond
}

// EnvOr returns the environment value for key, or def when unset.
func EnvOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
