package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Trading modes offered by the terminal front end.
const (
	ModePaper = "Paper Trading"
	ModeLive  = "Live Trading (Real Money)"
)

// Exchanges offered by the terminal front end.
var Exchanges = []string{"Sologenic DEX", "Binance", "Coinbase", "MetaTrader 5", "Custom Platform"}

// Profile is the flat operator record edited from the terminal front end. It carries no schema version.
type Profile struct {
	TradingMode    string  `yaml:"trading_mode"`
	Exchange       string  `yaml:"exchange"`
	Symbol         string  `yaml:"symbol"`
	RiskPercentage float64 `yaml:"risk_percentage"`
}

// LoadProfile reads the profile at path. A missing file yields an empty profile.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Profile{}, nil
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}

// SaveProfile rewrites the profile file, creating its directory when needed.
func SaveProfile(path string, p *Profile) error {
	if p == nil {
		return fmt.Errorf("nil profile")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// Validate enforces the 1-5% per-trade risk band and a non-empty symbol.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Symbol) == "" {
		return fmt.Errorf("symbol is required")
	}
	if p.RiskPercentage < 1 || p.RiskPercentage > 5 {
		return fmt.Errorf("risk percentage %.2f outside 1-5", p.RiskPercentage)
	}
	return nil
}

// Live reports whether the profile asks for real-money trading.
func (p *Profile) Live() bool { return p.TradingMode == ModeLive }
