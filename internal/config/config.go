// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
	ProfilePath string `yaml:"profile_path"`
}

// Server configures the websocket session server.
type Server struct {
	Addr           string   `yaml:"addr"`
	WriteTimeoutMs int      `yaml:"write_timeout_ms"`
	ReadLimitBytes int64    `yaml:"read_limit_bytes"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// MarketData points at the candle provider used by the automation loop and the optional server feed.
type MarketData struct {
	BaseURL   string `yaml:"base_url"`
	StreamURL string `yaml:"stream_url"`
	Symbol    string `yaml:"symbol"`
	Interval  string `yaml:"interval"`
	Limit     int    `yaml:"limit"`
	Stream    bool   `yaml:"stream"`
	AutoTrade bool   `yaml:"auto_trade"`
}

// StrategyParams groups tunable knobs for the signal strategies. MomentumThreshold is a
// fraction of price; 0 or unset means 0.02.
type StrategyParams struct {
	ShortPeriod       int     `yaml:"short_period"`
	LongPeriod        int     `yaml:"long_period"`
	Lookback          int     `yaml:"lookback"`
	MomentumThreshold float64 `yaml:"momentum_threshold"`
	TradeAmount       float64 `yaml:"trade_amount"`
}

// Strategy specifies which strategy is active along with the parameter bundle.
type Strategy struct {
	Mode   string         `yaml:"mode"`
	Params StrategyParams `yaml:"params"`
}

// Automation tunes the UI-automation control loop.
type Automation struct {
	PollIntervalMs int     `yaml:"poll_interval_ms"`
	SMAPeriod      int     `yaml:"sma_period"`
	RSIPeriod      int     `yaml:"rsi_period"`
	Overbought     float64 `yaml:"overbought"`
	Oversold       float64 `yaml:"oversold"`
	Buttons        Buttons `yaml:"buttons"`
}

// Buttons holds screen coordinates recorded by an earlier calibration. All zero means unset.
type Buttons struct {
	BuyX  int `yaml:"buy_x"`
	BuyY  int `yaml:"buy_y"`
	SellX int `yaml:"sell_x"`
	SellY int `yaml:"sell_y"`
}

// Set reports whether any coordinate was configured.
func (b Buttons) Set() bool { return b != Buttons{} }

// Paper sizes the simulated account used when the profile trading mode is paper.
type Paper struct {
	StartingCash        float64 `yaml:"starting_cash"`
	MaxPosition         float64 `yaml:"max_position"`
	MaxNotionalPerTrade float64 `yaml:"max_notional_per_trade"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App        App        `yaml:"app"`
	Server     Server     `yaml:"server"`
	MarketData MarketData `yaml:"marketdata"`
	Strategy   Strategy   `yaml:"strategy"`
	Dex        Dex        `yaml:"dex"`
	Wallet     Wallet     `yaml:"wallet"`
	Automation Automation `yaml:"automation"`
	Paper      Paper      `yaml:"paper"`
}

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	config.ApplyDefaults()
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ApplyDefaults fills zero values with the settings the assistant ships with.
func (c *Config) ApplyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "solotrader"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.MetricsAddr == "" {
		c.App.MetricsAddr = ":9102"
	}
	if c.App.ProfilePath == "" {
		c.App.ProfilePath = "config/profile.yaml"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Server.WriteTimeoutMs <= 0 {
		c.Server.WriteTimeoutMs = 5000
	}
	if c.Server.ReadLimitBytes <= 0 {
		c.Server.ReadLimitBytes = 1 << 16
	}
	if c.MarketData.BaseURL == "" {
		c.MarketData.BaseURL = "https://api.binance.com"
	}
	if c.MarketData.StreamURL == "" {
		c.MarketData.StreamURL = "wss://stream.binance.com:9443/ws"
	}
	if c.MarketData.Symbol == "" {
		c.MarketData.Symbol = "XRPUSDT"
	}
	if c.MarketData.Interval == "" {
		c.MarketData.Interval = "1m"
	}
	if c.MarketData.Limit <= 0 {
		c.MarketData.Limit = 1000
	}
	if c.Strategy.Mode == "" {
		c.Strategy.Mode = "combined"
	}
	p := &c.Strategy.Params
	if p.ShortPeriod <= 0 {
		p.ShortPeriod = 10
	}
	if p.LongPeriod <= 0 {
		p.LongPeriod = 30
	}
	if p.Lookback <= 0 {
		p.Lookback = 5
	}
	if p.MomentumThreshold <= 0 {
		p.MomentumThreshold = 0.02
	}
	if p.TradeAmount <= 0 {
		p.TradeAmount = 100
	}
	c.Dex.applyDefaults()
	if c.Automation.PollIntervalMs <= 0 {
		c.Automation.PollIntervalMs = 60000
	}
	if c.Paper.StartingCash <= 0 {
		c.Paper.StartingCash = 1000
	}
}

// WriteTimeout is the per-message websocket write deadline.
func (s Server) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutMs) * time.Millisecond
}

// PollInterval is the automation loop cadence.
func (a Automation) PollInterval() time.Duration {
	return time.Duration(a.PollIntervalMs) * time.Millisecond
}
