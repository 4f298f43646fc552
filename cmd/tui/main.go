package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"solotrader-go/internal/config"
	"solotrader-go/internal/strategy"
)

const defaultConfigPath = "config/config.yaml"

func main() {
	reader := bufio.NewReader(os.Stdin)

	cfg, profile, err := loadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	for {
		fmt.Println("\n=== SoloTrader Control ===")
		fmt.Println("1) Show configuration summary")
		fmt.Println("2) Edit trading profile")
		fmt.Println("3) Edit strategy settings")
		fmt.Println("4) Save")
		fmt.Println("5) Launch session server")
		fmt.Println("6) Launch UI autotrader")
		fmt.Println("7) Reload from disk")
		fmt.Println("0) Exit")
		fmt.Print("Select option: ")

		input, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		switch strings.TrimSpace(input) {
		case "1":
			printSummary(cfg, profile)
		case "2":
			editProfile(reader, profile)
		case "3":
			editStrategy(reader, cfg)
		case "4":
			if err := saveAll(cfg, profile); err != nil {
				fmt.Fprintf(os.Stderr, "save failed: %v\n", err)
			} else {
				fmt.Println("configuration saved")
			}
		case "5":
			launch(reader, "./cmd/server")
		case "6":
			launch(reader, "./cmd/autotrader")
		case "7":
			c, p, err := loadAll()
			if err != nil {
				fmt.Fprintf(os.Stderr, "reload failed: %v\n", err)
			} else {
				cfg, profile = c, p
				fmt.Println("config reloaded")
			}
		case "0":
			return
		default:
			fmt.Println("unknown option")
		}
	}
}

func printSummary(cfg *config.Config, profile *config.Profile) {
	fmt.Println("\n--- Configuration Summary ---")
	fmt.Printf("Trading mode: %s\n", orDash(profile.TradingMode))
	fmt.Printf("Exchange: %s\n", orDash(profile.Exchange))
	fmt.Printf("Symbol: %s\n", orDash(profile.Symbol))
	fmt.Printf("Risk per trade: %.1f%%\n", profile.RiskPercentage)
	p := cfg.Strategy.Params
	fmt.Printf("Strategy: %s (short %d, long %d, lookback %d, threshold %.3f, amount %.2f)\n",
		cfg.Strategy.Mode, p.ShortPeriod, p.LongPeriod, p.Lookback, p.MomentumThreshold, p.TradeAmount)
	fmt.Printf("DEX pair: %s/%s via %s\n", cfg.Dex.BaseCurrency, cfg.Dex.QuoteCurrency, cfg.Dex.NodeURL)
	fmt.Printf("Session server: %s (stream %v)\n", cfg.Server.Addr, cfg.MarketData.Stream)
}

func editProfile(reader *bufio.Reader, profile *config.Profile) {
	fmt.Println("\n--- Edit Trading Profile ---")
	profile.TradingMode = promptChoice(reader, "Trading mode", []string{config.ModePaper, config.ModeLive}, profile.TradingMode)
	profile.Exchange = promptChoice(reader, "Exchange", config.Exchanges, profile.Exchange)
	profile.Symbol = promptString(reader, "Trading symbol (e.g. XRP/USD)", profile.Symbol)
	for {
		risk := promptFloat(reader, "Risk percentage per trade (1-5)", profile.RiskPercentage)
		if risk >= 1 && risk <= 5 {
			profile.RiskPercentage = risk
			break
		}
		fmt.Println("risk must be between 1 and 5")
	}
}

func editStrategy(reader *bufio.Reader, cfg *config.Config) {
	fmt.Println("\n--- Edit Strategy ---")
	for {
		mode := promptString(reader, "Strategy (sma_crossover, price_action, combined)", cfg.Strategy.Mode)
		kind, err := strategy.ParseKind(mode)
		if err == nil {
			cfg.Strategy.Mode = string(kind)
			break
		}
		fmt.Println(err)
	}
	p := &cfg.Strategy.Params
	p.ShortPeriod = int(promptFloat(reader, "Short SMA period", float64(p.ShortPeriod)))
	p.LongPeriod = int(promptFloat(reader, "Long SMA period", float64(p.LongPeriod)))
	p.Lookback = int(promptFloat(reader, "Momentum lookback", float64(p.Lookback)))
	p.MomentumThreshold = promptFloat(reader, "Momentum threshold", p.MomentumThreshold)
	p.TradeAmount = promptFloat(reader, "Trade amount", p.TradeAmount)
	cfg.MarketData.Stream = promptBool(reader, "Stream market data in the server", cfg.MarketData.Stream)
	cfg.MarketData.AutoTrade = promptBool(reader, "Auto-trade streamed signals", cfg.MarketData.AutoTrade)
}

func launch(reader *bufio.Reader, pkg string) {
	fmt.Printf("Launching %s (Ctrl+C to stop)...\n", pkg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := exec.CommandContext(ctx, "go", "run", pkg)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		return
	}

	go func() {
		_ = cmd.Wait()
		cancel()
	}()

	fmt.Print("\nPress ENTER to stop and return to menu...")
	_, _ = reader.ReadString('\n')
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func promptChoice(reader *bufio.Reader, label string, options []string, current string) string {
	fmt.Printf("%s:\n", label)
	for i, opt := range options {
		marker := " "
		if opt == current {
			marker = "*"
		}
		fmt.Printf("  %s %d) %s\n", marker, i+1, opt)
	}
	fmt.Print("Select number (blank to keep): ")
	line, _ := reader.ReadString('\n')
	idx, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || idx < 1 || idx > len(options) {
		if current == "" {
			return options[0]
		}
		return current
	}
	return options[idx-1]
}

func promptString(reader *bufio.Reader, label, current string) string {
	fmt.Printf("%s [%s]: ", label, current)
	line, _ := reader.ReadString('\n')
	if line = strings.TrimSpace(line); line == "" {
		return current
	}
	return line
}

func promptFloat(reader *bufio.Reader, label string, current float64) float64 {
	fmt.Printf("%s [%.2f]: ", label, current)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}
	val, err := strconv.ParseFloat(line, 64)
	if err != nil {
		fmt.Printf("invalid number, keeping %.2f\n", current)
		return current
	}
	return val
}

func promptBool(reader *bufio.Reader, label string, current bool) bool {
	fmt.Printf("%s [%v] (y/n): ", label, current)
	line, _ := reader.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "true":
		return true
	case "n", "no", "false":
		return false
	}
	return current
}

func orDash(s string) string {
	if s == "" {
		return "--"
	}
	return s
}

func loadAll() (*config.Config, *config.Profile, error) {
	cfg, err := config.Load(locateConfig())
	if err != nil {
		return nil, nil, err
	}
	profile, err := config.LoadProfile(cfg.App.ProfilePath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, profile, nil
}

func saveAll(cfg *config.Config, profile *config.Profile) error {
	if err := config.Save(locateConfig(), cfg); err != nil {
		return err
	}
	return config.SaveProfile(cfg.App.ProfilePath, profile)
}

func locateConfig() string {
	return filepath.Clean(config.EnvOr("SOLOTRADER_CONFIG", defaultConfigPath))
}
