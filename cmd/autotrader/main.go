// Binary autotrader replays calibrated clicks against a third-party trading UI. It is a blind
// replay: nothing confirms a click had the intended effect.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"

	"solotrader-go/internal/automation"
	"solotrader-go/internal/config"
	"solotrader-go/internal/marketdata"
	"solotrader-go/internal/metrics"
	"solotrader-go/internal/risk"
	"solotrader-go/internal/strategy"
	"solotrader-go/internal/util"
)

const defaultConfigPath = "config/config.yaml"

func main() {
	log := util.NewConsoleLogger("info")

	cfg, err := config.Load(config.EnvOr("SOLOTRADER_CONFIG", defaultConfigPath))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log = util.NewConsoleLogger(cfg.App.LogLevel)

	profile, err := config.LoadProfile(cfg.App.ProfilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("load profile")
	}
	if sym := strings.ToUpper(strings.ReplaceAll(profile.Symbol, "/", "")); sym != "" {
		cfg.MarketData.Symbol = sym
	}

	_ = metrics.Serve(cfg.App.MetricsAddr)
	log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")

	pointer, err := automation.NewXdotoolPointer()
	if err != nil {
		log.Fatal().Err(err).Msg("pointer driver")
	}
	ctrl := automation.NewController(pointer, log)
	stdin := bufio.NewReader(os.Stdin)
	prompter := automation.NewLinePrompter(stdin, os.Stdout)

	a := cfg.Automation
	if b := a.Buttons; b.Set() {
		err = ctrl.SetTargets(automation.Point{X: b.BuyX, Y: b.BuyY}, automation.Point{X: b.SellX, Y: b.SellY})
	} else {
		err = ctrl.Calibrate(prompter)
	}
	if err != nil {
		log.Warn().Err(err).Msg("not calibrated, run calibrate before start")
	}

	rules := strategy.NewTrendRSI(a.SMAPeriod, a.RSIPeriod, a.Overbought, a.Oversold)
	source := marketdata.NewHistory(cfg.MarketData, log)
	loop := automation.NewLoop(source, rules, ctrl, a.PollInterval(), log)

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("loop stopped")
		}
	}()

	limits := risk.Limits{RiskPercentage: profile.RiskPercentage}
	fmt.Println("Commands: calibrate | start | pause | stop (emergency) | size <balance> | status | quit")
	for {
		fmt.Print("> ")
		line, err := stdin.ReadString('\n')
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "calibrate":
			loop.Pause()
			if err := ctrl.Calibrate(prompter); err != nil {
				fmt.Println(err)
			}
		case "start":
			if !ctrl.Calibrated() {
				fmt.Println("calibrate the buy and sell buttons first")
				continue
			}
			loop.Start()
		case "pause":
			loop.Pause()
		case "stop":
			loop.EmergencyStop()
		case "size":
			printSize(ctx, fields, source, limits)
		case "status":
			fmt.Printf("state=%s calibrated=%t symbol=%s risk=%.1f%%\n", loop.State(), ctrl.Calibrated(), cfg.MarketData.Symbol, profile.RiskPercentage)
		case "quit", "exit":
			loop.EmergencyStop()
			return
		default:
			fmt.Println("unknown command")
		}
	}
}

// printSize reports the position size the profile's risk percentage allows at the last close.
func printSize(ctx context.Context, fields []string, source *marketdata.History, limits risk.Limits) {
	if len(fields) < 2 {
		fmt.Println("usage: size <balance>")
		return
	}
	var balance float64
	if _, err := fmt.Sscanf(fields[1], "%g", &balance); err != nil {
		fmt.Println("invalid balance")
		return
	}
	candles, err := source.Recent(ctx)
	if err != nil || len(candles) == 0 {
		fmt.Println("no price available")
		return
	}
	last := candles[len(candles)-1].Close
	size, err := limits.PositionSize(balance, last)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("position size %.6f at %.6f\n", size, last)
}
