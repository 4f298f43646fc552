package main

import (
	"context"
	"errors"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"solotrader-go/internal/broadcast"
	"solotrader-go/internal/config"
	"solotrader-go/internal/dex/xrpl"
	"solotrader-go/internal/execution"
	"solotrader-go/internal/marketdata"
	"solotrader-go/internal/paper"
	"solotrader-go/internal/risk"
	"solotrader-go/internal/server"
	"solotrader-go/internal/signal"
	"solotrader-go/internal/strategy"
	"solotrader-go/internal/util"
)

const defaultConfigPath = "config/config.yaml"

func main() {
	cfg, err := config.Load(config.EnvOr("SOLOTRADER_CONFIG", defaultConfigPath))
	if err != nil {
		boot := util.NewLogger("info")
		boot.Fatal().Err(err).Msg("load config")
	}
	log := util.NewLogger(cfg.App.LogLevel).With().Str("app", cfg.App.Name).Logger()

	profile, err := config.LoadProfile(cfg.App.ProfilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("load profile")
	}

	p := cfg.Strategy.Params
	strat, err := strategy.Build(cfg.Strategy.Mode, strategy.Params{
		ShortPeriod:       p.ShortPeriod,
		LongPeriod:        p.LongPeriod,
		Lookback:          p.Lookback,
		MomentumThreshold: p.MomentumThreshold,
		TradeAmount:       p.TradeAmount,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build strategy")
	}

	placer, sim := buildPlacer(cfg, profile, log)
	pair := cfg.Dex.BaseCurrency + "/" + cfg.Dex.QuoteCurrency
	router := execution.NewRouter(placer, pair, cfg.Dex.RequestTimeout(), log)
	hub := broadcast.NewHub(log)
	srv := server.New(cfg.Server, strat, router, hub, p.TradeAmount, log)

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(gctx) })
	if cfg.MarketData.Stream {
		candles := make(chan signal.Candle, 64)
		stream := marketdata.NewStream(cfg.MarketData, log)
		g.Go(func() error { return stream.Run(gctx, candles) })
		g.Go(func() error { return srv.Feed(gctx, candles, cfg.MarketData.AutoTrade) })
	}

	log.Info().
		Str("strategy", strat.Name()).
		Str("mode", profile.TradingMode).
		Bool("executor", router.Enabled()).
		Bool("stream", cfg.MarketData.Stream).
		Msg("session server started")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("server stopped")
	}
	if sim != nil {
		sum := sim.Summary()
		log.Info().
			Int("fills", sum.Fills).
			Float64("cash", sum.Cash).
			Float64("position", sum.Position).
			Float64("realized_pnl", sum.RealizedPnL).
			Float64("equity", sum.Equity).
			Msg("paper session summary")
	}
	log.Info().Msg("shutting down")
}

// buildPlacer picks the live DEX executor, the paper account, or nothing. Live mode without a
// seed leaves the router without a placer so trades are refused rather than simulated.
// The second result is set only in paper mode.
func buildPlacer(cfg *config.Config, profile *config.Profile, log zerolog.Logger) (execution.Placer, *paper.Placer) {
	if profile.Live() {
		seed, account, err := xrpl.LoadSeedFromEnv(cfg.Wallet.SeedEnv, cfg.Wallet.Account)
		if err != nil {
			log.Warn().Err(err).Msg("no wallet configured, live trading disabled")
			return nil, nil
		}
		sub := xrpl.NewRPCSubmitter(config.EnvOr("XRPL_NODE_URL", cfg.Dex.NodeURL), seed, cfg.Dex.RequestTimeout())
		return xrpl.NewClient(cfg.Dex, account, sub, log), nil
	}
	book := xrpl.NewClient(cfg.Dex, cfg.Wallet.Account, nil, log)
	account := paper.NewAccount(cfg.Paper.StartingCash, cfg.Paper.MaxPosition)
	limits := risk.Limits{MaxNotionalPerTrade: cfg.Paper.MaxNotionalPerTrade, RiskPercentage: profile.RiskPercentage}
	log.Info().Float64("cash", cfg.Paper.StartingCash).Str("pair", book.PairName()).Msg("paper trading enabled")
	sim := paper.NewPlacer(book.PairName(), account, book, limits, log)
	return sim, sim
}
