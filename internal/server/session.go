package server

import (
	"context"

	"github.com/rs/zerolog"

	"solotrader-go/internal/broadcast"
	"solotrader-go/internal/execution"
	"solotrader-go/internal/metrics"
	"solotrader-go/internal/signal"
	"solotrader-go/internal/strategy"
)

// Session is one ordered pipeline: candle history, strategy evaluation, optional execution,
// then broadcast. It is not safe for concurrent use; each connection owns one.
type Session struct {
	strategy    strategy.Strategy
	router      *execution.Router
	hub         *broadcast.Hub
	tradeAmount float64
	log         zerolog.Logger
	candles     []signal.Candle
}

// NewSession starts an empty history.
func NewSession(strat strategy.Strategy, router *execution.Router, hub *broadcast.Hub, tradeAmount float64, log zerolog.Logger) *Session {
	return &Session{strategy: strat, router: router, hub: hub, tradeAmount: tradeAmount, log: log}
}

// HandlePrice appends c, evaluates the strategy over the full history and broadcasts
// trade_execution (when executed), strategy_signal (when fired), then price_update.
func (s *Session) HandlePrice(ctx context.Context, c signal.Candle, autoTrading bool) {
	s.candles = append(s.candles, c)
	metrics.CandlesTotal.WithLabelValues("session").Inc()

	if sig, ok := s.strategy.Evaluate(s.candles); ok {
		if sig.Amount <= 0 {
			sig.Amount = s.tradeAmount
		}
		metrics.SignalsTotal.WithLabelValues(sig.Strategy, string(sig.Action)).Inc()
		s.log.Info().
			Str("strategy", sig.Strategy).
			Str("action", string(sig.Action)).
			Float64("price", sig.Price).
			Float64("confidence", sig.Confidence).
			Msg("signal")

		trade, executed, err := s.router.Route(ctx, sig, autoTrading)
		if err != nil {
			s.log.Error().Err(err).Str("action", string(sig.Action)).Msg("signal execution failed")
		}
		if executed {
			s.hub.Broadcast(ctx, broadcast.TradeExecution(trade))
		}
		s.hub.Broadcast(ctx, broadcast.StrategySignal(sig))
	}
	s.hub.Broadcast(ctx, broadcast.PriceUpdate(c))
}

// HandleManual places a trade directly and broadcasts the acknowledgment.
func (s *Session) HandleManual(ctx context.Context, action signal.Action, amount float64) error {
	trade, err := s.router.Manual(ctx, action, amount)
	if err != nil {
		s.log.Error().Err(err).Str("action", string(action)).Float64("amount", amount).Msg("manual trade failed")
		return err
	}
	s.hub.Broadcast(ctx, broadcast.TradeExecution(trade))
	return nil
}
