// Package execution routes trading signals and manual requests to an order placer.
package execution

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"solotrader-go/internal/metrics"
	"solotrader-go/internal/signal"
)

// Side enumerates order directions used in logs and metrics.
type Side string

const (
	// Buy indicates a long order.
	Buy Side = "BUY"
	// Sell indicates a short order.
	Sell Side = "SELL"
)

// SideFromAction maps a signal action onto an order side.
func SideFromAction(a signal.Action) Side {
	if a == signal.Sell {
		return Sell
	}
	return Buy
}

// Order represents a placement request the router forwards.
type Order struct {
	Pair   string
	Side   Side
	Amount float64
}

var (
	// ErrNoPlacer is returned when no executor is configured (typically no wallet).
	ErrNoPlacer = errors.New("no order placer configured")
	// ErrInvalidAmount rejects non-positive trade sizes.
	ErrInvalidAmount = errors.New("trade amount must be positive")
)

// Placer is the "place an order" capability shared by executors.
type Placer interface {
	PlaceMarketOrder(ctx context.Context, side signal.Action, amount float64) (signal.TradeResponse, error)
}

// Router forwards signals to exactly one placer.
type Router struct {
	placer  Placer
	pair    string
	timeout time.Duration
	log     zerolog.Logger
}

// NewRouter wraps placer; a nil placer is allowed and surfaces ErrNoPlacer on use.
func NewRouter(placer Placer, pair string, timeout time.Duration, log zerolog.Logger) *Router {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Router{placer: placer, pair: pair, timeout: timeout, log: log}
}

// Enabled reports whether a placer is wired.
func (r *Router) Enabled() bool { return r.placer != nil }

// Route executes sig when autoTrading is on. With auto-trading off the placer is never called
// and the second return value is false.
func (r *Router) Route(ctx context.Context, sig signal.Signal, autoTrading bool) (signal.TradeResponse, bool, error) {
	if !autoTrading {
		return nil, false, nil
	}
	resp, err := r.place(ctx, sig.Action, sig.Amount)
	if err != nil {
		return nil, false, err
	}
	return resp, true, nil
}

// Manual places a trade without signal generation.
func (r *Router) Manual(ctx context.Context, action signal.Action, amount float64) (signal.TradeResponse, error) {
	return r.place(ctx, action, amount)
}

func (r *Router) place(ctx context.Context, action signal.Action, amount float64) (signal.TradeResponse, error) {
	order := Order{Pair: r.pair, Side: SideFromAction(action), Amount: amount}
	if !(amount > 0) || math.IsInf(amount, 0) {
		metrics.OrderFailuresTotal.WithLabelValues("invalid_amount").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	if r.placer == nil {
		metrics.OrderFailuresTotal.WithLabelValues("no_placer").Inc()
		r.log.Warn().Str("pair", order.Pair).Str("side", string(order.Side)).Msg("trade skipped: no placer configured")
		return nil, ErrNoPlacer
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	metrics.OrdersTotal.WithLabelValues(order.Pair, string(order.Side)).Inc()
	resp, err := r.placer.PlaceMarketOrder(ctx, action, amount)
	if err != nil {
		metrics.OrderFailuresTotal.WithLabelValues("placement").Inc()
		r.log.Error().Err(err).Str("pair", order.Pair).Str("side", string(order.Side)).Float64("amount", amount).Msg("order failed")
		return nil, err
	}
	r.log.Info().Str("pair", order.Pair).Str("side", string(order.Side)).Float64("amount", amount).Msg("order placed")
	return resp, nil
}
