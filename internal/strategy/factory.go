// Package strategy turns candle history into trading signals.
package strategy

import (
	"errors"
	"fmt"
	"strings"

	"solotrader-go/internal/signal"
)

// ErrUnknownStrategy is returned by Build for names outside the supported set.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Kind enumerates the closed set of signal strategies.
type Kind string

const (
	KindCrossover Kind = "sma_crossover"
	KindMomentum  Kind = "price_action"
	KindCombined  Kind = "combined"
)

// Strategy evaluates the full candle history and yields at most one signal.
type Strategy interface {
	Evaluate(candles []signal.Candle) (signal.Signal, bool)
	Name() string
}

// Params expresses tunable knobs required by strategy constructors. A MomentumThreshold of
// zero or below selects the 0.02 default.
type Params struct {
	ShortPeriod       int
	LongPeriod        int
	Lookback          int
	MomentumThreshold float64
	TradeAmount       float64
}

// DefaultParams mirrors the values the assistant ships with.
func DefaultParams() Params {
	return Params{ShortPeriod: 10, LongPeriod: 30, Lookback: 5, MomentumThreshold: 0.02, TradeAmount: 100}
}

// ParseKind maps a configured name (and its aliases) onto a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "combined", "combo":
		return KindCombined, nil
	case "sma_crossover", "crossover", "sma":
		return KindCrossover, nil
	case "price_action", "momentum":
		return KindMomentum, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Build returns a strategy implementation matching the configured name.
func Build(name string, params Params) (Strategy, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindCrossover:
		return NewCrossover(params), nil
	case KindMomentum:
		return NewMomentum(params), nil
	default:
		return NewCombined(params), nil
	}
}

func newSignal(kind Kind, action signal.Action, candles []signal.Candle, confidence, amount float64, indicators map[string]float64) signal.Signal {
	last := candles[len(candles)-1]
	return signal.Signal{
		Timestamp:  last.Timestamp,
		Action:     action,
		Price:      last.Close,
		Confidence: confidence,
		Strategy:   string(kind),
		Indicators: indicators,
		Amount:     amount,
	}
}
