package strategy

import (
	"math"

	"solotrader-go/internal/indicator"
	"solotrader-go/internal/signal"
)

// Momentum fires when price change over the lookback exceeds the threshold in either direction.
type Momentum struct {
	lookback  int
	threshold float64
	amount    float64
}

// NewMomentum builds the price-action momentum strategy.
func NewMomentum(p Params) *Momentum {
	d := DefaultParams()
	if p.Lookback <= 0 {
		p.Lookback = d.Lookback
	}
	if p.MomentumThreshold <= 0 {
		p.MomentumThreshold = d.MomentumThreshold
	}
	return &Momentum{lookback: p.Lookback, threshold: p.MomentumThreshold, amount: p.TradeAmount}
}

// Name returns the identifier reported on signals.
func (m *Momentum) Name() string { return string(KindMomentum) }

// Evaluate reports |momentum| as confidence.
func (m *Momentum) Evaluate(candles []signal.Candle) (signal.Signal, bool) {
	if len(candles) < m.lookback {
		return signal.Signal{}, false
	}
	mom, ok := indicator.Momentum(indicator.Closes(candles), m.lookback)
	if !ok {
		return signal.Signal{}, false
	}

	var action signal.Action
	threshold := m.threshold
	switch {
	case mom > m.threshold:
		action = signal.Buy
	case mom < -m.threshold:
		action = signal.Sell
		threshold = -m.threshold
	default:
		return signal.Signal{}, false
	}
	return newSignal(KindMomentum, action, candles, math.Abs(mom), m.amount, map[string]float64{
		"momentum":  mom,
		"threshold": threshold,
	}), true
}
