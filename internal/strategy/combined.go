package strategy

import "solotrader-go/internal/signal"

// Combined requires the crossover and momentum strategies to agree. It is a conjunction, not a vote.
type Combined struct {
	crossover *Crossover
	momentum  *Momentum
	amount    float64
}

// NewCombined builds both sub-strategies from the same parameters.
func NewCombined(p Params) *Combined {
	return &Combined{crossover: NewCrossover(p), momentum: NewMomentum(p), amount: p.TradeAmount}
}

// Name returns the identifier reported on signals.
func (c *Combined) Name() string { return string(KindCombined) }

// Evaluate averages the two confidences when both fire the same action.
func (c *Combined) Evaluate(candles []signal.Candle) (signal.Signal, bool) {
	sma, ok := c.crossover.Evaluate(candles)
	if !ok {
		return signal.Signal{}, false
	}
	mom, ok := c.momentum.Evaluate(candles)
	if !ok || mom.Action != sma.Action {
		return signal.Signal{}, false
	}
	confidence := (sma.Confidence + mom.Confidence) / 2
	return newSignal(KindCombined, sma.Action, candles, confidence, c.amount, map[string]float64{
		"sma_confidence":      sma.Confidence,
		"price_confidence":    mom.Confidence,
		"combined_confidence": confidence,
	}), true
}
