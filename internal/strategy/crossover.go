package strategy

import (
	"solotrader-go/internal/indicator"
	"solotrader-go/internal/signal"
)

const crossoverConfidence = 0.8

// Crossover fires when the short moving average crosses the long one between the last two candles.
type Crossover struct {
	short, long int
	amount      float64
}

// NewCrossover builds a moving-average crossover strategy.
func NewCrossover(p Params) *Crossover {
	d := DefaultParams()
	if p.ShortPeriod <= 0 {
		p.ShortPeriod = d.ShortPeriod
	}
	if p.LongPeriod <= 0 {
		p.LongPeriod = d.LongPeriod
	}
	return &Crossover{short: p.ShortPeriod, long: p.LongPeriod, amount: p.TradeAmount}
}

// Name returns the identifier reported on signals.
func (c *Crossover) Name() string { return string(KindCrossover) }

// Evaluate compares both averages at t-1 and t.
func (c *Crossover) Evaluate(candles []signal.Candle) (signal.Signal, bool) {
	if len(candles) < c.long || len(candles) < 2 {
		return signal.Signal{}, false
	}
	closes := indicator.Closes(candles)
	shortMA := indicator.MovingAverage(closes, c.short)
	longMA := indicator.MovingAverage(closes, c.long)

	t := len(closes) - 1
	shortNow, ok1 := shortMA.At(t)
	longNow, ok2 := longMA.At(t)
	shortPrev, ok3 := shortMA.At(t - 1)
	longPrev, ok4 := longMA.At(t - 1)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return signal.Signal{}, false
	}

	var action signal.Action
	switch {
	case shortPrev <= longPrev && shortNow > longNow:
		action = signal.Buy
	case shortPrev >= longPrev && shortNow < longNow:
		action = signal.Sell
	default:
		return signal.Signal{}, false
	}
	return newSignal(KindCrossover, action, candles, crossoverConfidence, c.amount, map[string]float64{
		"short_sma": shortNow,
		"long_sma":  longNow,
	}), true
}
