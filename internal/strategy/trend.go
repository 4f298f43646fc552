package strategy

import (
	"solotrader-go/internal/indicator"
	"solotrader-go/internal/signal"
)

// TrendRSI produces the raw buy/sell flags the UI-automation loop acts on.
// It carries no confidence: whoever consumes the flags decides whether to click.
type TrendRSI struct {
	SMAPeriod  int
	RSIPeriod  int
	Overbought float64
	Oversold   float64
}

// NewTrendRSI fills zero fields with the SMA20/RSI14 70/30 defaults.
func NewTrendRSI(smaPeriod, rsiPeriod int, overbought, oversold float64) TrendRSI {
	if smaPeriod <= 0 {
		smaPeriod = 20
	}
	if rsiPeriod <= 0 {
		rsiPeriod = 14
	}
	if overbought <= 0 {
		overbought = 70
	}
	if oversold <= 0 {
		oversold = 30
	}
	return TrendRSI{SMAPeriod: smaPeriod, RSIPeriod: rsiPeriod, Overbought: overbought, Oversold: oversold}
}

// Flags reports buy when close is above the SMA and RSI is below overbought,
// sell when close is below the SMA and RSI is above oversold. ok is false when
// either indicator lacks history.
func (t TrendRSI) Flags(candles []signal.Candle) (buy, sell, ok bool) {
	closes := indicator.Closes(candles)
	sma, smaOK := indicator.MovingAverage(closes, t.SMAPeriod).Last()
	rsi, rsiOK := indicator.RSI(closes, t.RSIPeriod)
	if !smaOK || !rsiOK {
		return false, false, false
	}
	last := closes[len(closes)-1]
	buy = last > sma && rsi < t.Overbought
	sell = last < sma && rsi > t.Oversold
	return buy, sell, true
}
