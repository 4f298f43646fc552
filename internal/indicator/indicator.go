// Package indicator computes technical indicators over ordered close series.
//
// Every function here is pure: the input slice is never modified and identical input
// always yields identical output.
package indicator

import (
	"math"

	"solotrader-go/internal/signal"
)

// Series holds one value per input index. Indices without enough history are undefined.
type Series []float64

// At returns the value at i and whether it is defined.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s) || math.IsNaN(s[i]) {
		return 0, false
	}
	return s[i], true
}

// Last returns the value at the final index.
func (s Series) Last() (float64, bool) { return s.At(len(s) - 1) }

// Closes extracts close prices in candle order.
func Closes(candles []signal.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// MovingAverage returns the trailing arithmetic mean of window closes at each index >= window-1.
func MovingAverage(closes []float64, window int) Series {
	out := make(Series, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if window <= 0 {
		return out
	}
	var sum float64
	for i, px := range closes {
		sum += px
		if i >= window {
			sum -= closes[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// Momentum is the fractional change between the last close and the close lookback points earlier.
func Momentum(closes []float64, lookback int) (float64, bool) {
	if lookback <= 0 || len(closes) < lookback+1 {
		return 0, false
	}
	last := len(closes) - 1
	base := closes[last-lookback]
	if base == 0 {
		return 0, false
	}
	return (closes[last] - base) / base, true
}

// RSI computes Wilder's relative strength index for the last close.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}
	var gain, loss float64
	for i := 1; i <= period; i++ {
		gain, loss = accumulate(gain, loss, closes[i]-closes[i-1])
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	for i := period + 1; i < len(closes); i++ {
		g, l := accumulate(0, 0, closes[i]-closes[i-1])
		avgGain = (avgGain*float64(period-1) + g) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + l) / float64(period)
	}
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50, true
		}
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

func accumulate(gain, loss, delta float64) (float64, float64) {
	if delta > 0 {
		return gain + delta, loss
	}
	return gain, loss - delta
}
