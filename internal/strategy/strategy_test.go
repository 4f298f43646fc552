package strategy

import (
	"errors"
	"math"
	"testing"

	"solotrader-go/internal/signal"
)

func candlesFrom(closes ...float64) []signal.Candle {
	out := make([]signal.Candle, len(closes))
	for i, px := range closes {
		out[i] = signal.Candle{Timestamp: int64(i+1) * 60_000, Open: px, High: px, Low: px, Close: px, Volume: 1}
	}
	return out
}

func TestCrossoverShortHistory(t *testing.T) {
	strat := NewCrossover(Params{ShortPeriod: 2, LongPeriod: 4})
	if _, ok := strat.Evaluate(candlesFrom(1, 2, 3)); ok {
		t.Fatalf("expected no signal below long window")
	}
}

func TestCrossoverUpward(t *testing.T) {
	strat := NewCrossover(Params{ShortPeriod: 2, LongPeriod: 4, TradeAmount: 100})
	// t-1: short=(10+10)/2=10 long=(10+10+10+10)/4=10 -> short<=long
	// t:   short=(10+14)/2=12 long=(10+10+10+14)/4=11 -> short>long
	sig, ok := strat.Evaluate(candlesFrom(10, 10, 10, 10, 14))
	if !ok {
		t.Fatalf("expected buy signal")
	}
	if sig.Action != signal.Buy {
		t.Fatalf("expected buy, got %s", sig.Action)
	}
	if sig.Confidence != 0.8 {
		t.Fatalf("expected confidence 0.8, got %.2f", sig.Confidence)
	}
	if sig.Indicators["short_sma"] <= sig.Indicators["long_sma"] {
		t.Fatalf("indicator snapshot disagrees with action: %+v", sig.Indicators)
	}
	if sig.Amount != 100 || sig.Price != 14 || sig.Strategy != "sma_crossover" {
		t.Fatalf("unexpected signal fields: %+v", sig)
	}
}

func TestCrossoverDownward(t *testing.T) {
	strat := NewCrossover(Params{ShortPeriod: 2, LongPeriod: 4})
	sig, ok := strat.Evaluate(candlesFrom(10, 10, 10, 10, 6))
	if !ok || sig.Action != signal.Sell {
		t.Fatalf("expected sell signal, got %+v ok=%v", sig, ok)
	}
}

func TestCrossoverNoCrossWhileAbove(t *testing.T) {
	strat := NewCrossover(Params{ShortPeriod: 2, LongPeriod: 4})
	// short already above long at t-1, still above at t
	if sig, ok := strat.Evaluate(candlesFrom(10, 10, 10, 14, 16)); ok {
		t.Fatalf("expected no signal without a crossing, got %+v", sig)
	}
}

func TestMomentumBuy(t *testing.T) {
	strat := NewMomentum(Params{Lookback: 4, MomentumThreshold: 0.02})
	sig, ok := strat.Evaluate(candlesFrom(100, 100, 100, 100, 103))
	if !ok {
		t.Fatalf("expected buy signal")
	}
	if sig.Action != signal.Buy {
		t.Fatalf("expected buy, got %s", sig.Action)
	}
	if math.Abs(sig.Confidence-0.03) > 1e-9 {
		t.Fatalf("expected confidence 0.03, got %.6f", sig.Confidence)
	}
}

func TestMomentumZeroThresholdUsesDefault(t *testing.T) {
	strat := NewMomentum(Params{Lookback: 4})
	if _, ok := strat.Evaluate(candlesFrom(100, 100, 100, 100, 101)); ok {
		t.Fatalf("a 1%% move should stay under the default 2%% threshold")
	}
	sig, ok := strat.Evaluate(candlesFrom(100, 100, 100, 100, 103))
	if !ok || sig.Indicators["threshold"] != 0.02 {
		t.Fatalf("expected default threshold 0.02, got %+v ok=%v", sig, ok)
	}
}

func TestMomentumSell(t *testing.T) {
	strat := NewMomentum(Params{Lookback: 4, MomentumThreshold: 0.02})
	sig, ok := strat.Evaluate(candlesFrom(100, 100, 100, 100, 95))
	if !ok || sig.Action != signal.Sell {
		t.Fatalf("expected sell signal, got %+v", sig)
	}
	if sig.Confidence < 0 {
		t.Fatalf("confidence must be non-negative")
	}
	if sig.Indicators["threshold"] != -0.02 {
		t.Fatalf("expected negative threshold snapshot, got %.3f", sig.Indicators["threshold"])
	}
}

func TestMomentumBelowThreshold(t *testing.T) {
	strat := NewMomentum(Params{Lookback: 4, MomentumThreshold: 0.05})
	if _, ok := strat.Evaluate(candlesFrom(100, 100, 100, 100, 103)); ok {
		t.Fatalf("expected no signal below threshold")
	}
	if _, ok := strat.Evaluate(candlesFrom(100, 103)); ok {
		t.Fatalf("expected no signal with short history")
	}
}

func TestCombinedAgreement(t *testing.T) {
	strat := NewCombined(Params{ShortPeriod: 2, LongPeriod: 4, Lookback: 4, MomentumThreshold: 0.02})
	sig, ok := strat.Evaluate(candlesFrom(10, 10, 10, 10, 14))
	if !ok {
		t.Fatalf("expected combined signal")
	}
	if sig.Action != signal.Buy {
		t.Fatalf("expected buy, got %s", sig.Action)
	}
	// crossover 0.8, momentum 0.4
	if math.Abs(sig.Confidence-0.6) > 1e-9 {
		t.Fatalf("expected mean confidence 0.6, got %.4f", sig.Confidence)
	}
	if sig.Strategy != "combined" {
		t.Fatalf("unexpected strategy name %s", sig.Strategy)
	}
}

func TestCombinedOneSilent(t *testing.T) {
	// momentum fires (0.03 > 0.02) but the long window is not filled, so crossover is silent
	strat := NewCombined(Params{ShortPeriod: 2, LongPeriod: 10, Lookback: 4, MomentumThreshold: 0.02})
	if sig, ok := strat.Evaluate(candlesFrom(100, 100, 100, 100, 103)); ok {
		t.Fatalf("expected no signal when crossover abstains, got %+v", sig)
	}
}

func TestCombinedDisagreement(t *testing.T) {
	// crossover fires buy at the last step, momentum over the lookback is negative
	strat := NewCombined(Params{ShortPeriod: 2, LongPeriod: 3, Lookback: 4, MomentumThreshold: 0.02})
	closes := []float64{20, 10, 10, 8, 13}
	cross, ok := NewCrossover(Params{ShortPeriod: 2, LongPeriod: 3}).Evaluate(candlesFrom(closes...))
	if !ok || cross.Action != signal.Buy {
		t.Fatalf("fixture broken: expected crossover buy, got %+v ok=%v", cross, ok)
	}
	if sig, ok := strat.Evaluate(candlesFrom(closes...)); ok {
		t.Fatalf("expected no signal on disagreement, got %+v", sig)
	}
}

func TestBuild(t *testing.T) {
	cases := map[string]string{
		"":              "combined",
		"Combined":      "combined",
		" crossover ":   "sma_crossover",
		"sma_crossover": "sma_crossover",
		"momentum":      "price_action",
		"price_action":  "price_action",
	}
	for name, expected := range cases {
		strat, err := Build(name, DefaultParams())
		if err != nil {
			t.Fatalf("Build(%q) returned error: %v", name, err)
		}
		if strat.Name() != expected {
			t.Fatalf("Build(%q): expected %s got %s", name, expected, strat.Name())
		}
	}
	if _, err := Build("martingale", DefaultParams()); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
}
