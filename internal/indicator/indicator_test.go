package indicator

import (
	"math"
	"testing"
)

func TestMovingAverageUndefinedPrefix(t *testing.T) {
	ma := MovingAverage([]float64{1, 2, 3, 4, 5}, 3)
	if len(ma) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(ma))
	}
	for i := 0; i < 2; i++ {
		if _, ok := ma.At(i); ok {
			t.Fatalf("index %d should be undefined", i)
		}
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		got, ok := ma.At(i + 2)
		if !ok || math.Abs(got-w) > 1e-12 {
			t.Fatalf("index %d: expected %.2f got %.2f (ok=%v)", i+2, w, got, ok)
		}
	}
}

func TestMovingAverageShortHistory(t *testing.T) {
	ma := MovingAverage([]float64{1, 2}, 5)
	if _, ok := ma.Last(); ok {
		t.Fatalf("expected undefined last value")
	}
	if _, ok := MovingAverage([]float64{1, 2}, 0).Last(); ok {
		t.Fatalf("expected undefined for non-positive window")
	}
}

func TestMomentum(t *testing.T) {
	m, ok := Momentum([]float64{100, 100, 100, 100, 103}, 4)
	if !ok {
		t.Fatalf("expected momentum to be defined")
	}
	if math.Abs(m-0.03) > 1e-12 {
		t.Fatalf("expected 0.03, got %.6f", m)
	}
	if _, ok := Momentum([]float64{100, 100, 100, 103}, 4); ok {
		t.Fatalf("expected undefined with lookback points only")
	}
	if _, ok := Momentum([]float64{0, 1}, 1); ok {
		t.Fatalf("expected undefined for zero base")
	}
}

func TestRSIBounds(t *testing.T) {
	rising := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	rsi, ok := RSI(rising, 14)
	if !ok || rsi != 100 {
		t.Fatalf("expected 100 for monotonic rise, got %.2f (ok=%v)", rsi, ok)
	}

	mixed := []float64{44, 44.3, 44.1, 44.5, 43.9, 44.6, 45.1, 45.4, 45.8, 46.1, 45.9, 46.2, 45.6, 46.3, 46.3, 46.0}
	rsi, ok = RSI(mixed, 14)
	if !ok || rsi <= 0 || rsi >= 100 {
		t.Fatalf("expected rsi within (0,100), got %.2f", rsi)
	}

	if _, ok := RSI(rising[:10], 14); ok {
		t.Fatalf("expected undefined rsi for short history")
	}
}
