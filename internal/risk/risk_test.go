package risk

import (
	"math"
	"testing"
)

func TestAllow(t *testing.T) {
	limits := Limits{MaxNotionalPerTrade: 50}
	if !limits.Allow(49.9) {
		t.Fatalf("expected notional under limit to pass")
	}
	if limits.Allow(50.1) {
		t.Fatalf("expected notional above limit to fail")
	}
	if !(Limits{}).Allow(1e9) {
		t.Fatalf("expected zero cap to allow")
	}
}

func TestPositionSize(t *testing.T) {
	limits := Limits{RiskPercentage: 2}
	size, err := limits.PositionSize(1000, 0.5)
	if err != nil {
		t.Fatalf("PositionSize returned error: %v", err)
	}
	if math.Abs(size-40) > 1e-9 {
		t.Fatalf("expected 40 units, got %.4f", size)
	}
	if _, err := limits.PositionSize(1000, 0); err == nil {
		t.Fatalf("expected error for zero price")
	}
	if _, err := limits.PositionSize(0, 1); err == nil {
		t.Fatalf("expected error for empty balance")
	}
}
