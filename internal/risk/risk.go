// Package risk sizes trades from the operator's per-trade risk percentage.
package risk

import "errors"

// Limits caps a single trade's notional and derives size from balance at risk.
type Limits struct {
	MaxNotionalPerTrade float64
	RiskPercentage      float64
}

// Allow reports whether notional fits under the per-trade cap. A zero cap allows everything.
func (l Limits) Allow(notional float64) bool {
	if l.MaxNotionalPerTrade <= 0 {
		return true
	}
	return notional <= l.MaxNotionalPerTrade
}

// PositionSize converts balance × risk% into units at price.
func (l Limits) PositionSize(balance, price float64) (float64, error) {
	if price <= 0 {
		return 0, errors.New("price must be positive")
	}
	if balance <= 0 {
		return 0, errors.New("balance must be positive")
	}
	return balance * (l.RiskPercentage / 100) / price, nil
}
