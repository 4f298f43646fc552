// Package paper simulates order placement against a virtual quote-currency balance.
package paper

import (
	"errors"
	"math"
	"sync"

	"github.com/shopspring/decimal"

	"solotrader-go/internal/execution"
)

var (
	ErrInsufficientCash     = errors.New("insufficient cash for buy")
	ErrInsufficientPosition = errors.New("insufficient position to sell")
	ErrPositionLimit        = errors.New("position limit exceeded")
	ErrInvalidFill          = errors.New("fill quantity and price must be finite and positive")
)

// holding is the base quantity of one pair and the quote spent acquiring it.
type holding struct {
	qty   decimal.Decimal
	basis decimal.Decimal
}

func (h holding) avgCost() decimal.Decimal {
	if h.qty.IsZero() {
		return decimal.Zero
	}
	return h.basis.Div(h.qty)
}

// Account keeps quote cash and base holdings in decimal so repeated fills do not drift.
type Account struct {
	mu          sync.Mutex
	cash        decimal.Decimal
	realized    decimal.Decimal
	maxPosition decimal.Decimal
	holdings    map[string]holding
}

// Mark is the account valued at one pair's price.
type Mark struct {
	Cash        float64 `json:"cash"`
	Position    float64 `json:"position"`
	AvgCost     float64 `json:"avg_cost"`
	RealizedPnL float64 `json:"realized_pnl"`
	Unrealized  float64 `json:"unrealized_pnl"`
	Equity      float64 `json:"equity"`
}

// NewAccount starts with startingCash; maxPosition <= 0 disables the per-pair cap.
func NewAccount(startingCash, maxPosition float64) *Account {
	return &Account{
		cash:        decimal.NewFromFloat(startingCash),
		maxPosition: decimal.NewFromFloat(math.Max(maxPosition, 0)),
		holdings:    make(map[string]holding),
	}
}

// MarketFill executes qty of the pair's base at price. Balances change only on success.
func (a *Account) MarketFill(pair string, side execution.Side, qty, price float64) error {
	if !finitePositive(qty) || !finitePositive(price) {
		return ErrInvalidFill
	}
	q := decimal.NewFromFloat(qty)
	notional := q.Mul(decimal.NewFromFloat(price))

	a.mu.Lock()
	defer a.mu.Unlock()

	h := a.holdings[pair]
	switch side {
	case execution.Buy:
		if notional.GreaterThan(a.cash) {
			return ErrInsufficientCash
		}
		next := h.qty.Add(q)
		if a.maxPosition.IsPositive() && next.GreaterThan(a.maxPosition) {
			return ErrPositionLimit
		}
		a.cash = a.cash.Sub(notional)
		a.holdings[pair] = holding{qty: next, basis: h.basis.Add(notional)}
	case execution.Sell:
		if q.GreaterThan(h.qty) {
			return ErrInsufficientPosition
		}
		released := h.avgCost().Mul(q)
		a.realized = a.realized.Add(notional.Sub(released))
		a.cash = a.cash.Add(notional)
		if rest := h.qty.Sub(q); rest.IsZero() {
			delete(a.holdings, pair)
		} else {
			a.holdings[pair] = holding{qty: rest, basis: h.basis.Sub(released)}
		}
	default:
		return errors.New("unknown order side")
	}
	return nil
}

// MarkAt values the account with pair priced at price. Other pairs count at cost.
func (a *Account) MarkAt(pair string, price float64) Mark {
	a.mu.Lock()
	defer a.mu.Unlock()

	equity := a.cash
	for p, h := range a.holdings {
		if p != pair {
			equity = equity.Add(h.basis)
		}
	}
	h := a.holdings[pair]
	value := h.qty.Mul(decimal.NewFromFloat(price))
	return Mark{
		Cash:        a.cash.InexactFloat64(),
		Position:    h.qty.InexactFloat64(),
		AvgCost:     h.avgCost().InexactFloat64(),
		RealizedPnL: a.realized.InexactFloat64(),
		Unrealized:  value.Sub(h.basis).InexactFloat64(),
		Equity:      equity.Add(value).InexactFloat64(),
	}
}

// AvailableCash reports free quote cash.
func (a *Account) AvailableCash() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cash.InexactFloat64()
}

// Position returns the base quantity held for pair.
func (a *Account) Position(pair string) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.holdings[pair].qty.InexactFloat64()
}

func finitePositive(v float64) bool { return v > 0 && !math.IsInf(v, 0) }
