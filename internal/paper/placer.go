package paper

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"solotrader-go/internal/execution"
	"solotrader-go/internal/risk"
	"solotrader-go/internal/signal"
)

// Quoter prices a market order without placing it.
type Quoter interface {
	Quote(ctx context.Context, side signal.Action) (float64, error)
}

// Placer fills market orders against an Account at the quoter's price. It satisfies
// execution.Placer, so paper mode runs through the same router as live trading.
type Placer struct {
	Pair    string
	Account *Account
	Ledger  *Ledger
	Quoter  Quoter
	Limits  risk.Limits
	log     zerolog.Logger
	now     func() time.Time
}

// NewPlacer wires a paper account to a price source.
func NewPlacer(pair string, account *Account, quoter Quoter, limits risk.Limits, log zerolog.Logger) *Placer {
	return &Placer{
		Pair:    pair,
		Account: account,
		Ledger:  &Ledger{},
		Quoter:  quoter,
		Limits:  limits,
		log:     log,
		now:     time.Now,
	}
}

// PlaceMarketOrder simulates a fill of amount base units at the current quote.
func (p *Placer) PlaceMarketOrder(ctx context.Context, side signal.Action, amount float64) (signal.TradeResponse, error) {
	price, err := p.Quoter.Quote(ctx, side)
	if err != nil {
		return nil, fmt.Errorf("paper quote: %w", err)
	}
	notional := amount * price
	if !p.Limits.Allow(notional) {
		return nil, fmt.Errorf("paper %s: notional %.4f above per-trade cap %.4f", side, notional, p.Limits.MaxNotionalPerTrade)
	}
	orderSide := execution.SideFromAction(side)
	if err := p.Account.MarketFill(p.Pair, orderSide, amount, price); err != nil {
		return nil, fmt.Errorf("paper %s: %w", side, err)
	}
	fill := Fill{Pair: p.Pair, Side: orderSide, Amount: amount, Price: price, Time: p.now()}
	count := p.Ledger.Record(fill)

	mark := p.Account.MarkAt(p.Pair, price)
	p.log.Info().
		Str("pair", p.Pair).
		Str("side", string(orderSide)).
		Float64("amount", amount).
		Float64("price", price).
		Float64("cash", mark.Cash).
		Float64("equity", mark.Equity).
		Msg("paper fill")

	return signal.TradeResponse{
		"mode":         "paper",
		"pair":         p.Pair,
		"side":         string(side),
		"amount":       amount,
		"price":        price,
		"cash":         mark.Cash,
		"position":     mark.Position,
		"avg_cost":     mark.AvgCost,
		"realized_pnl": mark.RealizedPnL,
		"equity":       mark.Equity,
		"fills":        count,
		"timestamp":    fill.Time.UnixMilli(),
	}, nil
}

// Summary is the session result reported when paper trading stops.
type Summary struct {
	Mark
	Fills     int     `json:"fills"`
	LastPrice float64 `json:"last_price"`
	Buys      int     `json:"buys"`
	Sells     int     `json:"sells"`
}

// Summary marks the account at the last fill price.
func (p *Placer) Summary() Summary {
	fills := p.Ledger.Fills()
	var out Summary
	out.Fills = len(fills)
	for _, f := range fills {
		if f.Side == execution.Buy {
			out.Buys++
		} else {
			out.Sells++
		}
	}
	if last, ok := p.Ledger.Last(); ok {
		out.LastPrice = last.Price
	}
	out.Mark = p.Account.MarkAt(p.Pair, out.LastPrice)
	return out
}
