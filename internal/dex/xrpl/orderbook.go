package xrpl

import (
	"errors"
	"time"

	"solotrader-go/internal/signal"
)

// ErrEmptyBook is returned when the side a market order needs has no levels.
var ErrEmptyBook = errors.New("order book side is empty")

// Level is one price/size pair of a book side.
type Level struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// OrderBook is a fresh snapshot; it is never cached between orders.
type OrderBook struct {
	Bids   []Level   `json:"bids"`
	Asks   []Level   `json:"asks"`
	Spread float64   `json:"spread"`
	AsOf   time.Time `json:"as_of"`
}

// BestPrice picks the first ask for a buy and the first bid for a sell.
func (b OrderBook) BestPrice(side signal.Action) (float64, error) {
	levels := b.Bids
	if side == signal.Buy {
		levels = b.Asks
	}
	if len(levels) == 0 || levels[0].Price <= 0 {
		return 0, ErrEmptyBook
	}
	return levels[0].Price, nil
}

type levelPayload struct {
	Price    signal.Amount `json:"price"`
	Size     signal.Amount `json:"size"`
	Quantity signal.Amount `json:"quantity"`
	Amount   signal.Amount `json:"amount"`
}

func (p levelPayload) level() Level {
	size := float64(p.Size)
	if size == 0 {
		size = float64(p.Quantity)
	}
	if size == 0 {
		size = float64(p.Amount)
	}
	return Level{Price: float64(p.Price), Size: size}
}

type orderBookPayload struct {
	Bids   []levelPayload `json:"bids"`
	Asks   []levelPayload `json:"asks"`
	Spread signal.Amount  `json:"spread"`
}

func (p orderBookPayload) book(asOf time.Time) OrderBook {
	book := OrderBook{
		Bids:   make([]Level, len(p.Bids)),
		Asks:   make([]Level, len(p.Asks)),
		Spread: float64(p.Spread),
		AsOf:   asOf,
	}
	for i, l := range p.Bids {
		book.Bids[i] = l.level()
	}
	for i, l := range p.Asks {
		book.Asks[i] = l.level()
	}
	return book
}
