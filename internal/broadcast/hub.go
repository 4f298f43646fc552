// Package broadcast fans session events out to connected observers.
package broadcast

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"solotrader-go/internal/metrics"
	"solotrader-go/internal/signal"
)

// Event types sent to observers.
const (
	TypePriceUpdate    = "price_update"
	TypeStrategySignal = "strategy_signal"
	TypeTradeExecution = "trade_execution"
)

// Event is one outbound message. Exactly one payload is set, matching Type.
type Event struct {
	Type   string               `json:"type"`
	Candle *signal.Candle       `json:"candle,omitempty"`
	Signal *signal.Signal       `json:"signal,omitempty"`
	Trade  signal.TradeResponse `json:"trade,omitempty"`
}

// PriceUpdate wraps a candle.
func PriceUpdate(c signal.Candle) Event { return Event{Type: TypePriceUpdate, Candle: &c} }

// StrategySignal wraps a signal.
func StrategySignal(s signal.Signal) Event { return Event{Type: TypeStrategySignal, Signal: &s} }

// TradeExecution wraps an executor acknowledgment.
func TradeExecution(t signal.TradeResponse) Event { return Event{Type: TypeTradeExecution, Trade: t} }

// ErrEncode marks an event that could not be serialized. The observer is not at fault and stays
// registered.
var ErrEncode = errors.New("encode event")

// Observer receives events. Send must be safe to call from any goroutine.
type Observer interface {
	ID() string
	Send(ctx context.Context, ev Event) error
}

// NewID returns a fresh observer identifier.
func NewID() string { return uuid.NewString() }

// Hub is the roster of connected observers.
type Hub struct {
	mu        sync.RWMutex
	observers map[string]Observer
	log       zerolog.Logger
}

// NewHub returns an empty roster.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{observers: make(map[string]Observer), log: log}
}

// Add registers o, replacing any observer with the same ID.
func (h *Hub) Add(o Observer) {
	h.mu.Lock()
	h.observers[o.ID()] = o
	n := len(h.observers)
	h.mu.Unlock()
	metrics.ObserversActive.Set(float64(n))
	h.log.Debug().Str("observer", o.ID()).Int("active", n).Msg("observer added")
}

// Remove drops the observer with id; unknown ids are ignored.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	_, ok := h.observers[id]
	delete(h.observers, id)
	n := len(h.observers)
	h.mu.Unlock()
	if ok {
		metrics.ObserversActive.Set(float64(n))
		h.log.Debug().Str("observer", id).Int("active", n).Msg("observer removed")
	}
}

// Len reports the number of registered observers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.observers)
}

// Broadcast delivers ev to every observer registered at call time and returns the number of
// successful deliveries. Observers are written concurrently so one slow peer costs at most its
// own write timeout. Observers whose Send fails are removed afterwards.
func (h *Hub) Broadcast(ctx context.Context, ev Event) int {
	h.mu.RLock()
	snapshot := make([]Observer, 0, len(h.observers))
	for _, o := range h.observers {
		snapshot = append(snapshot, o)
	}
	h.mu.RUnlock()

	var (
		delivered atomic.Int64
		mu        sync.Mutex
		failed    []string
		g         errgroup.Group
	)
	for _, o := range snapshot {
		o := o
		g.Go(func() error {
			err := o.Send(ctx, ev)
			switch {
			case err == nil:
				delivered.Add(1)
			case errors.Is(err, ErrEncode):
				h.log.Error().Err(err).Str("observer", o.ID()).Str("type", ev.Type).Msg("event dropped")
			default:
				h.log.Warn().Err(err).Str("observer", o.ID()).Str("type", ev.Type).Msg("delivery failed")
				mu.Lock()
				failed = append(failed, o.ID())
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	for _, id := range failed {
		h.Remove(id)
	}
	return int(delivered.Load())
}
