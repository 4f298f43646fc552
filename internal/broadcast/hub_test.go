package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"solotrader-go/internal/signal"
)

type memObserver struct {
	id     string
	fail   bool
	err    error
	delay  time.Duration
	mu     sync.Mutex
	events []Event
}

func (m *memObserver) ID() string { return m.id }

func (m *memObserver) Send(_ context.Context, ev Event) error {
	if m.err != nil {
		return m.err
	}
	if m.fail {
		return errors.New("peer gone")
	}
	time.Sleep(m.delay)
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
	return nil
}

func (m *memObserver) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func TestBroadcastRemovesFailedObserver(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	observers := []*memObserver{{id: "a"}, {id: "b", fail: true}, {id: "c"}, {id: "d"}}
	for _, o := range observers {
		hub.Add(o)
	}

	delivered := hub.Broadcast(context.Background(), PriceUpdate(signal.Candle{Close: 1}))
	if delivered != 3 {
		t.Fatalf("expected 3 deliveries, got %d", delivered)
	}
	for _, o := range observers {
		if o.fail {
			continue
		}
		if o.count() != 1 {
			t.Fatalf("observer %s received %d events", o.id, o.count())
		}
	}
	if hub.Len() != 3 {
		t.Fatalf("expected failed observer removed, roster has %d", hub.Len())
	}

	hub.Broadcast(context.Background(), PriceUpdate(signal.Candle{Close: 2}))
	if observers[0].count() != 2 {
		t.Fatalf("remaining observers should keep receiving")
	}
}

func TestBroadcastPreservesPerObserverOrder(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	obs := &memObserver{id: NewID()}
	hub.Add(obs)

	hub.Broadcast(context.Background(), TradeExecution(signal.TradeResponse{"status": "ok"}))
	hub.Broadcast(context.Background(), StrategySignal(signal.Signal{Action: signal.Buy}))
	hub.Broadcast(context.Background(), PriceUpdate(signal.Candle{Close: 3}))

	want := []string{TypeTradeExecution, TypeStrategySignal, TypePriceUpdate}
	for i, ev := range obs.events {
		if ev.Type != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], ev.Type)
		}
	}
}

func TestHubConcurrentAddRemove(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		o := &memObserver{id: NewID()}
		go func() {
			defer wg.Done()
			hub.Add(o)
		}()
		go func() {
			defer wg.Done()
			hub.Broadcast(context.Background(), PriceUpdate(signal.Candle{}))
		}()
	}
	wg.Wait()
	if hub.Len() != 50 {
		t.Fatalf("expected 50 observers, got %d", hub.Len())
	}
	hub.Remove("missing")
	if hub.Len() != 50 {
		t.Fatalf("removing unknown id changed roster")
	}
}

func TestEventJSON(t *testing.T) {
	raw, err := json.Marshal(StrategySignal(signal.Signal{Action: signal.Sell, Confidence: 0.8}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(raw)
	if !strings.Contains(out, `"type":"strategy_signal"`) || !strings.Contains(out, `"action":"sell"`) {
		t.Fatalf("unexpected payload %s", out)
	}
	if strings.Contains(out, "candle") || strings.Contains(out, "trade") {
		t.Fatalf("unset payloads should be omitted: %s", out)
	}
}

func TestBroadcastKeepsObserversOnEncodeFailure(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	bad := &memObserver{id: "a", err: fmt.Errorf("%w: unsupported value", ErrEncode)}
	good := &memObserver{id: "b"}
	hub.Add(bad)
	hub.Add(good)

	if n := hub.Broadcast(context.Background(), PriceUpdate(signal.Candle{Close: 1})); n != 1 {
		t.Fatalf("expected 1 delivery, got %d", n)
	}
	if hub.Len() != 2 {
		t.Fatalf("encode failure must not remove observers, roster has %d", hub.Len())
	}
}

func TestBroadcastDeliversConcurrently(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	for i := 0; i < 5; i++ {
		hub.Add(&memObserver{id: NewID(), delay: 100 * time.Millisecond})
	}

	start := time.Now()
	if n := hub.Broadcast(context.Background(), PriceUpdate(signal.Candle{Close: 1})); n != 5 {
		t.Fatalf("expected 5 deliveries, got %d", n)
	}
	if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
		t.Fatalf("slow observers were written one after another: %v", elapsed)
	}
}
