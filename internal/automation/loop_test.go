package automation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"solotrader-go/internal/signal"
)

type staticSource struct {
	candles []signal.Candle
	err     error
	calls   int
}

func (s *staticSource) Recent(context.Context) ([]signal.Candle, error) {
	s.calls++
	return s.candles, s.err
}

type fixedRules struct{ buy, sell, ok bool }

func (r fixedRules) Flags([]signal.Candle) (bool, bool, bool) { return r.buy, r.sell, r.ok }

type countingClicker struct {
	buys, sells int
	err         error
}

func (c *countingClicker) ExecuteBuy() error {
	c.buys++
	return c.err
}

func (c *countingClicker) ExecuteSell() error {
	c.sells++
	return c.err
}

func TestLoopIgnoresTicksUntilStarted(t *testing.T) {
	src := &staticSource{}
	clicker := &countingClicker{}
	loop := NewLoop(src, fixedRules{buy: true, ok: true}, clicker, time.Minute, zerolog.Nop())

	if err := loop.Tick(context.Background()); err != nil {
		t.Fatalf("Tick returned error: %v", err)
	}
	if src.calls != 0 || clicker.buys != 0 {
		t.Fatalf("idle loop should not fetch or click")
	}

	loop.Start()
	if err := loop.Tick(context.Background()); err != nil {
		t.Fatalf("Tick returned error: %v", err)
	}
	if clicker.buys != 1 || clicker.sells != 0 {
		t.Fatalf("expected one buy click, got buys=%d sells=%d", clicker.buys, clicker.sells)
	}

	loop.Pause()
	_ = loop.Tick(context.Background())
	if clicker.buys != 1 || loop.State() != StatePaused {
		t.Fatalf("paused loop should not click")
	}
}

func TestLoopSellAndInsufficientHistory(t *testing.T) {
	clicker := &countingClicker{}
	loop := NewLoop(&staticSource{}, fixedRules{sell: true, ok: true}, clicker, time.Minute, zerolog.Nop())
	loop.Start()
	_ = loop.Tick(context.Background())
	if clicker.sells != 1 {
		t.Fatalf("expected a sell click")
	}

	quiet := NewLoop(&staticSource{}, fixedRules{buy: true, ok: false}, clicker, time.Minute, zerolog.Nop())
	quiet.Start()
	if err := quiet.Tick(context.Background()); err != nil {
		t.Fatalf("insufficient history is not an error: %v", err)
	}
	if clicker.buys != 0 {
		t.Fatalf("no click expected without history")
	}
}

func TestLoopEmergencyStopOnError(t *testing.T) {
	cases := map[string]struct {
		src     *staticSource
		clicker *countingClicker
	}{
		"fetch": {src: &staticSource{err: errors.New("provider down")}, clicker: &countingClicker{}},
		"click": {src: &staticSource{}, clicker: &countingClicker{err: ErrNotCalibrated}},
	}
	for name, tc := range cases {
		loop := NewLoop(tc.src, fixedRules{buy: true, ok: true}, tc.clicker, time.Minute, zerolog.Nop())
		loop.Start()
		if err := loop.Tick(context.Background()); err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if loop.State() != StateEmergency {
			t.Fatalf("%s: expected emergency stop, got %s", name, loop.State())
		}
	}
}

type signalingSource struct{ fetched chan struct{} }

func (s signalingSource) Recent(context.Context) ([]signal.Candle, error) {
	select {
	case s.fetched <- struct{}{}:
	default:
	}
	return nil, nil
}

func TestLoopRunTicksOnStart(t *testing.T) {
	src := signalingSource{fetched: make(chan struct{}, 1)}
	loop := NewLoop(src, fixedRules{ok: true}, &countingClicker{}, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	loop.Start()
	select {
	case <-src.fetched:
	case <-time.After(2 * time.Second):
		t.Fatalf("Start should trigger an immediate update")
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
