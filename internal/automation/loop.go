package automation

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"solotrader-go/internal/signal"
)

// CandleSource returns the most recent candles for the traded symbol.
type CandleSource interface {
	Recent(ctx context.Context) ([]signal.Candle, error)
}

// Rules turns a candle window into buy/sell flags. ok=false means not enough history.
type Rules interface {
	Flags(candles []signal.Candle) (buy, sell, ok bool)
}

// Clicker is the subset of Controller the loop drives.
type Clicker interface {
	ExecuteBuy() error
	ExecuteSell() error
}

// State is the loop's run state.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateEmergency State = "emergency_stop"
)

// Loop polls a candle source on a fixed interval and forwards flags straight to clicks.
// There is no confidence gating.
type Loop struct {
	source   CandleSource
	rules    Rules
	clicker  Clicker
	interval time.Duration
	log      zerolog.Logger

	mu    sync.Mutex
	state State
	kick  chan struct{}
}

// NewLoop builds an idle loop.
func NewLoop(source CandleSource, rules Rules, clicker Clicker, interval time.Duration, log zerolog.Logger) *Loop {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Loop{
		source:   source,
		rules:    rules,
		clicker:  clicker,
		interval: interval,
		log:      log,
		state:    StateIdle,
		kick:     make(chan struct{}, 1),
	}
}

// State reports the current run state.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Start resumes polling and schedules an immediate update.
func (l *Loop) Start() {
	l.setState(StateRunning)
	l.log.Info().Msg("trading assistant started")
	select {
	case l.kick <- struct{}{}:
	default:
	}
}

// Pause stops acting on updates until Start is called again.
func (l *Loop) Pause() {
	l.setState(StatePaused)
	l.log.Info().Msg("trading assistant paused")
}

// EmergencyStop halts trading.
func (l *Loop) EmergencyStop() {
	l.setState(StateEmergency)
	l.log.Warn().Msg("emergency stop activated")
}

func (l *Loop) setState(s State) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

// Run drives Tick on every interval and on Start until ctx is canceled.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-l.kick:
		}
		_ = l.Tick(ctx)
	}
}

// Tick performs one update when running. Any error triggers an emergency stop.
func (l *Loop) Tick(ctx context.Context) error {
	if l.State() != StateRunning {
		return nil
	}
	if err := l.tick(ctx); err != nil {
		l.log.Error().Err(err).Msg("error updating trading data")
		l.EmergencyStop()
		return err
	}
	return nil
}

func (l *Loop) tick(ctx context.Context) error {
	candles, err := l.source.Recent(ctx)
	if err != nil {
		return err
	}
	if len(candles) > 0 {
		l.log.Debug().Float64("last_price", candles[len(candles)-1].Close).Int("points", len(candles)).Msg("fetched data")
	}
	buy, sell, ok := l.rules.Flags(candles)
	if !ok {
		l.log.Debug().Int("points", len(candles)).Msg("not enough history for signals")
		return nil
	}
	l.log.Info().Bool("buy", buy).Bool("sell", sell).Msg("signals generated")
	switch {
	case buy:
		return l.clicker.ExecuteBuy()
	case sell:
		return l.clicker.ExecuteSell()
	}
	return nil
}
