package paper

import (
	"sync"
	"time"

	"solotrader-go/internal/execution"
)

// Fill is one simulated execution.
type Fill struct {
	Pair   string         `json:"pair"`
	Side   execution.Side `json:"side"`
	Amount float64        `json:"amount"`
	Price  float64        `json:"price"`
	Time   time.Time      `json:"time"`
}

// Ledger is the in-memory fill history for the life of the process.
type Ledger struct {
	mu    sync.Mutex
	fills []Fill
}

// Record appends a fill and returns the new fill count.
func (l *Ledger) Record(fill Fill) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fills = append(l.fills, fill)
	return len(l.fills)
}

// Fills returns a copy of the history.
func (l *Ledger) Fills() []Fill {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Fill(nil), l.fills...)
}

// Last returns the most recent fill.
func (l *Ledger) Last() (Fill, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.fills) == 0 {
		return Fill{}, false
	}
	return l.fills[len(l.fills)-1], true
}
