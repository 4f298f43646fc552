// Package signal standardizes payloads shared between data ingestion, strategy, and execution layers.
package signal

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Action is the direction a Signal asks the executor to take.
type Action string

const (
	Buy  Action = "buy"
	Sell Action = "sell"
)

// ParseAction normalizes user supplied action strings.
func ParseAction(raw string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(raw))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	}
	return "", fmt.Errorf("unknown action %q", raw)
}

// Candle is one OHLCV observation. Timestamp is unix milliseconds.
type Candle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// UnmarshalJSON accepts numeric fields encoded either as numbers or strings.
func (c *Candle) UnmarshalJSON(data []byte) error {
	var raw struct {
		Timestamp Amount `json:"timestamp"`
		Open      Amount `json:"open"`
		High      Amount `json:"high"`
		Low       Amount `json:"low"`
		Close     Amount `json:"close"`
		Volume    Amount `json:"volume"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Candle{
		Timestamp: int64(raw.Timestamp),
		Open:      float64(raw.Open),
		High:      float64(raw.High),
		Low:       float64(raw.Low),
		Close:     float64(raw.Close),
		Volume:    float64(raw.Volume),
	}
	return nil
}

// Signal is a trading decision produced by one strategy evaluation.
type Signal struct {
	Timestamp  int64              `json:"timestamp"`
	Action     Action             `json:"action"`
	Price      float64            `json:"price"`
	Confidence float64            `json:"confidence"`
	Strategy   string             `json:"strategy"`
	Indicators map[string]float64 `json:"indicators"`
	Amount     float64            `json:"amount"`
}

// TradeResponse is the executor acknowledgment, forwarded to observers untouched.
type TradeResponse map[string]any

// Amount is a float that decodes from a JSON number or a numeric string. NaN and infinities
// are rejected.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*a = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("parse amount %q: not a finite number", s)
	}
	*a = Amount(v)
	return nil
}
