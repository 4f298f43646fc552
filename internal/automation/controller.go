// Package automation replays calibrated clicks against a third-party trading UI.
//
// This is a blind replay: the controller knows nothing about price, amount, or whether
// the click did what the operator intended. Correctness is the operator's responsibility.
package automation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"solotrader-go/internal/metrics"
)

// ErrNotCalibrated is returned before any pointer movement when a button was never recorded.
var ErrNotCalibrated = errors.New("button position not calibrated")

// Point is a screen coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pointer is the host pointer capability.
type Pointer interface {
	Position() (Point, error)
	MoveTo(p Point) error
	Click() error
	ScreenSize() (w, h int, err error)
}

// Prompter blocks until the operator confirms msg.
type Prompter interface {
	Confirm(msg string) error
}

// Controller owns the calibrated buy/sell targets.
type Controller struct {
	pointer Pointer
	log     zerolog.Logger

	mu   sync.RWMutex
	buy  *Point
	sell *Point
}

// NewController wraps a pointer driver.
func NewController(p Pointer, log zerolog.Logger) *Controller {
	return &Controller{pointer: p, log: log}
}

// Calibrate asks the operator to hover each button in turn and records the positions.
// Calling it again replaces both targets.
func (c *Controller) Calibrate(prompt Prompter) error {
	buy, err := c.record(prompt, "Move your mouse to the Buy button and press Enter")
	if err != nil {
		return err
	}
	sell, err := c.record(prompt, "Move your mouse to the Sell button and press Enter")
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.buy, c.sell = &buy, &sell
	c.mu.Unlock()
	c.log.Info().Int("buy_x", buy.X).Int("buy_y", buy.Y).Int("sell_x", sell.X).Int("sell_y", sell.Y).Msg("calibration complete")
	return nil
}

func (c *Controller) record(prompt Prompter, msg string) (Point, error) {
	if err := prompt.Confirm(msg); err != nil {
		return Point{}, fmt.Errorf("calibration aborted: %w", err)
	}
	p, err := c.pointer.Position()
	if err != nil {
		return Point{}, fmt.Errorf("read pointer: %w", err)
	}
	ok, err := c.VerifyPosition(p)
	if err != nil {
		return Point{}, err
	}
	if !ok {
		return Point{}, fmt.Errorf("position %d,%d is off screen", p.X, p.Y)
	}
	return p, nil
}

// SetTargets installs previously recorded positions without prompting. Both must be on screen.
func (c *Controller) SetTargets(buy, sell Point) error {
	for _, p := range []Point{buy, sell} {
		ok, err := c.VerifyPosition(p)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("position %d,%d is off screen", p.X, p.Y)
		}
	}
	c.mu.Lock()
	c.buy, c.sell = &buy, &sell
	c.mu.Unlock()
	c.log.Info().Int("buy_x", buy.X).Int("buy_y", buy.Y).Int("sell_x", sell.X).Int("sell_y", sell.Y).Msg("targets loaded")
	return nil
}

// Calibrated reports whether both buttons are known.
func (c *Controller) Calibrated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.buy != nil && c.sell != nil
}

// ExecuteBuy clicks the calibrated buy button.
func (c *Controller) ExecuteBuy() error {
	c.mu.RLock()
	target := c.buy
	c.mu.RUnlock()
	return c.click("buy", target)
}

// ExecuteSell clicks the calibrated sell button.
func (c *Controller) ExecuteSell() error {
	c.mu.RLock()
	target := c.sell
	c.mu.RUnlock()
	return c.click("sell", target)
}

// VerifyPosition reports whether p lies on the current screen.
func (c *Controller) VerifyPosition(p Point) (bool, error) {
	w, h, err := c.pointer.ScreenSize()
	if err != nil {
		return false, fmt.Errorf("screen size: %w", err)
	}
	return p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h, nil
}

// click saves the pointer, moves to target, clicks, then restores. The restore runs even when
// the move or click fails.
func (c *Controller) click(side string, target *Point) (err error) {
	if target == nil {
		return fmt.Errorf("%s: %w", side, ErrNotCalibrated)
	}
	origin, err := c.pointer.Position()
	if err != nil {
		return fmt.Errorf("read pointer: %w", err)
	}
	defer func() {
		if rerr := c.pointer.MoveTo(origin); rerr != nil {
			c.log.Warn().Err(rerr).Msg("failed to restore pointer")
			if err == nil {
				err = fmt.Errorf("restore pointer: %w", rerr)
			}
		}
	}()

	if err := c.pointer.MoveTo(*target); err != nil {
		return fmt.Errorf("move to %s: %w", side, err)
	}
	if err := c.pointer.Click(); err != nil {
		c.log.Error().Err(err).Str("side", side).Msg("click failed")
		return fmt.Errorf("click %s: %w", side, err)
	}
	metrics.ClicksTotal.WithLabelValues(side).Inc()
	c.log.Info().Str("side", side).Msg("order clicked")
	return nil
}
