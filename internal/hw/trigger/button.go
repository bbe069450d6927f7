// Package trigger turns a physical push button into capture requests.
package trigger

import (
	"context"
	"fmt"
	"time"

	"github.com/cjeanneret/GoBooth/internal/debug"
	"github.com/cjeanneret/GoBooth/internal/hw/gpio"
)

// Config describes the button wiring and timing.
type Config struct {
	Pin      int           // BCM pin, button to ground, internal pull-up
	Hold     time.Duration // how long the button must stay pressed
	Cooldown time.Duration // minimum time between two accepted triggers
	Poll     time.Duration // sampling period
}

// Button polls a GPIO input and calls Fire when the button has been held
// for Hold. Each press fires at most once, and nothing fires during the
// cooldown that follows an accepted trigger.
type Button struct {
	driver gpio.Driver
	cfg    Config
	fire   func() bool

	pressedSince time.Time
	pressed      bool
	fired        bool // fired during the current press
	lastFire     time.Time
}

// NewButton configures the pin as a pulled-up input. fire returns whether
// the request was accepted; refused requests do not start the cooldown.
func NewButton(driver gpio.Driver, cfg Config, fire func() bool) (*Button, error) {
	if cfg.Poll <= 0 {
		cfg.Poll = 20 * time.Millisecond
	}
	if err := driver.SetupPin(cfg.Pin, gpio.InputPullUp); err != nil {
		return nil, fmt.Errorf("setup trigger pin %d: %w", cfg.Pin, err)
	}
	return &Button{driver: driver, cfg: cfg, fire: fire}, nil
}

// Run samples the button until ctx is done.
func (b *Button) Run(ctx context.Context) error {
	debug.Info("Trigger button on GPIO %d (hold %v, cooldown %v)", b.cfg.Pin, b.cfg.Hold, b.cfg.Cooldown)
	ticker := time.NewTicker(b.cfg.Poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if err := b.sample(now); err != nil {
				return err
			}
		}
	}
}

// sample reads the pin once and advances the press state.
func (b *Button) sample(now time.Time) error {
	level, err := b.driver.ReadPin(b.cfg.Pin)
	if err != nil {
		return fmt.Errorf("read trigger pin %d: %w", b.cfg.Pin, err)
	}
	b.update(level == gpio.Low, now)
	return nil
}

func (b *Button) update(down bool, now time.Time) {
	if !down {
		b.pressed, b.fired = false, false
		return
	}
	if !b.pressed {
		b.pressed = true
		b.pressedSince = now
	}
	if b.fired || now.Sub(b.pressedSince) < b.cfg.Hold {
		return
	}
	if !b.lastFire.IsZero() && now.Sub(b.lastFire) < b.cfg.Cooldown {
		return
	}

	b.fired = true
	if b.fire() {
		b.lastFire = now
		debug.Live("Trigger button fired")
	} else {
		debug.Verbose("Trigger button ignored by the booth")
	}
}
