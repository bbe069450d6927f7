package compositor

import (
	"fmt"
	"sync"
	"time"

	"github.com/cjeanneret/GoBooth/internal/debug"
	"github.com/cjeanneret/GoBooth/internal/hw/gpio"
)

// Flasher emits the visual flash of a capture. Flash must not block.
type Flasher interface {
	Flash(d time.Duration)
}

// FlasherFunc adapts a function to Flasher.
type FlasherFunc func(d time.Duration)

func (f FlasherFunc) Flash(d time.Duration) { f(d) }

// Flashers fans a flash out to several flashers.
type Flashers []Flasher

func (fs Flashers) Flash(d time.Duration) {
	for _, f := range fs {
		if f != nil {
			f.Flash(d)
		}
	}
}

// LEDFlash drives a GPIO output high for the flash duration.
type LEDFlash struct {
	driver gpio.Driver
	pin    int

	mu    sync.Mutex
	timer *time.Timer
}

// NewLEDFlash configures pin as an output held low.
func NewLEDFlash(driver gpio.Driver, pin int) (*LEDFlash, error) {
	if err := driver.SetupPin(pin, gpio.Output); err != nil {
		return nil, fmt.Errorf("setup flash pin %d: %w", pin, err)
	}
	if err := driver.WritePin(pin, gpio.Low); err != nil {
		return nil, fmt.Errorf("reset flash pin %d: %w", pin, err)
	}
	return &LEDFlash{driver: driver, pin: pin}, nil
}

// Flash turns the LED on and schedules it off after d. A flash during a
// flash extends it.
func (l *LEDFlash) Flash(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.driver.WritePin(l.pin, gpio.High); err != nil {
		debug.Error(fmt.Errorf("flash on: %w", err))
		return
	}
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(d, func() {
		if err := l.driver.WritePin(l.pin, gpio.Low); err != nil {
			debug.Error(fmt.Errorf("flash off: %w", err))
		}
	})
}

// Close stops a pending flash and leaves the LED off.
func (l *LEDFlash) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	return l.driver.WritePin(l.pin, gpio.Low)
}
