// Package countdown runs the timed k..0 countdown that precedes each shot.
package countdown

import (
	"context"
	"strconv"
	"time"

	"github.com/cjeanneret/GoBooth/internal/debug"
)

const (
	// ReadyGlyph is shown instead of a number once the countdown reaches zero.
	ReadyGlyph = "💕"
	// Caption is displayed under the number while counting.
	Caption = "Chuẩn bị!"
)

// Tick is one visible countdown state.
type Tick struct {
	Remaining int     `json:"remaining"`
	Total     int     `json:"total"`
	Label     string  `json:"label"`
	Caption   string  `json:"caption"`
	Progress  float64 `json:"progress"`
}

// NewTick builds the tick shown with remaining seconds left out of total.
func NewTick(remaining, total int) Tick {
	t := Tick{Remaining: remaining, Total: total, Label: ReadyGlyph, Progress: 1}
	if remaining > 0 {
		t.Label = strconv.Itoa(remaining)
		t.Caption = Caption
	}
	if total > 0 {
		t.Progress = float64(total-remaining) / float64(total)
	}
	return t
}

// Sequencer counts down from Start to zero, one Interval per step.
type Sequencer struct {
	Start    int
	Interval time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

// New returns a sequencer counting from start with the given interval.
func New(start int, interval time.Duration) *Sequencer {
	return &Sequencer{Start: start, Interval: interval}
}

// Run reports Start+1 ticks (Start, ..., 1, 0), waiting Interval between
// them, and returns after the zero tick. It only returns early if ctx is
// cancelled.
func (s *Sequencer) Run(ctx context.Context, report func(Tick)) error {
	total := s.Start
	if total < 0 {
		total = 0
	}
	sleep := s.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	for k := total; k >= 0; k-- {
		tick := NewTick(k, total)
		debug.Countdown(k, total)
		if report != nil {
			report(tick)
		}
		if k == 0 {
			break
		}
		if err := sleep(ctx, s.Interval); err != nil {
			return err
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
