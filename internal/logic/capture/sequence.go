package capture

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/cjeanneret/GoBooth/internal/debug"
	"github.com/cjeanneret/GoBooth/internal/logic/countdown"
)

// Shooter takes one snapshot. ok is false when the shot had to be skipped
// (camera no longer active, no frame available).
type Shooter interface {
	Shoot(index int) (photo image.Image, ok bool)
}

// Observer receives the visible state of a running sequence.
type Observer interface {
	Progress(p Progress)
	Countdown(t countdown.Tick)
}

// Progress announces the shot about to be taken.
type Progress struct {
	Index int    `json:"index"` // 1-based
	Total int    `json:"total"`
	Label string `json:"label"`
}

// ProgressLabel is the text shown while shot index of total is prepared.
func ProgressLabel(index, total int) string {
	return fmt.Sprintf("Ảnh %d/%d", index, total)
}

// Sequence contains the logic of a multi-shot capture: for each shot,
// a countdown, a snapshot, then a pause before the next one.
type Sequence struct {
	countdown *countdown.Sequencer
	shooter   Shooter
	observer  Observer
}

func NewSequence(cd *countdown.Sequencer, shooter Shooter, observer Observer) *Sequence {
	return &Sequence{
		countdown: cd,
		shooter:   shooter,
		observer:  observer,
	}
}

// Params defines the parameters of one capture run.
type Params struct {
	Shots int           // number of photos to take
	Pause time.Duration // delay between a shot and the next countdown
}

// Run performs the whole sequence and returns the photos taken, in shot
// order. Skipped shots are left out, so the result may be shorter than
// p.Shots. Each step waits for the previous one; only ctx cancellation
// stops it early.
func (s *Sequence) Run(ctx context.Context, p Params) ([]image.Image, error) {
	debug.Section("Capture Sequence")
	debug.Value("Shots", p.Shots)
	debug.Value("Pause", p.Pause)

	photos := make([]image.Image, 0, p.Shots)
	for i := 0; i < p.Shots; i++ {
		select {
		case <-ctx.Done():
			return photos, ctx.Err()
		default:
		}

		// A single shot has no "i/N" indicator.
		if p.Shots > 1 {
			s.progress(Progress{Index: i + 1, Total: p.Shots, Label: ProgressLabel(i+1, p.Shots)})
		}

		if err := s.countdown.Run(ctx, s.tick); err != nil {
			return photos, err
		}

		if photo, ok := s.shooter.Shoot(i); ok {
			photos = append(photos, photo)
			debug.Shot(i+1, p.Shots)
		} else {
			debug.Live("Shot %d/%d skipped", i+1, p.Shots)
		}

		if i < p.Shots-1 {
			if err := sleep(ctx, p.Pause); err != nil {
				return photos, err
			}
		}
	}

	debug.Live("Sequence complete: %d/%d photos", len(photos), p.Shots)
	return photos, nil
}

func (s *Sequence) progress(p Progress) {
	if s.observer != nil {
		s.observer.Progress(p)
	}
}

func (s *Sequence) tick(t countdown.Tick) {
	if s.observer != nil {
		s.observer.Countdown(t)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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
