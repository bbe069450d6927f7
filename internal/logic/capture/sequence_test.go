package capture

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/cjeanneret/GoBooth/internal/logic/countdown"
)

// mockShooter records Shoot calls and skips the indexes listed in skip.
type mockShooter struct {
	mu    sync.Mutex
	calls []int
	skip  map[int]bool
}

func (m *mockShooter) Shoot(index int) (image.Image, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, index)
	if m.skip[index] {
		return nil, false
	}
	return image.NewRGBA(image.Rect(0, 0, index+1, 1)), true
}

// recorder keeps the events in the order they were reported.
type recorder struct {
	mu     sync.Mutex
	events []string
	ticks  []countdown.Tick
	labels []string
}

func (r *recorder) Progress(p Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "progress")
	r.labels = append(r.labels, p.Label)
}

func (r *recorder) Countdown(t countdown.Tick) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "tick")
	r.ticks = append(r.ticks, t)
}

func newTestSequence(shooter Shooter, obs Observer) *Sequence {
	return NewSequence(countdown.New(3, time.Microsecond), shooter, obs)
}

func TestRun_FourShots(t *testing.T) {
	shooter := &mockShooter{}
	rec := &recorder{}
	seq := newTestSequence(shooter, rec)

	photos, err := seq.Run(context.Background(), Params{Shots: 4, Pause: time.Microsecond})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(photos) != 4 {
		t.Fatalf("got %d photos, want 4", len(photos))
	}
	// Photos come back in shot order.
	for i, p := range photos {
		if p.Bounds().Dx() != i+1 {
			t.Errorf("photo %d out of order", i)
		}
	}
	if len(rec.ticks) != 16 {
		t.Errorf("got %d countdown ticks, want 16", len(rec.ticks))
	}
	want := []string{"Ảnh 1/4", "Ảnh 2/4", "Ảnh 3/4", "Ảnh 4/4"}
	for i, w := range want {
		if rec.labels[i] != w {
			t.Errorf("label %d = %q, want %q", i, rec.labels[i], w)
		}
	}
	// Progress precedes its countdown.
	if rec.events[0] != "progress" || rec.events[1] != "tick" || rec.events[5] != "progress" {
		t.Errorf("unexpected event order: %v", rec.events[:6])
	}
}

func TestRun_SkippedShots(t *testing.T) {
	shooter := &mockShooter{skip: map[int]bool{1: true, 2: true}}
	seq := newTestSequence(shooter, nil)

	photos, err := seq.Run(context.Background(), Params{Shots: 4})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(shooter.calls) != 4 {
		t.Errorf("Shoot called %d times, want 4", len(shooter.calls))
	}
	if len(photos) != 2 {
		t.Errorf("got %d photos, want 2", len(photos))
	}
}

func TestRun_PauseOnlyBetweenShots(t *testing.T) {
	seq := newTestSequence(&mockShooter{}, nil)

	start := time.Now()
	if _, err := seq.Run(context.Background(), Params{Shots: 1, Pause: time.Hour}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("a single shot must not wait for the inter-shot pause")
	}
}

func TestRun_SingleShotNoProgress(t *testing.T) {
	rec := &recorder{}
	seq := newTestSequence(&mockShooter{}, rec)

	photos, err := seq.Run(context.Background(), Params{Shots: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(photos) != 1 {
		t.Fatalf("got %d photos, want 1", len(photos))
	}
	if len(rec.labels) != 0 {
		t.Errorf("single shot reported progress %v, want none", rec.labels)
	}
	if len(rec.ticks) != 4 {
		t.Errorf("got %d countdown ticks, want 4", len(rec.ticks))
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	shooter := &mockShooter{}
	seq := newTestSequence(shooter, nil)
	photos, err := seq.Run(ctx, Params{Shots: 4})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(photos) != 0 || len(shooter.calls) != 0 {
		t.Error("cancelled sequence should not shoot")
	}
}

func TestProgressLabel(t *testing.T) {
	if got := ProgressLabel(2, 8); got != "Ảnh 2/8" {
		t.Errorf("ProgressLabel = %q", got)
	}
}
