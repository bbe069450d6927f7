package trigger

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cjeanneret/GoBooth/internal/hw/gpio"
)

func newTestButton(t *testing.T, accept bool) (*Button, *gpio.MockDriver, *int) {
	t.Helper()
	drv := &gpio.MockDriver{}
	fired := 0
	b, err := NewButton(drv, Config{
		Pin:      17,
		Hold:     400 * time.Millisecond,
		Cooldown: 4500 * time.Millisecond,
		Poll:     time.Millisecond,
	}, func() bool {
		fired++
		return accept
	})
	if err != nil {
		t.Fatalf("NewButton: %v", err)
	}
	return b, drv, &fired
}

func TestButton_IdleHigh(t *testing.T) {
	b, _, fired := newTestButton(t, true)
	start := time.Unix(0, 0)
	for i := 0; i < 100; i++ {
		if err := b.sample(start.Add(time.Duration(i) * 20 * time.Millisecond)); err != nil {
			t.Fatal(err)
		}
	}
	if *fired != 0 {
		t.Errorf("idle button fired %d times", *fired)
	}
}

func TestButton_HoldAndCooldown(t *testing.T) {
	b, _, fired := newTestButton(t, true)
	t0 := time.Unix(100, 0)

	tests := []struct {
		name  string
		down  bool
		at    time.Duration
		fired int
	}{
		{"press", true, 0, 0},
		{"still short", true, 300 * time.Millisecond, 0},
		{"held long enough", true, 400 * time.Millisecond, 1},
		{"keeps holding", true, 2 * time.Second, 1},
		{"release", false, 2100 * time.Millisecond, 1},
		{"press in cooldown", true, 2200 * time.Millisecond, 1},
		{"held in cooldown", true, 3 * time.Second, 1},
		{"held after cooldown", true, 5 * time.Second, 2},
	}
	for _, tt := range tests {
		b.update(tt.down, t0.Add(tt.at))
		if *fired != tt.fired {
			t.Errorf("%s: fired = %d, want %d", tt.name, *fired, tt.fired)
		}
	}
}

func TestButton_RefusedRequestNoCooldown(t *testing.T) {
	b, _, fired := newTestButton(t, false)
	t0 := time.Unix(100, 0)

	b.update(true, t0)
	b.update(true, t0.Add(500*time.Millisecond))
	b.update(false, t0.Add(600*time.Millisecond))
	b.update(true, t0.Add(700*time.Millisecond))
	b.update(true, t0.Add(1200*time.Millisecond))
	if *fired != 2 {
		t.Errorf("fired = %d, want 2 (refused requests do not start a cooldown)", *fired)
	}
}

func TestButton_RunWithMockPress(t *testing.T) {
	drv := &gpio.MockDriver{}
	var fired atomic.Int32
	b, err := NewButton(drv, Config{Pin: 5, Hold: time.Microsecond, Cooldown: time.Hour, Poll: 100 * time.Microsecond},
		func() bool { fired.Add(1); return true })
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	drv.Press(5, gpio.Low)
	deadline := time.Now().Add(time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(100 * time.Microsecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if fired.Load() != 1 {
		t.Errorf("fired = %d, want 1", fired.Load())
	}
}
