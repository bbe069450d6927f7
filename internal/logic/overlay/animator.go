package overlay

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/cjeanneret/GoBooth/internal/debug"
)

// Sizer reports the native frame size of a video source. ok is false until
// the source knows its size.
type Sizer interface {
	Size() (size image.Point, ok bool)
}

// Animator keeps an up-to-date overlay image for the live preview. It
// redraws on a ticker while started and skips ticks while the source size
// is unknown.
type Animator struct {
	source   Sizer
	interval time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	theme   Theme
	current *image.RGBA
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewAnimator creates an animator redrawing every interval.
func NewAnimator(source Sizer, theme Theme, interval time.Duration) *Animator {
	if interval <= 0 {
		interval = time.Second / 30
	}
	return &Animator{
		source:   source,
		interval: interval,
		now:      time.Now,
		theme:    theme,
	}
}

// SetTheme switches the motif; the next tick picks it up.
func (a *Animator) SetTheme(t Theme) {
	a.mu.Lock()
	a.theme = t
	a.mu.Unlock()
}

func (a *Animator) Theme() Theme {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.theme
}

// Current returns the latest overlay, or nil if none was drawn yet.
// The returned image is never modified afterwards.
func (a *Animator) Current() *image.RGBA {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// Running reports whether the redraw loop is active.
func (a *Animator) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cancel != nil
}

// Start launches the redraw loop. Calling Start while running does nothing.
func (a *Animator) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan struct{})
	go a.loop(ctx, a.done)
	debug.Verbose("Overlay animator started (%v per frame)", a.interval)
}

// Stop cancels the redraw loop and waits for it to exit. The last overlay
// is cleared.
func (a *Animator) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done

	a.mu.Lock()
	a.current = nil
	a.mu.Unlock()
	debug.Verbose("Overlay animator stopped")
}

func (a *Animator) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.Step()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Step()
		}
	}
}

// Step draws one overlay frame immediately. It returns false when the
// source size is not known yet.
func (a *Animator) Step() bool {
	size, ok := a.source.Size()
	if !ok || size.X <= 0 || size.Y <= 0 {
		return false
	}
	theme := a.Theme()
	t := float64(a.now().UnixNano()) / 1e9

	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	Render(img, theme, t)

	a.mu.Lock()
	a.current = img
	a.mu.Unlock()
	if debug.IsEnabled(debug.LevelTrace) {
		debug.Trace("Overlay frame %s %dx%d at t=%.3f", theme, size.X, size.Y, t)
	}
	return true
}
