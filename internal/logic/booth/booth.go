// Package booth owns the capture session: camera state, theme and shot
// selection, the running capture sequence, the finished strip and its
// stickers. Every trigger (web, GPIO button) goes through RequestCapture.
package booth

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/cjeanneret/GoBooth/internal/debug"
	"github.com/cjeanneret/GoBooth/internal/hw/camera"
	"github.com/cjeanneret/GoBooth/internal/logic/compositor"
	"github.com/cjeanneret/GoBooth/internal/logic/overlay"
	"github.com/cjeanneret/GoBooth/internal/logic/sticker"
	"github.com/cjeanneret/GoBooth/internal/logic/strip"
)

var (
	ErrInvalidShots = errors.New("booth: shots must be 1, 4 or 8")
	ErrInvalidTheme = errors.New("booth: unknown frame theme")
	ErrNoStrip      = errors.New("booth: no strip yet")
	ErrInactive     = errors.New("booth: camera is not active")
)

// ValidShots lists the supported shot counts.
var ValidShots = []int{1, 4, 8}

// ValidShotCount reports whether n is a supported shot count.
func ValidShotCount(n int) bool {
	for _, v := range ValidShots {
		if v == n {
			return true
		}
	}
	return false
}

// Session is the user-visible state of the booth.
type Session struct {
	Active     bool          `json:"active"`
	Shooting   bool          `json:"shooting"`
	TotalShots int           `json:"total_shots"`
	FrameTheme overlay.Theme `json:"frame_theme"`
	StripTheme string        `json:"strip_theme"`
}

// State is a snapshot of the session plus the captured results.
type State struct {
	Session
	Photos   int        `json:"photos"`
	Strip    *StripInfo `json:"strip,omitempty"`
	Stickers int        `json:"stickers"`
}

// Options configures a Booth.
type Options struct {
	Source   camera.Source
	Renderer *strip.Renderer
	Flash    compositor.Flasher // optional
	Notifier Notifier           // optional

	Shots      int
	FrameTheme overlay.Theme
	StripTheme string

	CountdownSeconds  int
	CountdownInterval time.Duration
	InterShotPause    time.Duration
	FlashDuration     time.Duration
	OverlayInterval   time.Duration
}

// Booth coordinates the capture pipeline.
type Booth struct {
	source   camera.Source
	animator *overlay.Animator
	renderer *strip.Renderer
	flash    compositor.Flasher
	notifier Notifier
	stickers sticker.Layer
	now      func() time.Time

	countdownSeconds  int
	countdownInterval time.Duration
	pause             time.Duration
	flashDuration     time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	session Session
	photos  []image.Image
	strip   *strip.Strip
	preview *image.RGBA
	// generation changes whenever photos are discarded; a strip rendered
	// for an older generation is dropped.
	generation uint64
}

// New creates an inactive booth.
func New(opts Options) *Booth {
	shots := opts.Shots
	if !ValidShotCount(shots) {
		shots = 1
	}
	frameTheme, _ := overlay.ParseTheme(string(opts.FrameTheme))
	stripTheme, _ := strip.LookupTheme(opts.StripTheme)
	renderer := opts.Renderer
	if renderer == nil {
		renderer = strip.NewRenderer("", "")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Booth{
		source:            opts.Source,
		animator:          overlay.NewAnimator(opts.Source, frameTheme, opts.OverlayInterval),
		renderer:          renderer,
		flash:             opts.Flash,
		notifier:          opts.Notifier,
		now:               time.Now,
		countdownSeconds:  opts.CountdownSeconds,
		countdownInterval: opts.CountdownInterval,
		pause:             opts.InterShotPause,
		flashDuration:     opts.FlashDuration,
		ctx:               ctx,
		cancel:            cancel,
		session: Session{
			TotalShots: shots,
			FrameTheme: frameTheme,
			StripTheme: stripTheme.Name,
		},
	}
}

func (b *Booth) notify(e Event) {
	if b.notifier != nil {
		b.notifier.Notify(e)
	}
}

// StartCamera opens the capture source and starts the live overlay.
// Open failures leave the booth inactive and publish an error event.
func (b *Booth) StartCamera(ctx context.Context) error {
	b.mu.Lock()
	if b.session.Active {
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	if err := b.source.Open(ctx); err != nil {
		b.reportOpenError(err)
		return fmt.Errorf("start camera: %w", err)
	}

	b.mu.Lock()
	b.session.Active = true
	b.mu.Unlock()

	b.animator.Start(b.ctx)
	debug.Info("Camera started")
	st := b.State()
	b.notify(Event{Kind: EventCamera, State: &st})
	return nil
}

func (b *Booth) reportOpenError(err error) {
	debug.Error(err)
	msg := "Could not open the camera."
	var ue *camera.UnavailableError
	if errors.As(err, &ue) {
		msg = ue.Message()
	}
	b.notify(Event{Kind: EventError, Message: msg})
}

// ReportUnavailable publishes a camera failure detected outside the booth
// (for example an insecure client) without touching the device.
func (b *Booth) ReportUnavailable(err *camera.UnavailableError) {
	b.reportOpenError(err)
}

// StopCamera stops the live overlay and closes the source. A running
// sequence continues; its remaining shots are skipped.
func (b *Booth) StopCamera() {
	b.mu.Lock()
	if !b.session.Active {
		b.mu.Unlock()
		return
	}
	b.session.Active = false
	b.mu.Unlock()

	b.animator.Stop()
	if err := b.source.Close(); err != nil {
		debug.Error(fmt.Errorf("close camera: %w", err))
	}
	debug.Info("Camera stopped")
	st := b.State()
	b.notify(Event{Kind: EventCamera, State: &st})
}

// RequestCapture starts a capture sequence. It returns false and does
// nothing while the camera is inactive or a sequence is already running.
func (b *Booth) RequestCapture() bool {
	b.mu.Lock()
	if !b.session.Active || b.session.Shooting {
		active, shooting := b.session.Active, b.session.Shooting
		b.mu.Unlock()
		debug.Verbose("Capture request ignored (active=%v, shooting=%v)", active, shooting)
		return false
	}
	b.session.Shooting = true
	b.photos = nil
	b.strip = nil
	b.stickers.Clear()
	b.generation++
	shots, gen := b.session.TotalShots, b.generation
	b.mu.Unlock()

	debug.Live("Capture requested: %d shots", shots)
	b.wg.Add(1)
	go b.runSequence(shots, gen)
	return true
}

// Wait blocks until the running sequence, if any, has finished.
func (b *Booth) Wait() {
	b.wg.Wait()
}

// Close stops the camera and any running sequence and waits for them.
func (b *Booth) Close() {
	b.cancel()
	b.StopCamera()
	b.Wait()
}

// SelectFrameTheme switches the overlay motif.
func (b *Booth) SelectFrameTheme(name string) error {
	theme, ok := overlay.ParseTheme(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, name)
	}
	b.mu.Lock()
	b.session.FrameTheme = theme
	b.mu.Unlock()
	b.animator.SetTheme(theme)
	debug.Verbose("Frame theme: %s", theme)
	return nil
}

// SelectShots sets how many photos the next sequence takes and refreshes
// the layout preview.
func (b *Booth) SelectShots(n int) error {
	if !ValidShotCount(n) {
		return fmt.Errorf("%w: got %d", ErrInvalidShots, n)
	}
	b.mu.Lock()
	changed := b.session.TotalShots != n
	b.session.TotalShots = n
	if changed {
		b.preview = nil
	}
	b.mu.Unlock()
	debug.Verbose("Shots: %d", n)
	if changed {
		b.notify(Event{Kind: EventPreview})
	}
	return nil
}

// SelectStripTheme sets the strip theme. Unknown names select pink.
// The preview is refreshed, and so is an existing strip.
func (b *Booth) SelectStripTheme(name string) {
	theme, ok := strip.LookupTheme(name)
	if !ok {
		debug.Verbose("Unknown strip theme %q, using %s", name, theme.Name)
	}

	b.mu.Lock()
	b.session.StripTheme = theme.Name
	b.preview = nil
	photos, gen := b.photos, b.generation
	rerender := b.strip != nil && !b.session.Shooting
	b.mu.Unlock()

	b.notify(Event{Kind: EventPreview})
	if rerender {
		b.buildStrip(photos, theme.Name, gen)
	}
}

// Preview returns the layout preview for the current shots and theme.
func (b *Booth) Preview() *image.RGBA {
	b.mu.Lock()
	if b.preview != nil {
		p := b.preview
		b.mu.Unlock()
		return p
	}
	shots, theme := b.session.TotalShots, b.session.StripTheme
	b.mu.Unlock()

	p := b.renderer.RenderPreview(shots, theme)

	b.mu.Lock()
	if b.session.TotalShots == shots && b.session.StripTheme == theme {
		b.preview = p
	}
	b.mu.Unlock()
	return p
}

// Strip returns the finished strip, or nil.
func (b *Booth) Strip() *strip.Strip {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.strip
}

// PlaceSticker adds a sticker clicked at (x, y) on the strip displayed at
// displayW x displayH and returns the marker for the client.
func (b *Booth) PlaceSticker(glyph string, x, y, displayW, displayH float64) (sticker.Marker, error) {
	b.mu.Lock()
	has := b.strip != nil
	b.mu.Unlock()
	if !has {
		return sticker.Marker{}, ErrNoStrip
	}
	m, err := b.stickers.PlaceAt(glyph, x, y, displayW, displayH)
	if err != nil {
		return sticker.Marker{}, err
	}
	b.notify(Event{Kind: EventSticker, Sticker: &m})
	return m, nil
}

// Stickers returns the placed stickers in order.
func (b *Booth) Stickers() []sticker.Placement {
	return b.stickers.Placements()
}

// Retake clears photos, strip and stickers. It is refused while a
// sequence is running.
func (b *Booth) Retake() bool {
	b.mu.Lock()
	if b.session.Shooting {
		b.mu.Unlock()
		return false
	}
	b.photos = nil
	b.strip = nil
	b.stickers.Clear()
	b.generation++
	b.mu.Unlock()

	debug.Live("Retake: photos, strip and stickers cleared")
	st := b.State()
	b.notify(Event{Kind: EventRetake, State: &st})
	return true
}

// State returns a snapshot of the session.
func (b *Booth) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := State{
		Session:  b.session,
		Photos:   len(b.photos),
		Stickers: b.stickers.Len(),
	}
	if b.strip != nil {
		st.Strip = stripInfo(b.strip, len(b.photos))
	}
	return st
}

// LiveFrame returns the current frame mirrored with the overlay, as shown
// in the live preview.
func (b *Booth) LiveFrame() (*image.RGBA, error) {
	b.mu.Lock()
	active := b.session.Active
	b.mu.Unlock()
	if !active {
		return nil, ErrInactive
	}
	frame, err := b.source.Frame()
	if err != nil {
		return nil, err
	}
	var over image.Image
	if cur := b.animator.Current(); cur != nil {
		over = cur
	}
	return compositor.Compose(frame, over), nil
}

func stripInfo(s *strip.Strip, photos int) *StripInfo {
	return &StripInfo{
		ID:      s.ID.String(),
		Width:   s.Plan.Width,
		Height:  s.Plan.Height,
		Columns: s.Plan.Columns,
		Rows:    s.Plan.Rows,
		Photos:  photos,
		Theme:   s.Theme.Name,
	}
}
