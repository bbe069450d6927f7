package booth

import (
	"errors"
	"image"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/cjeanneret/GoBooth/internal/debug"
	"github.com/cjeanneret/GoBooth/internal/hw/camera"
	"github.com/cjeanneret/GoBooth/internal/logic/capture"
	"github.com/cjeanneret/GoBooth/internal/logic/compositor"
	"github.com/cjeanneret/GoBooth/internal/logic/countdown"
	"github.com/cjeanneret/GoBooth/internal/logic/overlay"
	"github.com/cjeanneret/GoBooth/internal/logic/sticker"
)

// runSequence takes shots photos and builds the strip. Shooting is
// cleared only after the strip exists.
func (b *Booth) runSequence(shots int, gen uint64) {
	defer b.wg.Done()

	seq := capture.NewSequence(
		countdown.New(b.countdownSeconds, b.countdownInterval),
		sequenceHooks{b},
		sequenceHooks{b},
	)
	photos, err := seq.Run(b.ctx, capture.Params{Shots: shots, Pause: b.pause})
	if err != nil {
		debug.Error(err)
	}

	b.mu.Lock()
	b.photos = photos
	theme := b.session.StripTheme
	b.mu.Unlock()

	if len(photos) > 0 && err == nil {
		b.buildStrip(photos, theme, gen)
	} else if len(photos) == 0 {
		debug.Info("No photo captured, no strip generated")
	}

	b.mu.Lock()
	b.session.Shooting = false
	b.mu.Unlock()
	st := b.State()
	b.notify(Event{Kind: EventIdle, State: &st})
}

// buildStrip renders photos and stores the strip, unless a retake or a new
// sequence discarded them (gen is stale) while rendering.
func (b *Booth) buildStrip(photos []image.Image, theme string, gen uint64) {
	s, err := b.renderer.Render(photos, theme)
	if err != nil {
		debug.Error(err)
		return
	}
	b.mu.Lock()
	if b.generation != gen {
		b.mu.Unlock()
		debug.Verbose("Strip render dropped: photos were discarded meanwhile")
		return
	}
	b.strip = s
	b.mu.Unlock()
	b.notify(Event{Kind: EventStrip, Strip: stripInfo(s, len(photos))})
}

// Export writes the strip with its stickers as PNG and returns the
// download filename. ok is false, and nothing is written, when there is no
// strip yet.
func (b *Booth) Export(w io.Writer) (name string, ok bool, err error) {
	b.mu.Lock()
	s := b.strip
	b.mu.Unlock()
	if s == nil {
		debug.Verbose("Export ignored: no strip")
		return "", false, nil
	}

	img := b.stickers.Apply(s.Image)
	name = sticker.Filename(b.now())
	n, err := sticker.EncodePNG(w, img)
	if err != nil {
		return "", true, err
	}
	debug.Info("Exported %s (%s, %d stickers)", name, humanize.Bytes(uint64(n)), b.stickers.Len())
	return name, true, nil
}

// sequenceHooks plugs the booth into the capture sequence without
// exporting the callbacks.
type sequenceHooks struct{ b *Booth }

func (h sequenceHooks) Progress(p capture.Progress) {
	h.b.notify(Event{Kind: EventProgress, Progress: &p})
}

func (h sequenceHooks) Countdown(t countdown.Tick) {
	h.b.notify(Event{Kind: EventCountdown, Countdown: &t})
}

// Shoot composes one snapshot. The shot is skipped if the camera was
// stopped or has no frame.
func (h sequenceHooks) Shoot(index int) (image.Image, bool) {
	b := h.b
	b.mu.Lock()
	active, theme := b.session.Active, b.session.FrameTheme
	b.mu.Unlock()
	if !active {
		return nil, false
	}

	frame, err := b.source.Frame()
	if err != nil {
		if !errors.Is(err, camera.ErrNoFrame) {
			debug.Error(err)
		}
		return nil, false
	}

	var over image.Image
	if cur := b.animator.Current(); cur != nil {
		over = cur
	} else {
		fb := frame.Bounds()
		img := image.NewRGBA(image.Rect(0, 0, fb.Dx(), fb.Dy()))
		overlay.Render(img, theme, float64(b.now().UnixNano())/1e9)
		over = img
	}
	photo := compositor.Compose(frame, over)

	if b.flash != nil {
		b.flash.Flash(b.flashDuration)
	}
	b.notify(Event{Kind: EventFlash, Flash: b.flashDuration.Milliseconds()})
	return photo, true
}
