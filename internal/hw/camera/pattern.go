package camera

import (
	"context"
	"image"
	"image/color"
	"math"
	"sync"
	"time"

	"github.com/cjeanneret/GoBooth/internal/debug"
)

// PatternSource is a synthetic camera producing an animated colour pattern.
// Used in mock mode (no webcam attached) and in tests.
type PatternSource struct {
	mu     sync.Mutex
	width  int
	height int
	open   bool
	start  time.Time
	now    func() time.Time
}

// NewPatternSource creates a synthetic source with the given frame size.
func NewPatternSource(width, height int) *PatternSource {
	return &PatternSource{width: width, height: height, now: time.Now}
}

func (p *PatternSource) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.width <= 0 || p.height <= 0 {
		return &UnavailableError{Reason: Unsupported, Device: "pattern"}
	}
	p.open = true
	p.start = p.now()
	debug.Info("Pattern camera opened (%dx%d)", p.width, p.height)
	return nil
}

func (p *PatternSource) Close() error {
	p.mu.Lock()
	p.open = false
	p.mu.Unlock()
	debug.Info("Pattern camera closed")
	return nil
}

func (p *PatternSource) Size() (image.Point, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return image.Point{}, false
	}
	return image.Pt(p.width, p.height), true
}

// Frame renders a diagonal gradient with a sweeping vertical bar. The bar
// sits on the left of the scene so mirrored snapshots are easy to check.
func (p *PatternSource) Frame() (image.Image, error) {
	p.mu.Lock()
	if !p.open {
		p.mu.Unlock()
		return nil, ErrNoFrame
	}
	w, h := p.width, p.height
	t := p.now().Sub(p.start).Seconds()
	p.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	barX := int(float64(w) * (0.1 + 0.05*math.Sin(t)))
	barW := w / 20
	if barW < 1 {
		barW = 1
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{
				R: uint8(80 + 100*x/w),
				G: uint8(60 + 100*y/h),
				B: 160,
				A: 255,
			}
			if x >= barX && x < barX+barW {
				c = color.RGBA{R: 20, G: 20, B: 20, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img, nil
}
