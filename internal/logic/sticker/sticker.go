// Package sticker keeps the decorations a user drops on a finished strip
// and burns them into the exported image.
package sticker

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"
	"strings"
	"sync"

	"github.com/cjeanneret/GoBooth/internal/debug"
	"github.com/cjeanneret/GoBooth/internal/render"
)

var (
	// ErrOutOfRange is returned for a placement outside the strip.
	ErrOutOfRange = errors.New("sticker: position outside the strip")
	// ErrEmptyGlyph is returned when no glyph is given.
	ErrEmptyGlyph = errors.New("sticker: empty glyph")
)

// MarkerSize is the on-screen size of a placed sticker marker, in pixels.
const MarkerSize = 24

// sizeRatio is the exported sticker size relative to min(width, height).
const sizeRatio = 0.08

// Placement is a sticker at a position normalized to the strip size.
type Placement struct {
	Glyph string  `json:"glyph"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Marker tells a client where to draw the placed sticker in its own
// display coordinates (top-left corner and size).
type Marker struct {
	Glyph string  `json:"glyph"`
	Left  float64 `json:"left"`
	Top   float64 `json:"top"`
	Size  float64 `json:"size"`
}

// Layer is the ordered list of placements on the current strip.
// It is safe for concurrent use.
type Layer struct {
	mu         sync.Mutex
	placements []Placement
}

// Place appends a sticker at normalized coordinates (0..1 on both axes).
func (l *Layer) Place(glyph string, x, y float64) (Placement, error) {
	glyph = strings.TrimSpace(glyph)
	if glyph == "" {
		return Placement{}, ErrEmptyGlyph
	}
	if !inUnit(x) || !inUnit(y) {
		return Placement{}, fmt.Errorf("%w: (%.3f, %.3f)", ErrOutOfRange, x, y)
	}
	p := Placement{Glyph: glyph, X: x, Y: y}

	l.mu.Lock()
	l.placements = append(l.placements, p)
	n := len(l.placements)
	l.mu.Unlock()

	debug.Live("Sticker %s placed at (%.3f, %.3f), %d on strip", glyph, x, y, n)
	return p, nil
}

// PlaceAt appends a sticker clicked at (px, py) on a strip displayed at
// displayW x displayH pixels, and returns the marker to show there.
func (l *Layer) PlaceAt(glyph string, px, py, displayW, displayH float64) (Marker, error) {
	if displayW <= 0 || displayH <= 0 {
		return Marker{}, fmt.Errorf("%w: display size %.0fx%.0f", ErrOutOfRange, displayW, displayH)
	}
	p, err := l.Place(glyph, px/displayW, py/displayH)
	if err != nil {
		return Marker{}, err
	}
	return Marker{
		Glyph: p.Glyph,
		Left:  px - MarkerSize/2,
		Top:   py - MarkerSize/2,
		Size:  MarkerSize,
	}, nil
}

// Placements returns a copy of the placements in insertion order.
func (l *Layer) Placements() []Placement {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Placement, len(l.placements))
	copy(out, l.placements)
	return out
}

func (l *Layer) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.placements)
}

// Clear removes all placements.
func (l *Layer) Clear() {
	l.mu.Lock()
	l.placements = nil
	l.mu.Unlock()
}

// Apply returns a copy of strip with every sticker drawn at full
// resolution. strip itself is left untouched.
func (l *Layer) Apply(strip image.Image) *image.RGBA {
	b := strip.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), strip, b.Min, draw.Src)

	placements := l.Placements()
	if len(placements) == 0 {
		return out
	}

	w, h := float64(b.Dx()), float64(b.Dy())
	size := math.Min(w, h) * sizeRatio
	var text *render.Font
	for _, p := range placements {
		cx, cy := p.X*w, p.Y*h
		if render.DrawGlyph(out, p.Glyph, render.Placement{X: cx, Y: cy, Size: size, Alpha: 1}) {
			continue
		}
		if text == nil {
			text = render.NewFont(false, size)
		}
		// Centre the text vertically around cy.
		text.Draw(out, p.Glyph, cx, cy+size*0.35, render.MustHex("#000"), render.AlignCenter)
	}
	debug.Verbose("Applied %d stickers at %.1fpx", len(placements), size)
	return out
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1 && !math.IsNaN(v)
}
