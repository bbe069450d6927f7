package render

import (
	"fmt"
	"image/color"
	"image/draw"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// Align is the horizontal anchoring of a text run relative to x.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// glyphAdvance is the width of a vector glyph in ems.
const glyphAdvance = 1.15

var (
	regularTTF = mustParse(goregular.TTF, "goregular")
	boldTTF    = mustParse(gobold.TTF, "gobold")
)

func mustParse(data []byte, name string) *truetype.Font {
	f, err := truetype.Parse(data)
	if err != nil {
		panic(fmt.Sprintf("render: parse %s: %v", name, err))
	}
	return f
}

// Font is a sized face able to draw mixed runs of text and vector glyphs.
// A Font is safe for concurrent use.
type Font struct {
	mu   sync.Mutex
	face font.Face
	size float64
}

// NewFont returns a Go font face of the given pixel size.
func NewFont(bold bool, size float64) *Font {
	ttf := regularTTF
	if bold {
		ttf = boldTTF
	}
	return &Font{
		face: truetype.NewFace(ttf, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}),
		size: size,
	}
}

// Size returns the pixel size of the font.
func (f *Font) Size() float64 { return f.size }

type run struct {
	text  string
	glyph bool
}

// splitRuns cuts s into alternating plain-text and vector-glyph runs.
func splitRuns(s string) []run {
	var runs []run
	var plain strings.Builder
	flush := func() {
		if plain.Len() > 0 {
			runs = append(runs, run{text: plain.String()})
			plain.Reset()
		}
	}
	for len(s) > 0 {
		if p, n := matchGlyph(s); p != nil {
			flush()
			runs = append(runs, run{text: s[:n], glyph: true})
			s = s[n:]
			continue
		}
		_, n := utf8.DecodeRuneInString(s)
		if s[:n] != variationSelector {
			plain.WriteString(s[:n])
		}
		s = s[n:]
	}
	flush()
	return runs
}

// Measure returns the advance width of s in pixels.
func (f *Font) Measure(s string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.measure(splitRuns(s))
}

func (f *Font) measure(runs []run) float64 {
	w := 0.0
	for _, r := range runs {
		if r.glyph {
			w += f.size * glyphAdvance
			continue
		}
		w += fixedToFloat(font.MeasureString(f.face, r.text))
	}
	return w
}

// Draw renders s with its baseline at y, anchored at x according to align.
func (f *Font) Draw(dst draw.Image, s string, x, y float64, c color.NRGBA, align Align) {
	f.mu.Lock()
	defer f.mu.Unlock()

	runs := splitRuns(s)
	switch align {
	case AlignCenter:
		x -= f.measure(runs) / 2
	case AlignRight:
		x -= f.measure(runs)
	}

	d := &font.Drawer{Dst: dst, Src: Uniform(c), Face: f.face}
	for _, r := range runs {
		if r.glyph {
			adv := f.size * glyphAdvance
			DrawGlyph(dst, r.text, Placement{
				X:     x + adv/2,
				Y:     y - f.size*0.35,
				Size:  f.size,
				Alpha: float64(c.A) / 255,
			})
			x += adv
			continue
		}
		d.Dot = fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(y)}
		d.DrawString(r.text)
		x = fixedToFloat(d.Dot.X)
	}
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

func floatToFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(v * 64) }
