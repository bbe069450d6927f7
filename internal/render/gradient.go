package render

import (
	"image"
	"image/color"
)

// Stop is one colour stop of a gradient. Offset is in [0,1].
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// LinearGradient is an image.Image painting a gradient along the segment
// (X0,Y0)-(X1,Y1), padded with the end colours beyond it.
type LinearGradient struct {
	Rect           image.Rectangle
	X0, Y0, X1, Y1 float64
	Stops          []Stop
}

// DiagonalGradient spans from the top-left to the bottom-right of r.
func DiagonalGradient(r image.Rectangle, stops []Stop) *LinearGradient {
	return &LinearGradient{
		Rect:  r,
		X0:    float64(r.Min.X),
		Y0:    float64(r.Min.Y),
		X1:    float64(r.Max.X),
		Y1:    float64(r.Max.Y),
		Stops: stops,
	}
}

func (g *LinearGradient) ColorModel() color.Model { return color.NRGBAModel }

func (g *LinearGradient) Bounds() image.Rectangle { return g.Rect }

func (g *LinearGradient) At(x, y int) color.Color {
	dx, dy := g.X1-g.X0, g.Y1-g.Y0
	den := dx*dx + dy*dy
	t := 0.0
	if den > 0 {
		t = ((float64(x)+0.5-g.X0)*dx + (float64(y)+0.5-g.Y0)*dy) / den
	}
	return g.ColorAt(t)
}

// ColorAt returns the gradient colour at position t along the axis.
// Stops are applied in listed order.
func (g *LinearGradient) ColorAt(t float64) color.NRGBA {
	if len(g.Stops) == 0 {
		return color.NRGBA{}
	}
	t = clamp01(t)
	if t <= g.Stops[0].Offset {
		return g.Stops[0].Color
	}
	for i := 1; i < len(g.Stops); i++ {
		a, b := g.Stops[i-1], g.Stops[i]
		if t <= b.Offset {
			span := b.Offset - a.Offset
			if span <= 0 {
				return b.Color
			}
			f := (t - a.Offset) / span
			return color.NRGBA{
				R: lerp8(a.Color.R, b.Color.R, f),
				G: lerp8(a.Color.G, b.Color.G, f),
				B: lerp8(a.Color.B, b.Color.B, f),
				A: lerp8(a.Color.A, b.Color.A, f),
			}
		}
	}
	return g.Stops[len(g.Stops)-1].Color
}
