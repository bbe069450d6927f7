// Package render holds the 2D drawing primitives shared by the overlay,
// the snapshot compositor and the strip renderer: vector paths rasterized
// with golang.org/x/image/vector, gradients, vector glyphs and text.
package render

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

type segKind uint8

const (
	segMove segKind = iota
	segLine
	segQuad
	segCube
	segClose
)

type segment struct {
	kind segKind
	pts  [3][2]float64
}

// Path is a recorded vector outline that can be transformed and filled
// any number of times.
type Path struct {
	segs []segment
}

func (p *Path) MoveTo(x, y float64) {
	p.segs = append(p.segs, segment{kind: segMove, pts: [3][2]float64{{x, y}}})
}

func (p *Path) LineTo(x, y float64) {
	p.segs = append(p.segs, segment{kind: segLine, pts: [3][2]float64{{x, y}}})
}

func (p *Path) QuadTo(bx, by, cx, cy float64) {
	p.segs = append(p.segs, segment{kind: segQuad, pts: [3][2]float64{{bx, by}, {cx, cy}}})
}

func (p *Path) CubeTo(bx, by, cx, cy, dx, dy float64) {
	p.segs = append(p.segs, segment{kind: segCube, pts: [3][2]float64{{bx, by}, {cx, cy}, {dx, dy}}})
}

func (p *Path) Close() {
	p.segs = append(p.segs, segment{kind: segClose})
}

// Append adds all segments of q to p.
func (p *Path) Append(q Path) {
	p.segs = append(p.segs, q.segs...)
}

// Transform returns a copy of p scaled by s, rotated by angle (radians)
// around the origin, then translated by (tx, ty).
func (p Path) Transform(s, angle, tx, ty float64) Path {
	sin, cos := math.Sincos(angle)
	out := Path{segs: make([]segment, len(p.segs))}
	for i, seg := range p.segs {
		out.segs[i] = seg
		for j := range seg.pts {
			x, y := seg.pts[j][0]*s, seg.pts[j][1]*s
			out.segs[i].pts[j] = [2]float64{x*cos - y*sin + tx, x*sin + y*cos + ty}
		}
	}
	return out
}

// Fill rasterizes p onto dst using src as the paint, composited with
// draw.Over. Coordinates are in dst's pixel space.
func Fill(dst draw.Image, p Path, src image.Image) {
	b := dst.Bounds()
	if b.Empty() || len(p.segs) == 0 {
		return
	}
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	ox, oy := float64(b.Min.X), float64(b.Min.Y)
	pt := func(v [2]float64) (float32, float32) {
		return float32(v[0] - ox), float32(v[1] - oy)
	}
	open := false
	for _, seg := range p.segs {
		switch seg.kind {
		case segMove:
			if open {
				z.ClosePath()
			}
			z.MoveTo(pt(seg.pts[0]))
			open = true
		case segLine:
			z.LineTo(pt(seg.pts[0]))
		case segQuad:
			bx, by := pt(seg.pts[0])
			cx, cy := pt(seg.pts[1])
			z.QuadTo(bx, by, cx, cy)
		case segCube:
			bx, by := pt(seg.pts[0])
			cx, cy := pt(seg.pts[1])
			dx, dy := pt(seg.pts[2])
			z.CubeTo(bx, by, cx, cy, dx, dy)
		case segClose:
			z.ClosePath()
			open = false
		}
	}
	if open {
		z.ClosePath()
	}
	z.Draw(dst, b, src, b.Min)
}

// RoundRect returns a rounded rectangle outline. The path runs clockwise
// (in screen coordinates) unless ccw is set; a ccw rectangle inside a cw one
// cuts a hole, which is how borders are stroked.
func RoundRect(x, y, w, h, r float64, ccw bool) Path {
	if r > w/2 {
		r = w / 2
	}
	if r > h/2 {
		r = h / 2
	}
	if r < 0 {
		r = 0
	}
	var p Path
	if !ccw {
		p.MoveTo(x+r, y)
		p.LineTo(x+w-r, y)
		p.QuadTo(x+w, y, x+w, y+r)
		p.LineTo(x+w, y+h-r)
		p.QuadTo(x+w, y+h, x+w-r, y+h)
		p.LineTo(x+r, y+h)
		p.QuadTo(x, y+h, x, y+h-r)
		p.LineTo(x, y+r)
		p.QuadTo(x, y, x+r, y)
	} else {
		p.MoveTo(x+r, y)
		p.QuadTo(x, y, x, y+r)
		p.LineTo(x, y+h-r)
		p.QuadTo(x, y+h, x+r, y+h)
		p.LineTo(x+w-r, y+h)
		p.QuadTo(x+w, y+h, x+w, y+h-r)
		p.LineTo(x+w, y+r)
		p.QuadTo(x+w, y, x+w-r, y)
		p.LineTo(x+r, y)
	}
	p.Close()
	return p
}

// RoundRectRing returns the outline of a rounded-rectangle border of the
// given line width centred on the rectangle edge.
func RoundRectRing(x, y, w, h, r, lineWidth float64) Path {
	hw := lineWidth / 2
	p := RoundRect(x-hw, y-hw, w+lineWidth, h+lineWidth, r+hw, false)
	p.Append(RoundRect(x+hw, y+hw, w-lineWidth, h-lineWidth, math.Max(r-hw, 0), true))
	return p
}

// circleK is the cubic Bézier handle length for a quarter circle.
const circleK = 0.5522847498

// Circle returns a circle outline built from four cubic arcs.
func Circle(cx, cy, r float64) Path {
	k := r * circleK
	var p Path
	p.MoveTo(cx+r, cy)
	p.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	p.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	p.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	p.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	p.Close()
	return p
}

// Heart returns a heart of unit size centred on the origin (width and
// height about 1). Scale it with Transform.
func Heart() Path {
	var p Path
	p.MoveTo(0, 0.45)
	p.CubeTo(-0.15, 0.32, -0.5, 0.1, -0.5, -0.15)
	p.CubeTo(-0.5, -0.38, -0.32, -0.5, -0.25, -0.5)
	p.CubeTo(-0.1, -0.5, 0, -0.4, 0, -0.28)
	p.CubeTo(0, -0.4, 0.1, -0.5, 0.25, -0.5)
	p.CubeTo(0.32, -0.5, 0.5, -0.38, 0.5, -0.15)
	p.CubeTo(0.5, 0.1, 0.15, 0.32, 0, 0.45)
	p.Close()
	return p
}

// Star returns an n-pointed star centred on the origin with the given outer
// and inner radii, first point facing up.
func Star(points int, outer, inner float64) Path {
	var p Path
	for i := 0; i < points*2; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := float64(i)*math.Pi/float64(points) - math.Pi/2
		x, y := r*math.Cos(a), r*math.Sin(a)
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	p.Close()
	return p
}
