// Package overlay draws the animated decorative frame shown over the live
// camera preview and burned into every snapshot.
package overlay

import (
	"image"
	"image/draw"
	"math"

	"github.com/cjeanneret/GoBooth/internal/render"
)

// Theme selects the overlay motif.
type Theme string

const (
	Hearts  Theme = "hearts"
	Flowers Theme = "flowers"
	Stars   Theme = "stars"
)

// Themes lists the supported motifs in display order.
func Themes() []Theme {
	return []Theme{Hearts, Flowers, Stars}
}

// ParseTheme returns the theme named s. Unknown names yield Hearts and false.
func ParseTheme(s string) (Theme, bool) {
	for _, t := range Themes() {
		if string(t) == s {
			return t, true
		}
	}
	return Hearts, false
}

var (
	heartGlyphs  = []string{"❤️", "💕", "💖", "💗"}
	flowerGlyphs = []string{"🌸", "🌺", "🌷", "🌻", "🌹"}
	starGlyphs   = []string{"⭐", "✨", "🌟", "💫"}
)

// Glyph sizes in pixels.
const (
	heartSize       = 24
	cornerHeartSize = 32
	flowerSize      = 22
	starSize        = 20
)

// Render clears dst and draws the motif for theme at time t (seconds).
// The result depends only on theme, t and the size of dst.
func Render(dst *image.RGBA, theme Theme, t float64) {
	draw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, draw.Src)

	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	ox, oy := float64(b.Min.X), float64(b.Min.Y)
	put := func(glyph string, x, y, size, angle, alpha float64) {
		render.DrawGlyph(dst, glyph, render.Placement{
			X: ox + x, Y: oy + y, Size: size, Angle: angle, Alpha: alpha,
		})
	}

	switch theme {
	case Flowers:
		drawFlowers(put, w, h, t)
	case Stars:
		drawStars(put, w, h, t)
	default:
		drawHearts(put, w, h, t)
	}
}

type putFunc func(glyph string, x, y, size, angle, alpha float64)

func drawHearts(put putFunc, w, h, t float64) {
	const count = 12
	r := math.Min(w, h) * 0.45
	for i := 0; i < count; i++ {
		fi := float64(i)
		angle := fi/count*2*math.Pi + t*0.3
		scale := 0.8 + math.Sin(t*2+fi)*0.2
		put(heartGlyphs[i%len(heartGlyphs)],
			w/2+math.Cos(angle)*r, h/2+math.Sin(angle)*r,
			heartSize*scale, math.Sin(t+fi)*0.3, 1)
	}

	corners := [4][2]float64{{30, 30}, {w - 30, 30}, {30, h - 30}, {w - 30, h - 30}}
	for i, c := range corners {
		s := 0.9 + math.Sin(t*3+float64(i)*1.5)*0.15
		put("💖", c[0], c[1], cornerHeartSize*s, 0, 1)
	}
}

func drawFlowers(put putFunc, w, h, t float64) {
	n := len(flowerGlyphs)
	for i := 0; i < 8; i++ {
		fi := float64(i)
		x := (fi + 0.5) * (w / 8)
		put(flowerGlyphs[i%n], x, 20+math.Sin(t*1.5+fi)*5, flowerSize, 0, 1)
		put(flowerGlyphs[(i+2)%n], x, h-20+math.Sin(t*1.5+fi+2)*5, flowerSize, 0, 1)
	}
	for i := 0; i < 5; i++ {
		fi := float64(i)
		y := (fi + 1) * (h / 6)
		put(flowerGlyphs[i%n], 20+math.Sin(t*1.2+fi)*4, y, flowerSize, 0, 1)
		put(flowerGlyphs[(i+1)%n], w-20+math.Sin(t*1.2+fi+1)*4, y, flowerSize, 0, 1)
	}
}

func drawStars(put putFunc, w, h, t float64) {
	const count = 16
	for i := 0; i < count; i++ {
		fi := float64(i)
		angle := fi/count*2*math.Pi + t*0.2
		r := math.Min(w, h)*0.42 + math.Sin(t*1.5+fi*0.8)*15
		alpha := 0.5 + math.Sin(t*3+fi)*0.5
		put(starGlyphs[i%len(starGlyphs)],
			w/2+math.Cos(angle)*r, h/2+math.Sin(angle)*r,
			starSize, 0, alpha)
	}
}
