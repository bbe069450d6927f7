package render

import (
	"image/color"
	"image/draw"
	"math"
	"sort"
	"strings"
)

// Placement positions a glyph: centre, em size, rotation (radians) and
// opacity (0..1).
type Placement struct {
	X, Y  float64
	Size  float64
	Angle float64
	Alpha float64
}

type glyphPainter func(dst draw.Image, at Placement)

// Emoji fonts are not available to the Go font stack, so the decorative
// glyphs used by themes, overlays and stickers are drawn as vector shapes.
var glyphs = map[string]glyphPainter{
	"❤": heartGlyph(MustHex("#e53935")),
	"💕": twoHeartsGlyph(MustHex("#ff5c8a"), MustHex("#ff9eb8")),
	"💖": sparklingHeartGlyph(MustHex("#ff4f9a")),
	"💗": heartGlyph(MustHex("#ff6fa3")),
	"🌸": flowerGlyph(MustHex("#f8bbd0"), MustHex("#fff59d")),
	"🌺": flowerGlyph(MustHex("#e53950"), MustHex("#ffd54f")),
	"🌷": flowerGlyph(MustHex("#f06292"), MustHex("#ad1457")),
	"🌻": flowerGlyph(MustHex("#fbc02d"), MustHex("#6d4c41")),
	"🌹": flowerGlyph(MustHex("#c2185b"), MustHex("#880e4f")),
	"⭐": starGlyph(MustHex("#ffca28")),
	"🌟": starGlyph(MustHex("#ffd54f")),
	"✨": sparkleGlyph(MustHex("#fff176")),
	"💫": sparkleGlyph(MustHex("#ffe082")),
	"🥰": smileyGlyph(MustHex("#ffcc4d"), MustHex("#ff4f7b")),
	"📷": cameraGlyph(MustHex("#888888")),
	"🎆": sparkleGlyph(MustHex("#90caf9")),
	"🧧": envelopeGlyph(MustHex("#d32f2f"), MustHex("#ffca28")),
	"🎂": cakeGlyph(MustHex("#f8bbd0"), MustHex("#8d6e63")),
	"🎀": bowGlyph(MustHex("#ff4f9a")),
	"💍": ringGlyph(MustHex("#ffca28"), MustHex("#b3e5fc")),
	"🌙": moonGlyph(MustHex("#ffe082")),
	"👑": crownGlyph(MustHex("#ffc107")),
	"🌈": rainbowGlyph(),
	"💌": envelopeGlyph(MustHex("#f48fb1"), MustHex("#e53935")),
	"💝": heartGlyph(MustHex("#ec407a")),
	"🦋": bowGlyph(MustHex("#42a5f5")),
	"💐": flowerGlyph(MustHex("#ce93d8"), MustHex("#fff59d")),
	"🌼": flowerGlyph(MustHex("#fff176"), MustHex("#ff8f00")),
	"💞": twoHeartsGlyph(MustHex("#ec407a"), MustHex("#f48fb1")),
	"🎈": balloonGlyph(MustHex("#e53935")),
	"🧸": smileyGlyph(MustHex("#a1887f"), MustHex("#4e342e")),
}

// glyphKeys is sorted by decreasing length so matching prefers the longest key.
var glyphKeys = func() []string {
	keys := make([]string, 0, len(glyphs))
	for k := range glyphs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

const variationSelector = "\ufe0f"

// matchGlyph returns the glyph at the start of s and the number of bytes it
// spans (including a trailing variation selector).
func matchGlyph(s string) (glyphPainter, int) {
	for _, k := range glyphKeys {
		if strings.HasPrefix(s, k) {
			n := len(k)
			if strings.HasPrefix(s[n:], variationSelector) {
				n += len(variationSelector)
			}
			return glyphs[k], n
		}
	}
	return nil, 0
}

// IsGlyph reports whether s is exactly one known vector glyph.
func IsGlyph(s string) bool {
	p, n := matchGlyph(s)
	return p != nil && n == len(s)
}

// DrawGlyph draws glyph at the given placement. It returns false (and draws
// nothing) when the glyph has no vector form.
func DrawGlyph(dst draw.Image, glyph string, at Placement) bool {
	p, n := matchGlyph(glyph)
	if p == nil || n != len(glyph) {
		return false
	}
	p(dst, at)
	return true
}

func paint(dst draw.Image, shape Path, at Placement, c color.NRGBA) {
	Fill(dst, shape.Transform(at.Size, at.Angle, at.X, at.Y), Uniform(WithAlpha(c, at.Alpha)))
}

// offset returns the placement moved by (dx, dy) in glyph units, honouring
// rotation, and scaled by s.
func (at Placement) offset(dx, dy, s float64) Placement {
	sin, cos := math.Sincos(at.Angle)
	x, y := dx*at.Size, dy*at.Size
	return Placement{
		X:     at.X + x*cos - y*sin,
		Y:     at.Y + x*sin + y*cos,
		Size:  at.Size * s,
		Angle: at.Angle,
		Alpha: at.Alpha,
	}
}

func heartGlyph(c color.NRGBA) glyphPainter {
	return func(dst draw.Image, at Placement) {
		paint(dst, Heart(), at.offset(0, 0, 0.9), c)
	}
}

func twoHeartsGlyph(big, small color.NRGBA) glyphPainter {
	return func(dst draw.Image, at Placement) {
		paint(dst, Heart(), at.offset(-0.12, 0.1, 0.7), big)
		paint(dst, Heart(), at.offset(0.25, -0.22, 0.45), small)
	}
}

func sparklingHeartGlyph(c color.NRGBA) glyphPainter {
	return func(dst draw.Image, at Placement) {
		paint(dst, Heart(), at.offset(0, 0.05, 0.85), c)
		paint(dst, Star(4, 0.5, 0.12), at.offset(0.32, -0.32, 0.35), MustHex("#fff59d"))
	}
}

func flowerGlyph(petal, centre color.NRGBA) glyphPainter {
	return func(dst draw.Image, at Placement) {
		for i := 0; i < 5; i++ {
			a := float64(i) * 2 * math.Pi / 5
			paint(dst, Circle(0, 0, 0.5), at.offset(0.25*math.Sin(a), -0.25*math.Cos(a), 0.48), petal)
		}
		paint(dst, Circle(0, 0, 0.5), at.offset(0, 0, 0.3), centre)
	}
}

func starGlyph(c color.NRGBA) glyphPainter {
	return func(dst draw.Image, at Placement) {
		paint(dst, Star(5, 0.5, 0.2), at.offset(0, 0.03, 1), c)
	}
}

func sparkleGlyph(c color.NRGBA) glyphPainter {
	return func(dst draw.Image, at Placement) {
		paint(dst, Star(4, 0.5, 0.1), at.offset(-0.08, 0.08, 0.8), c)
		paint(dst, Star(4, 0.5, 0.1), at.offset(0.3, -0.3, 0.35), c)
	}
}

func smileyGlyph(face, accent color.NRGBA) glyphPainter {
	return func(dst draw.Image, at Placement) {
		paint(dst, Circle(0, 0, 0.5), at.offset(0, 0, 0.9), face)
		paint(dst, Circle(0, 0, 0.5), at.offset(-0.15, -0.08, 0.12), MustHex("#5d4037"))
		paint(dst, Circle(0, 0, 0.5), at.offset(0.15, -0.08, 0.12), MustHex("#5d4037"))
		paint(dst, Heart(), at.offset(-0.38, 0.3, 0.3), accent)
		paint(dst, Heart(), at.offset(0.4, 0.25, 0.25), accent)
	}
}

func cameraGlyph(c color.NRGBA) glyphPainter {
	return func(dst draw.Image, at Placement) {
		paint(dst, RoundRect(-0.45, -0.28, 0.9, 0.62, 0.1, false), at, c)
		paint(dst, RoundRect(-0.18, -0.4, 0.36, 0.16, 0.04, false), at, c)
		paint(dst, Circle(0, 0.03, 0.2), at, MustHex("#eeeeee"))
		paint(dst, Circle(0, 0.03, 0.11), at, c)
	}
}

func envelopeGlyph(body, seal color.NRGBA) glyphPainter {
	return func(dst draw.Image, at Placement) {
		paint(dst, RoundRect(-0.32, -0.45, 0.64, 0.9, 0.06, false), at, body)
		paint(dst, Circle(0, 0, 0.5), at.offset(0, -0.05, 0.25), seal)
	}
}

func cakeGlyph(icing, sponge color.NRGBA) glyphPainter {
	return func(dst draw.Image, at Placement) {
		paint(dst, RoundRect(-0.42, -0.05, 0.84, 0.45, 0.05, false), at, sponge)
		paint(dst, RoundRect(-0.42, -0.15, 0.84, 0.18, 0.08, false), at, icing)
		paint(dst, RoundRect(-0.03, -0.45, 0.06, 0.3, 0.02, false), at, MustHex("#fff9c4"))
		paint(dst, Circle(0, 0, 0.5), at.offset(0, -0.48, 0.1), MustHex("#ff9800"))
	}
}

func bowGlyph(c color.NRGBA) glyphPainter {
	return func(dst draw.Image, at Placement) {
		var left, right Path
		left.MoveTo(0, 0)
		left.LineTo(-0.48, -0.3)
		left.LineTo(-0.48, 0.3)
		left.Close()
		right.MoveTo(0, 0)
		right.LineTo(0.48, 0.3)
		right.LineTo(0.48, -0.3)
		right.Close()
		paint(dst, left, at, c)
		paint(dst, right, at, c)
		paint(dst, Circle(0, 0, 0.12), at, c)
	}
}

func ringGlyph(band, stone color.NRGBA) glyphPainter {
	return func(dst draw.Image, at Placement) {
		ring := Circle(0, 0.12, 0.35)
		ring.Append(reverseCircle(0, 0.12, 0.26))
		paint(dst, ring, at, band)
		paint(dst, Star(4, 0.2, 0.12), at.offset(0, -0.3, 1), stone)
	}
}

func moonGlyph(c color.NRGBA) glyphPainter {
	return func(dst draw.Image, at Placement) {
		moon := Circle(0, 0, 0.42)
		moon.Append(reverseCircle(0.18, -0.1, 0.36))
		paint(dst, moon, at, c)
	}
}

func crownGlyph(c color.NRGBA) glyphPainter {
	return func(dst draw.Image, at Placement) {
		var p Path
		p.MoveTo(-0.45, 0.3)
		p.LineTo(-0.45, -0.25)
		p.LineTo(-0.22, 0)
		p.LineTo(0, -0.35)
		p.LineTo(0.22, 0)
		p.LineTo(0.45, -0.25)
		p.LineTo(0.45, 0.3)
		p.Close()
		paint(dst, p, at, c)
	}
}

func balloonGlyph(c color.NRGBA) glyphPainter {
	return func(dst draw.Image, at Placement) {
		paint(dst, Circle(0, -0.1, 0.34), at, c)
		paint(dst, RoundRect(-0.01, 0.22, 0.02, 0.26, 0.01, false), at, MustHex("#9e9e9e"))
	}
}

func rainbowGlyph() glyphPainter {
	bands := []color.NRGBA{MustHex("#e53935"), MustHex("#fb8c00"), MustHex("#fdd835"), MustHex("#43a047"), MustHex("#1e88e5")}
	return func(dst draw.Image, at Placement) {
		for i, c := range bands {
			r := 0.48 - float64(i)*0.06
			band := Circle(0, 0.2, r)
			band.Append(reverseCircle(0, 0.2, r-0.06))
			paint(dst, band, at, c)
		}
	}
}

// reverseCircle is Circle traced in the opposite direction, used to cut holes.
func reverseCircle(cx, cy, r float64) Path {
	k := r * circleK
	var p Path
	p.MoveTo(cx+r, cy)
	p.CubeTo(cx+r, cy-k, cx+k, cy-r, cx, cy-r)
	p.CubeTo(cx-k, cy-r, cx-r, cy-k, cx-r, cy)
	p.CubeTo(cx-r, cy+k, cx-k, cy+r, cx, cy+r)
	p.CubeTo(cx+k, cy+r, cx+r, cy+k, cx+r, cy)
	p.Close()
	return p
}
