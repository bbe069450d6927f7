package strip

import (
	"image/color"

	"github.com/cjeanneret/GoBooth/internal/render"
)

// Theme is the look of a strip.
type Theme struct {
	Name        string
	Stops       []render.Stop // diagonal background gradient
	Border      color.NRGBA
	Text        color.NRGBA // title
	Subtext     color.NRGBA // footer
	PhotoBorder color.NRGBA // matte around each photo
	Title       string
	Corner      string // glyph drawn in the four corners, may be empty
}

// DefaultTheme is used for unknown theme names.
const DefaultTheme = "pink"

func stops(edge, middle string) []render.Stop {
	return []render.Stop{
		{Offset: 0, Color: render.MustHex(edge)},
		{Offset: 0.5, Color: render.MustHex(middle)},
		{Offset: 1, Color: render.MustHex(edge)},
	}
}

var themes = []Theme{
	{
		Name:        "pink",
		Stops:       stops("#ffe0ec", "#ffb3c6"),
		Border:      render.MustHex("#e8456b"),
		Text:        render.MustHex("#b0234b"),
		Subtext:     render.MustHex("#c94070"),
		PhotoBorder: render.MustHex("#fff"),
		Title:       "Khoảnh khắc của mình",
		Corner:      "💕",
	},
	{
		Name:        "gold",
		Stops:       stops("#fff8e1", "#ffe082"),
		Border:      render.MustHex("#ffa000"),
		Text:        render.MustHex("#bf6900"),
		Subtext:     render.MustHex("#c98600"),
		PhotoBorder: render.MustHex("#fff"),
		Title:       "Đẹp đôi nhất thế giới",
		Corner:      "🥰",
	},
	{
		Name:        "blue",
		Stops:       stops("#e3f2fd", "#90caf9"),
		Border:      render.MustHex("#1976d2"),
		Text:        render.MustHex("#0d47a1"),
		Subtext:     render.MustHex("#1565c0"),
		PhotoBorder: render.MustHex("#fff"),
	},
	{
		Name:        "classic",
		Stops:       stops("#fafafa", "#f0f0f0"),
		Border:      render.MustHex("#999"),
		Text:        render.MustHex("#333"),
		Subtext:     render.MustHex("#666"),
		PhotoBorder: render.MustHex("#fff"),
		Title:       "Lại một năm mới vui vẻ",
	},
}

// LookupTheme returns the theme called name. Unknown names return the pink
// theme and false.
func LookupTheme(name string) (Theme, bool) {
	for _, t := range themes {
		if t.Name == name {
			return t, true
		}
	}
	t, _ := LookupTheme(DefaultTheme)
	return t, false
}

// ThemeNames lists the available themes in display order.
func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
