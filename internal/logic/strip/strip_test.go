package strip

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
	"time"

	"github.com/cjeanneret/GoBooth/internal/render"
)

var fixedNow = time.Date(2026, time.February, 14, 19, 30, 0, 0, time.UTC)

func newTestRenderer() *Renderer {
	r := NewRenderer("vi-VN", "💕 Anh yêu em")
	r.Now = func() time.Time { return fixedNow }
	return r
}

func solidPhoto(c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func photos(n int) []image.Image {
	out := make([]image.Image, n)
	for i := range out {
		out[i] = solidPhoto(color.RGBA{R: uint8(40 * i), G: 90, B: 200, A: 255})
	}
	return out
}

func TestLookupTheme(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		known  bool
		title  string
		corner string
	}{
		{"pink", "pink", true, "Khoảnh khắc của mình", "💕"},
		{"gold", "gold", true, "Đẹp đôi nhất thế giới", "🥰"},
		{"blue", "blue", true, "", ""},
		{"classic", "classic", true, "Lại một năm mới vui vẻ", ""},
		{"neon", "pink", false, "Khoảnh khắc của mình", "💕"},
		{"", "pink", false, "Khoảnh khắc của mình", "💕"},
	}
	for _, tt := range tests {
		got, ok := LookupTheme(tt.name)
		if got.Name != tt.want || ok != tt.known {
			t.Errorf("LookupTheme(%q) = (%s, %v), want (%s, %v)", tt.name, got.Name, ok, tt.want, tt.known)
		}
		if got.Title != tt.title || got.Corner != tt.corner {
			t.Errorf("LookupTheme(%q) title/corner = %q/%q", tt.name, got.Title, got.Corner)
		}
		if len(got.Stops) != 3 {
			t.Errorf("LookupTheme(%q) has %d stops, want 3", tt.name, len(got.Stops))
		}
	}
}

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"pink", "gold", "blue", "classic"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("ThemeNames[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		locale string
		want   string
	}{
		{"vi-VN", "5/3/2026"},
		{"vi_VN", "5/3/2026"},
		{"en-US", "3/5/2026"},
		{"fr-FR", "05/03/2026"},
		{"xx", "2026-03-05"},
		{"", "2026-03-05"},
	}
	for _, tt := range tests {
		if got := FormatDate(d, tt.locale); got != tt.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestRender_FourShotsGold(t *testing.T) {
	r := newTestRenderer()
	s, err := r.Render(photos(4), "gold")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if s.Plan.Columns != 2 || s.Plan.Rows != 2 {
		t.Errorf("grid = %dx%d, want 2x2", s.Plan.Columns, s.Plan.Rows)
	}
	if s.Image.Bounds() != image.Rect(0, 0, 652, 597) {
		t.Errorf("bounds = %v, want 652x597", s.Image.Bounds())
	}
	if s.Theme.Name != "gold" {
		t.Errorf("theme = %s", s.Theme.Name)
	}
	if !s.CreatedAt.Equal(fixedNow) {
		t.Errorf("CreatedAt = %v", s.CreatedAt)
	}

	// Centre of each cell shows the photo.
	for i, cell := range s.Plan.Cells {
		c := cell.Min.Add(cell.Size().Div(2))
		got := s.Image.RGBAAt(c.X, c.Y)
		want := color.RGBA{R: uint8(40 * i), G: 90, B: 200, A: 255}
		if !near(got, want, 3) {
			t.Errorf("cell %d centre = %v, want %v", i, got, want)
		}
	}

	// Just outside a cell, the white matte is visible.
	cell := s.Plan.Cells[0]
	if got := s.Image.RGBAAt(cell.Min.X-2, cell.Min.Y+50); !near(got, color.RGBA{255, 255, 255, 255}, 3) {
		t.Errorf("matte pixel = %v, want white", got)
	}

	// The extreme corner lies outside the rounded background.
	if _, _, _, a := s.Image.At(0, 0).RGBA(); a != 0 {
		t.Error("corner pixel should be transparent")
	}

	// The border is drawn in the theme border colour.
	if got := s.Image.RGBAAt(1, 300); !near(got, rgba(render.MustHex("#ffa000")), 3) {
		t.Errorf("border pixel = %v", got)
	}
}

func TestRender_SingleAndEight(t *testing.T) {
	r := newTestRenderer()

	one, err := r.Render(photos(1), "pink")
	if err != nil {
		t.Fatalf("Render(1): %v", err)
	}
	if one.Plan.Columns != 1 || one.Plan.Rows != 1 || one.Image.Bounds().Dx() != 340 {
		t.Errorf("single strip plan = %+v", one.Plan)
	}

	eight, err := r.Render(photos(8), "classic")
	if err != nil {
		t.Fatalf("Render(8): %v", err)
	}
	if eight.Plan.Columns != 2 || eight.Plan.Rows != 4 || eight.Image.Bounds().Dy() != 1071 {
		t.Errorf("eight strip plan = %+v", eight.Plan)
	}
}

func TestRender_UnknownThemeFallsBackToPink(t *testing.T) {
	r := newTestRenderer()
	a, err := r.Render(photos(1), "does-not-exist")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b, err := r.Render(photos(1), "pink")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if a.Theme.Name != "pink" {
		t.Errorf("theme = %s, want pink", a.Theme.Name)
	}
	if !bytes.Equal(a.Image.Pix, b.Image.Pix) {
		t.Error("fallback strip should be identical to the pink strip")
	}
	if a.ID == b.ID {
		t.Error("each strip should get its own ID")
	}
}

func TestRender_NoPhotos(t *testing.T) {
	r := newTestRenderer()
	if _, err := r.Render(nil, "pink"); !errors.Is(err, ErrNoPhotos) {
		t.Errorf("err = %v, want ErrNoPhotos", err)
	}
}

func TestRenderPreview(t *testing.T) {
	r := newTestRenderer()
	tests := []struct {
		shots int
		w, h  int
	}{
		// 24 + 80 = 104; 28 + 12 + 60 + 12 + 22 = 134
		{1, 104, 134},
		// 24 + 166 = 190; 28 + 12 + 126 + 12 + 22 = 200
		{4, 190, 200},
		{8, 190, 332},
	}
	for _, tt := range tests {
		img := r.RenderPreview(tt.shots, "blue")
		if img.Bounds().Dx() != tt.w || img.Bounds().Dy() != tt.h {
			t.Errorf("preview(%d) = %v, want %dx%d", tt.shots, img.Bounds(), tt.w, tt.h)
		}
	}

	// Placeholder slots are grey around the camera icon.
	img := r.RenderPreview(4, "blue")
	if got := img.RGBAAt(12+3, 28+12+3); !near(got, color.RGBA{0xc0, 0xc0, 0xc0, 255}, 3) {
		t.Errorf("placeholder pixel = %v, want #c0c0c0", got)
	}
}

func near(a, b color.RGBA, tol int) bool {
	d := func(x, y uint8) bool {
		v := int(x) - int(y)
		return v >= -tol && v <= tol
	}
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func rgba(c color.NRGBA) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}
