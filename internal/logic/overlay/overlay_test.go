package overlay

import (
	"bytes"
	"context"
	"image"
	"sync"
	"testing"
	"time"
)

func opaquePixels(img *image.RGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			n++
		}
	}
	return n
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		in   string
		want Theme
		ok   bool
	}{
		{"hearts", Hearts, true},
		{"flowers", Flowers, true},
		{"stars", Stars, true},
		{"bubbles", Hearts, false},
		{"", Hearts, false},
	}
	for _, tt := range tests {
		got, ok := ParseTheme(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseTheme(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRender_EachThemeDraws(t *testing.T) {
	for _, theme := range Themes() {
		t.Run(string(theme), func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, 320, 240))
			Render(img, theme, 1.25)
			if opaquePixels(img) == 0 {
				t.Errorf("theme %s drew nothing", theme)
			}
			// The motifs are a frame: the centre of the picture stays clear.
			if _, _, _, a := img.At(160, 120).RGBA(); a != 0 {
				t.Errorf("theme %s covers the centre", theme)
			}
		})
	}
}

func TestRender_Deterministic(t *testing.T) {
	a := image.NewRGBA(image.Rect(0, 0, 200, 150))
	b := image.NewRGBA(image.Rect(0, 0, 200, 150))
	Render(a, Stars, 3.5)
	Render(b, Stars, 3.5)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("same theme and time should render identical pixels")
	}

	Render(b, Stars, 4.0)
	if bytes.Equal(a.Pix, b.Pix) {
		t.Error("different times should animate the overlay")
	}
}

func TestRender_ClearsPreviousFrame(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 150))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	Render(img, Hearts, 0)
	if _, _, _, a := img.At(100, 75).RGBA(); a != 0 {
		t.Error("Render should clear the canvas first")
	}
}

type fakeSizer struct {
	mu   sync.Mutex
	size image.Point
	ok   bool
}

func (f *fakeSizer) Size() (image.Point, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.size, f.ok
}

func (f *fakeSizer) set(size image.Point) {
	f.mu.Lock()
	f.size, f.ok = size, true
	f.mu.Unlock()
}

func TestAnimator_SkipsUntilSizeKnown(t *testing.T) {
	src := &fakeSizer{}
	a := NewAnimator(src, Hearts, time.Millisecond)

	if a.Step() {
		t.Fatal("Step should skip while size is unknown")
	}
	if a.Current() != nil {
		t.Fatal("no overlay expected before size is known")
	}

	src.set(image.Pt(160, 120))
	if !a.Step() {
		t.Fatal("Step should draw once size is known")
	}
	cur := a.Current()
	if cur == nil || cur.Bounds().Dx() != 160 || cur.Bounds().Dy() != 120 {
		t.Fatalf("overlay not sized to source: %v", cur)
	}
}

func TestAnimator_StartStop(t *testing.T) {
	src := &fakeSizer{}
	src.set(image.Pt(64, 48))
	a := NewAnimator(src, Flowers, 100*time.Microsecond)

	a.Start(context.Background())
	a.Start(context.Background()) // second start is a no-op
	if !a.Running() {
		t.Fatal("animator should be running")
	}

	deadline := time.Now().Add(time.Second)
	for a.Current() == nil && time.Now().Before(deadline) {
		time.Sleep(100 * time.Microsecond)
	}
	if a.Current() == nil {
		t.Fatal("animator never produced a frame")
	}

	a.Stop()
	if a.Running() {
		t.Error("animator still running after Stop")
	}
	if a.Current() != nil {
		t.Error("Stop should clear the overlay")
	}
	a.Stop() // stopping twice is safe
}

func TestAnimator_SetTheme(t *testing.T) {
	a := NewAnimator(&fakeSizer{}, Hearts, 0)
	a.SetTheme(Stars)
	if a.Theme() != Stars {
		t.Errorf("Theme() = %s, want stars", a.Theme())
	}
}
