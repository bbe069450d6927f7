// Package strip renders captured photos into a themed photo strip, and the
// reduced-scale preview shown before capture.
package strip

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	"github.com/cjeanneret/GoBooth/internal/debug"
	"github.com/cjeanneret/GoBooth/internal/logic/geometry"
	"github.com/cjeanneret/GoBooth/internal/render"
)

// ErrNoPhotos is returned when a strip is requested without photos.
var ErrNoPhotos = errors.New("strip: no photos")

// Strip is a rendered strip image with its layout.
type Strip struct {
	ID        uuid.UUID
	Image     *image.RGBA
	Plan      geometry.StripPlan
	Theme     Theme
	CreatedAt time.Time
}

// style holds the text and decoration sizes that go with a set of metrics.
type style struct {
	metrics geometry.Metrics

	title        *render.Font
	titleInset   float64 // title baseline above the end of the header
	footer       *render.Font
	footerInset  float64 // footer baseline above the bottom edge
	corner       *render.Font
	cornerX      float64
	cornerTop    float64
	cornerBottom float64 // corner baseline above the bottom edge
	matte        float64 // matte width around each photo
	matteRadius  float64
}

// Renderer draws strips and previews. It is safe for concurrent use.
type Renderer struct {
	Locale  string
	Caption string
	Now     func() time.Time

	full    style
	preview style
}

// placeholderIconSize is the camera glyph size on empty preview slots.
const placeholderIconSize = 18

// NewRenderer creates a renderer stamping dates in locale and the caption
// in the footer.
func NewRenderer(locale, caption string) *Renderer {
	return &Renderer{
		Locale:  locale,
		Caption: caption,
		Now:     time.Now,
		full: style{
			metrics:      geometry.FullMetrics,
			title:        render.NewFont(true, 22),
			titleInset:   10,
			footer:       render.NewFont(false, 16),
			footerInset:  22,
			corner:       render.NewFont(false, 18),
			cornerX:      25,
			cornerTop:    30,
			cornerBottom: 15,
			matte:        3,
			matteRadius:  geometry.FullMetrics.CellRadius + 2,
		},
		preview: style{
			metrics:      geometry.PreviewMetrics,
			title:        render.NewFont(true, 11),
			titleInset:   6,
			footer:       render.NewFont(false, 9),
			footerInset:  6,
			corner:       render.NewFont(false, 10),
			cornerX:      14,
			cornerTop:    14,
			cornerBottom: 4,
			matte:        2,
			matteRadius:  geometry.PreviewMetrics.CellRadius + 1,
		},
	}
}

// Render lays out photos in shot order on a strip in the named theme.
// Unknown theme names fall back to pink.
func (r *Renderer) Render(photos []image.Image, themeName string) (*Strip, error) {
	if len(photos) == 0 {
		return nil, ErrNoPhotos
	}
	theme, ok := LookupTheme(themeName)
	if !ok {
		debug.Verbose("Unknown strip theme %q, using %s", themeName, theme.Name)
	}
	now := r.Now()
	plan := geometry.PlanStrip(len(photos), geometry.FullMetrics)
	img := image.NewRGBA(plan.Bounds())

	r.drawFrame(img, plan, theme, r.full)
	for i, cell := range plan.Cells {
		drawPhotoShadow(img, cell, r.full)
		drawMatte(img, cell, theme, r.full)
		drawPhoto(img, cell, photos[i], r.full.metrics.CellRadius)
	}
	r.drawFooter(img, plan, theme, r.full, now)

	debug.Summary("Strip ready")
	debug.Strip(plan.Columns, plan.Rows, len(photos), theme.Name)
	return &Strip{
		ID:        uuid.New(),
		Image:     img,
		Plan:      plan,
		Theme:     theme,
		CreatedAt: now,
	}, nil
}

// RenderPreview draws the empty strip for shots photos, each slot showing a
// camera placeholder.
func (r *Renderer) RenderPreview(shots int, themeName string) *image.RGBA {
	theme, _ := LookupTheme(themeName)
	now := r.Now()
	plan := geometry.PlanStrip(shots, geometry.PreviewMetrics)
	img := image.NewRGBA(plan.Bounds())

	r.drawFrame(img, plan, theme, r.preview)
	placeholder := render.Uniform(render.MustHex("#c0c0c0"))
	for _, cell := range plan.Cells {
		drawMatte(img, cell, theme, r.preview)
		render.Fill(img, roundCell(cell, r.preview.metrics.CellRadius), placeholder)
		c := center(cell)
		render.DrawGlyph(img, "📷", render.Placement{X: c.x, Y: c.y, Size: placeholderIconSize, Alpha: 1})
	}
	r.drawFooter(img, plan, theme, r.preview, now)

	debug.Trace("Preview rendered: %d slots, theme %s, %dx%d", len(plan.Cells), theme.Name, plan.Width, plan.Height)
	return img
}

// drawFrame paints background, border and title.
func (r *Renderer) drawFrame(img *image.RGBA, plan geometry.StripPlan, theme Theme, s style) {
	w, h := float64(plan.Width), float64(plan.Height)
	m := s.metrics

	render.Fill(img, render.RoundRect(0, 0, w, h, m.OuterRadius, false),
		render.DiagonalGradient(plan.Bounds(), theme.Stops))

	lw := m.BorderWidth
	render.Fill(img, render.RoundRectRing(lw/2, lw/2, w-lw, h-lw, m.OuterRadius, lw),
		render.Uniform(theme.Border))

	if theme.Title != "" {
		s.title.Draw(img, theme.Title, w/2, float64(m.HeaderHeight)-s.titleInset, theme.Text, render.AlignCenter)
	}
}

// drawFooter stamps date and caption and the corner glyphs.
func (r *Renderer) drawFooter(img *image.RGBA, plan geometry.StripPlan, theme Theme, s style, now time.Time) {
	w, h := float64(plan.Width), float64(plan.Height)

	footer := FormatDate(now, r.Locale)
	if r.Caption != "" {
		footer += "  " + r.Caption
	}
	s.footer.Draw(img, footer, w/2, h-s.footerInset, theme.Subtext, render.AlignCenter)

	if theme.Corner == "" {
		return
	}
	corners := [4][2]float64{
		{s.cornerX, s.cornerTop},
		{w - s.cornerX, s.cornerTop},
		{s.cornerX, h - s.cornerBottom},
		{w - s.cornerX, h - s.cornerBottom},
	}
	for _, c := range corners {
		s.corner.Draw(img, theme.Corner, c[0], c[1], theme.Text, render.AlignCenter)
	}
}

type point struct{ x, y float64 }

func center(r image.Rectangle) point {
	return point{float64(r.Min.X+r.Max.X) / 2, float64(r.Min.Y+r.Max.Y) / 2}
}

func roundCell(cell image.Rectangle, radius float64) render.Path {
	return render.RoundRect(float64(cell.Min.X), float64(cell.Min.Y),
		float64(cell.Dx()), float64(cell.Dy()), radius, false)
}

// Shadow: rgba(0,0,0,0.2), blur 8, offset y 3, approximated by stacked
// translucent layers.
const (
	shadowAlpha   = 0.2
	shadowBlur    = 8.0
	shadowOffsetY = 3.0
	shadowLayers  = 4
)

func drawPhotoShadow(img *image.RGBA, cell image.Rectangle, s style) {
	x := float64(cell.Min.X) - s.matte
	y := float64(cell.Min.Y) - s.matte + shadowOffsetY
	w := float64(cell.Dx()) + 2*s.matte
	h := float64(cell.Dy()) + 2*s.matte
	for i := shadowLayers; i >= 1; i-- {
		grow := shadowBlur / 2 * float64(i) / shadowLayers
		shade := render.WithAlpha(color.NRGBA{A: 255}, shadowAlpha/shadowLayers)
		render.Fill(img, render.RoundRect(x-grow, y-grow, w+2*grow, h+2*grow, s.matteRadius+grow, false),
			render.Uniform(shade))
	}
}

func drawMatte(img *image.RGBA, cell image.Rectangle, theme Theme, s style) {
	render.Fill(img, render.RoundRect(
		float64(cell.Min.X)-s.matte, float64(cell.Min.Y)-s.matte,
		float64(cell.Dx())+2*s.matte, float64(cell.Dy())+2*s.matte,
		s.matteRadius, false),
		render.Uniform(theme.PhotoBorder))
}

// drawPhoto stretches photo to the cell and clips it to rounded corners.
func drawPhoto(img *image.RGBA, cell image.Rectangle, photo image.Image, radius float64) {
	scaled := image.NewRGBA(cell)
	xdraw.CatmullRom.Scale(scaled, cell, photo, photo.Bounds(), draw.Src, nil)
	render.Fill(img, roundCell(cell, radius), scaled)
}
