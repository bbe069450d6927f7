// Package geometry lays out photo strips: grid shape, canvas size and cell
// rectangles for a given photo count.
package geometry

import "image"

// Metrics holds the pixel dimensions a strip is laid out with.
type Metrics struct {
	CellWidth    int // photo width
	CellHeight   int // photo height
	Padding      int // space between the border and the photo block
	Gap          int // space between photos
	HeaderHeight int // title band above the photos
	FooterHeight int // date band below the photos

	OuterRadius float64 // strip corner radius
	CellRadius  float64 // photo corner radius
	BorderWidth float64 // strip border line width
}

// FullMetrics is the layout of the exported strip (4:3 photos).
var FullMetrics = Metrics{
	CellWidth:    300,
	CellHeight:   225,
	Padding:      20,
	Gap:          12,
	HeaderHeight: 50,
	FooterHeight: 45,
	OuterRadius:  16,
	CellRadius:   10,
	BorderWidth:  3,
}

// PreviewMetrics is the reduced-scale layout shown before capture.
var PreviewMetrics = Metrics{
	CellWidth:    80,
	CellHeight:   60,
	Padding:      12,
	Gap:          6,
	HeaderHeight: 28,
	FooterHeight: 22,
	OuterRadius:  10,
	CellRadius:   5,
	BorderWidth:  2,
}

// StripPlan is the layout of a strip: grid shape, canvas size and one cell
// rectangle per photo, in shot order (row-major).
type StripPlan struct {
	Columns int
	Rows    int
	Width   int
	Height  int
	Cells   []image.Rectangle
	Metrics Metrics
}

// GridFor returns the grid shape for count photos:
// 1 → 1×1, 2-4 → 2×2, 5 and more → 2×4.
func GridFor(count int) (columns, rows int) {
	switch {
	case count <= 1:
		return 1, 1
	case count <= 4:
		return 2, 2
	default:
		return 2, 4
	}
}

// PlanStrip computes the layout for count photos. It is a pure function
// of its arguments. Cells beyond the grid capacity are not laid out.
func PlanStrip(count int, m Metrics) StripPlan {
	cols, rows := GridFor(count)

	width := m.Padding*2 + cols*m.CellWidth + (cols-1)*m.Gap
	height := m.HeaderHeight + m.Padding + rows*m.CellHeight + (rows-1)*m.Gap + m.Padding + m.FooterHeight

	n := count
	if n > cols*rows {
		n = cols * rows
	}
	if n < 0 {
		n = 0
	}
	cells := make([]image.Rectangle, n)
	for i := range cells {
		col, row := i%cols, i/cols
		x := m.Padding + col*(m.CellWidth+m.Gap)
		y := m.HeaderHeight + m.Padding + row*(m.CellHeight+m.Gap)
		cells[i] = image.Rect(x, y, x+m.CellWidth, y+m.CellHeight)
	}

	return StripPlan{
		Columns: cols,
		Rows:    rows,
		Width:   width,
		Height:  height,
		Cells:   cells,
		Metrics: m,
	}
}

// Bounds returns the canvas rectangle of the plan.
func (p StripPlan) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.Width, p.Height)
}

// FooterTop returns the y coordinate where the footer band starts.
func (p StripPlan) FooterTop() int {
	return p.Height - p.Metrics.FooterHeight
}
