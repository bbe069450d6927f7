// Package compositor turns a live camera frame into a captured photo:
// mirrored like the preview, with the current overlay burned in.
package compositor

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Compose returns a new RGBA image the size of frame: frame mirrored
// horizontally (dst(x,y) = src(W-1-x,y)) with overlay drawn over it.
// overlay may be nil; if its size differs from the frame it is scaled.
func Compose(frame image.Image, overlay image.Image) *image.RGBA {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	out := Mirror(frame)

	if overlay != nil && !overlay.Bounds().Empty() {
		dstRect := image.Rect(0, 0, w, h)
		if overlay.Bounds().Size() == dstRect.Size() {
			draw.Draw(out, dstRect, overlay, overlay.Bounds().Min, draw.Over)
		} else {
			xdraw.ApproxBiLinear.Scale(out, dstRect, overlay, overlay.Bounds(), draw.Over, nil)
		}
	}
	return out
}

// Mirror returns a horizontally flipped copy of src anchored at (0,0).
func Mirror(src image.Image) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	flat := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(flat, flat.Bounds(), src, b.Min, draw.Src)

	for y := 0; y < h; y++ {
		row := flat.Pix[y*flat.Stride : y*flat.Stride+w*4]
		for l, r := 0, w-1; l < r; l, r = l+1, r-1 {
			li, ri := l*4, r*4
			for c := 0; c < 4; c++ {
				row[li+c], row[ri+c] = row[ri+c], row[li+c]
			}
		}
	}
	return flat
}
