package camera

import (
	"fmt"
	"image"
)

// DecodeYUYV converts a packed YUYV 4:2:2 buffer (Y0 U Y1 V per pixel pair)
// into an image.YCbCr without colour conversion.
func DecodeYUYV(data []byte, w, h int) (*image.YCbCr, error) {
	if w <= 0 || h <= 0 || w%2 != 0 {
		return nil, fmt.Errorf("yuyv: invalid size %dx%d", w, h)
	}
	if len(data) < w*h*2 {
		return nil, fmt.Errorf("yuyv: short frame: %d bytes for %dx%d", len(data), w, h)
	}

	img := image.NewYCbCr(image.Rect(0, 0, w, h), image.YCbCrSubsampleRatio422)
	for y := 0; y < h; y++ {
		row := data[y*w*2 : (y+1)*w*2]
		for x := 0; x < w; x += 2 {
			i := x * 2
			img.Y[y*img.YStride+x] = row[i]
			img.Y[y*img.YStride+x+1] = row[i+2]
			ci := y*img.CStride + x/2
			img.Cb[ci] = row[i+1]
			img.Cr[ci] = row[i+3]
		}
	}
	return img, nil
}
