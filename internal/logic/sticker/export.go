package sticker

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"time"
)

// Filename returns the download name of a strip exported at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("photobooth_%d.png", t.UnixMilli())
}

// EncodePNG writes img to w as PNG and returns the number of bytes written.
func EncodePNG(w io.Writer, img image.Image) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)
	if err := png.Encode(bw, img); err != nil {
		return cw.n, fmt.Errorf("encode png: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return cw.n, fmt.Errorf("write png: %w", err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
