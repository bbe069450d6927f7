//go:build !linux

package camera

import (
	"context"
	"errors"
	"image"
	"time"
)

// V4L2Source is only available on Linux. On other platforms Open always
// reports Unsupported.
type V4L2Source struct {
	device string
}

func NewV4L2Source(device, format string, width, height int, timeout time.Duration) *V4L2Source {
	return &V4L2Source{device: device}
}

func (s *V4L2Source) Open(ctx context.Context) error {
	return &UnavailableError{Reason: Unsupported, Device: s.device, Err: errors.New("V4L2 requires Linux")}
}

func (s *V4L2Source) Close() error { return nil }

func (s *V4L2Source) Frame() (image.Image, error) { return nil, ErrNoFrame }

func (s *V4L2Source) Size() (image.Point, bool) { return image.Point{}, false }
