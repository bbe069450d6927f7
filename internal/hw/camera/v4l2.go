//go:build linux

package camera

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"sync"
	"time"

	"github.com/blackjack/webcam"

	"github.com/cjeanneret/GoBooth/internal/debug"
)

// V4L2 fourcc codes for the pixel formats we can decode.
const (
	pixFmtMJPEG webcam.PixelFormat = 0x47504A4D // 'MJPG'
	pixFmtYUYV  webcam.PixelFormat = 0x56595559 // 'YUYV'
)

// frameReader is the part of *webcam.Webcam the capture loop uses.
type frameReader interface {
	WaitForFrame(timeout uint32) error
	ReadFrame() ([]byte, error)
}

// bufferCounter is the part of *webcam.Webcam that sizes the driver queue.
type bufferCounter interface {
	SetBufferCount(count uint32) error
}

// captureBuffers is the number of driver buffers requested.
const captureBuffers = 4

// V4L2Source captures frames from a Linux video device.
// A goroutine reads frames continuously into a FrameBuffer; Frame returns
// the newest decoded image.
type V4L2Source struct {
	device  string
	format  string
	width   int
	height  int
	timeout time.Duration

	mu     sync.Mutex
	cam    *webcam.Webcam
	cancel context.CancelFunc
	done   chan struct{}
	buf    FrameBuffer
}

// NewV4L2Source creates a source for device (e.g. /dev/video0). format is the
// preferred pixel format ("mjpeg" or "yuyv"); width/height the ideal size.
func NewV4L2Source(device, format string, width, height int, timeout time.Duration) *V4L2Source {
	if timeout < time.Second {
		timeout = time.Second
	}
	return &V4L2Source{
		device:  device,
		format:  format,
		width:   width,
		height:  height,
		timeout: timeout,
	}
}

func (s *V4L2Source) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cam != nil {
		return nil
	}

	debug.Info("Opening camera %s", s.device)
	cam, err := webcam.Open(s.device)
	if err != nil {
		return classifyOpenError(s.device, err)
	}

	pixFmt, err := s.pickFormat(cam.GetSupportedFormats())
	if err != nil {
		cam.Close()
		return &UnavailableError{Reason: Unsupported, Device: s.device, Err: err}
	}
	w, h := pickFrameSize(cam.GetSupportedFrameSizes(pixFmt), s.width, s.height)

	got, gw, gh, err := cam.SetImageFormat(pixFmt, w, h)
	if err != nil {
		cam.Close()
		return &UnavailableError{Reason: Unsupported, Device: s.device, Err: fmt.Errorf("set image format: %w", err)}
	}
	debug.Verbose("Camera format 0x%08x, %dx%d", uint32(got), gw, gh)

	requestBuffers(cam, s.device, captureBuffers)
	if err := cam.StartStreaming(); err != nil {
		cam.Close()
		return classifyOpenError(s.device, fmt.Errorf("start streaming: %w", err))
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.cam = cam
	s.cancel = cancel
	s.done = make(chan struct{})
	s.buf.Reset()

	go s.capture(runCtx, cam, got, int(gw), int(gh), s.done)
	return nil
}

// requestBuffers asks the driver for n buffers. Drivers may refuse and keep
// their own count; streaming still works then.
func requestBuffers(cam bufferCounter, device string, n uint32) {
	if err := cam.SetBufferCount(n); err != nil {
		debug.Verbose("Camera %s: buffer count %d refused, using driver default: %v", device, n, err)
		return
	}
	debug.Verbose("Camera %s: %d buffers", device, n)
}

func (s *V4L2Source) pickFormat(formats map[webcam.PixelFormat]string) (webcam.PixelFormat, error) {
	preferred := []webcam.PixelFormat{pixFmtMJPEG, pixFmtYUYV}
	if s.format == "yuyv" {
		preferred = []webcam.PixelFormat{pixFmtYUYV, pixFmtMJPEG}
	}
	for _, f := range preferred {
		if _, ok := formats[f]; ok {
			return f, nil
		}
	}
	return 0, fmt.Errorf("no MJPEG or YUYV format among %v", formats)
}

// pickFrameSize returns the supported size closest to the ideal one.
func pickFrameSize(sizes []webcam.FrameSize, idealW, idealH int) (uint32, uint32) {
	bestW, bestH := uint32(idealW), uint32(idealH)
	bestScore := -1
	for _, fs := range sizes {
		w, h := int(fs.MaxWidth), int(fs.MaxHeight)
		if fs.StepWidth > 0 && fs.MinWidth <= uint32(idealW) && uint32(idealW) <= fs.MaxWidth &&
			fs.MinHeight <= uint32(idealH) && uint32(idealH) <= fs.MaxHeight {
			w, h = idealW, idealH
		}
		score := abs(w-idealW) + abs(h-idealH)
		if bestScore < 0 || score < bestScore {
			bestScore = score
			bestW, bestH = uint32(w), uint32(h)
		}
	}
	return bestW, bestH
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// capture reads frames until ctx is done. A device error ends the loop and
// drops the last frame, so Frame reports ErrNoFrame instead of a stale image.
func (s *V4L2Source) capture(ctx context.Context, cam frameReader, pixFmt webcam.PixelFormat, w, h int, done chan struct{}) {
	defer close(done)
	timeoutSec := uint32(s.timeout / time.Second)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := cam.WaitForFrame(timeoutSec)
		switch err.(type) {
		case nil:
		case *webcam.Timeout:
			debug.Trace("Camera: timeout waiting for frame")
			continue
		default:
			debug.Error(fmt.Errorf("camera %s: wait for frame: %w", s.device, err))
			s.buf.Reset()
			return
		}

		data, err := cam.ReadFrame()
		if err != nil {
			debug.Error(fmt.Errorf("camera %s: read frame: %w", s.device, err))
			s.buf.Reset()
			return
		}
		if len(data) == 0 {
			continue
		}

		img, err := decodeFrame(pixFmt, data, w, h)
		if err != nil {
			// Corrupt or partial frame: drop it and wait for the next one.
			debug.Trace("Camera: dropping frame: %v", err)
			continue
		}
		s.buf.Write(img)
	}
}

func decodeFrame(pixFmt webcam.PixelFormat, data []byte, w, h int) (image.Image, error) {
	switch pixFmt {
	case pixFmtMJPEG:
		return jpeg.Decode(bytes.NewReader(data))
	case pixFmtYUYV:
		return DecodeYUYV(data, w, h)
	default:
		return nil, fmt.Errorf("unsupported pixel format 0x%08x", uint32(pixFmt))
	}
}

func (s *V4L2Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cam == nil {
		return nil
	}

	s.cancel()
	<-s.done

	var firstErr error
	if err := s.cam.StopStreaming(); err != nil {
		firstErr = err
	}
	if err := s.cam.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	s.cam = nil
	s.buf.Reset()
	debug.Info("Camera %s closed", s.device)
	return firstErr
}

func (s *V4L2Source) Frame() (image.Image, error) {
	return s.buf.Read()
}

func (s *V4L2Source) Size() (image.Point, bool) {
	return s.buf.Size()
}
