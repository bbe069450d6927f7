package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"strings"
	"testing"
)

func TestPatternSource_SizeUnknownUntilOpen(t *testing.T) {
	src := NewPatternSource(64, 48)
	if _, ok := src.Size(); ok {
		t.Error("Size should not be known before Open")
	}
	if _, err := src.Frame(); !errors.Is(err, ErrNoFrame) {
		t.Errorf("Frame before Open: err = %v, want ErrNoFrame", err)
	}

	if err := src.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	size, ok := src.Size()
	if !ok || size != image.Pt(64, 48) {
		t.Errorf("Size = %v, %v; want (64,48), true", size, ok)
	}
	frame, err := src.Frame()
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if frame.Bounds().Size() != image.Pt(64, 48) {
		t.Errorf("frame size = %v, want (64,48)", frame.Bounds().Size())
	}
}

func TestPatternSource_CloseStopsFrames(t *testing.T) {
	src := NewPatternSource(16, 16)
	_ = src.Open(context.Background())
	if err := src.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := src.Frame(); !errors.Is(err, ErrNoFrame) {
		t.Errorf("Frame after Close: err = %v, want ErrNoFrame", err)
	}
}

func TestPatternSource_InvalidSizeUnsupported(t *testing.T) {
	err := NewPatternSource(0, 10).Open(context.Background())
	var ue *UnavailableError
	if !errors.As(err, &ue) || ue.Reason != Unsupported {
		t.Errorf("Open err = %v, want Unsupported UnavailableError", err)
	}
}

func TestPatternSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewPatternSource(8, 8).Open(ctx); err == nil {
		t.Error("expected error with cancelled context")
	}
}

func TestClassifyOpenError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Reason
	}{
		{"not_found", fmt.Errorf("open: %w", fs.ErrNotExist), DeviceNotFound},
		{"permission", fmt.Errorf("open: %w", fs.ErrPermission), PermissionDenied},
		{"other", errors.New("not a capture device"), Unsupported},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyOpenError("/dev/video0", tc.err)
			var ue *UnavailableError
			if !errors.As(err, &ue) {
				t.Fatalf("err = %T, want *UnavailableError", err)
			}
			if ue.Reason != tc.want {
				t.Errorf("Reason = %s, want %s", ue.Reason, tc.want)
			}
			if !errors.Is(err, ErrUnavailable) {
				t.Error("errors.Is(err, ErrUnavailable) should be true")
			}
			if !errors.Is(err, tc.err) {
				t.Error("underlying error should be unwrappable")
			}
		})
	}
}

func TestUnavailableError_Message(t *testing.T) {
	cases := map[Reason]string{
		PermissionDenied: "Permission was denied",
		DeviceNotFound:   "No camera was found at /dev/video0",
		InsecureContext:  "localhost or over HTTPS",
		Unsupported:      "supported video format",
	}
	for reason, want := range cases {
		e := &UnavailableError{Reason: reason, Device: "/dev/video0"}
		if msg := e.Message(); !strings.Contains(msg, want) {
			t.Errorf("%s: Message() = %q, want it to contain %q", reason, msg, want)
		}
	}
}

func TestFrameBuffer(t *testing.T) {
	var fb FrameBuffer
	if _, err := fb.Read(); !errors.Is(err, ErrNoFrame) {
		t.Errorf("empty Read err = %v, want ErrNoFrame", err)
	}
	if _, ok := fb.Size(); ok {
		t.Error("empty Size should not be ok")
	}

	fb.Write(image.NewRGBA(image.Rect(0, 0, 10, 5)))
	fb.Write(image.NewRGBA(image.Rect(0, 0, 20, 10)))
	size, ok := fb.Size()
	if !ok || size != image.Pt(20, 10) {
		t.Errorf("Size = %v, %v; want latest frame size (20,10)", size, ok)
	}
	if fb.Count() != 2 {
		t.Errorf("Count = %d, want 2", fb.Count())
	}

	fb.Reset()
	if _, err := fb.Read(); !errors.Is(err, ErrNoFrame) {
		t.Errorf("Read after Reset err = %v, want ErrNoFrame", err)
	}
}

func TestDecodeYUYV(t *testing.T) {
	// 2x1 frame: Y0=10 U=20 Y1=30 V=40
	img, err := DecodeYUYV([]byte{10, 20, 30, 40}, 2, 1)
	if err != nil {
		t.Fatalf("DecodeYUYV: %v", err)
	}
	if img.Y[0] != 10 || img.Y[1] != 30 {
		t.Errorf("Y = %v, want [10 30]", img.Y[:2])
	}
	if img.Cb[0] != 20 || img.Cr[0] != 40 {
		t.Errorf("Cb/Cr = %d/%d, want 20/40", img.Cb[0], img.Cr[0])
	}
}

func TestDecodeYUYV_Errors(t *testing.T) {
	if _, err := DecodeYUYV([]byte{1, 2}, 2, 1); err == nil {
		t.Error("expected error for short frame")
	}
	if _, err := DecodeYUYV(make([]byte, 6), 3, 1); err == nil {
		t.Error("expected error for odd width")
	}
}
