package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
)

// Source is the high-level interface used by the rest of the application.
// It represents a live video input, regardless of how frames are produced
// (V4L2 device, synthetic pattern, network stream, etc.).
type Source interface {
	// Open starts the device. Failures are reported as *UnavailableError.
	Open(ctx context.Context) error
	// Close stops the device and releases it.
	Close() error
	// Frame returns the latest frame, or ErrNoFrame if none is ready yet.
	Frame() (image.Image, error)
	// Size returns the native frame size. ok is false until the first
	// frame has been received.
	Size() (size image.Point, ok bool)
}

// ErrNoFrame is returned by Frame when no frame is available (not opened,
// metadata not loaded yet, or device closed). Callers skip and retry later.
var ErrNoFrame = errors.New("camera: no frame available")

// ErrUnavailable matches every *UnavailableError through errors.Is.
var ErrUnavailable = errors.New("camera: device unavailable")

// Reason classifies why a device could not be opened.
type Reason string

const (
	PermissionDenied Reason = "permission_denied"
	DeviceNotFound   Reason = "device_not_found"
	InsecureContext  Reason = "insecure_context"
	Unsupported      Reason = "unsupported"
)

// UnavailableError reports a failed Open. The booth stays inactive and shows
// Message() to the user; nothing retries automatically.
type UnavailableError struct {
	Reason Reason
	Device string
	Err    error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("camera %s unavailable (%s): %v", e.Device, e.Reason, e.Err)
	}
	return fmt.Sprintf("camera %s unavailable (%s)", e.Device, e.Reason)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

// Message returns a user-facing explanation of the failure.
func (e *UnavailableError) Message() string {
	msg := "Could not open the camera."
	switch e.Reason {
	case PermissionDenied:
		msg += " Permission was denied: add the user to the 'video' group or check the device permissions."
	case DeviceNotFound:
		msg += " No camera was found at " + e.Device + "."
	case InsecureContext:
		msg += " The camera can only be started from localhost or over HTTPS."
	case Unsupported:
		msg += " The device does not offer a supported video format."
	}
	return msg
}

// classifyOpenError maps a device open error to an UnavailableError.
func classifyOpenError(device string, err error) error {
	reason := Unsupported
	switch {
	case errors.Is(err, fs.ErrNotExist):
		reason = DeviceNotFound
	case errors.Is(err, fs.ErrPermission):
		reason = PermissionDenied
	}
	return &UnavailableError{Reason: reason, Device: device, Err: err}
}
