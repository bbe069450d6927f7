package camera

import (
	"image"
	"sync"
	"time"
)

// FrameBuffer keeps the latest frame written by a capture goroutine.
// Capture writes at device speed, readers take whatever is newest.
type FrameBuffer struct {
	mu        sync.RWMutex
	frame     image.Image
	count     uint64
	lastFrame time.Time
}

// Write stores a new frame. It never blocks on readers.
func (fb *FrameBuffer) Write(frame image.Image) {
	fb.mu.Lock()
	fb.frame = frame
	fb.count++
	fb.lastFrame = time.Now()
	fb.mu.Unlock()
}

// Read returns the latest frame, or ErrNoFrame if nothing was written yet.
func (fb *FrameBuffer) Read() (image.Image, error) {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	if fb.frame == nil {
		return nil, ErrNoFrame
	}
	return fb.frame, nil
}

// Size returns the bounds size of the latest frame.
func (fb *FrameBuffer) Size() (image.Point, bool) {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	if fb.frame == nil {
		return image.Point{}, false
	}
	return fb.frame.Bounds().Size(), true
}

// Count returns how many frames were written.
func (fb *FrameBuffer) Count() uint64 {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	return fb.count
}

// Reset drops the stored frame (used when the device closes).
func (fb *FrameBuffer) Reset() {
	fb.mu.Lock()
	fb.frame = nil
	fb.mu.Unlock()
}
