package booth

import (
	"github.com/cjeanneret/GoBooth/internal/logic/capture"
	"github.com/cjeanneret/GoBooth/internal/logic/countdown"
	"github.com/cjeanneret/GoBooth/internal/logic/sticker"
)

// EventKind names a booth event.
type EventKind string

const (
	EventCamera    EventKind = "camera"    // camera started or stopped
	EventCountdown EventKind = "countdown" // countdown tick
	EventProgress  EventKind = "progress"  // next shot announced
	EventFlash     EventKind = "flash"     // snapshot taken
	EventStrip     EventKind = "strip"     // strip ready
	EventSticker   EventKind = "sticker"   // sticker placed
	EventPreview   EventKind = "preview"   // layout preview changed
	EventRetake    EventKind = "retake"    // photos, strip and stickers cleared
	EventIdle      EventKind = "idle"      // sequence finished
	EventError     EventKind = "error"     // user-facing failure
)

// StripInfo describes a finished strip.
type StripInfo struct {
	ID      string `json:"id"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Columns int    `json:"columns"`
	Rows    int    `json:"rows"`
	Photos  int    `json:"photos"`
	Theme   string `json:"theme"`
}

// Event is published to the Notifier. Only the field matching Kind is set.
type Event struct {
	Kind      EventKind         `json:"kind"`
	Countdown *countdown.Tick   `json:"countdown,omitempty"`
	Progress  *capture.Progress `json:"progress,omitempty"`
	Flash     int64             `json:"flash_ms,omitempty"`
	Strip     *StripInfo        `json:"strip,omitempty"`
	Sticker   *sticker.Marker   `json:"sticker,omitempty"`
	State     *State            `json:"state,omitempty"`
	Message   string            `json:"message,omitempty"`
}

// Notifier receives booth events. Notify must not block for long; it is
// called from the capture goroutine.
type Notifier interface {
	Notify(e Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(e Event)

func (f NotifierFunc) Notify(e Event) { f(e) }
