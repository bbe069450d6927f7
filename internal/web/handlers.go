package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"io/fs"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cjeanneret/GoBooth/internal/debug"
	"github.com/cjeanneret/GoBooth/internal/hw/camera"
	"github.com/cjeanneret/GoBooth/internal/logic/booth"
	"github.com/cjeanneret/GoBooth/internal/logic/sticker"
	"github.com/cjeanneret/GoBooth/internal/logic/strip"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Booth is the part of *booth.Booth the HTTP layer drives.
type Booth interface {
	StartCamera(ctx context.Context) error
	StopCamera()
	ReportUnavailable(err *camera.UnavailableError)
	RequestCapture() bool
	SelectFrameTheme(name string) error
	SelectShots(n int) error
	SelectStripTheme(name string)
	Preview() *image.RGBA
	Strip() *strip.Strip
	PlaceSticker(glyph string, x, y, displayW, displayH float64) (sticker.Marker, error)
	Export(w io.Writer) (name string, ok bool, err error)
	Retake() bool
	State() booth.State
	LiveFrame() (*image.RGBA, error)
}

// FormConfig holds the choices offered by the page (from config).
type FormConfig struct {
	FrameThemes []string `json:"frame_themes"`
	StripThemes []string `json:"strip_themes"`
	Shots       []int    `json:"shots"`
	Stickers    []string `json:"stickers"`
	PreviewFPS  int      `json:"preview_fps"`
}

// Options tunes the HTTP surface.
type Options struct {
	// RequireSecure refuses camera start from non-loopback clients
	// that are not on TLS.
	RequireSecure bool
	// PreviewInterval is the period between two websocket preview frames.
	PreviewInterval time.Duration
}

// Settings is the body of POST /settings. Absent fields are left unchanged.
type Settings struct {
	FrameTheme *string `json:"frame_theme"`
	Shots      *int    `json:"shots"`
	StripTheme *string `json:"strip_theme"`
}

// StickerRequest is the body of POST /stickers: a click at (X, Y) on the
// strip displayed at DisplayWidth x DisplayHeight.
type StickerRequest struct {
	Glyph         string  `json:"glyph"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	DisplayWidth  float64 `json:"display_width"`
	DisplayHeight float64 `json:"display_height"`
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	Broadcaster  *StatusBroadcaster
	Booth        Booth
	FormDefaults FormConfig
	opts         Options
	staticFS     fs.FS
}

// NewHandlers creates handlers with the given dependencies.
func NewHandlers(broadcaster *StatusBroadcaster, b Booth, formDefaults FormConfig, opts Options, staticFS fs.FS) *Handlers {
	if opts.PreviewInterval <= 0 {
		opts.PreviewInterval = 100 * time.Millisecond
	}
	return &Handlers{
		Broadcaster:  broadcaster,
		Booth:        b,
		FormDefaults: formDefaults,
		opts:         opts,
		staticFS:     staticFS,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody reads a size-limited JSON body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

// HandleConfig returns the form choices (from config) as JSON.
func (h *Handlers) HandleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.FormDefaults)
}

// ServeIndex serves the main HTML page (root path only).
func (h *Handlers) ServeIndex(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(h.staticFS, "index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// HandleState returns the current session snapshot.
func (h *Handlers) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Booth.State())
}

// HandleCameraStart handles POST /camera/start.
func (h *Handlers) HandleCameraStart(w http.ResponseWriter, r *http.Request) {
	if h.opts.RequireSecure && !secureRequest(r) {
		ue := &camera.UnavailableError{Reason: camera.InsecureContext, Device: r.RemoteAddr}
		h.Booth.ReportUnavailable(ue)
		writeError(w, http.StatusForbidden, ue.Message())
		return
	}
	if err := h.Booth.StartCamera(r.Context()); err != nil {
		msg := "Could not open the camera."
		var ue *camera.UnavailableError
		if errors.As(err, &ue) {
			msg = ue.Message()
		}
		writeError(w, http.StatusServiceUnavailable, msg)
		return
	}
	writeJSON(w, http.StatusOK, h.Booth.State())
}

// HandleCameraStop handles POST /camera/stop.
func (h *Handlers) HandleCameraStop(w http.ResponseWriter, r *http.Request) {
	h.Booth.StopCamera()
	writeJSON(w, http.StatusOK, h.Booth.State())
}

// HandleCapture handles POST /capture. A request made while the camera is
// off or a sequence is running is ignored and answered with 409.
func (h *Handlers) HandleCapture(w http.ResponseWriter, r *http.Request) {
	if !h.Booth.RequestCapture() {
		writeJSON(w, http.StatusConflict, map[string]string{"status": "ignored"})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// HandleSettings handles POST /settings.
func (h *Handlers) HandleSettings(w http.ResponseWriter, r *http.Request) {
	var s Settings
	if !decodeBody(w, r, &s) {
		return
	}
	if s.FrameTheme != nil {
		if err := h.Booth.SelectFrameTheme(*s.FrameTheme); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if s.Shots != nil {
		if err := h.Booth.SelectShots(*s.Shots); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if s.StripTheme != nil {
		h.Booth.SelectStripTheme(*s.StripTheme)
	}
	writeJSON(w, http.StatusOK, h.Booth.State())
}

// HandleSticker handles POST /stickers and returns the marker to draw.
func (h *Handlers) HandleSticker(w http.ResponseWriter, r *http.Request) {
	var req StickerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	m, err := h.Booth.PlaceSticker(req.Glyph, req.X, req.Y, req.DisplayWidth, req.DisplayHeight)
	switch {
	case errors.Is(err, booth.ErrNoStrip):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeJSON(w, http.StatusCreated, m)
	}
}

// HandleRetake handles POST /retake.
func (h *Handlers) HandleRetake(w http.ResponseWriter, r *http.Request) {
	if !h.Booth.Retake() {
		writeError(w, http.StatusConflict, "capture in progress")
		return
	}
	writeJSON(w, http.StatusOK, h.Booth.State())
}

// HandleDownload handles GET /strip/download. Without a strip nothing is
// sent (204).
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	name, ok, err := h.Booth.Export(&buf)
	if err != nil {
		debug.Error(err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// HandleStripImage handles GET /strip.png (the strip without stickers).
func (h *Handlers) HandleStripImage(w http.ResponseWriter, r *http.Request) {
	s := h.Booth.Strip()
	if s == nil {
		http.Error(w, "no strip", http.StatusNotFound)
		return
	}
	writePNG(w, s.Image)
}

// HandlePreviewImage handles GET /preview.png.
func (h *Handlers) HandlePreviewImage(w http.ResponseWriter, r *http.Request) {
	writePNG(w, h.Booth.Preview())
}

func writePNG(w http.ResponseWriter, img image.Image) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		debug.Error(err)
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// secureRequest reports whether the client may use the camera: TLS, or a
// loopback peer.
func secureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// HandleStatusStream handles GET /status/stream for SSE.
func (h *Handlers) HandleStatusStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx

	ch, unsub := h.Broadcaster.Subscribe()
	defer unsub()

	// Send initial comment to establish connection
	w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	// Heartbeat while idle
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()

		case <-ticker.C:
			w.Write([]byte(": heartbeat\n\n"))
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
