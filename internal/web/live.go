package web

import (
	"bytes"
	"errors"
	"image/jpeg"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cjeanneret/GoBooth/internal/debug"
	"github.com/cjeanneret/GoBooth/internal/hw/camera"
	"github.com/cjeanneret/GoBooth/internal/logic/booth"
)

const (
	liveWriteWait   = 2 * time.Second
	liveJPEGQuality = 75
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 64 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleLive handles GET /live: a websocket carrying the mirrored frame
// with its overlay as binary JPEG messages. Nothing is sent while the
// camera is off.
func (h *Handlers) HandleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		debug.Verbose("Live preview upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	debug.Verbose("Live preview connected: %s", r.RemoteAddr)

	// The client never sends anything useful; reading detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.opts.PreviewInterval)
	defer ticker.Stop()

	var buf bytes.Buffer
	for {
		select {
		case <-closed:
			debug.Verbose("Live preview disconnected: %s", r.RemoteAddr)
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
			img, err := h.Booth.LiveFrame()
			if err != nil {
				if !errors.Is(err, booth.ErrInactive) && !errors.Is(err, camera.ErrNoFrame) {
					debug.Error(err)
				}
				continue
			}
			buf.Reset()
			if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: liveJPEGQuality}); err != nil {
				debug.Error(err)
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
				debug.Verbose("Live preview write failed: %v", err)
				return
			}
		}
	}
}
