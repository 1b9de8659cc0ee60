package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"sunviewgo/pkg/session"
)

const streamWriteTimeout = 5 * time.Second

// StreamHandler pushes per-tick simulation frames over a WebSocket.
type StreamHandler struct {
	manager  *session.Manager
	upgrader websocket.Upgrader
}

func NewStreamHandler(manager *session.Manager) *StreamHandler {
	return &StreamHandler{
		manager: manager,
		// The UI is served from the same origin; local tools may connect
		// without an Origin header at all.
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *StreamHandler) Handle(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.Get(r.PathValue("id"))
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "session", s.ID, "error", err)
		return
	}
	defer conn.Close()

	frames, cancel := s.Subscribe()
	defer cancel()

	// Reader goroutine: we never expect client messages, but we must drain
	// control frames and notice disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case res, ok := <-frames:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteJSON(res); err != nil {
				slog.Debug("WebSocket write failed, dropping client", "session", s.ID, "error", err)
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
