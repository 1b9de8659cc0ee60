package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"sunviewgo/pkg/version"
)

// NewServer creates and configures the HTTP server.
// It accepts handlers for all API endpoints and a shutdownFunc for graceful shutdown.
func NewServer(addr string, airports *AirportHandler, subsolar *SubsolarHandler, recommend *RecommendHandler, sessions *SessionHandler, stream *StreamHandler, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	// 1. Health Endpoint
	mux.HandleFunc("GET /health", handleHealth)

	// 1b. Version Endpoint
	mux.HandleFunc("GET /api/version", handleVersion)

	// 2. Airport Endpoints
	mux.HandleFunc("GET /api/airports/search", airports.HandleSearch)
	mux.HandleFunc("GET /api/airports/{iata}", airports.HandleLookup)

	// 3. Solar Endpoint
	mux.HandleFunc("GET /api/subsolar", subsolar.Handle)

	// 4. Seat Recommendation Endpoint
	mux.HandleFunc("POST /api/recommend", recommend.Handle)

	// 5. Session Endpoints
	mux.HandleFunc("POST /api/sessions", sessions.HandleCreate)
	mux.HandleFunc("GET /api/sessions/{id}", sessions.HandleState)
	mux.HandleFunc("DELETE /api/sessions/{id}", sessions.HandleDelete)
	mux.HandleFunc("GET /api/sessions/{id}/route", sessions.HandleRoute)
	mux.HandleFunc("POST /api/sessions/{id}/playback", sessions.HandlePlayback)

	// 6. Live Stream Endpoint (WebSocket)
	mux.HandleFunc("GET /api/sessions/{id}/stream", stream.Handle)

	// 7. Shutdown Endpoint
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Call shutdown in a goroutine to allow response to flush
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}
