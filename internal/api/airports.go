package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"sunviewgo/pkg/airport"
)

const defaultSearchLimit = 5

// AirportHandler serves airport lookup and search.
type AirportHandler struct {
	resolver *airport.Resolver
}

func NewAirportHandler(resolver *airport.Resolver) *AirportHandler {
	return &AirportHandler{resolver: resolver}
}

func (h *AirportHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("iata")

	a, err := h.resolver.Lookup(r.Context(), code)
	if err != nil {
		if errors.Is(err, airport.ErrNotFound) {
			http.Error(w, "airport not found", http.StatusNotFound)
			return
		}
		var ue *airport.UpstreamError
		if errors.As(err, &ue) {
			slog.Warn("Airport provider failed", "iata", code, "error", err)
			http.Error(w, "airport provider unavailable", http.StatusBadGateway)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, a)
}

func (h *AirportHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		http.Error(w, "missing query parameter 'q'", http.StatusBadRequest)
		return
	}

	limit := defaultSearchLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	results, err := h.resolver.Search(r.Context(), q, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, results)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
