package api

import (
	"net/http"
	"time"

	"sunviewgo/pkg/geo"
)

// SolarSource supplies the sub-solar point for an instant.
type SolarSource interface {
	SubsolarAt(t time.Time) (geo.Point, error)
}

// SubsolarHandler serves the sub-solar point for a given instant.
type SubsolarHandler struct {
	sun SolarSource
}

func NewSubsolarHandler(sun SolarSource) *SubsolarHandler {
	return &SubsolarHandler{sun: sun}
}

// SubsolarResponse is the API response structure.
type SubsolarResponse struct {
	At       time.Time `json:"at"`
	Position geo.Point `json:"position"`
}

// Handle answers GET /api/subsolar?at=RFC3339, defaulting to now.
func (h *SubsolarHandler) Handle(w http.ResponseWriter, r *http.Request) {
	at := time.Now().UTC()
	if s := r.URL.Query().Get("at"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			http.Error(w, "invalid 'at' timestamp, want RFC3339", http.StatusBadRequest)
			return
		}
		at = t.UTC()
	}

	p, err := h.sun.SubsolarAt(at)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, SubsolarResponse{At: at, Position: p})
}
