package api

import (
	"encoding/json"
	"net/http"

	"sunviewgo/pkg/airport"
	"sunviewgo/pkg/model"
	"sunviewgo/pkg/playback"
	"sunviewgo/pkg/render"
	"sunviewgo/pkg/session"
	"sunviewgo/pkg/sim"
)

// SessionHandler manages simulation sessions over HTTP.
type SessionHandler struct {
	manager  *session.Manager
	resolver *airport.Resolver
}

func NewSessionHandler(manager *session.Manager, resolver *airport.Resolver) *SessionHandler {
	return &SessionHandler{manager: manager, resolver: resolver}
}

// SessionResponse describes a session to the client.
type SessionResponse struct {
	ID          string            `json:"id"`
	Origin      *model.Airport    `json:"origin,omitempty"`
	Destination *model.Airport    `json:"destination,omitempty"`
	DistanceKm  float64           `json:"distance_km"`
	Ready       bool              `json:"ready"`
	Playback    playback.Status   `json:"playback"`
	Sample      *sim.SampleResult `json:"sample,omitempty"`
}

func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePlanRequest(w, r)
	if !ok {
		return
	}

	plan, origin, dest, err := buildPlan(r.Context(), h.resolver, req)
	if err != nil {
		writePlanError(w, err)
		return
	}

	s, err := h.manager.Create(plan)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := sessionResponse(s)
	resp.Origin = origin
	resp.Destination = dest
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, resp)
}

func (h *SessionHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, sessionResponse(s))
}

func (h *SessionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.manager.Get(id); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	h.manager.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

// HandleRoute serves the route geometry. format=geojson (default) returns a
// FeatureCollection for 2D maps, format=globe returns unit-sphere vectors.
func (h *SessionHandler) HandleRoute(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	res, err := s.Sample()
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	var renderer render.Renderer
	switch format := r.URL.Query().Get("format"); format {
	case "", "geojson":
		renderer = render.Map2D{}
	case "globe":
		renderer = render.Globe3D{}
	default:
		http.Error(w, "unknown format "+format, http.StatusBadRequest)
		return
	}

	data, err := renderer.Render(s.Route(), res)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// PlaybackRequest is a playback control command.
type PlaybackRequest struct {
	Action string  `json:"action"` // play, pause, seek, reset, speed
	Value  float64 `json:"value,omitempty"`
}

func (h *SessionHandler) HandlePlayback(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req PlaybackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	switch req.Action {
	case "play":
		if err := s.Play(); err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
	case "pause":
		s.Pause()
	case "seek":
		s.Seek(req.Value)
	case "reset":
		s.Reset()
	case "speed":
		if err := s.SetSpeed(req.Value); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	default:
		http.Error(w, "unknown action "+req.Action, http.StatusBadRequest)
		return
	}

	writeJSON(w, s.Playback())
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.manager.Get(r.PathValue("id"))
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	return s, true
}

func sessionResponse(s *session.Session) SessionResponse {
	resp := SessionResponse{
		ID:         s.ID,
		DistanceKm: s.Route().TotalDistanceKm,
		Ready:      s.Ready(),
		Playback:   s.Playback(),
	}
	if res, err := s.Sample(); err == nil {
		resp.Sample = &res
	}
	return resp
}
