package api

import (
	"errors"
	"log/slog"
	"net/http"

	"sunviewgo/pkg/airport"
	"sunviewgo/pkg/model"
	"sunviewgo/pkg/route"
	"sunviewgo/pkg/seat"
)

// RecommendHandler computes a seat recommendation for a one-off flight plan,
// without creating a playback session.
type RecommendHandler struct {
	resolver    *airport.Resolver
	scorer      *seat.Scorer
	routePoints int
}

func NewRecommendHandler(resolver *airport.Resolver, scorer *seat.Scorer, routePoints int) *RecommendHandler {
	return &RecommendHandler{resolver: resolver, scorer: scorer, routePoints: routePoints}
}

// RecommendResponse is the API response structure.
type RecommendResponse struct {
	Origin         *model.Airport      `json:"origin"`
	Destination    *model.Airport      `json:"destination"`
	DistanceKm     float64             `json:"distance_km"`
	Recommendation seat.Recommendation `json:"recommendation"`
}

func (h *RecommendHandler) Handle(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePlanRequest(w, r)
	if !ok {
		return
	}

	plan, origin, dest, err := buildPlan(r.Context(), h.resolver, req)
	if err != nil {
		writePlanError(w, err)
		return
	}

	rt, err := route.Compute(plan.Origin, plan.Destination, h.routePoints)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.scorer.Recommend(rt, plan)
	if err != nil {
		slog.Error("Recommendation failed", "origin", req.Origin, "destination", req.Destination, "error", err)
		http.Error(w, "recommendation unavailable", http.StatusBadGateway)
		return
	}

	writeJSON(w, RecommendResponse{
		Origin:         origin,
		Destination:    dest,
		DistanceKm:     rt.TotalDistanceKm,
		Recommendation: rec,
	})
}

// writePlanError maps plan construction failures to HTTP status codes.
func writePlanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, airport.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		var ue *airport.UpstreamError
		if errors.As(err, &ue) {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
