package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sunviewgo/pkg/airport"
	"sunviewgo/pkg/geo"
	"sunviewgo/pkg/model"
	"sunviewgo/pkg/sim"
)

// PlanRequest is the JSON body for recommendation and session creation.
// Airports are given as IATA codes and resolved server-side.
type PlanRequest struct {
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	DepartureUTC    time.Time `json:"departure_utc"`
	DurationMinutes int       `json:"duration_minutes"`
	Preference      string    `json:"preference"`
}

// buildPlan resolves both airports and assembles a validated flight plan.
// The returned airports let callers echo resolved metadata back to the UI.
func buildPlan(ctx context.Context, resolver *airport.Resolver, req *PlanRequest) (sim.FlightPlan, *model.Airport, *model.Airport, error) {
	origin, err := resolver.Lookup(ctx, req.Origin)
	if err != nil {
		return sim.FlightPlan{}, nil, nil, fmt.Errorf("origin: %w", err)
	}
	dest, err := resolver.Lookup(ctx, req.Destination)
	if err != nil {
		return sim.FlightPlan{}, nil, nil, fmt.Errorf("destination: %w", err)
	}
	if origin.IATA == dest.IATA {
		return sim.FlightPlan{}, nil, nil, fmt.Errorf("origin and destination are the same airport")
	}

	plan := sim.FlightPlan{
		Origin:          geo.Point{Lat: origin.Lat, Lon: origin.Lon},
		Destination:     geo.Point{Lat: dest.Lat, Lon: dest.Lon},
		DepartureUTC:    req.DepartureUTC.UTC(),
		DurationMinutes: req.DurationMinutes,
		Preference:      sim.Preference(req.Preference),
	}
	if err := plan.Validate(); err != nil {
		return sim.FlightPlan{}, nil, nil, err
	}
	return plan, origin, dest, nil
}

func decodePlanRequest(w http.ResponseWriter, r *http.Request) (*PlanRequest, bool) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}
