// Package sim defines the flight-simulation domain types and the per-tick
// derivation of aircraft and sun state.
package sim

import (
	"fmt"
	"time"

	"sunviewgo/pkg/geo"
	"sunviewgo/pkg/route"
	"sunviewgo/pkg/solar"
)

// Preference selects which solar event the passenger wants to watch.
type Preference string

const (
	PreferenceSunrise Preference = "sunrise"
	PreferenceSunset  Preference = "sunset"
)

// Valid reports whether the preference is one of the supported values.
func (p Preference) Valid() bool {
	return p == PreferenceSunrise || p == PreferenceSunset
}

// Side is the cabin side (or axis) the sun occupies relative to the
// aircraft heading.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
	SideFront Side = "front"
	SideBack  Side = "back"
)

// FlightPlan describes one flight. Immutable for the lifetime of a
// simulation session.
type FlightPlan struct {
	Origin          geo.Point  `json:"origin"`
	Destination     geo.Point  `json:"destination"`
	DepartureUTC    time.Time  `json:"departure_utc"`
	DurationMinutes int        `json:"duration_minutes"`
	Preference      Preference `json:"preference"`
}

// Validate checks the plan's coordinates, duration and preference.
func (p FlightPlan) Validate() error {
	if err := p.Origin.Validate(); err != nil {
		return err
	}
	if err := p.Destination.Validate(); err != nil {
		return err
	}
	if p.DurationMinutes <= 0 {
		return fmt.Errorf("flight duration must be positive, got %d minutes", p.DurationMinutes)
	}
	if !p.Preference.Valid() {
		return fmt.Errorf("unknown preference %q", p.Preference)
	}
	if p.DepartureUTC.IsZero() {
		return fmt.Errorf("departure time is not set")
	}
	return nil
}

// ElapsedMinutes converts a progress percentage to simulated flight minutes.
func (p FlightPlan) ElapsedMinutes(progressPercent float64) float64 {
	return progressPercent / 100.0 * float64(p.DurationMinutes)
}

// SampleResult is the derived state for one progress value. It is ephemeral:
// recomputed per tick, never persisted.
type SampleResult struct {
	ProgressPercent    float64   `json:"progress_percent"`
	AircraftPosition   geo.Point `json:"aircraft_position"`
	AircraftHeadingDeg float64   `json:"aircraft_heading_deg"`
	SunPosition        geo.Point `json:"sun_position"`
	RelativeBearingDeg float64   `json:"relative_bearing_deg"`
	Side               Side      `json:"side"`
}

// ClassifySide maps a relative bearing in [0,360) to a cabin side.
// (0,180) is right, (180,360) is left. Exact 0 and 180 are classified
// front and back; these boundary values are rare but must not land on an
// arbitrary side.
func ClassifySide(relativeBearingDeg float64) Side {
	switch {
	case relativeBearingDeg == 0:
		return SideFront
	case relativeBearingDeg == 180:
		return SideBack
	case relativeBearingDeg < 180:
		return SideRight
	default:
		return SideLeft
	}
}

// Snapshot derives the sample for a progress value: aircraft position and
// heading from the route, sun position propagated from the base sub-solar
// point, and the sun's bearing relative to the aircraft.
func Snapshot(r *route.Route, plan FlightPlan, baseSubsolar geo.Point, progressPercent float64) (SampleResult, error) {
	s, err := r.SampleAt(progressPercent)
	if err != nil {
		return SampleResult{}, err
	}

	sun, err := solar.Propagate(baseSubsolar, plan.ElapsedMinutes(progressPercent))
	if err != nil {
		return SampleResult{}, err
	}

	rel := geo.RelativeBearing(s.HeadingDeg, geo.Bearing(s.Position, sun))

	return SampleResult{
		ProgressPercent:    progressPercent,
		AircraftPosition:   s.Position,
		AircraftHeadingDeg: s.HeadingDeg,
		SunPosition:        sun,
		RelativeBearingDeg: rel,
		Side:               ClassifySide(rel),
	}, nil
}
