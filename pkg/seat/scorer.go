// Package seat scores which cabin side sees the sun best over a flight and
// turns the tally into a left/right recommendation.
package seat

import (
	"time"

	"sunviewgo/pkg/geo"
	"sunviewgo/pkg/route"
	"sunviewgo/pkg/sim"
)

// SideScore accumulates weighted sun exposure per solar event.
type SideScore struct {
	Sunrise float64 `json:"sunrise"`
	Sunset  float64 `json:"sunset"`
}

// Total returns the combined exposure for the side.
func (s SideScore) Total() float64 { return s.Sunrise + s.Sunset }

// Recommendation is the aggregate decision for one flight plan. It is a pure
// function of (FlightPlan, Route) and safe to cache until the plan changes.
type Recommendation struct {
	RecommendedSide sim.Side       `json:"recommended_side"`
	Preference      sim.Preference `json:"preference"`
	Left            SideScore      `json:"left_side"`
	Right           SideScore      `json:"right_side"`
	LeftTotal       float64        `json:"left_total"`
	RightTotal      float64        `json:"right_total"`
}

// SolarSource supplies the sub-solar point for an instant.
type SolarSource interface {
	SubsolarAt(t time.Time) (geo.Point, error)
}

// Scorer samples a flight minute by minute and tallies which side the sun
// falls on.
type Scorer struct {
	sun SolarSource
}

// NewScorer creates a Scorer backed by the given solar source.
func NewScorer(sun SolarSource) *Scorer {
	return &Scorer{sun: sun}
}

// risingWindow reports whether an instant counts toward the sunrise bucket.
// The convention is UTC hours 05..12 inclusive; everything else accrues to
// the sunset bucket. Coarse, but deterministic and part of the observable
// scoring contract.
func risingWindow(t time.Time) bool {
	h := t.UTC().Hour()
	return h >= 5 && h <= 12
}

// Recommend walks the flight at one-minute resolution. For each sample where
// the sun is above the horizon, a weight proportional to its altitude
// accrues to the sunrise or sunset bucket of the side the sun is on.
//
// Decision rule: under a sunrise preference the side with the higher sunrise
// bucket wins (sunset preference symmetrically); an equal bucket falls back
// to the total score, and a full tie resolves to right. The result is
// deterministic for identical inputs.
func (s *Scorer) Recommend(r *route.Route, plan sim.FlightPlan) (Recommendation, error) {
	if err := plan.Validate(); err != nil {
		return Recommendation{}, err
	}

	var left, right SideScore

	for minute := 0; minute <= plan.DurationMinutes; minute++ {
		at := plan.DepartureUTC.Add(time.Duration(minute) * time.Minute)
		progress := float64(minute) / float64(plan.DurationMinutes) * 100

		sample, err := r.SampleAt(progress)
		if err != nil {
			return Recommendation{}, err
		}
		sun, err := s.sun.SubsolarAt(at)
		if err != nil {
			return Recommendation{}, err
		}

		// The sun's altitude equals 90 degrees minus the angular
		// distance to the sub-solar point. Below the horizon there is
		// nothing to see.
		altitude := 90 - geo.CentralAngle(sample.Position, sun)
		if altitude <= 0 {
			continue
		}
		weight := altitude / 90

		rel := geo.RelativeBearing(sample.HeadingDeg, geo.Bearing(sample.Position, sun))
		side := sim.ClassifySide(rel)

		var bucket *SideScore
		switch side {
		case sim.SideLeft:
			bucket = &left
		case sim.SideRight:
			bucket = &right
		default:
			// Dead ahead or behind: visible from neither window row.
			continue
		}

		if risingWindow(at) {
			bucket.Sunrise += weight
		} else {
			bucket.Sunset += weight
		}
	}

	return Recommendation{
		RecommendedSide: decide(plan.Preference, left, right),
		Preference:      plan.Preference,
		Left:            left,
		Right:           right,
		LeftTotal:       left.Total(),
		RightTotal:      right.Total(),
	}, nil
}

func decide(pref sim.Preference, left, right SideScore) sim.Side {
	var l, r float64
	switch pref {
	case sim.PreferenceSunrise:
		l, r = left.Sunrise, right.Sunrise
	case sim.PreferenceSunset:
		l, r = left.Sunset, right.Sunset
	}

	switch {
	case l > r:
		return sim.SideLeft
	case r > l:
		return sim.SideRight
	}

	// Preferred buckets tied: fall back to total exposure. A full tie
	// (including a sun never visible at all) resolves to right.
	if left.Total() > right.Total() {
		return sim.SideLeft
	}
	return sim.SideRight
}
