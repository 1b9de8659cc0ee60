package route

import (
	"math"

	"sunviewgo/pkg/geo"
)

// headingLookaheadKm is how far beyond the current position the heading
// reference point is placed.
const headingLookaheadKm = 10.0

// Sample is the aircraft state at one point along the route.
type Sample struct {
	Position   geo.Point
	HeadingDeg float64
}

// SampleAt resolves the aircraft position and heading for a progress value
// in [0,100]. Position interpolates the analytic great circle, so accuracy
// does not depend on the polyline resolution. Heading is the initial bearing
// toward a point headingLookaheadKm further along; at the very end of the
// route, where no forward point exists, it is the bearing from a point the
// same distance behind (last-known heading).
func (r *Route) SampleAt(progressPercent float64) (Sample, error) {
	if math.IsNaN(progressPercent) || progressPercent < 0 || progressPercent > 100 {
		return Sample{}, &OutOfRangeError{Value: progressPercent}
	}

	f := progressPercent / 100.0
	pos := geo.Intermediate(r.Origin, r.Destination, f)

	lookahead := headingLookaheadKm / r.TotalDistanceKm
	if lookahead > 1 {
		lookahead = 1
	}

	var heading float64
	if f+lookahead <= 1 {
		ahead := geo.Intermediate(r.Origin, r.Destination, f+lookahead)
		heading = geo.Bearing(pos, ahead)
	} else {
		behind := geo.Intermediate(r.Origin, r.Destination, f-lookahead)
		heading = geo.Bearing(behind, pos)
	}

	return Sample{Position: pos, HeadingDeg: heading}, nil
}

// DistanceAt converts a progress value to kilometers along the route.
func (r *Route) DistanceAt(progressPercent float64) float64 {
	return progressPercent / 100.0 * r.TotalDistanceKm
}
