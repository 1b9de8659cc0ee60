// Package route computes great-circle flight routes and samples aircraft
// position and heading along them.
package route

import (
	"math"

	"sunviewgo/pkg/geo"
)

// DefaultPointCount is the polyline resolution used when callers pass 0.
const DefaultPointCount = 128

// equalEps is the tolerance (degrees) below which origin and destination are
// considered the same point, making the route degenerate.
const equalEps = 1e-6

// Route is a discretized great-circle path between two points. It is
// immutable once computed; recompute only when origin or destination changes.
type Route struct {
	Origin      geo.Point
	Destination geo.Point

	// Points is the sampled polyline. Longitudes are unwrapped so that
	// consecutive samples never jump by ~360 degrees across the
	// antimeridian; values may therefore leave (-180,180].
	Points []geo.Point

	// TotalDistanceKm is the analytic haversine distance, independent of
	// the sampling resolution.
	TotalDistanceKm float64
}

// Compute builds the great-circle route from origin to destination with the
// given polyline resolution. pointCount < 2 selects DefaultPointCount.
func Compute(origin, destination geo.Point, pointCount int) (*Route, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	if err := destination.Validate(); err != nil {
		return nil, err
	}
	if origin.Equal(destination, equalEps) {
		return nil, &geo.InvalidCoordinateError{Point: destination, Reason: "origin equals destination"}
	}
	if math.Abs(geo.CentralAngle(origin, destination)-180) < equalEps {
		return nil, &geo.InvalidCoordinateError{Point: destination, Reason: "antipodal endpoints have no unique great circle"}
	}

	if pointCount < 2 {
		pointCount = DefaultPointCount
	}

	points := make([]geo.Point, pointCount)
	for i := range points {
		f := float64(i) / float64(pointCount-1)
		points[i] = geo.Intermediate(origin, destination, f)
		if i > 0 {
			points[i].Lon = unwrapLon(points[i-1].Lon, points[i].Lon)
		}
	}

	return &Route{
		Origin:          origin,
		Destination:     destination,
		Points:          points,
		TotalDistanceKm: geo.Distance(origin, destination),
	}, nil
}

// unwrapLon shifts lon by whole turns so it is within 180 degrees of prev,
// keeping the polyline longitude continuous across the antimeridian.
func unwrapLon(prev, lon float64) float64 {
	for lon-prev > 180 {
		lon -= 360
	}
	for lon-prev < -180 {
		lon += 360
	}
	return lon
}

// Segments splits the polyline into contiguous runs with in-range
// longitudes, for renderers that cannot draw across the antimeridian.
// Each segment's points are wrapped back into (-180,180].
func (r *Route) Segments() [][]geo.Point {
	var segments [][]geo.Point
	var cur []geo.Point

	prevWrapped := geo.NormalizeLon(r.Points[0].Lon)
	for i, p := range r.Points {
		w := geo.Point{Lat: p.Lat, Lon: geo.NormalizeLon(p.Lon)}
		if i > 0 && math.Abs(w.Lon-prevWrapped) > 180 {
			segments = append(segments, cur)
			cur = nil
		}
		cur = append(cur, w)
		prevWrapped = w.Lon
	}
	if len(cur) > 0 {
		segments = append(segments, cur)
	}
	return segments
}
