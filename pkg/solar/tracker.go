package solar

import (
	"math"

	"sunviewgo/pkg/geo"
)

// rotationDegPerHour is the nominal westward regression rate of the
// sub-solar longitude (one solar rotation per 24 hours).
const rotationDegPerHour = 15.0

// Propagate advances a known sub-solar point forward by elapsedMinutes.
//
// The longitude regresses westward at 15 degrees per hour; the latitude is
// held constant. Ignoring declination drift from axial tilt is a deliberate
// simplification: over a long-haul flight window the drift stays well under
// half a degree, which is negligible against seat-side classification.
// The returned longitude is wrapped into (-180,180].
func Propagate(base geo.Point, elapsedMinutes float64) (geo.Point, error) {
	if math.IsNaN(elapsedMinutes) || math.IsInf(elapsedMinutes, 0) || elapsedMinutes < 0 {
		return geo.Point{}, &InvalidTimeError{ElapsedMinutes: elapsedMinutes}
	}
	return geo.Point{
		Lat: base.Lat,
		Lon: geo.NormalizeLon(base.Lon - rotationDegPerHour*elapsedMinutes/60.0),
	}, nil
}
