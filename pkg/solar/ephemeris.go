// Package solar computes the sub-solar point (where the sun is directly
// overhead) and propagates it across a flight window.
package solar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"sunviewgo/pkg/geo"
)

// SubsolarPoint returns the sub-solar point at the given instant.
//
// The sun's apparent RA/Dec give a unit vector in Earth-centered inertial
// coordinates; rotating by Greenwich apparent sidereal time yields the
// Earth-fixed direction, whose surface intersection is the sub-solar point.
// Latitude equals the solar declination; longitude is wrapped to (-180,180].
func SubsolarPoint(t time.Time) geo.Point {
	jd := julian.TimeToJD(t.UTC())

	ra, dec := solar.ApparentEquatorial(jd)
	gast := sidereal.Apparent(jd).Angle()

	return eciToLatLon(ra, dec, gast)
}

// eciToLatLon converts an apparent RA/Dec direction to geodetic coordinates
// for the given sidereal rotation angle.
func eciToLatLon(ra unit.RA, dec, gast unit.Angle) geo.Point {
	// Unit vector in ECI.
	x := dec.Cos() * ra.Cos()
	y := dec.Cos() * ra.Sin()
	z := dec.Sin()

	// Rotate ECI -> ECEF by apparent sidereal time.
	xe := x*gast.Cos() + y*gast.Sin()
	ye := -x*gast.Sin() + y*gast.Cos()
	ze := z

	const radToDeg = 180.0 / math.Pi
	return geo.Point{
		Lat: math.Atan2(ze, math.Sqrt(xe*xe+ye*ye)) * radToDeg,
		Lon: geo.NormalizeLon(math.Atan2(ye, xe) * radToDeg),
	}
}
