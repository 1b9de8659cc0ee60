// Package geo provides spherical-earth geometry primitives: distances,
// bearings and great-circle interpolation. All angles are degrees, all
// distances kilometers, on a sphere of mean radius 6371 km.
package geo

import (
	"math"
)

// EarthRadiusKm is the mean Earth radius used for all spherical math.
const EarthRadiusKm = 6371.0

const degToRad = math.Pi / 180.0

// Point represents a geographic coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate checks that the point holds finite, in-range coordinates.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) {
		return &InvalidCoordinateError{Point: p, Reason: "non-finite coordinate"}
	}
	if p.Lat < -90 || p.Lat > 90 {
		return &InvalidCoordinateError{Point: p, Reason: "latitude outside [-90,90]"}
	}
	if p.Lon < -180 || p.Lon > 180 {
		return &InvalidCoordinateError{Point: p, Reason: "longitude outside [-180,180]"}
	}
	return nil
}

// Equal reports whether two points coincide within eps degrees on both axes.
func (p Point) Equal(q Point, eps float64) bool {
	return math.Abs(p.Lat-q.Lat) <= eps && math.Abs(NormalizeAngle(p.Lon-q.Lon)) <= eps
}

// Distance calculates the Haversine distance between two points in kilometers.
func Distance(p1, p2 Point) float64 {
	dLat := (p2.Lat - p1.Lat) * degToRad
	dLon := (p2.Lon - p1.Lon) * degToRad
	lat1 := p1.Lat * degToRad
	lat2 := p2.Lat * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// CentralAngle returns the angular separation of two points in degrees.
func CentralAngle(p1, p2 Point) float64 {
	return Distance(p1, p2) / EarthRadiusKm / degToRad
}

// Bearing calculates the initial bearing (forward azimuth) from p1 to p2 in
// degrees, clockwise from north, in [0,360).
func Bearing(p1, p2 Point) float64 {
	lat1 := p1.Lat * degToRad
	lat2 := p2.Lat * degToRad
	dLon := (p2.Lon - p1.Lon) * degToRad

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) -
		math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	brng := math.Atan2(y, x)

	return math.Mod(brng/degToRad+360.0, 360.0)
}

// DestinationPoint calculates the point reached from start after travelling
// distKm kilometers on the given initial bearing (degrees).
func DestinationPoint(start Point, distKm, bearing float64) Point {
	lat1 := start.Lat * degToRad
	lon1 := start.Lon * degToRad
	brng := bearing * degToRad
	d := distKm / EarthRadiusKm

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) +
		math.Cos(lat1)*math.Sin(d)*math.Cos(brng))
	lon2 := lon1 + math.Atan2(math.Sin(brng)*math.Sin(d)*math.Cos(lat1),
		math.Cos(d)-math.Sin(lat1)*math.Sin(lat2))

	return Point{
		Lat: lat2 / degToRad,
		Lon: NormalizeLon(lon2 / degToRad),
	}
}

// Intermediate returns the point at fraction f (0..1) along the great circle
// from p1 to p2, using spherical linear interpolation. The result does not
// depend on any discretization of the path. Antipodal endpoints have no
// unique great circle; for them the result is undefined (callers reject
// antipodal pairs up front).
func Intermediate(p1, p2 Point, f float64) Point {
	lat1 := p1.Lat * degToRad
	lon1 := p1.Lon * degToRad
	lat2 := p2.Lat * degToRad
	lon2 := p2.Lon * degToRad

	d := CentralAngle(p1, p2) * degToRad
	sinD := math.Sin(d)
	if sinD < 1e-12 {
		// Coincident (or antipodal) endpoints: nothing to interpolate.
		return p1
	}

	a := math.Sin((1-f)*d) / sinD
	b := math.Sin(f*d) / sinD

	x := a*math.Cos(lat1)*math.Cos(lon1) + b*math.Cos(lat2)*math.Cos(lon2)
	y := a*math.Cos(lat1)*math.Sin(lon1) + b*math.Cos(lat2)*math.Sin(lon2)
	z := a*math.Sin(lat1) + b*math.Sin(lat2)

	lat := math.Atan2(z, math.Sqrt(x*x+y*y))
	lon := math.Atan2(y, x)

	return Point{Lat: lat / degToRad, Lon: lon / degToRad}
}

// NormalizeAngle normalizes an angle difference to the range [-180, 180].
func NormalizeAngle(angleDeg float64) float64 {
	for angleDeg > 180 {
		angleDeg -= 360
	}
	for angleDeg < -180 {
		angleDeg += 360
	}
	return angleDeg
}

// NormalizeLon wraps a longitude into (-180, 180].
func NormalizeLon(lon float64) float64 {
	lon = math.Mod(lon+540.0, 360.0) - 180.0
	if lon <= -180 {
		lon += 360
	}
	return lon
}

// RelativeBearing returns the bearing of a target relative to a heading,
// normalized to [0,360). 0 is dead ahead, 90 is off the right wing,
// 180 is behind, 270 is off the left wing.
func RelativeBearing(headingDeg, targetBearingDeg float64) float64 {
	rel := math.Mod(targetBearingDeg-headingDeg, 360.0)
	if rel < 0 {
		rel += 360
	}
	return rel
}
