package render

import (
	"encoding/json"
	"math"

	"sunviewgo/pkg/geo"
	"sunviewgo/pkg/route"
	"sunviewgo/pkg/sim"
)

// Vec3 is a point on the unit sphere in earth-centered coordinates.
// X points at (0,0), Y at (0,90E), Z at the north pole.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// GlobeScene is the payload a 3D globe view consumes.
type GlobeScene struct {
	Route      []Vec3  `json:"route"`
	Aircraft   Vec3    `json:"aircraft"`
	HeadingDeg float64 `json:"heading_deg"`
	Sun        Vec3    `json:"sun"`
	Side       string  `json:"side"`
}

// Globe3D renders unit-sphere positions for a 3D globe display. No
// antimeridian handling is needed; the sphere has no seam.
type Globe3D struct{}

// Render implements Renderer.
func (Globe3D) Render(r *route.Route, res sim.SampleResult) ([]byte, error) {
	scene := GlobeScene{
		Route:      make([]Vec3, len(r.Points)),
		Aircraft:   ToVec3(res.AircraftPosition),
		HeadingDeg: res.AircraftHeadingDeg,
		Sun:        ToVec3(res.SunPosition),
		Side:       string(res.Side),
	}
	for i, p := range r.Points {
		scene.Route[i] = ToVec3(p)
	}
	return json.Marshal(scene)
}

// ToVec3 converts geodetic coordinates to a unit-sphere vector.
func ToVec3(p geo.Point) Vec3 {
	lat := p.Lat * math.Pi / 180
	lon := p.Lon * math.Pi / 180
	return Vec3{
		X: math.Cos(lat) * math.Cos(lon),
		Y: math.Cos(lat) * math.Sin(lon),
		Z: math.Sin(lat),
	}
}
