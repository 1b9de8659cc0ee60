package render

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"sunviewgo/pkg/route"
	"sunviewgo/pkg/sim"
)

// Map2D renders a GeoJSON FeatureCollection for flat map displays. The
// route is split at the antimeridian so map libraries never draw a line
// across the whole world.
type Map2D struct{}

// Render implements Renderer.
func (Map2D) Render(r *route.Route, res sim.SampleResult) ([]byte, error) {
	return FeatureCollection(r, res).MarshalJSON()
}

// FeatureCollection builds the GeoJSON document: one MultiLineString for
// the route, one Point each for the aircraft and the sub-solar point.
func FeatureCollection(r *route.Route, res sim.SampleResult) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	var ms orb.MultiLineString
	for _, seg := range r.Segments() {
		ls := make(orb.LineString, len(seg))
		for i, p := range seg {
			ls[i] = orb.Point{p.Lon, p.Lat}
		}
		ms = append(ms, ls)
	}
	routeFeature := geojson.NewFeature(ms)
	routeFeature.Properties["kind"] = "route"
	routeFeature.Properties["distance_km"] = r.TotalDistanceKm
	fc.Append(routeFeature)

	aircraft := geojson.NewFeature(orb.Point{res.AircraftPosition.Lon, res.AircraftPosition.Lat})
	aircraft.Properties["kind"] = "aircraft"
	aircraft.Properties["heading_deg"] = res.AircraftHeadingDeg
	aircraft.Properties["side"] = string(res.Side)
	fc.Append(aircraft)

	sun := geojson.NewFeature(orb.Point{res.SunPosition.Lon, res.SunPosition.Lat})
	sun.Properties["kind"] = "sun"
	fc.Append(sun)

	return fc
}
