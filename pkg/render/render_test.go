package render

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunviewgo/pkg/geo"
	"sunviewgo/pkg/route"
	"sunviewgo/pkg/sim"
)

func testRoute(t *testing.T, origin, dest geo.Point) *route.Route {
	t.Helper()
	r, err := route.Compute(origin, dest, 32)
	require.NoError(t, err)
	return r
}

func testSample() sim.SampleResult {
	return sim.SampleResult{
		ProgressPercent:    50,
		AircraftPosition:   geo.Point{Lat: 50, Lon: 10},
		AircraftHeadingDeg: 90,
		SunPosition:        geo.Point{Lat: 23.4, Lon: -40},
		Side:               sim.SideLeft,
	}
}

func TestMap2DFeatureCollection(t *testing.T) {
	r := testRoute(t, geo.Point{Lat: 40.6413, Lon: -73.7781}, geo.Point{Lat: 51.47, Lon: -0.4543})

	data, err := Map2D{}.Render(r, testSample())
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 3)

	kinds := map[string]bool{}
	for _, f := range fc.Features {
		kinds[f.Properties.MustString("kind")] = true
	}
	assert.True(t, kinds["route"] && kinds["aircraft"] && kinds["sun"])
}

func TestMap2DSplitsAtAntimeridian(t *testing.T) {
	// Tokyo to Los Angeles crosses the date line.
	r := testRoute(t, geo.Point{Lat: 35.5494, Lon: 139.7798}, geo.Point{Lat: 33.9416, Lon: -118.4085})

	fc := FeatureCollection(r, testSample())
	routeFeature := fc.Features[0]
	ms := routeFeature.Geometry.GeoJSONType()
	assert.Equal(t, "MultiLineString", ms)

	segs := r.Segments()
	assert.Equal(t, 2, len(segs))
	for _, seg := range segs {
		for _, p := range seg {
			assert.LessOrEqual(t, p.Lon, 180.0)
			assert.Greater(t, p.Lon, -180.0)
		}
	}
}

func TestGlobe3DUnitVectors(t *testing.T) {
	r := testRoute(t, geo.Point{Lat: 40.6413, Lon: -73.7781}, geo.Point{Lat: 19.0896, Lon: 72.8656})

	data, err := Globe3D{}.Render(r, testSample())
	require.NoError(t, err)

	var scene GlobeScene
	require.NoError(t, json.Unmarshal(data, &scene))
	assert.Len(t, scene.Route, len(r.Points))

	for _, v := range append(scene.Route, scene.Aircraft, scene.Sun) {
		norm := math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
		assert.InDelta(t, 1.0, norm, 1e-9)
	}
}

func TestToVec3KnownPoints(t *testing.T) {
	v := ToVec3(geo.Point{Lat: 90, Lon: 0})
	assert.InDelta(t, 1, v.Z, 1e-12)

	v = ToVec3(geo.Point{Lat: 0, Lon: 0})
	assert.InDelta(t, 1, v.X, 1e-12)

	v = ToVec3(geo.Point{Lat: 0, Lon: 90})
	assert.InDelta(t, 1, v.Y, 1e-12)
}
