package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunviewgo/pkg/airport"
	"sunviewgo/pkg/geo"
	"sunviewgo/pkg/model"
	"sunviewgo/pkg/seat"
	"sunviewgo/pkg/session"
	"sunviewgo/pkg/sim"
)

// memStore is an in-memory AirportStore for handler tests.
type memStore struct {
	m map[string]*model.Airport
}

func (s *memStore) GetAirport(_ context.Context, iata string) (*model.Airport, error) {
	return s.m[iata], nil
}

func (s *memStore) SearchAirports(_ context.Context, q string, limit int) ([]*model.Airport, error) {
	var out []*model.Airport
	for _, a := range s.m {
		if strings.Contains(a.IATA, strings.ToUpper(q)) {
			out = append(out, a)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *memStore) SaveAirport(_ context.Context, a *model.Airport) error {
	s.m[a.IATA] = a
	return nil
}

// fixedSun returns a constant sub-solar point.
type fixedSun struct {
	p geo.Point
}

func (f fixedSun) SubsolarAt(time.Time) (geo.Point, error) { return f.p, nil }

func newTestServer(t *testing.T) (*httptest.Server, *session.Manager) {
	t.Helper()

	st := &memStore{m: map[string]*model.Airport{
		"JFK": {IATA: "JFK", Name: "John F. Kennedy", Lat: 40.6413, Lon: -73.7781},
		"BOM": {IATA: "BOM", Name: "Chhatrapati Shivaji", Lat: 19.0896, Lon: 72.8656},
	}}
	resolver := airport.NewResolver(st, nil, "", "")
	sun := fixedSun{geo.Point{Lat: 23.4, Lon: 0}}

	manager := session.NewManager(session.Config{
		RoutePoints:  64,
		TickInterval: time.Hour,
		StepPercent:  1,
	}, sun)
	t.Cleanup(manager.Close)

	srv := NewServer("localhost:0",
		NewAirportHandler(resolver),
		NewSubsolarHandler(sun),
		NewRecommendHandler(resolver, seat.NewScorer(sun), 64),
		NewSessionHandler(manager, resolver),
		NewStreamHandler(manager),
		func() {},
	)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts, manager
}

func planBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(PlanRequest{
		Origin:          "JFK",
		Destination:     "BOM",
		DepartureUTC:    time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC),
		DurationMinutes: 600,
		Preference:      "sunrise",
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestHealthAndVersion(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/version")
	require.NoError(t, err)
	defer resp.Body.Close()
	var v struct {
		Version string `json:"version"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	assert.NotEmpty(t, v.Version)
}

func TestAirportLookup(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/airports/JFK")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var a model.Airport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&a))
	assert.Equal(t, "JFK", a.IATA)

	resp, err = http.Get(ts.URL + "/api/airports/XYZ")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubsolar(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/subsolar?at=2024-06-21T12:00:00Z")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sr SubsolarResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sr))
	assert.InDelta(t, 23.4, sr.Position.Lat, 1e-9)

	resp, err = http.Get(ts.URL + "/api/subsolar?at=yesterday")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecommend(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/recommend", "application/json", planBody(t))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rr RecommendResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rr))
	assert.Equal(t, "JFK", rr.Origin.IATA)
	assert.InDelta(t, 12531.9, rr.DistanceKm, 12531.9*0.02)
	assert.Contains(t, []sim.Side{sim.SideLeft, sim.SideRight}, rr.Recommendation.RecommendedSide)
}

func TestRecommendBadPlan(t *testing.T) {
	ts, _ := newTestServer(t)

	body, _ := json.Marshal(PlanRequest{Origin: "JFK", Destination: "JFK", DurationMinutes: 600, Preference: "sunrise", DepartureUTC: time.Now()})
	resp, err := http.Post(ts.URL+"/api/recommend", "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, _ = json.Marshal(PlanRequest{Origin: "JFK", Destination: "ZZZ", DurationMinutes: 600, Preference: "sunrise", DepartureUTC: time.Now()})
	resp, err = http.Post(ts.URL+"/api/recommend", "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionLifecycle(t *testing.T) {
	ts, manager := newTestServer(t)

	// Create
	resp, err := http.Post(ts.URL+"/api/sessions", "application/json", planBody(t))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.NotEmpty(t, created.ID)
	assert.True(t, created.Ready)
	assert.Equal(t, 1, manager.Len())

	base := ts.URL + "/api/sessions/" + created.ID

	// Seek to 50%
	cmd, _ := json.Marshal(PlaybackRequest{Action: "seek", Value: 50})
	resp, err = http.Post(base+"/playback", "application/json", bytes.NewBuffer(cmd))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// State reflects the seek
	resp, err = http.Get(base)
	require.NoError(t, err)
	var state SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	resp.Body.Close()
	assert.InDelta(t, 50, state.Playback.ProgressPercent, 1e-9)
	require.NotNil(t, state.Sample)

	// Route as GeoJSON
	resp, err = http.Get(base + "/route")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fc))
	resp.Body.Close()
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Len(t, fc.Features, 3)

	// Unknown playback action
	cmd, _ = json.Marshal(PlaybackRequest{Action: "warp"})
	resp, err = http.Post(base+"/playback", "application/json", bytes.NewBuffer(cmd))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Delete
	req, _ := http.NewRequest(http.MethodDelete, base, http.NoBody)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 0, manager.Len())
}

func TestStream(t *testing.T) {
	// Frames are only emitted by ticks, so this test needs a fast ticker.
	manager := session.NewManager(session.Config{
		RoutePoints:  64,
		TickInterval: 5 * time.Millisecond,
		StepPercent:  0.25,
	}, fixedSun{geo.Point{Lat: 23.4, Lon: 0}})
	t.Cleanup(manager.Close)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/sessions/{id}/stream", NewStreamHandler(manager).Handle)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	s, err := manager.Create(sim.FlightPlan{
		Origin:          geo.Point{Lat: 40.6413, Lon: -73.7781},
		Destination:     geo.Point{Lat: 19.0896, Lon: 72.8656},
		DepartureUTC:    time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC),
		DurationMinutes: 600,
		Preference:      sim.PreferenceSunset,
	})
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/sessions/" + s.ID + "/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	require.NoError(t, s.Play())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame sim.SampleResult
	require.NoError(t, conn.ReadJSON(&frame))
	assert.GreaterOrEqual(t, frame.ProgressPercent, 0.0)
	assert.NotZero(t, frame.AircraftPosition)
}

func TestStreamUnknownSession(t *testing.T) {
	ts, _ := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/sessions/nope/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	if conn != nil {
		conn.Close()
	}
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
