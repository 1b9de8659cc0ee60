// Package session ties one flight plan to its route, playback state and
// derived solar geometry. Everything a simulation needs lives on the
// session; there are no package-level globals.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"sunviewgo/pkg/geo"
	"sunviewgo/pkg/playback"
	"sunviewgo/pkg/route"
	"sunviewgo/pkg/seat"
	"sunviewgo/pkg/sim"
)

// SolarSource supplies the sub-solar point for an instant.
type SolarSource interface {
	SubsolarAt(t time.Time) (geo.Point, error)
}

// Config carries the simulation tunables a session needs.
type Config struct {
	RoutePoints  int
	TickInterval time.Duration
	StepPercent  float64
}

// Session owns one simulation: the immutable FlightPlan and Route, the
// playback controller, the base sub-solar reference and the per-plan
// recommendation cache. Renderers and API handlers only ever read from it.
type Session struct {
	ID string

	plan  sim.FlightPlan
	route *route.Route
	ctrl  *playback.Controller

	mu           sync.RWMutex
	baseSubsolar geo.Point
	baseResolved bool
	rec          *seat.Recommendation

	sun    SolarSource
	scorer *seat.Scorer

	subMu sync.Mutex
	subs  map[int]chan sim.SampleResult
	subID int
}

// New creates a session for the given plan. The route is computed once here;
// the base solar reference is resolved from sun, and until that succeeds the
// session refuses to start playback.
func New(plan sim.FlightPlan, cfg Config, sun SolarSource) (*Session, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	r, err := route.Compute(plan.Origin, plan.Destination, cfg.RoutePoints)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:     uuid.NewString(),
		plan:   plan,
		route:  r,
		sun:    sun,
		scorer: seat.NewScorer(sun),
		subs:   make(map[int]chan sim.SampleResult),
	}
	s.ctrl = playback.NewController(cfg.TickInterval, cfg.StepPercent, s.onTick)

	if err := s.resolveBase(); err != nil {
		slog.Warn("Base sub-solar point not yet available", "session", s.ID, "error", err)
	}

	return s, nil
}

// resolveBase fetches the sub-solar point at departure. Safe to call again
// after a failure; a success sticks.
func (s *Session) resolveBase() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.baseResolved {
		return nil
	}
	base, err := s.sun.SubsolarAt(s.plan.DepartureUTC)
	if err != nil {
		return err
	}
	s.baseSubsolar = base
	s.baseResolved = true
	return nil
}

// Ready reports whether route and solar reference are resolved.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseResolved
}

// Plan returns the immutable flight plan.
func (s *Session) Plan() sim.FlightPlan { return s.plan }

// Route returns the immutable route; callers must not mutate it.
func (s *Session) Route() *route.Route { return s.route }

// Playback exposes the playback status.
func (s *Session) Playback() playback.Status { return s.ctrl.Status() }

// Play starts playback, refusing while upstream inputs are unresolved.
func (s *Session) Play() error {
	if err := s.resolveBase(); err != nil {
		return fmt.Errorf("cannot simulate yet: %w", err)
	}
	s.ctrl.Play()
	return nil
}

// Pause suspends playback.
func (s *Session) Pause() { s.ctrl.Pause() }

// Seek jumps to a progress percentage, clamped to [0,100].
func (s *Session) Seek(p float64) { s.ctrl.Seek(p) }

// Reset returns playback to stopped at progress 0.
func (s *Session) Reset() { s.ctrl.Reset() }

// SetSpeed changes the playback speed multiplier.
func (s *Session) SetSpeed(m float64) error { return s.ctrl.SetSpeed(m) }

// Sample derives the current SampleResult. It is recomputed on every call;
// results are never cached across progress changes.
func (s *Session) Sample() (sim.SampleResult, error) {
	s.mu.RLock()
	base := s.baseSubsolar
	resolved := s.baseResolved
	s.mu.RUnlock()

	if !resolved {
		return sim.SampleResult{}, fmt.Errorf("base sub-solar point not resolved")
	}
	return sim.Snapshot(s.route, s.plan, base, s.ctrl.Status().ProgressPercent)
}

// Recommendation returns the seat recommendation, computed once per plan and
// cached for the session's lifetime (the plan is immutable).
func (s *Session) Recommendation() (seat.Recommendation, error) {
	s.mu.RLock()
	if s.rec != nil {
		rec := *s.rec
		s.mu.RUnlock()
		return rec, nil
	}
	s.mu.RUnlock()

	rec, err := s.scorer.Recommend(s.route, s.plan)
	if err != nil {
		return seat.Recommendation{}, err
	}

	s.mu.Lock()
	s.rec = &rec
	s.mu.Unlock()
	return rec, nil
}

// Subscribe registers a per-tick SampleResult feed for a rendering layer.
// The returned cancel func must be called when the consumer goes away.
// Slow consumers miss frames rather than stall the simulation.
func (s *Session) Subscribe() (<-chan sim.SampleResult, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.subID
	s.subID++
	ch := make(chan sim.SampleResult, 8)
	s.subs[id] = ch

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// onTick recomputes the sample for the committed progress and fans it out.
func (s *Session) onTick(st playback.Status) {
	s.mu.RLock()
	base := s.baseSubsolar
	resolved := s.baseResolved
	s.mu.RUnlock()
	if !resolved {
		return
	}

	res, err := sim.Snapshot(s.route, s.plan, base, st.ProgressPercent)
	if err != nil {
		slog.Error("Tick snapshot failed", "session", s.ID, "error", err)
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- res:
		default: // Drop the frame for laggards.
		}
	}
}

// Close stops the ticker and closes all subscriber feeds.
func (s *Session) Close() {
	s.ctrl.Close()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
