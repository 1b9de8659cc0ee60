package session

import (
	"fmt"
	"sync"

	"sunviewgo/pkg/sim"
)

// Manager is a thread-safe registry of live simulation sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	cfg Config
	sun SolarSource
}

// NewManager creates an empty manager.
func NewManager(cfg Config, sun SolarSource) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		sun:      sun,
	}
}

// Create builds a session for the plan and registers it.
func (m *Manager) Create(plan sim.FlightPlan) (*Session, error) {
	s, err := New(plan, m.cfg, m.sun)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("unknown session %q", id)
	}
	return s, nil
}

// Remove closes and deregisters a session. Unknown IDs are a no-op.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Close()
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close tears down every session; used at shutdown.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.Close()
		delete(m.sessions, id)
	}
}
