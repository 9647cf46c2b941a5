package session

import (
	"fmt"
	"sync"

	"github.com/glimpsehq/glimpse/internal/event"
	"github.com/glimpsehq/glimpse/internal/logging"
)

// Manager owns all live sessions and the bus their events flow through.
type Manager struct {
	bus *event.Bus
	log *logging.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string // creation order, for stable listing
}

// NewManager creates a manager. A nil bus or logger is replaced with a
// no-op one.
func NewManager(bus *event.Bus, log *logging.Logger) *Manager {
	if bus == nil {
		bus = event.NewBus()
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Manager{
		bus:      bus,
		log:      log,
		sessions: make(map[string]*Session),
	}
}

// Bus returns the shared event bus.
func (m *Manager) Bus() *event.Bus { return m.bus }

// Spawn creates and starts a session with the given options.
func (m *Manager) Spawn(opts Options) (*Session, error) {
	sess := New(opts, m.bus, m.log)
	if err := sess.Start(); err != nil {
		return nil, fmt.Errorf("spawning session: %w", err)
	}

	m.mu.Lock()
	m.sessions[sess.ID()] = sess
	m.order = append(m.order, sess.ID())
	m.mu.Unlock()

	return sess, nil
}

// Get returns the session with the given id, if any.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// List returns all sessions in creation order.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Session, 0, len(m.order))
	for _, id := range m.order {
		if sess, ok := m.sessions[id]; ok {
			out = append(out, sess)
		}
	}
	return out
}

// Remove closes the session and forgets it. Returns false if unknown.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
		for i, sid := range m.order {
			if sid == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	if err := sess.Close(); err != nil {
		m.log.Warn("closing session", "session_id", id, "error", err)
	}
	return true
}

// CloseAll closes every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess)
	}
	m.sessions = make(map[string]*Session)
	m.order = nil
	m.mu.Unlock()

	for _, sess := range sessions {
		if err := sess.Close(); err != nil {
			m.log.Warn("closing session", "session_id", sess.ID(), "error", err)
		}
	}
}
