package session

import (
	"sync"

	"github.com/vectorcanvas/core/schema"
)

// Manager holds one DocumentSession per actively-collaborated document
// plus the shared document replica store, matching the two-level
// RWMutex locking spec.md §5 describes: Manager guards the session map,
// each DocumentSession guards its own client map (original_source's
// SessionManager).
type Manager struct {
	mu       sync.RWMutex
	sessions map[schema.DocumentID]*DocumentSession
	Store    *DocumentStore
}

// NewManager returns a Manager with an empty session set, using actorID
// as the server's CRDT actor identity for any document it must create.
func NewManager(actorID string) *Manager {
	return &Manager{
		sessions: make(map[schema.DocumentID]*DocumentSession),
		Store:    NewDocumentStore(actorID),
	}
}

// GetOrCreateSession returns the session for id, creating it if absent.
func (m *Manager) GetOrCreateSession(id schema.DocumentID) *DocumentSession {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s = NewDocumentSession()
	m.sessions[id] = s
	return s
}

// GetSession returns the session for id, if one exists.
func (m *Manager) GetSession(id schema.DocumentID) (*DocumentSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// RemoveSession drops a session, typically once its last client departs.
func (m *Manager) RemoveSession(id schema.DocumentID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// ActiveSessions returns every document id with a live session.
func (m *Manager) ActiveSessions() []schema.DocumentID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]schema.DocumentID, 0, len(m.sessions))
	for id := range m.sessions {
		out = append(out, id)
	}
	return out
}

// TotalClients sums connected clients across every active session.
func (m *Manager) TotalClients() int {
	m.mu.RLock()
	sessions := make([]*DocumentSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	total := 0
	for _, s := range sessions {
		total += s.ClientCount()
	}
	return total
}
