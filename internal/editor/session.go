package editor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned by Get for unknown or expired session ids.
var ErrSessionNotFound = errors.New("editor session not found")

// Session is one interactive editing session on a floor plan. Each session
// owns its history; two sessions on the same plan never share undo state.
type Session struct {
	ID          string
	FloorPlanID int64
	History     *History
	LastActive  time.Time

	mu sync.Mutex
}

// Push records a snapshot on the session's history.
func (s *Session) Push(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.History.Push(snap.Elements, snap.Racks)
	s.LastActive = time.Now()
}

// Undo steps the session back one snapshot.
func (s *Session) Undo() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastActive = time.Now()
	return s.History.Undo()
}

// Redo steps the session forward one snapshot.
func (s *Session) Redo() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastActive = time.Now()
	return s.History.Redo()
}

// CanUndo reports whether an older snapshot is available.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.History.CanUndo()
}

// CanRedo reports whether an undone snapshot can be reapplied.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.History.CanRedo()
}

// SessionManager tracks live editing sessions by id.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	depth    int
	ttl      time.Duration
}

// NewSessionManager creates a manager whose sessions carry histories bounded
// to depth entries. Sessions idle longer than ttl are dropped by Prune; a
// non-positive ttl disables pruning.
func NewSessionManager(depth int, ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		depth:    depth,
		ttl:      ttl,
	}
}

// Open starts a new session for the given floor plan and returns it.
func (m *SessionManager) Open(floorPlanID int64) *Session {
	session := &Session{
		ID:          uuid.NewString(),
		FloorPlanID: floorPlanID,
		History:     NewHistory(m.depth),
		LastActive:  time.Now(),
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()
	return session
}

// Get returns the session with the given id.
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session, nil
}

// Close discards a session and its history.
func (m *SessionManager) Close(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Prune drops sessions idle longer than the manager's ttl and returns how
// many were removed.
func (m *SessionManager) Prune(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, session := range m.sessions {
		if now.Sub(session.LastActive) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
