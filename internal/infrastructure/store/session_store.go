package store

import (
	"errors"
	"slices"
	"sync"

	"github.com/example/catalog-browser/internal/domain/catalog"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore is an in-memory registry of live catalog sessions
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*catalog.Store // sessionID -> store
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*catalog.Store),
	}
}

// Set registers or replaces a session
func (ss *SessionStore) Set(sessionID string, s *catalog.Store) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[sessionID] = s
}

// Get retrieves a session by id
func (ss *SessionStore) Get(sessionID string) (*catalog.Store, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	s, ok := ss.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// GetOrCreate returns the session, creating it with newFn when absent
func (ss *SessionStore) GetOrCreate(sessionID string, newFn func() *catalog.Store) *catalog.Store {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if s, ok := ss.sessions[sessionID]; ok {
		return s
	}
	s := newFn()
	ss.sessions[sessionID] = s
	return s
}

// Delete removes a session
func (ss *SessionStore) Delete(sessionID string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, sessionID)
}

// IDs returns the registered session ids in sorted order
func (ss *SessionStore) IDs() []string {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	ids := make([]string, 0, len(ss.sessions))
	for id := range ss.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of live sessions
func (ss *SessionStore) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}
