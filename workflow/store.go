package workflow

import (
	"sync"
	"time"
)

// Store keeps active workflow sessions in memory. Sessions are transient by
// nature (they mirror a browser tab), so they are reclaimed after a TTL
// rather than persisted.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewStore creates a session store with the given time-to-live
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create allocates a new session and registers it. Stale sessions are swept
// on each create, keeping the map bounded without a background timer.
func (st *Store) Create() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.sweepLocked()

	session := NewSession()
	st.sessions[session.ID] = session
	return session
}

// Get returns the session with the given ID, or nil if it does not exist
func (st *Store) Get(id string) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[id]
}

// Delete removes a session from the store
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len returns the number of active sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// sweepLocked removes sessions that have been idle longer than the TTL.
// Caller must hold the write lock.
func (st *Store) sweepLocked() {
	if st.ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-st.ttl)
	for id, session := range st.sessions {
		if session.Snapshot().UpdatedAt.Before(cutoff) {
			delete(st.sessions, id)
		}
	}
}
