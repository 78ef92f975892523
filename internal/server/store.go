// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"sync"

	"github.com/pdiddy/paper-recommender/internal/session"
)

// ErrSessionNotFound is returned for an unknown or ended session id.
var ErrSessionNotFound = errors.New("session not found")

// sessionStore keeps live sessions in memory. Each session has its own
// lock so that one user's actions run one at a time.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

type entry struct {
	mu sync.Mutex
	s  *session.Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*entry)}
}

func (st *sessionStore) add(s *session.Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = &entry{s: s}
}

// with runs fn while holding the session's lock.
func (st *sessionStore) with(id string, fn func(*session.Session) error) error {
	st.mu.RLock()
	e, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.s)
}

func (st *sessionStore) remove(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

func (st *sessionStore) len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
