// api/client/session_store.go
package client

import (
	"sync"

	"cartfunnel/api/utils"
)

// SearchContext is the storefront's current search state. It is overwritten
// by each new search and snapshotted into every event emitted after it.
type SearchContext struct {
	Query        string
	Results      []string
	Tier2Results []string
}

// SessionStore holds the per-session state the recorder reads on every
// emission: the session identifier and the last recorded search. Lifetime
// is up to the implementation (the default store lives as long as the
// Recorder does).
type SessionStore interface {
	// SessionID returns the current session identifier, minting one on
	// first read if none exists yet.
	SessionID() string
	// SearchContext returns the last stored search, if any.
	SearchContext() (SearchContext, bool)
	// SetSearchContext replaces the stored search (last write wins).
	SetSearchContext(sc SearchContext)
}

// MemorySessionStore is the default in-process SessionStore.
type MemorySessionStore struct {
	mu        sync.Mutex
	sessionID string
	search    SearchContext
	hasSearch bool
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionID == "" {
		s.sessionID = utils.NewSessionID()
	}
	return s.sessionID
}

func (s *MemorySessionStore) SearchContext() (SearchContext, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.search, s.hasSearch
}

func (s *MemorySessionStore) SetSearchContext(sc SearchContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = sc
	s.hasSearch = true
}
