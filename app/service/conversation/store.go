package conversation

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultMaxSessions = 10000
	DefaultSessionTTL  = 24 * time.Hour
)

// Store keeps sessions in memory, keyed by id. Sessions share nothing.
// At most maxSessions are kept; the least recently used one is dropped first,
// and a session idle for longer than ttl expires.
type Store struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *Session]
}

// NewStore creates a bounded store. Non-positive arguments fall back to the defaults.
func NewStore(maxSessions int, ttl time.Duration) *Store {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return &Store{
		sessions: expirable.NewLRU[string, *Session](maxSessions, nil, ttl),
	}
}

// Get returns the session for id, creating an empty one on first use.
func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions.Get(id)
	if !ok {
		sess = NewSession(id)
	}

	// re-adding restarts the idle timer
	s.sessions.Add(id, sess)

	return sess
}

// Lookup returns an existing session without creating one.
func (s *Store) Lookup(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions.Get(id)
	if ok {
		s.sessions.Add(id, sess)
	}

	return sess, ok
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Len()
}
