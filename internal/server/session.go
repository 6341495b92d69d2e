package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/papergen/internal/questiongen"
)

// DefaultSessionTTL is how long a generated paper stays downloadable.
const DefaultSessionTTL = time.Hour

// Session holds one generated paper for its export lifetime.
type Session struct {
	ID        string
	CreatedAt time.Time
	Set       *questiongen.QuestionSet
}

// SessionStore keeps question sets in memory between generation and
// download. Expired sessions are dropped on access and by Sweep.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*Session
}

// NewSessionStore creates a store. A non-positive ttl selects
// DefaultSessionTTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Put stores qs under a fresh id and returns the id.
func (s *SessionStore) Put(qs *questiongen.QuestionSet) string {
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: s.now(),
		Set:       qs,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return sess.ID
}

// Get returns the live session for id.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.expired(sess) {
		delete(s.sessions, id)
		return nil, false
	}
	return sess, true
}

// Sweep removes expired sessions and reports how many were dropped.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Len reports the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// RunJanitor sweeps every interval until ctx is cancelled.
func (s *SessionStore) RunJanitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}

func (s *SessionStore) expired(sess *Session) bool {
	return s.now().Sub(sess.CreatedAt) >= s.ttl
}
