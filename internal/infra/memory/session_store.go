package memory

import (
	"context"
	"sync"
	"time"

	"isekai-quiz-service/internal/app"

	"github.com/google/uuid"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// Sessions do not survive a process restart.
type SessionStore struct {
	clock    func() time.Time
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore() *SessionStore {
	return NewSessionStoreWithClock(time.Now)
}

// NewSessionStoreWithClock allows deterministic timestamps in tests.
func NewSessionStoreWithClock(clock func() time.Time) *SessionStore {
	return &SessionStore{
		clock:    clock,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Create(ctx context.Context) *app.Session {
	return s.CreateAt(ctx, 0)
}

func (s *SessionStore) CreateAt(_ context.Context, step int) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := app.NewSessionWithClock(uuid.NewString(), step, s.clock)
	s.sessions[session.ID()] = session
	return session
}

func (s *SessionStore) Get(_ context.Context, id string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// Persist is a no-op: sessions are mutated in place.
func (s *SessionStore) Persist(context.Context, *app.Session) {}

// RemoveExpired drops every session older than ttl. Removal order is
// unspecified and the operation is idempotent.
func (s *SessionStore) RemoveExpired(_ context.Context, now time.Time, ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		if now.Sub(session.CreatedAt()) > ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
