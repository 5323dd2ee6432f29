package redis

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"isekai-quiz-service/internal/app"
	"isekai-quiz-service/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - It keeps a local in-memory map of live sessions so per-session locking
//     stays in-process.
//   - Redis holds a JSON snapshot of each session with the store TTL, so a
//     restarted instance can rehydrate a session it has never seen.
//   - Snapshots are best-effort; Redis being down degrades to memory-only.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Create(ctx context.Context) *app.Session {
	return s.CreateAt(ctx, 0)
}

func (s *SessionStore) CreateAt(ctx context.Context, step int) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := app.NewSession(uuid.NewString(), step)
	s.sessions[session.ID()] = session
	s.persist(ctx, session)
	return session
}

func (s *SessionStore) Get(ctx context.Context, id string) (*app.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return session, true
	}

	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var state domain.Session
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another goroutine may have rehydrated it first.
	if session, ok := s.sessions[id]; ok {
		return session, true
	}
	session = app.RestoreSession(state)
	s.sessions[id] = session
	return session, true
}

func (s *SessionStore) Persist(ctx context.Context, session *app.Session) {
	s.persist(ctx, session)
}

func (s *SessionStore) persist(ctx context.Context, session *app.Session) {
	raw, err := json.Marshal(session.Snapshot())
	if err != nil {
		return
	}
	_ = s.client.Set(ctx, s.key(session.ID()), raw, s.ttl).Err()
}

// RemoveExpired sweeps the local map; Redis snapshots expire on their own TTL
// but are deleted here as well so a swept id cannot be rehydrated.
func (s *SessionStore) RemoveExpired(ctx context.Context, now time.Time, ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		if now.Sub(session.CreatedAt()) > ttl {
			delete(s.sessions, id)
			_ = s.client.Del(ctx, s.key(id)).Err()
			removed++
		}
	}
	return removed
}

func (s *SessionStore) key(id string) string {
	return "quiz:session:" + id
}
