package classifier

import (
	"context"
	"sync"
	"time"

	"github.com/FrenchMajesty/zeroshot-classifier/types"
	"github.com/google/uuid"
)

// DefaultSessionTTL is how long an idle session is kept
const DefaultSessionTTL = 24 * time.Hour

// NewSession creates a session with a fresh id and no accepted inputs
func NewSession() *types.Session {
	return &types.Session{
		ID:        uuid.New().String(),
		UpdatedAt: time.Now(),
	}
}

// MemorySessionStore keeps sessions in process memory
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]types.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionStore creates an in-memory store. A ttl <= 0 uses DefaultSessionTTL.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemorySessionStore{
		sessions: make(map[string]types.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns a copy of the session, or ErrSessionNotFound when unknown or expired
func (s *MemorySessionStore) Get(ctx context.Context, id string) (*types.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	if s.expired(session) {
		s.mu.Lock()
		// A Save may have refreshed the session since the read
		if current, ok := s.sessions[id]; ok && s.expired(current) {
			delete(s.sessions, id)
		}
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}

	session.Labels = append([]string(nil), session.Labels...)
	return &session, nil
}

// Save stores a copy of the session, refreshing UpdatedAt, and prunes expired ones
func (s *MemorySessionStore) Save(ctx context.Context, session *types.Session) error {
	now := s.now()
	session.UpdatedAt = now

	copied := *session
	copied.Labels = append([]string(nil), session.Labels...)

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.sessions {
		if s.expired(existing) {
			delete(s.sessions, id)
		}
	}
	s.sessions[copied.ID] = copied

	return nil
}

func (s *MemorySessionStore) expired(session types.Session) bool {
	return s.now().Sub(session.UpdatedAt) > s.ttl
}

// Len returns the number of stored sessions
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
