// internal/adapters/memory/session_store.go
package memory

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
)

type entry struct {
	session   domain.Session
	expiresAt time.Time
}

// SessionStore keeps UI sessions in process memory. Used for single
// instance deployments and tests.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates an in-memory session store
func NewSessionStore(ttl time.Duration, logger *slog.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "memory_session_store")),
	}
}

// Load returns a copy of the stored session, or a fresh one
func (s *SessionStore) Load(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return domain.NewSession(id), nil
	}
	if s.ttl > 0 && s.now().After(e.expiresAt) {
		delete(s.sessions, id)
		return domain.NewSession(id), nil
	}

	return clone(&e.session), nil
}

// Save stores a copy of the session
func (s *SessionStore) Save(_ context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return errors.New("save session: missing session id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	session.UpdatedAt = now.UTC()
	s.sessions[session.ID] = entry{
		session:   *clone(session),
		expiresAt: now.Add(s.ttl),
	}
	s.evictExpiredLocked(now)
	return nil
}

// Delete removes the session
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Ping always succeeds
func (s *SessionStore) Ping(context.Context) error {
	return nil
}

// Len returns the number of stored sessions
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) evictExpiredLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, e := range s.sessions {
		if now.After(e.expiresAt) {
			delete(s.sessions, id)
			s.logger.Debug("session expired", slog.String("session", id))
		}
	}
}

func clone(session *domain.Session) *domain.Session {
	c := *session
	c.Pending = maps.Clone(session.Pending)
	c.Editing = maps.Clone(session.Editing)
	if session.Notice != nil {
		n := *session.Notice
		c.Notice = &n
	}
	c.Normalize()
	return &c
}
