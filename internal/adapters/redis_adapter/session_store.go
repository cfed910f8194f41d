// internal/adapters/redis_adapter/session_store.go
package redis_a

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
)

// SessionStore keeps UI sessions in Redis under session:{id}.
// Every save refreshes the TTL.
type SessionStore struct {
	cache  *Cache
	logger *slog.Logger
}

// Statically assert that *SessionStore implements the SessionStore interface.
var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a Redis backed session store
func NewSessionStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *SessionStore {
	return &SessionStore{
		cache:  NewCache(client, ttl, logger),
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Load returns the stored session, or a fresh one when id is unknown or expired
func (s *SessionStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	var session domain.Session
	err := s.cache.Get(ctx, sessionKey(id), &session)
	if errors.Is(err, ErrCacheMiss) {
		return domain.NewSession(id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	session.ID = id
	session.Normalize()
	return &session, nil
}

// Save stores the session
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return errors.New("save session: missing session id")
	}

	session.UpdatedAt = time.Now().UTC()
	if err := s.cache.Set(ctx, sessionKey(session.ID), session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete removes the session
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.DebugContext(ctx, "session deleted", slog.String("session", id))
	return nil
}

// Ping checks if Redis is accessible
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}

func sessionKey(id string) string {
	return BuildKey(PrefixSession, id)
}
