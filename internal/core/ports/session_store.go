// internal/core/ports/session_store.go
package ports

import (
	"context"

	"github.com/ammerola/storefront/internal/core/domain"
)

// SessionStore persists per-browser UI state between requests.
// Load returns a fresh empty session when id is unknown.
type SessionStore interface {
	Load(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
