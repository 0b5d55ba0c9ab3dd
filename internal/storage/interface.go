package storage

import (
	"context"

	"github.com/bjesuiter/github-light/internal/domain"
)

// SessionStore is the abstract interface for session persistence. The
// dashboard keeps no repository data of its own; sessions and their
// provider access tokens are the only state it stores.
type SessionStore interface {
	// Session operations
	SaveSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error

	// DeleteExpiredSessions removes every session past its expiry
	DeleteExpiredSessions(ctx context.Context) error

	// Migration
	Migrate(ctx context.Context) error

	// Connection management
	Close() error
}
