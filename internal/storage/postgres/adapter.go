package postgres

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/bjesuiter/github-light/internal/domain"
	apperrors "github.com/bjesuiter/github-light/internal/errors"
	"github.com/bjesuiter/github-light/internal/storage"
)

// postgresStore implements the SessionStore interface for PostgreSQL
type postgresStore struct {
	db *sql.DB
}

// NewSessionStore creates a new PostgreSQL session store
func NewSessionStore(connStr string) (storage.SessionStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &postgresStore{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// Migrate runs database migrations
func (s *postgresStore) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		login TEXT NOT NULL,
		access_token TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveSession inserts or replaces a session
func (s *postgresStore) SaveSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, login, access_token, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			login = EXCLUDED.login,
			access_token = EXCLUDED.access_token,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
	`, session.ID, session.Login, session.AccessToken, session.CreatedAt, session.ExpiresAt)
	return err
}

// GetSession retrieves a session by id
func (s *postgresStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	var session domain.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, login, access_token, created_at, expires_at
		FROM sessions WHERE id = $1
	`, id).Scan(&session.ID, &session.Login, &session.AccessToken, &session.CreatedAt, &session.ExpiresAt)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("session")
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession removes a session by id
func (s *postgresStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// DeleteExpiredSessions removes every session past its expiry
func (s *postgresStore) DeleteExpiredSessions(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < NOW()`)
	return err
}

// Close closes the database connection
func (s *postgresStore) Close() error {
	return s.db.Close()
}
