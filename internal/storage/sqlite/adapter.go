package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bjesuiter/github-light/internal/domain"
	apperrors "github.com/bjesuiter/github-light/internal/errors"
	"github.com/bjesuiter/github-light/internal/storage"
)

// sqliteStore implements the SessionStore interface for SQLite
type sqliteStore struct {
	db *sql.DB
}

// NewSessionStore creates a new SQLite session store
func NewSessionStore(dbPath string) (storage.SessionStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	s := &sqliteStore{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// Migrate runs database migrations
func (s *sqliteStore) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		login TEXT NOT NULL,
		access_token TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveSession inserts or replaces a session
func (s *sqliteStore) SaveSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO sessions (id, login, access_token, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`, session.ID, session.Login, session.AccessToken, session.CreatedAt, session.ExpiresAt)
	return err
}

// GetSession retrieves a session by id
func (s *sqliteStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	var session domain.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, login, access_token, created_at, expires_at
		FROM sessions WHERE id = ?
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
func (s *sqliteStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// DeleteExpiredSessions removes every session past its expiry
func (s *sqliteStore) DeleteExpiredSessions(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, time.Now())
	return err
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}
