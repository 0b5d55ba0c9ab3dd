package domain

import "time"

// Session is one authenticated browser session. The access token is the
// GitHub OAuth token obtained during sign-in; it never leaves the server.
type Session struct {
	ID          string
	Login       string
	AccessToken string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the session is past its expiry
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
