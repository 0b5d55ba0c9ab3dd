package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"

	"github.com/bjesuiter/github-light/internal/config"
	"github.com/bjesuiter/github-light/internal/domain"
	apperrors "github.com/bjesuiter/github-light/internal/errors"
	"github.com/bjesuiter/github-light/internal/github"
	"github.com/bjesuiter/github-light/internal/storage"
)

const (
	// SessionCookieName carries the signed session id
	SessionCookieName = "ghlight_session"

	// StateCookieName carries the signed OAuth state during the handshake
	StateCookieName = "ghlight_oauth_state"
)

// viewerResolver resolves the GitHub login behind an access token
type viewerResolver func(ctx context.Context, token string) (*domain.Viewer, error)

// Gateway is the authentication collaborator: it runs the GitHub OAuth
// handshake, persists sessions, and resolves the provider access token
// for incoming requests
type Gateway struct {
	oauth         *oauth2.Config
	store         storage.SessionStore
	secret        []byte
	sessionTTL    time.Duration
	devToken      string
	secureCookies bool

	resolveViewer viewerResolver
}

// NewGateway creates a gateway from the application configuration
func NewGateway(cfg *config.Config, store storage.SessionStore) *Gateway {
	return &Gateway{
		oauth: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			Endpoint:     oauthgithub.Endpoint,
			RedirectURL:  strings.TrimRight(cfg.AppBaseURL, "/") + "/api/auth/callback",
			Scopes:       []string{"read:user", "read:org", "repo"},
		},
		store:         store,
		secret:        []byte(cfg.SessionSecret),
		sessionTTL:    cfg.SessionTTL,
		devToken:      cfg.DevGitHubToken,
		secureCookies: strings.HasPrefix(cfg.AppBaseURL, "https://"),
		resolveViewer: func(ctx context.Context, token string) (*domain.Viewer, error) {
			return github.NewClient(token).GetViewer(ctx)
		},
	}
}

// BeginSignIn writes the state cookie and returns the GitHub authorize
// URL to redirect the user to
func (g *Gateway) BeginSignIn(w http.ResponseWriter) string {
	state := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    signValue(g.secret, state),
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   g.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	return g.oauth.AuthCodeURL(state)
}

// CompleteSignIn verifies the state, exchanges the authorization code,
// resolves the viewer, persists a session, and sets the session cookie
func (g *Gateway) CompleteSignIn(ctx context.Context, w http.ResponseWriter, r *http.Request) (*domain.Session, error) {
	stateCookie, err := r.Cookie(StateCookieName)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("missing OAuth state cookie")
	}
	state, err := verifyValue(g.secret, stateCookie.Value)
	if err != nil || state == "" || state != r.URL.Query().Get("state") {
		return nil, apperrors.NewUnauthorizedError("OAuth state mismatch")
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		return nil, apperrors.NewUnauthorizedError("missing authorization code")
	}

	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("authorization code exchange failed")
	}

	viewer, err := g.resolveViewer(ctx, token.AccessToken)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("unable to resolve GitHub user for new session")
	}

	now := time.Now()
	session := &domain.Session{
		ID:          uuid.NewString(),
		Login:       viewer.Login,
		AccessToken: token.AccessToken,
		CreatedAt:   now,
		ExpiresAt:   now.Add(g.sessionTTL),
	}

	if err := g.store.SaveSession(ctx, session); err != nil {
		return nil, apperrors.NewInternalError("failed to persist session", err)
	}

	g.clearCookie(w, StateCookieName)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    signValue(g.secret, session.ID),
		Path:     "/",
		MaxAge:   int(g.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   g.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	return session, nil
}

// GetSession resolves the session behind the request's cookie. Expired
// sessions are deleted and reported as unauthorized.
func (g *Gateway) GetSession(ctx context.Context, r *http.Request) (*domain.Session, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("no session")
	}

	id, err := verifyValue(g.secret, cookie.Value)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid session cookie")
	}

	session, err := g.store.GetSession(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewUnauthorizedError("no session")
		}
		return nil, err
	}

	if session.Expired(time.Now()) {
		_ = g.store.DeleteSession(ctx, session.ID)
		return nil, apperrors.NewUnauthorizedError("session expired")
	}

	return session, nil
}

// AccessToken resolves the GitHub access token for the request: the
// session's provider token when signed in, otherwise the development
// bypass token when one is configured
func (g *Gateway) AccessToken(ctx context.Context, r *http.Request) (string, error) {
	session, err := g.GetSession(ctx, r)
	if err == nil && session.AccessToken != "" {
		return session.AccessToken, nil
	}

	if g.devToken != "" {
		return g.devToken, nil
	}

	return "", apperrors.NewUnauthorizedError("Missing GitHub access token")
}

// SignOut deletes the session and clears the cookie
func (g *Gateway) SignOut(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	session, err := g.GetSession(ctx, r)
	if err == nil {
		if err := g.store.DeleteSession(ctx, session.ID); err != nil {
			return err
		}
	}

	g.clearCookie(w, SessionCookieName)
	return nil
}

func (g *Gateway) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
