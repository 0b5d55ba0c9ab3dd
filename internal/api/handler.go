package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bjesuiter/github-light/internal/aggregator"
	"github.com/bjesuiter/github-light/internal/auth"
	"github.com/bjesuiter/github-light/internal/cache"
	"github.com/bjesuiter/github-light/internal/domain"
	apperrors "github.com/bjesuiter/github-light/internal/errors"
	"github.com/bjesuiter/github-light/internal/github"
	"github.com/bjesuiter/github-light/internal/wizard"
)

// Authenticator resolves the session and provider access token behind a
// request
type Authenticator interface {
	GetSession(ctx context.Context, r *http.Request) (*domain.Session, error)
	AccessToken(ctx context.Context, r *http.Request) (string, error)
}

// Handler handles API requests
type Handler struct {
	gateway *auth.Gateway
	authn   Authenticator
	cache   *cache.ProjectsCache

	fetcherFor func(token string) github.Fetcher
	creatorFor func(token string) github.Creator
}

// NewHandler creates a new API handler
func NewHandler(gateway *auth.Gateway, projectsCache *cache.ProjectsCache) *Handler {
	return &Handler{
		gateway: gateway,
		authn:   gateway,
		cache:   projectsCache,
		fetcherFor: func(token string) github.Fetcher {
			return github.NewClient(token)
		},
		creatorFor: func(token string) github.Creator {
			return github.NewClient(token)
		},
	}
}

// GetProjects returns the owner-grouped repository aggregate
// GET /api/projects
func (h *Handler) GetProjects(c *gin.Context) {
	ctx := c.Request.Context()

	token, err := h.authn.AccessToken(ctx, c.Request)
	if err != nil {
		respondError(c, err)
		return
	}

	refresh := c.Query("refresh") == "true"
	if !refresh {
		if session, err := h.authn.GetSession(ctx, c.Request); err == nil {
			if aggregate, ok := h.cache.Get(session.Login); ok {
				c.JSON(http.StatusOK, gin.H{
					"data": aggregate,
				})
				return
			}
		}
	}

	agg := aggregator.NewAggregator(h.fetcherFor(token))
	aggregate, err := agg.AggregateProjects(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	h.cache.Put(aggregate.Viewer.Login, aggregate)

	c.JSON(http.StatusOK, gin.H{
		"data": aggregate,
	})
}

// createRepoRequest is the creation payload accepted from the client
type createRepoRequest struct {
	Name              string `json:"name" binding:"required"`
	Description       string `json:"description"`
	OwnerLogin        string `json:"ownerLogin" binding:"required"`
	Visibility        string `json:"visibility" binding:"required,oneof=private public"`
	AutoInit          bool   `json:"autoInit"`
	GitignoreTemplate string `json:"gitignoreTemplate"`
	LicenseTemplate   string `json:"licenseTemplate"`
}

// CreateRepository creates a repository from a normalized draft
// POST /api/repos/create
func (h *Handler) CreateRepository(c *gin.Context) {
	ctx := c.Request.Context()

	token, err := h.authn.AccessToken(ctx, c.Request)
	if err != nil {
		respondError(c, err)
		return
	}

	var req createRepoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("Invalid repository payload"))
		return
	}

	draft := wizard.NewRepoDraft{
		Name:              req.Name,
		Description:       strings.TrimSpace(req.Description),
		OwnerLogin:        strings.TrimSpace(req.OwnerLogin),
		Visibility:        wizard.Visibility(req.Visibility),
		AutoInit:          req.AutoInit,
		GitignoreTemplate: strings.TrimSpace(req.GitignoreTemplate),
		LicenseTemplate:   strings.TrimSpace(req.LicenseTemplate),
	}

	if errs := wizard.ValidateStep(wizard.StepReview, draft); len(errs) > 0 {
		respondError(c, apperrors.NewBadRequestError(strings.Join(errs, " ")))
		return
	}

	creator := h.creatorFor(token)
	created, err := creator.CreateRepository(ctx, github.CreateParams{
		Name:              wizard.NormalizeRepoName(draft.Name),
		Description:       draft.Description,
		OwnerLogin:        draft.OwnerLogin,
		Private:           draft.Visibility == wizard.VisibilityPrivate,
		AutoInit:          draft.AutoInit,
		GitignoreTemplate: draft.GitignoreTemplate,
		LicenseTemplate:   draft.LicenseTemplate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	// The aggregate no longer matches upstream; drop the cached entry so
	// the next projects fetch sees the new repository
	if session, err := h.authn.GetSession(ctx, c.Request); err == nil {
		h.cache.Invalidate(session.Login)
	}

	c.JSON(http.StatusOK, gin.H{
		"data": created,
	})
}

// SignIn starts the GitHub OAuth handshake
// GET /api/auth/signin
func (h *Handler) SignIn(c *gin.Context) {
	authorizeURL := h.gateway.BeginSignIn(c.Writer)
	c.Redirect(http.StatusFound, authorizeURL)
}

// Callback completes the GitHub OAuth handshake
// GET /api/auth/callback
func (h *Handler) Callback(c *gin.Context) {
	if _, err := h.gateway.CompleteSignIn(c.Request.Context(), c.Writer, c.Request); err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/projects")
}

// SignOut deletes the session and clears the cookie
// POST /api/auth/signout
func (h *Handler) SignOut(c *gin.Context) {
	if err := h.gateway.SignOut(c.Request.Context(), c.Writer, c.Request); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "signed_out",
	})
}

// SessionInfo reports session presence for diagnostics; it never exposes
// the access token
// GET /api/auth/session
func (h *Handler) SessionInfo(c *gin.Context) {
	session, err := h.authn.GetSession(c.Request.Context(), c.Request)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"sessionPresent": false,
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"sessionPresent": true,
			"login":          session.Login,
			"expiresAt":      session.ExpiresAt.Format(time.RFC3339),
		},
	})
}

// HealthCheck returns the health status of the API
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// respondError sends an error response
func respondError(c *gin.Context, err error) {
	if upErr, ok := err.(*apperrors.UpstreamError); ok {
		status := upErr.Status
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}

		body := gin.H{
			"error": gin.H{
				"code":    apperrors.ErrCodeUpstream,
				"message": upErr.Message,
			},
		}
		if upErr.Status == http.StatusForbidden {
			body["hint"] = "Your token may be missing repository creation permissions for the selected owner."
		}

		c.JSON(status, body)
		return
	}

	if appErr, ok := err.(*apperrors.AppError); ok {
		status := http.StatusInternalServerError
		switch appErr.Code {
		case apperrors.ErrCodeNotFound:
			status = http.StatusNotFound
		case apperrors.ErrCodeUnauthorized:
			status = http.StatusUnauthorized
		case apperrors.ErrCodeForbidden:
			status = http.StatusForbidden
		case apperrors.ErrCodeBadRequest:
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    "INTERNAL_ERROR",
			"message": err.Error(),
		},
	})
}
