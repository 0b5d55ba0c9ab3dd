package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bjesuiter/github-light/internal/cache"
	"github.com/bjesuiter/github-light/internal/domain"
	apperrors "github.com/bjesuiter/github-light/internal/errors"
	"github.com/bjesuiter/github-light/internal/github"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthn struct {
	session *domain.Session
	token   string
}

func (f *fakeAuthn) GetSession(ctx context.Context, r *http.Request) (*domain.Session, error) {
	if f.session == nil {
		return nil, apperrors.NewUnauthorizedError("no session")
	}
	return f.session, nil
}

func (f *fakeAuthn) AccessToken(ctx context.Context, r *http.Request) (string, error) {
	if f.token == "" {
		return "", apperrors.NewUnauthorizedError("Missing GitHub access token")
	}
	return f.token, nil
}

type fakeFetcher struct {
	viewer      *domain.Viewer
	memberships []domain.OrgMembership
	repos       []domain.Repository
	calls       int
}

func (f *fakeFetcher) GetViewer(ctx context.Context) (*domain.Viewer, error) {
	f.calls++
	return f.viewer, nil
}

func (f *fakeFetcher) ListOrgMemberships(ctx context.Context) ([]domain.OrgMembership, error) {
	return f.memberships, nil
}

func (f *fakeFetcher) ListRepositories(ctx context.Context) ([]domain.Repository, error) {
	return f.repos, nil
}

type fakeCreator struct {
	created *github.CreatedRepository
	err     error
	params  []github.CreateParams
}

func (f *fakeCreator) CreateRepository(ctx context.Context, params github.CreateParams) (*github.CreatedRepository, error) {
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.created, nil
}

func testHandler(authn *fakeAuthn, fetcher *fakeFetcher, creator *fakeCreator) *Handler {
	return &Handler{
		authn: authn,
		cache: cache.NewProjectsCache(),
		fetcherFor: func(token string) github.Fetcher {
			return fetcher
		},
		creatorFor: func(token string) github.Creator {
			return creator
		},
	}
}

func signedInAuthn() *fakeAuthn {
	now := time.Now()
	return &fakeAuthn{
		token: "gho_token",
		session: &domain.Session{
			ID:        "sess-1",
			Login:     "octocat",
			CreatedAt: now,
			ExpiresAt: now.Add(time.Hour),
		},
	}
}

func projectsRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.GET("/api/projects", h.GetProjects)
	router.POST("/api/repos/create", h.CreateRepository)
	return router
}

func doRequest(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, reader)
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestGetProjectsRequiresToken(t *testing.T) {
	h := testHandler(&fakeAuthn{}, &fakeFetcher{}, &fakeCreator{})

	w := doRequest(projectsRouter(h), http.MethodGet, "/api/projects", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	var body struct {
		Error struct {
			Code apperrors.ErrCode `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Code != apperrors.ErrCodeUnauthorized {
		t.Fatalf("error code = %q", body.Error.Code)
	}
}

func TestGetProjectsAggregatesAndCaches(t *testing.T) {
	fetcher := &fakeFetcher{
		viewer: &domain.Viewer{Login: "octocat"},
		repos: []domain.Repository{
			{Name: "alpha", FullName: "octocat/alpha", OwnerLogin: "octocat"},
		},
	}
	h := testHandler(signedInAuthn(), fetcher, &fakeCreator{})
	router := projectsRouter(h)

	w := doRequest(router, http.MethodGet, "/api/projects", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var body struct {
		Data *domain.ProjectsAggregate `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Data == nil || body.Data.Viewer.Login != "octocat" {
		t.Fatalf("data = %+v", body.Data)
	}
	if len(body.Data.Groups) != 1 || body.Data.Groups[0].Owner.Login != "octocat" {
		t.Fatalf("groups = %+v", body.Data.Groups)
	}

	// Second request is served from the cache without refetching
	fetches := fetcher.calls
	w = doRequest(router, http.MethodGet, "/api/projects", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if fetcher.calls != fetches {
		t.Fatalf("cache miss: fetcher called again (%d -> %d)", fetches, fetcher.calls)
	}

	// refresh=true bypasses the cache
	w = doRequest(router, http.MethodGet, "/api/projects?refresh=true", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if fetcher.calls != fetches+1 {
		t.Fatalf("refresh did not bypass the cache (%d -> %d)", fetches, fetcher.calls)
	}
}

func TestCreateRepositoryRejectsMalformedPayload(t *testing.T) {
	h := testHandler(signedInAuthn(), &fakeFetcher{}, &fakeCreator{})
	router := projectsRouter(h)

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "not-json"},
		{name: "missing name", body: `{"ownerLogin":"octocat","visibility":"private"}`},
		{name: "bad visibility", body: `{"name":"x","ownerLogin":"octocat","visibility":"internal"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/api/repos/create", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestCreateRepositoryReportsValidationMessages(t *testing.T) {
	creator := &fakeCreator{}
	h := testHandler(signedInAuthn(), &fakeFetcher{}, creator)

	body := `{"name":"!!!","ownerLogin":"octocat","visibility":"private"}`
	w := doRequest(projectsRouter(h), http.MethodPost, "/api/repos/create", body)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "letters, numbers, dots, dashes, and underscores") {
		t.Fatalf("body = %s, want the name charset message", w.Body.String())
	}
	if len(creator.params) != 0 {
		t.Fatal("creator called despite validation failure")
	}
}

func TestCreateRepositoryNormalizesNameAndInvalidatesCache(t *testing.T) {
	creator := &fakeCreator{
		created: &github.CreatedRepository{
			Name:     "my-new-repo",
			FullName: "octocat/my-new-repo",
			HTMLURL:  "https://github.com/octocat/my-new-repo",
		},
	}
	h := testHandler(signedInAuthn(), &fakeFetcher{}, creator)
	h.cache.Put("octocat", &domain.ProjectsAggregate{Viewer: domain.Viewer{Login: "octocat"}})

	body := `{"name":"  my   new repo ","ownerLogin":"octocat","visibility":"private","autoInit":true}`
	w := doRequest(projectsRouter(h), http.MethodPost, "/api/repos/create", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(creator.params) != 1 {
		t.Fatalf("creator called %d times, want 1", len(creator.params))
	}
	if creator.params[0].Name != "my-new-repo" {
		t.Fatalf("name = %q, want the normalized form", creator.params[0].Name)
	}
	if !creator.params[0].Private || !creator.params[0].AutoInit {
		t.Fatalf("params = %+v", creator.params[0])
	}

	if _, ok := h.cache.Get("octocat"); ok {
		t.Fatal("projects cache not invalidated after creation")
	}
}

func TestCreateRepositoryForwardsUpstreamForbiddenWithHint(t *testing.T) {
	creator := &fakeCreator{
		err: &apperrors.UpstreamError{
			Status:  http.StatusForbidden,
			Path:    "/orgs/acme/repos",
			Message: "Resource not accessible",
		},
	}
	h := testHandler(signedInAuthn(), &fakeFetcher{}, creator)

	body := `{"name":"widgets","ownerLogin":"acme","visibility":"public"}`
	w := doRequest(projectsRouter(h), http.MethodPost, "/api/repos/create", body)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want the upstream 403", w.Code)
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
		Hint string `json:"hint"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Error.Message != "Resource not accessible" {
		t.Fatalf("message = %q", envelope.Error.Message)
	}
	if envelope.Hint != "Your token may be missing repository creation permissions for the selected owner." {
		t.Fatalf("hint = %q", envelope.Hint)
	}
}

func TestSessionInfoNeverExposesToken(t *testing.T) {
	authn := signedInAuthn()
	authn.session.AccessToken = "gho_secret_token"
	h := testHandler(authn, &fakeFetcher{}, &fakeCreator{})

	router := gin.New()
	router.GET("/api/auth/session", h.SessionInfo)

	w := doRequest(router, http.MethodGet, "/api/auth/session", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "gho_secret_token") {
		t.Fatal("session endpoint leaked the access token")
	}
	if !strings.Contains(w.Body.String(), `"sessionPresent":true`) {
		t.Fatalf("body = %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"login":"octocat"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestSessionInfoReportsAbsence(t *testing.T) {
	h := testHandler(&fakeAuthn{}, &fakeFetcher{}, &fakeCreator{})

	router := gin.New()
	router.GET("/api/auth/session", h.SessionInfo)

	w := doRequest(router, http.MethodGet, "/api/auth/session", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even without a session", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"sessionPresent":false`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestHealthCheck(t *testing.T) {
	h := testHandler(&fakeAuthn{}, &fakeFetcher{}, &fakeCreator{})

	router := gin.New()
	router.GET("/health", h.HealthCheck)

	w := doRequest(router, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}
