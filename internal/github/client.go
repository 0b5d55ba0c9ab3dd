package github

import (
	"context"
	"strings"

	"github.com/google/go-github/v55/github"
	"golang.org/x/oauth2"

	"github.com/bjesuiter/github-light/internal/domain"
	apperrors "github.com/bjesuiter/github-light/internal/errors"
)

// Client talks to the GitHub API on behalf of one access token
type Client struct {
	gh *github.Client
}

// NewClient creates a new GitHub client authenticated with the given token
func NewClient(token string) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{gh: github.NewClient(tc)}
}

// GetViewer retrieves the authenticated user
func (c *Client) GetViewer(ctx context.Context) (*domain.Viewer, error) {
	user, resp, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return nil, upstreamError(resp, err, "/user")
	}

	return &domain.Viewer{
		ID:        user.GetID(),
		Login:     user.GetLogin(),
		AvatarURL: user.GetAvatarURL(),
	}, nil
}

// ListOrgMemberships retrieves every organization membership of the viewer
func (c *Client) ListOrgMemberships(ctx context.Context) ([]domain.OrgMembership, error) {
	return fetchAllPages(func(page int) ([]domain.OrgMembership, error) {
		opts := &github.ListOrgMembershipsOptions{
			ListOptions: github.ListOptions{Page: page, PerPage: pageSize},
		}

		memberships, resp, err := c.gh.Organizations.ListOrgMemberships(ctx, opts)
		if err != nil {
			return nil, upstreamError(resp, err, "/user/memberships/orgs")
		}

		items := make([]domain.OrgMembership, 0, len(memberships))
		for _, membership := range memberships {
			items = append(items, domain.OrgMembership{
				OrgLogin: membership.GetOrganization().GetLogin(),
				Role:     domain.MembershipRole(membership.GetRole()),
			})
		}
		return items, nil
	})
}

// ListRepositories retrieves every repository the viewer owns or is an
// organization member of, upstream-sorted by update recency
func (c *Client) ListRepositories(ctx context.Context) ([]domain.Repository, error) {
	return fetchAllPages(func(page int) ([]domain.Repository, error) {
		opts := &github.RepositoryListOptions{
			Affiliation: "owner,organization_member",
			Sort:        "updated",
			ListOptions: github.ListOptions{Page: page, PerPage: pageSize},
		}

		repos, resp, err := c.gh.Repositories.List(ctx, "", opts)
		if err != nil {
			return nil, upstreamError(resp, err, "/user/repos")
		}

		items := make([]domain.Repository, 0, len(repos))
		for _, repo := range repos {
			items = append(items, toDomainRepository(repo))
		}
		return items, nil
	})
}

// CreateRepository creates a repository under the viewer's account or,
// for any other owner, under that organization
func (c *Client) CreateRepository(ctx context.Context, params CreateParams) (*CreatedRepository, error) {
	viewer, err := c.GetViewer(ctx)
	if err != nil {
		return nil, err
	}

	// Creating under the viewer's own account uses the /user/repos
	// endpoint; an organization login is passed through as-is and the
	// upstream API decides whether the viewer may create there.
	org := params.OwnerLogin
	path := "/orgs/" + params.OwnerLogin + "/repos"
	if strings.EqualFold(viewer.Login, params.OwnerLogin) {
		org = ""
		path = "/user/repos"
	}

	repo := &github.Repository{
		Name:     github.String(params.Name),
		Private:  github.Bool(params.Private),
		AutoInit: github.Bool(params.AutoInit),
	}
	if params.Description != "" {
		repo.Description = github.String(params.Description)
	}
	if params.AutoInit && params.GitignoreTemplate != "" {
		repo.GitignoreTemplate = github.String(params.GitignoreTemplate)
	}
	if params.AutoInit && params.LicenseTemplate != "" {
		repo.LicenseTemplate = github.String(params.LicenseTemplate)
	}

	created, resp, err := c.gh.Repositories.Create(ctx, org, repo)
	if err != nil {
		return nil, upstreamError(resp, err, path)
	}

	return &CreatedRepository{
		Name:     created.GetName(),
		FullName: created.GetFullName(),
		HTMLURL:  created.GetHTMLURL(),
	}, nil
}

// toDomainRepository converts an upstream repository to a domain snapshot
func toDomainRepository(repo *github.Repository) domain.Repository {
	owner := repo.GetOwner()

	return domain.Repository{
		ID:          repo.GetID(),
		Name:        repo.GetName(),
		FullName:    repo.GetFullName(),
		OwnerLogin:  owner.GetLogin(),
		OwnerType:   domain.OwnerType(owner.GetType()),
		AvatarURL:   owner.GetAvatarURL(),
		Private:     repo.GetPrivate(),
		Archived:    repo.GetArchived(),
		Fork:        repo.GetFork(),
		HTMLURL:     repo.GetHTMLURL(),
		UpdatedAt:   repo.GetUpdatedAt().Time,
		Stars:       repo.GetStargazersCount(),
		Description: repo.GetDescription(),
	}
}

// upstreamError converts a failed go-github call into an UpstreamError
// carrying the HTTP status and origin path
func upstreamError(resp *github.Response, err error, path string) error {
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}

	message := err.Error()
	if ghErr, ok := err.(*github.ErrorResponse); ok && ghErr.Message != "" {
		message = ghErr.Message
	}

	return apperrors.NewUpstreamError(status, path, message)
}
