package github

import (
	"context"

	"github.com/bjesuiter/github-light/internal/domain"
)

// Fetcher defines the read side of the GitHub API used by aggregation
type Fetcher interface {
	// GetViewer retrieves the authenticated user
	GetViewer(ctx context.Context) (*domain.Viewer, error)

	// ListOrgMemberships retrieves every organization membership of the viewer
	ListOrgMemberships(ctx context.Context) ([]domain.OrgMembership, error)

	// ListRepositories retrieves every repository the viewer owns or is an
	// organization member of, upstream-sorted by update recency
	ListRepositories(ctx context.Context) ([]domain.Repository, error)
}

// CreateParams is the normalized payload for repository creation
type CreateParams struct {
	Name              string
	Description       string
	OwnerLogin        string
	Private           bool
	AutoInit          bool
	GitignoreTemplate string
	LicenseTemplate   string
}

// CreatedRepository is the upstream response to a successful creation
type CreatedRepository struct {
	Name     string `json:"name"`
	FullName string `json:"fullName"`
	HTMLURL  string `json:"htmlUrl"`
}

// Creator defines the write side of the GitHub API used by the wizard
type Creator interface {
	// CreateRepository creates a repository under the viewer's account or,
	// when the owner is someone else, under that organization. Whether the
	// viewer may create under the organization is left entirely to the
	// upstream authorization response.
	CreateRepository(ctx context.Context, params CreateParams) (*CreatedRepository, error)
}
