package domain

import "time"

// OwnerType distinguishes personal accounts from organizations
type OwnerType string

const (
	OwnerTypeUser         OwnerType = "User"
	OwnerTypeOrganization OwnerType = "Organization"
)

// Repository is an immutable snapshot of a GitHub repository
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"fullName"`
	OwnerLogin  string    `json:"ownerLogin"`
	OwnerType   OwnerType `json:"ownerType"`
	AvatarURL   string    `json:"avatarUrl"`
	Private     bool      `json:"private"`
	Archived    bool      `json:"archived"`
	Fork        bool      `json:"fork"`
	HTMLURL     string    `json:"htmlUrl"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Stars       int       `json:"stars"`
	Description string    `json:"description,omitempty"`
}

// Viewer is the authenticated GitHub user
type Viewer struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatarUrl"`
}

// Owner identifies one repository group's owner
type Owner struct {
	Login     string    `json:"login"`
	Type      OwnerType `json:"type"`
	AvatarURL string    `json:"avatarUrl"`
	IsViewer  bool      `json:"isViewer"`
	IsOwnOrg  bool      `json:"isOwnOrg"`
}

// RepoGroup is the set of repositories belonging to one owner
type RepoGroup struct {
	Owner Owner        `json:"owner"`
	Repos []Repository `json:"repos"`
}

// ProjectsAggregate is the full owner-grouped repository collection
// produced by one aggregation pass
type ProjectsAggregate struct {
	Viewer Viewer      `json:"viewer"`
	Groups []RepoGroup `json:"groups"`
}
