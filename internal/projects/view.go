package projects

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/bjesuiter/github-light/internal/domain"
)

// SortMode selects which repository attribute drives ordering
type SortMode string

const (
	SortByName   SortMode = "name"
	SortByRecent SortMode = "recent"
)

// SortDirection is the direction of a sort
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// Options drives the projection over a cached aggregate
type Options struct {
	// Query filters repositories by case-insensitive substring match
	// against name, full name, or owner login
	Query string

	// ShowArchived keeps archived repositories in the view
	ShowArchived bool

	// GroupByOwner produces the owner-grouped view instead of a single
	// flattened list
	GroupByOwner bool

	SortMode            SortMode
	NameSortDirection   SortDirection
	RecentSortDirection SortDirection
}

// DefaultOptions returns the view defaults: grouped by owner, archived
// hidden, name ascending, recency newest-first
func DefaultOptions() Options {
	return Options{
		GroupByOwner:        true,
		SortMode:            SortByName,
		NameSortDirection:   SortAscending,
		RecentSortDirection: SortDescending,
	}
}

// View is the projected result: Groups when grouped by owner, Repos when
// flattened. Exactly one of the two is populated.
type View struct {
	Groups []domain.RepoGroup `json:"groups,omitempty"`
	Repos  []domain.Repository `json:"repos,omitempty"`
}

// Project filters and sorts the aggregate's repositories into a view.
// Filtering and sorting happen once, over a single canonical repository
// sequence; the grouped view is a re-partition of that sequence, so both
// branches always agree on ordering.
func Project(aggregate *domain.ProjectsAggregate, opts Options) View {
	filtered := filterGroups(aggregate.Groups, opts)

	var canonical []domain.Repository
	for _, group := range filtered {
		canonical = append(canonical, group.Repos...)
	}
	canonical = SortRepos(canonical, opts)

	if !opts.GroupByOwner {
		return View{Repos: canonical}
	}

	return View{Groups: partitionByOwner(filtered, canonical)}
}

// SortRepos returns a sorted copy of repos. Name mode honors the name
// direction toggle; recent mode defaults to newest-first and is reversed
// by the recent direction toggle.
func SortRepos(repos []domain.Repository, opts Options) []domain.Repository {
	sorted := make([]domain.Repository, len(repos))
	copy(sorted, repos)

	if opts.SortMode == SortByRecent {
		sort.SliceStable(sorted, func(a, b int) bool {
			if opts.RecentSortDirection == SortAscending {
				return sorted[a].UpdatedAt.Before(sorted[b].UpdatedAt)
			}
			return sorted[a].UpdatedAt.After(sorted[b].UpdatedAt)
		})
		return sorted
	}

	coll := collate.New(language.English)
	sort.SliceStable(sorted, func(a, b int) bool {
		cmp := coll.CompareString(sorted[a].Name, sorted[b].Name)
		if opts.NameSortDirection == SortDescending {
			return cmp > 0
		}
		return cmp < 0
	})
	return sorted
}

// MatchesQuery reports whether the repository matches the free-text query
// on any of name, full name, or owner login
func MatchesQuery(repo domain.Repository, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}

	return strings.Contains(strings.ToLower(repo.Name), query) ||
		strings.Contains(strings.ToLower(repo.FullName), query) ||
		strings.Contains(strings.ToLower(repo.OwnerLogin), query)
}

// filterGroups applies the query and archived-visibility filters to each
// group's repositories and drops any group left empty
func filterGroups(groups []domain.RepoGroup, opts Options) []domain.RepoGroup {
	var filtered []domain.RepoGroup

	for _, group := range groups {
		var repos []domain.Repository
		for _, repo := range group.Repos {
			if repo.Archived && !opts.ShowArchived {
				continue
			}
			if !MatchesQuery(repo, opts.Query) {
				continue
			}
			repos = append(repos, repo)
		}

		if len(repos) == 0 {
			continue
		}
		filtered = append(filtered, domain.RepoGroup{Owner: group.Owner, Repos: repos})
	}

	return filtered
}

// partitionByOwner re-partitions the canonical sorted sequence back into
// the filtered groups, preserving group rank order and canonical repo order
func partitionByOwner(groups []domain.RepoGroup, canonical []domain.Repository) []domain.RepoGroup {
	byOwner := make(map[string][]domain.Repository)
	for _, repo := range canonical {
		key := strings.ToLower(repo.OwnerLogin)
		byOwner[key] = append(byOwner[key], repo)
	}

	partitioned := make([]domain.RepoGroup, 0, len(groups))
	for _, group := range groups {
		partitioned = append(partitioned, domain.RepoGroup{
			Owner: group.Owner,
			Repos: byOwner[strings.ToLower(group.Owner.Login)],
		})
	}
	return partitioned
}
