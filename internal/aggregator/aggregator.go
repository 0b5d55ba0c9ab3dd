package aggregator

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/bjesuiter/github-light/internal/domain"
	apperrors "github.com/bjesuiter/github-light/internal/errors"
	"github.com/bjesuiter/github-light/internal/github"
)

// Aggregator defines the interface for building the projects aggregate
type Aggregator interface {
	// AggregateProjects fetches the viewer, memberships, and repositories
	// and produces the owner-grouped, ranked collection
	AggregateProjects(ctx context.Context) (*domain.ProjectsAggregate, error)
}

// aggregator implements the Aggregator interface
type aggregator struct {
	fetcher github.Fetcher
}

// NewAggregator creates a new aggregator
func NewAggregator(fetcher github.Fetcher) Aggregator {
	return &aggregator{
		fetcher: fetcher,
	}
}

// AggregateProjects fetches the viewer, memberships, and repositories and
// produces the owner-grouped, ranked collection. The three fetches are
// issued concurrently; a hard failure of any aborts the whole aggregation.
// Memberships and repositories degrade to empty collections when the
// upstream endpoint answers 403 or 404.
func (a *aggregator) AggregateProjects(ctx context.Context) (*domain.ProjectsAggregate, error) {
	var (
		wg          sync.WaitGroup
		viewer      *domain.Viewer
		memberships []domain.OrgMembership
		repos       []domain.Repository
	)
	errs := make([]error, 3)

	wg.Add(3)
	go func() {
		defer wg.Done()
		viewer, errs[0] = a.fetcher.GetViewer(ctx)
	}()
	go func() {
		defer wg.Done()
		memberships, errs[1] = a.fetcher.ListOrgMemberships(ctx)
		if apperrors.IsFeatureUnavailable(errs[1]) {
			memberships, errs[1] = nil, nil
		}
	}()
	go func() {
		defer wg.Done()
		repos, errs[2] = a.fetcher.ListRepositories(ctx)
		if apperrors.IsFeatureUnavailable(errs[2]) {
			repos, errs[2] = nil, nil
		}
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return &domain.ProjectsAggregate{
		Viewer: *viewer,
		Groups: GroupRepositories(*viewer, memberships, repos),
	}, nil
}

// GroupRepositories partitions repositories into owner groups keyed by
// case-insensitive owner login, sorts repositories within each group by
// name, and orders the groups by owner rank. Every repository appears in
// exactly one group. The result is deterministic for identical inputs.
func GroupRepositories(viewer domain.Viewer, memberships []domain.OrgMembership, repos []domain.Repository) []domain.RepoGroup {
	ownOrgs := adminOrgLogins(memberships)

	groupIndex := make(map[string]int)
	var groups []domain.RepoGroup

	for _, repo := range repos {
		key := strings.ToLower(repo.OwnerLogin)

		idx, ok := groupIndex[key]
		if !ok {
			idx = len(groups)
			groupIndex[key] = idx
			groups = append(groups, domain.RepoGroup{
				Owner: domain.Owner{
					Login:     repo.OwnerLogin,
					Type:      repo.OwnerType,
					AvatarURL: repo.AvatarURL,
					IsViewer:  strings.EqualFold(repo.OwnerLogin, viewer.Login),
					IsOwnOrg:  ownOrgs[key],
				},
			})
		}

		groups[idx].Repos = append(groups[idx].Repos, repo)
	}

	coll := collate.New(language.English)

	for i := range groups {
		repos := groups[i].Repos
		sort.SliceStable(repos, func(a, b int) bool {
			return coll.CompareString(repos[a].Name, repos[b].Name) < 0
		})
	}

	sort.SliceStable(groups, func(a, b int) bool {
		rankA, rankB := ownerRank(groups[a].Owner), ownerRank(groups[b].Owner)
		if rankA != rankB {
			return rankA < rankB
		}
		return coll.CompareString(groups[a].Owner.Login, groups[b].Owner.Login) < 0
	})

	return groups
}

// adminOrgLogins computes the set of organization logins where the viewer
// holds an administrative role, keyed by lowercased login
func adminOrgLogins(memberships []domain.OrgMembership) map[string]bool {
	logins := make(map[string]bool)
	for _, membership := range memberships {
		if membership.Role.IsAdministrative() {
			logins[strings.ToLower(membership.OrgLogin)] = true
		}
	}
	return logins
}

// ownerRank is the tie-break order for owner groups: the viewer's own
// account first, administered organizations next, everything else last
func ownerRank(owner domain.Owner) int {
	if owner.IsViewer {
		return 0
	}
	if owner.IsOwnOrg {
		return 1
	}
	return 2
}
