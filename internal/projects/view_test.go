package projects

import (
	"testing"
	"time"

	"github.com/bjesuiter/github-light/internal/domain"
)

func day(d int) time.Time {
	return time.Date(2026, 2, d, 0, 0, 0, 0, time.UTC)
}

func sampleRepos() []domain.Repository {
	return []domain.Repository{
		{Name: "gamma", FullName: "octocat/gamma", OwnerLogin: "octocat", UpdatedAt: day(1)},
		{Name: "alpha", FullName: "octocat/alpha", OwnerLogin: "octocat", UpdatedAt: day(3)},
		{Name: "beta", FullName: "octocat/beta", OwnerLogin: "octocat", UpdatedAt: day(2)},
	}
}

func names(repos []domain.Repository) []string {
	out := make([]string, len(repos))
	for i, r := range repos {
		out[i] = r.Name
	}
	return out
}

func equal(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestSortRepos(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "name ascending",
			opts: Options{SortMode: SortByName, NameSortDirection: SortAscending},
			want: []string{"alpha", "beta", "gamma"},
		},
		{
			name: "name descending",
			opts: Options{SortMode: SortByName, NameSortDirection: SortDescending},
			want: []string{"gamma", "beta", "alpha"},
		},
		{
			name: "recent newest first",
			opts: Options{SortMode: SortByRecent, RecentSortDirection: SortDescending},
			want: []string{"alpha", "beta", "gamma"},
		},
		{
			name: "recent oldest first",
			opts: Options{SortMode: SortByRecent, RecentSortDirection: SortAscending},
			want: []string{"gamma", "beta", "alpha"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := names(SortRepos(sampleRepos(), tt.opts))
			if !equal(got, tt.want) {
				t.Fatalf("SortRepos() order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortReposDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	repos := sampleRepos()
	SortRepos(repos, Options{SortMode: SortByName, NameSortDirection: SortAscending})

	if repos[0].Name != "gamma" {
		t.Fatalf("input slice mutated: %v", names(repos))
	}
}

func TestMatchesQuery(t *testing.T) {
	t.Parallel()

	repo := domain.Repository{Name: "widgets", FullName: "acme/widgets", OwnerLogin: "acme"}

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{name: "empty query matches", query: "", want: true},
		{name: "whitespace query matches", query: "  ", want: true},
		{name: "name substring", query: "widg", want: true},
		{name: "case insensitive", query: "WIDGETS", want: true},
		{name: "owner login only", query: "acme", want: true},
		{name: "full name", query: "acme/wid", want: true},
		{name: "no match", query: "gizmo", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := MatchesQuery(repo, tt.query); got != tt.want {
				t.Fatalf("MatchesQuery(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func sampleAggregate() *domain.ProjectsAggregate {
	return &domain.ProjectsAggregate{
		Viewer: domain.Viewer{Login: "octocat"},
		Groups: []domain.RepoGroup{
			{
				Owner: domain.Owner{Login: "octocat", IsViewer: true},
				Repos: []domain.Repository{
					{Name: "alpha", FullName: "octocat/alpha", OwnerLogin: "octocat", UpdatedAt: day(3)},
					{Name: "old-tool", FullName: "octocat/old-tool", OwnerLogin: "octocat", Archived: true, UpdatedAt: day(1)},
				},
			},
			{
				Owner: domain.Owner{Login: "acme", Type: domain.OwnerTypeOrganization, IsOwnOrg: true},
				Repos: []domain.Repository{
					{Name: "widgets", FullName: "acme/widgets", OwnerLogin: "acme", UpdatedAt: day(2)},
				},
			},
		},
	}
}

func TestProjectExcludesArchivedByDefault(t *testing.T) {
	t.Parallel()

	view := Project(sampleAggregate(), DefaultOptions())

	for _, group := range view.Groups {
		for _, r := range group.Repos {
			if r.Archived {
				t.Fatalf("archived repository %s leaked into the default view", r.FullName)
			}
		}
	}

	opts := DefaultOptions()
	opts.ShowArchived = true
	view = Project(sampleAggregate(), opts)

	found := false
	for _, group := range view.Groups {
		for _, r := range group.Repos {
			if r.Name == "old-tool" {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("archived repository missing despite ShowArchived")
	}
}

func TestProjectQueryOnOwnerLoginKeepsRepo(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Query = "acme"

	view := Project(sampleAggregate(), opts)

	if len(view.Groups) != 1 {
		t.Fatalf("got %d groups, want only the matching owner's group", len(view.Groups))
	}
	if view.Groups[0].Owner.Login != "acme" {
		t.Fatalf("surviving group owner = %q, want acme", view.Groups[0].Owner.Login)
	}
	if len(view.Groups[0].Repos) != 1 || view.Groups[0].Repos[0].Name != "widgets" {
		t.Fatalf("repos = %v", names(view.Groups[0].Repos))
	}
}

func TestProjectDropsEmptiedGroups(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Query = "alpha"

	view := Project(sampleAggregate(), opts)
	if len(view.Groups) != 1 {
		t.Fatalf("got %d groups, want 1 (acme filtered to empty must be dropped)", len(view.Groups))
	}
}

func TestProjectFlattenedViewReSortsGlobally(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.GroupByOwner = false
	opts.SortMode = SortByRecent
	opts.RecentSortDirection = SortDescending
	opts.ShowArchived = true

	view := Project(sampleAggregate(), opts)

	if view.Groups != nil {
		t.Fatal("flattened view must not carry groups")
	}
	want := []string{"alpha", "widgets", "old-tool"}
	if got := names(view.Repos); !equal(got, want) {
		t.Fatalf("flat order = %v, want %v", got, want)
	}
}

func TestProjectGroupedAndFlatAgreeOnOrdering(t *testing.T) {
	t.Parallel()

	grouped := DefaultOptions()
	grouped.SortMode = SortByRecent

	flat := grouped
	flat.GroupByOwner = false

	groupedView := Project(sampleAggregate(), grouped)
	flatView := Project(sampleAggregate(), flat)

	// The grouped view is a re-partition of the flat sequence: dropping
	// group boundaries while keeping group rank order must never reorder
	// repositories within one owner
	for _, group := range groupedView.Groups {
		var flatForOwner []string
		for _, r := range flatView.Repos {
			if r.OwnerLogin == group.Owner.Login {
				flatForOwner = append(flatForOwner, r.Name)
			}
		}
		if !equal(names(group.Repos), flatForOwner) {
			t.Fatalf("owner %s ordering differs: grouped %v vs flat %v",
				group.Owner.Login, names(group.Repos), flatForOwner)
		}
	}
}
