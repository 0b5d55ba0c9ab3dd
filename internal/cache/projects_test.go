package cache

import (
	"testing"

	"github.com/bjesuiter/github-light/internal/domain"
)

func aggregateFor(login string) *domain.ProjectsAggregate {
	return &domain.ProjectsAggregate{Viewer: domain.Viewer{Login: login}}
}

func TestPutGetInvalidate(t *testing.T) {
	t.Parallel()

	c := NewProjectsCache()

	if _, ok := c.Get("octocat"); ok {
		t.Fatal("empty cache reported a hit")
	}

	c.Put("octocat", aggregateFor("octocat"))

	got, ok := c.Get("octocat")
	if !ok || got.Viewer.Login != "octocat" {
		t.Fatalf("Get() = %+v, %v", got, ok)
	}

	c.Invalidate("octocat")
	if _, ok := c.Get("octocat"); ok {
		t.Fatal("hit after invalidation")
	}
}

func TestKeysAreCaseInsensitive(t *testing.T) {
	t.Parallel()

	c := NewProjectsCache()
	c.Put("Octocat", aggregateFor("Octocat"))

	if _, ok := c.Get("octocat"); !ok {
		t.Fatal("lowercase lookup missed an entry stored with mixed case")
	}
	if _, ok := c.Get("OCTOCAT"); !ok {
		t.Fatal("uppercase lookup missed the entry")
	}

	c.Invalidate("OCTOCAT")
	if _, ok := c.Get("Octocat"); ok {
		t.Fatal("invalidation did not normalize the key")
	}
}

func TestLastCompletedWriteWins(t *testing.T) {
	t.Parallel()

	c := NewProjectsCache()

	first := aggregateFor("octocat")
	second := aggregateFor("octocat")
	second.Groups = []domain.RepoGroup{{Owner: domain.Owner{Login: "octocat"}}}

	c.Put("octocat", first)
	c.Put("octocat", second)

	got, ok := c.Get("octocat")
	if !ok || got != second {
		t.Fatal("cache did not keep the most recently completed aggregate")
	}
}

func TestEntriesAreIsolatedPerViewer(t *testing.T) {
	t.Parallel()

	c := NewProjectsCache()
	c.Put("octocat", aggregateFor("octocat"))
	c.Put("hubot", aggregateFor("hubot"))

	c.Invalidate("octocat")

	if _, ok := c.Get("hubot"); !ok {
		t.Fatal("invalidating one viewer dropped another viewer's entry")
	}
}
