package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/bjesuiter/github-light/internal/domain"
)

// ProjectsCache keeps the last successfully completed aggregate per
// authenticated identity. Entries are replaced by whichever fetch
// completes last (last-writer-wins on completion order, not issue
// order); a fast manual refresh racing a slower background fetch can
// therefore briefly surface a stale overwrite. That is an accepted
// limitation, not a correctness guarantee.
type ProjectsCache struct {
	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	aggregate *domain.ProjectsAggregate
	storedAt  time.Time
}

// NewProjectsCache creates an empty cache
func NewProjectsCache() *ProjectsCache {
	return &ProjectsCache{
		entries: make(map[string]entry),
	}
}

// Get returns the cached aggregate for the given viewer login
func (c *ProjectsCache) Get(login string) (*domain.ProjectsAggregate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[strings.ToLower(login)]
	if !ok {
		return nil, false
	}
	return e.aggregate, true
}

// Put stores the most recently completed aggregate for the viewer
func (c *ProjectsCache) Put(login string, aggregate *domain.ProjectsAggregate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[strings.ToLower(login)] = entry{
		aggregate: aggregate,
		storedAt:  time.Now(),
	}
}

// Invalidate drops the cached aggregate for the viewer
func (c *ProjectsCache) Invalidate(login string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, strings.ToLower(login))
}
