package manifest

import (
	"sync"

	"go.trai.ch/bowersync/internal/core/domain"
)

// DependencyCache holds the dependency mappings of the last loaded manifest.
// It is read by the watcher loop and status handlers while mutations refresh it.
type DependencyCache struct {
	mu   sync.RWMutex
	deps domain.DependencySnapshot
}

// NewDependencyCache creates a cache holding two empty mappings.
func NewDependencyCache() *DependencyCache {
	return &DependencyCache{deps: domain.EmptySnapshot()}
}

// HasChanged reports whether the dependency mappings of content differ from
// the cached ones. An absent mapping compares equal to an empty one.
func (c *DependencyCache) HasChanged(content *domain.Manifest) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.deps.Equal(content.Snapshot())
}

// Refresh overwrites the cache with the mappings of content.
func (c *DependencyCache) Refresh(content *domain.Manifest) {
	snapshot := content.Snapshot()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.deps = snapshot
}

// Reset empties both mappings.
func (c *DependencyCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deps = domain.EmptySnapshot()
}

// Snapshot returns a copy of the cached mappings.
func (c *DependencyCache) Snapshot() domain.DependencySnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.deps.Clone()
}
