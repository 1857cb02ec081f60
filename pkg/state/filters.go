package state

import (
	"github.com/aretw0/notestaker/pkg/core"
	"github.com/aretw0/notestaker/pkg/query"
)

// Filters returns the active search filters.
func (c *Container) Filters() core.SearchFilters {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filters.Merge(core.FiltersPatch{})
}

// SetSearchFilters shallow-merges patch into the active filters.
func (c *Container) SetSearchFilters(patch core.FiltersPatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = c.filters.Merge(patch)
}

// Visible derives the displayed list: search, then tag filter, then sort.
// It is computed on every call.
func (c *Container) Visible() []core.Note {
	c.mu.RLock()
	notes := cloneNotes(c.notes)
	filters := c.filters
	c.mu.RUnlock()
	return query.Apply(notes, filters)
}

// Tags returns every tag in use with its note count.
func (c *Container) Tags() []query.TagCount {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return query.Tags(c.notes)
}
