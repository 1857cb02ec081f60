package state

import (
	"github.com/aretw0/introspection"

	"github.com/aretw0/notestaker/pkg/core"
)

// ContainerState exposes internal state for observability.
type ContainerState struct {
	Notes    int                `json:"notes"`
	Pinned   int                `json:"pinned"`
	Selected string             `json:"selected,omitempty"`
	Filters  core.SearchFilters `json:"filters"`
	Theme    core.Theme         `json:"theme"`
	Loading  bool               `json:"loading"`
	Dirty    bool               `json:"dirty"`
	Watching bool               `json:"watching"`
	Owned    int                `json:"debouncers"`
	LastErr  string             `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (c *Container) State() any {
	c.ownedMu.Lock()
	watching := c.watch != nil
	owned := len(c.owned)
	c.ownedMu.Unlock()

	c.mu.RLock()
	defer c.mu.RUnlock()
	st := ContainerState{
		Notes:    len(c.notes),
		Selected: c.selectedID,
		Filters:  c.filters,
		Theme:    c.theme,
		Loading:  c.loading,
		Dirty:    c.dirty,
		Watching: watching,
		Owned:    owned,
	}
	for _, n := range c.notes {
		if n.IsPinned {
			st.Pinned++
		}
	}
	if c.err != nil {
		st.LastErr = c.err.Error()
	}
	return st
}

// ComponentType implements introspection.Component.
func (c *Container) ComponentType() string {
	return "notes-container"
}

var _ introspection.Introspectable = (*Container)(nil)
var _ introspection.Component = (*Container)(nil)
