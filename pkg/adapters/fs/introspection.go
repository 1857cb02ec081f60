package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path       string     `json:"path"`
	Versioning bool       `json:"versioning"`
	ReadOnly   bool       `json:"read_only"`
	Quota      int        `json:"quota"`
	Watchers   int        `json:"watchers"`
	Commits    int        `json:"commits"`
	LastEvent  *time.Time `json:"last_event,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreState{
		Path:       s.Path,
		Versioning: s.config.Versioning,
		ReadOnly:   s.config.ReadOnly,
		Quota:      s.config.Quota,
		Watchers:   s.watchers,
		Commits:    s.commits,
		LastEvent:  s.lastEvent,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "fs-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)

func (s *Store) setWatching(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers += delta
}

func (s *Store) recordEvent(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastEvent = &at
}
