package state

import (
	"sync"

	"github.com/aretw0/notestaker/pkg/core"
	"github.com/aretw0/notestaker/pkg/debounce"
)

// SearchInput is a search field whose value reaches the filters only after
// typing pauses. Only the last value of a burst is applied.
type SearchInput struct {
	c       *Container
	d       *debounce.Debouncer[string]
	onApply func(string)

	mu    sync.Mutex
	value string
}

// NewSearchInput creates a search field seeded with the active query.
// onApply, if set, runs after each applied query. The container stops the
// input on Close.
func (c *Container) NewSearchInput(onApply func(query string)) *SearchInput {
	s := &SearchInput{c: c, onApply: onApply, value: c.Filters().Query}
	s.d = debounce.New(c.searchDelay, s.apply)
	c.own(s, s.d.Stop)
	return s
}

// Set updates the field and restarts the quiet window.
func (s *SearchInput) Set(query string) {
	s.mu.Lock()
	s.value = query
	s.mu.Unlock()
	s.d.Trigger(query)
}

// Value returns what the field currently shows, applied or not.
func (s *SearchInput) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Pending reports whether a query is waiting to be applied.
func (s *SearchInput) Pending() bool {
	return s.d.Pending()
}

// Clear empties the field and applies the empty query at once.
func (s *SearchInput) Clear() {
	s.d.Cancel()
	s.mu.Lock()
	s.value = ""
	s.mu.Unlock()
	s.apply("")
}

// Flush applies a pending query immediately.
func (s *SearchInput) Flush() {
	s.d.Flush()
}

// Close discards a pending query.
func (s *SearchInput) Close() {
	s.d.Stop()
	s.c.disown(s)
}

func (s *SearchInput) apply(query string) {
	s.c.SetSearchFilters(core.FiltersPatch{Query: &query})
	if s.onApply != nil {
		s.onApply(query)
	}
}
