// Package memory provides an in-process core.Store. It backs tests and
// ephemeral sessions (`--adapter memory`), and supports Watch so reload logic
// can be exercised without a filesystem.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/notestaker/pkg/core"
)

// DefaultQuota mirrors the per-value budget of browser local storage.
const DefaultQuota = 5 << 20

// Store is a mutex-guarded map of string values.
type Store struct {
	mu       sync.RWMutex
	data     map[string]string
	quota    int
	readOnly bool
	subs     map[*subscriber]struct{}
}

type subscriber struct {
	pattern string
	ch      chan core.Event
}

// Option configures a Store.
type Option func(*Store)

// WithQuota limits the size of a single value in bytes. Zero or less disables the limit.
func WithQuota(n int) Option {
	return func(s *Store) { s.quota = n }
}

// WithReadOnly rejects every write with core.ErrReadOnly.
func WithReadOnly(readOnly bool) Option {
	return func(s *Store) { s.readOnly = readOnly }
}

// WithData seeds the store.
func WithData(data map[string]string) Option {
	return func(s *Store) {
		for k, v := range data {
			s.data[k] = v
		}
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		data:  make(map[string]string),
		quota: DefaultQuota,
		subs:  make(map[*subscriber]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize is a no-op.
func (s *Store) Initialize(ctx context.Context) error {
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrNotFound, key)
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if s.readOnly {
		return fmt.Errorf("cannot set %s: %w", key, core.ErrReadOnly)
	}
	if s.quota > 0 && len(value) > s.quota {
		return fmt.Errorf("cannot set %s (%d bytes): %w", key, len(value), core.ErrQuotaExceeded)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	typ := core.EventCreate
	if _, ok := s.data[key]; ok {
		typ = core.EventModify
	}
	s.data[key] = value
	s.notify(core.Event{Type: typ, Key: key, Timestamp: time.Now()})
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if s.readOnly {
		return fmt.Errorf("cannot delete %s: %w", key, core.ErrReadOnly)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	s.notify(core.Event{Type: core.EventDelete, Key: key, Timestamp: time.Now()})
	return nil
}

func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		ok, err := match(pattern, k)
		if err != nil {
			return nil, err
		}
		if ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// Watch reports writes made through this Store until ctx is done.
// Slow consumers miss events rather than blocking writers.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if _, err := match(pattern, ""); err != nil {
		return nil, err
	}
	sub := &subscriber{pattern: pattern, ch: make(chan core.Event, 16)}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, sub)
		close(sub.ch)
		s.mu.Unlock()
	}()
	return sub.ch, nil
}

// notify fans e out to subscribers. Callers hold s.mu.
func (s *Store) notify(e core.Event) {
	for sub := range s.subs {
		if ok, _ := match(sub.pattern, e.Key); !ok {
			continue
		}
		select {
		case sub.ch <- e:
		default:
		}
	}
}

func match(pattern, key string) (bool, error) {
	if pattern == "" || pattern == "*" {
		return true, nil
	}
	ok, err := doublestar.Match(pattern, key)
	if err != nil {
		return false, fmt.Errorf("invalid key pattern %q: %w", pattern, err)
	}
	return ok, nil
}

// StoreState is the introspection snapshot of a Store.
type StoreState struct {
	Keys     int  `json:"keys"`
	Bytes    int  `json:"bytes"`
	Quota    int  `json:"quota"`
	ReadOnly bool `json:"read_only"`
	Watchers int  `json:"watchers"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	size := 0
	for _, v := range s.data {
		size += len(v)
	}
	return StoreState{
		Keys:     len(s.data),
		Bytes:    size,
		Quota:    s.quota,
		ReadOnly: s.readOnly,
		Watchers: len(s.subs),
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory-store"
}

var (
	_ core.Store                   = (*Store)(nil)
	_ core.Watchable               = (*Store)(nil)
	_ introspection.Introspectable = (*Store)(nil)
	_ introspection.Component      = (*Store)(nil)
)
