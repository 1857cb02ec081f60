package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notestaker/pkg/core"
)

// ErrNotWatchable is returned by Watch when the store cannot report changes.
var ErrNotWatchable = errors.New("store does not support watching")

type watcher struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Reload re-reads the collection from storage. The selection is cleared
// when its note no longer exists. Unsaved changes are never overwritten.
// The store is read under the lock so a concurrent write cannot be replaced
// by an older snapshot.
func (c *Container) Reload(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.dirty {
		c.logger.Warn("reload skipped, collection has unsaved changes")
		return nil
	}
	c.notes = c.storage.GetNotes(ctx)
	if c.selectedID != "" && c.indexLocked(c.selectedID) < 0 {
		c.selectedID = ""
	}
	return nil
}

// Watch follows changes other processes make to the store, the way browser
// tabs observe each other's storage writes. It returns once subscribed;
// Close stops it.
func (c *Container) Watch(ctx context.Context) error {
	ws, ok := c.storage.Store().(core.Watchable)
	if !ok {
		return ErrNotWatchable
	}

	c.ownedMu.Lock()
	if c.watch != nil {
		c.ownedMu.Unlock()
		return errors.New("already watching")
	}
	wctx, cancel := context.WithCancel(ctx)
	events, err := ws.Watch(wctx, "notestaker_*")
	if err != nil {
		cancel()
		c.ownedMu.Unlock()
		return fmt.Errorf("failed to watch store: %w", err)
	}
	w := &watcher{cancel: cancel, done: make(chan struct{})}
	c.watch = w
	c.ownedMu.Unlock()

	lifecycle.Go(wctx, func(ctx context.Context) error {
		defer close(w.done)
		for e := range events {
			c.apply(ctx, e)
		}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		c.logger.Error("store watcher failed", "error", err)
	}))
	return nil
}

func (c *Container) apply(ctx context.Context, e core.Event) {
	c.logger.Debug("store changed", "event", e.String())

	switch e.Key {
	case core.NotesKey:
		if err := c.Reload(ctx); err != nil {
			return
		}
	case core.SettingsKey:
		c.mu.Lock()
		c.settings = c.storage.GetSettings(ctx)
		c.mu.Unlock()
	case core.ThemeKey:
		c.mu.Lock()
		c.theme = c.storage.GetTheme(ctx)
		c.mu.Unlock()
	default:
		return
	}

	if c.onChange != nil {
		c.onChange(e)
	}
}

// Watching reports whether Watch is active.
func (c *Container) Watching() bool {
	c.ownedMu.Lock()
	defer c.ownedMu.Unlock()
	return c.watch != nil
}

func (c *Container) stopWatch() {
	c.ownedMu.Lock()
	w := c.watch
	c.watch = nil
	c.ownedMu.Unlock()
	if w == nil {
		return
	}
	w.cancel()
	<-w.done
}
