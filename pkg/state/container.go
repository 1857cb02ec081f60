// Package state owns the in-memory notes collection and everything derived
// from it: selection, search filters, settings, theme and the last error.
//
// A Container is created explicitly, loaded from storage with Load and torn
// down with Close. Every mutation rewrites the whole collection through the
// storage adapter. Methods are safe for concurrent use; debounce timers and
// store watchers call back from their own goroutines.
package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/notestaker/pkg/core"
	"github.com/aretw0/notestaker/pkg/debounce"
	"github.com/aretw0/notestaker/pkg/export"
	"github.com/aretw0/notestaker/pkg/storage"
)

// Container is the notes state container.
type Container struct {
	storage   *storage.Adapter
	logger    *slog.Logger
	clock     func() time.Time
	newID     func() string
	sink      export.Sink
	formatter export.Formatter
	onChange  func(core.Event)

	searchDelay   time.Duration
	autosaveDelay time.Duration

	mu         sync.RWMutex
	notes      []core.Note
	selectedID string
	filters    core.SearchFilters
	settings   core.AppSettings
	theme      core.Theme
	loading    bool
	err        error
	dirty      bool

	ownedMu sync.Mutex
	owned   map[any]func()
	watch   *watcher
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger. Nil discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) { c.clock = clock }
}

// WithIDGenerator replaces the UUID v4 generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *Container) { c.newID = fn }
}

// WithExportSink sets where exports are delivered.
func WithExportSink(sink export.Sink) Option {
	return func(c *Container) { c.sink = sink }
}

// WithFormatter sets the export date formatter. Local time by default.
func WithFormatter(f export.Formatter) Option {
	return func(c *Container) { c.formatter = f }
}

// WithChangeHandler registers a callback invoked after a watched store
// change has been applied.
func WithChangeHandler(fn func(core.Event)) Option {
	return func(c *Container) { c.onChange = fn }
}

// WithDebounce overrides the search and autosave quiet windows.
func WithDebounce(search, autosave time.Duration) Option {
	return func(c *Container) {
		if search > 0 {
			c.searchDelay = search
		}
		if autosave > 0 {
			c.autosaveDelay = autosave
		}
	}
}

// New creates an empty Container over adapter. Call Load to read storage.
func New(adapter *storage.Adapter, opts ...Option) *Container {
	c := &Container{
		storage:       adapter,
		logger:        slog.New(slog.DiscardHandler),
		clock:         time.Now,
		newID:         func() string { return uuid.New().String() },
		sink:          export.DirSink{Dir: "."},
		formatter:     export.Local,
		searchDelay:   debounce.SearchDelay,
		autosaveDelay: debounce.AutoSaveDelay,
		notes:         []core.Note{},
		settings:      core.DefaultSettings(),
		theme:         core.ThemeSystem,
		owned:         make(map[any]func()),
	}
	c.filters = core.DefaultFilters(c.settings)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load initializes the container from storage. Read failures fall back to
// defaults, so Load itself only fails on a cancelled context.
func (c *Container) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	notes := c.storage.GetNotes(ctx)
	settings := c.storage.GetSettings(ctx)
	theme := c.storage.GetTheme(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err := ctx.Err(); err != nil {
		return err
	}
	c.notes = notes
	c.settings = settings
	c.theme = theme
	c.filters = core.DefaultFilters(settings)
	c.dirty = false
	c.logger.Debug("notes loaded", "count", len(notes), "theme", theme)
	return nil
}

// Close stops the watcher and every debouncer created by the container,
// retries the last failed write if the collection is dirty and releases the
// store.
func (c *Container) Close(ctx context.Context) error {
	c.stopWatch()

	c.ownedMu.Lock()
	stops := make([]func(), 0, len(c.owned))
	for _, stop := range c.owned {
		stops = append(stops, stop)
	}
	c.owned = make(map[any]func())
	c.ownedMu.Unlock()
	for _, stop := range stops {
		stop()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	var err error
	if c.dirty {
		c.logger.Info("flushing unsaved notes", "count", len(c.notes))
		err = c.persistLocked(ctx)
	}
	if cerr := c.storage.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("close store: %w", cerr))
	}
	return err
}

func (c *Container) own(key any, stop func()) {
	c.ownedMu.Lock()
	defer c.ownedMu.Unlock()
	c.owned[key] = stop
}

func (c *Container) disown(key any) {
	c.ownedMu.Lock()
	defer c.ownedMu.Unlock()
	delete(c.owned, key)
}

// Notes returns a copy of the collection in storage order.
func (c *Container) Notes() []core.Note {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneNotes(c.notes)
}

// Note returns the note with id.
func (c *Container) Note(id string) (core.Note, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.notes[i].Clone(), true
	}
	return core.Note{}, false
}

// Select marks id as the selected note. An empty id clears the selection;
// an unknown id is a recorded no-op.
func (c *Container) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id != "" && c.indexLocked(id) < 0 {
		c.missingLocked("select", id)
		return
	}
	c.selectedID = id
}

// Selected returns the selected note, if any.
func (c *Container) Selected() (core.Note, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.selectedID == "" {
		return core.Note{}, false
	}
	if i := c.indexLocked(c.selectedID); i >= 0 {
		return c.notes[i].Clone(), true
	}
	return core.Note{}, false
}

// IsLoading reports whether Load is in progress.
func (c *Container) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err returns the last recorded error: a failed write or an operation on a
// missing note.
func (c *Container) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// ClearErr dismisses the last error.
func (c *Container) ClearErr() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = nil
}

// Dirty reports whether the in-memory collection holds changes the store rejected.
func (c *Container) Dirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

func (c *Container) indexLocked(id string) int {
	return slices.IndexFunc(c.notes, func(n core.Note) bool { return n.ID == id })
}

func (c *Container) missingLocked(op, id string) {
	c.err = fmt.Errorf("%s %s: %w", op, id, core.ErrNoteNotFound)
	c.logger.Debug("operation on missing note ignored", "op", op, "id", id)
}

// persistLocked writes the whole collection. On failure the in-memory state
// is kept and marked dirty so Close can retry.
func (c *Container) persistLocked(ctx context.Context) error {
	if err := c.storage.SaveNotes(ctx, c.notes); err != nil {
		c.dirty = true
		c.err = err
		return err
	}
	c.dirty = false
	return nil
}

// touch returns a timestamp strictly after prev.
func (c *Container) touch(prev time.Time) time.Time {
	now := c.clock()
	if !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return now
}

func cloneNotes(notes []core.Note) []core.Note {
	out := make([]core.Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out
}
