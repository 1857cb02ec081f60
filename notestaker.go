package notestaker

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/notestaker/internal/platform"
	"github.com/aretw0/notestaker/pkg/core"
	"github.com/aretw0/notestaker/pkg/export"
	"github.com/aretw0/notestaker/pkg/state"
)

// --- Types ---

// Notes is the notes state container returned by New.
type Notes = state.Container

// Note is a public alias for the domain note.
type Note = core.Note

// --- Configuration ---

// Option defines a functional option for configuring NoteStaker.
type Option = platform.Option

// Adapter names.
const (
	AdapterFS     = platform.AdapterFS
	AdapterSQLite = platform.AdapterSQLite
	AdapterMemory = platform.AdapterMemory
)

// WithAdapter selects the storage adapter by name. Defaults to "fs".
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithLogger sets the logger for the store and the container.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithVersioning commits every write of the fs adapter to Git.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithReadOnly rejects every write.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithMustExist fails instead of creating a missing data directory.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithQuota limits the size of a single stored value in bytes.
func WithQuota(bytes int) Option {
	return platform.WithQuota(bytes)
}

// WithStore injects a custom key-value store.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithDevSafety controls the temp-dir sandbox used under `go run`/`go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithClock sets the time source for note timestamps.
func WithClock(clock func() time.Time) Option {
	return platform.WithClock(clock)
}

// WithIDGenerator sets the note ID generator.
func WithIDGenerator(fn func() string) Option {
	return platform.WithIDGenerator(fn)
}

// WithExportSink sets where exports are delivered.
func WithExportSink(sink export.Sink) Option {
	return platform.WithExportSink(sink)
}

// WithChangeHandler runs fn for every change another process makes to the
// store while the notes are watched.
func WithChangeHandler(fn func(core.Event)) Option {
	return platform.WithStateOptions(state.WithChangeHandler(fn))
}

// --- Factory ---

// New opens the store at uri and returns the loaded notes container.
func New(ctx context.Context, uri string, opts ...Option) (*Notes, error) {
	return platform.New(ctx, uri, opts...)
}

// Open builds and initializes a store without loading it.
func Open(ctx context.Context, uri string, opts ...Option) (core.Store, error) {
	return platform.Open(ctx, uri, opts...)
}

// --- Safety & Utils ---

// Marker is the file that makes a directory a data root.
const Marker = platform.Marker

// DefaultDir returns the data directory used when none is configured.
func DefaultDir() (string, error) {
	return platform.DefaultDir()
}

// ResolvePath determines the actual data directory based on safety rules.
func ResolvePath(userPath string, forceTemp bool) string {
	return platform.ResolvePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a directory holding a .notestaker marker.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
