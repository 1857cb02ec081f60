package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/notestaker/pkg/core"
	"github.com/aretw0/notestaker/pkg/export"
	"github.com/aretw0/notestaker/pkg/state"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
	AdapterMemory = "memory"
)

// Adapters lists the built-in adapter names.
func Adapters() []string {
	return []string{AdapterFS, AdapterSQLite, AdapterMemory}
}

// options holds the internal configuration for NoteStaker.
type options struct {
	store      core.Store
	logger     *slog.Logger
	adapter    string
	versioning bool
	readOnly   bool
	mustExist  bool
	quota      int
	devSafety  bool
	forceTemp  bool
	stateOpts  []state.Option
}

// Option defines a functional option for configuring NoteStaker.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:   AdapterFS,
		devSafety: true,
	}
}

func apply(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithAdapter selects the storage adapter by name ("fs", "sqlite" or "memory").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithLogger sets the logger shared by the store and the notes container.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
		o.stateOpts = append(o.stateOpts, state.WithLogger(logger))
	}
}

// WithVersioning commits every write of the fs adapter to a git repository
// inside the data directory. Other adapters ignore it.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.versioning = enabled
	}
}

// WithReadOnly rejects every write with core.ErrReadOnly.
// The data directory must already exist and dev safety is bypassed.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithMustExist fails instead of creating a missing data directory.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithQuota limits the size of a single stored value in bytes.
// Zero keeps the 5 MiB default; a negative value disables the limit.
func WithQuota(bytes int) Option {
	return func(o *options) {
		o.quota = bytes
	}
}

// WithStore injects a custom store. The adapter name and path are ignored.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
// By default (true) the data directory is re-rooted into a temporary
// directory so development runs never touch real notes.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithForceTemp re-roots the data directory into a temporary directory.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithClock sets the time source used for note timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.stateOpts = append(o.stateOpts, state.WithClock(clock))
	}
}

// WithIDGenerator sets the note ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		o.stateOpts = append(o.stateOpts, state.WithIDGenerator(fn))
	}
}

// WithExportSink sets where exported files are delivered.
func WithExportSink(sink export.Sink) Option {
	return func(o *options) {
		o.stateOpts = append(o.stateOpts, state.WithExportSink(sink))
	}
}

// WithStateOptions passes options straight to the notes container.
func WithStateOptions(opts ...state.Option) Option {
	return func(o *options) {
		o.stateOpts = append(o.stateOpts, opts...)
	}
}
