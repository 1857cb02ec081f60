package platform

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aretw0/notestaker/pkg/adapters/fs"
	"github.com/aretw0/notestaker/pkg/adapters/memory"
	"github.com/aretw0/notestaker/pkg/adapters/sqlite"
	"github.com/aretw0/notestaker/pkg/core"
)

// Open builds and initializes the store selected by the options.
// The uri is adapter specific: a data directory for "fs", a directory or a
// ".db" file for "sqlite", ignored for "memory".
func Open(ctx context.Context, uri string, opts ...Option) (core.Store, error) {
	o := apply(opts)
	return open(ctx, uri, o)
}

func open(ctx context.Context, uri string, o *options) (core.Store, error) {
	if o.store != nil {
		return o.store, nil
	}

	var store core.Store
	switch o.adapter {
	case AdapterFS:
		store = fs.NewStore(fs.Config{
			Path:       resolve(uri, o),
			Versioning: o.versioning,
			ReadOnly:   o.readOnly,
			MustExist:  o.mustExist,
			Quota:      o.quota,
			Logger:     o.logger,
		})
	case AdapterSQLite:
		path := resolve(uri, o)
		if !strings.HasSuffix(path, ".db") && path != ":memory:" {
			path = filepath.Join(path, sqlite.DefaultFilename)
		}
		store = sqlite.NewStore(sqlite.Config{
			Path:     path,
			ReadOnly: o.readOnly,
			Quota:    o.quota,
			Logger:   o.logger,
		})
	case AdapterMemory:
		quota := o.quota
		if quota == 0 {
			quota = memory.DefaultQuota
		}
		store = memory.New(memory.WithQuota(quota), memory.WithReadOnly(o.readOnly))
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	if err := store.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize %s store: %w", o.adapter, err)
	}
	return store, nil
}

// resolve applies dev safety to a user supplied path.
func resolve(path string, o *options) string {
	// Read-only access is inherently safe.
	bypass := o.readOnly || !o.devSafety
	useTemp := o.forceTemp || (IsDevRun() && !bypass)
	resolved := ResolvePath(path, useTemp)

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	switch {
	case useTemp && resolved != filepath.Clean(path):
		logger.Warn("running in SAFE MODE (dev sandbox)", "original_path", path, "resolved_path", resolved)
	case IsDevRun() && bypass && !o.readOnly:
		// Only reachable through an explicit WithDevSafety(false).
		logger.Debug("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
	}
	return resolved
}
