package platform_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notestaker/internal/platform"
	"github.com/aretw0/notestaker/pkg/adapters/fs"
	"github.com/aretw0/notestaker/pkg/adapters/memory"
	"github.com/aretw0/notestaker/pkg/adapters/sqlite"
	"github.com/aretw0/notestaker/pkg/core"
	"github.com/aretw0/notestaker/pkg/export"
	"github.com/aretw0/notestaker/pkg/git"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("Filesystem Creates Directory", func(t *testing.T) {
		dataDir := filepath.Join(t.TempDir(), "data")

		store, err := platform.Open(ctx, dataDir)
		require.NoError(t, err)

		fsStore, ok := store.(*fs.Store)
		require.True(t, ok, "expected fs store, got %T", store)
		assert.Equal(t, dataDir, fsStore.Path)

		info, err := os.Stat(dataDir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		_, err = os.Stat(filepath.Join(dataDir, ".git"))
		assert.True(t, os.IsNotExist(err), "versioning is off by default")
	})

	t.Run("Filesystem With Versioning", func(t *testing.T) {
		if !git.IsInstalled() {
			t.Skip("git not installed")
		}
		dataDir := filepath.Join(t.TempDir(), "versioned")

		_, err := platform.Open(ctx, dataDir, platform.WithVersioning(true))
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(dataDir, ".git"))
		assert.NoError(t, err)
	})

	t.Run("MustExist Fails On Missing Directory", func(t *testing.T) {
		_, err := platform.Open(ctx, filepath.Join(t.TempDir(), "missing"), platform.WithMustExist(true))
		assert.Error(t, err)
	})

	t.Run("SQLite In Directory", func(t *testing.T) {
		dataDir := t.TempDir()

		store, err := platform.Open(ctx, dataDir, platform.WithAdapter(platform.AdapterSQLite))
		require.NoError(t, err)
		t.Cleanup(func() { _ = platform.CloseStore(store) })

		_, ok := store.(*sqlite.Store)
		require.True(t, ok)
		_, err = os.Stat(filepath.Join(dataDir, sqlite.DefaultFilename))
		assert.NoError(t, err)
	})

	t.Run("Memory", func(t *testing.T) {
		store, err := platform.Open(ctx, "", platform.WithAdapter(platform.AdapterMemory), platform.WithReadOnly(true))
		require.NoError(t, err)
		assert.ErrorIs(t, store.Set(ctx, core.NotesKey, "[]"), core.ErrReadOnly)
	})

	t.Run("Injected Store Wins", func(t *testing.T) {
		injected := memory.New()
		store, err := platform.Open(ctx, "ignored", platform.WithAdapter("bogus"), platform.WithStore(injected))
		require.NoError(t, err)
		assert.Same(t, injected, store)
	})

	t.Run("Unknown Adapter", func(t *testing.T) {
		_, err := platform.Open(ctx, t.TempDir(), platform.WithAdapter("s3"))
		assert.ErrorContains(t, err, "unknown adapter")
	})

	t.Run("Dev Safety Re-roots Outside Temp", func(t *testing.T) {
		store, err := platform.Open(ctx, "notestaker-platform-test", platform.WithVersioning(false))
		require.NoError(t, err)
		fsStore := store.(*fs.Store)
		assert.Equal(t, filepath.Join(os.TempDir(), platform.DevDirName, "notestaker-platform-test"), fsStore.Path)
		t.Cleanup(func() { _ = os.RemoveAll(fsStore.Path) })
	})
}

func TestOpen_DevSafetyDisabled(t *testing.T) {
	ctx := context.Background()
	open := func(t *testing.T, level slog.Level) (string, string) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level}))
		dataDir := t.TempDir()
		store, err := platform.Open(ctx, dataDir, platform.WithDevSafety(false), platform.WithLogger(logger))
		require.NoError(t, err)
		return store.(*fs.Store).Path, buf.String()
	}

	t.Run("Quiet At Info", func(t *testing.T) {
		_, logs := open(t, slog.LevelInfo)
		assert.NotContains(t, logs, "UNSAFE")
		assert.NotContains(t, logs, "level=WARN")
	})

	t.Run("Reported At Debug", func(t *testing.T) {
		path, logs := open(t, slog.LevelDebug)
		assert.Contains(t, logs, "UNSAFE")
		assert.Contains(t, logs, path)
	})
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)

	for _, adapter := range platform.Adapters() {
		t.Run(adapter, func(t *testing.T) {
			dataDir := t.TempDir()
			var delivered []export.File
			opts := []platform.Option{
				platform.WithAdapter(adapter),
				platform.WithClock(func() time.Time { return now }),
				platform.WithIDGenerator(func() string { return "fixed" }),
				platform.WithExportSink(export.SinkFunc(func(_ context.Context, f export.File) error {
					delivered = append(delivered, f)
					return nil
				})),
			}

			c, err := platform.New(ctx, dataDir, opts...)
			require.NoError(t, err)

			n, err := c.Add(ctx, core.NoteFormData{Title: "Hello", Content: "world"})
			require.NoError(t, err)
			assert.Equal(t, "fixed", n.ID)
			assert.Equal(t, now, n.CreatedAt)

			require.NoError(t, c.ExportNote(ctx, n.ID, export.Markdown))
			require.Len(t, delivered, 1)
			assert.Equal(t, "hello.md", delivered[0].Name)
			require.NoError(t, c.Close(ctx))

			if adapter == platform.AdapterMemory {
				return
			}
			reopened, err := platform.New(ctx, dataDir, opts...)
			require.NoError(t, err)
			t.Cleanup(func() { _ = reopened.Close(ctx) })
			require.Len(t, reopened.Notes(), 1)
			assert.Equal(t, "Hello", reopened.Notes()[0].Title)
		})
	}
}
