// Package sqlite keeps the NoteStaker keys in a single SQLite file, using the
// pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/notestaker/pkg/core"

	_ "modernc.org/sqlite"
)

// DefaultQuota mirrors the per-value budget of browser local storage.
const DefaultQuota = 5 << 20

// DefaultFilename is the database file created inside a data directory.
const DefaultFilename = "notestaker.db"

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// Config holds the configuration for the SQLite store.
type Config struct {
	// Path is the database file. ":memory:" keeps everything in process.
	Path     string
	ReadOnly bool
	Quota    int // bytes per value; 0 uses DefaultQuota, negative disables
	Logger   *slog.Logger
}

// Store implements core.Store on a kv table.
type Store struct {
	config Config
	logger *slog.Logger

	mu sync.Mutex
	db *sql.DB
}

// NewStore creates a SQLite-backed store. Call Initialize before use.
func NewStore(config Config) *Store {
	if config.Quota == 0 {
		config.Quota = DefaultQuota
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{config: config, logger: logger}
}

// Initialize opens the database and creates the schema.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}

	if s.config.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(s.config.Path), 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", s.config.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer; one connection also keeps ":memory:" shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if s.config.Path != ":memory:" {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
			db.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	s.db = db
	s.logger.Debug("sqlite store ready", "path", s.config.Path)
	return nil
}

func (s *Store) conn() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, errors.New("sqlite store is not initialized")
	}
	return s.db, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	db, err := s.conn()
	if err != nil {
		return "", err
	}
	var value string
	err = db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", core.ErrNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if s.config.ReadOnly {
		return fmt.Errorf("cannot set %s: %w", key, core.ErrReadOnly)
	}
	if s.config.Quota > 0 && len(value) > s.config.Quota {
		return fmt.Errorf("cannot set %s (%d bytes): %w", key, len(value), core.ErrQuotaExceeded)
	}
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if s.config.ReadOnly {
		return fmt.Errorf("cannot delete %s: %w", key, core.ErrReadOnly)
	}
	db, err := s.conn()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Keys lists keys matching a doublestar pattern, sorted.
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid key pattern %q", pattern)
	}
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, "SELECT key FROM kv ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		if pattern == "" || pattern == "*" {
			keys = append(keys, key)
			continue
		}
		if ok, _ := doublestar.Match(pattern, key); ok {
			keys = append(keys, key)
		}
	}
	return keys, rows.Err()
}

// UpdatedAt returns when key was last written.
func (s *Store) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	db, err := s.conn()
	if err != nil {
		return time.Time{}, err
	}
	var raw string
	err = db.QueryRowContext(ctx, "SELECT updated_at FROM kv WHERE key = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("%w: %s", core.ErrNotFound, key)
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, raw)
}

// Close releases the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// StoreState is the introspection snapshot of a Store.
type StoreState struct {
	Path     string `json:"path"`
	Open     bool   `json:"open"`
	ReadOnly bool   `json:"read_only"`
	Quota    int    `json:"quota"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StoreState{
		Path:     s.config.Path,
		Open:     s.db != nil,
		ReadOnly: s.config.ReadOnly,
		Quota:    s.config.Quota,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "sqlite-store"
}

var (
	_ core.Store                   = (*Store)(nil)
	_ introspection.Introspectable = (*Store)(nil)
	_ introspection.Component      = (*Store)(nil)
)
