// Package fs stores each key of a core.Store as a file in a data directory.
//
// Writes are atomic (temp file, fsync, rename). With versioning enabled every
// write is also committed to a git repository rooted at the data directory,
// giving the notes a browsable history.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/notestaker/internal/atomicfile"
	"github.com/aretw0/notestaker/pkg/core"
	"github.com/aretw0/notestaker/pkg/git"
)

// DefaultQuota mirrors the per-value budget of browser local storage.
const DefaultQuota = 5 << 20

// Config holds the configuration for the filesystem store.
type Config struct {
	Path       string
	Versioning bool // commit every write to git
	ReadOnly   bool
	MustExist  bool
	Quota      int // bytes per value; 0 uses DefaultQuota, negative disables
	Logger     *slog.Logger
	// CoalesceWindow merges bursts of filesystem events for one key.
	CoalesceWindow time.Duration
}

// Store implements core.Store on top of a directory.
type Store struct {
	Path   string
	git    *git.Client
	config Config
	logger *slog.Logger

	mu        sync.RWMutex
	watchers  int
	lastEvent *time.Time
	commits   int
}

// NewStore creates a filesystem-backed store. Call Initialize before use.
func NewStore(config Config) *Store {
	if config.Quota == 0 {
		config.Quota = DefaultQuota
	}
	if config.CoalesceWindow <= 0 {
		config.CoalesceWindow = 50 * time.Millisecond
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		Path:   config.Path,
		git:    git.NewClient(config.Path, git.DefaultLockName, logger),
		config: config,
		logger: logger,
	}
}

// Initialize creates the data directory and, with versioning, the git repository.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("data directory does not exist: %s", s.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", s.Path)
		}
	} else if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if !s.config.Versioning || s.config.ReadOnly {
		return nil
	}

	if !git.IsInstalled() {
		return fmt.Errorf("versioning requires git, which is not installed")
	}
	if !s.git.IsRepo() {
		if err := s.git.Init(ctx); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
	}

	mod, err := s.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}
	if mod {
		return s.commit(ctx, ".gitignore", "chore: configure notestaker ignore")
	}
	return nil
}

// ensureIgnore keeps the lock file and in-flight temp files out of history.
func (s *Store) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(s.Path, ".gitignore")
	entries := []string{s.git.LockName(), atomicfile.TempFilePrefix + "*"}

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	existing := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		existing[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, e := range entries {
		if !existing[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}
	if _, err := f.WriteString(strings.Join(missing, "\n") + "\n"); err != nil {
		return false, err
	}
	return true, nil
}

// Get returns the content of the file named key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", core.ErrNotFound, key)
		}
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), nil
}

// Set atomically replaces the file named key and commits it when versioning.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if s.config.ReadOnly {
		return fmt.Errorf("cannot set %s: %w", key, core.ErrReadOnly)
	}
	if s.config.Quota > 0 && len(value) > s.config.Quota {
		return fmt.Errorf("cannot set %s (%d bytes): %w", key, len(value), core.ErrQuotaExceeded)
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := atomicfile.WriteFile(path, []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	if s.config.Versioning {
		return s.commit(ctx, key, "update "+key)
	}
	return nil
}

// Delete removes the file named key. Missing keys are ignored.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s.config.ReadOnly {
		return fmt.Errorf("cannot delete %s: %w", key, core.ErrReadOnly)
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	if s.config.Versioning {
		return s.commit(ctx, key, "delete "+key)
	}
	return nil
}

// Keys lists the stored keys matching pattern, sorted.
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid key pattern %q", pattern)
	}
	entries, err := os.ReadDir(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", s.Path, err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isKeyFile(e.Name()) {
			continue
		}
		if matchKey(pattern, e.Name()) {
			keys = append(keys, e.Name())
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// History lists the commits that touched key, newest first.
func (s *Store) History(ctx context.Context, key string, limit int) ([]git.Commit, error) {
	if !s.config.Versioning {
		return nil, fmt.Errorf("history requires versioning to be enabled")
	}
	if _, err := s.path(key); err != nil {
		return nil, err
	}
	return s.git.Log(ctx, key, limit)
}

// commit records file in git. A change reason carried by ctx replaces msg.
func (s *Store) commit(ctx context.Context, file, msg string) error {
	if reason := core.ChangeReason(ctx); reason != "" {
		msg = core.AppendFooter(reason)
	}
	unlock, err := s.git.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	changed, err := s.git.HasChanges(ctx, file)
	if err != nil {
		return fmt.Errorf("failed to check git status: %w", err)
	}
	if !changed {
		return nil
	}
	if err := s.git.Stage(ctx, file); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}
	if err := s.git.Commit(ctx, msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}

	s.mu.Lock()
	s.commits++
	s.mu.Unlock()
	return nil
}

// path maps key to a file inside the data directory. Keys are plain file
// names: no separators, no leading dot.
func (s *Store) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.Path, key), nil
}

func isKeyFile(name string) bool {
	return !strings.HasPrefix(name, ".") && !strings.HasPrefix(name, atomicfile.TempFilePrefix)
}

func matchKey(pattern, key string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}
	ok, _ := doublestar.Match(pattern, key)
	return ok
}

var (
	_ core.Store     = (*Store)(nil)
	_ core.Watchable = (*Store)(nil)
)
