// Package git keeps an optional version history of a NoteStaker data
// directory by shelling out to the git binary.
package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultLockName is the lock file created in the work directory while a
// commit is in progress.
const DefaultLockName = ".notestaker.lock"

// Client wraps git command execution with a file-based lock for process safety.
type Client struct {
	WorkDir  string
	Logger   *slog.Logger
	lockPath string
}

// NewClient creates a git client for workDir. An empty lockName uses DefaultLockName.
func NewClient(workDir, lockName string, logger *slog.Logger) *Client {
	if lockName == "" {
		lockName = DefaultLockName
	}
	return &Client{
		WorkDir:  workDir,
		Logger:   logger,
		lockPath: lockName,
	}
}

// LockName returns the lock file name relative to WorkDir.
func (c *Client) LockName() string {
	return c.lockPath
}

// Lock acquires the file lock, retrying until ctx is done.
func (c *Client) Lock(ctx context.Context) (func(), error) {
	fullLockPath := filepath.Join(c.WorkDir, c.lockPath)

	for {
		f, err := os.OpenFile(fullLockPath, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() {
				os.Remove(fullLockPath)
			}, nil
		}

		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to acquire lock %s: %w", c.lockPath, ctx.Err())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// Run executes a raw git command in the working directory.
// It does NOT acquire the lock; callers serialize through Lock.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}

	return strings.TrimSpace(output), nil
}

// Init initializes a repository. Re-running it is safe.
func (c *Client) Init(ctx context.Context) error {
	_, err := c.Run(ctx, "init")
	return err
}

// IsRepo reports whether WorkDir is the top of a git repository.
func (c *Client) IsRepo() bool {
	info, err := os.Stat(filepath.Join(c.WorkDir, ".git"))
	return err == nil && info.IsDir()
}

// Stage records the current state of paths in the index, deletions included.
func (c *Client) Stage(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "-A", "--"}, paths...)
	_, err := c.Run(ctx, args...)
	return err
}

// HasChanges reports whether paths differ from the last commit.
func (c *Client) HasChanges(ctx context.Context, paths ...string) (bool, error) {
	args := append([]string{"status", "--porcelain", "--"}, paths...)
	out, err := c.Run(ctx, args...)
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// Commit records staged changes. A fallback identity is used when the
// repository has none configured.
func (c *Client) Commit(ctx context.Context, msg string) error {
	args := []string{"commit", "-m", msg}
	if email, _ := c.Run(ctx, "config", "user.email"); email == "" {
		args = append([]string{"-c", "user.name=NoteStaker", "-c", "user.email=notestaker@localhost"}, args...)
	}
	_, err := c.Run(ctx, args...)
	return err
}

// Commit is a single entry of the history.
type Commit struct {
	Hash    string
	Date    time.Time
	Message string
}

// Log returns up to limit commits touching path, newest first.
func (c *Client) Log(ctx context.Context, path string, limit int) ([]Commit, error) {
	args := []string{"log", "--format=%H%x1f%aI%x1f%s"}
	if limit > 0 {
		args = append(args, fmt.Sprintf("-n%d", limit))
	}
	args = append(args, "--", path)

	out, err := c.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}

	var commits []Commit
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(line, "\x1f", 3)
		if len(parts) != 3 {
			continue
		}
		date, err := time.Parse(time.RFC3339, parts[1])
		if err != nil {
			return nil, fmt.Errorf("failed to parse commit date %q: %w", parts[1], err)
		}
		commits = append(commits, Commit{Hash: parts[0], Date: date, Message: parts[2]})
	}
	return commits, nil
}

// IsInstalled checks if git is available in the system PATH.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}
