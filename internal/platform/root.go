package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/notestaker/pkg/core"
)

// Marker is the file or directory that turns a folder into a data root.
const Marker = ".notestaker"

// ErrRootNotFound is returned by FindRoot when no ancestor carries the marker.
var ErrRootNotFound = errors.New("root not found")

// FindRoot looks upwards from startDir for a directory containing Marker and
// returns its absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, Marker) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%w from %s", ErrRootNotFound, abs)
}

// DefaultDir returns the data directory used when none is configured: the
// nearest ancestor of the working directory holding Marker, or the
// per-user config directory.
func DefaultDir() (string, error) {
	if wd, err := os.Getwd(); err == nil {
		if root, err := FindRoot(wd); err == nil {
			return root, nil
		}
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, core.AppDir), nil
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
