package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// DevDirName is the namespace for sandboxed data directories under the
// system temp directory.
const DevDirName = "notestaker-dev"

// IsDevRun checks if the current process is running via `go run` or `go test`.
// Both build their binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}
	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolvePath determines the actual data directory based on safety rules.
// With forceTemp the path is re-rooted under the temp directory, unless it
// already lives there (t.TempDir() and friends).
func ResolvePath(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	clean := filepath.Clean(userPath)
	if filepath.IsAbs(clean) {
		if rel, err := filepath.Rel(os.TempDir(), clean); err == nil && !strings.HasPrefix(rel, "..") {
			return clean
		}
	}

	sub := "default"
	if userPath != "" {
		if base := filepath.Base(clean); base != "." && base != string(os.PathSeparator) {
			sub = base
		}
	}
	return filepath.Join(os.TempDir(), DevDirName, sub)
}
