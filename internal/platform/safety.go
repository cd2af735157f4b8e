package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDevRun checks if the current process is running via `go run` or `go test`.
// Both build binaries in temporary directories.
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

// ResolveStateDir determines the directory the session is persisted in.
// With forceTemp, a directory outside the system temp dir is re-rooted into
// <tmp>/notesync-dev/<base> so development runs never touch the real session.
func ResolveStateDir(dir string, forceTemp bool) string {
	if !forceTemp {
		if dir == "" {
			return "."
		}
		return dir
	}

	clean := filepath.Clean(dir)
	tempRoot := os.TempDir()

	// already inside the temp dir, e.g. t.TempDir()
	if rel, err := filepath.Rel(tempRoot, clean); err == nil && !strings.HasPrefix(rel, "..") {
		return clean
	}

	sub := filepath.Base(clean)
	if dir == "" || sub == "." || sub == string(os.PathSeparator) {
		sub = "default"
	}
	return filepath.Join(tempRoot, AppName+"-dev", sub)
}
