package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// StateDirName is the project-local state directory looked up by FindStateDir.
const StateDirName = ".notesync"

// ErrStateDirNotFound is returned when no .notesync directory exists above the start dir.
var ErrStateDirNotFound = errors.New("state directory not found")

// FindStateDir looks upwards from startDir for a .notesync directory and
// returns its absolute path.
func FindStateDir(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		candidate := filepath.Join(dir, StateDirName)
		if isDir(candidate) {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", ErrStateDirNotFound
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
