package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// TempFilePrefix names in-flight cookie files. The watcher ignores them
// because it only reacts to the cookie file's own base name.
const TempFilePrefix = "notesync-tmp-"

// replaceFile streams encode's output into a sibling temp file that already
// carries perm, then renames it over path. Readers see the old file or the
// new one, never a token half written.
func replaceFile(path string, perm os.FileMode, encode func(io.Writer) error) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp cookie file: %w", err)
	}
	name := tmp.Name()

	if err := fill(tmp, perm, encode); err != nil {
		_ = os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("rename cookie file into %s: %w", path, err)
	}
	return syncDir(dir)
}

// fill restricts, writes, flushes and closes tmp. It always closes tmp.
func fill(tmp *os.File, perm os.FileMode, encode func(io.Writer) error) error {
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp cookie file: %w", err)
	}
	if err := encode(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("encode cookie file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp cookie file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp cookie file: %w", err)
	}
	return nil
}

// syncDir persists the rename itself. Windows cannot fsync a directory.
func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("open state directory: %w", err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return fmt.Errorf("sync state directory: %w", err)
	}
	return nil
}
