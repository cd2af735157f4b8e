package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/notesync/pkg/adapters/fs"
	"github.com/aretw0/notesync/pkg/adapters/memory"
	"github.com/aretw0/notesync/pkg/core"
)

// AppName names the user config subdirectory.
const AppName = "notesync"

// initTokenStore builds and initializes the token store selected by the options.
// It returns the store and the state directory it lives in (empty for memory).
func initTokenStore(o *options) (core.TokenStore, string, error) {
	if o.tokens != nil {
		return o.tokens, "", nil
	}

	switch o.adapter {
	case "fs":
		store, err := initFS(o)
		if err != nil {
			return nil, "", err
		}
		if err := store.Initialize(context.Background()); err != nil {
			return nil, "", err
		}
		return store, filepath.Dir(store.Path), nil
	case "memory":
		return memory.NewTokenStore(), "", nil
	default:
		return nil, "", fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// initFS handles path resolution and safety for the filesystem adapter.
func initFS(o *options) (*fs.TokenStore, error) {
	tempDir, _ := o.config["temp_dir"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	isReadOnly, _ := o.config["read_only"].(bool)

	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// read-only never writes, so the sandbox is not needed
	bypassSafety := isReadOnly || !devSafety

	dir := o.stateDir
	if dir == "" {
		var err error
		dir, err = DefaultStateDir()
		if err != nil {
			return nil, err
		}
	}

	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolved := ResolveStateDir(dir, useTemp)

	if o.logger != nil {
		if useTemp {
			o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", dir, "resolved_path", resolved)
		} else if IsDevRun() && bypassSafety {
			if isReadOnly {
				o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
			} else {
				o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
			}
		}
	}

	return fs.NewTokenStore(fs.Config{
		Dir:          resolved,
		MustExist:    mustExist,
		ReadOnly:     isReadOnly,
		Logger:       o.logger,
		ErrorHandler: o.diagnostics,
		Clock:        o.clock,
	}), nil
}

// DefaultStateDir returns the nearest .notesync directory above the working
// directory, or <user config dir>/notesync when there is none.
func DefaultStateDir() (string, error) {
	if wd, err := os.Getwd(); err == nil {
		if dir, err := FindStateDir(wd); err == nil {
			return dir, nil
		}
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(base, AppName), nil
}
