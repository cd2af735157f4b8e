// Package fs implements the durable, cookie-equivalent token store on the
// local filesystem.
package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/aretw0/notesync/pkg/core"
)

const (
	// TokenKey is the cookie name under which the access token is persisted.
	TokenKey = "accessToken"

	// DefaultFileName is the cookie file inside the state directory.
	DefaultFileName = "cookies.yaml"

	// RootPath scopes the token to the whole application.
	RootPath = "/"
)

// Config holds the configuration for the filesystem token store.
type Config struct {
	Dir          string // state directory, e.g. ~/.config/notesync
	FileName     string // defaults to DefaultFileName
	RequestPath  string // path the token is read for; defaults to RootPath
	MustExist    bool   // fail Initialize when Dir is missing instead of creating it
	ReadOnly     bool
	Logger       *slog.Logger
	ErrorHandler func(error)     // receives watcher errors
	Clock        clockwork.Clock // stamps watcher events; defaults to the real clock
}

// TokenStore implements core.TokenStore on top of a cookie file.
type TokenStore struct {
	Path   string
	jar    *jar
	config Config

	ioMu sync.Mutex // serializes load-modify-save cycles on the jar

	mu            sync.RWMutex
	watcherActive bool
}

// NewTokenStore creates a token store. Call Initialize before use.
func NewTokenStore(config Config) *TokenStore {
	if config.FileName == "" {
		config.FileName = DefaultFileName
	}
	if config.RequestPath == "" {
		config.RequestPath = RootPath
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}
	path := filepath.Join(config.Dir, config.FileName)
	return &TokenStore{
		Path:   path,
		jar:    newJar(path),
		config: config,
	}
}

// Initialize ensures the state directory exists.
func (s *TokenStore) Initialize(_ context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.config.Dir)
		if os.IsNotExist(err) {
			return fmt.Errorf("state directory does not exist: %s", s.config.Dir)
		}
		if err != nil {
			return fmt.Errorf("failed to stat state directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("state path is not a directory: %s", s.config.Dir)
		}
		return nil
	}

	if err := os.MkdirAll(s.config.Dir, 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	return nil
}

// Token reads the persisted token from disk. Every call re-reads the file so
// that a token removed by another process is noticed immediately.
func (s *TokenStore) Token(_ context.Context) (string, bool) {
	s.ioMu.Lock()
	defer s.ioMu.Unlock()

	if err := s.jar.Load(); err != nil {
		s.config.Logger.Warn("failed to load cookie file", "path", s.Path, "error", err)
		return "", false
	}
	return s.jar.Get(TokenKey, s.config.RequestPath)
}

// SetToken persists token under TokenKey, scoped to RootPath.
func (s *TokenStore) SetToken(_ context.Context, token string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if token == "" {
		return core.ErrInvalidToken
	}

	s.ioMu.Lock()
	defer s.ioMu.Unlock()

	if err := s.jar.Load(); err != nil {
		return err
	}
	s.jar.Set(TokenKey, token, RootPath)
	if err := s.jar.Save(); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}

	s.config.Logger.Debug("access token persisted", "path", s.Path)
	return nil
}

var _ core.TokenStore = (*TokenStore)(nil)
