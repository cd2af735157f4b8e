package platform

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("NOTES_BACKEND_URL", "")
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("LOG_FORMAT", "")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("LOG_FORMAT")

		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Empty(t, cfg.BackendURL)
	})

	t.Run("Environment", func(t *testing.T) {
		t.Setenv("NOTES_BACKEND_URL", "http://notes.local")
		t.Setenv("NOTES_STATE_DIR", "/var/lib/notesync")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)
		assert.Equal(t, "http://notes.local", cfg.BackendURL)
		assert.Equal(t, "/var/lib/notesync", cfg.StateDir)
		assert.Equal(t, slog.LevelDebug, cfg.Level())
	})

	t.Run("Env file does not override environment", func(t *testing.T) {
		t.Setenv("NOTES_BACKEND_URL", "http://from-env")
		t.Setenv("NOTES_STATE_DIR", "")
		os.Unsetenv("NOTES_STATE_DIR")

		file := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(file, []byte("NOTES_BACKEND_URL=http://from-file\nNOTES_STATE_DIR=/from/file\n"), 0600))

		cfg, err := LoadConfig(file)
		require.NoError(t, err)
		assert.Equal(t, "http://from-env", cfg.BackendURL)
		assert.Equal(t, "/from/file", cfg.StateDir)
	})
}

func TestConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer

	cfg := &Config{LogLevel: "warn", LogFormat: "json"}
	logger := cfg.NewLogger(&buf, false)
	logger.Info("hidden")
	logger.Warn("shown", "op", "notes.load")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"op":"notes.load"`)

	buf.Reset()
	cfg.NewLogger(&buf, true).Debug("verbose")
	assert.Contains(t, buf.String(), "verbose")
}
