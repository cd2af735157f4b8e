package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aretw0/notesync/internal/devserver"
)

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	// flags are package globals; reset the ones that carry state between runs
	backend, stateDir, memory, listJSON = "", "", false, false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLI_Flow(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	srv := httptest.NewServer(devserver.New(devserver.WithBcryptCost(bcrypt.MinCost)).Handler())
	defer srv.Close()

	dir := t.TempDir()
	global := []string{"--backend", srv.URL, "--state-dir", dir}
	with := func(args ...string) []string { return append(args, global...) }

	t.Run("List before login", func(t *testing.T) {
		_, stderr, err := run(t, with("list")...)
		assert.ErrorIs(t, err, errFailed)
		assert.Contains(t, stderr, "not logged in")
	})

	t.Run("Register rejected", func(t *testing.T) {
		_, stderr, err := run(t, with("register", "--email", "bad", "--password", "1", "--confirm", "2")...)
		require.ErrorIs(t, err, errFailed)
		lines := strings.Split(strings.TrimSpace(stderr), "\n")
		assert.Equal(t, []string{
			"email must be a valid email",
			"password must be at least 6 characters",
			"confirm_password must match password",
		}, lines)
	})

	t.Run("Register", func(t *testing.T) {
		stdout, _, err := run(t, with("register", "--email", "a@x.com", "--password", "secret1", "--confirm", "secret1")...)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Registration completed successfully!")
	})

	t.Run("Login", func(t *testing.T) {
		stdout, _, err := run(t, with("login", "--email", "a@x.com", "--password", "secret1")...)
		require.NoError(t, err)
		assert.Contains(t, stdout, "You have successfully logged in")
	})

	t.Run("Create and list", func(t *testing.T) {
		stdout, _, err := run(t, with("create", "--title", "Groceries", "--content", "milk,eggs")...)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Note created: 1")

		stdout, _, err = run(t, with("list")...)
		require.NoError(t, err)
		assert.Equal(t, "1 - Groceries\n", stdout)
	})

	t.Run("Delete twice", func(t *testing.T) {
		stdout, _, err := run(t, with("delete", "1")...)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Note deleted: 1")

		_, stderr, err := run(t, with("delete", "1")...)
		assert.ErrorIs(t, err, errFailed)
		assert.Contains(t, stderr, "status 404")
	})
}

func TestCLI_Version(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "notesync version "))
}

func TestExecute_ExitCodes(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	srv := httptest.NewServer(devserver.New(devserver.WithBcryptCost(bcrypt.MinCost)).Handler())
	defer srv.Close()

	tests := []struct {
		name   string
		args   []string
		code   int
		stderr string
	}{
		{"Success", []string{"version"}, exitOK, ""},
		{"Reported failure", []string{"list", "--backend", srv.URL, "--memory"}, exitFailed, "not logged in"},
		{"Setup error", []string{"no-such-command"}, exitSetup, "Error: unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, stateDir, memory, listJSON = "", "", false, false

			var stdout, stderr bytes.Buffer
			code := execute(tt.args, &stdout, &stderr)

			assert.Equal(t, tt.code, code)
			if tt.stderr == "" {
				assert.Empty(t, stderr.String())
			} else {
				assert.Contains(t, stderr.String(), tt.stderr)
				// already-reported failures are not printed twice
				assert.NotContains(t, stderr.String(), errFailed.Error())
			}
		})
	}
}
