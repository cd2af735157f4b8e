package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/notesync"
	"github.com/aretw0/notesync/internal/platform"
	"github.com/aretw0/notesync/pkg/core"
)

var (
	verbose  bool
	backend  string
	stateDir string
	memory   bool
)

// errFailed signals that the failure was already reported to the user.
var errFailed = errors.New("operation failed")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notesync",
	Short: "A command line client for a remote notes service",
	Long: `notesync logs into a notes service, keeps the session in a local
cookie file and mirrors your notes so you can list, create and delete them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := platform.LoadConfig()
		if err != nil {
			return err
		}

		logger := cfg.NewLogger(cmd.ErrOrStderr(), verbose)
		slog.SetDefault(logger)

		if backend == "" {
			backend = cfg.BackendURL
		}
		if stateDir == "" {
			stateDir = cfg.StateDir
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Notes service URL (env NOTES_BACKEND_URL)")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "Session directory (env NOTES_STATE_DIR)")
	rootCmd.PersistentFlags().BoolVar(&memory, "memory", false, "Keep the session in memory only")
}

// newClient builds a client from the global flags.
func newClient() (*notesync.Client, error) {
	adapter := "fs"
	if memory {
		adapter = "memory"
	}
	return notesync.New(
		notesync.WithBaseURL(backend),
		notesync.WithStateDir(stateDir),
		notesync.WithAdapter(adapter),
		notesync.WithLogger(slog.Default()),
	)
}

// report prints the outcome of an operation. The error list goes to stderr
// one entry per line; transport failures print a single diagnostic line.
func report(cmd *cobra.Command, res core.Result) error {
	if res.OK() {
		if res.Message != "" {
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
		}
		return nil
	}

	stderr := cmd.ErrOrStderr()
	switch res.Outcome {
	case core.OutcomeAuthMissing:
		if len(res.Messages) == 0 {
			fmt.Fprintln(stderr, "not logged in, run `notesync login` first")
		}
	case core.OutcomeTransport:
		fmt.Fprintf(stderr, "diagnostic: %v\n", res.Err())
	case core.OutcomeRejected:
		if len(res.Messages) == 0 {
			fmt.Fprintf(stderr, "request rejected with status %d\n", res.Status)
		}
	}
	for _, msg := range res.Messages {
		fmt.Fprintln(stderr, msg)
	}
	return errFailed
}
