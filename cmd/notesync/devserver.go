package main

import (
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aretw0/notesync/internal/devserver"
)

var devAddr string

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run an in-memory notes service for local development",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		return devserver.New(devserver.WithLogger(slog.Default())).ListenAndServe(ctx, devAddr)
	},
}

func init() {
	rootCmd.AddCommand(devserverCmd)
	devserverCmd.Flags().StringVar(&devAddr, "addr", "127.0.0.1:3000", "Listen address")
}
