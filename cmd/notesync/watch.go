package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Load notes and stream session and collection events",
	Long: `Watch loads your notes once and then prints every event until interrupted.
Logging out from another process (removing the cookie file) shows up as LOGOUT.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		client, err := newClient()
		if err != nil {
			return err
		}

		src, err := client.Events(ctx)
		if err != nil {
			return err
		}
		if err := src.Start(ctx); err != nil {
			return err
		}

		if err := report(cmd, client.Notes.Load(ctx)); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Watching... (Ctrl+C to stop)")
		for e := range src.Events() {
			fmt.Fprintln(out, e.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
