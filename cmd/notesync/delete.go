package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid note id %q: %w", args[0], err)
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		if err := report(cmd, client.Notes.Delete(cmd.Context(), id)); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Note deleted: %d\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
