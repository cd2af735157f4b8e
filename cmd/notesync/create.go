package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	createTitle   string
	createContent string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		res := client.Notes.Create(cmd.Context(), createTitle, createContent)
		if err := report(cmd, res); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Note created: %d\n", res.Change.Note.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVarP(&createTitle, "title", "t", "", "Note title")
	createCmd.Flags().StringVarP(&createContent, "content", "c", "", "Note content")
}
