package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	regEmail    string
	regPassword string
	regConfirm  string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long:  `Register creates an account on the notes service. It does not log in; run 'notesync login' afterwards.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		res := client.Session.Register(cmd.Context(), regEmail, regPassword, regConfirm, func() {
			fmt.Fprintln(cmd.OutOrStdout(), "Next: notesync login --email", regEmail)
		})
		return report(cmd, res)
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVar(&regEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&regPassword, "password", "", "Account password")
	registerCmd.Flags().StringVar(&regConfirm, "confirm", "", "Password confirmation")
}
