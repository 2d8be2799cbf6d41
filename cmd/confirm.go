package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccj16/regdesk/internal/mode/confirm"
	"github.com/ccj16/regdesk/internal/workflow"
)

func newConfirmCmd(o *options) *cobra.Command {
	var email, token string
	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Confirm a contact leader's email address",
		Long: `Redeem the token from a confirmation email. Both values appear in the
link the backend sends, e.g. /confirm?email=...&token=...`,
		Example: `  regdesk confirm --email sam@example.org --token 8d1f...`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" || token == "" {
				return errors.New("--email and --token are required")
			}
			rt, err := newRuntime(cmd.Context(), o)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.services.Registrations.ConfirmEmail(cmd.Context(), email, token); err != nil {
				return workflow.UserError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), confirm.ConfirmedMessage)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "contact leader email")
	cmd.Flags().StringVar(&token, "token", "", "confirmation token")
	return cmd
}
