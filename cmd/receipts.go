package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ccj16/regdesk/internal/mode/shared"
	"github.com/ccj16/regdesk/internal/receipts"
)

var errNoReceipts = errors.New("receipts store is unavailable; check receipts.path")

func newReceiptsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipts",
		Short: "List registrations created from this terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd.Context(), o)
			if err != nil {
				return err
			}
			defer rt.Close()
			if rt.store == nil {
				return errNoReceipts
			}

			list, err := rt.store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing registered from this terminal yet.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), receiptTable(list, rt.services.Clock))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "forget <security-key>",
		Short: "Remove a receipt; the registration itself is untouched",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), o)
			if err != nil {
				return err
			}
			defer rt.Close()
			if rt.store == nil {
				return errNoReceipts
			}
			if err := rt.store.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Forgot %s\n", args[0])
			return nil
		},
	})
	return cmd
}

func receiptTable(list []receipts.Receipt, clock shared.Clock) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Key", "Group", "Email", "Created", "Status")
	for _, r := range list {
		status := ""
		if r.WaitingList {
			status = "waiting"
		}
		t.Row(r.SecurityKey, r.DisplayName, r.Email, shared.Ago(r.CreatedAt, clock), status)
	}
	return t.Render()
}
