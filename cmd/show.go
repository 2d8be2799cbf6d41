package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"github.com/ccj16/regdesk/internal/invoice"
	"github.com/ccj16/regdesk/internal/mode/detail"
	"github.com/ccj16/regdesk/internal/receipts"
	"github.com/ccj16/regdesk/internal/registration"
	"github.com/ccj16/regdesk/internal/workflow"
)

func newShowCmd(o *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <security-key>",
		Short: "Print one registration",
		Example: `  regdesk show 5f0c2b9e
  regdesk show 5f0c2b9e --json | jq .validatedOn`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), o)
			if err != nil {
				return err
			}
			defer rt.Close()

			reg, err := rt.services.Registrations.Get(cmd.Context(), args[0])
			if err != nil {
				return workflow.UserError(err)
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(reg)
			}
			printRegistration(cmd.OutOrStdout(), reg, o)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the backend's JSON")
	return cmd
}

func printRegistration(w io.Writer, r *registration.Registration, o *options) {
	fmt.Fprintf(w, "%s of %s\n", r.GroupName, r.Council)
	rows := [][2]string{
		{"Pack", r.PackName},
		{"Contact leader", r.ContactLeaderName()},
		{"Email", r.ContactLeaderEmail},
		{"Phone", r.ContactLeaderPhoneNumber},
		{"Youth", fmt.Sprint(r.EstimatedYouth)},
		{"Leaders", fmt.Sprint(r.EstimatedLeaders)},
		{"Security key", r.SecurityKey},
	}
	if r.ValidatedOn != nil {
		rows = append(rows, [2]string{"Email validated",
			invoice.FormatTime(*r.ValidatedOn, o.cfg.UI.TimeFormat, o.cfg.UI.Location())})
	}
	if r.IsOnWaitingList {
		rows = append(rows, [2]string{"Status", "waiting list"})
	}
	for _, row := range rows {
		if row[1] != "" {
			fmt.Fprintf(w, "  %-16s %s\n", row[0]+":", row[1])
		}
	}
}

func newPromoteCmd(o *options) *cobra.Command {
	var code string
	cmd := &cobra.Command{
		Use:   "promote <security-key>",
		Short: "Move a registration off the waiting list",
		Long: `Promote a waiting registration. The backend only accepts this from an
administrator session; pass --code to log in first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := newRuntime(ctx, o)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.login(ctx, code); err != nil {
				return err
			}
			reg, err := rt.services.Registrations.Get(ctx, args[0])
			if err != nil {
				return workflow.UserError(err)
			}
			if err := reg.Promote(ctx); err != nil {
				return workflow.UserError(err)
			}
			rt.services.Invoices.Refresh(ctx, reg.SecurityKey)
			if rt.store != nil {
				if rec, err := rt.store.Get(ctx, reg.SecurityKey); err == nil {
					rec.WaitingList = false
					_ = rt.store.Add(ctx, rec)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Promoted %s of %s\n", reg.GroupName, reg.Council)
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "authorization code to log in with")
	return cmd
}

func newShareCmd(o *options) *cobra.Command {
	var (
		png  string
		size int
	)
	cmd := &cobra.Command{
		Use:   "share <security-key>",
		Short: "Print the link and QR code for a registration",
		Example: `  regdesk share 5f0c2b9e
  regdesk share 5f0c2b9e --png badge.png --size 512`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := detail.ShareURL(o.cfg.ShareBaseURL(), args[0])
			out := cmd.OutOrStdout()
			if png != "" {
				if err := qrcode.WriteFile(url, qrcode.Medium, size, png); err != nil {
					return fmt.Errorf("writing QR code: %w", err)
				}
				fmt.Fprintf(out, "%s\nQR code written to %s\n", url, png)
				return nil
			}
			qr, err := detail.QR(url)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, url)
			fmt.Fprint(out, strings.TrimRight(qr, "\n")+"\n")
			return nil
		},
	}
	cmd.Flags().StringVar(&png, "png", "", "write the QR code to a PNG file instead")
	cmd.Flags().IntVar(&size, "size", 256, "PNG size in pixels")
	return cmd
}

// remember records a registration created or changed from this terminal.
func remember(cmd *cobra.Command, rt *runtime, reg *registration.Registration) {
	if rt.store == nil {
		return
	}
	rec, err := receipts.FromRegistration(reg, rt.services.Clock.Now())
	if err != nil {
		return
	}
	if err := rt.store.Add(cmd.Context(), rec); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: could not record receipt:", err)
	}
}
