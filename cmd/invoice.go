package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccj16/regdesk/internal/invoice"
	"github.com/ccj16/regdesk/internal/summary"
	"github.com/ccj16/regdesk/internal/ui/markdown"
	"github.com/ccj16/regdesk/internal/workflow"
)

const documentWidth = 80

func newInvoiceCmd(o *options) *cobra.Command {
	var (
		id  uint64
		raw bool
	)
	cmd := &cobra.Command{
		Use:   "invoice [security-key]",
		Short: "Print the invoice for a registration",
		Example: `  regdesk invoice 5f0c2b9e
  regdesk invoice --id 42 --raw > invoice.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (id == 0) {
				return errors.New("pass either a security key or --id")
			}
			ctx := cmd.Context()
			rt, err := newRuntime(ctx, o)
			if err != nil {
				return err
			}
			defer rt.Close()

			var inv invoice.Invoice
			if id != 0 {
				inv, err = rt.services.Invoices.GetByID(ctx, id)
			} else {
				inv, err = rt.services.Invoices.GetByRegistration(ctx, args[0])
			}
			if err != nil {
				return workflow.UserError(err)
			}
			doc := invoice.Markdown(inv, o.cfg.UI.TimeFormat, o.cfg.UI.Location())
			return printMarkdown(cmd, doc, o.cfg.UI.MarkdownStyle, raw)
		},
	}
	cmd.Flags().Uint64Var(&id, "id", 0, "fetch by invoice id instead of security key")
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without rendering")
	return cmd
}

func newSummaryCmd(o *options) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print registered youth and leaders across all packs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd.Context(), o)
			if err != nil {
				return err
			}
			defer rt.Close()

			pack, err := rt.services.Summary.GetPack(cmd.Context())
			if err != nil {
				return workflow.UserError(err)
			}
			return printMarkdown(cmd, summary.Markdown(pack), o.cfg.UI.MarkdownStyle, raw)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without rendering")
	return cmd
}

func printMarkdown(cmd *cobra.Command, doc, style string, raw bool) error {
	if raw {
		_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
		return err
	}
	r, err := markdown.New(documentWidth, style)
	if err != nil {
		return err
	}
	out, err := r.Render(doc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
