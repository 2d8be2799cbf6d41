package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ccj16/regdesk/internal/auth"
	"github.com/ccj16/regdesk/internal/registration"
	"github.com/ccj16/regdesk/internal/workflow"
)

// errNotLoggedIn is returned when an admin command runs without a session.
var errNotLoggedIn = errors.New("server refused your account, please try again")

// login exchanges code for a session. An empty code relies on an existing
// session, which a fresh process never has unless the backend shares one.
func (rt *runtime) login(ctx context.Context, code string) error {
	if code == "" {
		return auth.RequireLogin(ctx, rt.session)
	}
	ok, err := rt.session.TryToken(ctx, code)
	if err != nil {
		return fmt.Errorf("logging in: %w", workflow.UserError(err))
	}
	if !ok {
		return errNotLoggedIn
	}
	return nil
}

func newRecordsCmd(o *options) *cobra.Command {
	var (
		code    string
		waiting bool
	)
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List every registration (administrators)",
		Example: `  regdesk records --code 4/0AbCdEf
  regdesk records --code 4/0AbCdEf --waiting`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			rt, err := newRuntime(ctx, o)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.login(ctx, code); err != nil {
				return err
			}

			list := rt.services.Registrations.List
			if waiting {
				list = rt.services.Registrations.WaitingList
			}
			regs, err := list(ctx)
			if err != nil {
				return workflow.UserError(err)
			}
			if len(regs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No registrations.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), recordTable(regs))
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "authorization code to log in with")
	cmd.Flags().BoolVar(&waiting, "waiting", false, "only registrations on the waiting list")
	return cmd
}

func recordTable(regs []*registration.Registration) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Key", "Group", "Council", "Contact", "Youth", "Leaders", "Status")
	for _, r := range regs {
		status := "registered"
		if r.IsOnWaitingList {
			status = "waiting"
		}
		t.Row(r.SecurityKey, r.GroupName, r.Council, r.ContactLeaderName(),
			strconv.Itoa(r.EstimatedYouth), strconv.Itoa(r.EstimatedLeaders), status)
	}
	return t.Render()
}
