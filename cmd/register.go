package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ccj16/regdesk/internal/mode/detail"
	"github.com/ccj16/regdesk/internal/registration"
	"github.com/ccj16/regdesk/internal/workflow"
)

// groupFile is the YAML layout accepted by "regdesk register --file".
type groupFile struct {
	Council   string `yaml:"council"`
	GroupName string `yaml:"group"`
	PackName  string `yaml:"pack"`
	Contact   struct {
		FirstName string `yaml:"first_name"`
		LastName  string `yaml:"last_name"`
		Email     string `yaml:"email"`
		Phone     string `yaml:"phone"`
		Address   struct {
			Line1      string `yaml:"line1"`
			Line2      string `yaml:"line2"`
			City       string `yaml:"city"`
			Province   string `yaml:"province"`
			PostalCode string `yaml:"postal_code"`
		} `yaml:"address"`
	} `yaml:"contact"`
	Youth       int  `yaml:"youth"`
	Leaders     int  `yaml:"leaders"`
	AgreeToMail bool `yaml:"agree_to_email"`
}

func (g groupFile) apply(r *registration.Registration) {
	r.Council = g.Council
	r.GroupName = g.GroupName
	r.PackName = g.PackName
	r.ContactLeaderFirstName = g.Contact.FirstName
	r.ContactLeaderLastName = g.Contact.LastName
	r.ContactLeaderEmail = g.Contact.Email
	r.ContactLeaderPhoneNumber = g.Contact.Phone
	r.ContactLeaderAddress = registration.Address{
		Address1:   g.Contact.Address.Line1,
		Address2:   g.Contact.Address.Line2,
		City:       g.Contact.Address.City,
		Province:   g.Contact.Address.Province,
		PostalCode: g.Contact.Address.PostalCode,
	}
	r.EstimatedYouth = g.Youth
	r.EstimatedLeaders = g.Leaders
	r.SetAgreedToEmailTerms(g.AgreeToMail)
}

func newRegisterCmd(o *options) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "register --file group.yaml",
		Short: "Pre-register a group from a YAML file",
		Example: `  cat > group.yaml <<YAML
  council: Fraser Valley
  group: 1st Burnaby
  pack: Cubs
  contact:
    first_name: Sam
    last_name: Lee
    email: sam@example.org
    phone: 604-555-0100
  youth: 12
  leaders: 3
  agree_to_email: true
  YAML
  regdesk register --file group.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(file) //nolint:gosec // G304: user-chosen input file
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}
			var g groupFile
			if err := yaml.Unmarshal(data, &g); err != nil {
				return fmt.Errorf("parsing %s: %w", file, err)
			}

			rt, err := newRuntime(cmd.Context(), o)
			if err != nil {
				return err
			}
			defer rt.Close()

			reg := rt.services.Registrations.New()
			g.apply(reg)
			if missing := reg.Missing(); len(missing) > 0 {
				return fmt.Errorf("missing required fields: %v", missing)
			}
			if err := reg.Save(cmd.Context()); err != nil {
				return workflow.UserError(err)
			}
			remember(cmd, rt, reg)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Registered %s of %s\n", reg.GroupName, reg.Council)
			fmt.Fprintf(out, "Security key: %s\n", reg.SecurityKey)
			fmt.Fprintf(out, "Link: %s\n", detail.ShareURL(o.cfg.ShareBaseURL(), reg.SecurityKey))
			if reg.IsOnWaitingList {
				fmt.Fprintln(out, "This group is on the waiting list.")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file describing the group")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
