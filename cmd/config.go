package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccj16/regdesk/internal/config"
)

func newConfigCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", o.configPath)
			for _, key := range config.SettableKeys() {
				fmt.Fprintf(out, "%s = %v\n", key, o.v.Get(key))
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write one setting to the config file",
		Long: "Write one setting, keeping the file's comments. Keys:\n  " +
			strings.Join(config.SettableKeys(), "\n  "),
		Example: `  regdesk config set api.base_url https://register.example.org
  regdesk config set ui.markdown_style light`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SaveValue(o.configPath, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", args[0], o.configPath)
			return nil
		},
	})
	return cmd
}
