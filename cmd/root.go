package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ccj16/regdesk/internal/app"
	"github.com/ccj16/regdesk/internal/config"
	"github.com/ccj16/regdesk/internal/log"
)

func init() {
	// Query the terminal background before any program starts so the OSC 11
	// reply cannot land in a text input.
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const localConfigPath = ".regdesk/config.yaml"

var version = "dev"

// options holds the state shared by every command of one invocation.
type options struct {
	v          *viper.Viper
	cfgFile    string
	debug      bool
	cfg        config.Config
	configPath string
	logCleanup func()
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	o := &options{v: viper.New()}

	root := &cobra.Command{
		Use:   "regdesk",
		Short: "CCJ16 pre-registration desk",
		Long: `A terminal client for CCJ16 pre-registration: register a group, review
and promote registrations, view invoices and the pack summary.

Started without a subcommand it opens the interactive desk.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.load(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if o.logCleanup != nil {
				o.logCleanup()
			}
		},
		RunE: o.runApp,
	}

	root.PersistentFlags().StringVarP(&o.cfgFile, "config", "c", "",
		"config file (default: .regdesk/config.yaml, then ~/.config/regdesk/config.yaml)")
	root.PersistentFlags().BoolVarP(&o.debug, "debug", "d", false,
		"write a debug log and enable the log panel (ctrl+x)")
	root.PersistentFlags().String("base-url", "", "backend base URL")
	_ = o.v.BindPFlag("api.base_url", root.PersistentFlags().Lookup("base-url"))

	root.Flags().StringP("route", "r", "", `screen to open, e.g. "/admin/" or "/registration/<key>"`)

	root.AddCommand(
		newRegisterCmd(o),
		newShowCmd(o),
		newPromoteCmd(o),
		newConfirmCmd(o),
		newInvoiceCmd(o),
		newSummaryCmd(o),
		newRecordsCmd(o),
		newShareCmd(o),
		newReceiptsCmd(o),
		newConfigCmd(o),
	)
	return root
}

// load reads .env files, the config file and REGDESK_* overrides.
func (o *options) load(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(".env", filepath.Join(config.Dir(), ".env")); err != nil {
		return err
	}

	v := o.v
	defaults := config.Defaults()
	v.SetDefault("api.base_url", defaults.API.BaseURL)
	v.SetDefault("api.timeout", defaults.API.Timeout)
	v.SetDefault("api.xsrf_retry_budget", defaults.API.XSRFRetryBudget)
	v.SetDefault("api.read_cache_ttl", defaults.API.ReadCacheTTL)
	v.SetDefault("ui.timezone", defaults.UI.Timezone)
	v.SetDefault("ui.time_format", defaults.UI.TimeFormat)
	v.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	v.SetDefault("ui.public_url", defaults.UI.PublicURL)
	v.SetDefault("receipts.path", defaults.Receipts.Path)
	v.SetDefault("receipts.watch", defaults.Receipts.Watch)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.path", defaults.Log.Path)
	v.SetDefault("debug", false)

	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Lookup order: --config, .regdesk/config.yaml, ~/.config/regdesk/config.yaml.
	switch {
	case o.cfgFile != "":
		v.SetConfigFile(o.cfgFile)
	case fileExists(localConfigPath):
		v.SetConfigFile(localConfigPath)
	default:
		v.AddConfigPath(config.Dir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) || (o.cfgFile != "" && errors.Is(err, os.ErrNotExist)):
			o.writeDefault(cmd)
		default:
			return fmt.Errorf("reading config: %w", err)
		}
	}

	if err := o.unmarshal(); err != nil {
		return err
	}

	if o.debug || o.v.GetBool("debug") {
		o.debug = true
		cleanup, err := log.Init(o.cfg.Log.Path)
		if err != nil {
			return err
		}
		o.logCleanup = cleanup
		log.SetMinLevel(log.ParseLevel(o.cfg.Log.Level))
	}

	o.configPath = v.ConfigFileUsed()
	if o.configPath == "" {
		o.configPath = o.defaultConfigPath()
	}
	log.Info(log.CatConfig, "config loaded", "path", o.configPath, "base_url", o.cfg.API.BaseURL)
	return nil
}

func (o *options) writeDefault(cmd *cobra.Command) {
	path := o.defaultConfigPath()
	if err := config.WriteDefaultConfig(path); err != nil {
		// Defaults still apply without a file.
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Created default config at %s\n", path)
	o.v.SetConfigFile(path)
	_ = o.v.ReadInConfig()
}

func (o *options) defaultConfigPath() string {
	if o.cfgFile != "" {
		return o.cfgFile
	}
	if dir := config.Dir(); dir != "" {
		return filepath.Join(dir, "config.yaml")
	}
	return localConfigPath
}

func (o *options) unmarshal() error {
	var cfg config.Config
	if err := o.v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Receipts.Path == "" {
		cfg.Receipts.Path = config.DefaultReceiptsPath()
	}
	if cfg.Tracing.FilePath == "" {
		cfg.Tracing.FilePath = config.DefaultTracesFilePath()
	}
	o.cfg = cfg
	return nil
}

func (o *options) runApp(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd.Context(), o)
	if err != nil {
		return err
	}
	defer rt.Close()

	route, _ := cmd.Flags().GetString("route")
	zone.NewGlobal()
	model := app.New(rt.services, app.Options{Route: route, Debug: o.debug})
	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)

	// Pick up edits made while the desk is open, e.g. by "regdesk config set".
	o.v.OnConfigChange(func(e fsnotify.Event) {
		if err := o.unmarshal(); err != nil {
			log.ErrorErr(log.CatConfig, "config reload failed", err, "path", e.Name)
			return
		}
		p.Send(app.ConfigReloadedMsg{Config: o.cfg})
	})
	o.v.WatchConfig()

	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
