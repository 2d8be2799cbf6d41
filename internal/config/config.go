// Package config provides configuration types, defaults, validation and
// persistence for regdesk.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/ccj16/regdesk/internal/log"
)

// Config holds all configuration options for regdesk.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	UI       UIConfig       `mapstructure:"ui"`
	Receipts ReceiptsConfig `mapstructure:"receipts"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Log      LogConfig      `mapstructure:"log"`
}

// APIConfig controls the backend connection.
type APIConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	XSRFRetryBudget int           `mapstructure:"xsrf_retry_budget"`
	ReadCacheTTL    time.Duration `mapstructure:"read_cache_ttl"` // 0 disables invoice/summary caching
}

// UIConfig holds user interface options.
type UIConfig struct {
	Timezone      string `mapstructure:"timezone"`       // IANA name used for invoice dates
	TimeFormat    string `mapstructure:"time_format"`    // Go layout
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default), "light", "notty" or "auto"
	PublicURL     string `mapstructure:"public_url"`     // base for share links; defaults to api.base_url
}

// ReceiptsConfig controls the local record of registrations created here.
type ReceiptsConfig struct {
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"`
}

// TracingConfig configures OpenTelemetry export.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"` // "none", "file", "stdout" or "otlp"
	FilePath     string  `mapstructure:"file_path"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

// LogConfig controls the debug log.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// Location resolves the configured timezone, falling back to UTC.
func (u UIConfig) Location() *time.Location {
	if u.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		log.Warn(log.CatConfig, "unknown timezone, using UTC", "timezone", u.Timezone)
		return time.UTC
	}
	return loc
}

// ShareBaseURL is where share links point.
func (c Config) ShareBaseURL() string {
	if c.UI.PublicURL != "" {
		return c.UI.PublicURL
	}
	return c.API.BaseURL
}

// Dir returns ~/.config/regdesk, or "" if the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "regdesk")
}

// DefaultReceiptsPath returns ~/.config/regdesk/receipts.db.
func DefaultReceiptsPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "receipts.db")
}

// DefaultTracesFilePath returns ~/.config/regdesk/traces/traces.jsonl.
func DefaultTracesFilePath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL:         "http://localhost:8080",
			Timeout:         15 * time.Second,
			XSRFRetryBudget: 5,
			ReadCacheTTL:    0,
		},
		UI: UIConfig{
			Timezone:      "America/Vancouver",
			TimeFormat:    "2006-01-02 15:04 MST",
			MarkdownStyle: "dark",
		},
		Receipts: ReceiptsConfig{
			Path:  "", // Derived from config dir at runtime
			Watch: true,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Log: LogConfig{
			Level: "debug",
			Path:  "debug.log",
		},
	}
}

// Validate checks every section.
func Validate(c Config) error {
	if err := ValidateAPI(c.API); err != nil {
		return err
	}
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateAPI checks the backend connection settings.
func ValidateAPI(a APIConfig) error {
	if a.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(a.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", a.BaseURL)
	}
	if a.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative, got %v", a.Timeout)
	}
	if a.XSRFRetryBudget < 0 {
		return fmt.Errorf("api.xsrf_retry_budget must not be negative, got %d", a.XSRFRetryBudget)
	}
	if a.ReadCacheTTL < 0 {
		return fmt.Errorf("api.read_cache_ttl must not be negative, got %v", a.ReadCacheTTL)
	}
	return nil
}

// ValidateUI checks display settings.
func ValidateUI(u UIConfig) error {
	if u.Timezone != "" {
		if _, err := time.LoadLocation(u.Timezone); err != nil {
			return fmt.Errorf("ui.timezone %q is not a known timezone", u.Timezone)
		}
	}
	switch u.MarkdownStyle {
	case "", "dark", "light", "notty", "auto":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\", \"light\", \"notty\" or \"auto\", got %q", u.MarkdownStyle)
	}
	if u.PublicURL != "" {
		if pu, err := url.Parse(u.PublicURL); err != nil || pu.Host == "" {
			return fmt.Errorf("ui.public_url must be an absolute URL, got %q", u.PublicURL)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration.
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	switch tracing.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
	}

	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// DefaultConfigTemplate returns the default config as commented YAML.
func DefaultConfigTemplate() string {
	return `# regdesk configuration

# Pre-registration backend
api:
  base_url: "http://localhost:8080"
  timeout: 15s
  xsrf_retry_budget: 5    # transparent retries for stale XSRF tokens, shared by all requests
  read_cache_ttl: 0s      # cache invoices and summaries in memory (0 disables)

# UI settings
ui:
  timezone: "America/Vancouver"   # invoice dates are shown in this zone
  time_format: "2006-01-02 15:04 MST"
  markdown_style: dark            # "dark", "light", "notty" or "auto"
  # public_url: https://register.example.org   # base for share links and QR codes

# Registrations created from this terminal
receipts:
  # path: ~/.config/regdesk/receipts.db
  watch: true             # refresh the receipts view when another regdesk writes

# Debug logging (enabled with --debug or REGDESK_DEBUG=1)
log:
  level: debug
  path: debug.log

# OpenTelemetry tracing of backend requests
tracing:
  enabled: false
  exporter: file          # "none", "file", "stdout" or "otlp"
  # file_path: ~/.config/regdesk/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at configPath with default settings and comments.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "created default config", "path", configPath)
	return nil
}
