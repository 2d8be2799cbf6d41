package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaults_Valid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, Validate(cfg))
	require.Equal(t, 5, cfg.API.XSRFRetryBudget)
	require.Zero(t, cfg.API.ReadCacheTTL)
	require.True(t, cfg.Receipts.Watch)
	require.False(t, cfg.Tracing.Enabled)
}

func TestValidateAPI(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*APIConfig)
		wantErr string
	}{
		{"missing base url", func(a *APIConfig) { a.BaseURL = "" }, "api.base_url is required"},
		{"bad scheme", func(a *APIConfig) { a.BaseURL = "ftp://example.org" }, "api.base_url must be an http(s) URL"},
		{"no host", func(a *APIConfig) { a.BaseURL = "https://" }, "api.base_url must be an http(s) URL"},
		{"negative timeout", func(a *APIConfig) { a.Timeout = -time.Second }, "api.timeout"},
		{"negative budget", func(a *APIConfig) { a.XSRFRetryBudget = -1 }, "api.xsrf_retry_budget"},
		{"negative ttl", func(a *APIConfig) { a.ReadCacheTTL = -time.Minute }, "api.read_cache_ttl"},
		{"zero budget is allowed", func(a *APIConfig) { a.XSRFRetryBudget = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := Defaults().API
			tt.mutate(&api)
			err := ValidateAPI(api)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateUI(t *testing.T) {
	ui := Defaults().UI
	ui.Timezone = "Mars/Olympus_Mons"
	require.ErrorContains(t, ValidateUI(ui), "ui.timezone")

	ui = Defaults().UI
	ui.MarkdownStyle = "sepia"
	require.ErrorContains(t, ValidateUI(ui), "ui.markdown_style")

	ui = Defaults().UI
	ui.PublicURL = "not a url"
	require.ErrorContains(t, ValidateUI(ui), "ui.public_url")

	ui = Defaults().UI
	ui.PublicURL = "https://register.example.org"
	require.NoError(t, ValidateUI(ui))
}

func TestValidateTracing(t *testing.T) {
	tracing := Defaults().Tracing
	tracing.SampleRate = 1.5
	require.ErrorContains(t, ValidateTracing(tracing), "tracing.sample_rate")

	tracing = Defaults().Tracing
	tracing.Exporter = "jaeger"
	require.ErrorContains(t, ValidateTracing(tracing), "tracing.exporter")

	tracing = Defaults().Tracing
	tracing.Enabled = true
	tracing.Exporter = "otlp"
	tracing.OTLPEndpoint = ""
	require.ErrorContains(t, ValidateTracing(tracing), "tracing.otlp_endpoint")

	tracing.Enabled = false
	require.NoError(t, ValidateTracing(tracing))
}

func TestUIConfig_Location(t *testing.T) {
	require.Equal(t, time.UTC, UIConfig{}.Location())
	require.Equal(t, time.UTC, UIConfig{Timezone: "Nowhere/Special"}.Location())
	require.Equal(t, "America/Vancouver", Defaults().UI.Location().String())
}

func TestConfig_ShareBaseURL(t *testing.T) {
	cfg := Defaults()
	require.Equal(t, cfg.API.BaseURL, cfg.ShareBaseURL())

	cfg.UI.PublicURL = "https://register.example.org"
	require.Equal(t, "https://register.example.org", cfg.ShareBaseURL())
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	require.True(t, strings.HasSuffix(DefaultReceiptsPath(), filepath.Join(".config", "regdesk", "receipts.db")))
	require.True(t, strings.HasSuffix(DefaultTracesFilePath(), filepath.Join(".config", "regdesk", "traces", "traces.jsonl")))
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	var parsed struct {
		API struct {
			BaseURL         string `yaml:"base_url"`
			XSRFRetryBudget int    `yaml:"xsrf_retry_budget"`
		} `yaml:"api"`
		UI struct {
			Timezone      string `yaml:"timezone"`
			MarkdownStyle string `yaml:"markdown_style"`
		} `yaml:"ui"`
		Tracing struct {
			Exporter   string  `yaml:"exporter"`
			SampleRate float64 `yaml:"sample_rate"`
		} `yaml:"tracing"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(DefaultConfigTemplate()), &parsed))

	defaults := Defaults()
	require.Equal(t, defaults.API.BaseURL, parsed.API.BaseURL)
	require.Equal(t, defaults.API.XSRFRetryBudget, parsed.API.XSRFRetryBudget)
	require.Equal(t, defaults.UI.Timezone, parsed.UI.Timezone)
	require.Equal(t, defaults.UI.MarkdownStyle, parsed.UI.MarkdownStyle)
	require.Equal(t, defaults.Tracing.Exporter, parsed.Tracing.Exporter)
	require.InDelta(t, defaults.Tracing.SampleRate, parsed.Tracing.SampleRate, 0.0001)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("REGDESK_TEST_ONLY_KEY=from-file\n"), 0o600))
	t.Setenv("REGDESK_TEST_ONLY_KEY", "")
	require.NoError(t, os.Unsetenv("REGDESK_TEST_ONLY_KEY"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), envPath))
	require.Equal(t, "from-file", os.Getenv("REGDESK_TEST_ONLY_KEY"))
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("REGDESK_TEST_ONLY_KEY=from-file\n"), 0o600))
	t.Setenv("REGDESK_TEST_ONLY_KEY", "from-env")

	require.NoError(t, LoadDotEnv(envPath))
	require.Equal(t, "from-env", os.Getenv("REGDESK_TEST_ONLY_KEY"))
}
