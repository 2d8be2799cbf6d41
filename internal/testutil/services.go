package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/ccj16/regdesk/internal/api"
	"github.com/ccj16/regdesk/internal/auth"
	"github.com/ccj16/regdesk/internal/config"
	"github.com/ccj16/regdesk/internal/invoice"
	"github.com/ccj16/regdesk/internal/mode"
	"github.com/ccj16/regdesk/internal/mode/shared"
	"github.com/ccj16/regdesk/internal/receipts"
	"github.com/ccj16/regdesk/internal/registration"
	"github.com/ccj16/regdesk/internal/summary"
)

// Now is the instant returned by the services' clock.
var Now = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

// Services wires every screen dependency to b, with a receipts store in a
// temporary directory and an in-memory clipboard.
func Services(t *testing.T, b *Backend) mode.Services {
	t.Helper()

	cfg := config.Defaults()
	cfg.API.BaseURL = b.URL()
	cfg.UI.Timezone = "UTC"
	cfg.UI.MarkdownStyle = "notty"
	cfg.Receipts.Path = filepath.Join(t.TempDir(), "receipts.db")

	client, err := api.New(api.Config{BaseURL: cfg.API.BaseURL, XSRFRetryBudget: cfg.API.XSRFRetryBudget})
	require.NoError(t, err)

	store, err := receipts.Open(context.Background(), cfg.Receipts.Path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	session := auth.NewSession(client)
	t.Cleanup(session.Close)

	clock := shared.FixedClock(Now)
	return mode.Services{
		Registrations: registration.NewService(client, clock),
		Invoices:      invoice.NewService(client, 0),
		Summary:       summary.NewService(client, 0),
		Session:       session,
		Receipts:      store,
		Config:        &cfg,
		ConfigPath:    filepath.Join(t.TempDir(), "config.yaml"),
		Clock:         clock,
		Clipboard:     &shared.MemoryClipboard{},
	}
}

// Drain runs cmd, expanding batches, and returns the resulting messages.
// Messages are not fed back into any model.
func Drain(cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case nil:
		default:
			out = append(out, msg)
		}
	}
	return out
}

// Find returns the first message of type T.
func Find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
