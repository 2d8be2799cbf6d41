package document

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/ccj16/regdesk/internal/invoice"
	"github.com/ccj16/regdesk/internal/mode"
	"github.com/ccj16/regdesk/internal/summary"
	"github.com/ccj16/regdesk/internal/testutil"
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	c, cmd := m.Update(msg)
	next, ok := c.(Model)
	require.True(t, ok)
	return next, cmd
}

func TestInvoice_Renders(t *testing.T) {
	inv := invoice.Invoice{
		ID: 42,
		To: "1st Burnaby",
		LineItems: []invoice.LineItem{
			{Description: "Youth", UnitPrice: 1500, Count: 12},
			{Description: "Leaders", UnitPrice: 1000, Count: 3},
		},
		Created: time.Date(2026, 10, 1, 17, 0, 0, 0, time.UTC),
	}
	b := testutil.NewBackend(t, testutil.WithInvoice("k1", inv))
	svc := testutil.Services(t, b)

	m := Invoice(context.Background(), svc, "k1").SetSize(100, 30).(Model)
	require.Contains(t, m.View(), "Loading Invoice")

	m, _ = update(t, m, m.Init()())
	require.NoError(t, m.Err())
	require.Contains(t, m.Source(), "# Invoice 42")
	require.Contains(t, m.Source(), "210.00")
	require.Contains(t, m.View(), "210.00")
}

func TestInvoice_NotFound(t *testing.T) {
	b := testutil.NewBackend(t)
	m := Invoice(context.Background(), testutil.Services(t, b), "nope").SetSize(100, 30).(Model)

	m, _ = update(t, m, m.Init()())
	require.Error(t, m.Err())
	require.Contains(t, m.View(), "Could not load Invoice")
}

func TestSummary_RefreshReloads(t *testing.T) {
	b := testutil.NewBackend(t, testutil.WithPack(summary.PackSummary{YouthCount: 120, LeaderCount: 30}))
	svc := testutil.Services(t, b)

	m := Summary(context.Background(), svc).SetSize(80, 20).(Model)
	m, _ = update(t, m, m.Init()())
	require.Contains(t, m.View(), "150")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	require.Contains(t, m.Source(), "| Youth | 120 |")

	count := 0
	for _, r := range b.Requests() {
		if r == "GET /api/summary/pack" {
			count++
		}
	}
	require.Equal(t, 2, count)
}

func TestDocument_IgnoresStaleLoads(t *testing.T) {
	load := func(context.Context, bool) (string, error) { return "# A", nil }
	m := New(context.Background(), "a", "A", "notty", load)

	m, _ = update(t, m, loadedMsg{id: "b", source: "# B"})
	require.Empty(t, m.Source())

	m, _ = update(t, m, loadedMsg{id: "a", err: errors.New("boom")})
	require.EqualError(t, m.Err(), "boom")
	require.False(t, m.Capturing())
	var _ mode.Controller = m
}
