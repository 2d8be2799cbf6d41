package login

import (
	"context"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/ccj16/regdesk/internal/mode"
	"github.com/ccj16/regdesk/internal/testutil"
	"github.com/ccj16/regdesk/internal/workflow"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	c, cmd := m.Update(msg)
	next, ok := c.(Model)
	require.True(t, ok)
	return next, cmd
}

func submit(t *testing.T, m Model, code string) (Model, tea.Cmd) {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(code)})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.Submission().Busy())

	done, ok := testutil.Find[workflow.DoneMsg](testutil.Drain(cmd))
	require.True(t, ok)
	return update(t, m, done)
}

func TestLogin_Success(t *testing.T) {
	b := testutil.NewBackend(t, testutil.WithLoginCode("abc"))
	m := New(context.Background(), testutil.Services(t, b)).SetSize(100, 30).(Model)

	m, cmd := submit(t, m, "abc")
	require.Nil(t, m.Dialog())
	require.True(t, b.LoggedIn())

	nav, ok := testutil.Find[mode.NavigateMsg](testutil.Drain(cmd))
	require.True(t, ok)
	require.Equal(t, "/admin/", nav.Route.Path())
}

func TestLogin_Refused(t *testing.T) {
	b := testutil.NewBackend(t, testutil.WithLoginCode("abc"))
	m := New(context.Background(), testutil.Services(t, b)).SetSize(100, 30).(Model)

	m, cmd := submit(t, m, "wrong")
	require.Nil(t, cmd)
	require.NotNil(t, m.Dialog())
	require.Equal(t, FailedTitle, m.Dialog().Title())
	require.Equal(t, RefusedMessage, m.Dialog().Message())

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = update(t, m, cmd())
	require.Nil(t, m.Dialog())
	require.Equal(t, workflow.Idle, m.Submission().State())
}

func TestLogin_ServerError(t *testing.T) {
	b := testutil.NewBackend(t, testutil.WithFailure("POST /api/authentication/googletoken",
		testutil.Failure{Status: 500, Body: "boom"}))
	m := New(context.Background(), testutil.Services(t, b)).SetSize(100, 30).(Model)

	m, _ = submit(t, m, "abc")
	require.Equal(t, BrokenMessage, m.Dialog().Message())
	require.Contains(t, m.View(), BrokenMessage)
}

func TestLogin_EmptyCodeIgnored(t *testing.T) {
	b := testutil.NewBackend(t)
	m := New(context.Background(), testutil.Services(t, b))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Equal(t, workflow.Idle, m.Submission().State())
	require.Empty(t, b.Requests())
	require.True(t, m.Capturing())
}
