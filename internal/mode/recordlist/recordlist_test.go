package recordlist

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/ccj16/regdesk/internal/mode"
	"github.com/ccj16/regdesk/internal/registration"
	"github.com/ccj16/regdesk/internal/testutil"
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	c, cmd := m.Update(msg)
	next, ok := c.(Model)
	require.True(t, ok)
	return next, cmd
}

func seeded(t *testing.T, opts ...testutil.Option) *testutil.Backend {
	t.Helper()
	base := []testutil.Option{
		testutil.WithRegistration(registration.Registration{SecurityKey: "k1", GroupName: "1st Burnaby", Council: "Fraser Valley", EstimatedYouth: 12}),
		testutil.WithRegistration(registration.Registration{SecurityKey: "k2", GroupName: "2nd Surrey", Council: "Pacific Coast", IsOnWaitingList: true}),
		testutil.WithRegistration(registration.Registration{SecurityKey: "k3", GroupName: "5th Richmond", Council: "Pacific Coast", IsOnWaitingList: true}),
	}
	return testutil.NewBackend(t, append(base, opts...)...)
}

func TestRecordList_ListsAll(t *testing.T) {
	b := seeded(t, testutil.WithLoggedIn())
	m := New(context.Background(), testutil.Services(t, b), All).SetSize(120, 30).(Model)

	m, _ = update(t, m, m.Init()())
	require.NoError(t, m.Err())
	require.Len(t, m.Registrations(), 3)

	view := m.View()
	require.Contains(t, view, "Record list")
	require.Contains(t, view, "(3)")
	require.Contains(t, view, "1st Burnaby")
	require.Contains(t, view, "waiting")
}

func TestRecordList_WaitingListFilters(t *testing.T) {
	b := seeded(t, testutil.WithLoggedIn())
	m := New(context.Background(), testutil.Services(t, b), WaitingList).SetSize(120, 30).(Model)

	m, _ = update(t, m, m.Init()())
	require.Len(t, m.Registrations(), 2)
	require.Equal(t, "Waiting list", m.Title())
	require.NotContains(t, m.View(), "1st Burnaby")
}

func TestRecordList_EnterOpensSelected(t *testing.T) {
	b := seeded(t, testutil.WithLoggedIn())
	m := New(context.Background(), testutil.Services(t, b), All).SetSize(120, 30).(Model)
	m, _ = update(t, m, m.Init()())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, "k2", m.Selected().SecurityKey)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, mode.NavigateMsg{Route: mode.Registration("k2")}, cmd())
}

func TestRecordList_Anonymous(t *testing.T) {
	b := seeded(t)
	m := New(context.Background(), testutil.Services(t, b), All).SetSize(120, 30).(Model)

	m, _ = update(t, m, m.Init()())
	require.Error(t, m.Err())
	require.Contains(t, m.View(), "Could not load registrations")
	require.Nil(t, m.Selected())
}

func TestRecordList_Empty(t *testing.T) {
	b := testutil.NewBackend(t, testutil.WithLoggedIn())
	m := New(context.Background(), testutil.Services(t, b), All)

	m, _ = update(t, m, m.Init()())
	require.Contains(t, m.View(), "No registrations.")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
}
