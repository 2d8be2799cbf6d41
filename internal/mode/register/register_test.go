package register

import (
	"context"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/ccj16/regdesk/internal/mode"
	"github.com/ccj16/regdesk/internal/testutil"
	"github.com/ccj16/regdesk/internal/ui/form"
	"github.com/ccj16/regdesk/internal/ui/modal"
	"github.com/ccj16/regdesk/internal/workflow"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
	spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	c, cmd := m.Update(msg)
	next, ok := c.(Model)
	require.True(t, ok)
	return next, cmd
}

// fill types a complete registration and leaves focus on the agree checkbox.
func fill(t *testing.T, m Model) Model {
	t.Helper()
	values := []string{
		"Fraser Valley", "1st Burnaby", "Cubs", "Sam", "Lee",
		"sam@example.org", "604-555-0100", "1 Main St", "", "Burnaby", "", "V5H 1A1",
		"12", "3",
	}
	for _, v := range values {
		if v != "" {
			m, _ = update(t, m, keyRunes(v))
		}
		m, _ = update(t, m, tabKey)
	}
	require.Equal(t, FieldAgree, m.form.FocusedKey())
	return m
}

func agree(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := update(t, m, spaceKey)
	require.NotNil(t, cmd)
	toggled, ok := cmd().(form.ToggledMsg)
	require.True(t, ok)
	m, _ = update(t, m, toggled)
	return m
}

func newModel(t *testing.T, opts ...testutil.Option) (Model, *testutil.Backend, mode.Services) {
	t.Helper()
	b := testutil.NewBackend(t, opts...)
	svc := testutil.Services(t, b)
	m := New(context.Background(), svc).SetSize(100, 40).(Model)
	return m, b, svc
}

func TestRegister_SubmitGatedByAgreement(t *testing.T) {
	m, _, _ := newModel(t)
	require.False(t, m.form.SubmitEnabled())

	m = fill(t, m)
	require.Equal(t, "Fraser Valley", m.Draft().Council)
	require.Equal(t, 12, m.Draft().EstimatedYouth)
	require.Equal(t, "BC", m.Draft().ContactLeaderAddress.Province)
	require.False(t, m.form.SubmitEnabled(), "agreement is still missing")

	m = agree(t, m)
	require.True(t, m.Draft().AgreedToEmailTerms())
	require.Equal(t, testutil.Now, *m.Draft().EmailApprovalGivenAt)
	require.True(t, m.form.SubmitEnabled())

	m = agree(t, m)
	require.False(t, m.Draft().AgreedToEmailTerms())
	require.False(t, m.form.SubmitEnabled())
}

func TestRegister_SubmitIgnoredWhenIncomplete(t *testing.T) {
	m, b, _ := newModel(t)
	m, cmd := update(t, m, form.SubmitMsg{FormID: formID})
	require.Nil(t, cmd)
	require.Equal(t, workflow.Idle, m.Submission().State())
	require.Empty(t, b.Requests())
}

func TestRegister_SuccessNavigatesToDetail(t *testing.T) {
	m, b, svc := newModel(t)
	m = agree(t, fill(t, m))

	m, cmd := update(t, m, form.SubmitMsg{FormID: formID})
	require.True(t, m.Submission().Busy())
	require.Contains(t, m.View(), SavingMessage)

	msgs := testutil.Drain(cmd)
	done, ok := testutil.Find[workflow.DoneMsg](msgs)
	require.True(t, ok)
	require.NoError(t, done.Err)

	// The progress box ignores keys, esc included.
	m, _ = update(t, m, escKey)
	m, _ = update(t, m, keyRunes("x"))
	require.True(t, m.Submission().Busy())

	m, cmd = update(t, m, done)
	require.Equal(t, workflow.Succeeded, m.Submission().State())
	require.Equal(t, "key-1", m.Submission().Key())

	msgs = testutil.Drain(cmd)
	nav, ok := testutil.Find[mode.NavigateMsg](msgs)
	require.True(t, ok)
	require.Equal(t, mode.Registration("key-1"), nav.Route)

	stored, ok := b.Registration("key-1")
	require.True(t, ok)
	require.Equal(t, "1st Burnaby", stored.GroupName)
	require.Equal(t, "Burnaby", stored.ContactLeaderAddress.City)

	r, err := svc.Receipts.Get(context.Background(), "key-1")
	require.NoError(t, err)
	require.Equal(t, " - 1st Burnaby of Fraser Valley (Cubs)", r.DisplayName)
	require.Equal(t, "sam@example.org", r.Email)
}

func TestRegister_FailureShowsDialogAndAllowsRetry(t *testing.T) {
	m, b, _ := newModel(t, testutil.WithFailure("POST /api/preregistration",
		testutil.Failure{Status: 409, Body: "Group already registered"}))
	m = agree(t, fill(t, m))

	m, cmd := update(t, m, form.SubmitMsg{FormID: formID})
	done, ok := testutil.Find[workflow.DoneMsg](testutil.Drain(cmd))
	require.True(t, ok)

	m, _ = update(t, m, done)
	require.Equal(t, workflow.Failed, m.Submission().State())
	require.NotNil(t, m.Dialog())
	require.True(t, m.Blocking())
	require.Equal(t, ErrorTitle, m.Dialog().Title())
	require.Equal(t, "Group already registered", m.Dialog().Message())
	require.Contains(t, m.View(), "Group already registered")

	m, cmd = update(t, m, enterKey)
	confirmed, ok := cmd().(modal.ConfirmedMsg)
	require.True(t, ok)
	m, _ = update(t, m, confirmed)
	require.Nil(t, m.Dialog())
	require.Equal(t, workflow.Idle, m.Submission().State())
	require.Equal(t, "1st Burnaby", m.Draft().GroupName, "form keeps its values")

	m, cmd = update(t, m, form.SubmitMsg{FormID: formID})
	require.True(t, m.Submission().Busy())
	_ = testutil.Drain(cmd)
	require.Len(t, b.Requests(), 2)
}

func TestRegister_CapturesInput(t *testing.T) {
	m, _, _ := newModel(t)
	require.True(t, m.Capturing())
	require.False(t, m.Blocking())
}
