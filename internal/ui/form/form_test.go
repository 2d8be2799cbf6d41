package form

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"
)

func init() {
	zone.NewGlobal()
}

func testFields() []Field {
	return []Field{
		{Key: "council", Label: "Council", Required: true},
		{Key: "youth", Label: "Estimated youth", Kind: KindNumber, Value: "12"},
		{Key: "agree", Label: "I agree to receive emails", Kind: KindCheckbox},
	}
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestForm_TypingAndNavigation(t *testing.T) {
	m := New("reg", "Register", "Submit", testFields())
	require.Equal(t, "council", m.FocusedKey())

	m = typeText(m, "Fraser Valley")
	require.Equal(t, "Fraser Valley", m.Value("council"))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, "youth", m.FocusedKey())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "agree", m.FocusedKey())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, "", m.FocusedKey())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, "council", m.FocusedKey())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, "", m.FocusedKey())
}

func TestForm_NumberFieldKeepsDigits(t *testing.T) {
	m := New("reg", "Register", "Submit", testFields())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})

	m = typeText(m, "3a-")
	require.Equal(t, "123", m.Value("youth"))
}

func TestForm_CheckboxEmitsToggle(t *testing.T) {
	m := New("reg", "Register", "Submit", testFields())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	require.NotNil(t, cmd)
	require.Equal(t, ToggledMsg{FormID: "reg", Key: "agree", Checked: true}, cmd())

	require.False(t, m.Checked("agree"))
	m.SetChecked("agree", true)
	require.True(t, m.Checked("agree"))
	require.Contains(t, ansi.Strip(zone.Scan(m.View())), "[x] I agree to receive emails")
}

func TestForm_SubmitOnlyWhenEnabled(t *testing.T) {
	m := New("reg", "Register", "Submit", testFields())
	for i := 0; i < 3; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	require.Equal(t, "", m.FocusedKey())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)

	m.SetSubmitEnabled(true)
	require.True(t, m.SubmitEnabled())
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.Equal(t, SubmitMsg{FormID: "reg"}, cmd())
}

func TestForm_View(t *testing.T) {
	m := New("reg", "Pre-registration", "Submit", testFields())
	m.SetWidth(60)

	view := ansi.Strip(zone.Scan(m.View()))
	require.Contains(t, view, "Pre-registration")
	require.Contains(t, view, "Council*")
	require.Contains(t, view, "[ ] I agree to receive emails")
	require.Contains(t, view, "Submit")
}

func TestForm_UnknownKey(t *testing.T) {
	m := New("reg", "t", "s", testFields())
	require.Empty(t, m.Value("nope"))
	require.False(t, m.Checked("nope"))
}
