// Package login exchanges an identity-provider authorization code for an
// admin session.
package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ccj16/regdesk/internal/mode"
	"github.com/ccj16/regdesk/internal/ui/modal"
	"github.com/ccj16/regdesk/internal/ui/progress"
	"github.com/ccj16/regdesk/internal/ui/styles"
	"github.com/ccj16/regdesk/internal/ui/toaster"
	"github.com/ccj16/regdesk/internal/workflow"
)

// Dialog text for a failed login.
const (
	FailedTitle    = "Failed to login"
	RefusedMessage = "Server refused your account, please try again."
	BrokenMessage  = "Server messed up, please complain loudly."
)

const dialogID = "login-failed"

// Model is the login screen.
type Model struct {
	ctx      context.Context
	services mode.Services

	input    textinput.Model
	sub      workflow.Submission
	progress progress.Model
	dialog   *modal.Model

	width  int
	height int
}

// New creates the login screen with the code field focused.
func New(ctx context.Context, services mode.Services) Model {
	in := textinput.New()
	in.Placeholder = "paste the authorization code"
	in.Prompt = "Code: "
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '•'
	in.Width = 48
	in.Focus()
	return Model{ctx: ctx, services: services, input: in}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Dialog returns the open dialog, if any.
func (m Model) Dialog() *modal.Model { return m.dialog }

// Submission returns the exchange state.
func (m Model) Submission() workflow.Submission { return m.sub }

// Capturing is always true: the code field takes printable keys.
func (m Model) Capturing() bool { return true }

// Blocking reports whether the exchange is in flight or its result is shown.
func (m Model) Blocking() bool { return m.sub.Busy() || m.dialog != nil }

// SetSize implements mode.Controller.
func (m Model) SetSize(width, height int) mode.Controller {
	m.width, m.height = width, height
	m.input.Width = min(max(width-12, 10), 64)
	if m.dialog != nil {
		m.dialog.SetSize(width, height)
	}
	return m
}

// Update implements mode.Controller.
func (m Model) Update(msg tea.Msg) (mode.Controller, tea.Cmd) {
	if done, ok := msg.(workflow.DoneMsg); ok {
		return m.finish(done)
	}

	if m.sub.Busy() {
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	if m.dialog != nil {
		switch msg := msg.(type) {
		case modal.ConfirmedMsg, modal.CancelledMsg:
			m.dialog = nil
			m.sub = m.sub.Reset()
			m.input.SetValue("")
		case tea.KeyMsg, tea.MouseMsg:
			d, cmd := m.dialog.Update(msg)
			m.dialog = &d
			return m, cmd
		}
		return m, nil
	}

	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEnter {
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (mode.Controller, tea.Cmd) {
	code := strings.TrimSpace(m.input.Value())
	if code == "" {
		return m, nil
	}
	sub, err := m.sub.Begin(workflow.OpLogin)
	if err != nil {
		return m, nil
	}
	m.sub = sub
	m.progress = progress.New("Logging in...")
	return m, tea.Batch(m.progress.Init(), workflow.Login(m.ctx, m.services.Session, code))
}

func (m Model) finish(done workflow.DoneMsg) (mode.Controller, tea.Cmd) {
	m.sub = m.sub.Finish(done)

	switch {
	case m.sub.State() == workflow.Failed:
		m.showDialog(BrokenMessage)
	case m.sub.State() == workflow.Succeeded && !done.LoggedIn:
		m.showDialog(RefusedMessage)
	case m.sub.State() == workflow.Succeeded:
		return m, tea.Batch(
			mode.Toast("Logged in", toaster.StyleSuccess),
			mode.Navigate(mode.Route{Kind: mode.RouteAdmin}),
		)
	}
	return m, nil
}

func (m *Model) showDialog(message string) {
	d := modal.Alert(dialogID, FailedTitle, message)
	d.SetSize(m.width, m.height)
	m.dialog = &d
}

// View implements mode.Controller.
func (m Model) View() string {
	view := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Admin login"),
		"",
		styles.HintStyle.Render("Sign in with the event's Google account and paste the authorization code here."),
		"",
		m.input.View(),
		"",
		styles.HintStyle.Render("enter to log in · esc back"),
	)
	view = lipgloss.NewStyle().Padding(1, 2).Render(view)

	switch {
	case m.sub.Busy():
		return m.progress.Overlay(view, m.width, m.height)
	case m.dialog != nil:
		return m.dialog.Overlay(view)
	}
	return view
}
