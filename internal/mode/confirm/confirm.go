// Package confirm redeems the email confirmation link sent to a contact
// leader.
package confirm

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ccj16/regdesk/internal/mode"
	"github.com/ccj16/regdesk/internal/ui/progress"
	"github.com/ccj16/regdesk/internal/ui/styles"
	"github.com/ccj16/regdesk/internal/workflow"
)

// ConfirmedMessage is shown once the server accepts the token.
const ConfirmedMessage = "Your email address has been confirmed. Thank you!"

// Model is the confirmation screen.
type Model struct {
	ctx      context.Context
	services mode.Services
	email    string
	token    string

	sub     workflow.Submission
	spinner progress.Model
}

// New creates the screen for one email and token pair. A complete pair
// starts out verifying; Init sends the request.
func New(ctx context.Context, services mode.Services, email, token string) Model {
	m := Model{ctx: ctx, services: services, email: email, token: token}
	if email != "" && token != "" {
		m.sub, _ = m.sub.Begin(workflow.OpConfirm)
		m.spinner = progress.New("Verifying " + email + "...")
	}
	return m
}

// Init sends the confirmation, or redirects to the register screen when
// the link is incomplete.
func (m Model) Init() tea.Cmd {
	if !m.sub.Busy() {
		return mode.Navigate(mode.Route{Kind: mode.RouteRegister})
	}
	return tea.Batch(m.spinner.Init(), workflow.Confirm(m.ctx, m.services.Registrations, m.email, m.token))
}

// Submission returns the verification state.
func (m Model) Submission() workflow.Submission { return m.sub }

// Capturing is false.
func (m Model) Capturing() bool { return false }

// Blocking is false; verification can be left while in flight.
func (m Model) Blocking() bool { return false }

// SetSize implements mode.Controller.
func (m Model) SetSize(int, int) mode.Controller { return m }

// Update implements mode.Controller.
func (m Model) Update(msg tea.Msg) (mode.Controller, tea.Cmd) {
	if done, ok := msg.(workflow.DoneMsg); ok {
		m.sub = m.sub.Finish(done)
		return m, nil
	}
	if m.sub.Busy() {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements mode.Controller.
func (m Model) View() string {
	var body string
	switch m.sub.State() {
	case workflow.Submitting:
		body = m.spinner.View()
	case workflow.Succeeded:
		body = styles.SuccessBadgeStyle.Render("✓ " + ConfirmedMessage)
	case workflow.Failed:
		body = styles.ErrorStyle.Render(m.sub.Message())
	default:
		body = styles.HintStyle.Render("Missing email or token.")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, styles.TitleStyle.Render("Email confirmation"), "", body))
}
