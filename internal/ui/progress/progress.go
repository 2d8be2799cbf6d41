// Package progress is the non-dismissible "please wait" box shown while a
// submission is in flight. It swallows key presses, including esc.
package progress

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ccj16/regdesk/internal/ui/overlay"
	"github.com/ccj16/regdesk/internal/ui/styles"
)

// Model is an active progress indicator.
type Model struct {
	spinner spinner.Model
	message string
}

// New creates a progress box with message.
func New(message string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.SpinnerColor)
	return Model{spinner: s, message: message}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Message returns the text shown beside the spinner.
func (m Model) Message() string {
	return m.message
}

// Update advances the spinner. Every other message is ignored.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(tick)
		return m, cmd
	}
	return m, nil
}

// View renders the box.
func (m Model) View() string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Padding(1, 3).
		Render(m.spinner.View() + " " + m.message)
}

// Overlay centers the box over bg.
func (m Model) Overlay(bg string, width, height int) string {
	return overlay.Place(overlay.Config{Width: width, Height: height, Position: overlay.Center}, m.View(), bg)
}
