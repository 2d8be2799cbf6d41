// Package modal provides the blocking dialogs used for errors, notices and
// confirmations.
package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/ccj16/regdesk/internal/ui/overlay"
	"github.com/ccj16/regdesk/internal/ui/styles"
)

// Kind selects the dialog's buttons.
type Kind int

const (
	KindAlert   Kind = iota // single OK button
	KindConfirm             // confirm and cancel
)

// ButtonVariant styles the confirm button.
type ButtonVariant int

const (
	ButtonPrimary ButtonVariant = iota
	ButtonDanger
)

// Config controls dialog content.
type Config struct {
	ID             string // echoed in result messages so callers can tell dialogs apart
	Kind           Kind
	Title          string
	Message        string
	ConfirmLabel   string // default "OK" for alerts, "Confirm" otherwise
	CancelLabel    string // default "Cancel"
	ConfirmVariant ButtonVariant
	Width          int // content width, default 44
}

// ConfirmedMsg is sent when the confirm (or OK) button is chosen.
type ConfirmedMsg struct{ ID string }

// CancelledMsg is sent when a confirmation is declined with esc or Cancel.
type CancelledMsg struct{ ID string }

// Button identifies the focused button.
type Button int

const (
	ButtonConfirm Button = iota
	ButtonCancel
)

// Model is a dialog.
type Model struct {
	config  Config
	focused Button
	width   int
	height  int
}

const defaultWidth = 44

// New creates a dialog with the confirm button focused.
func New(cfg Config) Model {
	if cfg.ConfirmLabel == "" {
		cfg.ConfirmLabel = "Confirm"
		if cfg.Kind == KindAlert {
			cfg.ConfirmLabel = "OK"
		}
	}
	if cfg.CancelLabel == "" {
		cfg.CancelLabel = "Cancel"
	}
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	return Model{config: cfg}
}

// Alert is a shorthand for an OK-only dialog.
func Alert(id, title, message string) Model {
	return New(Config{ID: id, Kind: KindAlert, Title: title, Message: message})
}

// ID returns the configured dialog id.
func (m Model) ID() string { return m.config.ID }

// Title returns the dialog title.
func (m Model) Title() string { return m.config.Title }

// Message returns the dialog body.
func (m Model) Message() string { return m.config.Message }

// Focused returns the focused button.
func (m Model) Focused() Button { return m.focused }

func (m Model) confirmZone() string { return "modal-confirm-" + m.config.ID }
func (m Model) cancelZone() string  { return "modal-cancel-" + m.config.ID }

// Update handles keys and mouse clicks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "left", "right", "h", "l":
			if m.config.Kind == KindConfirm {
				m.focused = 1 - m.focused
			}
		case "enter", " ":
			if m.focused == ButtonCancel {
				return m, m.cancel()
			}
			return m, m.confirm()
		case "y":
			if m.config.Kind == KindConfirm {
				return m, m.confirm()
			}
		case "n":
			if m.config.Kind == KindConfirm {
				return m, m.cancel()
			}
		case "esc":
			if m.config.Kind == KindAlert {
				return m, m.confirm()
			}
			return m, m.cancel()
		}

	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
			return m, nil
		}
		if z := zone.Get(m.confirmZone()); z != nil && z.InBounds(msg) {
			return m, m.confirm()
		}
		if m.config.Kind == KindConfirm {
			if z := zone.Get(m.cancelZone()); z != nil && z.InBounds(msg) {
				return m, m.cancel()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m Model) confirm() tea.Cmd {
	id := m.config.ID
	return func() tea.Msg { return ConfirmedMsg{ID: id} }
}

func (m Model) cancel() tea.Cmd {
	id := m.config.ID
	return func() tea.Msg { return CancelledMsg{ID: id} }
}

// View renders the dialog box.
func (m Model) View() string {
	contentWidth := max(m.config.Width, lipgloss.Width(m.config.Title))
	boxWidth := contentWidth + 2

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).PaddingLeft(1)
	divider := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor).Render(strings.Repeat("─", boxWidth))

	var body strings.Builder
	if m.config.Message != "" {
		body.WriteString(lipgloss.NewStyle().
			Foreground(styles.TextPrimaryColor).
			Render(wordwrap.String(m.config.Message, contentWidth)))
		body.WriteString("\n\n")
	}
	body.WriteString(m.renderButtons())

	var out strings.Builder
	out.WriteString(titleStyle.Render(m.config.Title))
	out.WriteString("\n")
	out.WriteString(divider)
	out.WriteString("\n")
	out.WriteString(lipgloss.NewStyle().Padding(1, 1).Render(body.String()))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(boxWidth).
		Render(out.String())
}

func (m Model) renderButtons() string {
	confirmStyle := styles.PrimaryButtonStyle
	if m.config.ConfirmVariant == ButtonDanger {
		confirmStyle = styles.DangerButtonStyle
	}
	if m.focused == ButtonConfirm {
		confirmStyle = styles.PrimaryButtonFocusedStyle
		if m.config.ConfirmVariant == ButtonDanger {
			confirmStyle = styles.DangerButtonFocusedStyle
		}
	}
	confirmBtn := zone.Mark(m.confirmZone(), confirmStyle.Render(m.config.ConfirmLabel))
	if m.config.Kind == KindAlert {
		return confirmBtn
	}

	cancelStyle := styles.SecondaryButtonStyle
	if m.focused == ButtonCancel {
		cancelStyle = styles.SecondaryButtonFocusedStyle
	}
	return confirmBtn + "  " + zone.Mark(m.cancelZone(), cancelStyle.Render(m.config.CancelLabel))
}

// SetSize records the viewport size used by Overlay.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Overlay centers the dialog over bg.
func (m Model) Overlay(bg string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}
