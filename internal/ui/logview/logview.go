// Package logview is the debug log panel toggled with ctrl+x when regdesk
// runs with --debug. It keeps the most recent entries published by the
// logger.
package logview

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/ccj16/regdesk/internal/log"
	"github.com/ccj16/regdesk/internal/ui/overlay"
	"github.com/ccj16/regdesk/internal/ui/styles"
)

// Capacity is the number of entries kept.
const Capacity = 500

// Model is the log panel.
type Model struct {
	entries  []string
	visible  bool
	minLevel log.Level
	viewport viewport.Model
	width    int
	height   int
}

// New returns a hidden panel showing every level.
func New() Model {
	return Model{minLevel: log.LevelDebug}
}

// Append records an entry, dropping the oldest past Capacity.
func (m Model) Append(entry string) Model {
	m.entries = append(m.entries, strings.TrimSuffix(entry, "\n"))
	if over := len(m.entries) - Capacity; over > 0 {
		m.entries = append([]string(nil), m.entries[over:]...)
	}
	if m.visible {
		m.refresh()
		m.viewport.GotoBottom()
	}
	return m
}

// Entries returns the entries at or above the current level.
func (m Model) Entries() []string {
	var out []string
	for _, e := range m.entries {
		if levelOf(e) >= m.minLevel {
			out = append(out, e)
		}
	}
	return out
}

// Visible reports whether the panel is shown.
func (m Model) Visible() bool { return m.visible }

// Toggle shows or hides the panel.
func (m Model) Toggle() Model {
	m.visible = !m.visible
	if m.visible {
		m.refresh()
		m.viewport.GotoBottom()
	}
	return m
}

// SetSize records the screen size.
func (m Model) SetSize(width, height int) Model {
	m.width, m.height = width, height
	m.refresh()
	return m
}

// Update handles the panel's keys while it is visible.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !m.visible || !ok {
		return m, nil
	}
	switch k.String() {
	case "esc", "ctrl+x":
		m.visible = false
	case "c":
		m.entries = nil
		m.refresh()
	case "d":
		m.minLevel = log.LevelDebug
		m.refresh()
	case "i":
		m.minLevel = log.LevelInfo
		m.refresh()
	case "w":
		m.minLevel = log.LevelWarn
		m.refresh()
	case "e":
		m.minLevel = log.LevelError
		m.refresh()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func levelOf(entry string) log.Level {
	for _, l := range []log.Level{log.LevelError, log.LevelWarn, log.LevelInfo} {
		if strings.Contains(entry, "["+l.String()+"]") {
			return l
		}
	}
	return log.LevelDebug
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, 160), 40)
}

func (m *Model) refresh() {
	width := m.boxWidth() - 2
	height := max(min(25, m.height-6), 5)
	m.viewport = viewport.New(width, height)

	entries := m.Entries()
	if len(entries) == 0 {
		m.viewport.SetContent(styles.HintStyle.Italic(true).Render("No log entries"))
		return
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		if ansi.StringWidth(e) > width {
			e = ansi.Truncate(e, width-3, "...")
		}
		lines[i] = colorize(e)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

func colorize(entry string) string {
	color := styles.TextMutedColor
	switch levelOf(entry) {
	case log.LevelError:
		color = styles.StatusErrorColor
	case log.LevelWarn:
		color = styles.StatusWarningColor
	case log.LevelInfo:
		color = styles.StatusInfoColor
	}
	return lipgloss.NewStyle().Foreground(color).Render(entry)
}

func (m Model) footer() string {
	var hints []string
	for _, l := range []log.Level{log.LevelDebug, log.LevelInfo, log.LevelWarn, log.LevelError} {
		label := "[" + strings.ToLower(l.String()[:1]) + "] " + l.String()
		if l == m.minLevel {
			hints = append(hints, styles.ValueStyle.Bold(true).Render(label))
		} else {
			hints = append(hints, styles.HintStyle.Render(label))
		}
	}
	return styles.HintStyle.Render("[c] clear") + "  " + strings.Join(hints, "  ")
}

// View renders the panel, or "" when hidden.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	w := m.boxWidth()
	divider := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor).Render(strings.Repeat("─", w))
	body := strings.Join([]string{
		styles.TitleStyle.PaddingLeft(1).Render("Logs"),
		divider,
		m.viewport.View(),
		divider,
		m.footer(),
	}, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(w).
		Render(body)
}

// Overlay centers the panel over bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{Width: m.width, Height: m.height, Position: overlay.Center}, m.View(), bg)
}
