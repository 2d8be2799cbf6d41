// Package admin is the landing screen for logged-in administrators.
package admin

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/ccj16/regdesk/internal/keys"
	"github.com/ccj16/regdesk/internal/mode"
	"github.com/ccj16/regdesk/internal/ui/styles"
)

type entry struct {
	label   string
	binding key.Binding
	route   mode.Route
}

var entries = []entry{
	{"Record list", keys.App.RecordList, mode.Route{Kind: mode.RouteRecordList}},
	{"Waiting list", keys.App.WaitingList, mode.Route{Kind: mode.RouteWaitingList}},
	{"Pack summary", keys.App.Summary, mode.Route{Kind: mode.RouteSummary}},
}

// Model is the admin menu.
type Model struct {
	cursor int
}

// New creates the menu with the first entry selected.
func New() Model { return Model{} }

// Init does nothing.
func (m Model) Init() tea.Cmd { return nil }

// Cursor returns the selected entry index.
func (m Model) Cursor() int { return m.cursor }

// Capturing is false.
func (m Model) Capturing() bool { return false }

// Blocking is false.
func (m Model) Blocking() bool { return false }

// SetSize implements mode.Controller.
func (m Model) SetSize(int, int) mode.Controller { return m }

func zoneID(i int) string { return fmt.Sprintf("admin-entry-%d", i) }

// Update implements mode.Controller.
func (m Model) Update(msg tea.Msg) (mode.Controller, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.List.Up):
			m.cursor = (m.cursor + len(entries) - 1) % len(entries)
		case key.Matches(msg, keys.List.Down):
			m.cursor = (m.cursor + 1) % len(entries)
		case key.Matches(msg, keys.List.Open):
			return m, mode.Navigate(entries[m.cursor].route)
		}
	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
			return m, nil
		}
		for i := range entries {
			if z := zone.Get(zoneID(i)); z != nil && z.InBounds(msg) {
				m.cursor = i
				return m, mode.Navigate(entries[i].route)
			}
		}
	}
	return m, nil
}

// View implements mode.Controller.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Administration") + "\n\n")
	for i, e := range entries {
		indicator := "  "
		if i == m.cursor {
			indicator = styles.SelectionIndicatorStyle.Render("> ")
		}
		line := indicator + styles.ValueStyle.Render(e.label) + "  " + styles.HintStyle.Render(e.binding.Help().Key)
		b.WriteString(zone.Mark(zoneID(i), line) + "\n")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
