// Package recordlist is the admin table of registrations, either all of
// them or only those on the waiting list.
package recordlist

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ccj16/regdesk/internal/keys"
	"github.com/ccj16/regdesk/internal/log"
	"github.com/ccj16/regdesk/internal/mode"
	"github.com/ccj16/regdesk/internal/registration"
	"github.com/ccj16/regdesk/internal/ui/styles"
	"github.com/ccj16/regdesk/internal/workflow"
)

// Filter selects which registrations are listed.
type Filter int

const (
	All Filter = iota
	WaitingList
)

type loadedMsg struct {
	filter Filter
	regs   []*registration.Registration
	err    error
}

// Model is the list screen.
type Model struct {
	ctx      context.Context
	services mode.Services
	filter   Filter

	regs    []*registration.Registration
	err     error
	loading bool

	table  table.Model
	help   help.Model
	width  int
	height int
}

// New creates the list. Init loads it.
func New(ctx context.Context, services mode.Services, filter Filter) Model {
	t := table.New(table.WithFocused(true))
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).Foreground(styles.TextPrimaryColor).
		BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(styles.BorderDefaultColor)
	s.Selected = s.Selected.Foreground(styles.HeaderTextColor).Background(styles.BorderFocusColor)
	t.SetStyles(s)

	m := Model{
		ctx:      ctx,
		services: services,
		filter:   filter,
		loading:  true,
		table:    t,
		help:     help.New(),
	}
	m.layout(100, 24)
	return m
}

// Title names the list.
func (m Model) Title() string {
	if m.filter == WaitingList {
		return "Waiting list"
	}
	return "Record list"
}

// Init loads the registrations.
func (m Model) Init() tea.Cmd {
	ctx, svc, filter := m.ctx, m.services.Registrations, m.filter
	return func() tea.Msg {
		var (
			regs []*registration.Registration
			err  error
		)
		if filter == WaitingList {
			regs, err = svc.WaitingList(ctx)
		} else {
			regs, err = svc.List(ctx)
		}
		return loadedMsg{filter: filter, regs: regs, err: err}
	}
}

// Registrations returns the listed records.
func (m Model) Registrations() []*registration.Registration { return m.regs }

// Err returns the last load error.
func (m Model) Err() error { return m.err }

// Capturing is false; the table only uses navigation keys.
func (m Model) Capturing() bool { return false }

// Blocking is false.
func (m Model) Blocking() bool { return false }

// SetSize implements mode.Controller.
func (m Model) SetSize(width, height int) mode.Controller {
	m.layout(width, height)
	return m
}

func (m *Model) layout(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width

	// Group and council share what the fixed columns leave.
	fixed := 24 + 8 + 8 + 9
	flex := max((width-fixed-10)/2, 12)
	m.table.SetColumns([]table.Column{
		{Title: "Group", Width: flex},
		{Title: "Council", Width: flex},
		{Title: "Contact", Width: 24},
		{Title: "Youth", Width: 8},
		{Title: "Leaders", Width: 8},
		{Title: "Status", Width: 9},
	})
	m.table.SetHeight(max(height-4, 3))
	m.table.SetWidth(width)
	m.setRows()
}

func (m *Model) setRows() {
	cols := m.table.Columns()
	rows := make([]table.Row, 0, len(m.regs))
	for _, r := range m.regs {
		status := "confirmed"
		if r.IsOnWaitingList {
			status = "waiting"
		}
		rows = append(rows, table.Row{
			styles.TruncateString(r.GroupName, cols[0].Width),
			styles.TruncateString(r.Council, cols[1].Width),
			styles.TruncateString(r.ContactLeaderName(), cols[2].Width),
			strconv.Itoa(r.EstimatedYouth),
			strconv.Itoa(r.EstimatedLeaders),
			status,
		})
	}
	m.table.SetRows(rows)
}

// Update implements mode.Controller.
func (m Model) Update(msg tea.Msg) (mode.Controller, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.filter != m.filter {
			return m, nil
		}
		m.loading = false
		m.regs, m.err = msg.regs, msg.err
		if msg.err != nil {
			log.ErrorErr(log.CatUI, "loading records failed", msg.err, "list", m.Title())
		}
		m.setRows()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.List.Refresh):
			m.loading = true
			return m, m.Init()
		case key.Matches(msg, keys.List.Open):
			if r := m.Selected(); r != nil {
				return m, mode.Navigate(mode.Registration(r.SecurityKey))
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// Selected returns the highlighted registration, or nil.
func (m Model) Selected() *registration.Registration {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.regs) {
		return nil
	}
	return m.regs[i]
}

// View implements mode.Controller.
func (m Model) View() string {
	title := styles.TitleStyle.Render(m.Title())
	switch {
	case m.err != nil:
		return title + "\n\n" + styles.ErrorStyle.Render("Could not load registrations: "+workflow.UserMessage(m.err))
	case m.loading && len(m.regs) == 0:
		return title + "\n\n" + styles.HintStyle.Render("Loading...")
	case len(m.regs) == 0:
		return title + "\n\n" + styles.HintStyle.Render("No registrations.")
	}

	count := styles.HintStyle.Render(" (" + strconv.Itoa(len(m.regs)) + ")")
	return title + count + "\n" + m.table.View() + "\n" + m.help.View(keys.List)
}
