// Package receiptlist lists the registrations created from this terminal.
package receiptlist

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ccj16/regdesk/internal/keys"
	"github.com/ccj16/regdesk/internal/log"
	"github.com/ccj16/regdesk/internal/mode"
	"github.com/ccj16/regdesk/internal/mode/shared"
	"github.com/ccj16/regdesk/internal/pubsub"
	"github.com/ccj16/regdesk/internal/receipts"
	"github.com/ccj16/regdesk/internal/ui/modal"
	"github.com/ccj16/regdesk/internal/ui/styles"
	"github.com/ccj16/regdesk/internal/watcher"
)

const forgetDialogID = "receipt-forget"

var (
	invoiceKey = key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "invoice"))
	forgetKey  = key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "forget"))
)

type loadedMsg struct {
	list []receipts.Receipt
	err  error
}

// Model is the receipts screen.
type Model struct {
	ctx      context.Context
	services mode.Services

	list   []receipts.Receipt
	err    error
	cursor int
	dialog *modal.Model

	width  int
	height int
}

// New creates the screen. Init loads the receipts.
func New(ctx context.Context, services mode.Services) Model {
	return Model{ctx: ctx, services: services}
}

// Init loads the receipts.
func (m Model) Init() tea.Cmd {
	store, ctx := m.services.Receipts, m.ctx
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		list, err := store.List(ctx)
		return loadedMsg{list: list, err: err}
	}
}

// Receipts returns the listed receipts.
func (m Model) Receipts() []receipts.Receipt { return m.list }

// Dialog returns the open dialog, if any.
func (m Model) Dialog() *modal.Model { return m.dialog }

// Capturing is false.
func (m Model) Capturing() bool { return false }

// Blocking reports whether the forget dialog is open.
func (m Model) Blocking() bool { return m.dialog != nil }

// SetSize implements mode.Controller.
func (m Model) SetSize(width, height int) mode.Controller {
	m.width, m.height = width, height
	if m.dialog != nil {
		m.dialog.SetSize(width, height)
	}
	return m
}

// Update implements mode.Controller.
func (m Model) Update(msg tea.Msg) (mode.Controller, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.list, m.err = msg.list, msg.err
		if msg.err != nil {
			log.ErrorErr(log.CatReceipts, "listing receipts failed", msg.err)
		}
		m.cursor = min(m.cursor, max(len(m.list)-1, 0))
		return m, nil

	case watcher.ChangedMsg, pubsub.Event[receipts.Receipt]:
		return m, m.Init()
	}

	if m.dialog != nil {
		switch msg := msg.(type) {
		case modal.ConfirmedMsg:
			m.dialog = nil
			return m, m.forget()
		case modal.CancelledMsg:
			m.dialog = nil
		case tea.KeyMsg, tea.MouseMsg:
			d, cmd := m.dialog.Update(msg)
			m.dialog = &d
			return m, cmd
		}
		return m, nil
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, keys.List.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(k, keys.List.Down):
		m.cursor = min(m.cursor+1, max(len(m.list)-1, 0))
	case key.Matches(k, keys.List.Refresh):
		return m, m.Init()
	case key.Matches(k, keys.List.Open):
		if r, ok := m.Selected(); ok {
			return m, mode.Navigate(mode.Registration(r.SecurityKey))
		}
	case key.Matches(k, invoiceKey):
		if r, ok := m.Selected(); ok {
			return m, mode.Navigate(mode.Invoice(r.SecurityKey))
		}
	case key.Matches(k, forgetKey):
		if r, ok := m.Selected(); ok {
			d := modal.New(modal.Config{
				ID:             forgetDialogID,
				Kind:           modal.KindConfirm,
				Title:          "Forget registration",
				Message:        "Remove " + strings.TrimPrefix(r.DisplayName, " - ") + " from this terminal? The registration itself is kept.",
				ConfirmLabel:   "Forget",
				ConfirmVariant: modal.ButtonDanger,
			})
			d.SetSize(m.width, m.height)
			m.dialog = &d
		}
	}
	return m, nil
}

// Selected returns the receipt under the cursor.
func (m Model) Selected() (receipts.Receipt, bool) {
	if m.cursor < 0 || m.cursor >= len(m.list) {
		return receipts.Receipt{}, false
	}
	return m.list[m.cursor], true
}

func (m Model) forget() tea.Cmd {
	r, ok := m.Selected()
	if !ok {
		return nil
	}
	store, ctx := m.services.Receipts, m.ctx
	return func() tea.Msg {
		if err := store.Remove(ctx, r.SecurityKey); err != nil {
			log.ErrorErr(log.CatReceipts, "removing receipt failed", err, "key", r.SecurityKey)
			return loadedMsg{list: nil, err: err}
		}
		list, err := store.List(ctx)
		return loadedMsg{list: list, err: err}
	}
}

// View implements mode.Controller.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("My registrations") + "\n\n")

	switch {
	case m.services.Receipts == nil:
		b.WriteString(styles.HintStyle.Render("The receipts database is unavailable."))
	case m.err != nil:
		b.WriteString(styles.ErrorStyle.Render("Could not read receipts: " + m.err.Error()))
	case len(m.list) == 0:
		b.WriteString(styles.HintStyle.Render("Nothing registered from this terminal yet. Press ctrl+n to start."))
	default:
		nameWidth := max(m.width-36, 24)
		for i, r := range m.list {
			indicator := "  "
			if i == m.cursor {
				indicator = styles.SelectionIndicatorStyle.Render("> ")
			}
			name := styles.PadRight(styles.TruncateString(strings.TrimPrefix(r.DisplayName, " - "), nameWidth), nameWidth)
			line := indicator + styles.ValueStyle.Render(name) + " " + styles.HintStyle.Render(shared.Ago(r.CreatedAt, m.services.Clock))
			if r.WaitingList {
				line += " " + styles.WarningBadgeStyle.Render("waiting list")
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n" + styles.HintStyle.Render("enter open · i invoice · d forget · r refresh"))
	}

	view := lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	if m.dialog != nil {
		return m.dialog.Overlay(view)
	}
	return view
}
