// Package document is a scrollable markdown screen used for invoices and
// the pack summary.
package document

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ccj16/regdesk/internal/invoice"
	"github.com/ccj16/regdesk/internal/keys"
	"github.com/ccj16/regdesk/internal/log"
	"github.com/ccj16/regdesk/internal/mode"
	"github.com/ccj16/regdesk/internal/summary"
	"github.com/ccj16/regdesk/internal/ui/markdown"
	"github.com/ccj16/regdesk/internal/ui/styles"
	"github.com/ccj16/regdesk/internal/workflow"
)

// Loader produces the markdown source. refresh asks it to bypass caches.
type Loader func(ctx context.Context, refresh bool) (string, error)

type loadedMsg struct {
	id     string
	source string
	err    error
}

// Model is a document screen.
type Model struct {
	ctx    context.Context
	id     string
	title  string
	load   Loader
	style  string
	source string
	err    error

	viewport viewport.Model
	width    int
	height   int
}

// New creates a document titled title. id tags load results so a stale
// load for another document is ignored.
func New(ctx context.Context, id, title, style string, load Loader) Model {
	return Model{
		ctx:      ctx,
		id:       id,
		title:    title,
		load:     load,
		style:    style,
		viewport: viewport.New(80, 20),
	}
}

// Invoice shows the invoice for a registration.
func Invoice(ctx context.Context, services mode.Services, securityKey string) Model {
	ui := services.Config.UI
	svc := services.Invoices
	load := func(ctx context.Context, refresh bool) (string, error) {
		if refresh {
			svc.Refresh(ctx, securityKey)
		}
		inv, err := svc.GetByRegistration(ctx, securityKey)
		if err != nil {
			return "", err
		}
		return invoice.Markdown(inv, ui.TimeFormat, ui.Location()), nil
	}
	return New(ctx, "invoice:"+securityKey, "Invoice", ui.MarkdownStyle, load)
}

// Summary shows the pack totals.
func Summary(ctx context.Context, services mode.Services) Model {
	svc := services.Summary
	load := func(ctx context.Context, refresh bool) (string, error) {
		if refresh {
			svc.Refresh(ctx)
		}
		p, err := svc.GetPack(ctx)
		if err != nil {
			return "", err
		}
		return summary.Markdown(p), nil
	}
	return New(ctx, "summary:pack", "Pack summary", services.Config.UI.MarkdownStyle, load)
}

// Init loads the document.
func (m Model) Init() tea.Cmd {
	return m.fetch(false)
}

func (m Model) fetch(refresh bool) tea.Cmd {
	ctx, id, load := m.ctx, m.id, m.load
	return func() tea.Msg {
		src, err := load(ctx, refresh)
		return loadedMsg{id: id, source: src, err: err}
	}
}

// Source returns the markdown last loaded.
func (m Model) Source() string { return m.source }

// Err returns the last load error.
func (m Model) Err() error { return m.err }

// Capturing is false; the viewport only uses navigation keys.
func (m Model) Capturing() bool { return false }

// Blocking is false.
func (m Model) Blocking() bool { return false }

// SetSize implements mode.Controller.
func (m Model) SetSize(width, height int) mode.Controller {
	m.width, m.height = width, height
	m.viewport.Width = max(width, 20)
	m.viewport.Height = max(height-2, 3)
	m.render()
	return m
}

// Update implements mode.Controller.
func (m Model) Update(msg tea.Msg) (mode.Controller, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.id != m.id {
			return m, nil
		}
		m.source, m.err = msg.source, msg.err
		if msg.err != nil {
			log.ErrorErr(log.CatUI, "loading document failed", msg.err, "document", m.id)
		}
		m.render()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.List.Refresh) {
			return m, m.fetch(true)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) render() {
	switch {
	case m.err != nil:
		m.viewport.SetContent(styles.ErrorStyle.Render(fmt.Sprintf("Could not load %s: %s", m.title, workflow.UserMessage(m.err))))
		return
	case m.source == "":
		m.viewport.SetContent(styles.HintStyle.Render("Loading " + m.title + "..."))
		return
	}

	r, err := markdown.New(m.viewport.Width, m.style)
	if err == nil {
		var out string
		if out, err = r.Render(m.source); err == nil {
			m.viewport.SetContent(out)
			return
		}
	}
	log.ErrorErr(log.CatUI, "rendering markdown failed", err)
	m.viewport.SetContent(m.source)
}

// View implements mode.Controller.
func (m Model) View() string {
	return m.viewport.View() + "\n" + styles.HintStyle.Render("r refresh · ↑/↓ scroll · esc back")
}
