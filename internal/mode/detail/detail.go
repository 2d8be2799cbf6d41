// Package detail shows one registration: its fields, the email and waiting
// list badges, promotion off the waiting list, and a share QR code.
package detail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/skip2/go-qrcode"

	"github.com/ccj16/regdesk/internal/invoice"
	"github.com/ccj16/regdesk/internal/keys"
	"github.com/ccj16/regdesk/internal/log"
	"github.com/ccj16/regdesk/internal/mode"
	"github.com/ccj16/regdesk/internal/mode/shared"
	"github.com/ccj16/regdesk/internal/registration"
	"github.com/ccj16/regdesk/internal/ui/modal"
	"github.com/ccj16/regdesk/internal/ui/progress"
	"github.com/ccj16/regdesk/internal/ui/styles"
	"github.com/ccj16/regdesk/internal/ui/toaster"
	"github.com/ccj16/regdesk/internal/workflow"
)

const (
	confirmDialogID = "promote-confirm"
	errorDialogID   = "promote-error"

	// PromoteErrorTitle heads the dialog shown when a promotion fails.
	PromoteErrorTitle = "Failed to promote registration"
	// PromotingMessage is shown beside the spinner during a promotion.
	PromotingMessage = "Promoting registration..."
)

type loadedMsg struct {
	key string
	reg *registration.Registration
	err error
}

// Model is the detail screen.
type Model struct {
	ctx      context.Context
	services mode.Services
	key      string

	reg     *registration.Registration
	loadErr error
	loading bool

	sub      workflow.Submission
	progress progress.Model
	dialog   *modal.Model

	share string // rendered QR, empty when hidden
	help  help.Model

	width  int
	height int
}

// New creates the view for securityKey. Init loads it.
func New(ctx context.Context, services mode.Services, securityKey string) Model {
	return Model{
		ctx:      ctx,
		services: services,
		key:      securityKey,
		loading:  true,
		help:     help.New(),
	}
}

// Init fetches the registration.
func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	ctx, svc, key := m.ctx, m.services.Registrations, m.key
	return func() tea.Msg {
		reg, err := svc.Get(ctx, key)
		return loadedMsg{key: key, reg: reg, err: err}
	}
}

// Registration returns the loaded record, or nil.
func (m Model) Registration() *registration.Registration { return m.reg }

// Dialog returns the open dialog, if any.
func (m Model) Dialog() *modal.Model { return m.dialog }

// Submission returns the promotion state.
func (m Model) Submission() workflow.Submission { return m.sub }

// Sharing reports whether the QR panel is shown.
func (m Model) Sharing() bool { return m.share != "" }

// Capturing is false; the detail view only binds single keys.
func (m Model) Capturing() bool { return false }

// Blocking reports whether a dialog or promotion owns the keyboard.
func (m Model) Blocking() bool {
	return m.dialog != nil || m.sub.Busy()
}

// SetSize implements mode.Controller.
func (m Model) SetSize(width, height int) mode.Controller {
	m.width, m.height = width, height
	m.help.Width = width
	if m.dialog != nil {
		m.dialog.SetSize(width, height)
	}
	return m
}

// Update implements mode.Controller.
func (m Model) Update(msg tea.Msg) (mode.Controller, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.key != m.key {
			return m, nil
		}
		m.loading = false
		m.reg, m.loadErr = msg.reg, msg.err
		if msg.err != nil {
			log.ErrorErr(log.CatUI, "loading registration failed", msg.err, "key", msg.key)
			return m, nil
		}
		return m, mode.SetHeader(msg.reg.DisplayName())

	case workflow.DoneMsg:
		return m.finish(msg)
	}

	if m.sub.Busy() {
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	if m.dialog != nil {
		return m.updateDialog(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.reg == nil {
		if ok && key.Matches(keyMsg, keys.Detail.Refresh) {
			m.loading = true
			return m, m.load()
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Detail.Promote):
		d := modal.New(modal.Config{
			ID:           confirmDialogID,
			Kind:         modal.KindConfirm,
			Title:        "Promote registration",
			Message:      fmt.Sprintf("Move %s of %s off the waiting list?", m.reg.GroupName, m.reg.Council),
			ConfirmLabel: "Promote",
		})
		d.SetSize(m.width, m.height)
		m.dialog = &d
	case key.Matches(keyMsg, keys.Detail.Invoice):
		return m, mode.Navigate(mode.Invoice(m.key))
	case key.Matches(keyMsg, keys.Detail.Share):
		return m.toggleShare()
	case key.Matches(keyMsg, keys.Detail.Refresh):
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m Model) updateDialog(msg tea.Msg) (mode.Controller, tea.Cmd) {
	switch msg := msg.(type) {
	case modal.ConfirmedMsg:
		m.dialog = nil
		if msg.ID == confirmDialogID {
			return m.promote()
		}
		m.sub = m.sub.Reset()
	case modal.CancelledMsg:
		m.dialog = nil
		m.sub = m.sub.Reset()
	case tea.KeyMsg, tea.MouseMsg:
		d, cmd := m.dialog.Update(msg)
		m.dialog = &d
		return m, cmd
	}
	return m, nil
}

func (m Model) promote() (mode.Controller, tea.Cmd) {
	sub, err := m.sub.Begin(workflow.OpPromote)
	if err != nil {
		return m, nil
	}
	m.sub = sub
	m.progress = progress.New(PromotingMessage)
	return m, tea.Batch(m.progress.Init(), workflow.Promote(m.ctx, m.reg))
}

func (m Model) finish(done workflow.DoneMsg) (mode.Controller, tea.Cmd) {
	m.sub = m.sub.Finish(done)

	switch m.sub.State() {
	case workflow.Succeeded:
		m.reg = done.Registration
		m.sub = m.sub.Reset()
		return m, tea.Batch(
			mode.Toast("Registration promoted", toaster.StyleSuccess),
			m.updateReceipt(done.Registration),
		)
	case workflow.Failed:
		d := modal.Alert(errorDialogID, PromoteErrorTitle, m.sub.Message())
		d.SetSize(m.width, m.height)
		m.dialog = &d
	}
	return m, nil
}

// updateReceipt refreshes the local receipt's waiting-list flag, if this
// registration was created here.
func (m Model) updateReceipt(reg *registration.Registration) tea.Cmd {
	store := m.services.Receipts
	if store == nil || reg == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		r, err := store.Get(ctx, reg.SecurityKey)
		if err != nil {
			return nil
		}
		r.WaitingList = reg.IsOnWaitingList
		if err := store.Add(ctx, r); err != nil {
			log.ErrorErr(log.CatReceipts, "updating receipt failed", err, "key", reg.SecurityKey)
		}
		return nil
	}
}

// ShareURL is the public link for securityKey.
func ShareURL(base, securityKey string) string {
	return strings.TrimRight(base, "/") + mode.Registration(securityKey).Path()
}

// QR renders url as a terminal QR code.
func QR(url string) (string, error) {
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return "", err
	}
	return q.ToSmallString(false), nil
}

func (m Model) toggleShare() (mode.Controller, tea.Cmd) {
	if m.share != "" {
		m.share = ""
		return m, nil
	}
	url := ShareURL(m.services.Config.ShareBaseURL(), m.key)
	code, err := QR(url)
	if err != nil {
		log.ErrorErr(log.CatUI, "rendering share code failed", err)
		return m, mode.Toast("Could not render the share code", toaster.StyleError)
	}
	m.share = code

	if m.services.Clipboard == nil {
		return m, nil
	}
	if err := m.services.Clipboard.Copy(url); err != nil {
		log.Warn(log.CatUI, "copying share link failed", "error", err)
		return m, mode.Toast("Share link: "+url, toaster.StyleInfo)
	}
	return m, mode.Toast("Share link copied", toaster.StyleSuccess)
}

// View implements mode.Controller.
func (m Model) View() string {
	view := m.render()
	switch {
	case m.sub.Busy():
		return m.progress.Overlay(view, m.width, m.height)
	case m.dialog != nil:
		return m.dialog.Overlay(view)
	}
	return view
}

func (m Model) render() string {
	switch {
	case m.loadErr != nil:
		return styles.ErrorStyle.Render("Could not load registration " + m.key + ": " + workflow.UserMessage(m.loadErr))
	case m.reg == nil:
		return styles.HintStyle.Render("Loading registration...")
	}

	r := m.reg
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(r.GroupName+" of "+r.Council) + "  " + m.badges() + "\n\n")

	rows := [][2]string{
		{"Pack", r.PackName},
		{"Contact leader", r.ContactLeaderName()},
		{"Email", r.ContactLeaderEmail},
		{"Phone", r.ContactLeaderPhoneNumber},
		{"Address", address(r.ContactLeaderAddress)},
		{"Estimated youth", fmt.Sprint(r.EstimatedYouth)},
		{"Estimated leaders", fmt.Sprint(r.EstimatedLeaders)},
		{"Security key", r.SecurityKey},
	}
	if r.ValidatedOn != nil {
		rows = append(rows, [2]string{"Email validated", m.when(*r.ValidatedOn)})
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		b.WriteString(styles.LabelStyle.Render(styles.PadRight(row[0], 20)) + styles.ValueStyle.Render(row[1]) + "\n")
	}

	if m.share != "" {
		url := ShareURL(m.services.Config.ShareBaseURL(), m.key)
		b.WriteString("\n" + styles.HintStyle.Render(url) + "\n" + m.share)
	}

	b.WriteString("\n" + m.help.View(keys.Detail))
	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}

func (m Model) badges() string {
	var out []string
	if m.reg.ValidatedEmail() {
		out = append(out, styles.SuccessBadgeStyle.Render("✓ email validated"))
	} else {
		out = append(out, styles.HintStyle.Render("email not validated"))
	}
	if m.reg.IsOnWaitingList {
		out = append(out, styles.WarningBadgeStyle.Render("waiting list"))
	}
	return strings.Join(out, "  ")
}

func address(a registration.Address) string {
	if a.Empty() {
		return ""
	}
	parts := []string{a.Address1, a.Address2, a.City, a.Province, a.PostalCode}
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

func (m Model) when(t time.Time) string {
	ui := m.services.Config.UI
	return invoice.FormatTime(t, ui.TimeFormat, ui.Location()) + " (" + shared.Ago(t, m.services.Clock) + ")"
}
