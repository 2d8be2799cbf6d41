// Package app contains the root application model: the router between
// screens, the header, toasts and the debug log panel.
package app

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/ccj16/regdesk/internal/auth"
	"github.com/ccj16/regdesk/internal/config"
	"github.com/ccj16/regdesk/internal/keys"
	"github.com/ccj16/regdesk/internal/log"
	"github.com/ccj16/regdesk/internal/mode"
	"github.com/ccj16/regdesk/internal/mode/admin"
	"github.com/ccj16/regdesk/internal/mode/confirm"
	"github.com/ccj16/regdesk/internal/mode/detail"
	"github.com/ccj16/regdesk/internal/mode/document"
	"github.com/ccj16/regdesk/internal/mode/login"
	"github.com/ccj16/regdesk/internal/mode/receiptlist"
	"github.com/ccj16/regdesk/internal/mode/recordlist"
	"github.com/ccj16/regdesk/internal/mode/register"
	"github.com/ccj16/regdesk/internal/pubsub"
	"github.com/ccj16/regdesk/internal/receipts"
	"github.com/ccj16/regdesk/internal/ui/logview"
	"github.com/ccj16/regdesk/internal/ui/styles"
	"github.com/ccj16/regdesk/internal/ui/toaster"
	"github.com/ccj16/regdesk/internal/watcher"
)

// Title is the event name shown in the header.
const Title = "CCJ16 Pre-registration"

// LoginRequiredMessage is toasted when an admin route redirects to login.
const LoginRequiredMessage = "Please log in to continue"

var toggleLogs = key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "logs"))

// Options configure the application.
type Options struct {
	Route string // initial client path, e.g. "/registration/abc"
	Debug bool   // show the log panel toggle
}

// ConfigReloadedMsg replaces the configuration after the file changed on disk.
// Screens opened afterwards use the new values.
type ConfigReloadedMsg struct {
	Config config.Config
}

// gateMsg carries the result of the login check for an admin route.
type gateMsg struct {
	route mode.Route
	err   error
}

// Model is the root application state.
type Model struct {
	ctx      context.Context
	cancel   context.CancelFunc
	services mode.Services

	start   mode.Route
	route   mode.Route
	current mode.Controller
	history []mode.Route
	// returning is set while going back so the screen being left is not
	// pushed onto history again.
	returning bool

	header   string
	loggedIn bool

	toaster  toaster.Model
	help     help.Model
	showHelp bool

	debug       bool
	logs        logview.Model
	logListener *log.Listener

	sessionListener *auth.Listener
	receiptListener *receipts.Listener
	watcherHandle   *watcher.Watcher
	changes         <-chan struct{}

	width  int
	height int
}

// New creates the application. The receipts watcher is started when a
// receipts store is configured and watching is enabled.
func New(services mode.Services, opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		ctx:      ctx,
		cancel:   cancel,
		services: services,
		start:    mode.ParseRoute(opts.Route),
		toaster:  toaster.New(),
		help:     help.New(),
		debug:    opts.Debug,
		logs:     logview.New(),
	}

	if services.Session != nil {
		m.sessionListener = auth.NewListener(ctx, services.Session)
	}
	if services.Receipts != nil {
		m.receiptListener = receipts.NewListener(ctx, services.Receipts)
	}
	if opts.Debug {
		m.logListener = log.NewListener(ctx)
	}
	if services.Receipts != nil && services.Config != nil && services.Config.Receipts.Watch {
		m.startWatcher(services.Receipts.Path())
	}
	return m
}

func (m *Model) startWatcher(path string) {
	w, err := watcher.New(watcher.DefaultConfig(path))
	if err != nil {
		log.ErrorErr(log.CatWatcher, "creating watcher failed", err)
		return
	}
	changes, err := w.Start()
	if err != nil {
		log.ErrorErr(log.CatWatcher, "starting watcher failed", err)
		_ = w.Stop()
		return
	}
	m.watcherHandle = w
	m.changes = changes
}

// Route returns the active route.
func (m Model) Route() mode.Route { return m.route }

// Current returns the active screen.
func (m Model) Current() mode.Controller { return m.current }

// Header returns the pack display name shown after the title.
func (m Model) Header() string { return m.header }

// LoggedIn reports the last session state seen.
func (m Model) LoggedIn() bool { return m.loggedIn }

// Init opens the start route and starts the background listeners.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{mode.Navigate(m.start), m.checkSession()}
	if m.sessionListener != nil {
		cmds = append(cmds, m.sessionListener.Listen())
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	if m.receiptListener != nil {
		cmds = append(cmds, m.receiptListener.Listen())
	}
	if m.changes != nil {
		cmds = append(cmds, watcher.WaitCmd(m.changes))
	}
	return tea.Batch(cmds...)
}

// checkSession resolves the session once so the admin badge is accurate.
func (m Model) checkSession() tea.Cmd {
	session, ctx := m.services.Session, m.ctx
	if session == nil {
		return nil
	}
	return func() tea.Msg {
		if _, err := session.IsLoggedIn(ctx); err != nil {
			log.Warn(log.CatAuth, "initial session check failed", "error", err)
		}
		return nil
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.logs = m.logs.SetSize(msg.Width, msg.Height)
		if m.current != nil {
			m.current = m.current.SetSize(m.bodySize())
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case mode.NavigateMsg:
		return m.navigate(msg.Route)

	case gateMsg:
		return m.gate(msg)

	case mode.SetHeaderMsg:
		m.header = msg.DisplayName
		return m, nil

	case mode.ShowToastMsg:
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show(msg.Message, msg.Style)
		return m, cmd

	case ConfigReloadedMsg:
		if m.services.Config != nil {
			*m.services.Config = msg.Config
		}
		log.Info(log.CatConfig, "config reloaded")
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show("Configuration reloaded", toaster.StyleInfo)
		return m, cmd

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case pubsub.Event[auth.State]:
		m.loggedIn = msg.Payload.Known && msg.Payload.LoggedIn
		return m, m.sessionListener.Listen()

	case pubsub.Event[string]:
		m.logs = m.logs.Append(msg.Payload)
		return m, m.logListener.Listen()

	case pubsub.Event[receipts.Receipt]:
		cmd := m.forward(msg)
		return m, tea.Batch(cmd, m.receiptListener.Listen())

	case watcher.ChangedMsg:
		log.Debug(log.CatWatcher, "receipts changed on disk")
		cmd := m.forward(msg)
		return m, tea.Batch(cmd, watcher.WaitCmd(m.changes))
	}

	return m, m.forward(msg)
}

func (m *Model) forward(msg tea.Msg) tea.Cmd {
	if m.current == nil {
		return nil
	}
	var cmd tea.Cmd
	m.current, cmd = m.current.Update(msg)
	return cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.logs.Visible() {
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd
	}
	if m.debug && key.Matches(msg, toggleLogs) {
		m.logs = m.logs.Toggle()
		return m, nil
	}

	if m.current != nil && m.current.Blocking() {
		return m, m.forward(msg)
	}

	switch {
	case key.Matches(msg, keys.App.Back):
		return m.back()
	case key.Matches(msg, keys.App.Register):
		return m.navigate(mode.Route{Kind: mode.RouteRegister})
	case key.Matches(msg, keys.App.Receipts):
		return m.navigate(mode.Route{Kind: mode.RouteReceipts})
	case key.Matches(msg, keys.App.Admin):
		return m.navigate(mode.Route{Kind: mode.RouteAdmin})
	case key.Matches(msg, keys.App.Login):
		return m.navigate(mode.Route{Kind: mode.RouteLogin})
	}

	if m.current == nil || !m.current.Capturing() {
		switch {
		case key.Matches(msg, keys.App.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.App.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, keys.App.RecordList):
			return m.navigate(mode.Route{Kind: mode.RouteRecordList})
		case key.Matches(msg, keys.App.WaitingList):
			return m.navigate(mode.Route{Kind: mode.RouteWaitingList})
		case key.Matches(msg, keys.App.Summary):
			return m.navigate(mode.Route{Kind: mode.RouteSummary})
		}
	}

	return m, m.forward(msg)
}

// navigate opens route, checking the session first for admin routes.
func (m Model) navigate(route mode.Route) (tea.Model, tea.Cmd) {
	if !route.RequiresLogin() || m.services.Session == nil {
		return m.open(route)
	}
	session, ctx := m.services.Session, m.ctx
	return m, func() tea.Msg {
		return gateMsg{route: route, err: auth.RequireLogin(ctx, session)}
	}
}

func (m Model) gate(msg gateMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil {
		return m.open(msg.route)
	}

	toast := mode.Toast(LoginRequiredMessage, toaster.StyleInfo)
	if !errors.Is(msg.err, auth.ErrLoginRequired) {
		log.ErrorErr(log.CatAuth, "login check failed", msg.err, "path", msg.route.Path())
		toast = mode.Toast("Could not check your login, please log in again", toaster.StyleError)
	}
	next, cmd := m.open(mode.Route{Kind: mode.RouteLogin})
	return next, tea.Batch(cmd, toast)
}

// open replaces the active screen. The header is cleared; screens that show
// a registration set it again once loaded.
func (m Model) open(route mode.Route) (tea.Model, tea.Cmd) {
	switch {
	case m.returning:
		m.returning = false
	case m.current != nil && route != m.route:
		m.history = append(m.history, m.route)
	}
	log.Info(log.CatMode, "Switching route", "from", m.route.Path(), "to", route.Path())

	m.route = route
	m.header = ""
	m.current = m.build(route).SetSize(m.bodySize())
	return m, m.current.Init()
}

func (m Model) back() (tea.Model, tea.Cmd) {
	if len(m.history) == 0 {
		return m, nil
	}
	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	m.returning = true
	return m.navigate(prev)
}

func (m Model) build(route mode.Route) mode.Controller {
	ctx, svc := m.ctx, m.services
	switch route.Kind {
	case mode.RouteRegistration:
		return detail.New(ctx, svc, route.Key)
	case mode.RouteInvoice:
		return document.Invoice(ctx, svc, route.Key)
	case mode.RouteAdmin:
		return admin.New()
	case mode.RouteRecordList:
		return recordlist.New(ctx, svc, recordlist.All)
	case mode.RouteWaitingList:
		return recordlist.New(ctx, svc, recordlist.WaitingList)
	case mode.RouteLogin:
		return login.New(ctx, svc)
	case mode.RouteConfirm:
		return confirm.New(ctx, svc, route.Email, route.Token)
	case mode.RouteSummary:
		return document.Summary(ctx, svc)
	case mode.RouteReceipts:
		return receiptlist.New(ctx, svc)
	default:
		return register.New(ctx, svc)
	}
}

func (m Model) bodySize() (int, int) {
	return m.width, max(m.height-2, 0)
}

// View implements tea.Model.
func (m Model) View() string {
	body := ""
	if m.current != nil {
		body = m.current.View()
	}
	body = lipgloss.NewStyle().Height(max(m.height-2, 0)).MaxHeight(max(m.height-2, 1)).Render(body)

	view := lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderStatus())
	view = m.toaster.Overlay(view, m.width, m.height)
	view = m.logs.Overlay(view)
	return zone.Scan(view)
}

func (m Model) renderHeader() string {
	title := Title + m.header
	badge := ""
	if m.loggedIn {
		badge = styles.HeaderBadgeStyle.Render("admin")
	}
	width := max(m.width-lipgloss.Width(badge), 0)
	return styles.HeaderStyle.Width(width).Render(styles.TruncateString(title, max(width-2, 1))) + badge
}

func (m Model) renderStatus() string {
	m.help.ShowAll = m.showHelp
	return styles.StatusBarStyle.Render(m.help.View(keys.App))
}

// Close releases the listeners and the watcher.
func (m *Model) Close() error {
	m.cancel()
	if m.watcherHandle != nil {
		return m.watcherHandle.Stop()
	}
	return nil
}
