// Package mode defines the routes, the controller interface every screen
// implements, and the services shared between screens.
package mode

import (
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ccj16/regdesk/internal/auth"
	"github.com/ccj16/regdesk/internal/config"
	"github.com/ccj16/regdesk/internal/invoice"
	"github.com/ccj16/regdesk/internal/mode/shared"
	"github.com/ccj16/regdesk/internal/receipts"
	"github.com/ccj16/regdesk/internal/registration"
	"github.com/ccj16/regdesk/internal/summary"
	"github.com/ccj16/regdesk/internal/ui/toaster"
)

// RouteKind identifies a screen.
type RouteKind int

const (
	RouteRegister RouteKind = iota
	RouteRegistration
	RouteInvoice
	RouteAdmin
	RouteRecordList
	RouteWaitingList
	RouteLogin
	RouteConfirm
	RouteSummary
	RouteReceipts
)

// Route is a parsed location. Key is the security key for registration and
// invoice routes; Email and Token come from the confirmation link.
type Route struct {
	Kind  RouteKind
	Key   string
	Email string
	Token string
}

// ParseRoute maps a client path, optionally with a query string, onto a
// Route. Unknown paths become the register route.
func ParseRoute(raw string) Route {
	u, err := url.Parse(raw)
	if err != nil {
		return Route{Kind: RouteRegister}
	}

	path := "/" + strings.Trim(u.Path, "/")
	switch path {
	case "/register", "/":
		return Route{Kind: RouteRegister}
	case "/admin":
		return Route{Kind: RouteAdmin}
	case "/admin/recordlist":
		return Route{Kind: RouteRecordList}
	case "/admin/waitinglist":
		return Route{Kind: RouteWaitingList}
	case "/login":
		return Route{Kind: RouteLogin}
	case "/summary/pack":
		return Route{Kind: RouteSummary}
	case "/receipts":
		return Route{Kind: RouteReceipts}
	case "/confirmpreregistration":
		q := u.Query()
		return Route{Kind: RouteConfirm, Email: q.Get("email"), Token: q.Get("token")}
	}

	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if parts[0] == "registration" && len(parts) >= 2 && parts[1] != "" {
		key, err := url.PathUnescape(parts[1])
		if err != nil {
			return Route{Kind: RouteRegister}
		}
		switch {
		case len(parts) == 2:
			return Route{Kind: RouteRegistration, Key: key}
		case len(parts) == 3 && parts[2] == "invoice":
			return Route{Kind: RouteInvoice, Key: key}
		}
	}
	return Route{Kind: RouteRegister}
}

// Path renders the route back into a client path.
func (r Route) Path() string {
	switch r.Kind {
	case RouteRegistration:
		return "/registration/" + url.PathEscape(r.Key)
	case RouteInvoice:
		return "/registration/" + url.PathEscape(r.Key) + "/invoice"
	case RouteAdmin:
		return "/admin/"
	case RouteRecordList:
		return "/admin/recordlist"
	case RouteWaitingList:
		return "/admin/waitinglist"
	case RouteLogin:
		return "/login"
	case RouteSummary:
		return "/summary/pack"
	case RouteReceipts:
		return "/receipts"
	case RouteConfirm:
		q := url.Values{}
		if r.Email != "" {
			q.Set("email", r.Email)
		}
		if r.Token != "" {
			q.Set("token", r.Token)
		}
		if len(q) == 0 {
			return "/confirmpreregistration"
		}
		return "/confirmpreregistration?" + q.Encode()
	default:
		return "/register"
	}
}

// RequiresLogin reports whether the route is admin-only.
func (r Route) RequiresLogin() bool {
	switch r.Kind {
	case RouteAdmin, RouteRecordList, RouteWaitingList:
		return true
	}
	return false
}

// Registration returns the detail route for key.
func Registration(key string) Route { return Route{Kind: RouteRegistration, Key: key} }

// Invoice returns the invoice route for key.
func Invoice(key string) Route { return Route{Kind: RouteInvoice, Key: key} }

// NavigateMsg asks the app to switch screens.
type NavigateMsg struct {
	Route Route
}

// Navigate returns a command that switches to route.
func Navigate(route Route) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Route: route} }
}

// SetHeaderMsg sets the pack display name shown in the header. Navigation
// clears it.
type SetHeaderMsg struct {
	DisplayName string
}

// SetHeader returns a command that updates the header.
func SetHeader(name string) tea.Cmd {
	return func() tea.Msg { return SetHeaderMsg{DisplayName: name} }
}

// ShowToastMsg asks the app to show a toast.
type ShowToastMsg struct {
	Message string
	Style   toaster.Style
}

// Toast returns a command that shows a toast.
func Toast(message string, style toaster.Style) tea.Cmd {
	return func() tea.Msg { return ShowToastMsg{Message: message, Style: style} }
}

// Controller is one screen.
type Controller interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Controller, tea.Cmd)
	View() string
	SetSize(width, height int) Controller
	// Capturing reports whether printable keys belong to the screen (text
	// entry), so single-key shortcuts such as q must not fire.
	Capturing() bool
	// Blocking reports whether a dialog or an in-flight submission owns the
	// keyboard. Only ctrl+c reaches the app while blocking.
	Blocking() bool
}

// Services are the dependencies shared by every screen.
type Services struct {
	Registrations *registration.Service
	Invoices      *invoice.Service
	Summary       *summary.Service
	Session       *auth.Session
	Receipts      *receipts.Store // nil when the receipts database could not be opened
	Config        *config.Config
	ConfigPath    string
	Clock         shared.Clock
	Clipboard     shared.Clipboard
}
