// Package testutil provides an in-memory registration backend for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/ccj16/regdesk/internal/invoice"
	"github.com/ccj16/regdesk/internal/registration"
	"github.com/ccj16/regdesk/internal/summary"
)

// Failure is a canned non-2xx reply.
type Failure struct {
	Status int
	Body   string
}

// Backend is a fake registration server. Build it with the With* options
// and Start it; the zero configuration is an anonymous session with no data.
type Backend struct {
	t *testing.T

	mu            sync.Mutex
	server        *httptest.Server
	regs          map[string]registration.Registration
	order         []string
	invoices      map[string]invoice.Invoice
	invoicesByID  map[uint64]invoice.Invoice
	pack          summary.PackSummary
	loggedIn      bool
	loginCode     string
	confirmTokens map[string]string
	waitlistNew   bool
	nextKey       int
	fail          map[string]Failure
	requests      []string
}

// Option configures a Backend before it starts.
type Option func(*Backend)

// WithRegistration seeds a saved registration.
func WithRegistration(r registration.Registration) Option {
	return func(b *Backend) {
		b.regs[r.SecurityKey] = r
		b.order = append(b.order, r.SecurityKey)
	}
}

// WithInvoice serves inv for the registration key and for its id.
func WithInvoice(key string, inv invoice.Invoice) Option {
	return func(b *Backend) {
		b.invoices[key] = inv
		b.invoicesByID[inv.ID] = inv
	}
}

// WithPack sets the pack summary.
func WithPack(p summary.PackSummary) Option {
	return func(b *Backend) { b.pack = p }
}

// WithLoggedIn starts with an authenticated session.
func WithLoggedIn() Option {
	return func(b *Backend) { b.loggedIn = true }
}

// WithLoginCode sets the authorization code the token exchange accepts.
func WithLoginCode(code string) Option {
	return func(b *Backend) { b.loginCode = code }
}

// WithConfirmToken accepts token for email.
func WithConfirmToken(email, token string) Option {
	return func(b *Backend) { b.confirmTokens[email] = token }
}

// WithWaitingList puts every newly created registration on the waiting list.
func WithWaitingList() Option {
	return func(b *Backend) { b.waitlistNew = true }
}

// WithFailure answers requests matching "METHOD /path" with f. The path is
// matched without its query string.
func WithFailure(route string, f Failure) Option {
	return func(b *Backend) { b.fail[route] = f }
}

// NewBackend starts a backend closed at test cleanup.
func NewBackend(t *testing.T, opts ...Option) *Backend {
	t.Helper()
	b := &Backend{
		t:             t,
		regs:          make(map[string]registration.Registration),
		invoices:      make(map[string]invoice.Invoice),
		invoicesByID:  make(map[uint64]invoice.Invoice),
		confirmTokens: make(map[string]string),
		fail:          make(map[string]Failure),
		loginCode:     "good-code",
	}
	for _, opt := range opts {
		opt(b)
	}
	b.server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.server.Close)
	return b
}

// URL is the server root.
func (b *Backend) URL() string { return b.server.URL }

// Requests lists "METHOD /path" for every request received.
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

// Registration returns the stored copy of key.
func (b *Backend) Registration(key string) (registration.Registration, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.regs[key]
	return r, ok
}

// LoggedIn reports the session state.
func (b *Backend) LoggedIn() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loggedIn
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path

	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, route)

	if f, ok := b.fail[route]; ok {
		w.WriteHeader(f.Status)
		_, _ = io.WriteString(w, f.Body)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/")
	parts := strings.Split(path, "/")

	switch {
	case r.Method == http.MethodGet && path == "authentication/isLoggedIn":
		_, _ = io.WriteString(w, strconv.FormatBool(b.loggedIn))

	case r.Method == http.MethodPost && path == "authentication/googletoken":
		code, _ := io.ReadAll(r.Body)
		b.loggedIn = string(code) == b.loginCode
		_, _ = io.WriteString(w, strconv.FormatBool(b.loggedIn))

	case r.Method == http.MethodGet && path == "summary/pack":
		b.writeJSON(w, http.StatusOK, b.pack)

	case r.Method == http.MethodPut && path == "confirmpreregistration":
		token, _ := io.ReadAll(r.Body)
		want, ok := b.confirmTokens[r.URL.Query().Get("email")]
		if !ok || want != string(token) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, "Invalid confirmation token")
			return
		}
		w.WriteHeader(http.StatusOK)

	case r.Method == http.MethodPost && path == "preregistration":
		b.create(w, r)

	case r.Method == http.MethodGet && path == "preregistration":
		if !b.loggedIn {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		list := make([]registration.Registration, 0, len(b.order))
		for _, key := range b.order {
			list = append(list, b.regs[key])
		}
		b.writeJSON(w, http.StatusOK, list)

	case parts[0] == "preregistration" && len(parts) >= 2:
		b.entity(w, r, parts[1], parts[2:])

	case r.Method == http.MethodGet && parts[0] == "invoice" && len(parts) == 2:
		id, err := strconv.ParseUint(parts[1], 10, 64)
		inv, ok := b.invoicesByID[id]
		if err != nil || !ok {
			http.NotFound(w, r)
			return
		}
		b.writeJSON(w, http.StatusOK, inv)

	default:
		http.NotFound(w, r)
	}
}

func (b *Backend) create(w http.ResponseWriter, r *http.Request) {
	var reg registration.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, err.Error())
		return
	}
	b.nextKey++
	reg.SecurityKey = fmt.Sprintf("key-%d", b.nextKey)
	reg.IsOnWaitingList = b.waitlistNew
	b.regs[reg.SecurityKey] = reg
	b.order = append(b.order, reg.SecurityKey)
	b.writeJSON(w, http.StatusCreated, reg)
}

func (b *Backend) entity(w http.ResponseWriter, r *http.Request, key string, rest []string) {
	// Invoices are keyed independently so a test can seed one on its own.
	if r.Method == http.MethodGet && len(rest) == 1 && rest[0] == "invoice" {
		inv, ok := b.invoices[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		b.writeJSON(w, http.StatusOK, inv)
		return
	}

	reg, ok := b.regs[key]
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch {
	case r.Method == http.MethodGet && len(rest) == 0:
		b.writeJSON(w, http.StatusOK, reg)
	case r.Method == http.MethodPost && len(rest) == 1 && rest[0] == "promote":
		reg.IsOnWaitingList = false
		b.regs[key] = reg
		w.WriteHeader(http.StatusOK)
	default:
		http.NotFound(w, r)
	}
}

func (b *Backend) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		b.t.Errorf("encoding response: %v", err)
	}
}
