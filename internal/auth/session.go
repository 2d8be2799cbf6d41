// Package auth caches the admin session state. One check is shared by every
// caller until it is replaced by a token exchange or dropped by Invalidate.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/ccj16/regdesk/internal/api"
	"github.com/ccj16/regdesk/internal/log"
	"github.com/ccj16/regdesk/internal/pubsub"
)

// ErrLoginRequired is returned by RequireLogin when the session is anonymous.
var ErrLoginRequired = errors.New("login required")

// State is published whenever a check resolves or the cache is cleared.
type State struct {
	LoggedIn bool
	Known    bool
}

// check is one shared request. done closes once loggedIn/err are final.
type check struct {
	done     chan struct{}
	loggedIn bool
	err      error
}

func (c *check) wait(ctx context.Context) (bool, error) {
	select {
	case <-c.done:
		return c.loggedIn, c.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Session is the process-wide login cache.
type Session struct {
	client *api.Client
	broker *pubsub.Broker[State]

	mu      sync.Mutex
	current *check
}

// NewSession creates an empty cache; the first IsLoggedIn call asks the backend.
func NewSession(client *api.Client) *Session {
	return &Session{
		client: client,
		broker: pubsub.NewBroker[State](),
	}
}

// IsLoggedIn reports whether the backend considers this client logged in.
// Concurrent callers share one request; its result is kept for later
// callers. Failed checks are not kept.
func (s *Session) IsLoggedIn(ctx context.Context) (bool, error) {
	s.mu.Lock()
	c := s.current
	if c == nil {
		c = s.start(ctx, s.fetchStatus)
	}
	s.mu.Unlock()

	return c.wait(ctx)
}

// TryToken exchanges an authorization code for a session. It always sends
// a request and replaces the cached check immediately, so callers that ask
// IsLoggedIn meanwhile see the exchange's outcome.
func (s *Session) TryToken(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	c := s.start(ctx, func(ctx context.Context) (bool, error) {
		return s.exchange(ctx, token)
	})
	s.mu.Unlock()

	return c.wait(ctx)
}

// Invalidate drops the cached check. The next IsLoggedIn asks the backend.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	log.Debug(log.CatAuth, "session cache invalidated")
	s.broker.Publish(pubsub.DeletedEvent, State{})
}

// Subscribe delivers State changes until ctx is done.
func (s *Session) Subscribe(ctx context.Context) <-chan pubsub.Event[State] {
	return s.broker.Subscribe(ctx)
}

// Listener delivers session changes to a Bubble Tea model.
type Listener = pubsub.ContinuousListener[State]

// NewListener follows s until ctx is done. A resolved check arrives as
// pubsub.UpdatedEvent and a logout as pubsub.DeletedEvent.
func NewListener(ctx context.Context, s *Session) *Listener {
	return pubsub.NewContinuousListener[State](ctx, s)
}

// Close releases subscribers.
func (s *Session) Close() {
	s.broker.Close()
}

// start installs a new check and runs fn for it. Caller holds s.mu.
func (s *Session) start(ctx context.Context, fn func(context.Context) (bool, error)) *check {
	c := &check{done: make(chan struct{})}
	s.current = c

	// The shared request must outlive any single waiter.
	runCtx := context.WithoutCancel(ctx)
	go func() {
		c.loggedIn, c.err = fn(runCtx)
		s.settle(c)
	}()
	return c
}

// settle records the outcome of c. A failed check is forgotten before its
// waiters wake, so a caller retrying right after an error starts a new one.
func (s *Session) settle(c *check) {
	s.mu.Lock()
	if c.err != nil && s.current == c {
		s.current = nil
	}
	s.mu.Unlock()
	close(c.done)

	if c.err != nil {
		log.ErrorErr(log.CatAuth, "session check failed", c.err)
		return
	}
	log.Info(log.CatAuth, "session resolved", "logged_in", c.loggedIn)
	s.broker.Publish(pubsub.UpdatedEvent, State{LoggedIn: c.loggedIn, Known: true})
}

func (s *Session) fetchStatus(ctx context.Context) (bool, error) {
	req := api.Request{Method: http.MethodGet, Path: api.PathIsLoggedIn}
	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return false, fmt.Errorf("checking session: %w", err)
	}
	if !resp.OK() {
		return false, fmt.Errorf("checking session: %w", resp.StatusError(req))
	}
	return isTrue(resp.Text()), nil
}

func (s *Session) exchange(ctx context.Context, token string) (bool, error) {
	resp, err := s.client.SendText(ctx, http.MethodPost, api.PathGoogleToken, nil, token)
	if err != nil {
		return false, fmt.Errorf("exchanging token: %w", err)
	}
	if !resp.OK() {
		return false, fmt.Errorf("exchanging token: %w", resp.StatusError(api.Request{Method: http.MethodPost, Path: api.PathGoogleToken}))
	}
	return isTrue(resp.Text()), nil
}

func isTrue(body string) bool {
	return strings.TrimSpace(body) == "true"
}

// RequireLogin gates admin-only views.
func RequireLogin(ctx context.Context, s *Session) error {
	ok, err := s.IsLoggedIn(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLoginRequired
	}
	return nil
}
