package registration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ccj16/regdesk/internal/api"
	"github.com/ccj16/regdesk/internal/log"
)

// Clock supplies the agreement timestamp.
type Clock interface {
	Now() time.Time
}

// Service binds registrations to the backend.
type Service struct {
	client *api.Client
	clock  Clock
}

// NewService creates a Service. A nil clock uses the wall clock.
func NewService(client *api.Client, clock Clock) *Service {
	return &Service{client: client, clock: clock}
}

// New returns an unsaved draft bound to s.
func (s *Service) New() *Registration {
	return &Registration{svc: s}
}

// Bind attaches r to s so Save and Promote can reach the backend.
func (s *Service) Bind(r *Registration) *Registration {
	r.svc = s
	return r
}

// Get fetches the registration identified by securityKey.
func (s *Service) Get(ctx context.Context, securityKey string) (*Registration, error) {
	if securityKey == "" {
		return nil, &ValidationError{Field: "securityKey", Reason: "is required"}
	}

	reg, err := api.GetJSON[Registration](ctx, s.client, api.RegistrationPath(securityKey), nil)
	if err != nil {
		return nil, fmt.Errorf("fetching registration: %w", err)
	}
	return s.Bind(&reg), nil
}

// List fetches every registration. Requires an authenticated session.
func (s *Service) List(ctx context.Context) ([]*Registration, error) {
	regs, err := api.GetJSON[[]*Registration](ctx, s.client, api.PathPreregistration, nil)
	if err != nil {
		return nil, fmt.Errorf("listing registrations: %w", err)
	}
	for _, r := range regs {
		s.Bind(r)
	}
	return regs, nil
}

// WaitingList returns the registrations currently on the waiting list.
func (s *Service) WaitingList(ctx context.Context) ([]*Registration, error) {
	regs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	waiting := regs[:0]
	for _, r := range regs {
		if r.IsOnWaitingList {
			waiting = append(waiting, r)
		}
	}
	return waiting, nil
}

// ConfirmEmail redeems an email confirmation token. The server decides
// whether a token may be redeemed more than once.
func (s *Service) ConfirmEmail(ctx context.Context, email, token string) error {
	if email == "" || token == "" {
		return &ValidationError{Reason: "email and token are required"}
	}

	query := url.Values{"email": []string{email}}
	resp, err := s.client.SendText(ctx, http.MethodPut, api.PathConfirmPreregistration, query, token)
	if err != nil {
		return fmt.Errorf("confirming email: %w", err)
	}
	if !resp.OK() {
		log.Warn(log.CatRegistration, "email confirmation rejected", "email", email, "status", resp.StatusCode)
		return &ConfirmError{
			ServerError: newServerError(resp.StatusCode, resp.Text(), defaultConfirmMessage),
			Email:       email,
		}
	}

	log.Info(log.CatRegistration, "email confirmed", "email", email)
	return nil
}

// Save creates r on the backend. A registration can only be saved once;
// on success the server's copy, including its SecurityKey, is merged into r.
func (r *Registration) Save(ctx context.Context) error {
	if r.Saved() {
		return &ValidationError{Field: "securityKey", Reason: "registration has already been saved"}
	}
	if r.svc == nil {
		return &ValidationError{Reason: "registration is not bound to a service"}
	}

	resp, err := r.svc.client.PostJSON(ctx, api.PathPreregistration, r)
	if err != nil {
		return fmt.Errorf("saving registration: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		log.Warn(log.CatRegistration, "save rejected", "status", resp.StatusCode, "group", r.GroupName)
		return &SaveError{ServerError: newServerError(resp.StatusCode, resp.Text(), defaultSaveMessage)}
	}

	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, r); err != nil {
			return fmt.Errorf("decoding saved registration: %w", err)
		}
	}
	if !r.Saved() {
		return &SaveError{ServerError: ServerError{StatusCode: resp.StatusCode, Message: "Server did not return a security key"}}
	}

	log.Info(log.CatRegistration, "registration saved", "key", r.SecurityKey, "group", r.GroupName)
	return nil
}

// Promote moves r off the waiting list. Only waiting registrations are
// eligible; on success r is marked as no longer waiting.
func (r *Registration) Promote(ctx context.Context) error {
	if !r.IsOnWaitingList {
		return &NotEligibleError{SecurityKey: r.SecurityKey}
	}
	if !r.Saved() {
		return &ValidationError{Field: "securityKey", Reason: "registration has not been saved"}
	}
	if r.svc == nil {
		return &ValidationError{Reason: "registration is not bound to a service"}
	}

	resp, err := r.svc.client.Do(ctx, api.Request{Method: http.MethodPost, Path: api.PromotePath(r.SecurityKey)})
	if err != nil {
		return fmt.Errorf("promoting registration: %w", err)
	}
	if !resp.OK() {
		log.Warn(log.CatRegistration, "promotion rejected", "key", r.SecurityKey, "status", resp.StatusCode)
		return &PromoteError{
			ServerError: newServerError(resp.StatusCode, resp.Text(), defaultPromoteMessage),
			SecurityKey: r.SecurityKey,
		}
	}

	r.IsOnWaitingList = false
	log.Info(log.CatRegistration, "registration promoted", "key", r.SecurityKey)
	return nil
}
