package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ccj16/regdesk/internal/api"
	"github.com/ccj16/regdesk/internal/auth"
	"github.com/ccj16/regdesk/internal/registration"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2016, 1, 2, 3, 4, 5, 0, time.UTC) }

func newService(t *testing.T, h http.HandlerFunc) *registration.Service {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	client, err := api.New(api.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return registration.NewService(client, fixedClock{})
}

func completeDraft(svc *registration.Service) *registration.Registration {
	r := svc.New()
	r.Council = "Fraser Valley"
	r.GroupName = "1st Burnaby"
	r.ContactLeaderFirstName = "Ada"
	r.ContactLeaderLastName = "Lovelace"
	r.ContactLeaderEmail = "ada@example.com"
	r.ContactLeaderPhoneNumber = "555-1234"
	return r
}

func TestSubmission_HappyPath(t *testing.T) {
	var s Submission
	require.Equal(t, Idle, s.State())

	s, err := s.Begin(OpSave)
	require.NoError(t, err)
	require.True(t, s.Busy())

	s = s.Finish(DoneMsg{Op: OpSave, Key: "abc123"})
	require.Equal(t, Succeeded, s.State())
	require.Equal(t, "abc123", s.Key())
}

func TestSubmission_FailureThenResubmit(t *testing.T) {
	s, err := Submission{}.Begin(OpSave)
	require.NoError(t, err)

	s = s.Finish(DoneMsg{Op: OpSave, Err: &registration.SaveError{
		ServerError: registration.ServerError{StatusCode: 500, Message: "Failed to insert record"},
	}})
	require.Equal(t, Failed, s.State())
	require.Equal(t, "Failed to insert record", s.Message())

	s = s.Reset()
	require.Equal(t, Idle, s.State())
	require.Empty(t, s.Message())

	s, err = s.Begin(OpSave)
	require.NoError(t, err)
	require.Equal(t, Submitting, s.State())
}

func TestSubmission_BusyRejectsSecondBegin(t *testing.T) {
	s, err := Submission{}.Begin(OpPromote)
	require.NoError(t, err)

	_, err = s.Begin(OpPromote)
	require.ErrorIs(t, err, ErrBusy)
}

func TestSubmission_IgnoresStrayMessages(t *testing.T) {
	var idle Submission
	require.Equal(t, Idle, idle.Finish(DoneMsg{Op: OpSave}).State())

	s, err := idle.Begin(OpSave)
	require.NoError(t, err)
	require.Equal(t, Submitting, s.Finish(DoneMsg{Op: OpPromote}).State())
}

func TestSubmission_Transitions(t *testing.T) {
	ops := []Op{OpSave, OpPromote, OpConfirm, OpLogin}

	rapid.Check(t, func(t *rapid.T) {
		var s Submission
		for i := 0; i < 30; i++ {
			before := s.State()
			switch rapid.IntRange(0, 2).Draw(t, "action") {
			case 0:
				next, err := s.Begin(rapid.SampledFrom(ops).Draw(t, "op"))
				if before == Submitting {
					if !errors.Is(err, ErrBusy) || next.State() != Submitting {
						t.Fatalf("begin while submitting must fail")
					}
				} else if err != nil || next.State() != Submitting {
					t.Fatalf("begin from %v must submit", before)
				}
				s = next
			case 1:
				var err error
				if rapid.Bool().Draw(t, "fail") {
					err = errors.New("nope")
				}
				next := s.Finish(DoneMsg{Op: s.Op(), Err: err})
				switch {
				case before != Submitting && next.State() != before:
					t.Fatalf("finish outside submitting changed %v to %v", before, next.State())
				case before == Submitting && err != nil && next.State() != Failed:
					t.Fatalf("error must fail")
				case before == Submitting && err == nil && next.State() != Succeeded:
					t.Fatalf("success must succeed")
				}
				s = next
			case 2:
				s = s.Reset()
				if s.State() != Idle {
					t.Fatalf("reset must idle")
				}
			}
		}
	})
}

func TestCanSubmit(t *testing.T) {
	svc := registration.NewService(nil, fixedClock{})
	require.False(t, CanSubmit(nil))

	r := completeDraft(svc)
	require.False(t, CanSubmit(r), "agreement required")

	r.SetAgreedToEmailTerms(true)
	require.True(t, CanSubmit(r))

	r.ContactLeaderEmail = ""
	require.False(t, CanSubmit(r), "required fields")

	r.ContactLeaderEmail = "ada@example.com"
	r.SecurityKey = "abc"
	require.False(t, CanSubmit(r), "already saved")
}

func TestUserMessage(t *testing.T) {
	require.Empty(t, UserMessage(nil))
	require.Equal(t, "Group is not on the waiting list", UserMessage(&registration.NotEligibleError{}))
	require.Equal(t, "Error message", UserMessage(&registration.PromoteError{
		ServerError: registration.ServerError{Message: "Error message"},
	}))
	require.Equal(t, TransportMessage, UserMessage(&api.TransportError{Method: "GET", Path: "/api", Err: errors.New("refused")}))
	require.Equal(t, "nope", UserMessage(&api.StatusError{StatusCode: 404, Body: "nope\n"}))
}

func TestUserError(t *testing.T) {
	require.NoError(t, UserError(nil))

	cause := &registration.SaveError{ServerError: registration.ServerError{StatusCode: 400, Message: "Group already registered"}}
	err := UserError(fmt.Errorf("saving: %w", cause))
	require.EqualError(t, err, "Group already registered")

	var saveErr *registration.SaveError
	require.ErrorAs(t, err, &saveErr)
	require.Equal(t, 400, saveErr.StatusCode)
	require.ErrorIs(t, err, cause)
}

func TestSaveCmd(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"securityKey":"abc123"}`)
	})
	draft := completeDraft(svc)
	draft.SetAgreedToEmailTerms(true)

	msg := Save(context.Background(), draft)()

	done, ok := msg.(DoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	require.Equal(t, OpSave, done.Op)
	require.Equal(t, "abc123", done.Key)
	require.Equal(t, "abc123", done.Registration.SecurityKey)
	require.False(t, draft.Saved(), "the caller's draft is left untouched")
}

func TestSaveCmd_Failure(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Failed to insert record", http.StatusInternalServerError)
	})
	draft := completeDraft(svc)

	done := Save(context.Background(), draft)().(DoneMsg)

	s, err := Submission{}.Begin(OpSave)
	require.NoError(t, err)
	s = s.Finish(done)
	require.Equal(t, Failed, s.State())
	require.Equal(t, "Failed to insert record", s.Message())
}

func TestPromoteCmd(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	reg := completeDraft(svc)
	reg.SecurityKey = "abc123"
	reg.IsOnWaitingList = true

	done := Promote(context.Background(), reg)().(DoneMsg)
	require.NoError(t, done.Err)
	require.False(t, done.Registration.IsOnWaitingList)
	require.True(t, reg.IsOnWaitingList)
}

func TestConfirmCmd(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	done := Confirm(context.Background(), svc, "test@example.com", "validToken")().(DoneMsg)
	require.Equal(t, OpConfirm, done.Op)
	require.NoError(t, done.Err)
}

func TestLoginCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "true")
	}))
	t.Cleanup(srv.Close)
	client, err := api.New(api.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	session := auth.NewSession(client)
	t.Cleanup(session.Close)

	done := Login(context.Background(), session, "code")().(DoneMsg)
	require.Equal(t, OpLogin, done.Op)
	require.NoError(t, done.Err)
	require.True(t, done.LoggedIn)
}
