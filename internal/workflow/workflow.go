// Package workflow drives the user-facing submit flows: create, promote,
// confirm and login. A Submission moves Idle → Submitting → Succeeded or
// Failed, and a failed submission can be resubmitted.
package workflow

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ccj16/regdesk/internal/api"
	"github.com/ccj16/regdesk/internal/auth"
	"github.com/ccj16/regdesk/internal/log"
	"github.com/ccj16/regdesk/internal/registration"
)

// State of a submission.
type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Op names the operation being submitted.
type Op string

const (
	OpSave    Op = "save"
	OpPromote Op = "promote"
	OpConfirm Op = "confirm"
	OpLogin   Op = "login"
)

// ErrBusy is returned by Begin while a submission is in flight.
var ErrBusy = errors.New("a submission is already in progress")

// TransportMessage is shown when the backend could not be reached.
const TransportMessage = "Could not reach the registration server. Please check your connection and try again."

// DoneMsg reports the outcome of a submitted operation. Registration is
// the updated copy for save and promote.
type DoneMsg struct {
	Op           Op
	Key          string
	Registration *registration.Registration
	LoggedIn     bool
	Err          error
}

// Submission tracks one form's submit state. The zero value is Idle.
type Submission struct {
	state   State
	op      Op
	key     string
	message string
}

// State returns the current state.
func (s Submission) State() State { return s.state }

// Busy reports whether a request is in flight.
func (s Submission) Busy() bool { return s.state == Submitting }

// Op returns the operation last begun.
func (s Submission) Op() Op { return s.op }

// Key is the security key assigned by a successful save or promote.
func (s Submission) Key() string { return s.key }

// Message is the error text of a failed submission.
func (s Submission) Message() string { return s.message }

// Begin moves to Submitting. Only one submission may be in flight.
func (s Submission) Begin(op Op) (Submission, error) {
	if s.state == Submitting {
		return s, ErrBusy
	}
	log.Debug(log.CatWorkflow, "submission started", "op", op, "from", s.state)
	return Submission{state: Submitting, op: op}, nil
}

// Finish applies the outcome of the in-flight operation. Messages for other
// operations, or arriving when nothing is in flight, are ignored.
func (s Submission) Finish(msg DoneMsg) Submission {
	if s.state != Submitting || msg.Op != s.op {
		return s
	}
	if msg.Err != nil {
		s.state = Failed
		s.message = UserMessage(msg.Err)
		log.ErrorErr(log.CatWorkflow, "submission failed", msg.Err, "op", msg.Op)
		return s
	}
	s.state = Succeeded
	s.key = msg.Key
	log.Info(log.CatWorkflow, "submission succeeded", "op", msg.Op, "key", msg.Key)
	return s
}

// Reset returns to Idle, e.g. after the error dialog is dismissed.
func (s Submission) Reset() Submission {
	return Submission{}
}

// CanSubmit gates the registration form's submit button.
func CanSubmit(reg *registration.Registration) bool {
	return reg != nil && !reg.Saved() && reg.AgreedToEmailTerms() && len(reg.Missing()) == 0
}

// UserMessage converts err into the text for an error dialog. Server
// messages are shown verbatim.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		saveErr    *registration.SaveError
		promoteErr *registration.PromoteError
		confirmErr *registration.ConfirmError
		statusErr  *api.StatusError
	)
	switch {
	case errors.As(err, &saveErr):
		return saveErr.Message
	case errors.As(err, &promoteErr):
		return promoteErr.Message
	case errors.As(err, &confirmErr):
		return confirmErr.Message
	case api.IsTransport(err):
		return TransportMessage
	case errors.As(err, &statusErr) && statusErr.Message() != "":
		return statusErr.Message()
	default:
		return err.Error()
	}
}

// UserError wraps err so it prints as UserMessage(err) while errors.Is and
// errors.As still reach the original.
func UserError(err error) error {
	if err == nil {
		return nil
	}
	return &userError{err: err}
}

type userError struct{ err error }

func (e *userError) Error() string { return UserMessage(e.err) }
func (e *userError) Unwrap() error { return e.err }

// Save submits a new registration. It works on a copy so the caller's
// draft is untouched while the request is in flight.
func Save(ctx context.Context, reg *registration.Registration) tea.Cmd {
	draft := *reg
	return func() tea.Msg {
		err := draft.Save(ctx)
		return DoneMsg{Op: OpSave, Key: draft.SecurityKey, Registration: &draft, Err: err}
	}
}

// Promote submits a waiting-list promotion on a copy of reg.
func Promote(ctx context.Context, reg *registration.Registration) tea.Cmd {
	target := *reg
	return func() tea.Msg {
		err := target.Promote(ctx)
		return DoneMsg{Op: OpPromote, Key: target.SecurityKey, Registration: &target, Err: err}
	}
}

// Confirm redeems an email confirmation token.
func Confirm(ctx context.Context, svc *registration.Service, email, token string) tea.Cmd {
	return func() tea.Msg {
		return DoneMsg{Op: OpConfirm, Err: svc.ConfirmEmail(ctx, email, token)}
	}
}

// Login exchanges an authorization code for an admin session.
func Login(ctx context.Context, session *auth.Session, code string) tea.Cmd {
	return func() tea.Msg {
		ok, err := session.TryToken(ctx, code)
		return DoneMsg{Op: OpLogin, LoggedIn: ok, Err: err}
	}
}
