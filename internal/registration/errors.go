package registration

import (
	"fmt"
	"strings"
)

// NotOnWaitingListMessage is the rejection for promoting a group that is not waiting.
const NotOnWaitingListMessage = "Group is not on the waiting list"

// Fallback messages used when the backend returns an empty body.
const (
	defaultSaveMessage    = "Failed to save registration"
	defaultPromoteMessage = "Failed to promote registration"
	defaultConfirmMessage = "Failed to confirm email address"
)

// ValidationError is a client-side precondition failure; no request was sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotEligibleError is a business-rule rejection; no request was sent.
type NotEligibleError struct {
	SecurityKey string
}

func (e *NotEligibleError) Error() string { return NotOnWaitingListMessage }

// ServerError is a non-2xx backend response. Message is what the user sees.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e ServerError) Error() string { return e.Message }

func newServerError(statusCode int, body, fallback string) ServerError {
	msg := strings.TrimSpace(body)
	if msg == "" {
		msg = fallback
	}
	return ServerError{StatusCode: statusCode, Message: msg}
}

// SaveError reports a rejected create.
type SaveError struct{ ServerError }

// PromoteError reports a rejected promotion.
type PromoteError struct {
	ServerError
	SecurityKey string
}

// ConfirmError reports a rejected email confirmation.
type ConfirmError struct {
	ServerError
	Email string
}
