// Package registration models one group pre-registration and the
// operations the backend exposes for it: one-shot create, promotion off the
// waiting list, and email confirmation.
package registration

import (
	"encoding/json"
	"strings"
	"time"
)

// Address is the contact leader's mailing address.
type Address struct {
	Address1   string `json:"address1"`
	Address2   string `json:"address2"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
}

// Empty reports whether no address line has been filled in.
func (a Address) Empty() bool {
	return a == Address{}
}

// Registration is one group's pre-registration record. An empty SecurityKey
// marks a draft that has not been saved yet.
type Registration struct {
	SecurityKey string `json:"securityKey,omitempty"`

	Council   string `json:"council"`
	GroupName string `json:"groupName"`
	PackName  string `json:"packName"`

	ContactLeaderFirstName   string  `json:"contactLeaderFirstName"`
	ContactLeaderLastName    string  `json:"contactLeaderLastName"`
	ContactLeaderEmail       string  `json:"contactLeaderEmail"`
	ContactLeaderPhoneNumber string  `json:"contactLeaderPhoneNumber"`
	ContactLeaderAddress     Address `json:"contactLeaderAddress"`

	EstimatedYouth   int `json:"estimatedYouth"`
	EstimatedLeaders int `json:"estimatedLeaders"`

	// Nil means unset. The backend's zero-date is mapped to nil on decode.
	EmailApprovalGivenAt *time.Time `json:"emailApprovalGivenAt,omitempty"`
	ValidatedOn          *time.Time `json:"validatedOn,omitempty"`

	IsOnWaitingList bool `json:"isOnWaitingList"`

	svc *Service
}

// Saved reports whether the backend has assigned an identity.
func (r *Registration) Saved() bool {
	return r.SecurityKey != ""
}

// AgreedToEmailTerms reports whether the contact leader agreed to receive email.
func (r *Registration) AgreedToEmailTerms() bool {
	return r.EmailApprovalGivenAt != nil
}

// SetAgreedToEmailTerms records or clears email agreement and returns the
// resulting state. Agreeing again keeps the original timestamp.
func (r *Registration) SetAgreedToEmailTerms(checked bool) bool {
	if !checked {
		r.EmailApprovalGivenAt = nil
		return false
	}
	if r.EmailApprovalGivenAt == nil {
		now := r.now()
		r.EmailApprovalGivenAt = &now
	}
	return true
}

// ValidatedEmail reports whether the contact email has been confirmed.
func (r *Registration) ValidatedEmail() bool {
	return r.ValidatedOn != nil
}

// ContactLeaderName joins first and last name.
func (r *Registration) ContactLeaderName() string {
	return strings.TrimSpace(r.ContactLeaderFirstName + " " + r.ContactLeaderLastName)
}

// DisplayName is the header suffix for the group currently on screen,
// e.g. " - 1st Burnaby of Fraser Valley (Cubs)".
func (r *Registration) DisplayName() string {
	name := " - " + r.GroupName + " of " + r.Council
	if r.PackName != "" {
		name += " (" + r.PackName + ")"
	}
	return name
}

// Missing lists the JSON names of required fields that are still blank.
func (r *Registration) Missing() []string {
	required := []struct {
		name  string
		value string
	}{
		{"council", r.Council},
		{"groupName", r.GroupName},
		{"contactLeaderFirstName", r.ContactLeaderFirstName},
		{"contactLeaderLastName", r.ContactLeaderLastName},
		{"contactLeaderEmail", r.ContactLeaderEmail},
		{"contactLeaderPhoneNumber", r.ContactLeaderPhoneNumber},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if r.EstimatedYouth < 0 {
		missing = append(missing, "estimatedYouth")
	}
	if r.EstimatedLeaders < 0 {
		missing = append(missing, "estimatedLeaders")
	}
	return missing
}

func (r *Registration) now() time.Time {
	if r.svc != nil && r.svc.clock != nil {
		return r.svc.clock.Now()
	}
	return time.Now()
}

// plain strips the custom decoder so json can fill fields directly.
type plain Registration

// UnmarshalJSON merges data into r. Fields absent from data keep their
// current values and zero-date timestamps become nil.
func (r *Registration) UnmarshalJSON(data []byte) error {
	p := plain(*r)
	p.EmailApprovalGivenAt = clone(p.EmailApprovalGivenAt)
	p.ValidatedOn = clone(p.ValidatedOn)
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	p.EmailApprovalGivenAt = unsetIfZero(p.EmailApprovalGivenAt)
	p.ValidatedOn = unsetIfZero(p.ValidatedOn)
	p.svc = r.svc
	*r = Registration(p)
	return nil
}

func clone(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func unsetIfZero(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	return t
}
