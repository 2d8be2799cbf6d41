package registration

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newClock() *stepClock {
	return &stepClock{t: time.Date(2016, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func TestAgreedToEmailTerms_UnsetByDefault(t *testing.T) {
	r := NewService(nil, newClock()).New()
	require.False(t, r.AgreedToEmailTerms())
	require.False(t, r.ValidatedEmail())
	require.False(t, r.Saved())
}

func TestAgreedToEmailTerms_ZeroDateIsUnset(t *testing.T) {
	var r Registration
	err := json.Unmarshal([]byte(`{
		"securityKey": "abc",
		"emailApprovalGivenAt": "0001-01-01T00:00:00Z",
		"validatedOn": "0001-01-01T00:00:00Z"
	}`), &r)
	require.NoError(t, err)

	require.Nil(t, r.EmailApprovalGivenAt)
	require.Nil(t, r.ValidatedOn)
	require.False(t, r.AgreedToEmailTerms())
	require.False(t, r.ValidatedEmail())
}

func TestAgreedToEmailTerms_RealTimestampIsSet(t *testing.T) {
	var r Registration
	err := json.Unmarshal([]byte(`{
		"emailApprovalGivenAt": "2016-02-01T10:00:00Z",
		"validatedOn": "2016-02-02T11:30:00-08:00"
	}`), &r)
	require.NoError(t, err)

	require.True(t, r.AgreedToEmailTerms())
	require.True(t, r.ValidatedEmail())
	require.Equal(t, time.Date(2016, 2, 1, 10, 0, 0, 0, time.UTC), r.EmailApprovalGivenAt.UTC())
}

func TestSetAgreedToEmailTerms_IdempotentAgree(t *testing.T) {
	clock := newClock()
	r := NewService(nil, clock).New()

	require.True(t, r.SetAgreedToEmailTerms(true))
	first := *r.EmailApprovalGivenAt

	require.True(t, r.SetAgreedToEmailTerms(true))
	require.Equal(t, first, *r.EmailApprovalGivenAt)

	require.False(t, r.SetAgreedToEmailTerms(false))
	require.Nil(t, r.EmailApprovalGivenAt)

	require.True(t, r.SetAgreedToEmailTerms(true))
	require.True(t, r.EmailApprovalGivenAt.After(first))
}

func TestSetAgreedToEmailTerms_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		clock := newClock()
		r := NewService(nil, clock).New()
		if rapid.Bool().Draw(t, "startAgreed") {
			start := time.Date(2015, 12, 1, 0, 0, 0, 0, time.UTC)
			r.EmailApprovalGivenAt = &start
		}

		var expected *time.Time
		if r.EmailApprovalGivenAt != nil {
			v := *r.EmailApprovalGivenAt
			expected = &v
		}

		steps := rapid.SliceOf(rapid.Bool()).Draw(t, "steps")
		for _, checked := range steps {
			got := r.SetAgreedToEmailTerms(checked)
			if got != checked {
				t.Fatalf("setter returned %v for %v", got, checked)
			}
			switch {
			case !checked:
				expected = nil
			case expected == nil:
				v := *r.EmailApprovalGivenAt
				expected = &v
			}

			if checked != r.AgreedToEmailTerms() {
				t.Fatalf("getter %v after set(%v)", r.AgreedToEmailTerms(), checked)
			}
			if expected == nil && r.EmailApprovalGivenAt != nil {
				t.Fatalf("timestamp should be cleared")
			}
			if expected != nil && !expected.Equal(*r.EmailApprovalGivenAt) {
				t.Fatalf("timestamp changed from %v to %v", expected, r.EmailApprovalGivenAt)
			}
		}
	})
}

func TestUnmarshalJSON_MergesIntoExisting(t *testing.T) {
	svc := NewService(nil, newClock())
	r := svc.New()
	r.GroupName = "1st Burnaby"
	r.Council = "Fraser Valley"
	r.SetAgreedToEmailTerms(true)
	agreed := *r.EmailApprovalGivenAt

	require.NoError(t, json.Unmarshal([]byte(`{"securityKey":"abc123"}`), r))

	require.Equal(t, "abc123", r.SecurityKey)
	require.Equal(t, "1st Burnaby", r.GroupName)
	require.Equal(t, agreed, *r.EmailApprovalGivenAt)
	require.Same(t, svc, r.svc)
}

func TestMarshalJSON_OmitsUnsetTimestamps(t *testing.T) {
	r := NewService(nil, newClock()).New()
	r.GroupName = "1st Burnaby"

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	require.NotContains(t, fields, "emailApprovalGivenAt")
	require.NotContains(t, fields, "validatedOn")
	require.NotContains(t, fields, "securityKey")
	require.Equal(t, "1st Burnaby", fields["groupName"])

	r.SetAgreedToEmailTerms(true)
	data, err = json.Marshal(r)
	require.NoError(t, err)
	require.Contains(t, string(data), `"emailApprovalGivenAt":"2016-01-02T03:05:05Z"`)
}

func TestDisplayName(t *testing.T) {
	r := &Registration{GroupName: "1st Burnaby", Council: "Fraser Valley"}
	require.Equal(t, " - 1st Burnaby of Fraser Valley", r.DisplayName())

	r.PackName = "Cubs"
	require.Equal(t, " - 1st Burnaby of Fraser Valley (Cubs)", r.DisplayName())
}

func TestMissing(t *testing.T) {
	r := &Registration{}
	require.Equal(t, []string{
		"council",
		"groupName",
		"contactLeaderFirstName",
		"contactLeaderLastName",
		"contactLeaderEmail",
		"contactLeaderPhoneNumber",
	}, r.Missing())

	r = &Registration{
		Council:                  "Fraser Valley",
		GroupName:                "1st Burnaby",
		ContactLeaderFirstName:   "Ada",
		ContactLeaderLastName:    "Lovelace",
		ContactLeaderEmail:       "ada@example.com",
		ContactLeaderPhoneNumber: "555-1234",
		EstimatedYouth:           -1,
	}
	require.Equal(t, []string{"estimatedYouth"}, r.Missing())
	require.Equal(t, "Ada Lovelace", r.ContactLeaderName())
}

func TestAddressEmpty(t *testing.T) {
	require.True(t, Address{}.Empty())
	require.False(t, Address{City: "Burnaby"}.Empty())
}
