package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ccj16/regdesk/internal/invoice"
	"github.com/ccj16/regdesk/internal/registration"
	"github.com/ccj16/regdesk/internal/summary"
)

func TestBackend_CreateAndFetch(t *testing.T) {
	b := NewBackend(t, WithWaitingList())
	svc := Services(t, b)

	reg := svc.Registrations.New()
	reg.Council = "Fraser Valley"
	reg.GroupName = "1st Burnaby"
	reg.ContactLeaderFirstName = "Sam"
	reg.ContactLeaderLastName = "Lee"
	reg.ContactLeaderEmail = "sam@example.org"
	reg.ContactLeaderPhoneNumber = "604-555-0100"
	reg.SetAgreedToEmailTerms(true)
	require.NoError(t, reg.Save(context.Background()))
	require.Equal(t, "key-1", reg.SecurityKey)
	require.True(t, reg.IsOnWaitingList)

	got, err := svc.Registrations.Get(context.Background(), "key-1")
	require.NoError(t, err)
	require.Equal(t, "1st Burnaby", got.GroupName)

	require.NoError(t, got.Promote(context.Background()))
	stored, ok := b.Registration("key-1")
	require.True(t, ok)
	require.False(t, stored.IsOnWaitingList)
}

func TestBackend_ListRequiresLogin(t *testing.T) {
	b := NewBackend(t, WithRegistration(registration.Registration{SecurityKey: "k1", GroupName: "A"}))
	svc := Services(t, b)

	_, err := svc.Registrations.List(context.Background())
	require.Error(t, err)

	ok, err := svc.Session.TryToken(context.Background(), "good-code")
	require.NoError(t, err)
	require.True(t, ok)

	regs, err := svc.Registrations.List(context.Background())
	require.NoError(t, err)
	require.Len(t, regs, 1)
}

func TestBackend_Failure(t *testing.T) {
	b := NewBackend(t,
		WithPack(summary.PackSummary{YouthCount: 3}),
		WithFailure("GET /api/summary/pack", Failure{Status: 500, Body: "down"}),
	)
	svc := Services(t, b)

	_, err := svc.Summary.GetPack(context.Background())
	require.Error(t, err)
	require.Contains(t, b.Requests(), "GET /api/summary/pack")
}

func TestBackend_ConfirmToken(t *testing.T) {
	b := NewBackend(t, WithConfirmToken("sam@example.org", "tok"))
	svc := Services(t, b)

	require.NoError(t, svc.Registrations.ConfirmEmail(context.Background(), "sam@example.org", "tok"))
	require.Error(t, svc.Registrations.ConfirmEmail(context.Background(), "sam@example.org", "bad"))
}

func TestBackend_InvoiceWithoutRegistration(t *testing.T) {
	inv := invoice.Invoice{ID: 7, To: "1st Burnaby"}
	b := NewBackend(t, WithInvoice("k1", inv))
	svc := Services(t, b)

	got, err := svc.Invoices.GetByRegistration(context.Background(), "k1")
	require.NoError(t, err)
	require.Equal(t, uint64(7), got.ID)

	_, err = svc.Invoices.GetByRegistration(context.Background(), "missing")
	require.Error(t, err)
}
