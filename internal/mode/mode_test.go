package mode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRoute(t *testing.T) {
	tests := []struct {
		in   string
		want Route
	}{
		{"/register", Route{Kind: RouteRegister}},
		{"/", Route{Kind: RouteRegister}},
		{"", Route{Kind: RouteRegister}},
		{"/registration/abc123", Route{Kind: RouteRegistration, Key: "abc123"}},
		{"/registration/abc123/", Route{Kind: RouteRegistration, Key: "abc123"}},
		{"/registration/a%2Fb", Route{Kind: RouteRegister}},
		{"/registration/abc123/invoice", Route{Kind: RouteInvoice, Key: "abc123"}},
		{"/registration/abc123/other", Route{Kind: RouteRegister}},
		{"/registration/", Route{Kind: RouteRegister}},
		{"/admin/", Route{Kind: RouteAdmin}},
		{"/admin/recordlist", Route{Kind: RouteRecordList}},
		{"/admin/waitinglist", Route{Kind: RouteWaitingList}},
		{"/login", Route{Kind: RouteLogin}},
		{"/summary/pack", Route{Kind: RouteSummary}},
		{"/receipts", Route{Kind: RouteReceipts}},
		{"/confirmpreregistration?email=a%40b.org&token=t1", Route{Kind: RouteConfirm, Email: "a@b.org", Token: "t1"}},
		{"/confirmpreregistration", Route{Kind: RouteConfirm}},
		{"/nowhere", Route{Kind: RouteRegister}},
		{"%zz", Route{Kind: RouteRegister}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, ParseRoute(tt.in))
		})
	}
}

func TestRoute_PathRoundTrip(t *testing.T) {
	routes := []Route{
		{Kind: RouteRegister},
		Registration("k 1"),
		Invoice("k1"),
		{Kind: RouteAdmin},
		{Kind: RouteRecordList},
		{Kind: RouteWaitingList},
		{Kind: RouteLogin},
		{Kind: RouteSummary},
		{Kind: RouteReceipts},
		{Kind: RouteConfirm, Email: "leader@example.org", Token: "abc"},
		{Kind: RouteConfirm},
	}
	for _, r := range routes {
		require.Equal(t, r, ParseRoute(r.Path()), r.Path())
	}
}

func TestRoute_RequiresLogin(t *testing.T) {
	require.True(t, Route{Kind: RouteAdmin}.RequiresLogin())
	require.True(t, Route{Kind: RouteRecordList}.RequiresLogin())
	require.True(t, Route{Kind: RouteWaitingList}.RequiresLogin())
	require.False(t, Route{Kind: RouteSummary}.RequiresLogin())
	require.False(t, Registration("k").RequiresLogin())
}

func TestCommands(t *testing.T) {
	require.Equal(t, NavigateMsg{Route: Invoice("k")}, Navigate(Invoice("k"))())
	require.Equal(t, SetHeaderMsg{DisplayName: " - x of y"}, SetHeader(" - x of y")())
}
