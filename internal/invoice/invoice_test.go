package invoice

import (
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCentsToDollars(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{1562, "15.62"},
		{52, "0.52"},
		{2, "0.02"},
		{0, "0.00"},
		{100, "1.00"},
		{-52, "-0.52"},
		{-123456, "-1234.56"},
		{math.MinInt64, "-92233720368547758.08"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, CentsToDollars(tt.cents))
		})
	}
}

func TestCentsToDollars_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cents := rapid.Int64Range(-1_000_000_000, 1_000_000_000).Draw(t, "cents")
		s := CentsToDollars(cents)

		dot := strings.LastIndexByte(s, '.')
		if dot < 0 || len(s)-dot-1 != 2 {
			t.Fatalf("%q must have exactly two decimals", s)
		}
		if cents >= 0 && strings.HasPrefix(s, "-") {
			t.Fatalf("%q has a sign for %d", s, cents)
		}

		whole := strings.TrimPrefix(s[:dot], "-")
		if len(whole) > 1 && whole[0] == '0' {
			t.Fatalf("%q has a leading zero", s)
		}

		back, err := strconv.ParseInt(strings.Replace(s, ".", "", 1), 10, 64)
		if err != nil || back != cents {
			t.Fatalf("%q does not parse back to %d", s, cents)
		}
	})
}

func TestSum(t *testing.T) {
	require.Zero(t, Sum(nil))
	require.Zero(t, Sum([]LineItem{}))
	require.EqualValues(t, 600, Sum([]LineItem{
		{Description: "Youth", Count: 20, UnitPrice: 5},
		{Description: "Leader", Count: 500, UnitPrice: 1},
	}))

	inv := Invoice{LineItems: []LineItem{{Count: 3, UnitPrice: 4000}}}
	require.EqualValues(t, 12000, inv.Total())
}

func TestFormatTime(t *testing.T) {
	created := time.Date(2016, 2, 1, 18, 30, 0, 0, time.UTC)
	vancouver, err := time.LoadLocation("America/Vancouver")
	require.NoError(t, err)

	require.Equal(t, "2016-02-01 10:30", FormatTime(created, "2006-01-02 15:04", vancouver))
	require.Equal(t, "2016-02-01 18:30", FormatTime(created, "2006-01-02 15:04", nil))
}

func TestMarkdown(t *testing.T) {
	inv := Invoice{
		ID: 7,
		To: "1st Burnaby | Cubs",
		LineItems: []LineItem{
			{Description: "Youth registration", UnitPrice: 4000, Count: 12},
			{Description: "Leader registration", UnitPrice: 2500, Count: 3},
		},
		Created: time.Date(2016, 2, 1, 18, 30, 0, 0, time.UTC),
	}

	md := Markdown(inv, "2006-01-02", time.UTC)

	require.Contains(t, md, "# Invoice 7")
	require.Contains(t, md, `1st Burnaby \| Cubs`)
	require.Contains(t, md, "**Created:** 2016-02-01")
	require.Contains(t, md, "| Youth registration | $40.00 | 12 | $480.00 |")
	require.Contains(t, md, "| Leader registration | $25.00 | 3 | $75.00 |")
	require.Contains(t, md, "**$555.00**")
}
