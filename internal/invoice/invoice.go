// Package invoice fetches and formats registration invoices. Amounts are
// integer cents throughout.
package invoice

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LineItem is one billed row.
type LineItem struct {
	Description string `json:"description"`
	UnitPrice   int64  `json:"unitPrice"`
	Count       int64  `json:"count"`
}

// Amount is the row total in cents.
func (li LineItem) Amount() int64 {
	return li.Count * li.UnitPrice
}

// Invoice is a read-only projection of what a group owes.
type Invoice struct {
	ID        uint64     `json:"id"`
	To        string     `json:"to"`
	LineItems []LineItem `json:"lineItems"`
	Created   time.Time  `json:"created"`
}

// Total sums every line item in cents.
func (inv Invoice) Total() int64 {
	return Sum(inv.LineItems)
}

// Sum adds count × unit price over items.
func Sum(items []LineItem) int64 {
	var total int64
	for _, li := range items {
		total += li.Amount()
	}
	return total
}

// CentsToDollars formats cents as a decimal dollar amount: 1562 → "15.62", 2 → "0.02".
func CentsToDollars(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
	}

	digits := strconv.FormatUint(absCents(cents), 10)
	if len(digits) < 3 {
		digits = strings.Repeat("0", 3-len(digits)) + digits
	}
	return sign + digits[:len(digits)-2] + "." + digits[len(digits)-2:]
}

func absCents(c int64) uint64 {
	if c < 0 {
		return uint64(-(c + 1)) + 1
	}
	return uint64(c)
}

// FormatTime renders t in loc using a Go layout. A nil loc means UTC.
func FormatTime(t time.Time, layout string, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(layout)
}

// Markdown renders inv as a markdown document with a line item table.
func Markdown(inv Invoice, layout string, loc *time.Location) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Invoice %d\n\n", inv.ID)
	fmt.Fprintf(&b, "**To:** %s  \n", escape(inv.To))
	fmt.Fprintf(&b, "**Created:** %s\n\n", FormatTime(inv.Created, layout, loc))

	b.WriteString("| Description | Unit price | Count | Amount |\n")
	b.WriteString("|---|--:|--:|--:|\n")
	for _, li := range inv.LineItems {
		fmt.Fprintf(&b, "| %s | $%s | %d | $%s |\n",
			escape(li.Description), CentsToDollars(li.UnitPrice), li.Count, CentsToDollars(li.Amount()))
	}
	fmt.Fprintf(&b, "| **Total** | | | **$%s** |\n", CentsToDollars(inv.Total()))

	return b.String()
}

// escape keeps user text from breaking the table layout.
func escape(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
