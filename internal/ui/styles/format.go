package styles

import (
	"github.com/mattn/go-runewidth"
)

// TruncateString fits s into maxWidth terminal cells, ending with "..."
// when shortened. Wide runes count as two cells.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// PadRight pads s with spaces to exactly width cells, truncating if longer.
func PadRight(s string, width int) string {
	return runewidth.FillRight(TruncateString(s, width), width)
}
