// Package markdown renders invoices and summaries for the terminal.
package markdown

import (
	"github.com/charmbracelet/glamour"
)

// noMarginStyle removes glamour's document margin so content lines up
// with the header.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps a glamour TermRenderer.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
	style    string
}

// New creates a renderer wrapping at width. style is "dark", "light",
// "notty" or "auto"; anything else falls back to "dark".
func New(width int, style string) (*Renderer, error) {
	styleOpt := glamour.WithStandardStyle(standardStyle(style))
	if style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width, style: style}, nil
}

func standardStyle(style string) string {
	switch style {
	case "light", "notty":
		return style
	default:
		return "dark"
	}
}

// Width returns the wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Style returns the configured style name.
func (r *Renderer) Style() string {
	return r.style
}

// Render converts markdown to styled terminal text.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}
