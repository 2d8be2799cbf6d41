// Package form is a vertical form of text inputs and checkboxes followed by
// a submit button that the owner enables or disables.
package form

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/ccj16/regdesk/internal/ui/styles"
)

// Kind is the field type.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindCheckbox
)

// Field configures one row.
type Field struct {
	Key         string
	Label       string
	Placeholder string
	Kind        Kind
	Required    bool
	Value       string // initial text
	Checked     bool   // initial checkbox state
	CharLimit   int
}

// SubmitMsg is sent when the enabled submit button is pressed.
type SubmitMsg struct{ FormID string }

// ToggledMsg is sent when a checkbox is toggled. The owner decides the
// resulting state and calls SetChecked.
type ToggledMsg struct {
	FormID  string
	Key     string
	Checked bool
}

type row struct {
	field   Field
	input   textinput.Model
	checked bool
}

// Model is the form state.
type Model struct {
	id            string
	title         string
	submitLabel   string
	rows          []row
	focus         int // len(rows) means the submit button
	submitEnabled bool
	labelWidth    int
	width         int
}

// New builds a form. The first row is focused.
func New(id, title, submitLabel string, fields []Field) Model {
	m := Model{id: id, title: title, submitLabel: submitLabel, width: 72}
	for _, f := range fields {
		r := row{field: f, checked: f.Checked}
		if f.Kind != KindCheckbox {
			ti := textinput.New()
			ti.Prompt = ""
			ti.Placeholder = f.Placeholder
			if f.CharLimit > 0 {
				ti.CharLimit = f.CharLimit
			}
			if f.Kind == KindNumber {
				f.Value = keepDigits(f.Value)
			}
			ti.SetValue(f.Value)
			r.input = ti
		}
		m.labelWidth = max(m.labelWidth, len(f.Label)+2)
		m.rows = append(m.rows, r)
	}
	m.SetWidth(m.width)
	m.focusRow(0)
	return m
}

func keepDigits(s string) string {
	return strings.Map(func(c rune) rune {
		if c < '0' || c > '9' {
			return -1
		}
		return c
	}, s)
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetWidth sets the outer width of the form box.
func (m *Model) SetWidth(width int) {
	m.width = max(width, 30)
	for i := range m.rows {
		m.rows[i].input.Width = max(m.width-m.labelWidth-8, 10)
	}
}

// SetSubmitEnabled enables or disables the submit button.
func (m *Model) SetSubmitEnabled(enabled bool) {
	m.submitEnabled = enabled
}

// SubmitEnabled reports the button state.
func (m Model) SubmitEnabled() bool {
	return m.submitEnabled
}

// Value returns the trimmed text of the field with key.
func (m Model) Value(key string) string {
	for _, r := range m.rows {
		if r.field.Key == key {
			return strings.TrimSpace(r.input.Value())
		}
	}
	return ""
}

// Checked returns the checkbox state of the field with key.
func (m Model) Checked(key string) bool {
	for _, r := range m.rows {
		if r.field.Key == key {
			return r.checked
		}
	}
	return false
}

// SetChecked sets a checkbox.
func (m *Model) SetChecked(key string, checked bool) {
	for i := range m.rows {
		if m.rows[i].field.Key == key {
			m.rows[i].checked = checked
		}
	}
}

// FocusedKey returns the key of the focused field, or "" on the button.
func (m Model) FocusedKey() string {
	if m.focus < len(m.rows) {
		return m.rows[m.focus].field.Key
	}
	return ""
}

func (m *Model) focusRow(i int) {
	if m.focus < len(m.rows) {
		m.rows[m.focus].input.Blur()
	}
	n := len(m.rows) + 1
	m.focus = ((i % n) + n) % n
	if m.focus < len(m.rows) && m.rows[m.focus].field.Kind != KindCheckbox {
		m.rows[m.focus].input.Focus()
	}
}

func (m Model) rowZone(i int) string { return fmt.Sprintf("form-%s-row-%d", m.id, i) }
func (m Model) submitZone() string  { return "form-" + m.id + "-submit" }

// Update handles navigation, editing, toggles and submit.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			m.focusRow(m.focus + 1)
			return m, nil
		case "shift+tab", "up":
			m.focusRow(m.focus - 1)
			return m, nil
		case "enter":
			if m.focus == len(m.rows) {
				return m, m.submit()
			}
			if m.rows[m.focus].field.Kind == KindCheckbox {
				return m, m.toggle(m.focus)
			}
			m.focusRow(m.focus + 1)
			return m, nil
		case " ":
			if m.focus < len(m.rows) && m.rows[m.focus].field.Kind == KindCheckbox {
				return m, m.toggle(m.focus)
			}
			if m.focus == len(m.rows) {
				return m, m.submit()
			}
		}

	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
			return m, nil
		}
		if z := zone.Get(m.submitZone()); z != nil && z.InBounds(msg) {
			m.focusRow(len(m.rows))
			return m, m.submit()
		}
		for i := range m.rows {
			if z := zone.Get(m.rowZone(i)); z != nil && z.InBounds(msg) {
				m.focusRow(i)
				if m.rows[i].field.Kind == KindCheckbox {
					return m, m.toggle(i)
				}
				return m, nil
			}
		}
		return m, nil
	}

	if m.focus < len(m.rows) && m.rows[m.focus].field.Kind != KindCheckbox {
		r := &m.rows[m.focus]
		var cmd tea.Cmd
		r.input, cmd = r.input.Update(msg)
		if r.field.Kind == KindNumber {
			if v := r.input.Value(); keepDigits(v) != v {
				r.input.SetValue(keepDigits(v))
			}
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) submit() tea.Cmd {
	if !m.submitEnabled {
		return nil
	}
	id := m.id
	return func() tea.Msg { return SubmitMsg{FormID: id} }
}

func (m Model) toggle(i int) tea.Cmd {
	msg := ToggledMsg{FormID: m.id, Key: m.rows[i].field.Key, Checked: !m.rows[i].checked}
	return func() tea.Msg { return msg }
}

// View renders the form inside a titled box.
func (m Model) View() string {
	lines := make([]string, 0, len(m.rows)+2)
	for i, r := range m.rows {
		lines = append(lines, zone.Mark(m.rowZone(i), m.renderRow(i, r)))
	}
	lines = append(lines, "", " "+zone.Mark(m.submitZone(), m.renderSubmit()))

	hint := "tab to move, space to tick"
	return styles.RenderFormSection(lines, m.title, hint, m.width, true)
}

func (m Model) renderRow(i int, r row) string {
	indicator := "  "
	if i == m.focus {
		indicator = styles.SelectionIndicatorStyle.Render("> ")
	}

	if r.field.Kind == KindCheckbox {
		box := "[ ]"
		if r.checked {
			box = "[x]"
		}
		return " " + indicator + box + " " + styles.ValueStyle.Render(r.field.Label)
	}

	label := r.field.Label
	if r.field.Required {
		label += "*"
	}
	return " " + indicator + styles.LabelStyle.Render(styles.PadRight(label, m.labelWidth)) + r.input.View()
}

func (m Model) renderSubmit() string {
	switch {
	case !m.submitEnabled:
		return styles.DisabledButtonStyle.Render(m.submitLabel)
	case m.focus == len(m.rows):
		return styles.PrimaryButtonFocusedStyle.Render(m.submitLabel)
	default:
		return styles.PrimaryButtonStyle.Render(m.submitLabel)
	}
}
