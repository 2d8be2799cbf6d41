// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// AppKeys are active on every screen unless a dialog or text field has focus.
type AppKeys struct {
	Quit        key.Binding
	Back        key.Binding
	Register    key.Binding
	Receipts    key.Binding
	Admin       key.Binding
	RecordList  key.Binding
	WaitingList key.Binding
	Summary     key.Binding
	Login       key.Binding
	Help        key.Binding
}

// DetailKeys drive the registration detail view.
type DetailKeys struct {
	Promote key.Binding
	Invoice key.Binding
	Share   key.Binding
	Refresh key.Binding
}

// ListKeys drive the admin tables and the receipts list.
type ListKeys struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Refresh key.Binding
}

// App is the global key map.
var App = AppKeys{
	Quit:        key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Register:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new registration")),
	Receipts:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "my registrations")),
	Admin:       key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "admin")),
	RecordList:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "record list")),
	WaitingList: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "waiting list")),
	Summary:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "pack summary")),
	Login:       key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "login")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// Detail is the registration detail key map.
var Detail = DetailKeys{
	Promote: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "promote")),
	Invoice: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "invoice")),
	Share:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "share link")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
}

// List is the table key map.
var List = ListKeys{
	Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
}

// ShortHelp implements help.KeyMap.
func (k AppKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Register, k.Receipts, k.Admin, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k AppKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Register, k.Receipts, k.Login, k.Admin},
		{k.RecordList, k.WaitingList, k.Summary},
		{k.Back, k.Help, k.Quit},
	}
}

// ShortHelp implements help.KeyMap.
func (k DetailKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Promote, k.Invoice, k.Share, k.Refresh}
}

// FullHelp implements help.KeyMap.
func (k DetailKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// ShortHelp implements help.KeyMap.
func (k ListKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Refresh}
}

// FullHelp implements help.KeyMap.
func (k ListKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
