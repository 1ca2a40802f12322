package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts. Global shortcuts use function or
// control keys so every printable character stays available to text fields.
type KeyMap struct {
	// Navigation
	Dashboard key.Binding
	Transfer  key.Binding
	History   key.Binding
	Profile   key.Binding
	Logout    key.Binding

	// Forms
	NextField  key.Binding
	PrevField  key.Binding
	Submit     key.Binding
	SwitchAuth key.Binding
	SwitchTab  key.Binding

	// Ledger
	Up          key.Binding
	Down        key.Binding
	CycleType   key.Binding
	ClearFilter key.Binding
	Export      key.Binding

	// Application
	Refresh key.Binding
	Dismiss key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Dashboard: key.NewBinding(
			key.WithKeys("f2", "alt+1"),
			key.WithHelp("F2", "dashboard"),
		),
		Transfer: key.NewBinding(
			key.WithKeys("f3", "alt+2"),
			key.WithHelp("F3", "transfer"),
		),
		History: key.NewBinding(
			key.WithKeys("f4", "alt+3"),
			key.WithHelp("F4", "history"),
		),
		Profile: key.NewBinding(
			key.WithKeys("f5", "alt+4"),
			key.WithHelp("F5", "profile"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("Ctrl+O", "log out"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("Shift+Tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "submit"),
		),
		SwitchAuth: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("Ctrl+N", "login/register"),
		),
		SwitchTab: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("Ctrl+B", "transfer/bill"),
		),

		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		CycleType: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("Ctrl+T", "cycle type"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "clear filter"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("Ctrl+E", "export CSV"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("Ctrl+R", "refresh"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("Ctrl+K", "dismiss"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NextField, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Dashboard, k.Transfer, k.History, k.Profile, k.Logout},
		{k.NextField, k.PrevField, k.Submit, k.SwitchAuth, k.SwitchTab},
		{k.CycleType, k.ClearFilter, k.Export, k.Refresh},
		{k.Dismiss, k.Help, k.Quit},
	}
}
