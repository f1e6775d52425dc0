package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the board's keyboard bindings.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Ring     key.Binding
	StopRing key.Binding
	OnRoute  key.Binding
	Delete   key.Binding
	Add      key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding

	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Ring: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Ring rider"),
		),
		StopRing: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Stop ring"),
		),
		OnRoute: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Mark on route"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Delete rider"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add rider"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Refresh now"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter", "y"),
			key.WithHelp("enter/y", "Confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "n"),
			key.WithHelp("esc/n", "Cancel"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Ring, k.StopRing, k.OnRoute, k.Add, k.Delete, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Refresh},
		{k.Ring, k.StopRing, k.OnRoute},
		{k.Add, k.Delete},
		{k.Help, k.Quit},
	}
}
