package tui

import "github.com/charmbracelet/bubbles/key"

// ConsoleKeys are the console's key bindings.
type ConsoleKeys struct {
	Quit    key.Binding
	Up      key.Binding
	Down    key.Binding
	PageUp  key.Binding
	PageDn  key.Binding
	Follow  key.Binding
	Refresh key.Binding
}

var consoleKeys = ConsoleKeys{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("j/k", "scroll"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j/k", "scroll"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "b"),
		key.WithHelp("PgUp", "page up"),
	),
	PageDn: key.NewBinding(
		key.WithKeys("pgdown", "space"),
		key.WithHelp("PgDn", "page down"),
	),
	Follow: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "follow"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "force update"),
	),
}
