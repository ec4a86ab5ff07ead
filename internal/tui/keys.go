package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the tap screen key bindings with built-in help text.
type KeyMap struct {
	Tap       key.Binding
	Meter     key.Binding
	Method    key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tap: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "tap"),
		),
		Meter: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "cycle meter"),
		),
		Method: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "beat/measure counting"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
	}
}
