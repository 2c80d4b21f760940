package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the key bindings for the now-playing view.
type keyMap struct {
	like    key.Binding
	unlike  key.Binding
	save    key.Binding
	refresh key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		like: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "like"),
		),
		unlike: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unlike"),
		),
		save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.like, k.unlike, k.save, k.refresh, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.like, k.unlike, k.save},
		{k.refresh, k.quit},
	}
}
