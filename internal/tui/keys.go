package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Accept    key.Binding
	Backspace key.Binding
	Left      key.Binding
	Right     key.Binding
	Home      key.Binding
	End       key.Binding
	HoverUp   key.Binding
	HoverDown key.Binding
	Pick      key.Binding
	Clear     key.Binding
	Quit      key.Binding
}

func newKeyMap(acceptKeys []string) keyMap {
	if len(acceptKeys) == 0 {
		acceptKeys = []string{"tab"}
	}
	return keyMap{
		Accept: key.NewBinding(
			key.WithKeys(acceptKeys...),
			key.WithHelp(acceptKeys[0], "accept"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "ctrl+b"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "ctrl+f"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "ctrl+a"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "ctrl+e"),
		),
		HoverUp: key.NewBinding(
			key.WithKeys("up", "shift+tab"),
			key.WithHelp("↑", "prev"),
		),
		HoverDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next"),
		),
		Pick: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "pick"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "clear"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Accept, k.HoverDown, k.HoverUp, k.Pick, k.Clear, k.Quit}
}
