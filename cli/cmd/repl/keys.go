package repl

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the key bindings of the interactive REPL. It implements
// [help.KeyMap].
type keyMap struct {
	interrupt key.Binding
	eof       key.Binding
	submit    key.Binding
	next      key.Binding
	prev      key.Binding
	accept    key.Binding
	toggle    key.Binding
	older     key.Binding
	newer     key.Binding
	olderMode key.Binding
	newerMode key.Binding
	olderCtrl key.Binding
	newerCtrl key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		interrupt: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "interrupt program, clear line, or exit"),
		),
		eof: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "exit on empty line"),
		),
		submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run line or lock in candidate"),
		),
		next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next candidate"),
		),
		prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous candidate"),
		),
		accept: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "accept candidate"),
		),
		toggle: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "toggle command mode"),
		),
		older: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "older history"),
		),
		newer: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "newer history"),
		),
		olderMode: key.NewBinding(
			key.WithKeys("shift+up"),
			key.WithHelp("shift+↑", "older history in this mode"),
		),
		newerMode: key.NewBinding(
			key.WithKeys("shift+down"),
			key.WithHelp("shift+↓", "newer history in this mode"),
		),
		olderCtrl: key.NewBinding(
			key.WithKeys("alt+up"),
			key.WithHelp("alt+↑", "older command history"),
		),
		newerCtrl: key.NewBinding(
			key.WithKeys("alt+down"),
			key.WithHelp("alt+↓", "newer command history"),
		),
	}
}

// ShortHelp implements [help.KeyMap].
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.next, k.older, k.eof}
}

// FullHelp implements [help.KeyMap].
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.submit, k.interrupt, k.eof, k.toggle},
		{k.next, k.prev, k.accept},
		{k.older, k.newer, k.olderMode, k.newerMode, k.olderCtrl, k.newerCtrl},
	}
}
