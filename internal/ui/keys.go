package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next, Prev   key.Binding
	Submit, Save key.Binding
	Leave        key.Binding

	Up, Down      key.Binding
	Toggle, Swipe key.Binding
	Write, Quit   key.Binding

	Dismiss, ForceQuit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next/add")),
		Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "add todo")),
		Leave:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "to list")),

		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "done/undone")),
		Swipe:  key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d", "delete")),
		Write:  key.NewBinding(key.WithKeys("a", "i"), key.WithHelp("a", "new todo")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),

		Dismiss:   key.NewBinding(key.WithKeys("enter", "esc", " ", "space", "o"), key.WithHelp("enter", "ok")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k keyMap) inputHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Save, k.Leave}
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Swipe, k.Write, k.Next, k.Quit}
}

func (k keyMap) modalHelp() []key.Binding {
	return []key.Binding{k.Dismiss}
}
