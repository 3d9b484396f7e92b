package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	left     key.Binding
	right    key.Binding
	enter    key.Binding
	back     key.Binding
	next     key.Binding
	prev     key.Binding
	search   key.Binding
	chooser  key.Binding
	remove   key.Binding
	sort     key.Binding
	sidebar  key.Binding
	quit     key.Binding
	hardQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave search")),
		next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev pane")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		chooser:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "categories")),
		remove:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		sidebar:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "watched")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		hardQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.search, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right, k.enter},
		{k.next, k.prev, k.search, k.back},
		{k.chooser, k.remove, k.sort, k.sidebar, k.quit},
	}
}
