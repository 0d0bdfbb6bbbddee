package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	upvote   key.Binding
	downvote key.Binding
	all      key.Binding
	top      key.Binding
	random   key.Binding
	refresh  key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		upvote:   key.NewBinding(key.WithKeys("u", "+"), key.WithHelp("u", "upvote")),
		downvote: key.NewBinding(key.WithKeys("d", "-"), key.WithHelp("d", "downvote")),
		all:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
		top:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "top")),
		random:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "random")),
		refresh:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.upvote, k.downvote, k.all, k.top, k.random, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down},
		{k.upvote, k.downvote},
		{k.all, k.top, k.random, k.refresh},
		{k.quit},
	}
}
