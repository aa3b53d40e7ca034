package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type KeyMap struct {
	Quit     key.Binding
	Enter    key.Binding
	Back     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Widen    key.Binding
	Erase    key.Binding
	Top      key.Binding
	Bottom   key.Binding
}

var Keys = KeyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open #")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	NextPage: key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next page")),
	PrevPage: key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p", "prev page")),
	Widen:    key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "more context")),
	Erase:    key.NewBinding(key.WithKeys("backspace"), key.WithHelp("bksp", "erase")),
	Top:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "top")),
	Bottom:   key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "bottom")),
}

// Help renders bindings as "key:desc" pairs.
func Help(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+":"+h.Desc)
	}
	return StyleMuted.Render("  " + strings.Join(parts, "  "))
}
