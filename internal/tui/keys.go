package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/verte-zerg/strokebot/internal/input"
)

type keyMap struct {
	Left  key.Binding
	Right key.Binding
	Quit  key.Binding
}

func newKeyMap(bindings []input.Binding) keyMap {
	var left, right []string
	for _, b := range bindings {
		if b.Side == input.SideLeft {
			left = append(left, string(b.Key))
		} else {
			right = append(right, string(b.Key))
		}
	}
	return keyMap{
		Left:  key.NewBinding(key.WithKeys(left...), key.WithHelp(strings.Join(left, " "), "left hand")),
		Right: key.NewBinding(key.WithKeys(right...), key.WithHelp(strings.Join(right, " "), "right hand")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
