package app

import (
	"charm.land/bubbles/v2/key"

	"github.com/oakwood-commons/gridx/pkg/grid"
)

// keyMap adds the app bindings to the grid's. It implements help.KeyMap.
type keyMap struct {
	grid        grid.KeyMap
	Filter      key.Binding
	ApplyFilter key.Binding
	CancelInput key.Binding
	ClearFilter key.Binding
	Help        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
}

func newKeyMap(g grid.KeyMap) keyMap {
	return keyMap{
		grid: g,
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		ApplyFilter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply filter"),
		),
		CancelInput: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "clear filter"),
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
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return append(k.grid.ShortHelp(), k.Filter, k.Help, k.Quit)
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return append(k.grid.FullHelp(), []key.Binding{k.Filter, k.ClearFilter, k.Help, k.Quit})
}

// filterHelp is shown while the filter input is open.
type filterHelp keyMap

func (k filterHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.ApplyFilter, k.CancelInput, k.ClearFilter}
}

func (k filterHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
