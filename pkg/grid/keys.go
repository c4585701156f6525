package grid

import "charm.land/bubbles/v2/key"

// KeyMap defines the keyboard bindings of a grid. It implements help.KeyMap.
type KeyMap struct {
	NextPage   key.Binding
	PrevPage   key.Binding
	FirstPage  key.Binding
	LastPage   key.Binding
	NextColumn key.Binding
	PrevColumn key.Binding
	Sort       key.Binding
	Widen      key.Binding
	Narrow     key.Binding
	ResetWidth key.Binding
	CancelDrag key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextPage: key.NewBinding(
			key.WithKeys("right", "l", "pgdown", "n"),
			key.WithHelp("→/l", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h", "pgup", "p"),
			key.WithHelp("←/h", "prev page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g/home", "first page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G/end", "last page"),
		),
		NextColumn: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next column"),
		),
		PrevColumn: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev column"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s", "enter"),
			key.WithHelp("s/enter", "sort column"),
		),
		Widen: key.NewBinding(
			key.WithKeys(">", "+"),
			key.WithHelp(">", "widen column"),
		),
		Narrow: key.NewBinding(
			key.WithKeys("<", "-"),
			key.WithHelp("<", "narrow column"),
		),
		ResetWidth: key.NewBinding(
			key.WithKeys("="),
			key.WithHelp("=", "reset width"),
		),
		CancelDrag: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel resize"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevPage, k.NextPage, k.NextColumn, k.Sort}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevPage, k.NextPage, k.FirstPage, k.LastPage},
		{k.NextColumn, k.PrevColumn, k.Sort},
		{k.Widen, k.Narrow, k.ResetWidth, k.CancelDrag},
	}
}
