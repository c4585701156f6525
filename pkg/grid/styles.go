package grid

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Styles holds the lipgloss styles used to draw a grid.
type Styles struct {
	Header        lipgloss.Style
	FocusedHeader lipgloss.Style
	SortIndicator lipgloss.Style
	Handle        lipgloss.Style
	ActiveHandle  lipgloss.Style
	Rule          lipgloss.Style
	Cell          lipgloss.Style
	AltCell       lipgloss.Style
	ErrorCell     lipgloss.Style
	Summary       lipgloss.Style
	PageButton    lipgloss.Style
	CurrentPage   lipgloss.Style
	DisabledPage  lipgloss.Style
}

// Palette is the small set of colors a host theme supplies. Nil colors are
// left unset.
type Palette struct {
	HeaderFG   color.Color
	HeaderBG   color.Color
	FocusFG    color.Color
	FocusBG    color.Color
	CellFG     color.Color
	AltCellBG  color.Color
	Separator  color.Color
	Accent     color.Color
	Muted      color.Color
	ErrorColor color.Color
}

// DefaultStyles returns the built-in dark palette.
func DefaultStyles() Styles {
	return StylesFromPalette(Palette{
		HeaderFG:   lipgloss.Color("81"),
		HeaderBG:   lipgloss.Color("236"),
		FocusFG:    lipgloss.Color("250"),
		FocusBG:    lipgloss.Color("24"),
		CellFG:     lipgloss.Color("252"),
		AltCellBG:  lipgloss.Color("235"),
		Separator:  lipgloss.Color("238"),
		Accent:     lipgloss.Color("81"),
		Muted:      lipgloss.Color("244"),
		ErrorColor: lipgloss.Color("203"),
	})
}

// StylesFromPalette builds grid styles from theme colors.
func StylesFromPalette(p Palette) Styles {
	s := PlainStyles()
	s.Header = s.Header.Foreground(orNoColor(p.HeaderFG)).Background(orNoColor(p.HeaderBG))
	s.FocusedHeader = s.FocusedHeader.Foreground(orNoColor(p.FocusFG)).Background(orNoColor(p.FocusBG))
	s.SortIndicator = s.SortIndicator.Foreground(orNoColor(p.Accent)).Background(orNoColor(p.HeaderBG))
	s.Handle = s.Handle.Foreground(orNoColor(p.Separator))
	s.ActiveHandle = s.ActiveHandle.Foreground(orNoColor(p.Accent))
	s.Rule = s.Rule.Foreground(orNoColor(p.Separator))
	s.Cell = s.Cell.Foreground(orNoColor(p.CellFG))
	s.AltCell = s.AltCell.Foreground(orNoColor(p.CellFG)).Background(orNoColor(p.AltCellBG))
	s.ErrorCell = s.ErrorCell.Foreground(orNoColor(p.ErrorColor))
	s.Summary = s.Summary.Foreground(orNoColor(p.Muted))
	s.PageButton = s.PageButton.Foreground(orNoColor(p.CellFG))
	s.CurrentPage = s.CurrentPage.Foreground(orNoColor(p.FocusFG)).Background(orNoColor(p.FocusBG))
	s.DisabledPage = s.DisabledPage.Foreground(orNoColor(p.Separator))
	return s
}

// PlainStyles returns styles without any color, for --no-color output and
// snapshots.
func PlainStyles() Styles {
	base := lipgloss.NewStyle()
	return Styles{
		Header:        base.Bold(true),
		FocusedHeader: base.Bold(true).Underline(true),
		SortIndicator: base.Bold(true),
		Handle:        base,
		ActiveHandle:  base.Bold(true),
		Rule:          base,
		Cell:          base,
		AltCell:       base,
		ErrorCell:     base.Italic(true),
		Summary:       base,
		PageButton:    base,
		CurrentPage:   base.Bold(true),
		DisabledPage:  base.Faint(true),
	}
}

func orNoColor(c color.Color) color.Color {
	if c == nil {
		return lipgloss.NoColor{}
	}
	return c
}
