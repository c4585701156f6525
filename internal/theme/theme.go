// Package theme turns configured palettes into grid and app styles.
package theme

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/gridx/internal/config"
	"github.com/oakwood-commons/gridx/pkg/grid"
)

// Theme bundles every style the interactive app draws with.
type Theme struct {
	Name        string
	Grid        grid.Styles
	Status      lipgloss.Style
	StatusError lipgloss.Style
	Prompt      lipgloss.Style
	HelpKey     lipgloss.Style
	HelpDesc    lipgloss.Style
}

// Plain returns a theme without any color.
func Plain() Theme {
	base := lipgloss.NewStyle()
	return Theme{
		Name:        "plain",
		Grid:        grid.PlainStyles(),
		Status:      base,
		StatusError: base.Bold(true),
		Prompt:      base.Bold(true),
		HelpKey:     base.Bold(true),
		HelpDesc:    base,
	}
}

// FromConfig builds the theme called name from its palette.
func FromConfig(name string, tc config.ThemeConfig) Theme {
	p := grid.Palette{
		HeaderFG:   toColor(tc.HeaderFG),
		HeaderBG:   toColor(tc.HeaderBG),
		FocusFG:    toColor(tc.FocusFG),
		FocusBG:    toColor(tc.FocusBG),
		CellFG:     toColor(tc.CellFG),
		AltCellBG:  toColor(tc.AltCellBG),
		Separator:  toColor(tc.Separator),
		Accent:     toColor(tc.Accent),
		Muted:      toColor(tc.Muted),
		ErrorColor: toColor(tc.Error),
	}
	base := lipgloss.NewStyle()
	status := base
	if c := toColor(tc.StatusFG); c != nil {
		status = status.Foreground(c)
	}
	if c := toColor(tc.StatusBG); c != nil {
		status = status.Background(c)
	}
	th := Theme{
		Name:        name,
		Grid:        grid.StylesFromPalette(p),
		Status:      status,
		StatusError: status.Bold(true),
		Prompt:      base.Bold(true),
		HelpKey:     base,
		HelpDesc:    base,
	}
	if p.ErrorColor != nil {
		th.StatusError = th.StatusError.Foreground(p.ErrorColor)
	}
	if p.Accent != nil {
		th.Prompt = th.Prompt.Foreground(p.Accent)
		th.HelpKey = th.HelpKey.Foreground(p.Accent)
	}
	if p.Muted != nil {
		th.HelpDesc = th.HelpDesc.Foreground(p.Muted)
	}
	return th
}

// Resolve picks the theme called name from cfg, the configured default when
// name is empty, or Plain when color is disabled.
func Resolve(cfg config.Config, name string, noColor bool) (Theme, error) {
	if noColor {
		return Plain(), nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = cfg.Grid.Theme
	}
	tc, ok := cfg.Themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(cfg.ThemeNames(), ", "))
	}
	return FromConfig(name, tc), nil
}

// NoColorEnv reports whether the NO_COLOR convention asks for plain output.
func NoColorEnv() bool {
	v, ok := os.LookupEnv("NO_COLOR")
	return ok && v != ""
}

// Swatch renders a one-line preview of the theme for listings.
func Swatch(th Theme) string {
	s := th.Grid
	return strings.Join([]string{
		s.Header.Render(" header "),
		s.FocusedHeader.Render(" focus "),
		s.SortIndicator.Render("▲"),
		s.Cell.Render(" cell "),
		s.AltCell.Render(" alt "),
		s.ErrorCell.Render(grid.ErrorCellText),
		s.CurrentPage.Render("[1]"),
		s.Summary.Render("1–10 of 42"),
	}, " ")
}

func toColor(v config.ColorValue) color.Color {
	if v == "" {
		return nil
	}
	return lipgloss.Color(string(v))
}
