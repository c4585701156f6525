// Package config holds the gridx configuration file: grid defaults, column
// definitions and color themes.
package config

import (
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Column formats understood by the column builder.
const (
	FormatText     = "text"
	FormatNumber   = "number"
	FormatCurrency = "currency"
	FormatPercent  = "percent"
	FormatDate     = "date"
	FormatDateTime = "datetime"
	FormatBool     = "bool"
	FormatUpper    = "upper"
)

// Formats lists every valid column format.
var Formats = []string{
	FormatText, FormatNumber, FormatCurrency, FormatPercent,
	FormatDate, FormatDateTime, FormatBool, FormatUpper,
}

// ValidFormat reports whether f is empty or one of Formats.
func ValidFormat(f string) bool {
	return f == "" || slices.Contains(Formats, f)
}

// Config is the merged gridx configuration.
type Config struct {
	Grid    GridConfig             `yaml:"grid"`
	Columns []ColumnConfig         `yaml:"columns"`
	Themes  map[string]ThemeConfig `yaml:"themes"`
}

// GridConfig carries the defaults of the grid component.
type GridConfig struct {
	PageSize       int        `yaml:"page_size"`
	MaxPageButtons int        `yaml:"max_page_buttons"`
	Locale         string     `yaml:"locale"`
	Theme          string     `yaml:"theme"`
	Sort           SortConfig `yaml:"sort"`
}

// SortConfig is the initial sort. An empty key leaves rows in input order.
type SortConfig struct {
	Key       string `yaml:"key"`
	Direction string `yaml:"direction"`
}

// ColumnConfig declares one displayed column.
type ColumnConfig struct {
	Key      string `yaml:"key"`
	Label    string `yaml:"label,omitempty"`
	Width    int    `yaml:"width,omitempty"`
	MinWidth int    `yaml:"min_width,omitempty"`
	Align    string `yaml:"align,omitempty"`
	Format   string `yaml:"format,omitempty"`
	// Expr is a CEL expression over the row "_" whose result replaces the
	// field value.
	Expr     string `yaml:"expr,omitempty"`
	Overflow bool   `yaml:"overflow,omitempty"`
}

// ColorValue stores a color token (ANSI number or hex) and marshals numbers
// as YAML ints.
type ColorValue string

func (c ColorValue) MarshalYAML() (interface{}, error) {
	if c == "" {
		return "", nil
	}
	s := string(c)
	if _, err := strconv.Atoi(s); err == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: s}, nil
	}
	return s, nil
}

func (c *ColorValue) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*c = ""
		return nil
	}
	*c = ColorValue(value.Value)
	return nil
}

// ThemeConfig is a named palette.
type ThemeConfig struct {
	HeaderFG  ColorValue `yaml:"header_fg"`
	HeaderBG  ColorValue `yaml:"header_bg"`
	FocusFG   ColorValue `yaml:"focus_fg"`
	FocusBG   ColorValue `yaml:"focus_bg"`
	CellFG    ColorValue `yaml:"cell_fg"`
	AltCellBG ColorValue `yaml:"alt_cell_bg"`
	Separator ColorValue `yaml:"separator"`
	Accent    ColorValue `yaml:"accent"`
	Muted     ColorValue `yaml:"muted"`
	Error     ColorValue `yaml:"error"`
	StatusFG  ColorValue `yaml:"status_fg"`
	StatusBG  ColorValue `yaml:"status_bg"`
}

// ThemeNames returns the configured theme names, sorted.
func (c Config) ThemeNames() []string {
	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Column returns the column declared for key.
func (c Config) Column(key string) (ColumnConfig, bool) {
	for _, col := range c.Columns {
		if col.Key == key {
			return col, true
		}
	}
	return ColumnConfig{}, false
}

func (c Config) clone() Config {
	out := c
	out.Columns = slices.Clone(c.Columns)
	out.Themes = make(map[string]ThemeConfig, len(c.Themes))
	for k, v := range c.Themes {
		out.Themes[k] = v
	}
	return out
}
