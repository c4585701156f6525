package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/gridx/pkg/grid"
	"github.com/oakwood-commons/gridx/pkg/settings"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

var (
	embeddedConfigOnce sync.Once
	embeddedConfig     Config
	embeddedConfigErr  error
)

// DefaultYAML returns a copy of the embedded default config.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default parses the embedded default configuration. It is the single source
// of default settings and themes.
func Default() (Config, error) {
	embeddedConfigOnce.Do(func() {
		if len(embeddedDefaultConfig) == 0 {
			embeddedConfigErr = fmt.Errorf("embedded default config is empty")
			return
		}
		if err := yaml.Unmarshal(embeddedDefaultConfig, &embeddedConfig); err != nil {
			embeddedConfigErr = fmt.Errorf("decode embedded default config: %w", err)
			return
		}
		if embeddedConfig.Themes == nil {
			embeddedConfig.Themes = map[string]ThemeConfig{}
		}
	})
	return embeddedConfig.clone(), embeddedConfigErr
}

// ResolvePath returns explicit when set, otherwise the XDG path
// ($XDG_CONFIG_HOME/gridx/config.yaml) or ~/.config/gridx/config.yaml if it
// exists. An empty result means no user config.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// Load merges the user config at path on top of the defaults. An empty path
// yields the defaults.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	user, err := Parse(data)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return Merge(cfg, user), nil
}

// Parse decodes a config document without applying defaults. Unknown keys
// are rejected so typos surface.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Merge overlays the set fields of over on base. Columns are replaced as a
// whole; themes are merged color by color, new themes start from "dark".
func Merge(base, over Config) Config {
	out := base.clone()
	g := over.Grid
	if g.PageSize != 0 {
		out.Grid.PageSize = g.PageSize
	}
	if g.MaxPageButtons != 0 {
		out.Grid.MaxPageButtons = g.MaxPageButtons
	}
	if g.Locale != "" {
		out.Grid.Locale = g.Locale
	}
	if g.Theme != "" {
		out.Grid.Theme = g.Theme
	}
	if g.Sort.Key != "" {
		out.Grid.Sort = g.Sort
	}
	if len(over.Columns) > 0 {
		out.Columns = append([]ColumnConfig(nil), over.Columns...)
	}
	for name, th := range over.Themes {
		b, ok := out.Themes[name]
		if !ok {
			b = out.Themes["dark"]
		}
		out.Themes[name] = mergeTheme(b, th)
	}
	return out
}

func mergeTheme(base, over ThemeConfig) ThemeConfig {
	set := func(dst *ColorValue, v ColorValue) {
		if v != "" {
			*dst = v
		}
	}
	set(&base.HeaderFG, over.HeaderFG)
	set(&base.HeaderBG, over.HeaderBG)
	set(&base.FocusFG, over.FocusFG)
	set(&base.FocusBG, over.FocusBG)
	set(&base.CellFG, over.CellFG)
	set(&base.AltCellBG, over.AltCellBG)
	set(&base.Separator, over.Separator)
	set(&base.Accent, over.Accent)
	set(&base.Muted, over.Muted)
	set(&base.Error, over.Error)
	set(&base.StatusFG, over.StatusFG)
	set(&base.StatusBG, over.StatusBG)
	return base
}

// Validate reports every problem in the config at once.
func (c Config) Validate() error {
	var errs []error
	if c.Grid.PageSize < 1 {
		errs = append(errs, fmt.Errorf("grid.page_size must be positive, got %d", c.Grid.PageSize))
	}
	if c.Grid.MaxPageButtons < 1 {
		errs = append(errs, fmt.Errorf("grid.max_page_buttons must be positive, got %d", c.Grid.MaxPageButtons))
	}
	if _, err := c.LocaleTag(); err != nil {
		errs = append(errs, err)
	}
	if _, ok := c.Themes[c.Grid.Theme]; !ok {
		errs = append(errs, fmt.Errorf("grid.theme %q is not defined (available: %s)", c.Grid.Theme, strings.Join(c.ThemeNames(), ", ")))
	}
	if _, err := grid.ParseSortDirection(c.Grid.Sort.Direction); err != nil {
		errs = append(errs, fmt.Errorf("grid.sort.direction: %w", err))
	}

	seen := make(map[string]bool, len(c.Columns))
	for i, col := range c.Columns {
		where := fmt.Sprintf("columns[%d]", i)
		if strings.TrimSpace(col.Key) == "" {
			errs = append(errs, fmt.Errorf("%s: key is required", where))
		} else if seen[col.Key] {
			errs = append(errs, fmt.Errorf("%s: duplicate key %q", where, col.Key))
		}
		seen[col.Key] = true
		if col.Width < 0 {
			errs = append(errs, fmt.Errorf("%s: width must not be negative", where))
		}
		if col.MinWidth < 0 {
			errs = append(errs, fmt.Errorf("%s: min_width must not be negative", where))
		}
		if _, err := grid.ParseAlign(col.Align); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
		if !ValidFormat(col.Format) {
			errs = append(errs, fmt.Errorf("%s: unknown format %q (expected one of %s)", where, col.Format, strings.Join(Formats, ", ")))
		}
	}
	return errors.Join(errs...)
}

// LocaleTag parses the configured collation locale.
func (c Config) LocaleTag() (language.Tag, error) {
	if strings.TrimSpace(c.Grid.Locale) == "" {
		return language.English, nil
	}
	tag, err := language.Parse(c.Grid.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("grid.locale %q: %w", c.Grid.Locale, err)
	}
	return tag, nil
}

// InitialSort converts the configured sort into grid state.
func (c Config) InitialSort() (grid.SortState, error) {
	dir, err := grid.ParseSortDirection(c.Grid.Sort.Direction)
	if err != nil {
		return grid.SortState{}, err
	}
	return grid.SortState{Key: c.Grid.Sort.Key, Direction: dir}, nil
}

// Marshal renders the config as YAML with two-space indentation.
func Marshal(c Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
