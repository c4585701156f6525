package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/oakwood-commons/gridx/pkg/grid"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Grid.PageSize)
	assert.Equal(t, 5, cfg.Grid.MaxPageButtons)
	assert.Equal(t, "dark", cfg.Grid.Theme)
	assert.Equal(t, []string{"cool", "dark", "mono", "warm"}, cfg.ThemeNames())
	assert.Equal(t, ColorValue("81"), cfg.Themes["dark"].HeaderFG)
	assert.Empty(t, cfg.Columns)
	require.NoError(t, cfg.Validate())
}

func TestDefaultReturnsCopies(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	a.Themes["dark"] = ThemeConfig{}
	a.Grid.PageSize = 99

	b, err := Default()
	require.NoError(t, err)
	assert.Equal(t, ColorValue("81"), b.Themes["dark"].HeaderFG)
	assert.Equal(t, 10, b.Grid.PageSize)
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
grid:
  page_size: 25
  theme: sunset
  sort: {key: amount, direction: desc}
columns:
  - key: amount
    label: Amount
    width: 12
    align: right
    format: currency
themes:
  sunset:
    accent: "#ff8800"
  dark:
    muted: 240
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 25, cfg.Grid.PageSize)
	assert.Equal(t, 5, cfg.Grid.MaxPageButtons)
	assert.Equal(t, SortConfig{Key: "amount", Direction: "desc"}, cfg.Grid.Sort)
	require.Len(t, cfg.Columns, 1)
	assert.Equal(t, "currency", cfg.Columns[0].Format)

	sunset := cfg.Themes["sunset"]
	assert.Equal(t, ColorValue("#ff8800"), sunset.Accent)
	assert.Equal(t, ColorValue("236"), sunset.HeaderBG, "new themes start from dark")
	assert.Equal(t, ColorValue("240"), cfg.Themes["dark"].Muted)
	assert.Equal(t, ColorValue("81"), cfg.Themes["dark"].HeaderFG)

	sort, err := cfg.InitialSort()
	require.NoError(t, err)
	assert.Equal(t, grid.SortState{Key: "amount", Direction: grid.Descending}, sort)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid:\n  pagesize: 3\n"), 0o600))
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pagesize")
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Grid.PageSize)
}

func TestValidate(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "page size", mutate: func(c *Config) { c.Grid.PageSize = 0 }, want: "page_size"},
		{name: "page buttons", mutate: func(c *Config) { c.Grid.MaxPageButtons = -1 }, want: "max_page_buttons"},
		{name: "theme", mutate: func(c *Config) { c.Grid.Theme = "neon" }, want: `"neon" is not defined`},
		{name: "locale", mutate: func(c *Config) { c.Grid.Locale = "not a locale!" }, want: "grid.locale"},
		{name: "direction", mutate: func(c *Config) { c.Grid.Sort.Direction = "up" }, want: "direction"},
		{name: "blank key", mutate: func(c *Config) { c.Columns = []ColumnConfig{{Key: " "}} }, want: "key is required"},
		{name: "duplicate key", mutate: func(c *Config) { c.Columns = []ColumnConfig{{Key: "a"}, {Key: "a"}} }, want: `duplicate key "a"`},
		{name: "format", mutate: func(c *Config) { c.Columns = []ColumnConfig{{Key: "a", Format: "roman"}} }, want: `unknown format "roman"`},
		{name: "align", mutate: func(c *Config) { c.Columns = []ColumnConfig{{Key: "a", Align: "justify"}} }, want: "alignment"},
		{name: "width", mutate: func(c *Config) { c.Columns = []ColumnConfig{{Key: "a", Width: -2}} }, want: "width must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base.clone()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.Grid.PageSize = 0
	cfg.Columns = []ColumnConfig{{Key: "a", Format: "roman"}}

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page_size")
	assert.Contains(t, err.Error(), "roman")
}

func TestLocaleTag(t *testing.T) {
	cfg := Config{}
	tag, err := cfg.LocaleTag()
	require.NoError(t, err)
	assert.Equal(t, language.English, tag)

	cfg.Grid.Locale = "sv"
	tag, err = cfg.LocaleTag()
	require.NoError(t, err)
	assert.Equal(t, language.Swedish, tag)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/explicit.yaml", ResolvePath("/explicit.yaml"))

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, "", ResolvePath(""))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "gridx"), 0o755))
	path := filepath.Join(dir, "gridx", "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid: {}\n"), 0o600))
	assert.Equal(t, path, ResolvePath(""))
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	out, err := Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "header_fg: 81")

	back, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, cfg.Grid, back.Grid)
	assert.Equal(t, cfg.Themes, back.Themes)
}

func TestValidFormat(t *testing.T) {
	assert.True(t, ValidFormat(""))
	assert.True(t, ValidFormat(FormatCurrency))
	assert.False(t, ValidFormat("Currency"))
}
