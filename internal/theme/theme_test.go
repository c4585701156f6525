package theme

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/gridx/internal/config"
)

func TestResolve(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	for _, name := range cfg.ThemeNames() {
		t.Run(name, func(t *testing.T) {
			th, err := Resolve(cfg, name, false)
			require.NoError(t, err)
			assert.Equal(t, name, th.Name)
		})
	}

	th, err := Resolve(cfg, "", false)
	require.NoError(t, err)
	assert.Equal(t, "dark", th.Name)

	_, err = Resolve(cfg, "neon", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: cool, dark, mono, warm")
}

func TestResolveNoColor(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	th, err := Resolve(cfg, "neon", true)
	require.NoError(t, err)
	assert.Equal(t, "plain", th.Name)
}

func TestFromConfigEmptyPalette(t *testing.T) {
	th := FromConfig("blank", config.ThemeConfig{})
	assert.Equal(t, "x", ansi.Strip(th.Status.Render("x")))
}

func TestSwatch(t *testing.T) {
	out := ansi.Strip(Swatch(Plain()))
	assert.Contains(t, out, "header")
	assert.Contains(t, out, "!err")
	assert.Contains(t, out, "[1]")
}

func TestNoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.False(t, NoColorEnv())
	t.Setenv("NO_COLOR", "1")
	assert.True(t, NoColorEnv())
}
