package app

import (
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/gridx/internal/columns"
	"github.com/oakwood-commons/gridx/internal/theme"
	"github.com/oakwood-commons/gridx/pkg/grid"
	"github.com/oakwood-commons/gridx/pkg/loader"
)

func transactions(n int) *loader.Dataset {
	ds := &loader.Dataset{Columns: []string{"id", "amount", "status"}}
	for i := 1; i <= n; i++ {
		status := "paid"
		if i%2 == 0 {
			status = "pending"
		}
		ds.Records = append(ds.Records, loader.Record{"id": i, "amount": i * 10, "status": status})
	}
	return ds
}

func newTestApp(t *testing.T, n int, mutate ...func(*Config)) *Model {
	t.Helper()
	ds := transactions(n)
	set, err := columns.Build(nil, ds, columns.Options{})
	require.NoError(t, err)
	cfg := Config{
		Title:       "ledger.json",
		Columns:     set,
		Records:     ds.Records,
		Theme:       theme.Plain(),
		GridOptions: []grid.Option{grid.WithPageSize(5)},
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	m, err := New(cfg)
	require.NoError(t, err)
	return m
}

func press(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func keyText(s string) tea.KeyPressMsg {
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

var (
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
	esc   = tea.KeyPressMsg{Code: tea.KeyEscape}
	ctrlU = tea.KeyPressMsg{Code: 'u', Mod: tea.ModCtrl}
	ctrlC = tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
)

func screen(m *Model) string {
	return ansi.Strip(m.Render())
}

func TestNewRequiresColumns(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestRenderLayout(t *testing.T) {
	m := newTestApp(t, 12)
	lines := strings.Split(screen(m), "\n")

	assert.Equal(t, "ledger.json • 12 of 12 rows", strings.TrimRight(lines[0], " "))
	assert.Contains(t, lines[gridTop], "id")
	assert.Contains(t, lines[gridTop], "amount")
	assert.Contains(t, screen(m), "1–5 of 12")
	assert.Contains(t, screen(m), "sort none • page 1/3")
}

func TestFilterFlow(t *testing.T) {
	m := newTestApp(t, 12)
	m.Grid().SetPage(3)

	press(m, keyText("/"))
	require.True(t, m.filtering)
	assert.False(t, m.Grid().Focused())

	m.input.SetValue(`_.status == "paid"`)
	press(m, enter)

	assert.False(t, m.filtering)
	assert.True(t, m.Grid().Focused())
	assert.Equal(t, `_.status == "paid"`, m.ActiveFilter())
	assert.Len(t, m.Grid().Rows(), 6)
	assert.Equal(t, 2, m.Grid().Page(), "page clamps to the new last page")
	assert.Contains(t, screen(m), "filter: _.status == \"paid\" • 6 of 12 rows")
}

func TestFilterInvalidKeepsInputOpen(t *testing.T) {
	m := newTestApp(t, 4)
	press(m, keyText("/"))
	m.input.SetValue("_.amount >")
	press(m, enter)

	assert.True(t, m.filtering)
	assert.True(t, m.statusErr)
	assert.Len(t, m.Grid().Rows(), 4)
	assert.Contains(t, screen(m), "compilation error")
}

func TestFilterRejectsNonBool(t *testing.T) {
	m := newTestApp(t, 4)
	require.Error(t, m.ApplyFilter("_.amount + 1"))
	assert.Equal(t, "", m.ActiveFilter())
}

func TestFilterEvaluationErrorsAreReported(t *testing.T) {
	m := newTestApp(t, 4)
	m.all = append(m.all, loader.Record{"id": 99})
	require.NoError(t, m.ApplyFilter("_.amount > 15"))

	assert.Len(t, m.Grid().Rows(), 3)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "1 rows skipped")
}

func TestFilterCancelAndClear(t *testing.T) {
	m := newTestApp(t, 6)
	require.NoError(t, m.ApplyFilter("_.amount > 30"))
	require.Len(t, m.Grid().Rows(), 3)

	press(m, keyText("/"))
	assert.Equal(t, "_.amount > 30", m.input.Value())
	press(m, ctrlU)
	assert.Equal(t, "", m.input.Value())
	press(m, esc)
	assert.False(t, m.filtering)
	assert.Equal(t, "_.amount > 30", m.ActiveFilter(), "esc keeps the active filter")

	press(m, ctrlU)
	assert.Equal(t, "", m.ActiveFilter())
	assert.Len(t, m.Grid().Rows(), 6)
}

func TestInitialFilter(t *testing.T) {
	m := newTestApp(t, 6, func(c *Config) { c.Filter = `_.status == "pending"` })
	assert.Len(t, m.Grid().Rows(), 3)

	ds := transactions(2)
	set, err := columns.Build(nil, ds, columns.Options{})
	require.NoError(t, err)
	_, err = New(Config{Columns: set, Records: ds.Records, Filter: "_.nope("})
	require.Error(t, err)
}

func TestKeysReachGrid(t *testing.T) {
	m := newTestApp(t, 12)
	press(m, tea.KeyPressMsg{Code: tea.KeyRight})
	assert.Equal(t, 2, m.Grid().Page())

	press(m, keyText("s"))
	assert.Equal(t, grid.SortState{Key: "id"}, m.Grid().Sort())
}

func TestHelpToggle(t *testing.T) {
	m := newTestApp(t, 3)
	short := screen(m)
	press(m, keyText("?"))
	assert.True(t, m.help.ShowAll)
	full := screen(m)
	assert.Greater(t, strings.Count(full, "\n"), strings.Count(short, "\n"))
	assert.Contains(t, full, "clear filter")
}

func TestMouseSortsThroughGrid(t *testing.T) {
	m := newTestApp(t, 3)
	press(m, tea.MouseClickMsg{X: 1, Y: gridTop, Button: tea.MouseLeft})
	assert.Equal(t, grid.SortState{Key: "id"}, m.Grid().Sort())

	press(m, tea.MouseClickMsg{X: 1, Y: gridTop, Button: tea.MouseLeft})
	assert.Equal(t, grid.SortState{Key: "id", Direction: grid.Descending}, m.Grid().Sort())
}

func TestWindowSize(t *testing.T) {
	m := newTestApp(t, 3)
	press(m, tea.WindowSizeMsg{Width: 20, Height: 10})
	for _, line := range strings.Split(screen(m), "\n") {
		assert.LessOrEqual(t, ansi.StringWidth(line), 20, line)
	}
}

func TestQuitRecordsFinalState(t *testing.T) {
	for _, quitKey := range []tea.KeyPressMsg{keyText("q"), ctrlC} {
		t.Run(quitKey.String(), func(t *testing.T) {
			m := newTestApp(t, 12)
			m.Grid().SetPage(2)
			m.Grid().NudgeWidth(0, 3)

			cmd := press(m, quitKey)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.True(t, m.Grid().Closed())

			st := m.FinalState()
			assert.Equal(t, 2, st.Page)
			assert.Equal(t, m.Grid().Widths(), st.Widths)
			assert.Equal(t, "", m.Render())
		})
	}
}

func TestQuitMidDragRestoresWidth(t *testing.T) {
	m := newTestApp(t, 3)
	before := m.Grid().Widths()[0]
	require.True(t, m.Grid().BeginResize(0, 10))
	m.Grid().DragResize(20)

	press(m, keyText("q"))
	assert.Equal(t, before, m.FinalState().Widths[0])
}

func TestQuitKeyTypesIntoFilter(t *testing.T) {
	m := newTestApp(t, 3)
	press(m, keyText("/"), keyText("q"))
	assert.True(t, m.filtering)
	assert.Equal(t, "q", m.input.Value())
}

func TestViewRequestsMouseAndAltScreen(t *testing.T) {
	m := newTestApp(t, 1)
	v := m.View()
	assert.True(t, v.AltScreen)
	assert.Equal(t, tea.MouseModeCellMotion, v.MouseMode)
}

func ExampleModel_ApplyFilter() {
	ds := transactions(4)
	set, _ := columns.Build(nil, ds, columns.Options{})
	m, _ := New(Config{Columns: set, Records: ds.Records, Theme: theme.Plain()})
	_ = m.ApplyFilter("_.amount >= 30")
	fmt.Println(len(m.Grid().Rows()))
	// Output: 2
}
