package grid

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amountRows(n int) []row {
	out := make([]row, n)
	for i := range out {
		out[i] = row{"id": i + 1, "name": fmt.Sprintf("item-%02d", i+1), "amount": float64((i * 37) % 11)}
	}
	return out
}

func testColumns() []Column[row] {
	return []Column[row]{
		{Key: "id", Label: "ID"},
		{Key: "name", Label: "Name"},
		{Key: "amount", Label: "Amount", Align: AlignRight},
	}
}

func newTestGrid(t *testing.T, opts ...Option) *Model[row] {
	t.Helper()
	opts = append([]Option{WithStyles(PlainStyles())}, opts...)
	m, err := New(testColumns(), opts...)
	require.NoError(t, err)
	return m
}

func plainLines(m *Model[row]) []string {
	return strings.Split(ansi.Strip(m.View()), "\n")
}

func click(x, y int) tea.MouseClickMsg {
	return tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft}
}

func TestNewValidation(t *testing.T) {
	_, err := New[row](nil)
	assert.ErrorIs(t, err, ErrNoColumns)

	_, err = New([]Column[row]{{Key: " "}})
	assert.ErrorIs(t, err, ErrEmptyKey)

	_, err = New([]Column[row]{{Key: "a"}, {Key: "a"}})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	_, err = New(testColumns(), WithPageSize(0))
	assert.ErrorIs(t, err, ErrInvalidPageSize)
}

func TestNewDefaults(t *testing.T) {
	m, err := New([]Column[row]{{Key: "a"}, {Key: "b", InitialWidth: 3, MinWidth: 4}})
	require.NoError(t, err)

	assert.Equal(t, []int{DefaultInitialWidth, 4}, m.Widths())
	assert.Equal(t, DefaultPageSize, m.PageSize())
	assert.Equal(t, 1, m.Page())
	assert.False(t, m.Sort().Sorted())
	assert.Equal(t, 1, m.PageCount())
}

func TestToggleSortCycle(t *testing.T) {
	m := newTestGrid(t)
	m.SetRows([]row{{"amount": 50}, {"amount": -20}, {"amount": nil}, {"amount": 10}})

	require.True(t, m.ToggleSort("amount"))
	assert.Equal(t, []any{-20, 10, 50, nil}, keysOf(m.VisibleRows(), "amount"))

	m.ToggleSort("amount")
	assert.Equal(t, Descending, m.Sort().Direction)
	assert.Equal(t, []any{50, 10, -20, nil}, keysOf(m.VisibleRows(), "amount"))

	m.ToggleSort("amount")
	assert.Equal(t, SortState{Key: "amount", Direction: Ascending}, m.Sort())
	assert.Equal(t, 2, m.FocusedColumn())

	assert.False(t, m.ToggleSort("nope"))
}

func TestSetSort(t *testing.T) {
	m := newTestGrid(t)
	require.NoError(t, m.SetSort(SortState{Key: "name", Direction: Descending}))
	assert.Equal(t, 1, m.FocusedColumn())
	require.Error(t, m.SetSort(SortState{Key: "nope"}))
	require.NoError(t, m.SetSort(SortState{}))
	assert.False(t, m.Sort().Sorted())
}

func TestSortKeepsPage(t *testing.T) {
	m := newTestGrid(t)
	m.SetRows(amountRows(23))
	m.SetPage(2)
	m.ToggleSort("name")
	assert.Equal(t, 2, m.Page())
}

func TestPageClampedWhenRowsShrink(t *testing.T) {
	var changes []State
	m := newTestGrid(t, WithOnChange(func(s State) { changes = append(changes, s) }))
	m.SetRows(amountRows(50))
	require.True(t, m.SetPage(5))

	m.SetRows(amountRows(12))
	assert.Equal(t, 2, m.Page())
	assert.Len(t, m.VisibleRows(), 2)
	require.NotEmpty(t, changes)
	assert.Equal(t, 2, changes[len(changes)-1].Page)
}

func TestPaging(t *testing.T) {
	m := newTestGrid(t)
	m.SetRows(amountRows(23))

	assert.False(t, m.PrevPage())
	assert.True(t, m.NextPage())
	assert.True(t, m.NextPage())
	assert.False(t, m.NextPage())
	assert.Equal(t, 3, m.Page())
	assert.Equal(t, []any{21, 22, 23}, keysOf(m.VisibleRows(), "id"))

	assert.True(t, m.FirstPage())
	assert.True(t, m.LastPage())
	assert.False(t, m.SetPage(99), "clamped to the current last page")

	require.NoError(t, m.SetPageSize(5))
	assert.Equal(t, 3, m.Page())
	require.ErrorIs(t, m.SetPageSize(0), ErrInvalidPageSize)
}

func TestKeyHandling(t *testing.T) {
	m := newTestGrid(t)
	m.SetRows(amountRows(23))

	m.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	assert.Equal(t, 2, m.Page())
	m.Update(tea.KeyPressMsg{Code: 'G', Text: "G"})
	assert.Equal(t, 3, m.Page())
	m.Update(tea.KeyPressMsg{Code: tea.KeyHome})
	assert.Equal(t, 1, m.Page())

	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, 1, m.FocusedColumn())
	m.Update(tea.KeyPressMsg{Code: 's', Text: "s"})
	assert.Equal(t, SortState{Key: "name"}, m.Sort())

	m.Update(tea.KeyPressMsg{Code: '>', Text: ">"})
	assert.Equal(t, DefaultInitialWidth+1, m.Widths()[1])
	m.Update(tea.KeyPressMsg{Code: '=', Text: "="})
	assert.Equal(t, DefaultInitialWidth, m.Widths()[1])

	m.Blur()
	m.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	assert.Equal(t, 1, m.Page(), "blurred grids ignore keys")
}

func TestMouseSortAndResize(t *testing.T) {
	var reasons int
	m := newTestGrid(t, WithOnChange(func(State) { reasons++ }))
	m.SetRows(amountRows(5))
	m.SetOrigin(2, 3)

	// Column 0 spans x 2..15 with its handle at 16.
	m.Update(click(5, 3))
	assert.Equal(t, SortState{Key: "id"}, m.Sort())
	m.Update(click(5, 3))
	assert.Equal(t, SortState{Key: "id", Direction: Descending}, m.Sort())

	before := reasons
	m.Update(click(16, 3))
	require.True(t, m.Resizing())
	m.Update(tea.MouseMotionMsg{X: 22, Y: 3})
	assert.Equal(t, 20, m.Widths()[0], "live width follows the pointer")
	assert.Equal(t, before, reasons, "no change is committed while dragging")

	m.Update(tea.MouseReleaseMsg{X: 22, Y: 3, Button: tea.MouseLeft})
	assert.False(t, m.Resizing())
	assert.Equal(t, []int{20, DefaultInitialWidth, DefaultInitialWidth}, m.Widths())
	assert.Equal(t, before+1, reasons)

	m.Update(click(2, 9))
	assert.Equal(t, SortState{Key: "id", Direction: Descending}, m.Sort(), "body clicks do nothing")
}

func TestMouseDoubleClickResetsWidth(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := newTestGrid(t, WithClock(func() time.Time { return now }))
	require.True(t, m.NudgeWidth(0, 6))
	handle := m.Widths()[0]

	m.Update(click(handle, 0))
	m.Update(tea.MouseReleaseMsg{X: handle, Y: 0, Button: tea.MouseLeft})
	now = now.Add(150 * time.Millisecond)
	m.Update(click(handle, 0))

	assert.False(t, m.Resizing())
	assert.Equal(t, DefaultInitialWidth, m.Widths()[0])
}

func TestMouseSlowClicksDoNotReset(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := newTestGrid(t, WithClock(func() time.Time { return now }))
	m.NudgeWidth(0, 6)
	handle := m.Widths()[0]

	m.Update(click(handle, 0))
	m.Update(tea.MouseReleaseMsg{X: handle, Y: 0, Button: tea.MouseLeft})
	now = now.Add(time.Second)
	m.Update(click(handle, 0))

	assert.True(t, m.Resizing())
	assert.Equal(t, DefaultInitialWidth+6, m.Widths()[0])
}

func TestMouseFooterNavigation(t *testing.T) {
	m := newTestGrid(t)
	m.SetRows(amountRows(23))

	footer := func() (int, []footerItem) {
		frame := m.Frame()
		return m.footerLine(frame), layoutFooter(summaryText(frame), pageControls(frame.Number, frame.TotalPages, DefaultMaxPageButtons))
	}

	y, items := footer()
	assert.Equal(t, 13, y)
	var three footerItem
	for _, it := range items {
		if it.control.target == 3 {
			three = it
		}
	}
	require.NotZero(t, three.width)
	m.Update(click(three.x, y))
	assert.Equal(t, 3, m.Page())

	y, items = footer()
	assert.Equal(t, "‹", items[0].control.label)
	m.Update(click(items[0].x, y))
	assert.Equal(t, 2, m.Page())

	m.Update(click(0, y))
	assert.Equal(t, 2, m.Page(), "the summary is not a control")
}

func TestEscCancelsDrag(t *testing.T) {
	m := newTestGrid(t)
	m.BeginResize(1, 10)
	m.DragResize(25)
	assert.Equal(t, 29, m.Widths()[1])

	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.False(t, m.Resizing())
	assert.Equal(t, DefaultInitialWidth, m.Widths()[1])
}

func TestCloseMidDrag(t *testing.T) {
	var changes int
	m := newTestGrid(t, WithOnChange(func(State) { changes++ }))
	m.BeginResize(0, 0)
	m.DragResize(10)

	m.Close()
	assert.True(t, m.Closed())
	assert.False(t, m.Resizing())
	assert.Equal(t, DefaultInitialWidth, m.Widths()[0])

	m.Update(tea.MouseReleaseMsg{X: 10, Y: 0, Button: tea.MouseLeft})
	m.Update(tea.KeyPressMsg{Code: 's', Text: "s"})
	assert.Zero(t, changes)
	assert.False(t, m.Sort().Sorted())
}

func TestInstancesAreIndependent(t *testing.T) {
	a := newTestGrid(t)
	b := newTestGrid(t)
	rows := amountRows(30)
	a.SetRows(rows)
	b.SetRows(rows)

	a.ToggleSort("amount")
	a.NextPage()
	a.NudgeWidth(0, 5)

	assert.False(t, b.Sort().Sorted())
	assert.Equal(t, 1, b.Page())
	assert.Equal(t, DefaultInitialWidth, b.Widths()[0])
	assert.Equal(t, []any{1, 2, 3}, keysOf(rows[:3], "id"), "caller rows untouched")
}

func TestInitialState(t *testing.T) {
	saved := State{Sort: SortState{Key: "name", Direction: Descending}, Page: 3, Widths: []int{8, 20, 9}}
	m := newTestGrid(t, WithInitialState(saved))
	m.SetRows(amountRows(23))

	assert.Equal(t, saved, m.State())

	mismatched := newTestGrid(t, WithInitialState(State{Sort: SortState{Key: "gone"}, Widths: []int{1}}))
	assert.False(t, mismatched.Sort().Sorted())
	assert.Equal(t, []int{14, 14, 14}, mismatched.Widths())
}

func TestRendererPanicIsContained(t *testing.T) {
	cols := []Column[row]{
		{Key: "id"},
		{Key: "boom", Render: func(r row) string {
			if r["id"] == 2 {
				panic(errors.New("bad row"))
			}
			return "ok"
		}},
	}
	m, err := New(cols, WithStyles(PlainStyles()))
	require.NoError(t, err)
	m.SetRows([]row{{"id": 1}, {"id": 2}, {"id": 3}})

	var view string
	require.NotPanics(t, func() { view = ansi.Strip(m.View()) })
	lines := strings.Split(view, "\n")
	assert.Contains(t, lines[2], "ok")
	assert.Contains(t, lines[3], ErrorCellText)
	assert.Contains(t, lines[4], "ok")
}

func TestStringAndHeight(t *testing.T) {
	m := newTestGrid(t)
	m.SetRows(amountRows(3))
	assert.Equal(t, 7, m.Height())
	assert.Contains(t, m.String(), "rows=3")
}
