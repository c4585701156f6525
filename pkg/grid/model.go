package grid

import (
	"fmt"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/go-logr/logr"
)

// Model is a Bubble Tea component that displays rows of type T. It owns the
// sort, page and width state; the rows themselves belong to the caller and
// are never modified.
//
// Hosts forward messages through Update, place the component with SetOrigin
// so mouse coordinates can be mapped, and call Close when the grid goes away.
type Model[T any] struct {
	cols    []Column[T]
	rows    []T
	field   FieldFunc[T]
	cmp     *Comparator
	resizer *Resizer

	sort           SortState
	page           int
	pageSize       int
	maxPageButtons int

	focusCol int
	focused  bool
	closed   bool

	originX int
	originY int
	width   int

	styles   Styles
	keys     KeyMap
	log      logr.Logger
	onChange func(State)
	now      func() time.Time

	lastHandleClick handlePress
}

// handlePress remembers the previous click on a resize handle so a second
// click can be recognised as a double click.
type handlePress struct {
	column int
	at     time.Time
	valid  bool
}

// New creates a grid over columns. It fails when the column list is empty,
// contains blank or duplicate keys, or when the page size is not positive.
func New[T any](columns []Column[T], opts ...Option) (*Model[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.pageSize < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPageSize, o.pageSize)
	}
	cols, err := normalizeColumns(columns)
	if err != nil {
		return nil, err
	}

	initial := make([]int, len(cols))
	minimum := make([]int, len(cols))
	for i, c := range cols {
		initial[i] = c.InitialWidth
		minimum[i] = c.MinWidth
	}

	m := &Model[T]{
		cols:           cols,
		field:          func(row T, key string) any { return FieldValue(row, key) },
		cmp:            NewComparator(o.locale),
		resizer:        NewResizer(initial, minimum),
		page:           1,
		pageSize:       o.pageSize,
		maxPageButtons: o.maxPageButtons,
		focused:        true,
		width:          o.width,
		styles:         o.styles,
		keys:           o.keys,
		log:            o.log,
		onChange:       o.onChange,
		now:            o.now,
	}
	if o.initial != nil {
		m.restore(*o.initial)
	}
	return m, nil
}

// restore applies a saved state without notifying.
func (m *Model[T]) restore(s State) {
	if s.Sort.Sorted() && columnIndex(m.cols, s.Sort.Key) >= 0 {
		m.sort = s.Sort
		m.focusCol = columnIndex(m.cols, s.Sort.Key)
	}
	if s.Page > 0 {
		// Clamped lazily: rows may not be loaded yet.
		m.page = s.Page
	}
	if len(s.Widths) > 0 && !m.resizer.SetWidths(s.Widths) {
		m.log.V(1).Info("ignoring saved widths", "saved", len(s.Widths), "columns", len(m.cols))
	}
}

// SetFieldFunc replaces the accessor used to read a column's value from a row.
func (m *Model[T]) SetFieldFunc(fn FieldFunc[T]) {
	if fn != nil {
		m.field = fn
	}
}

// SetRows replaces the row collection. When the collection shrinks below the
// current page, the page is clamped to the new last page.
func (m *Model[T]) SetRows(rows []T) {
	m.rows = rows
	if clamped := ClampPage(m.page, len(rows), m.pageSize); clamped != m.page {
		m.page = clamped
		m.notify("page clamped")
	}
}

// Rows returns the caller's rows as last passed to SetRows.
func (m *Model[T]) Rows() []T {
	return m.rows
}

// SortedRows returns all rows in display order.
func (m *Model[T]) SortedRows() []T {
	return SortRows(m.rows, m.cols, m.sort, m.field, m.cmp)
}

// Frame derives the page currently on screen.
func (m *Model[T]) Frame() Page[T] {
	return Derive(m.rows, m.cols, m.sort, m.page, m.pageSize, m.field, m.cmp)
}

// VisibleRows returns the rows of the current page.
func (m *Model[T]) VisibleRows() []T {
	return m.Frame().Rows
}

// Columns returns the normalized column definitions.
func (m *Model[T]) Columns() []Column[T] {
	return append([]Column[T](nil), m.cols...)
}

// State returns a snapshot of the grid state.
func (m *Model[T]) State() State {
	return State{
		Sort:   m.sort,
		Page:   ClampPage(m.page, len(m.rows), m.pageSize),
		Widths: m.resizer.Widths(),
	}
}

// SetState restores a snapshot, dropping parts that do not fit the columns.
func (m *Model[T]) SetState(s State) {
	m.restore(s)
	m.notify("state restored")
}

// Sort returns the current sort state.
func (m *Model[T]) Sort() SortState {
	return m.sort
}

// SetSort sets the sort column and direction directly.
func (m *Model[T]) SetSort(s SortState) error {
	if s.Sorted() && columnIndex(m.cols, s.Key) < 0 {
		return fmt.Errorf("grid: unknown sort column %q", s.Key)
	}
	if s == m.sort {
		return nil
	}
	m.sort = s
	if s.Sorted() {
		m.focusCol = columnIndex(m.cols, s.Key)
	}
	m.notify("sort")
	return nil
}

// ToggleSort activates the header of column key: a new column sorts
// ascending, the current one flips direction.
func (m *Model[T]) ToggleSort(key string) bool {
	idx := columnIndex(m.cols, key)
	if idx < 0 {
		return false
	}
	m.sort = m.sort.Toggle(key)
	m.focusCol = idx
	m.notify("sort")
	return true
}

// Page returns the current 1-indexed page.
func (m *Model[T]) Page() int {
	return ClampPage(m.page, len(m.rows), m.pageSize)
}

// PageCount returns the number of pages for the current rows.
func (m *Model[T]) PageCount() int {
	return PageCount(len(m.rows), m.pageSize)
}

// PageSize returns the rows shown per page.
func (m *Model[T]) PageSize() int {
	return m.pageSize
}

// SetPageSize changes the rows per page and clamps the current page.
func (m *Model[T]) SetPageSize(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, n)
	}
	m.pageSize = n
	m.page = ClampPage(m.page, len(m.rows), n)
	m.notify("page size")
	return nil
}

// SetPage moves to page p, clamped to the valid range.
func (m *Model[T]) SetPage(p int) bool {
	p = ClampPage(p, len(m.rows), m.pageSize)
	if p == m.page {
		return false
	}
	m.page = p
	m.notify("page")
	return true
}

// NextPage advances one page, stopping at the last.
func (m *Model[T]) NextPage() bool { return m.SetPage(m.Page() + 1) }

// PrevPage goes back one page, stopping at the first.
func (m *Model[T]) PrevPage() bool { return m.SetPage(m.Page() - 1) }

// FirstPage jumps to page 1.
func (m *Model[T]) FirstPage() bool { return m.SetPage(1) }

// LastPage jumps to the last page.
func (m *Model[T]) LastPage() bool { return m.SetPage(m.PageCount()) }

// Widths returns the current column widths.
func (m *Model[T]) Widths() []int {
	return m.resizer.Widths()
}

// Resizing reports whether a column drag is in progress.
func (m *Model[T]) Resizing() bool {
	return m.resizer.Active()
}

// BeginResize starts dragging the boundary of column col at pointer x.
func (m *Model[T]) BeginResize(col, x int) bool {
	return m.resizer.Begin(col, x)
}

// DragResize updates the live width of the dragged column for pointer x.
func (m *Model[T]) DragResize(x int) bool {
	return m.resizer.Move(x)
}

// EndResize commits the dragged width.
func (m *Model[T]) EndResize() bool {
	if !m.resizer.Active() {
		return false
	}
	if m.resizer.End() {
		m.notify("resize")
	}
	return true
}

// CancelResize abandons a drag and restores the width it started with.
func (m *Model[T]) CancelResize() bool {
	return m.resizer.Cancel()
}

// ResetWidth restores column col to its initial width.
func (m *Model[T]) ResetWidth(col int) bool {
	if !m.resizer.Reset(col) {
		return false
	}
	m.notify("reset width")
	return true
}

// NudgeWidth widens (delta > 0) or narrows column col.
func (m *Model[T]) NudgeWidth(col, delta int) bool {
	if !m.resizer.Nudge(col, delta) {
		return false
	}
	m.notify("resize")
	return true
}

// FocusedColumn returns the index of the keyboard-focused column.
func (m *Model[T]) FocusedColumn() int {
	return m.focusCol
}

// SetFocusedColumn moves keyboard focus to column col, wrapping around.
func (m *Model[T]) SetFocusedColumn(col int) {
	n := len(m.cols)
	m.focusCol = ((col % n) + n) % n
}

// SetOrigin tells the grid where its top-left corner is on screen so mouse
// events can be mapped to columns and controls.
func (m *Model[T]) SetOrigin(x, y int) {
	m.originX = x
	m.originY = y
}

// SetWidth limits rendered lines to w cells. Zero disables the limit.
func (m *Model[T]) SetWidth(w int) {
	m.width = max(0, w)
}

// SetStyles replaces the render styles.
func (m *Model[T]) SetStyles(s Styles) {
	m.styles = s
}

// KeyMap returns the key bindings, for help rendering.
func (m *Model[T]) KeyMap() KeyMap {
	return m.keys
}

// Focus enables keyboard handling.
func (m *Model[T]) Focus() {
	m.focused = true
}

// Blur disables keyboard handling. Mouse events are still processed.
func (m *Model[T]) Blur() {
	m.focused = false
}

// Focused reports whether the grid handles keys.
func (m *Model[T]) Focused() bool {
	return m.focused
}

// Close releases a drag in progress and stops the grid from reacting to
// further messages. Call it when the grid is removed from the screen.
func (m *Model[T]) Close() {
	if m.resizer.Cancel() {
		m.log.V(1).Info("resize abandoned on close")
	}
	m.closed = true
}

// Closed reports whether Close was called.
func (m *Model[T]) Closed() bool {
	return m.closed
}

// Init implements the Bubble Tea component contract.
func (m *Model[T]) Init() tea.Cmd {
	return nil
}

// Update handles key and mouse messages.
func (m *Model[T]) Update(msg tea.Msg) (*Model[T], tea.Cmd) {
	if m.closed {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if m.focused {
			m.handleKey(msg)
		}
	case tea.MouseClickMsg:
		m.handleClick(msg)
	case tea.MouseMotionMsg:
		if m.resizer.Active() {
			m.resizer.Move(msg.X)
		}
	case tea.MouseReleaseMsg:
		m.EndResize()
	}
	return m, nil
}

func (m *Model[T]) handleKey(msg tea.KeyPressMsg) {
	switch {
	case key.Matches(msg, m.keys.CancelDrag):
		m.CancelResize()
	case key.Matches(msg, m.keys.NextPage):
		m.NextPage()
	case key.Matches(msg, m.keys.PrevPage):
		m.PrevPage()
	case key.Matches(msg, m.keys.FirstPage):
		m.FirstPage()
	case key.Matches(msg, m.keys.LastPage):
		m.LastPage()
	case key.Matches(msg, m.keys.NextColumn):
		m.SetFocusedColumn(m.focusCol + 1)
	case key.Matches(msg, m.keys.PrevColumn):
		m.SetFocusedColumn(m.focusCol - 1)
	case key.Matches(msg, m.keys.Sort):
		m.ToggleSort(m.cols[m.focusCol].Key)
	case key.Matches(msg, m.keys.Widen):
		m.NudgeWidth(m.focusCol, 1)
	case key.Matches(msg, m.keys.Narrow):
		m.NudgeWidth(m.focusCol, -1)
	case key.Matches(msg, m.keys.ResetWidth):
		m.ResetWidth(m.focusCol)
	}
}

// notify reports a committed state change to the logger and the hook.
func (m *Model[T]) notify(reason string) {
	st := m.State()
	m.log.V(1).Info("grid state changed", "reason", reason, "sort", st.Sort.String(), "page", st.Page)
	if m.onChange != nil {
		m.onChange(st)
	}
}

// Height returns the number of lines View renders.
func (m *Model[T]) Height() int {
	return lipgloss.Height(m.View())
}

// String returns a representation for debugging.
func (m *Model[T]) String() string {
	return fmt.Sprintf("Grid[rows=%d, page=%d/%d, sort=%s, widths=%v]",
		len(m.rows), m.Page(), m.PageCount(), m.sort, m.resizer.Widths())
}
