package grid

import tea "charm.land/bubbletea/v2"

// handleClick routes a left click to the header (sort or start a resize) or
// the footer page controls. Coordinates are relative to SetOrigin.
func (m *Model[T]) handleClick(msg tea.MouseClickMsg) {
	if msg.Button != tea.MouseLeft {
		return
	}
	x, y := msg.X-m.originX, msg.Y-m.originY

	if y == headerLine {
		if col := m.handleAt(x); col >= 0 {
			m.clickHandle(col, msg.X)
			return
		}
		if col := m.columnAt(x); col >= 0 {
			m.focusCol = col
			m.ToggleSort(m.cols[col].Key)
		}
		return
	}

	frame := m.Frame()
	if y != m.footerLine(frame) {
		return
	}
	for _, it := range layoutFooter(summaryText(frame), pageControls(frame.Number, frame.TotalPages, m.maxPageButtons)) {
		if x >= it.x && x < it.x+it.width {
			if it.control.target > 0 {
				m.SetPage(it.control.target)
			}
			return
		}
	}
}

// clickHandle starts a drag on the handle of col, or resets the column when
// the click follows another one on the same handle quickly enough.
func (m *Model[T]) clickHandle(col, screenX int) {
	now := m.now()
	last := m.lastHandleClick
	if last.valid && last.column == col && now.Sub(last.at) <= DoubleClickInterval {
		m.lastHandleClick = handlePress{}
		m.resizer.Cancel()
		m.ResetWidth(col)
		return
	}
	m.lastHandleClick = handlePress{column: col, at: now, valid: true}
	m.BeginResize(col, screenX)
}

// columnStarts returns the offset of each column's first cell. Every column
// is followed by its one-cell handle.
func (m *Model[T]) columnStarts() []int {
	widths := m.resizer.Widths()
	starts := make([]int, len(widths))
	x := 0
	for i, w := range widths {
		starts[i] = x
		x += w + 1
	}
	return starts
}

// handleAt returns the column whose resize handle sits at x, or -1.
func (m *Model[T]) handleAt(x int) int {
	for i, start := range m.columnStarts() {
		if x == start+m.resizer.Width(i) {
			return i
		}
	}
	return -1
}

// columnAt returns the column whose content area covers x, or -1.
func (m *Model[T]) columnAt(x int) int {
	for i, start := range m.columnStarts() {
		if x >= start && x < start+m.resizer.Width(i) {
			return i
		}
	}
	return -1
}
