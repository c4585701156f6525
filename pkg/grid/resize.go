package grid

import "math"

// drag is the transient record of an in-progress column resize.
type drag struct {
	column       int
	startX       int
	widthAtStart int
}

// Resizer owns the per-column widths and tracks pointer drags on column
// boundaries. Each operation touches exactly one column.
type Resizer struct {
	widths  []int
	initial []int
	minimum []int
	active  *drag
}

// NewResizer creates a resizer for columns with the given initial and minimum
// widths. Both slices must have the same length.
func NewResizer(initial, minimum []int) *Resizer {
	r := &Resizer{
		widths:  make([]int, len(initial)),
		initial: append([]int(nil), initial...),
		minimum: append([]int(nil), minimum...),
	}
	for i, w := range initial {
		r.widths[i] = r.clamp(i, w)
	}
	return r
}

// Widths returns a copy of the current widths, including any live drag.
func (r *Resizer) Widths() []int {
	return append([]int(nil), r.widths...)
}

// Width returns the current width of column col.
func (r *Resizer) Width(col int) int {
	if col < 0 || col >= len(r.widths) {
		return 0
	}
	return r.widths[col]
}

// SetWidths replaces all widths, clamping each to its minimum. It is ignored
// when the count does not match the number of columns.
func (r *Resizer) SetWidths(widths []int) bool {
	if len(widths) != len(r.widths) {
		return false
	}
	for i, w := range widths {
		r.widths[i] = r.clamp(i, w)
	}
	return true
}

// Active reports whether a drag is in progress.
func (r *Resizer) Active() bool {
	return r.active != nil
}

// ActiveColumn returns the column being dragged, or -1.
func (r *Resizer) ActiveColumn() int {
	if r.active == nil {
		return -1
	}
	return r.active.column
}

// Begin starts a drag of column col at pointer position x. A drag already in
// progress is committed first.
func (r *Resizer) Begin(col, x int) bool {
	if col < 0 || col >= len(r.widths) {
		return false
	}
	r.End()
	r.active = &drag{column: col, startX: x, widthAtStart: r.widths[col]}
	return true
}

// Move recomputes the dragged column's width for pointer position x. It
// reports whether the width changed.
func (r *Resizer) Move(x int) bool {
	if r.active == nil {
		return false
	}
	next := r.clampFloat(r.active.column, float64(r.active.widthAtStart)+float64(x-r.active.startX))
	if next == r.widths[r.active.column] {
		return false
	}
	r.widths[r.active.column] = next
	return true
}

// End finishes the drag, keeping the live width. It reports whether the drag
// left the column with a different width than it started with.
func (r *Resizer) End() bool {
	if r.active == nil {
		return false
	}
	changed := r.widths[r.active.column] != r.active.widthAtStart
	r.active = nil
	return changed
}

// Cancel abandons the drag and restores the width the column had when it
// started.
func (r *Resizer) Cancel() bool {
	if r.active == nil {
		return false
	}
	r.widths[r.active.column] = r.active.widthAtStart
	r.active = nil
	return true
}

// Reset restores column col to its initial width.
func (r *Resizer) Reset(col int) bool {
	if col < 0 || col >= len(r.widths) {
		return false
	}
	if r.active != nil && r.active.column == col {
		r.active = nil
	}
	changed := r.widths[col] != r.initial[col]
	r.widths[col] = r.initial[col]
	return changed
}

// Nudge changes the width of col by delta cells, honoring the minimum.
func (r *Resizer) Nudge(col, delta int) bool {
	if col < 0 || col >= len(r.widths) {
		return false
	}
	next := r.clamp(col, r.widths[col]+delta)
	if next == r.widths[col] {
		return false
	}
	r.widths[col] = next
	return true
}

func (r *Resizer) clamp(col, w int) int {
	return max(r.minimum[col], w)
}

func (r *Resizer) clampFloat(col int, w float64) int {
	return r.clamp(col, int(math.Round(w)))
}
