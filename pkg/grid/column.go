// Package grid provides a generic, sortable, resizable and paginated data grid
// component for Bubble Tea programs.
//
// A Grid is built from an ordered list of Column definitions and displays any
// homogeneous row type T. Rows stay owned by the caller; the grid only derives
// sorted and windowed views of them.
package grid

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultInitialWidth is the width (in terminal cells) of a column that
	// does not declare one.
	DefaultInitialWidth = 14
	// DefaultMinWidth is the smallest width a column can be resized to when it
	// does not declare its own minimum.
	DefaultMinWidth = 6
)

var (
	// ErrNoColumns is returned when a grid is created without columns.
	ErrNoColumns = errors.New("grid: at least one column is required")
	// ErrEmptyKey is returned when a column has a blank key.
	ErrEmptyKey = errors.New("grid: column key must not be empty")
	// ErrDuplicateKey is returned when two columns share a key.
	ErrDuplicateKey = errors.New("grid: duplicate column key")
	// ErrInvalidPageSize is returned for page sizes below 1.
	ErrInvalidPageSize = errors.New("grid: page size must be positive")
)

// Align controls horizontal placement of cell content.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// String returns the config name of the alignment.
func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// ParseAlign converts "left", "center" or "right" (case-insensitive) into an
// Align. An empty string is left.
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	}
	return AlignLeft, fmt.Errorf("grid: unknown alignment %q (expected left, center or right)", s)
}

// Column describes how one field of a row of type T is displayed, sorted and
// sized.
type Column[T any] struct {
	// Key identifies the column and, unless Render is set, names the row field
	// that is displayed.
	Key string
	// Label is the header text. Defaults to Key.
	Label string
	// InitialWidth is the starting width in cells. Defaults to DefaultInitialWidth.
	InitialWidth int
	// MinWidth is the resize floor in cells. Defaults to DefaultMinWidth.
	MinWidth int
	Align    Align
	// Render produces the display text for a row. It must handle rows whose
	// field is missing or nil.
	Render func(row T) string
	// Compare orders two rows (negative, zero, positive). When nil the default
	// comparator is applied to the field values.
	Compare func(a, b T) int
	// AllowOverflow lets content run past the cell boundary instead of being
	// clipped.
	AllowOverflow bool
}

// title returns the header text for the column.
func (c Column[T]) title() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Key
}

// normalizeColumns validates the column list and fills in width defaults. The
// input slice is not modified.
func normalizeColumns[T any](cols []Column[T]) ([]Column[T], error) {
	if len(cols) == 0 {
		return nil, ErrNoColumns
	}
	out := make([]Column[T], len(cols))
	seen := make(map[string]int, len(cols))
	for i, c := range cols {
		if strings.TrimSpace(c.Key) == "" {
			return nil, fmt.Errorf("column %d: %w", i, ErrEmptyKey)
		}
		if prev, ok := seen[c.Key]; ok {
			return nil, fmt.Errorf("%w %q (columns %d and %d)", ErrDuplicateKey, c.Key, prev, i)
		}
		seen[c.Key] = i

		if c.MinWidth <= 0 {
			c.MinWidth = DefaultMinWidth
		}
		if c.InitialWidth <= 0 {
			c.InitialWidth = DefaultInitialWidth
		}
		if c.InitialWidth < c.MinWidth {
			c.InitialWidth = c.MinWidth
		}
		out[i] = c
	}
	return out, nil
}

// columnIndex returns the position of key in cols, or -1.
func columnIndex[T any](cols []Column[T], key string) int {
	for i, c := range cols {
		if c.Key == key {
			return i
		}
	}
	return -1
}
