package grid

import (
	"fmt"
	"slices"
	"strings"
)

// SortDirection is the order applied to the sorted column.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// String returns "asc" or "desc".
func (d SortDirection) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// MarshalText implements encoding.TextMarshaler.
func (d SortDirection) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *SortDirection) UnmarshalText(text []byte) error {
	parsed, err := ParseSortDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseSortDirection accepts asc, ascending, desc or descending. Empty input
// means ascending.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("grid: unknown sort direction %q (expected asc or desc)", s)
}

// SortState is the sort slice of the grid state. An empty Key means the rows
// are shown in input order.
type SortState struct {
	Key       string        `json:"key,omitempty" yaml:"key,omitempty"`
	Direction SortDirection `json:"direction" yaml:"direction"`
}

// Sorted reports whether a sort column is set.
func (s SortState) Sorted() bool {
	return s.Key != ""
}

// Toggle returns the state after the header of column key is activated. A new
// column starts ascending; the same column flips direction. There is no
// transition back to unsorted.
func (s SortState) Toggle(key string) SortState {
	if s.Key != key {
		return SortState{Key: key, Direction: Ascending}
	}
	if s.Direction == Ascending {
		return SortState{Key: key, Direction: Descending}
	}
	return SortState{Key: key, Direction: Ascending}
}

// String renders the state as "key:dir", or "none".
func (s SortState) String() string {
	if !s.Sorted() {
		return "none"
	}
	return s.Key + ":" + s.Direction.String()
}

// SortRows returns rows ordered by state. The input slice is never modified;
// when no sort applies the input is returned as is.
//
// Columns with a Compare function are stable-sorted with it and reversed for
// descending order. Otherwise field values are ordered by cmp, nil values are
// moved after all others and stay there in both directions.
func SortRows[T any](rows []T, cols []Column[T], state SortState, field FieldFunc[T], cmp *Comparator) []T {
	if !state.Sorted() || len(rows) < 2 {
		return rows
	}
	idx := columnIndex(cols, state.Key)
	if idx < 0 {
		return rows
	}
	col := cols[idx]

	if col.Compare != nil {
		out := slices.Clone(rows)
		slices.SortStableFunc(out, col.Compare)
		if state.Direction == Descending {
			slices.Reverse(out)
		}
		return out
	}

	type keyed struct {
		row   T
		value any
	}
	present := make([]keyed, 0, len(rows))
	var missing []T
	for _, r := range rows {
		v := field(r, col.Key)
		if isNil(v) {
			missing = append(missing, r)
			continue
		}
		present = append(present, keyed{row: r, value: v})
	}

	slices.SortStableFunc(present, func(a, b keyed) int {
		return cmp.Compare(a.value, b.value)
	})
	if state.Direction == Descending {
		slices.Reverse(present)
	}

	out := make([]T, 0, len(rows))
	for _, k := range present {
		out = append(out, k.row)
	}
	return append(out, missing...)
}
