package grid

import "fmt"

// State is a snapshot of everything a grid owns: sort, page and column
// widths. It can be persisted and handed back through WithInitialState.
type State struct {
	Sort   SortState `json:"sort" yaml:"sort"`
	Page   int       `json:"page" yaml:"page"`
	Widths []int     `json:"widths,omitempty" yaml:"widths,omitempty"`
}

func (s State) clone() State {
	s.Widths = append([]int(nil), s.Widths...)
	return s
}

// String returns a compact description for logs.
func (s State) String() string {
	return fmt.Sprintf("sort=%s page=%d widths=%v", s.Sort, s.Page, s.Widths)
}
