package grid

import (
	"cmp"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator orders field values for the default sort. It is not safe for
// concurrent use because the underlying collator keeps scratch buffers.
type Comparator struct {
	coll *collate.Collator
}

// NewComparator returns a comparator that orders text using the collation
// rules of tag.
func NewComparator(tag language.Tag) *Comparator {
	return &Comparator{coll: collate.New(tag)}
}

// Compare orders two field values:
//   - nil sorts after every non-nil value;
//   - two numbers (or two numeric strings) compare numerically;
//   - two times compare chronologically;
//   - anything else compares by its display text using locale collation.
func (c *Comparator) Compare(a, b any) int {
	aNil, bNil := isNil(a), isNil(b)
	switch {
	case aNil && bNil:
		return 0
	case aNil:
		return 1
	case bNil:
		return -1
	}

	if x, ok := asNumber(a); ok {
		if y, ok := asNumber(b); ok {
			return cmp.Compare(x, y)
		}
	}
	if x, ok := a.(time.Time); ok {
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}
	return c.coll.CompareString(Stringify(a), Stringify(b))
}

// asNumber reports whether v is numeric, converting it to float64.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), !math.IsNaN(float64(n))
	case float64:
		return n, !math.IsNaN(n)
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		return parseNumericText(n)
	}
	return 0, false
}

// parseNumericText accepts plain decimal text such as "-20", "3.5" or
// "1,250.00". Words like "NaN" or "Inf" are not treated as numbers.
func parseNumericText(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && !strings.ContainsRune("+-.,eE", r) {
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
