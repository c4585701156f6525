package columns

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/oakwood-commons/gridx/internal/config"
	"github.com/oakwood-commons/gridx/pkg/grid"
)

const (
	boolTrue  = "✓"
	boolFalse = "✗"
)

// dateLayouts are tried in order when a date column holds text.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.DateTime,
	"2006-01-02T15:04:05",
	time.DateOnly,
	"2006/01/02",
}

// Formatter turns a field value into display text.
type Formatter func(v any) string

// NewFormatter returns the formatter for a config format name. Numbers are
// grouped according to tag.
func NewFormatter(format string, tag language.Tag) Formatter {
	p := message.NewPrinter(tag)
	switch format {
	case config.FormatNumber:
		return numeric(func(f float64) string {
			if f == math.Trunc(f) && math.Abs(f) < 1e15 {
				return p.Sprintf("%d", int64(f))
			}
			return p.Sprintf("%.2f", f)
		})
	case config.FormatCurrency:
		return numeric(func(f float64) string {
			if f < 0 {
				return "-$" + p.Sprintf("%.2f", -f)
			}
			return "$" + p.Sprintf("%.2f", f)
		})
	case config.FormatPercent:
		return numeric(func(f float64) string {
			return strconv.FormatFloat(f*100, 'f', -1, 64) + "%"
		})
	case config.FormatDate:
		return temporal(time.DateOnly)
	case config.FormatDateTime:
		return temporal("2006-01-02 15:04")
	case config.FormatBool:
		return formatBool
	case config.FormatUpper:
		return func(v any) string { return strings.ToUpper(grid.Stringify(v)) }
	}
	return grid.Stringify
}

// numeric applies fn to values that convert to a number and falls back to
// plain text otherwise.
func numeric(fn func(float64) string) Formatter {
	return func(v any) string {
		if f, ok := toFloat(v); ok {
			return fn(f)
		}
		return grid.Stringify(v)
	}
}

func temporal(layout string) Formatter {
	return func(v any) string {
		if t, ok := toTime(v); ok {
			return t.Format(layout)
		}
		return grid.Stringify(v)
	}
}

func formatBool(v any) string {
	switch b := v.(type) {
	case nil:
		return ""
	case bool:
		if b {
			return boolTrue
		}
		return boolFalse
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			return formatBool(parsed)
		}
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "yes", "y", "on":
			return boolTrue
		case "no", "n", "off":
			return boolFalse
		}
	}
	if f, ok := toFloat(v); ok {
		return formatBool(f != 0)
	}
	return grid.Stringify(v)
}

// toFloat converts numbers, json.Number and numeric text to float64.
func toFloat(v any) (float64, bool) {
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
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return 0, false
}

// toTime accepts time.Time, the layouts in dateLayouts, and Unix seconds.
func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t != nil {
			return *t, true
		}
		return time.Time{}, false
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	}
	if f, ok := toFloat(v); ok {
		return time.Unix(int64(f), 0).UTC(), true
	}
	return time.Time{}, false
}

// isNumeric reports whether v is a number or numeric text.
func isNumeric(v any) bool {
	_, ok := toFloat(v)
	return ok
}
