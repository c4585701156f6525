package grid

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Fielder is implemented by row types that resolve their own fields by key.
type Fielder interface {
	Field(key string) any
}

// FieldFunc reads the value stored under key in row.
type FieldFunc[T any] func(row T, key string) any

// FieldValue reads key from row. It understands Fielder implementations, maps
// keyed by strings, and structs (by field name, `grid` tag or `json` tag,
// case-insensitively), following pointers and interfaces. Missing fields and
// nil rows yield nil.
func FieldValue(row any, key string) any {
	if row == nil {
		return nil
	}
	if f, ok := row.(Fielder); ok {
		return f.Field(key)
	}
	switch m := row.(type) {
	case map[string]any:
		return m[key]
	case map[string]string:
		if v, ok := m[key]; ok {
			return v
		}
		return nil
	}

	v := reflect.ValueOf(row)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil
		}
		mv := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
		if !mv.IsValid() {
			return nil
		}
		return mv.Interface()
	case reflect.Struct:
		return structField(v, key)
	}
	return nil
}

func structField(v reflect.Value, key string) any {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if fieldMatches(sf, key) {
			return v.Field(i).Interface()
		}
	}
	return nil
}

func fieldMatches(sf reflect.StructField, key string) bool {
	for _, tag := range []string{"grid", "json"} {
		name, _, _ := strings.Cut(sf.Tag.Get(tag), ",")
		if name == "-" {
			return false
		}
		if name != "" && strings.EqualFold(name, key) {
			return true
		}
	}
	return strings.EqualFold(sf.Name, key)
}

// isNil reports whether v represents a missing value.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Stringify converts a field value into display text. Nil values render as the
// empty string.
func Stringify(v any) string {
	if isNil(v) {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case []byte:
		return string(x)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		return Stringify(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}
