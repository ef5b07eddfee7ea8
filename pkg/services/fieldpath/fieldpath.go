// Package fieldpath resolves dotted property paths such as "patient.sex"
// against report source objects.
package fieldpath

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Accessor is implemented by records that expose named fields to paths.
type Accessor interface {
	Field(name string) (any, bool)
}

type absent struct{}

func (absent) String() string { return "" }

// Absent is returned when a path segment does not resolve.
var Absent any = absent{}

func IsAbsent(v any) bool {
	_, ok := v.(absent)
	return ok
}

// Resolve walks path segment by segment. Nil or missing intermediate links
// yield Absent instead of failing.
func Resolve(root any, path string) any {
	if path == "" {
		return root
	}
	cur := root
	for _, seg := range strings.Split(path, ".") {
		if isNil(cur) {
			return Absent
		}
		next, ok := step(cur, seg)
		if !ok {
			return Absent
		}
		cur = next
	}
	if isNil(cur) {
		return Absent
	}
	return cur
}

func step(cur any, seg string) (any, bool) {
	switch v := cur.(type) {
	case Accessor:
		return v.Field(seg)
	case map[string]any:
		next, ok := v[seg]
		return next, ok
	case map[string]string:
		next, ok := v[seg]
		return next, ok
	}
	return nil, false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// DefaultTimeLayout is used when a time value has no bound formatter.
const DefaultTimeLayout = "2006-01-02 15:04"

// Text coerces a raw value to display text.
func Text(v any) string {
	if isNil(v) || IsAbsent(v) {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(DefaultTimeLayout)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []string:
		return strings.Join(t, ", ")
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}
