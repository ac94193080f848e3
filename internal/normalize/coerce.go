package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// unknownValue is the explicit marker upstream (and the client's sentinel
// scrubbing) uses for unavailable readings.
const unknownValue = "未知"

// toFloat coerces a raw element value to a float. Only plain digit-and-dot
// strings (and native JSON numbers) coerce; sentinel strings like 未知 yield
// nil rather than zero so absence stays distinguishable from a real reading.
func toFloat(v any) *float64 {
	switch val := v.(type) {
	case float64:
		return &val
	case string:
		if !numericString(val) {
			return nil
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// numericString reports whether s consists of digits with at most one dot.
func numericString(s string) bool {
	if s == "" {
		return false
	}
	s = strings.Replace(s, ".", "", 1)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// displayValue renders a raw element value for the human-readable fields.
// Floats drop trailing zeros so 25.0 reads as "25".
func displayValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
