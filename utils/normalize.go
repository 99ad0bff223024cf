package utils

import (
	"math"
	"strconv"
	"strings"
)

// Coercion helpers for loosely typed request payloads. Clients may send
// room/floor numbers and ages as strings or as JSON numbers; everything is
// normalized to trimmed strings and integers before validation.

func IsNonEmptyString(v interface{}) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}

// ToOptionalInt coerces a string or JSON number to an integer, truncating
// any fractional part. Returns false for nil, empty strings, and values
// that are not finite numbers.
func ToOptionalInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(math.Trunc(n)), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int(math.Trunc(f)), true
	default:
		return 0, false
	}
}

// NormalizeKey turns a room/floor number value into its canonical string
// form: strings are trimmed, numbers take their decimal form. Returns ""
// when the value is neither.
func NormalizeKey(v interface{}) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	if n, ok := ToOptionalInt(v); ok {
		return strconv.Itoa(n)
	}
	return ""
}

// TrimString returns the trimmed value when v is a string, "" otherwise.
func TrimString(v interface{}) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
