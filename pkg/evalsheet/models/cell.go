// Package models defines data structures for evaluation spreadsheets.
package models

import (
	"strconv"
	"strings"
)

// Value is a single scalar cell value.
// It holds nil (missing), int64, float64, bool or string.
type Value = any

// IsMissing reports whether v is the missing value.
// Blank and whitespace-only strings count as missing.
func IsMissing(v Value) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// Text renders v as trimmed text.
// Integral floats are rendered without a fractional part so that 12 and 12.0 compare equal.
func Text(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// Number converts v to a float64 when it holds a number or numeric text.
func Number(v Value) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(x, ",", ".")), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
