package validation

import (
	"math"
	"regexp"
	"strconv"

	"github.com/spf13/cast"
)

var intPattern = regexp.MustCompile(`^[-+]?[0-9]+$`)

// IsInt accepts integer literals that fit in an int64.
func IsInt(v Value) bool {
	s, ok := v.Raw.(string)
	if !ok || !intPattern.MatchString(s) {
		return false
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// NotEmpty fails for absent, null, empty string and empty list values.
func NotEmpty(v Value) bool {
	if !v.Present || v.Raw == nil {
		return false
	}
	switch raw := v.Raw.(type) {
	case string:
		return raw != ""
	case []any:
		return len(raw) > 0
	}
	return true
}

// IsNumeric only accepts JSON numbers; numeric-looking strings are rejected.
func IsNumeric(v Value) bool {
	f, ok := v.Raw.(float64)
	return ok && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// GreaterThanZero coerces numbers, numeric strings and booleans and
// requires the result to be strictly positive.
func GreaterThanZero(v Value) bool {
	switch v.Raw.(type) {
	case float64, string, bool:
	default:
		return false
	}
	f, err := cast.ToFloat64E(v.Raw)
	if err != nil {
		return false
	}
	return f > 0
}

// IsBoolean only accepts JSON booleans.
func IsBoolean(v Value) bool {
	_, ok := v.Raw.(bool)
	return ok
}
