// Package coerce holds the value coercion helpers shared by the default
// value deriver and the rule engine. All helpers are pure and never panic on
// unexpected input shapes.
package coerce

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var truthyTokens = map[string]struct{}{
	"true": {}, "1": {}, "yes": {}, "y": {}, "on": {},
}

var falsyTokens = map[string]struct{}{
	"false": {}, "0": {}, "no": {}, "n": {}, "off": {}, "": {},
}

// Bool reports the boolean interpretation of value. Strings are matched
// against a fixed set of case-insensitive truthy/falsy tokens before falling
// back to general truthiness (non-empty string, non-zero number, non-nil
// everything else).
func Bool(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		token := strings.ToLower(strings.TrimSpace(v))
		if _, ok := truthyTokens[token]; ok {
			return true
		}
		if _, ok := falsyTokens[token]; ok {
			return false
		}
		return token != ""
	}
	if n, ok := Number(value); ok {
		return n != 0
	}
	return true
}

// Number parses value as a float64. Strings are trimmed before parsing.
func Number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		parsed, err := v.Float64()
		return parsed, err == nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

// Integer parses value as an int64, truncating fractional parts that survive
// a float round trip exactly.
func Integer(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err == nil {
			return parsed, true
		}
	}
	if n, ok := Number(value); ok && n == float64(int64(n)) {
		return int64(n), true
	}
	return 0, false
}

// JSON attempts to decode a string value as JSON. Non-string values are
// returned unchanged with ok set to true since they already carry structure.
func JSON(value any) (any, bool) {
	raw, isString := value.(string)
	if !isString {
		return value, true
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, false
	}
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return nil, false
	}
	return decoded, true
}

// String renders value for comparisons and length checks. Strings pass
// through untouched; everything else uses the fmt default representation.
func String(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	}
	return fmt.Sprint(value)
}

// IsEmpty reports whether value counts as "nothing submitted": nil, a string
// that is blank after trimming, or an empty slice/map.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	}
	return false
}
