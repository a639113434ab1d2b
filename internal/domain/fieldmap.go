package domain

import "strings"

// FieldMap is the flat answer record of a wedding form. Values are string, bool or float64.
type FieldMap map[string]any

// Clone returns a shallow copy; values are immutable scalars.
func (m FieldMap) Clone() FieldMap {
	out := make(FieldMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Filled reports whether the named field holds a non-empty answer.
func (m FieldMap) Filled(name string) bool {
	return IsFilled(m[name])
}

// String returns the field as a string, or "" when absent or not a string.
func (m FieldMap) String(name string) string {
	s, _ := m[name].(string)
	return s
}

// IsFilled treats trimmed non-blank strings, true booleans and non-zero numbers as answers.
func IsFilled(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case bool:
		return t
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return true
	}
}
