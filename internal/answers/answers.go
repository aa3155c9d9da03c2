// Package answers wraps the questionnaire answer record. Lookups never fail:
// a missing or mistyped key resolves to the default the caller passes in.
package answers

import (
	"fmt"
	"strconv"
	"strings"
)

// Record maps question identifiers to single choices, multi-choice sets,
// numbers, booleans or free text. It is treated as read-only.
type Record map[string]any

// Has reports whether key is present with a non-nil value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// String returns the trimmed string value of key, or def.
func (r Record) String(key, def string) string {
	var s string
	switch v := r[key].(type) {
	case string:
		s = v
	case fmt.Stringer:
		s = v.String()
	default:
		return def
	}
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

// Strings returns the multi-choice value of key. A single string is treated as
// a one-element selection; empty entries are dropped.
func (r Record) Strings(key string) []string {
	var raw []string
	switch v := r[key].(type) {
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case string:
		raw = []string{v}
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Contains reports whether the multi-choice value of key includes any of values.
func (r Record) Contains(key string, values ...string) bool {
	for _, s := range r.Strings(key) {
		for _, v := range values {
			if s == v {
				return true
			}
		}
	}
	return false
}

// Number returns the numeric value of key, accepting numeric strings.
func (r Record) Number(key string, def float64) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case uint:
		return float64(v)
	case uint64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return def
		}
		return f
	default:
		return def
	}
}

// Bool returns the boolean value of key, accepting "true", "yes" and "1".
func (r Record) Bool(key string, def bool) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true
		case "false", "no", "0":
			return false
		}
	}
	return def
}

// OneOf returns the string value of key when it is one of allowed, else def.
func (r Record) OneOf(key, def string, allowed ...string) string {
	s := r.String(key, "")
	for _, a := range allowed {
		if s == a {
			return s
		}
	}
	return def
}
