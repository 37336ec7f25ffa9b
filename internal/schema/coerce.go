package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matthewbaird/roster/internal/expiry"
)

// Coerce converts a raw value (typically a string from a form control
// or an untyped JSON value) into the typed value declared for the
// field. prev is the field's previous value; invalid numeric input
// retains it rather than silently zeroing what the user typed.
func Coerce(f FieldSpec, raw, prev any) any {
	if k, ok := kinds[f.Type]; ok {
		return k.coerce(raw, prev)
	}
	return coerceText(raw, prev)
}

func coerceText(raw, _ any) any {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

func coerceNumber(raw, prev any) any {
	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case bool:
		if v {
			return float64(1)
		}
		return float64(0)
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return n
		}
	}
	if prev != nil {
		return prev
	}
	return float64(0)
}

func coerceDate(raw, prev any) any {
	if s, ok := raw.(string); ok && s == "" {
		return ""
	}
	if t, ok := expiry.ParseDate(raw); ok {
		return t.Format(expiry.DateLayout)
	}
	return prev
}

func coerceBoolean(raw, _ any) any {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "false", "0", "no":
			return false
		default:
			return true
		}
	case float64:
		return v != 0
	case int:
		return v != 0
	case nil:
		return false
	default:
		return true
	}
}

// coerceArray splits a comma-joined string into trimmed, non-empty
// tokens. Already-array values pass through; anything else becomes a
// single-element slice.
func coerceArray(raw, _ any) any {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	case string:
		return SplitList(v)
	default:
		return []string{fmt.Sprintf("%v", v)}
	}
}

// SplitList splits a comma-joined string into trimmed tokens, dropping
// empty ones.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
