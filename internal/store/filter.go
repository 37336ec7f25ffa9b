package store

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/matthewbaird/roster/internal/schema"
	"github.com/matthewbaird/roster/internal/types"
)

// Matches reports whether a record passes every non-empty filter.
// This is the canonical definition of the filter semantics; the SQL
// backend reproduces it server-side.
func Matches(rec types.Record, filters types.Filters) bool {
	for key, val := range filters {
		if val == "" {
			continue
		}
		if !matchOne(rec, key, val) {
			return false
		}
	}
	return true
}

func matchOne(rec types.Record, key, val string) bool {
	switch key {
	case FilterProject, "project":
		return strings.Contains(
			strings.ToLower(rec.String(schema.FieldProject)),
			strings.ToLower(val),
		)
	case FilterStream:
		return rec.String(schema.FieldStream) == val
	case FilterContract:
		return rec.String(schema.FieldContract) == val
	case FilterAllocationStatus:
		alloc, _ := rec.Number(schema.FieldAllocation)
		switch val {
		case AllocationPartial:
			return alloc > 0 && alloc < 100
		case AllocationFull:
			return alloc >= 100
		}
		return true
	case FilterExpiringStatus:
		days, ok := rec.Number(schema.FieldCountdown)
		switch val {
		case ExpiringAtRisk:
			return ok && days <= 30
		case Expiring31to60:
			return ok && days >= 31 && days <= 60
		case Expiring61to90:
			return ok && days >= 61 && days <= 90
		}
		// Unknown bucket values add no condition, matching the SQL
		// backend.
		return true
	case FilterAllocationRange:
		lo, hi, ok := parseRange(val)
		if !ok {
			return true
		}
		alloc, _ := rec.Number(schema.FieldAllocation)
		return alloc >= lo && alloc <= hi
	default:
		// Unrecognized filters fall back to exact field equality.
		return rec.String(key) == val
	}
}

// parseRange parses a "min-max" allocation range.
func parseRange(s string) (lo, hi float64, ok bool) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	hi, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

// SortRecords orders records in place by a single key. Numbers compare
// numerically, everything else compares as case-folded text; absent
// values sort first ascending.
func SortRecords(recs []types.Record, s types.Sort) {
	if s.Key == "" {
		return
	}
	desc := s.Direction == types.SortDesc
	sort.SliceStable(recs, func(i, j int) bool {
		less := lessValue(recs[i][s.Key], recs[j][s.Key])
		if desc {
			return lessValue(recs[j][s.Key], recs[i][s.Key])
		}
		return less
	})
}

func lessValue(a, b any) bool {
	an, aok := asNumber(a)
	bn, bok := asNumber(b)
	if aok && bok {
		return an < bn
	}
	return strings.ToLower(asString(a)) < strings.ToLower(asString(b))
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []string:
		return strings.Join(s, ", ")
	default:
		b, _ := json.Marshal(s)
		return string(b)
	}
}

// Page slices the records for a 1-based page. A zero limit returns
// everything from the offset on.
func Page(recs []types.Record, q types.ListQuery) []types.Record {
	offset := q.Offset()
	if offset >= len(recs) {
		return nil
	}
	recs = recs[offset:]
	if limit := q.Limit(); limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}
