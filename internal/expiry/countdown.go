// Package expiry computes the contract-expiry countdown and its
// severity classification. Both are pure functions over calendar dates;
// all date math happens at UTC midnight so that the same calendar date
// yields the same countdown regardless of the host timezone.
package expiry

import (
	"time"
)

// DateLayout is the canonical calendar-date representation used
// throughout the system for date-typed fields.
const DateLayout = "2006-01-02"

// dateLayouts are the accepted input spellings, tried in order. The
// legacy day-first layout comes from older spreadsheet exports.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02/01/2006",
}

// ParseDate parses a date value into a UTC-midnight time. Accepted
// inputs are time.Time and the string layouts above. ok is false for
// empty, absent, or unparsable values.
func ParseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return Midnight(d), true
	case string:
		if d == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, d); err == nil {
				return Midnight(t), true
			}
		}
	}
	return time.Time{}, false
}

// Midnight truncates t to its calendar date, re-anchored at UTC
// midnight. Using the wall-clock date (not the UTC instant) keeps a
// date entered as "2025-03-01" the same date in every timezone.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Days returns the raw whole-day countdown from today to end. Negative
// when the end date is in the past.
func Days(end, today time.Time) int {
	diff := Midnight(end).Sub(Midnight(today))
	return int(diff.Round(24*time.Hour) / (24 * time.Hour))
}

// Countdown computes the persisted countdown for an end-date value:
// nil when the value is empty or unparsable, otherwise the day count
// floor-clamped at 0. The raw (possibly negative) count is returned
// separately so callers can still distinguish already-expired contracts.
func Countdown(endDate any, today time.Time) (clamped *int, raw int) {
	end, ok := ParseDate(endDate)
	if !ok {
		return nil, 0
	}
	raw = Days(end, today)
	c := raw
	if c < 0 {
		c = 0
	}
	return &c, raw
}

// Severity is the display classification of a countdown.
type Severity string

const (
	SeverityNone   Severity = ""
	SeverityRed    Severity = "red"
	SeverityOrange Severity = "orange"
	SeverityGreen  Severity = "green"
)

// Classify maps a countdown to its severity band. Expired contracts
// (negative raw days) are red like 0-30, but remain distinguishable to
// callers via the raw count.
func Classify(days *int) Severity {
	if days == nil {
		return SeverityNone
	}
	switch {
	case *days <= 30:
		return SeverityRed
	case *days <= 90:
		return SeverityOrange
	default:
		return SeverityGreen
	}
}

// Bucket labels used by the expiring-contracts chart.
const (
	Bucket0to30  = "0-30 Days"
	Bucket31to60 = "31-60 Days"
	Bucket61to90 = "61-90 Days"
)

// Bucket returns the chart bucket for a countdown, or "" when the
// countdown is absent or beyond 90 days.
func Bucket(days int) string {
	switch {
	case days < 0:
		return ""
	case days <= 30:
		return Bucket0to30
	case days <= 60:
		return Bucket31to60
	case days <= 90:
		return Bucket61to90
	default:
		return ""
	}
}
