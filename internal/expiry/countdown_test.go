package expiry

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDateLayouts(t *testing.T) {
	want := date(2025, time.March, 1)
	for _, in := range []string{
		"2025-03-01",
		"2025-03-01T10:30:00Z",
		"2025-03-01T10:30:00",
		"01/03/2025",
	} {
		got, ok := ParseDate(in)
		if !ok {
			t.Fatalf("ParseDate(%q) not ok", in)
		}
		if !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseDateRejects(t *testing.T) {
	for _, in := range []any{"", "not-a-date", nil, 42} {
		if _, ok := ParseDate(in); ok {
			t.Errorf("ParseDate(%v) unexpectedly ok", in)
		}
	}
}

func TestParseDateIgnoresTimezone(t *testing.T) {
	// A late-evening local timestamp must stay on its own calendar
	// date, not shift a day when viewed from UTC.
	loc := time.FixedZone("UTC-8", -8*3600)
	in := time.Date(2025, time.March, 1, 23, 0, 0, 0, loc)
	got, ok := ParseDate(in)
	if !ok {
		t.Fatal("ParseDate(time.Time) not ok")
	}
	if !got.Equal(date(2025, time.March, 1)) {
		t.Errorf("got %v, want 2025-03-01 UTC", got)
	}
}

func TestCountdown(t *testing.T) {
	today := date(2025, time.January, 10)
	tests := []struct {
		name    string
		end     any
		clamped int
		raw     int
	}{
		{"future", "2025-01-20", 10, 10},
		{"today", "2025-01-10", 0, 0},
		{"tomorrow", "2025-01-11", 1, 1},
		{"expired clamps to zero", "2025-01-05", 0, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clamped, raw := Countdown(tt.end, today)
			if clamped == nil {
				t.Fatal("clamped is nil")
			}
			if *clamped != tt.clamped || raw != tt.raw {
				t.Errorf("Countdown = (%d, %d), want (%d, %d)", *clamped, raw, tt.clamped, tt.raw)
			}
		})
	}
}

func TestCountdownAbsent(t *testing.T) {
	today := date(2025, time.January, 10)
	for _, end := range []any{nil, "", "garbage"} {
		if clamped, _ := Countdown(end, today); clamped != nil {
			t.Errorf("Countdown(%v) = %d, want nil", end, *clamped)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		days *int
		want Severity
	}{
		{nil, SeverityNone},
		{ptr(0), SeverityRed},
		{ptr(30), SeverityRed},
		{ptr(31), SeverityOrange},
		{ptr(90), SeverityOrange},
		{ptr(91), SeverityGreen},
	}
	for _, tt := range tests {
		if got := Classify(tt.days); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func TestBucket(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{-1, ""},
		{0, Bucket0to30},
		{30, Bucket0to30},
		{31, Bucket31to60},
		{60, Bucket31to60},
		{61, Bucket61to90},
		{90, Bucket61to90},
		{91, ""},
	}
	for _, tt := range tests {
		if got := Bucket(tt.days); got != tt.want {
			t.Errorf("Bucket(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func ptr(n int) *int { return &n }
