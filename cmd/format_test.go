package cmd

import (
	"testing"
	"time"
)

func TestFormatAge(t *testing.T) {
	now := time.Date(2026, 10, 15, 18, 30, 0, 0, time.UTC)
	tests := []struct {
		date string
		want string
	}{
		{"2026-10-15", "today"},
		{"2026-10-14", "1 day ago"},
		{"Oct 12, 2026", "3 days ago"},
		{"2026-10-01", "2 weeks ago"},
		{"2026-10-16", "1 day from now"},
		{"not a date", ""},
	}
	for _, tt := range tests {
		got := formatAge(tt.date, now)
		if got != tt.want {
			t.Errorf("formatAge(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestFormatAgeAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// Clocks go back on 2026-10-25 in Berlin.
	now := time.Date(2026, 10, 26, 9, 0, 0, 0, loc)
	if got := formatAge("2026-10-25", now); got != "1 day ago" {
		t.Errorf("formatAge across DST = %q, want %q", got, "1 day ago")
	}
}

func TestDisplayDate(t *testing.T) {
	if got := displayDate("2026-01-05", time.UTC); got != "Jan 5, 2026" {
		t.Errorf("displayDate(ISO) = %q", got)
	}
	if got := displayDate("sometime", time.UTC); got != "sometime" {
		t.Errorf("displayDate(unparsable) = %q", got)
	}
}
