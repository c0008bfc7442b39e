package datecalc

import (
	"fmt"
	"strings"
	"time"
)

const (
	// ISOLayout is the canonical stored form of a calendar date.
	ISOLayout = "2006-01-02"
	// DisplayLayout is the human form used by older records, e.g. "Jan 15, 2025".
	DisplayLayout = "Jan 2, 2006"
)

// date-only layouts are read in the caller's location.
var dateOnlyLayouts = []string{
	ISOLayout,
	DisplayLayout,
	"January 2, 2006",
	"Jan 2 2006",
	"1/2/2006",
	"01/02/2006",
}

// timestamped layouts carry their own zone (or are read as UTC) and are
// converted to the caller's location before truncating to the day.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
}

// ParseDate parses a stored date in any of the known formats and returns
// midnight of that day in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateOnlyLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return StartOfDay(t.In(loc)), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}

// Normalize returns the ISO form of s, or s unchanged if it cannot be parsed.
func Normalize(s string, loc *time.Location) string {
	t, err := ParseDate(s, loc)
	if err != nil {
		return s
	}
	return FormatISO(t)
}

// FormatISO formats t as YYYY-MM-DD.
func FormatISO(t time.Time) string {
	return t.Format(ISOLayout)
}

// FormatDisplay formats t like "Jan 15, 2025".
func FormatDisplay(t time.Time) string {
	return t.Format(DisplayLayout)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FirstOfMonth returns midnight on day 1 of the given month.
func FirstOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, loc)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths moves to day 1 of the month n months away from t.
func AddMonths(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01", strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", s, err)
	}
	return t, nil
}
