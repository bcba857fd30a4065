package models

import (
	"strings"
	"time"
)

// DateLayout is the date-only format used for every date field.
const DateLayout = "2006-01-02"

// Today formats now as a date-only string.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// ParseDate parses a date-only string. Full RFC3339 timestamps are accepted too, since
// records exported by older tools sometimes carry them.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// DaysBetween returns the whole number of days from the date string to now.
func DaysBetween(date string, now time.Time) (int, bool) {
	t, ok := ParseDate(date)
	if !ok {
		return 0, false
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(day.Sub(from).Hours() / 24), true
}
