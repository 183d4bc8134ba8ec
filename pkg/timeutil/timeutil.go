// Package timeutil provides the timestamp conventions used by the audit
// trail and the payment ledger: all persisted times are UTC, truncated to
// whole seconds so history ordering is stable across drivers.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// Now returns the current time in UTC, truncated to whole seconds.
// History rows and ledger entries are stamped with this.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// ToUTC converts a time to UTC, truncated to whole seconds.
func ToUTC(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// Date creates a UTC date value (00:00:00).
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a time as a date-only form value (YYYY-MM-DD).
// Payment dates arrive and are stored in this shape.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ParseDate parses a date-only form value (YYYY-MM-DD) into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}

// StartOfDay returns the start of the UTC day for t.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two times fall on the same UTC day.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}
