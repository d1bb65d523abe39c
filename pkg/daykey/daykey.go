// Package daykey is the single place a timestamp becomes a calendar day
// or month identifier. Every ledger write persists the key and every date
// comparison goes through it, so records can never become unreachable by
// a lookup that derived "which day" differently.
package daykey

import "time"

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// FromTime returns the canonical calendar-day key for t: the UTC date in
// YYYY-MM-DD form. Timezone-independent for any two representations of
// the same instant.
func FromTime(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// MonthFromTime returns the canonical month key (YYYY-MM) for t.
func MonthFromTime(t time.Time) string {
	return t.UTC().Format(monthLayout)
}

// Parse converts a day key back to the midnight UTC instant of that day.
func Parse(key string) (time.Time, error) {
	return time.ParseInLocation(dayLayout, key, time.UTC)
}

// ParseMonth converts a month key to the first instant of that month in UTC.
func ParseMonth(key string) (time.Time, error) {
	return time.ParseInLocation(monthLayout, key, time.UTC)
}

// SameDay reports whether two instants fall on the same canonical day.
func SameDay(a, b time.Time) bool {
	return FromTime(a) == FromTime(b)
}
