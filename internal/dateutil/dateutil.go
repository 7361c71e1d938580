// Package dateutil converts between absolute instants and timezone-local
// calendar-day keys (YYYY-MM-DD). Day arithmetic is anchored at a fixed
// UTC instant so it never skips or repeats a day across DST transitions.
package dateutil

import (
	"fmt"
	"time"
)

// DateFormat is the canonical zero-padded calendar-day key layout.
const DateFormat = "2006-01-02"

// Now is the clock used to determine "today". Overridable in tests.
var Now = time.Now

// Location resolves an IANA timezone name. Empty or "Local" means the
// runtime's local timezone; an unknown name falls back to Local, and to UTC
// when Local itself is unavailable.
func Location(tz string) *time.Location {
	if tz == "" || tz == "Local" {
		if time.Local != nil {
			return time.Local
		}
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		if time.Local != nil {
			return time.Local
		}
		return time.UTC
	}
	return loc
}

// TodayKey returns the calendar-day key for "now" as observed in tz.
func TodayKey(tz string) string {
	return Now().In(Location(tz)).Format(DateFormat)
}

// ParseKey validates and parses a canonical YYYY-MM-DD key.
func ParseKey(key string) (time.Time, error) {
	t, err := time.Parse(DateFormat, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	// time.Parse is lenient about zero padding; the canonical form is not.
	if t.Format(DateFormat) != key {
		return time.Time{}, fmt.Errorf("invalid date key %q: not canonical YYYY-MM-DD", key)
	}
	return t, nil
}

// AddDays shifts a calendar-day key by n days (n may be negative).
// The arithmetic is anchored at noon UTC of the given calendar date, so a
// one-day step stays a one-day step across any DST boundary in tz.
func AddDays(key string, n int, tz string) (string, error) {
	t, err := ParseKey(key)
	if err != nil {
		return "", err
	}
	anchor := time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
	return anchor.AddDate(0, 0, n).Format(DateFormat), nil
}

// LastNDays returns the n calendar days ending at and including today in tz,
// newest to oldest. n < 1 behaves as n = 1.
func LastNDays(n int, tz string) []string {
	if n < 1 {
		n = 1
	}
	today := TodayKey(tz)
	keys := make([]string, 0, n)
	keys = append(keys, today)
	for i := 1; i < n; i++ {
		prev, err := AddDays(today, -i, tz)
		if err != nil {
			break
		}
		keys = append(keys, prev)
	}
	return keys
}

// WeekdayOf returns the day of week for a calendar-day key
// (time.Sunday == 0 .. time.Saturday == 6). Day-of-week is
// offset-independent given Y/M/D, so the UTC anchor is fine.
func WeekdayOf(key string, tz string) (time.Weekday, error) {
	t, err := ParseKey(key)
	if err != nil {
		return 0, err
	}
	return t.Weekday(), nil
}
