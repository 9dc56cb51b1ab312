package service

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// parseDate parses a YYYY-MM-DD string into a calendar date (UTC midnight).
func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return t.UTC(), nil
}

// dateOnly normalises a timestamp-bearing value to its calendar date. Every
// window comparison goes through this so time-of-day components can never
// influence membership.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// withinWindow reports whether d falls inside [from, to], inclusive on both
// ends, at calendar-date granularity.
func withinWindow(from, to, d time.Time) bool {
	from, to, d = dateOnly(from), dateOnly(to), dateOnly(d)
	return !d.Before(from) && !d.After(to)
}
