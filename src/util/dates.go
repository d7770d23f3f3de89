package util

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD or RFC 3339. dateOnly reports whether the
// input carried no time component.
func ParseDate(s string) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	if t, err = time.ParseInLocation(DateLayout, s, time.UTC); err == nil {
		return t, true, nil
	}
	if t, err = time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}
	return time.Time{}, false, Validation("Invalid date: %s", s)
}

// ParseRangeEnd parses an inclusive upper bound. A bare date covers the whole day.
func ParseRangeEnd(s string) (time.Time, error) {
	t, dateOnly, err := ParseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	if dateOnly {
		return EndOfDay(t), nil
	}
	return t, nil
}

func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Microsecond)
}

func StartOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
