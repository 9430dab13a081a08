package schedule

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

const layoutClockShort = "15:04"

// ParseClock reads a time of day as "HH:MM" or "HH:MM:SS".
func ParseClock(s string) (civil.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := civil.ParseTime(s); err == nil {
		return t, nil
	}
	t, err := time.Parse(layoutClockShort, s)
	if err != nil {
		return civil.Time{}, fmt.Errorf("schedule: invalid time of day %q (expected HH:MM or HH:MM:SS)", s)
	}
	return civil.TimeOf(t), nil
}

// CompareClock returns -1, 0 or +1 as a is before, equal to, or after b.
func CompareClock(a, b civil.Time) int {
	da, db := sinceMidnight(a), sinceMidnight(b)
	switch {
	case da < db:
		return -1
	case da > db:
		return 1
	default:
		return 0
	}
}

func sinceMidnight(t civil.Time) time.Duration {
	return time.Duration(t.Hour)*time.Hour +
		time.Duration(t.Minute)*time.Minute +
		time.Duration(t.Second)*time.Second +
		time.Duration(t.Nanosecond)
}

// FormatClock renders t as "HH:MM".
func FormatClock(t civil.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
