package timeutil

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
)

// ParseDay reads a calendar day relative to now. It accepts "today",
// "yesterday", "tomorrow", ISO dates like "2025-6-15", and "6/15" which means
// that day in the current year.
func ParseDay(s string, now time.Time) (civil.Date, error) {
	today := civil.DateOf(now)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDays(-1), nil
	case "tomorrow":
		return today.AddDays(1), nil
	}

	s = strings.TrimSpace(s)
	if t, err := time.Parse(layoutISO, s); err == nil {
		return civil.DateOf(t), nil
	}
	t, err := time.Parse(layoutISOShort, s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q, example: 2025-6-15 or 6/15", s)
	}
	// Unlike scheduling a task, a journal day without a year is this year's.
	return civil.Date{Year: today.Year, Month: t.Month(), Day: t.Day()}, nil
}

// WindowStart returns the first day covered by a window ending today, so a
// one-day window is just today.
func WindowStart(today civil.Date, window time.Duration) civil.Date {
	days := int(window / (24 * time.Hour))
	if days < 1 {
		days = 1
	}
	return today.AddDays(1 - days)
}
