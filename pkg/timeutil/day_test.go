package timeutil

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func TestParseDay(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.Local)
	tests := []struct {
		in   string
		want civil.Date
	}{
		{in: "", want: civil.Date{Year: 2025, Month: 6, Day: 15}},
		{in: "Today", want: civil.Date{Year: 2025, Month: 6, Day: 15}},
		{in: "yesterday", want: civil.Date{Year: 2025, Month: 6, Day: 14}},
		{in: "tomorrow", want: civil.Date{Year: 2025, Month: 6, Day: 16}},
		{in: "2024-12-31", want: civil.Date{Year: 2024, Month: 12, Day: 31}},
		{in: "2025-6-1", want: civil.Date{Year: 2025, Month: 6, Day: 1}},
		{in: "1/3", want: civil.Date{Year: 2025, Month: 1, Day: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDay(tt.in, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseDay(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}

	if _, err := ParseDay("someday", now); err == nil {
		t.Fatalf("expected error for invalid day")
	}
}

func TestWindowStart(t *testing.T) {
	today := civil.Date{Year: 2025, Month: 6, Day: 15}
	if got := WindowStart(today, 7*24*time.Hour); got != (civil.Date{Year: 2025, Month: 6, Day: 9}) {
		t.Fatalf("expected 2025-06-09, got %s", got)
	}
	if got := WindowStart(today, time.Hour); got != today {
		t.Fatalf("expected sub-day window to cover today, got %s", got)
	}
}
