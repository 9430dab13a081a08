package entry

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

const (
	// MinMood and MaxMood bound a single reading, inclusive.
	MinMood = 1
	MaxMood = 10

	// Midpoint is subtracted from averages so the scale is centred on zero.
	Midpoint = 5
)

// ErrOutOfRange is returned by the setters for readings outside [MinMood, MaxMood].
var ErrOutOfRange = errors.New("entry: mood reading out of range")

// New returns an empty entry for date stamped with now.
func New(date civil.Date, now time.Time) *Entry {
	return &Entry{
		Date:         date,
		CreatedAt:    Timestamp{Time: now},
		LastModified: Timestamp{Time: now},
	}
}

// Entry is the mood record for a single calendar day. A nil reading means it
// was never recorded.
type Entry struct {
	Date         civil.Date `json:"date"`
	StartOfWork  *int       `json:"startOfWork"`
	EndOfWork    *int       `json:"endOfWork"`
	CreatedAt    Timestamp  `json:"createdAt"`
	LastModified Timestamp  `json:"lastModified"`
}

// ValidMood reports whether v is an acceptable reading.
func ValidMood(v int) bool {
	return v >= MinMood && v <= MaxMood
}

// SetMorning records the start-of-work reading.
func (e *Entry) SetMorning(v int) error {
	if !ValidMood(v) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, v)
	}
	e.StartOfWork = intPtr(v)
	return nil
}

// SetEvening records the end-of-work reading.
func (e *Entry) SetEvening(v int) error {
	if !ValidMood(v) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, v)
	}
	e.EndOfWork = intPtr(v)
	return nil
}

// MorningDone reports whether the start-of-work reading is recorded.
func (e *Entry) MorningDone() bool {
	return e != nil && e.StartOfWork != nil
}

// EveningDone reports whether the end-of-work reading is recorded.
func (e *Entry) EveningDone() bool {
	return e != nil && e.EndOfWork != nil
}

// IsValid holds when every present reading is in range. An entry with no
// readings is valid.
func (e *Entry) IsValid() bool {
	if e.StartOfWork != nil && !ValidMood(*e.StartOfWork) {
		return false
	}
	if e.EndOfWork != nil && !ValidMood(*e.EndOfWork) {
		return false
	}
	return true
}

// ShouldSave holds when the morning reading exists and the entry is valid.
// The evening reading may still be missing.
func (e *Entry) ShouldSave() bool {
	return e.StartOfWork != nil && e.IsValid()
}

// PrepareForSave stamps LastModified. With useAutoSaveDefaults a missing
// evening reading is filled from the morning one; a present one is never
// replaced.
func (e *Entry) PrepareForSave(useAutoSaveDefaults bool, now time.Time) {
	if !e.ShouldSave() {
		return
	}
	e.LastModified = Timestamp{Time: now}
	if useAutoSaveDefaults && e.EndOfWork == nil {
		e.EndOfWork = intPtr(*e.StartOfWork)
	}
}

// Value is the change over the day: end minus start, or zero while only the
// morning reading exists.
func (e *Entry) Value() (int, bool) {
	switch {
	case e.StartOfWork != nil && e.EndOfWork != nil:
		return *e.EndOfWork - *e.StartOfWork, true
	case e.StartOfWork != nil:
		return 0, true
	default:
		return 0, false
	}
}

// AverageMood is only defined for complete days. Trend aggregation relies on
// it never mixing in single-reading days.
func (e *Entry) AverageMood() (float64, bool) {
	if e.StartOfWork == nil || e.EndOfWork == nil {
		return 0, false
	}
	return float64(*e.StartOfWork+*e.EndOfWork) / 2, true
}

// AdjustedAverageMood re-centres the average on Midpoint, reusing the morning
// reading when the evening one is missing.
func (e *Entry) AdjustedAverageMood() (float64, bool) {
	if e.StartOfWork == nil {
		return 0, false
	}
	a := *e.StartOfWork
	b := a
	if e.EndOfWork != nil {
		b = *e.EndOfWork
	}
	return float64(a+b)/2 - Midpoint, true
}

// Clone returns a deep copy.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	cp := *e
	if e.StartOfWork != nil {
		cp.StartOfWork = intPtr(*e.StartOfWork)
	}
	if e.EndOfWork != nil {
		cp.EndOfWork = intPtr(*e.EndOfWork)
	}
	return &cp
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s  %s → %s", e.Date, reading(e.StartOfWork), reading(e.EndOfWork))
}

func reading(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func intPtr(v int) *int {
	return &v
}
