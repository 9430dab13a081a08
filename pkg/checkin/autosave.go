package checkin

import (
	"time"

	"tableflip.dev/moodlog/pkg/entry"
)

// Decision is what to do with the entry of a day that just ended.
type Decision int

const (
	NoAction Decision = iota
	SaveRecord
)

func (d Decision) String() string {
	switch d {
	case SaveRecord:
		return "save"
	default:
		return "none"
	}
}

func (d Decision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// ClassifyAutoSave decides whether a finished day's entry should be completed
// from its morning reading. Nothing is ever synthesized without one.
func ClassifyAutoSave(e *entry.Entry) Decision {
	if e == nil || !e.ShouldSave() || e.EndOfWork != nil {
		return NoAction
	}
	return SaveRecord
}

// ApplyAutoSave returns a completed copy of e, ready to persist.
func ApplyAutoSave(e *entry.Entry, now time.Time) *entry.Entry {
	cp := e.Clone()
	cp.PrepareForSave(true, now)
	return cp
}
