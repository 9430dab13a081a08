package checkin

import (
	"cloud.google.com/go/civil"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/schedule"
)

// Times are the resolved check-in times for one date.
type Times struct {
	Morning civil.Time
	Evening civil.Time
}

// Status is how much of today's entry has been recorded.
type Status struct {
	MorningDone bool
	EveningDone bool
}

func StatusOf(e *entry.Entry) Status {
	return Status{MorningDone: e.MorningDone(), EveningDone: e.EveningDone()}
}

// Phase is the part of the day relative to the resolved check-in times.
type Phase int

const (
	PhaseBeforeMorning Phase = iota
	PhaseMorning
	PhaseEvening
)

func (p Phase) String() string {
	switch p {
	case PhaseMorning:
		return "morning"
	case PhaseEvening:
		return "evening"
	default:
		return "before-morning"
	}
}

// PhaseAt places now within the day. Both boundaries are inclusive on the
// later side: exactly at the morning time is already morning.
func PhaseAt(times Times, now civil.Time) Phase {
	switch {
	case schedule.CompareClock(now, times.Evening) >= 0:
		return PhaseEvening
	case schedule.CompareClock(now, times.Morning) >= 0:
		return PhaseMorning
	default:
		return PhaseBeforeMorning
	}
}

// EveningKind distinguishes the evening reminder variants.
type EveningKind int

const (
	EveningOnly EveningKind = iota
	EveningAndMissedMorning
	OnlyMissedMorning
)

func (k EveningKind) String() string {
	switch k {
	case EveningAndMissedMorning:
		return "evening-and-missed-morning"
	case OnlyMissedMorning:
		return "only-missed-morning"
	default:
		return "evening-only"
	}
}

func (k EveningKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Message is the text shown for this kind of evening reminder.
func (k EveningKind) Message() string {
	switch k {
	case EveningAndMissedMorning:
		return "Time to record your evening mood. You also missed this morning's check-in."
	case OnlyMissedMorning:
		return "You recorded this evening but missed this morning's check-in."
	default:
		return "Time to record your evening mood."
	}
}

const morningMessage = "Good morning! Time to record how you feel at the start of work."

// Reminder is one of NoReminder, MorningReminder or EveningReminder.
type Reminder interface {
	isReminder()
}

type NoReminder struct{}

type MorningReminder struct {
	Message string
}

type EveningReminder struct {
	Kind    EveningKind
	Message string
}

func (NoReminder) isReminder()      {}
func (MorningReminder) isReminder() {}
func (EveningReminder) isReminder() {}

// Classify picks the reminder for now given today's resolved times and what
// has been recorded so far.
func Classify(times Times, now civil.Time, status Status) Reminder {
	switch PhaseAt(times, now) {
	case PhaseMorning:
		if status.MorningDone {
			return NoReminder{}
		}
		return MorningReminder{Message: morningMessage}
	case PhaseEvening:
		var kind EveningKind
		switch {
		case status.MorningDone && status.EveningDone:
			return NoReminder{}
		case status.MorningDone:
			kind = EveningOnly
		case status.EveningDone:
			kind = OnlyMissedMorning
		default:
			kind = EveningAndMissedMorning
		}
		return EveningReminder{Kind: kind, Message: kind.Message()}
	default:
		return NoReminder{}
	}
}
