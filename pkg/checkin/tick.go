// Package checkin decides, on each tick of a host timer, whether the day
// rolled over, whether yesterday's entry must be completed, and which
// reminder is due. Every function here is pure: time comes in as an
// argument and decisions go out as plain messages.
package checkin

import (
	"time"

	"cloud.google.com/go/civil"

	"tableflip.dev/moodlog/pkg/entry"
)

// Resolver yields the effective check-in times for a date.
type Resolver interface {
	EffectiveMorningTime(date civil.Date) civil.Time
	EffectiveEveningTime(date civil.Date) civil.Time
}

// Lookup returns the stored entry for a date, or nil when there is none.
type Lookup func(date civil.Date) *entry.Entry

// Message is one of DateChanged, AutoSaveOccurred, MorningReminderRaised or
// EveningReminderRaised.
type Message interface {
	isMessage()
}

type DateChanged struct {
	OldDate  civil.Date `json:"oldDate"`
	NewDate  civil.Date `json:"newDate"`
	AutoSave Decision   `json:"autoSaveDecision"`
}

// AutoSaveOccurred carries the completed entry the host must persist.
type AutoSaveOccurred struct {
	SavedDate civil.Date   `json:"savedDate"`
	Entry     *entry.Entry `json:"entry"`
}

type MorningReminderRaised struct {
	Date    civil.Date `json:"date"`
	Message string     `json:"message"`
}

type EveningReminderRaised struct {
	Date    civil.Date  `json:"date"`
	Kind    EveningKind `json:"kind"`
	Message string      `json:"message"`
}

func (DateChanged) isMessage()           {}
func (AutoSaveOccurred) isMessage()      {}
func (MorningReminderRaised) isMessage() {}
func (EveningReminderRaised) isMessage() {}

type phaseKey struct {
	date  civil.Date
	phase Phase
	set   bool
}

// State is carried from one tick to the next.
type State struct {
	Watcher  Watcher
	notified phaseKey
}

func NewState(today civil.Date) State {
	return State{Watcher: NewWatcher(today)}
}

// TickInput is everything a tick needs from the outside world.
type TickInput struct {
	Now      time.Time
	Schedule Resolver
	Entries  Lookup
}

// Tick advances the engine by one timer tick. Rollover messages come first,
// and DateChanged always precedes the AutoSaveOccurred of the same rollover.
// A reminder is raised at most once per (date, phase): later ticks inside the
// same phase stay quiet.
func Tick(state State, in TickInput) (State, []Message) {
	var out []Message
	today := civil.DateOf(in.Now)

	if r := state.Watcher.Check(today); r.Changed {
		var previous *entry.Entry
		if in.Entries != nil {
			previous = in.Entries(r.Old)
		}
		decision := ClassifyAutoSave(previous)
		out = append(out, DateChanged{OldDate: r.Old, NewDate: r.New, AutoSave: decision})
		if decision == SaveRecord {
			out = append(out, AutoSaveOccurred{SavedDate: r.Old, Entry: ApplyAutoSave(previous, in.Now)})
		}
	}

	times := Times{
		Morning: in.Schedule.EffectiveMorningTime(today),
		Evening: in.Schedule.EffectiveEveningTime(today),
	}
	now := civil.TimeOf(in.Now)
	key := phaseKey{date: today, phase: PhaseAt(times, now), set: true}
	if key == state.notified {
		return state, out
	}
	state.notified = key

	var current *entry.Entry
	if in.Entries != nil {
		current = in.Entries(today)
	}
	switch r := Classify(times, now, StatusOf(current)).(type) {
	case MorningReminder:
		out = append(out, MorningReminderRaised{Date: today, Message: r.Message})
	case EveningReminder:
		out = append(out, EveningReminderRaised{Date: today, Kind: r.Kind, Message: r.Message})
	case NoReminder:
	}
	return state, out
}
