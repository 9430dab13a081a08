package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"tableflip.dev/moodlog/pkg/checkin"
	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/logging"
	"tableflip.dev/moodlog/pkg/schedule"
	"tableflip.dev/moodlog/pkg/store"
)

// Service provides high-level operations for mood entries and the check-in
// schedule. It wraps persistence so the CLI, daemon, HTTP API and MCP server
// share logic.
//
// The schedule and the entries are separate aggregates, each behind its own
// lock. Tick is the only operation holding both, and it takes the entry lock
// first.
type Service struct {
	Persistence store.Persistence
	Log         *zap.SugaredLogger

	scheduleMu sync.Mutex
	schedule   *schedule.Config

	entryMu sync.Mutex
}

var (
	ErrNoPersistence = errors.New("app: no persistence configured")
	ErrNotFound      = errors.New("app: entry not found")
)

// Slot names which reading of the day is being recorded.
type Slot string

const (
	Morning Slot = "morning"
	Evening Slot = "evening"
)

// ParseSlot accepts morning/start and evening/end.
func ParseSlot(s string) (Slot, error) {
	switch s {
	case "morning", "start", "am":
		return Morning, nil
	case "evening", "end", "pm":
		return Evening, nil
	default:
		return "", fmt.Errorf("app: unknown slot %q (expected morning or evening)", s)
	}
}

func (s *Service) logger() *zap.SugaredLogger {
	if s.Log == nil {
		return logging.Nop()
	}
	return s.Log
}

// Entry returns the entry for date, or ErrNotFound.
func (s *Service) Entry(ctx context.Context, date civil.Date) (*entry.Entry, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	e, ok, err := s.Persistence.Get(date)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// Entries lists every entry ordered by date.
func (s *Service) Entries(ctx context.Context) ([]*entry.Entry, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.ListAll(ctx), nil
}

// Range lists entries dated within [from, to].
func (s *Service) Range(ctx context.Context, from, to civil.Date) ([]*entry.Entry, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.Range(ctx, from, to), nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.Watch(ctx)
}

// Record stores a reading for date, creating the entry when needed.
func (s *Service) Record(ctx context.Context, date civil.Date, slot Slot, value int, now time.Time) (*entry.Entry, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	s.entryMu.Lock()
	defer s.entryMu.Unlock()

	e, ok, err := s.Persistence.Get(date)
	if err != nil {
		return nil, err
	}
	if !ok {
		e = entry.New(date, now)
	}
	switch slot {
	case Morning:
		err = e.SetMorning(value)
	case Evening:
		err = e.SetEvening(value)
	default:
		err = fmt.Errorf("app: unknown slot %q", slot)
	}
	if err != nil {
		return nil, err
	}
	// An evening-only day is still stored; it just never counts as savable.
	e.PrepareForSave(false, now)
	if err := s.Persistence.Store(e); err != nil {
		return nil, err
	}
	s.logger().Infow("recorded mood", "date", date.String(), "slot", string(slot), "value", value)
	return e, nil
}

// RecordMorning is Record for the start-of-work reading.
func (s *Service) RecordMorning(ctx context.Context, date civil.Date, value int, now time.Time) (*entry.Entry, error) {
	return s.Record(ctx, date, Morning, value, now)
}

// RecordEvening is Record for the end-of-work reading.
func (s *Service) RecordEvening(ctx context.Context, date civil.Date, value int, now time.Time) (*entry.Entry, error) {
	return s.Record(ctx, date, Evening, value, now)
}

// Delete removes the entry for date permanently.
func (s *Service) Delete(ctx context.Context, date civil.Date) error {
	if s.Persistence == nil {
		return ErrNoPersistence
	}
	s.entryMu.Lock()
	defer s.entryMu.Unlock()
	if _, ok, err := s.Persistence.Get(date); err != nil {
		return err
	} else if !ok {
		return ErrNotFound
	}
	return s.Persistence.Delete(date)
}

// withSchedule runs fn against a copy of the loaded schedule under the
// schedule lock. When fn reports a change the copy is saved and only then
// replaces the cached schedule.
func (s *Service) withSchedule(fn func(cfg *schedule.Config) (bool, error)) error {
	if s.Persistence == nil {
		return ErrNoPersistence
	}
	s.scheduleMu.Lock()
	defer s.scheduleMu.Unlock()

	if s.schedule == nil {
		cfg, err := s.Persistence.LoadSchedule()
		if err != nil {
			return err
		}
		s.schedule = cfg
	}
	next := s.schedule.Clone()
	changed, err := fn(next)
	if err != nil || !changed {
		return err
	}
	if err := s.Persistence.SaveSchedule(next); err != nil {
		return err
	}
	s.schedule = next
	return nil
}

// ReloadSchedule drops the cached schedule so the next access reads it from
// persistence again.
func (s *Service) ReloadSchedule() {
	s.scheduleMu.Lock()
	s.schedule = nil
	s.scheduleMu.Unlock()
}

// Schedule returns a copy of the current schedule.
func (s *Service) Schedule(ctx context.Context) (*schedule.Config, error) {
	var out *schedule.Config
	err := s.withSchedule(func(cfg *schedule.Config) (bool, error) {
		out = cfg.Clone()
		return false, nil
	})
	return out, err
}

// SetDefaults replaces the base morning and evening times.
func (s *Service) SetDefaults(ctx context.Context, morning, evening civil.Time) error {
	if schedule.CompareClock(morning, evening) >= 0 {
		return fmt.Errorf("app: morning %s must be before evening %s", schedule.FormatClock(morning), schedule.FormatClock(evening))
	}
	return s.withSchedule(func(cfg *schedule.Config) (bool, error) {
		cfg.Morning = morning
		cfg.Evening = evening
		return true, nil
	})
}

// SetOverride stores a one-off override for date. Passing neither time
// removes the override.
func (s *Service) SetOverride(ctx context.Context, date civil.Date, morning, evening *civil.Time) error {
	err := s.withSchedule(func(cfg *schedule.Config) (bool, error) {
		cfg.SetOverride(date, morning, evening)
		return true, nil
	})
	if err == nil {
		s.logger().Infow("schedule override", "date", date.String(), "morning", morning, "evening", evening)
	}
	return err
}

func (s *Service) RemoveOverride(ctx context.Context, date civil.Date) error {
	return s.withSchedule(func(cfg *schedule.Config) (bool, error) {
		if _, ok := cfg.Override(date); !ok {
			return false, nil
		}
		cfg.RemoveOverride(date)
		return true, nil
	})
}

// CleanupOverrides prunes overrides older than the retention window.
func (s *Service) CleanupOverrides(ctx context.Context, today civil.Date) (int, error) {
	removed := 0
	err := s.withSchedule(func(cfg *schedule.Config) (bool, error) {
		removed = cfg.CleanupOldOverrides(today)
		return removed > 0, nil
	})
	if removed > 0 {
		s.logger().Infow("pruned schedule overrides", "removed", removed, "today", today.String())
	}
	return removed, err
}

// EffectiveTimes resolves the check-in times for date.
func (s *Service) EffectiveTimes(ctx context.Context, date civil.Date) (checkin.Times, error) {
	var times checkin.Times
	err := s.withSchedule(func(cfg *schedule.Config) (bool, error) {
		times = checkin.Times{
			Morning: cfg.EffectiveMorningTime(date),
			Evening: cfg.EffectiveEveningTime(date),
		}
		return false, nil
	})
	return times, err
}

// ReminderFor classifies the reminder due at now, ignoring whether it was
// already raised.
func (s *Service) ReminderFor(ctx context.Context, now time.Time) (checkin.Reminder, error) {
	today := civil.DateOf(now)
	times, err := s.EffectiveTimes(ctx, today)
	if err != nil {
		return nil, err
	}
	e, _, err := s.Persistence.Get(today)
	if err != nil {
		return nil, err
	}
	return checkin.Classify(times, civil.TimeOf(now), checkin.StatusOf(e)), nil
}
