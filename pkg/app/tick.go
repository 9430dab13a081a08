package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"tableflip.dev/moodlog/pkg/checkin"
	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/schedule"
)

// Tick evaluates one timer tick against stored data: it runs the engine,
// persists any auto-saved entry and prunes stale overrides on rollover. The
// returned messages are in engine order.
//
// When an entry cannot be read the tick is abandoned and the previous state
// is returned, so the next tick retries the same rollover. A failed save is
// returned as an error and its AutoSaveOccurred is dropped from the messages;
// the auto-save is not retried on a later tick.
func (s *Service) Tick(ctx context.Context, state checkin.State, now time.Time) (checkin.State, []checkin.Message, error) {
	if s.Persistence == nil {
		return state, nil, ErrNoPersistence
	}

	var lookupErr error
	lookup := func(date civil.Date) *entry.Entry {
		e, _, err := s.Persistence.Get(date)
		if err != nil {
			lookupErr = errors.Join(lookupErr, err)
			return nil
		}
		return e
	}

	s.entryMu.Lock()
	defer s.entryMu.Unlock()

	next := state
	var msgs []checkin.Message
	err := s.withSchedule(func(cfg *schedule.Config) (bool, error) {
		next, msgs = checkin.Tick(state, checkin.TickInput{
			Now:      now,
			Schedule: cfg,
			Entries:  lookup,
		})
		return false, nil
	})
	if err != nil {
		return state, nil, err
	}
	if lookupErr != nil {
		s.logger().Warnw("tick abandoned", "error", lookupErr)
		return state, nil, fmt.Errorf("app: tick: %w", lookupErr)
	}

	var saveErr error
	rolled := false
	delivered := msgs[:0]
	for _, msg := range msgs {
		switch m := msg.(type) {
		case checkin.DateChanged:
			rolled = true
			s.logger().Infow("date changed", "old", m.OldDate.String(), "new", m.NewDate.String(), "autoSave", m.AutoSave.String())
		case checkin.AutoSaveOccurred:
			if err := s.Persistence.Store(m.Entry); err != nil {
				saveErr = errors.Join(saveErr, fmt.Errorf("app: auto-save %s: %w", m.SavedDate, err))
				continue
			}
			s.logger().Infow("auto-saved entry", "date", m.SavedDate.String(), "endOfWork", *m.Entry.EndOfWork)
		}
		delivered = append(delivered, msg)
	}

	if rolled {
		if _, err := s.CleanupOverrides(ctx, civil.DateOf(now)); err != nil {
			saveErr = errors.Join(saveErr, err)
		}
	}
	return next, delivered, saveErr
}
