package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/schedule"
)

func newTestPersistence(t *testing.T) Persistence {
	t.Helper()
	p, err := Load(PathConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	return p
}

func moodOn(t *testing.T, date civil.Date, start int) *entry.Entry {
	t.Helper()
	e := entry.New(date, time.Date(date.Year, date.Month, date.Day, 9, 0, 0, 0, time.UTC))
	if err := e.SetMorning(start); err != nil {
		t.Fatalf("set morning: %v", err)
	}
	return e
}

func TestStoreAndGet(t *testing.T) {
	p := newTestPersistence(t)
	date := civil.Date{Year: 2025, Month: time.June, Day: 15}

	if _, ok, err := p.Get(date); err != nil || ok {
		t.Fatalf("expected no entry, got ok=%v err=%v", ok, err)
	}

	if err := p.Store(moodOn(t, date, 6)); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, ok, err := p.Get(date)
	if err != nil || !ok {
		t.Fatalf("expected entry, got ok=%v err=%v", ok, err)
	}
	if got.Date != date || got.StartOfWork == nil || *got.StartOfWork != 6 || got.EndOfWork != nil {
		t.Fatalf("unexpected entry %+v", got)
	}
}

func TestGetSeesWritesFromAnotherProcess(t *testing.T) {
	dir := t.TempDir()
	daemon, err := Load(PathConfig(dir))
	if err != nil {
		t.Fatalf("load daemon persistence: %v", err)
	}
	cli, err := Load(PathConfig(dir))
	if err != nil {
		t.Fatalf("load cli persistence: %v", err)
	}
	date := civil.Date{Year: 2025, Month: time.June, Day: 15}

	morning := moodOn(t, date, 6)
	if err := cli.Store(morning); err != nil {
		t.Fatalf("store morning: %v", err)
	}
	if got, ok, err := daemon.Get(date); err != nil || !ok || got.EndOfWork != nil {
		t.Fatalf("expected morning-only entry, got %v ok=%v err=%v", got, ok, err)
	}

	if err := morning.SetEvening(9); err != nil {
		t.Fatalf("set evening: %v", err)
	}
	if err := cli.Store(morning); err != nil {
		t.Fatalf("store evening: %v", err)
	}

	got, ok, err := daemon.Get(date)
	if err != nil || !ok {
		t.Fatalf("expected entry, got ok=%v err=%v", ok, err)
	}
	if got.EndOfWork == nil || *got.EndOfWork != 9 {
		t.Fatalf("expected evening reading 9 from the other writer, got %s", got)
	}
}

func TestStoreRejectsInvalidEntry(t *testing.T) {
	p := newTestPersistence(t)
	date := civil.Date{Year: 2025, Month: time.June, Day: 15}
	e := entry.New(date, time.Now())
	bad := 11
	e.StartOfWork = &bad

	if err := p.Store(e); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry, got %v", err)
	}
	if _, ok, _ := p.Get(date); ok {
		t.Fatalf("invalid entry was persisted")
	}
}

func TestRangeAndListAll(t *testing.T) {
	p := newTestPersistence(t)
	start := civil.Date{Year: 2025, Month: time.June, Day: 28}
	for i := 0; i < 5; i++ {
		if err := p.Store(moodOn(t, start.AddDays(i), 5+i)); err != nil {
			t.Fatalf("store: %v", err)
		}
	}
	if err := p.SaveSchedule(schedule.DefaultConfig()); err != nil {
		t.Fatalf("save schedule: %v", err)
	}

	ctx := context.Background()
	all := p.ListAll(ctx)
	if len(all) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if !all[i-1].Date.Before(all[i].Date) {
			t.Fatalf("entries not sorted by date")
		}
	}

	got := p.Range(ctx, start.AddDays(3), start.AddDays(1))
	if len(got) != 3 {
		t.Fatalf("expected 3 entries in range, got %d", len(got))
	}
	if got[0].Date != start.AddDays(1) || got[2].Date != start.AddDays(3) {
		t.Fatalf("unexpected range bounds %s..%s", got[0].Date, got[2].Date)
	}
}

func TestDelete(t *testing.T) {
	p := newTestPersistence(t)
	date := civil.Date{Year: 2025, Month: time.June, Day: 15}
	if err := p.Delete(date); err != nil {
		t.Fatalf("deleting a missing entry: %v", err)
	}
	if err := p.Store(moodOn(t, date, 4)); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := p.Delete(date); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := p.Get(date); ok {
		t.Fatalf("expected entry to be gone")
	}
}

func TestScheduleRoundTrip(t *testing.T) {
	p := newTestPersistence(t)

	cfg, err := p.LoadSchedule()
	if err != nil {
		t.Fatalf("load default schedule: %v", err)
	}
	if cfg.Morning != schedule.DefaultMorning || cfg.Evening != schedule.DefaultEvening {
		t.Fatalf("expected factory defaults, got %s/%s", cfg.Morning, cfg.Evening)
	}

	date := civil.Date{Year: 2025, Month: time.June, Day: 15}
	nine := civil.Time{Hour: 9}
	cfg.SetOverride(date, &nine, nil)
	if err := p.SaveSchedule(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	back, err := p.LoadSchedule()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := back.EffectiveMorningTime(date); got != nine {
		t.Fatalf("expected override 09:00, got %s", got)
	}
	if got := back.EffectiveEveningTime(date); got != schedule.DefaultEvening {
		t.Fatalf("expected default evening, got %s", got)
	}
}
