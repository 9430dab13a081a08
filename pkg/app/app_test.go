package app

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"tableflip.dev/moodlog/pkg/checkin"
	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/schedule"
	"tableflip.dev/moodlog/pkg/store"
)

type memoryPersistence struct {
	mu       sync.Mutex
	entries  map[civil.Date]*entry.Entry
	schedule *schedule.Config
	saves    int
	failNext error
	// failGet is returned by the next Get, then cleared.
	failGet error
	// failSave is returned by every SaveSchedule while set.
	failSave error
}

func newMemoryPersistence(entries ...*entry.Entry) *memoryPersistence {
	mp := &memoryPersistence{entries: make(map[civil.Date]*entry.Entry)}
	for _, e := range entries {
		if e == nil {
			continue
		}
		mp.entries[e.Date] = e.Clone()
	}
	return mp
}

func (m *memoryPersistence) Get(date civil.Date) (*entry.Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failGet; err != nil {
		m.failGet = nil
		return nil, false, err
	}
	e, ok := m.entries[date]
	return e.Clone(), ok, nil
}

func (m *memoryPersistence) ListAll(ctx context.Context) []*entry.Entry {
	return m.Range(ctx, civil.Date{Year: 1}, civil.Date{Year: 9999, Month: 12, Day: 31})
}

func (m *memoryPersistence) Range(_ context.Context, from, to civil.Date) []*entry.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entry.Entry
	for d, e := range m.entries {
		if d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (m *memoryPersistence) Store(e *entry.Entry) error {
	if e == nil {
		return errors.New("nil entry")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNext; err != nil {
		m.failNext = nil
		return err
	}
	if !e.IsValid() {
		return store.ErrInvalidEntry
	}
	m.entries[e.Date] = e.Clone()
	return nil
}

func (m *memoryPersistence) Delete(date civil.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, date)
	return nil
}

func (m *memoryPersistence) LoadSchedule() (*schedule.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.schedule == nil {
		return schedule.DefaultConfig(), nil
	}
	return m.schedule.Clone(), nil
}

func (m *memoryPersistence) SaveSchedule(cfg *schedule.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave != nil {
		return m.failSave
	}
	m.schedule = cfg.Clone()
	m.saves++
	return nil
}

func (m *memoryPersistence) Watch(context.Context) (<-chan store.Event, error) {
	return nil, nil
}

var dayN = civil.Date{Year: 2025, Month: time.June, Day: 15}

func at(d civil.Date, h, m int) time.Time {
	return time.Date(d.Year, d.Month, d.Day, h, m, 0, 0, time.Local)
}

func TestRecordCreatesAndUpdatesEntry(t *testing.T) {
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	e, err := svc.RecordMorning(ctx, dayN, 6, at(dayN, 8, 30))
	if err != nil {
		t.Fatalf("record morning: %v", err)
	}
	if !e.CreatedAt.Equal(at(dayN, 8, 30)) {
		t.Fatalf("expected created at 08:30, got %v", e.CreatedAt)
	}

	e, err = svc.RecordEvening(ctx, dayN, 8, at(dayN, 17, 30))
	if err != nil {
		t.Fatalf("record evening: %v", err)
	}
	if *e.StartOfWork != 6 || *e.EndOfWork != 8 {
		t.Fatalf("unexpected readings %s", e)
	}
	if !e.LastModified.Equal(at(dayN, 17, 30)) {
		t.Fatalf("expected last modified 17:30, got %v", e.LastModified)
	}
	if !e.CreatedAt.Equal(at(dayN, 8, 30)) {
		t.Fatalf("created at must not move, got %v", e.CreatedAt)
	}
}

func TestRecordRejectsOutOfRange(t *testing.T) {
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp}

	_, err := svc.RecordMorning(context.Background(), dayN, 11, at(dayN, 9, 0))
	if !errors.Is(err, entry.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if _, ok, _ := mp.Get(dayN); ok {
		t.Fatalf("nothing should have been stored")
	}
}

func TestEntryNotFound(t *testing.T) {
	svc := &Service{Persistence: newMemoryPersistence()}
	if _, err := svc.Entry(context.Background(), dayN); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), dayN); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNoPersistence(t *testing.T) {
	svc := &Service{}
	if _, err := svc.Entries(context.Background()); !errors.Is(err, ErrNoPersistence) {
		t.Fatalf("expected ErrNoPersistence, got %v", err)
	}
	if _, err := svc.Schedule(context.Background()); !errors.Is(err, ErrNoPersistence) {
		t.Fatalf("expected ErrNoPersistence, got %v", err)
	}
}

func TestOverridesPersist(t *testing.T) {
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp}
	ctx := context.Background()
	nine := civil.Time{Hour: 9}

	if err := svc.SetOverride(ctx, dayN, &nine, nil); err != nil {
		t.Fatalf("set override: %v", err)
	}
	times, err := svc.EffectiveTimes(ctx, dayN)
	if err != nil {
		t.Fatalf("effective times: %v", err)
	}
	if times.Morning != nine || times.Evening != schedule.DefaultEvening {
		t.Fatalf("unexpected times %+v", times)
	}
	if mp.schedule == nil {
		t.Fatalf("expected schedule to be saved")
	}
	if _, ok := mp.schedule.Override(dayN); !ok {
		t.Fatalf("expected override in saved schedule")
	}

	saves := mp.saves
	if err := svc.RemoveOverride(ctx, dayN.AddDays(1)); err != nil {
		t.Fatalf("remove missing override: %v", err)
	}
	if mp.saves != saves {
		t.Fatalf("removing a missing override must not rewrite the schedule")
	}
	if err := svc.RemoveOverride(ctx, dayN); err != nil {
		t.Fatalf("remove override: %v", err)
	}
	if _, ok := mp.schedule.Override(dayN); ok {
		t.Fatalf("expected override removed")
	}
}

func TestScheduleReturnsCopy(t *testing.T) {
	svc := &Service{Persistence: newMemoryPersistence()}
	ctx := context.Background()
	cfg, err := svc.Schedule(ctx)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	cfg.Morning = civil.Time{Hour: 5}

	again, _ := svc.Schedule(ctx)
	if again.Morning != schedule.DefaultMorning {
		t.Fatalf("caller mutation leaked into the service")
	}
}

func TestSetDefaultsValidatesOrder(t *testing.T) {
	svc := &Service{Persistence: newMemoryPersistence()}
	err := svc.SetDefaults(context.Background(), civil.Time{Hour: 18}, civil.Time{Hour: 9})
	if err == nil {
		t.Fatalf("expected error when morning is after evening")
	}
}

func TestReminderFor(t *testing.T) {
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	r, err := svc.ReminderFor(ctx, at(dayN, 7, 0))
	if err != nil {
		t.Fatalf("reminder: %v", err)
	}
	if _, ok := r.(checkin.NoReminder); !ok {
		t.Fatalf("expected no reminder at 07:00, got %#v", r)
	}

	r, err = svc.ReminderFor(ctx, at(dayN, 18, 0))
	if err != nil {
		t.Fatalf("reminder: %v", err)
	}
	evening, ok := r.(checkin.EveningReminder)
	if !ok || evening.Kind != checkin.EveningAndMissedMorning {
		t.Fatalf("expected evening-and-missed-morning, got %#v", r)
	}
}

func TestTickAutoSavesOnRollover(t *testing.T) {
	yesterday := entry.New(dayN, at(dayN, 8, 30))
	if err := yesterday.SetMorning(6); err != nil {
		t.Fatalf("set morning: %v", err)
	}
	mp := newMemoryPersistence(yesterday)
	svc := &Service{Persistence: mp}

	state := checkin.NewState(dayN)
	state, msgs, err := svc.Tick(context.Background(), state, at(dayN.AddDays(1), 0, 1))
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %#v", msgs)
	}
	if _, ok := msgs[0].(checkin.DateChanged); !ok {
		t.Fatalf("expected DateChanged first, got %T", msgs[0])
	}
	if state.Watcher.Last() != dayN.AddDays(1) {
		t.Fatalf("expected watcher on the new day")
	}

	saved, _, _ := mp.Get(dayN)
	if saved.EndOfWork == nil || *saved.EndOfWork != 6 {
		t.Fatalf("expected day N completed with 6, got %s", saved)
	}
}

func TestTickReportsFailedAutoSave(t *testing.T) {
	yesterday := entry.New(dayN, at(dayN, 8, 30))
	_ = yesterday.SetMorning(6)
	mp := newMemoryPersistence(yesterday)
	mp.failNext = errors.New("disk full")
	svc := &Service{Persistence: mp}

	_, msgs, err := svc.Tick(context.Background(), checkin.NewState(dayN), at(dayN.AddDays(1), 0, 1))
	if err == nil {
		t.Fatalf("expected auto-save error")
	}
	if len(msgs) != 1 {
		t.Fatalf("expected only DateChanged, got %#v", msgs)
	}
	changed, ok := msgs[0].(checkin.DateChanged)
	if !ok || changed.AutoSave != checkin.SaveRecord {
		t.Fatalf("expected DateChanged with save decision, got %#v", msgs[0])
	}
	if saved, _, _ := mp.Get(dayN); saved.EndOfWork != nil {
		t.Fatalf("failed save must leave day N untouched, got %s", saved)
	}
}

func TestTickRetriesRolloverAfterReadFailure(t *testing.T) {
	yesterday := entry.New(dayN, at(dayN, 8, 30))
	_ = yesterday.SetMorning(6)
	mp := newMemoryPersistence(yesterday)
	mp.failGet = errors.New("transient read")
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	start := checkin.NewState(dayN)
	state, msgs, err := svc.Tick(ctx, start, at(dayN.AddDays(1), 0, 1))
	if err == nil {
		t.Fatalf("expected read error")
	}
	if len(msgs) != 0 {
		t.Fatalf("expected no messages from an abandoned tick, got %#v", msgs)
	}
	if state.Watcher.Last() != dayN {
		t.Fatalf("expected watcher to stay on day N, got %s", state.Watcher.Last())
	}

	state, msgs, err = svc.Tick(ctx, state, at(dayN.AddDays(1), 0, 2))
	if err != nil {
		t.Fatalf("second tick: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected rollover with auto-save on retry, got %#v", msgs)
	}
	if state.Watcher.Last() != dayN.AddDays(1) {
		t.Fatalf("expected watcher on the new day")
	}
	saved, _, _ := mp.Get(dayN)
	if saved.EndOfWork == nil || *saved.EndOfWork != 6 {
		t.Fatalf("expected day N completed with 6, got %s", saved)
	}
}

func TestTickKeepsEveningWrittenByAnotherProcess(t *testing.T) {
	dir := t.TempDir()
	daemonStore, err := store.Load(store.PathConfig(dir))
	if err != nil {
		t.Fatalf("load daemon store: %v", err)
	}
	cliStore, err := store.Load(store.PathConfig(dir))
	if err != nil {
		t.Fatalf("load cli store: %v", err)
	}
	daemon := &Service{Persistence: daemonStore}
	cli := &Service{Persistence: cliStore}
	ctx := context.Background()

	if _, err := cli.RecordMorning(ctx, dayN, 6, at(dayN, 8, 30)); err != nil {
		t.Fatalf("record morning: %v", err)
	}
	state, _, err := daemon.Tick(ctx, checkin.NewState(dayN), at(dayN, 18, 0))
	if err != nil {
		t.Fatalf("evening tick: %v", err)
	}
	if _, err := cli.RecordEvening(ctx, dayN, 9, at(dayN, 18, 5)); err != nil {
		t.Fatalf("record evening: %v", err)
	}

	_, msgs, err := daemon.Tick(ctx, state, at(dayN.AddDays(1), 0, 1))
	if err != nil {
		t.Fatalf("rollover tick: %v", err)
	}
	for _, msg := range msgs {
		if _, ok := msg.(checkin.AutoSaveOccurred); ok {
			t.Fatalf("complete entry must not be auto-saved, got %#v", msgs)
		}
	}
	got, err := cli.Entry(ctx, dayN)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if got.EndOfWork == nil || *got.EndOfWork != 9 {
		t.Fatalf("expected evening reading 9 kept, got %s", got)
	}
}

func TestSetOverrideKeepsScheduleWhenSaveFails(t *testing.T) {
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp}
	ctx := context.Background()
	before, err := svc.EffectiveTimes(ctx, dayN)
	if err != nil {
		t.Fatalf("effective times: %v", err)
	}

	mp.failSave = errors.New("disk full")
	nine := civil.Time{Hour: 9}
	if err := svc.SetOverride(ctx, dayN, &nine, nil); err == nil {
		t.Fatalf("expected save error")
	}

	after, err := svc.EffectiveTimes(ctx, dayN)
	if err != nil {
		t.Fatalf("effective times: %v", err)
	}
	if after != before {
		t.Fatalf("failed save must not change the schedule: before %+v, after %+v", before, after)
	}
	cfg, _ := svc.Schedule(ctx)
	if _, ok := cfg.Override(dayN); ok {
		t.Fatalf("expected no override after failed save")
	}

	mp.failSave = nil
	if err := svc.SetOverride(ctx, dayN, &nine, nil); err != nil {
		t.Fatalf("set override: %v", err)
	}
	if got, _ := svc.EffectiveTimes(ctx, dayN); got.Morning != nine {
		t.Fatalf("expected morning 09:00 after successful save, got %+v", got)
	}
}

func TestServiceWithoutLoggerDiscards(t *testing.T) {
	svc := &Service{}
	if svc.logger() == nil {
		t.Fatalf("expected a discarding logger")
	}
	svc.logger().Infow("dropped")
}

func TestTickPrunesOverridesOnRollover(t *testing.T) {
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp}
	ctx := context.Background()
	nine := civil.Time{Hour: 9}
	today := dayN.AddDays(1)

	if err := svc.SetOverride(ctx, today.AddDays(-31), &nine, nil); err != nil {
		t.Fatalf("set override: %v", err)
	}
	if err := svc.SetOverride(ctx, today.AddDays(-30), &nine, nil); err != nil {
		t.Fatalf("set override: %v", err)
	}

	if _, _, err := svc.Tick(ctx, checkin.NewState(dayN), at(today, 0, 1)); err != nil {
		t.Fatalf("tick: %v", err)
	}

	cfg, _ := svc.Schedule(ctx)
	if _, ok := cfg.Override(today.AddDays(-31)); ok {
		t.Fatalf("expected stale override pruned")
	}
	if _, ok := cfg.Override(today.AddDays(-30)); !ok {
		t.Fatalf("expected boundary override kept")
	}
}

func TestConcurrentRecordAndTick(t *testing.T) {
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		state := checkin.NewState(dayN)
		for i := 0; i < 50; i++ {
			state, _, _ = svc.Tick(ctx, state, at(dayN, 9, i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			nine := civil.Time{Hour: 9, Minute: i}
			_ = svc.SetOverride(ctx, dayN, &nine, nil)
			_, _ = svc.RecordMorning(ctx, dayN, 1+i%10, at(dayN, 9, i))
		}
	}()
	wg.Wait()

	e, err := svc.Entry(ctx, dayN)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if !e.IsValid() {
		t.Fatalf("entry corrupted: %s", e)
	}
}
