package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventEntryChanged indicates the entry for Date was written or removed.
	EventEntryChanged EventType = iota

	// EventScheduleChanged signals that the schedule file was rewritten.
	EventScheduleChanged

	// EventInvalidated asks callers to refresh everything; it is sent when a
	// change cannot be attributed to a single entry.
	EventInvalidated
)

// Event is emitted by Persistence.Watch when underlying storage changes.
type Event struct {
	Type EventType
	Date civil.Date
}

const coalesceDelay = 100 * time.Millisecond

// Watch streams change events until ctx is cancelled. Events are coalesced
// per burst of filesystem activity and dropped when the consumer lags, so a
// slow reader sees fewer events rather than a blocked watcher. The channel
// is closed once ctx is done or fsnotify gives up.
func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	if p.basePath == "" {
		return nil, errors.New("store: persistence base path unknown")
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}

	dirs, err := collectDirs(p.basePath)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("store: enumerate directories: %w", err)
	}
	w := &dirWatcher{
		p:       p,
		fs:      watcher,
		watched: make(map[string]struct{}, len(dirs)),
	}
	for _, dir := range dirs {
		if err := w.add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	events := make(chan Event, 64)
	go w.run(ctx, events)
	return events, nil
}

// dirWatcher follows the diskv tree, adding directories as days and months
// are created.
type dirWatcher struct {
	p       *persistence
	fs      *fsnotify.Watcher
	watched map[string]struct{}
}

func (w *dirWatcher) add(dir string) error {
	dir = filepath.Clean(dir)
	if _, ok := w.watched[dir]; ok {
		return nil
	}
	if err := w.fs.Add(dir); err != nil {
		return err
	}
	w.watched[dir] = struct{}{}
	return nil
}

func (w *dirWatcher) run(ctx context.Context, events chan<- Event) {
	defer close(events)
	defer func() {
		if err := w.fs.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "store: watcher close: %v\n", err)
		}
	}()

	send := func(ev Event) {
		select {
		case events <- ev:
		default:
		}
	}
	batch := newEventBatch(coalesceDelay, send)
	defer batch.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "store: watch error: %v\n", err)
			batch.Add(Event{Type: EventInvalidated})
		case evt, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if evt.Has(fsnotify.Create) {
				if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
					if err := w.add(evt.Name); err != nil {
						fmt.Fprintf(os.Stderr, "store: watch %s: %v\n", evt.Name, err)
					}
					// Files may land before the new directory is watched.
					batch.Add(Event{Type: EventInvalidated})
					continue
				}
			}
			batch.Add(w.p.eventForPath(evt.Name))
		}
	}
}

// collectDirs walks base and returns all directories that should be watched.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// eventForPath classifies a changed file under the diskv tree.
func (p *persistence) eventForPath(path string) Event {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil || rel == "." {
		return Event{Type: EventInvalidated}
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	switch {
	case len(parts) == 1 && strings.HasPrefix(parts[0], scheduleFile):
		return Event{Type: EventScheduleChanged}
	case len(parts) == 4 && parts[0] == entriesPrefix:
		if d, ok := keyToDate(strings.Join(parts, "-")); ok {
			return Event{Type: EventEntryChanged, Date: d}
		}
	}
	return Event{Type: EventInvalidated}
}

// eventBatch collects distinct events and flushes them once delay has passed
// since the first one of a burst. Schedule changes flush before entry
// changes, entries flush in date order, and invalidations come last.
type eventBatch struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[Event]struct{}
	delay   time.Duration
	send    func(Event)
}

func newEventBatch(delay time.Duration, send func(Event)) *eventBatch {
	return &eventBatch{
		delay:   delay,
		send:    send,
		pending: make(map[Event]struct{}),
	}
}

func (b *eventBatch) Add(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[ev] = struct{}{}
	if b.timer == nil {
		b.timer = time.AfterFunc(b.delay, b.flush)
	}
}

func (b *eventBatch) flush() {
	b.mu.Lock()
	out := make([]Event, 0, len(b.pending))
	for ev := range b.pending {
		out = append(out, ev)
	}
	b.pending = make(map[Event]struct{})
	b.timer = nil
	b.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return flushRank(out[i].Type) < flushRank(out[j].Type)
		}
		return out[i].Date.Before(out[j].Date)
	})
	for _, ev := range out {
		b.send(ev)
	}
}

func flushRank(t EventType) int {
	switch t {
	case EventScheduleChanged:
		return 0
	case EventEntryChanged:
		return 1
	default:
		return 2
	}
}

func (b *eventBatch) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
