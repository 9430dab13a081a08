package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/schedule"
)

// ErrInvalidEntry is returned when asked to store a reading outside 1-10.
var ErrInvalidEntry = errors.New("store: entry has out of range readings")

// Persistence defines the persistence contract for mood entries and the
// check-in schedule.
type Persistence interface {
	Get(date civil.Date) (*entry.Entry, bool, error)
	ListAll(ctx context.Context) []*entry.Entry
	Range(ctx context.Context, from, to civil.Date) []*entry.Entry
	Store(e *entry.Entry) error
	Delete(date civil.Date) error
	LoadSchedule() (*schedule.Config, error)
	SaveSchedule(cfg *schedule.Config) error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	// The CLI, the daemon and the servers share one tree from separate
	// processes, so there is no in-process cache and reads go to disk.
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      0,
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

const (
	entriesPrefix = "entries"
	scheduleFile  = "schedule.json"
)

func (p *persistence) read(key string) (*entry.Entry, error) {
	rc, err := p.d.ReadStream(key, true)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	val, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	e := &entry.Entry{}
	if err := json.Unmarshal(val, e); err != nil {
		return nil, err
	}
	if d, ok := keyToDate(key); ok && e.Date != d {
		e.Date = d
	}
	return e, nil
}

func (p *persistence) Get(date civil.Date) (*entry.Entry, bool, error) {
	key := toKey(date)
	if !p.d.Has(key) {
		return nil, false, nil
	}
	e, err := p.read(key)
	if err != nil {
		return nil, false, fmt.Errorf("store: read %s: %w", date, err)
	}
	return e, true, nil
}

func (p *persistence) ListAll(ctx context.Context) []*entry.Entry {
	all := make([]*entry.Entry, 0)
	for key := range p.d.KeysPrefix(entriesPrefix, ctx.Done()) {
		e, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all = append(all, e)
	}
	sortEntries(all)
	return all
}

// Range lists entries dated within [from, to].
func (p *persistence) Range(ctx context.Context, from, to civil.Date) []*entry.Entry {
	if to.Before(from) {
		from, to = to, from
	}
	all := make([]*entry.Entry, 0)
	for key := range p.d.KeysPrefix(entriesPrefix, ctx.Done()) {
		d, ok := keyToDate(key)
		if !ok || d.Before(from) || d.After(to) {
			continue
		}
		e, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all = append(all, e)
	}
	sortEntries(all)
	return all
}

func (p *persistence) Store(e *entry.Entry) error {
	if e == nil {
		return errors.New("store: nil entry")
	}
	if !e.Date.IsValid() {
		return fmt.Errorf("store: invalid entry date %q", e.Date)
	}
	if !e.IsValid() {
		return ErrInvalidEntry
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.d.Write(toKey(e.Date), data)
}

// Delete removes the entry for date. Deleting a missing entry is not an error.
func (p *persistence) Delete(date civil.Date) error {
	key := toKey(date)
	if !p.d.Has(key) {
		return nil
	}
	return p.d.Erase(key)
}

func (p *persistence) schedulePath() string {
	return filepath.Join(p.basePath, scheduleFile)
}

// LoadSchedule reads the schedule, falling back to the factory defaults when
// none was saved yet.
func (p *persistence) LoadSchedule() (*schedule.Config, error) {
	if p.basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	data, err := os.ReadFile(p.schedulePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return schedule.DefaultConfig(), nil
		}
		return nil, fmt.Errorf("store: read schedule: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return schedule.DefaultConfig(), nil
	}
	cfg := &schedule.Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("store: decode schedule: %w", err)
	}
	return cfg, nil
}

func (p *persistence) SaveSchedule(cfg *schedule.Config) error {
	if p.basePath == "" {
		return errors.New("store: base path unknown")
	}
	if cfg == nil {
		return errors.New("store: nil schedule")
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return fmt.Errorf("store: ensure base path: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode schedule: %w", err)
	}
	path := p.schedulePath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write schedule: %w", err)
	}
	return os.Rename(tmp, path)
}

func sortEntries(entries []*entry.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `entries-YYYY-MM-DD`
func toKey(date civil.Date) string {
	return fmt.Sprintf("%s-%s", entriesPrefix, date.String())
}

func keyToDate(key string) (civil.Date, bool) {
	raw, ok := strings.CutPrefix(key, entriesPrefix+"-")
	if !ok {
		return civil.Date{}, false
	}
	d, err := civil.ParseDate(raw)
	if err != nil {
		return civil.Date{}, false
	}
	return d, true
}
