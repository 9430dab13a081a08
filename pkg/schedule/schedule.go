// Package schedule resolves the morning and evening check-in times for a
// calendar date from a base schedule plus one-off per-date overrides.
package schedule

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"
)

// RetentionDays is how long an override is kept after its date has passed.
const RetentionDays = 30

var (
	DefaultMorning = civil.Time{Hour: 8, Minute: 20}
	DefaultEvening = civil.Time{Hour: 17, Minute: 20}
)

// Override replaces the morning and/or evening time on a single date. A nil
// field falls through to the default.
type Override struct {
	Date    civil.Date
	Morning *civil.Time
	Evening *civil.Time
}

func (o Override) HasOverride() bool {
	return o.Morning != nil || o.Evening != nil
}

// Config is the base schedule plus its overrides. It is not safe for
// concurrent use; owners guard it with a single lock.
type Config struct {
	Morning civil.Time
	Evening civil.Time

	overrides map[civil.Date]Override
}

func NewConfig(morning, evening civil.Time) *Config {
	return &Config{
		Morning:   morning,
		Evening:   evening,
		overrides: make(map[civil.Date]Override),
	}
}

// DefaultConfig is the factory schedule, 08:20 and 17:20.
func DefaultConfig() *Config {
	return NewConfig(DefaultMorning, DefaultEvening)
}

// EffectiveMorningTime resolves the morning field alone: an override whose
// morning time is nil does not shadow the default even if it sets evening.
func (c *Config) EffectiveMorningTime(date civil.Date) civil.Time {
	if o, ok := c.overrides[date]; ok && o.Morning != nil {
		return *o.Morning
	}
	return c.Morning
}

func (c *Config) EffectiveEveningTime(date civil.Date) civil.Time {
	if o, ok := c.overrides[date]; ok && o.Evening != nil {
		return *o.Evening
	}
	return c.Evening
}

func (c *Config) EffectiveMorningTimeToday(now time.Time) civil.Time {
	return c.EffectiveMorningTime(civil.DateOf(now))
}

func (c *Config) EffectiveEveningTimeToday(now time.Time) civil.Time {
	return c.EffectiveEveningTime(civil.DateOf(now))
}

// SetOverride stores an override for date, replacing any existing one in
// full. With both times nil the existing override is removed instead.
func (c *Config) SetOverride(date civil.Date, morning, evening *civil.Time) {
	o := Override{Date: date, Morning: cloneTime(morning), Evening: cloneTime(evening)}
	if !o.HasOverride() {
		c.RemoveOverride(date)
		return
	}
	if c.overrides == nil {
		c.overrides = make(map[civil.Date]Override)
	}
	c.overrides[date] = o
}

func (c *Config) RemoveOverride(date civil.Date) {
	delete(c.overrides, date)
}

func (c *Config) Override(date civil.Date) (Override, bool) {
	o, ok := c.overrides[date]
	return o, ok
}

// Overrides lists every override ordered by date.
func (c *Config) Overrides() []Override {
	list := make([]Override, 0, len(c.overrides))
	for _, o := range c.overrides {
		list = append(list, o)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Date.Before(list[j].Date)
	})
	return list
}

// CleanupOldOverrides drops overrides dated strictly before today minus
// RetentionDays. An override exactly RetentionDays old survives.
func (c *Config) CleanupOldOverrides(today civil.Date) int {
	cutoff := today.AddDays(-RetentionDays)
	removed := 0
	for date := range c.overrides {
		if date.Before(cutoff) {
			delete(c.overrides, date)
			removed++
		}
	}
	return removed
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := NewConfig(c.Morning, c.Evening)
	for date, o := range c.overrides {
		cp.overrides[date] = Override{Date: o.Date, Morning: cloneTime(o.Morning), Evening: cloneTime(o.Evening)}
	}
	return cp
}

func cloneTime(t *civil.Time) *civil.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
