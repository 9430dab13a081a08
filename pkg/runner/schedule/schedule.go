// Package schedule provides CLI helpers to show and edit check-in times.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/civil"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/printers"
	sched "tableflip.dev/moodlog/pkg/schedule"
)

// Show prints the default times and overrides.
type Show struct {
	Service *app.Service
	JSON    bool
	Out     io.Writer
}

// Do renders the schedule.
func (s *Show) Do(ctx context.Context) error {
	if s.Service == nil {
		return errors.New("can not show schedule, no service")
	}
	cfg, err := s.Service.Schedule(ctx)
	if err != nil {
		return err
	}
	if s.JSON {
		return printers.JSON(s.Out, cfg)
	}
	pp := printers.PrettyPrint{Out: s.Out}
	pp.Schedule(cfg)
	return nil
}

// Override sets or clears the override for one date. A Clear with no times
// removes it.
type Override struct {
	Service *app.Service
	Date    civil.Date
	Morning string
	Evening string
	Clear   bool
	JSON    bool
	Out     io.Writer
}

// Do applies the override and prints the resulting schedule.
func (o *Override) Do(ctx context.Context) error {
	if o.Service == nil {
		return errors.New("can not override schedule, no service")
	}
	if o.Clear {
		if err := o.Service.RemoveOverride(ctx, o.Date); err != nil {
			return err
		}
	} else {
		m, err := optionalClock(o.Morning)
		if err != nil {
			return err
		}
		e, err := optionalClock(o.Evening)
		if err != nil {
			return err
		}
		if m == nil && e == nil {
			return errors.New("an override needs --morning, --evening or both")
		}
		if err := o.Service.SetOverride(ctx, o.Date, m, e); err != nil {
			return err
		}
	}
	return (&Show{Service: o.Service, JSON: o.JSON, Out: o.Out}).Do(ctx)
}

// Defaults replaces the default check-in times. Empty values keep the
// current setting.
type Defaults struct {
	Service *app.Service
	Morning string
	Evening string
	JSON    bool
	Out     io.Writer
}

// Do validates and saves the new defaults.
func (d *Defaults) Do(ctx context.Context) error {
	if d.Service == nil {
		return errors.New("can not set schedule, no service")
	}
	cfg, err := d.Service.Schedule(ctx)
	if err != nil {
		return err
	}
	morning, evening := cfg.Morning, cfg.Evening
	if d.Morning != "" {
		if morning, err = sched.ParseClock(d.Morning); err != nil {
			return fmt.Errorf("invalid --morning %q: %w", d.Morning, err)
		}
	}
	if d.Evening != "" {
		if evening, err = sched.ParseClock(d.Evening); err != nil {
			return fmt.Errorf("invalid --evening %q: %w", d.Evening, err)
		}
	}
	if err := d.Service.SetDefaults(ctx, morning, evening); err != nil {
		return err
	}
	return (&Show{Service: d.Service, JSON: d.JSON, Out: d.Out}).Do(ctx)
}

// Cleanup prunes overrides that fell out of the retention window.
type Cleanup struct {
	Service *app.Service
	Now     func() time.Time
	Out     io.Writer
}

// Do prunes and reports how many overrides were removed.
func (c *Cleanup) Do(ctx context.Context) error {
	if c.Service == nil {
		return errors.New("can not clean up schedule, no service")
	}
	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}
	removed, err := c.Service.CleanupOverrides(ctx, civil.DateOf(now))
	if err != nil {
		return err
	}
	out := c.Out
	if out == nil {
		out = printers.Output()
	}
	_, _ = fmt.Fprintf(out, "removed %d override(s) older than %d days\n", removed, sched.RetentionDays)
	return nil
}

func optionalClock(raw string) (*civil.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := sched.ParseClock(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q: %w", raw, err)
	}
	return &t, nil
}
