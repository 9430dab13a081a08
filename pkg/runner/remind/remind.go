// Package remind hosts the check-in engine: it ticks on a cron schedule,
// re-ticks when stored data changes, and hands every message to Deliver.
package remind

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/checkin"
	"tableflip.dev/moodlog/pkg/logging"
	"tableflip.dev/moodlog/pkg/store"
)

const DefaultInterval = time.Minute

// Runner drives app.Service.Tick until its context is cancelled.
type Runner struct {
	Service  *app.Service
	Interval time.Duration
	Log      *zap.SugaredLogger

	// Deliver receives messages in engine order. Defaults to Print.
	Deliver func(checkin.Message)
	// Now is the clock; defaults to time.Now.
	Now func() time.Time

	mu    sync.Mutex
	state checkin.State
	ready bool
}

// Do ticks once immediately and then every Interval.
func (r *Runner) Do(ctx context.Context) error {
	if r.Service == nil {
		return errors.New("remind: runner requires a service")
	}
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	log := r.logger()

	r.Tick(ctx)

	c := cron.New(
		cron.WithLogger(cronLogger{log}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{log})),
	)
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", interval), func() { r.Tick(ctx) }); err != nil {
		return fmt.Errorf("remind: schedule ticks: %w", err)
	}
	c.Start()
	defer func() {
		<-c.Stop().Done()
	}()
	log.Infow("reminder loop started", "interval", interval.String())

	events, err := r.Service.Watch(ctx)
	if err != nil {
		log.Warnw("store watch unavailable, relying on timer only", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			log.Infow("reminder loop stopped")
			return nil
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Type == store.EventScheduleChanged || ev.Type == store.EventInvalidated {
				r.Service.ReloadSchedule()
			}
			log.Debugw("store changed", "type", int(ev.Type), "date", ev.Date.String())
			r.Tick(ctx)
		}
	}
}

// Tick evaluates the engine once and delivers the resulting messages.
func (r *Runner) Tick(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if !r.ready {
		r.state = checkin.NewState(civil.DateOf(now))
		r.ready = true
	}

	state, msgs, err := r.Service.Tick(ctx, r.state, now)
	r.state = state
	if err != nil {
		r.logger().Errorw("tick failed", "error", err)
	}
	deliver := r.Deliver
	if deliver == nil {
		deliver = Print
	}
	for _, msg := range msgs {
		deliver(msg)
	}
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Runner) logger() *zap.SugaredLogger {
	if r.Log == nil {
		return logging.Nop()
	}
	return r.Log
}

// Print writes a message to the terminal.
func Print(msg checkin.Message) {
	faint := color.New(color.Faint)
	bold := color.New(color.Bold, color.FgHiYellow)
	switch m := msg.(type) {
	case checkin.DateChanged:
		_, _ = faint.Fprintf(color.Output, "%s → %s\n", m.OldDate, m.NewDate)
	case checkin.AutoSaveOccurred:
		_, _ = faint.Fprintf(color.Output, "auto-saved %s\n", m.SavedDate)
	case checkin.MorningReminderRaised:
		_, _ = bold.Fprintln(color.Output, m.Message)
	case checkin.EveningReminderRaised:
		_, _ = bold.Fprintln(color.Output, m.Message)
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
