// Package mcp provides the Model Context Protocol server integration for moodlog.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/checkin"
	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/schedule"
	"tableflip.dev/moodlog/pkg/timeutil"
)

// Service adapts app.Service to transport-friendly values for MCP tools.
type Service struct {
	App *app.Service
	Now func() time.Time
}

// EntryDTO is a transport-friendly projection of an entry.
type EntryDTO struct {
	Date             string   `json:"date"`
	StartOfWork      *int     `json:"startOfWork"`
	EndOfWork        *int     `json:"endOfWork"`
	Value            *int     `json:"value,omitempty"`
	AverageMood      *float64 `json:"averageMood,omitempty"`
	AdjustedAverage  *float64 `json:"adjustedAverageMood,omitempty"`
	CreatedISO       string   `json:"createdAt"`
	LastModifiedISO  string   `json:"lastModified"`
	Complete         bool     `json:"complete"`
	EligibleAutoSave bool     `json:"eligibleForAutoSave"`
}

// ScheduleDTO describes the effective schedule for one date.
type ScheduleDTO struct {
	Date        string `json:"date"`
	MorningTime string `json:"morningTime"`
	EveningTime string `json:"eveningTime"`
	Overridden  bool   `json:"overridden"`
}

// ReminderDTO flattens checkin.Reminder.
type ReminderDTO struct {
	Type    string `json:"type"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

// NewService builds a service wrapper around the app service.
func NewService(svc *app.Service) *Service {
	return &Service{App: svc, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) day(raw string) (civil.Date, error) {
	return timeutil.ParseDay(raw, s.now())
}

// Record stores a reading.
func (s *Service) Record(ctx context.Context, date, slot string, value int) (EntryDTO, error) {
	if s.App == nil {
		return EntryDTO{}, errors.New("mcp: service not configured")
	}
	d, err := s.day(date)
	if err != nil {
		return EntryDTO{}, err
	}
	sl, err := app.ParseSlot(strings.ToLower(strings.TrimSpace(slot)))
	if err != nil {
		return EntryDTO{}, err
	}
	e, err := s.App.Record(ctx, d, sl, value, s.now())
	if err != nil {
		return EntryDTO{}, err
	}
	return toDTO(e), nil
}

// Entry returns the entry for a date.
func (s *Service) Entry(ctx context.Context, date string) (EntryDTO, error) {
	if s.App == nil {
		return EntryDTO{}, errors.New("mcp: service not configured")
	}
	d, err := s.day(date)
	if err != nil {
		return EntryDTO{}, err
	}
	e, err := s.App.Entry(ctx, d)
	if err != nil {
		return EntryDTO{}, err
	}
	return toDTO(e), nil
}

// Entries lists entries within the window ending today.
func (s *Service) Entries(ctx context.Context, last string) ([]EntryDTO, error) {
	if s.App == nil {
		return nil, errors.New("mcp: service not configured")
	}
	window, _, err := timeutil.ParseWindow(last)
	if err != nil {
		return nil, err
	}
	today := civil.DateOf(s.now())
	items, err := s.App.Range(ctx, timeutil.WindowStart(today, window), today)
	if err != nil {
		return nil, err
	}
	out := make([]EntryDTO, 0, len(items))
	for _, e := range items {
		out = append(out, toDTO(e))
	}
	return out, nil
}

// Schedule resolves the check-in times for a date.
func (s *Service) Schedule(ctx context.Context, date string) (ScheduleDTO, error) {
	if s.App == nil {
		return ScheduleDTO{}, errors.New("mcp: service not configured")
	}
	d, err := s.day(date)
	if err != nil {
		return ScheduleDTO{}, err
	}
	cfg, err := s.App.Schedule(ctx)
	if err != nil {
		return ScheduleDTO{}, err
	}
	_, overridden := cfg.Override(d)
	return ScheduleDTO{
		Date:        d.String(),
		MorningTime: cfg.EffectiveMorningTime(d).String(),
		EveningTime: cfg.EffectiveEveningTime(d).String(),
		Overridden:  overridden,
	}, nil
}

// SetOverride applies a one-off override. Empty strings leave that field on
// the default.
func (s *Service) SetOverride(ctx context.Context, date, morning, evening string) (ScheduleDTO, error) {
	if s.App == nil {
		return ScheduleDTO{}, errors.New("mcp: service not configured")
	}
	d, err := s.day(date)
	if err != nil {
		return ScheduleDTO{}, err
	}
	m, err := optionalClock(morning)
	if err != nil {
		return ScheduleDTO{}, err
	}
	e, err := optionalClock(evening)
	if err != nil {
		return ScheduleDTO{}, err
	}
	if err := s.App.SetOverride(ctx, d, m, e); err != nil {
		return ScheduleDTO{}, err
	}
	return s.Schedule(ctx, d.String())
}

// RemoveOverride clears the override for a date.
func (s *Service) RemoveOverride(ctx context.Context, date string) (ScheduleDTO, error) {
	if s.App == nil {
		return ScheduleDTO{}, errors.New("mcp: service not configured")
	}
	d, err := s.day(date)
	if err != nil {
		return ScheduleDTO{}, err
	}
	if err := s.App.RemoveOverride(ctx, d); err != nil {
		return ScheduleDTO{}, err
	}
	return s.Schedule(ctx, d.String())
}

// Reminder classifies the reminder due right now.
func (s *Service) Reminder(ctx context.Context) (ReminderDTO, error) {
	if s.App == nil {
		return ReminderDTO{}, errors.New("mcp: service not configured")
	}
	r, err := s.App.ReminderFor(ctx, s.now())
	if err != nil {
		return ReminderDTO{}, err
	}
	switch r := r.(type) {
	case checkin.MorningReminder:
		return ReminderDTO{Type: "morning", Message: r.Message}, nil
	case checkin.EveningReminder:
		return ReminderDTO{Type: "evening", Kind: r.Kind.String(), Message: r.Message}, nil
	default:
		return ReminderDTO{Type: "none"}, nil
	}
}

func optionalClock(raw string) (*civil.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := schedule.ParseClock(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q: %w", raw, err)
	}
	return &t, nil
}

func toDTO(e *entry.Entry) EntryDTO {
	dto := EntryDTO{
		Date:             e.Date.String(),
		StartOfWork:      e.StartOfWork,
		EndOfWork:        e.EndOfWork,
		CreatedISO:       e.CreatedAt.String(),
		LastModifiedISO:  e.LastModified.String(),
		Complete:         e.MorningDone() && e.EveningDone(),
		EligibleAutoSave: checkin.ClassifyAutoSave(e) == checkin.SaveRecord,
	}
	if v, ok := e.Value(); ok {
		dto.Value = &v
	}
	if v, ok := e.AverageMood(); ok {
		dto.AverageMood = &v
	}
	if v, ok := e.AdjustedAverageMood(); ok {
		dto.AdjustedAverage = &v
	}
	return dto
}
