package app

import (
	"context"

	"cloud.google.com/go/civil"

	"tableflip.dev/moodlog/pkg/entry"
)

// ReportDay is one recorded day in a report.
type ReportDay struct {
	Entry    *entry.Entry `json:"entry"`
	Complete bool         `json:"complete"`
}

// ReportResult summarises mood over a window of days.
type ReportResult struct {
	Since civil.Date  `json:"since"`
	Until civil.Date  `json:"until"`
	Days  []ReportDay `json:"days"`

	Recorded int `json:"recorded"`
	Complete int `json:"complete"`

	// AverageMood averages complete days only; single-reading days would
	// skew the trend.
	AverageMood    *float64 `json:"averageMood"`
	AdjustedMood   *float64 `json:"adjustedMood"`
	AverageValue   *float64 `json:"averageValue"`
	MissedMornings int      `json:"missedMornings"`
}

// Report returns statistics for entries dated within [since, until].
func (s *Service) Report(ctx context.Context, since, until civil.Date) (ReportResult, error) {
	if until.Before(since) {
		since, until = until, since
	}
	all, err := s.Range(ctx, since, until)
	if err != nil {
		return ReportResult{}, err
	}

	result := ReportResult{
		Since: since,
		Until: until,
		Days:  make([]ReportDay, 0, len(all)),
	}
	var avg, adj, val mean
	for _, e := range all {
		if e == nil {
			continue
		}
		result.Recorded++
		complete := e.MorningDone() && e.EveningDone()
		if complete {
			result.Complete++
		}
		if !e.MorningDone() {
			result.MissedMornings++
		}
		result.Days = append(result.Days, ReportDay{Entry: e, Complete: complete})

		if v, ok := e.AverageMood(); ok {
			avg.add(v)
		}
		if v, ok := e.AdjustedAverageMood(); ok {
			adj.add(v)
		}
		if v, ok := e.Value(); ok {
			val.add(float64(v))
		}
	}
	result.AverageMood = avg.result()
	result.AdjustedMood = adj.result()
	result.AverageValue = val.result()
	return result, nil
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.n++
}

func (m *mean) result() *float64 {
	if m.n == 0 {
		return nil
	}
	v := m.sum / float64(m.n)
	return &v
}
