package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/checkin"
	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/schedule"
	"tableflip.dev/moodlog/pkg/timeutil"
)

func (s *Server) day(c *gin.Context) (civil.Date, bool) {
	d, err := timeutil.ParseDay(c.Param("date"), s.cfg.Now())
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return civil.Date{}, false
	}
	return d, true
}

func (s *Server) handleListEntries(c *gin.Context) {
	now := s.cfg.Now()
	until, err := timeutil.ParseDay(c.DefaultQuery("until", "today"), now)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	since := civil.Date{Year: 1, Month: 1, Day: 1}
	if raw := c.Query("since"); raw != "" {
		if since, err = timeutil.ParseDay(raw, now); err != nil {
			fail(c, http.StatusBadRequest, err)
			return
		}
	}
	items, err := s.svc.Range(c.Request.Context(), since, until)
	if err != nil {
		fail(c, http.StatusInternalServerError, fmt.Errorf("list entries: %w", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "meta": gin.H{"count": len(items)}})
}

func (s *Server) handleGetEntry(c *gin.Context) {
	date, ok := s.day(c)
	if !ok {
		return
	}
	e, err := s.svc.Entry(c.Request.Context(), date)
	if errors.Is(err, app.ErrNotFound) {
		fail(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": e})
}

type recordRequest struct {
	Value *int `json:"value"`
}

func (s *Server) handleRecord(c *gin.Context) {
	date, ok := s.day(c)
	if !ok {
		return
	}
	slot, err := app.ParseSlot(c.Param("slot"))
	if err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Value == nil {
		fail(c, http.StatusBadRequest, errors.New("value is required"))
		return
	}
	e, err := s.svc.Record(c.Request.Context(), date, slot, *req.Value, s.cfg.Now())
	if errors.Is(err, entry.ErrOutOfRange) {
		fail(c, http.StatusUnprocessableEntity, err)
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": e})
}

func (s *Server) handleDeleteEntry(c *gin.Context) {
	date, ok := s.day(c)
	if !ok {
		return
	}
	err := s.svc.Delete(c.Request.Context(), date)
	if errors.Is(err, app.ErrNotFound) {
		fail(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetSchedule(c *gin.Context) {
	cfg, err := s.svc.Schedule(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cfg})
}

func (s *Server) handleEffectiveTimes(c *gin.Context) {
	date, ok := s.day(c)
	if !ok {
		return
	}
	times, err := s.svc.EffectiveTimes(c.Request.Context(), date)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"date":        date,
		"morningTime": times.Morning,
		"eveningTime": times.Evening,
	}})
}

type overrideRequest struct {
	Morning *string `json:"morningTime"`
	Evening *string `json:"eveningTime"`
}

func parseOptionalClock(s *string) (*civil.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := schedule.ParseClock(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Server) handleSetOverride(c *gin.Context) {
	date, ok := s.day(c)
	if !ok {
		return
	}
	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return
	}
	morning, err := parseOptionalClock(req.Morning)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	evening, err := parseOptionalClock(req.Evening)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := s.svc.SetOverride(c.Request.Context(), date, morning, evening); err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	s.handleEffectiveTimes(c)
}

func (s *Server) handleRemoveOverride(c *gin.Context) {
	date, ok := s.day(c)
	if !ok {
		return
	}
	if err := s.svc.RemoveOverride(c.Request.Context(), date); err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleReminder(c *gin.Context) {
	r, err := s.svc.ReminderFor(c.Request.Context(), s.cfg.Now())
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reminderView(r)})
}

func reminderView(r checkin.Reminder) gin.H {
	switch r := r.(type) {
	case checkin.MorningReminder:
		return gin.H{"type": "morning", "message": r.Message}
	case checkin.EveningReminder:
		return gin.H{"type": "evening", "kind": r.Kind, "message": r.Message}
	default:
		return gin.H{"type": "none"}
	}
}

func (s *Server) handleReport(c *gin.Context) {
	window, label, err := timeutil.ParseWindow(c.Query("last"))
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	today := civil.DateOf(s.cfg.Now())
	result, err := s.svc.Report(c.Request.Context(), timeutil.WindowStart(today, window), today)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result, "meta": gin.H{"window": label}})
}
