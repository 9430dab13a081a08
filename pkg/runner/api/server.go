// Package api exposes the mood journal over a small local HTTP API.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/logging"
)

// Config wraps the knobs that impact runtime behavior.
type Config struct {
	Addr string
	// Now is the clock used for "today"; defaults to time.Now.
	Now func() time.Time
}

// Server serves the gin engine.
type Server struct {
	engine *gin.Engine
	svc    *app.Service
	cfg    Config
	log    *zap.SugaredLogger
}

// NewServer wires handlers and middleware.
func NewServer(cfg Config, svc *app.Service, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log))

	srv := &Server{engine: engine, svc: svc, cfg: cfg, log: log}
	srv.registerRoutes()
	return srv
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 15 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	s.log.Infow("http api listening", "addr", s.cfg.Addr)
	err := httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")
	api.GET("/entries", s.handleListEntries)
	api.GET("/entries/:date", s.handleGetEntry)
	api.PUT("/entries/:date/:slot", s.handleRecord)
	api.DELETE("/entries/:date", s.handleDeleteEntry)

	api.GET("/schedule", s.handleGetSchedule)
	api.GET("/schedule/effective/:date", s.handleEffectiveTimes)
	api.PUT("/schedule/overrides/:date", s.handleSetOverride)
	api.DELETE("/schedule/overrides/:date", s.handleRemoveOverride)

	api.GET("/reminder", s.handleReminder)
	api.GET("/report", s.handleReport)
}

// requestLogger tags each request with an id and logs it once finished.
func requestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.New().String()
		c.Set("requestID", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		log.Infow("request",
			"requestID", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}

func fail(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
