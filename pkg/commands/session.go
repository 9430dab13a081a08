package commands

import (
	"go.uber.org/zap"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/logging"
	"tableflip.dev/moodlog/pkg/store"
)

// session is everything a command needs to talk to the journal.
type session struct {
	Config      store.Config
	Persistence store.Persistence
	Service     *app.Service
	Log         *zap.SugaredLogger
}

// loadSession reads configuration and opens the store. Interactive
// one-shot commands pass quiet so only the configured log file is written.
func loadSession(quiet bool) (*session, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(logging.Options{
		Level: cfg.LogLevel(),
		File:  cfg.LogFile(),
		Quiet: quiet,
	})
	if err != nil {
		return nil, err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}
	return &session{
		Config:      cfg,
		Persistence: p,
		Service:     &app.Service{Persistence: p, Log: log},
		Log:         log,
	}, nil
}
