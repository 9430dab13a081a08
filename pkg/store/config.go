package store

import (
	"errors"
	"fmt"
	"os"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	defaultPath     = "~/.moodlog.db"
	defaultInterval = time.Minute
)

// Config is the application configuration read from .moodlog.yaml and
// MOODLOG_* environment variables.
type Config interface {
	BasePath() string
	Interval() time.Duration
	LogFile() string
	LogLevel() string
}

func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", defaultPath)
	v.SetDefault("interval", defaultInterval)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetConfigName(".moodlog") // .yaml is implicit
	v.SetEnvPrefix("MOODLOG")
	v.AutomaticEnv()

	if override := os.Getenv("MOODLOG_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	interval := v.GetDuration("interval")
	if interval <= 0 {
		interval = defaultInterval
	}
	logFile := v.GetString("log.file")
	if logFile != "" {
		if logFile, err = homedir.Expand(logFile); err != nil {
			return nil, fmt.Errorf("store: expand log file: %w", err)
		}
	}

	return &fileConfig{
		Path:    path,
		Every:   interval,
		LogPath: logFile,
		Level:   v.GetString("log.level"),
	}, nil
}

// PathConfig is a Config rooted at path with every other setting defaulted.
func PathConfig(path string) Config {
	return &fileConfig{Path: path, Every: defaultInterval, Level: "info"}
}

type fileConfig struct {
	Path    string        `json:"path"`
	Every   time.Duration `json:"interval"`
	LogPath string        `json:"logFile,omitempty"`
	Level   string        `json:"logLevel,omitempty"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) Interval() time.Duration {
	return f.Every
}

func (f *fileConfig) LogFile() string {
	return f.LogPath
}

func (f *fileConfig) LogLevel() string {
	return f.Level
}
