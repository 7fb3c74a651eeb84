package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/bnema/lootfilter/internal/models"
)

// DefaultLogFile is used by the file output when no path is configured
const DefaultLogFile = "lootfilter.log"

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		if level, err := zerolog.ParseLevel(envLevel); err == nil {
			zerolog.SetGlobalLevel(level)
		}
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// New builds a logger writing to the configured output
func New(cfg models.LoggingConfig) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = l
	}

	out, err := writer(cfg)
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// ConfigureLogger replaces the global logger
func ConfigureLogger(cfg models.LoggingConfig) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	log.Logger = l
	return nil
}

func writer(cfg models.LoggingConfig) (io.Writer, error) {
	switch cfg.Output {
	case "", "console":
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "3:04PM"}, nil
	case "json":
		return os.Stderr, nil
	case "file":
		path := cfg.File
		if path == "" {
			path = DefaultLogFile
		}
		return &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}, nil
	}
	return nil, fmt.Errorf("invalid log output %q", cfg.Output)
}
