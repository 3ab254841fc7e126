package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iiviie/bbsfront/internal/config"
)

// New builds a logger from the log section of the config.
func New(cfg config.LogConfig) *logrus.Logger {
	return NewWithOutput(cfg, os.Stderr)
}

// NewWithOutput is New with an explicit writer.
func NewWithOutput(cfg config.LogConfig, w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	switch cfg.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if err != nil && cfg.Level != "" {
		l.WithField("level", cfg.Level).Warn("Unknown log level, using info")
	}
	return l
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
