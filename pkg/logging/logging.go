// Package logging builds the slog handler used by the fio tools.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/brickingsoft/errors"
	"github.com/lmittmann/tint"
)

// ParseLevel accepts DEBUG, INFO, WARN and ERROR in any case.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "", "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.New(
			"invalid log level",
			errors.WithMeta("pkg", "logging"),
			errors.WithMeta("level", s),
		)
	}
}

// New returns a tint logger writing to w. Colors are disabled when noColor is set.
func New(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    noColor,
	}))
}

// Setup installs a tint logger for levelName as the default logger and returns it.
func Setup(w io.Writer, levelName string, noColor bool) (*slog.Logger, error) {
	level, err := ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	logger := New(w, level, noColor)
	slog.SetDefault(logger)
	return logger, nil
}
