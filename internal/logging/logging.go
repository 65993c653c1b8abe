// Package logging builds the zerolog loggers used by the command line tools
// and maps workflow events onto them.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/handiism/jimeng-imagegen/internal/generate"
	"github.com/rs/zerolog"
)

// Config selects the level and output format of a logger.
type Config struct {
	// Level is "trace", "debug", "info", "warn" or "error". Default "info".
	Level string

	// Format is "console" or "json". Default "console".
	Format string

	// Out defaults to os.Stderr.
	Out io.Writer
}

// New creates a zerolog logger from cfg. An unknown level falls back to info.
func New(cfg Config) zerolog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if strings.ToLower(cfg.Format) == "json" {
		return zerolog.New(out).Level(level).With().Timestamp().Logger()
	}

	cw := zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}

// LogEvent writes a workflow event at the matching level, keeping the event's
// own timestamp. Verbose lines go to debug; success lines go to info with
// success=true.
func LogEvent(logger zerolog.Logger, ev generate.Event) {
	var e *zerolog.Event
	switch ev.Level {
	case generate.LevelVerbose:
		e = logger.Debug()
	case generate.LevelWarning:
		e = logger.Warn()
	case generate.LevelError:
		e = logger.Error()
	case generate.LevelSuccess:
		e = logger.Info().Bool("success", true)
	default:
		e = logger.Info()
	}

	e.Time("event_time", ev.Time).
		Str("run_id", ev.RunID).
		Str("state", ev.State.String()).
		Msg(ev.Message)
}

// Redact hides all but the edges of a secret.
func Redact(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-2:]
}
