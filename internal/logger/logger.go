// Package logger configures the root zerolog logger for the CLI.
// Components receive child loggers by value and add their own context
// fields; nothing in this package is global.
package logger

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the root logger writing to out. level accepts the
// zerolog level names ("trace" through "disabled"); empty or unknown
// values fall back to info. When pretty is true, events are rendered
// for humans instead of as JSON lines.
func Setup(out io.Writer, level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	w := out
	if pretty {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything. Services default to it
// when no logger is injected.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
