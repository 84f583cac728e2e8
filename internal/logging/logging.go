// Package logging builds the zerolog loggers used across pollev
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a human readable logger writing to w. Debug events are
// enabled when verbose is set, otherwise the level is info.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
		NoColor:    true,
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// NewJSON returns a structured logger writing one JSON object per event
func NewJSON(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Nop discards everything; used by tests and library callers that do not log
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
