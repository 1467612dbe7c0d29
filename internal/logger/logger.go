// Package logger wraps zerolog.Logger for the readenv command.
//
// The Logger type embeds zerolog.Logger so the full zerolog API is available
// on *Logger. Entries are JSON with a "role" field and a timestamp.
package logger

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// NewLogger returns a *Logger writing to w, tagged with role. Only warnings
// and errors are emitted unless verbose is set, which enables info entries.
func NewLogger(w io.Writer, role string, verbose bool) *Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.InfoLevel
	}
	l := zerolog.New(w).Level(level).With().
		Str("role", role).
		Timestamp().
		Logger()
	return &Logger{l}
}

// Nop returns a *Logger that discards all output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}
