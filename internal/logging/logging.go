// Package logging provides structured logging for the service using zerolog.
// Console output is used when stderr is a terminal, JSON otherwise.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var logger zerolog.Logger

func init() {
	logger = newLogger("info", "auto")
}

// Setup reconfigures the package logger. Level is one of
// trace/debug/info/warn/error; format is json, console, or auto.
func Setup(level, format string) {
	logger = newLogger(level, format)
}

// SetOutput replaces the logger's writer. Intended for tests.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// Default returns the configured logger.
func Default() *zerolog.Logger {
	return &logger
}

// Debug starts a debug-level event.
func Debug() *zerolog.Event { return logger.Debug() }

// Info starts an info-level event.
func Info() *zerolog.Event { return logger.Info() }

// Warn starts a warn-level event.
func Warn() *zerolog.Event { return logger.Warn() }

// Error starts an error-level event.
func Error() *zerolog.Event { return logger.Error() }

func newLogger(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var writer io.Writer = os.Stderr
	if format == "console" || (format != "json" && isatty.IsTerminal(os.Stderr.Fd())) {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	l := zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
	log.Logger = l
	return l
}
