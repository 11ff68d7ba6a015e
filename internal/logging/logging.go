// Package logging builds the zerolog logger used by the cheatsync command.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Level selects how much the command reports.
type Level int

const (
	LevelDefault Level = iota // warnings and errors
	LevelQuiet                // errors only
	LevelVerbose              // progress of every sync unit
)

// Options configures a logger.
type Options struct {
	Level Level
	JSON  bool // one JSON object per line instead of console output
	Color bool // colorize console output (ignored for JSON)
}

// New returns a logger writing to w. Console output uses a short time
// stamp and upper-case level labels.
func New(w io.Writer, opts Options) zerolog.Logger {
	out := w
	if !opts.JSON {
		out = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    !opts.Color,
			TimeFormat: time.TimeOnly,
			FormatLevel: func(i any) string {
				s, _ := i.(string)
				return strings.ToUpper(s)
			},
		}
	}
	return zerolog.New(out).Level(opts.Level.zerolog()).With().Timestamp().Logger()
}

// NewStderr returns a logger on standard error, colorized when it is a
// terminal and NO_COLOR is unset.
func NewStderr(opts Options) zerolog.Logger {
	if opts.JSON {
		return New(os.Stderr, opts)
	}
	opts.Color = IsTerminal(os.Stderr) && os.Getenv("NO_COLOR") == ""
	return New(colorable.NewColorable(os.Stderr), opts)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelQuiet:
		return zerolog.ErrorLevel
	case LevelVerbose:
		return zerolog.InfoLevel
	default:
		return zerolog.WarnLevel
	}
}
