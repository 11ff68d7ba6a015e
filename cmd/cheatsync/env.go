package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-cheatsync/internal/logging"
	"github.com/alnah/go-cheatsync/internal/notion"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, logging, and the Notion client settings.
type Environment struct {
	Now           func() time.Time
	Stdout        io.Writer
	Stderr        io.Writer
	NewLogger     func(logging.Options) zerolog.Logger
	NotionOptions []notion.Option // appended after the config-derived options
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:       time.Now,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		NewLogger: logging.NewStderr,
	}
}
