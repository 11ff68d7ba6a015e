package main

import (
	"errors"
	"os"

	"github.com/alnah/go-cheatsync"
	"github.com/alnah/go-cheatsync/internal/config"
	"github.com/alnah/go-cheatsync/internal/notion"
	"github.com/alnah/go-cheatsync/internal/vaultfs"
)

// Exit codes for cheatsync CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Every sync unit succeeded
	ExitGeneral = 1 // General/unexpected error, or some units failed
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, write failure
	ExitRemote  = 4 // Notion API or network errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Remote errors (exit 4)
	var apiErr *notion.APIError
	if errors.As(err, &apiErr) ||
		errors.Is(err, cheatsync.ErrFetch) ||
		errors.Is(err, notion.ErrMissingToken) {
		return ExitRemote
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, cheatsync.ErrFileRead) ||
		errors.Is(err, cheatsync.ErrWrite) ||
		errors.Is(err, vaultfs.ErrNotDir) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, cheatsync.ErrEmptyPageID) ||
		errors.Is(err, cheatsync.ErrEmptyTag) ||
		errors.Is(err, cheatsync.ErrEmptyRoot) ||
		errors.Is(err, cheatsync.ErrNoSelectedPages) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
