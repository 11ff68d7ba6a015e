package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/alnah/go-cheatsync"
	"github.com/alnah/go-cheatsync/internal/config"
	"github.com/alnah/go-cheatsync/internal/notion"
	"github.com/alnah/go-cheatsync/internal/vaultfs"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error classification
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitGeneral},
		{"context canceled", context.Canceled, ExitGeneral},

		{"api error", &notion.APIError{Status: 500}, ExitRemote},
		{"wrapped api error", fmt.Errorf("%w: page p1: %w", cheatsync.ErrFetch, &notion.APIError{Status: 404}), ExitRemote},
		{"fetch", fmt.Errorf("%w: page p1: timeout", cheatsync.ErrFetch), ExitRemote},
		{"missing token", notion.ErrMissingToken, ExitRemote},

		{"not exist", fmt.Errorf("open: %w", os.ErrNotExist), ExitIO},
		{"permission", os.ErrPermission, ExitIO},
		{"file read", fmt.Errorf("%w: a.md", cheatsync.ErrFileRead), ExitIO},
		{"write", fmt.Errorf("%w: out.md", cheatsync.ErrWrite), ExitIO},
		{"not a dir", vaultfs.ErrNotDir, ExitIO},

		{"usage", fmt.Errorf("%w: bad flag", ErrUsage), ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"invalid config", config.ErrInvalidConfig, ExitUsage},
		{"empty page id", cheatsync.ErrEmptyPageID, ExitUsage},
		{"empty tag", cheatsync.ErrEmptyTag, ExitUsage},
		{"empty root", cheatsync.ErrEmptyRoot, ExitUsage},
		{"no selected pages", cheatsync.ErrNoSelectedPages, ExitUsage},
		{"unsupported shell", ErrUnsupportedShell, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
