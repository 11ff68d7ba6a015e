package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		level     Level
		wantInfo  bool
		wantWarn  bool
		wantError bool
	}{
		{"default shows warnings", LevelDefault, false, true, true},
		{"quiet shows errors only", LevelQuiet, false, false, true},
		{"verbose shows progress", LevelVerbose, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := New(&buf, Options{Level: tt.level})
			log.Info().Msg("info-line")
			log.Warn().Msg("warn-line")
			log.Error().Msg("error-line")

			out := buf.String()
			if got := strings.Contains(out, "info-line"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
			if got := strings.Contains(out, "warn-line"); got != tt.wantWarn {
				t.Errorf("warn logged = %v, want %v", got, tt.wantWarn)
			}
			if got := strings.Contains(out, "error-line"); got != tt.wantError {
				t.Errorf("error logged = %v, want %v", got, tt.wantError)
			}
		})
	}
}

func TestNew_Console(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(&buf, Options{})
	log.Warn().Str("path", "notes/a.md").Msg("note skipped")

	out := buf.String()
	if !strings.Contains(out, "WRN") && !strings.Contains(out, "WARN") {
		t.Errorf("expected upper-case level, got %q", out)
	}
	if !strings.Contains(out, "path=notes/a.md") {
		t.Errorf("expected field, got %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("expected no color codes, got %q", out)
	}
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(&buf, Options{JSON: true})
	log.Warn().Str("page", "abc").Msg("page skipped")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["level"] != "warn" {
		t.Errorf("level = %v, want warn", entry["level"])
	}
	if entry["page"] != "abc" {
		t.Errorf("page = %v, want abc", entry["page"])
	}
	if entry["message"] != "page skipped" {
		t.Errorf("message = %v, want %q", entry["message"], "page skipped")
	}
}
