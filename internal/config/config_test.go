package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Output.Dir != "" {
		t.Errorf("Output.Dir = %q, want empty", cfg.Output.Dir)
	}
	if cfg.Notion.SelectProperty != "Arsenyc" {
		t.Errorf("Notion.SelectProperty = %q, want %q", cfg.Notion.SelectProperty, "Arsenyc")
	}
	if cfg.Notion.TitleProperty != "Name" {
		t.Errorf("Notion.TitleProperty = %q, want %q", cfg.Notion.TitleProperty, "Name")
	}
	if cfg.Notion.PageSize != 100 {
		t.Errorf("Notion.PageSize = %d, want 100", cfg.Notion.PageSize)
	}
	if cfg.Notion.Version != "2022-06-28" {
		t.Errorf("Notion.Version = %q, want %q", cfg.Notion.Version, "2022-06-28")
	}
	if cfg.Render.CommentPrefix != "#" {
		t.Errorf("Render.CommentPrefix = %q, want %q", cfg.Render.CommentPrefix, "#")
	}
	if !cfg.Ledger.Enabled {
		t.Error("Ledger.Enabled = false, want true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// Validate
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string // substring of the error, "" = valid
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:    "page size above API limit",
			modify:  func(c *Config) { c.Notion.PageSize = 101 },
			wantErr: "pageSize",
		},
		{
			name:    "negative page size",
			modify:  func(c *Config) { c.Notion.PageSize = -1 },
			wantErr: "pageSize",
		},
		{
			name:    "unparsable timeout",
			modify:  func(c *Config) { c.Notion.Timeout = "soon" },
			wantErr: "timeout",
		},
		{
			name:    "timeout above maximum",
			modify:  func(c *Config) { c.Notion.Timeout = "1h" },
			wantErr: "timeout",
		},
		{
			name:   "empty timeout is valid",
			modify: func(c *Config) { c.Notion.Timeout = "" },
		},
		{
			name:    "negative rate",
			modify:  func(c *Config) { c.Notion.RequestsPerSecond = -1 },
			wantErr: "requestsPerSecond",
		},
		{
			name:    "select property too long",
			modify:  func(c *Config) { c.Notion.SelectProperty = strings.Repeat("x", MaxPropertyLength+1) },
			wantErr: "selectProperty",
		},
		{
			name:    "output name with a path",
			modify:  func(c *Config) { c.Vault.OutputName = "../escape.md" },
			wantErr: "outputName",
		},
		{
			name:   "plain output name",
			modify: func(c *Config) { c.Vault.OutputName = "linux.md" },
		},
		{
			name:    "comment prefix too long",
			modify:  func(c *Config) { c.Render.CommentPrefix = strings.Repeat("/", MaxCommentPrefixLength+1) },
			wantErr: "commentPrefix",
		},
		{
			name:    "too many workers",
			modify:  func(c *Config) { c.Workers = MaxWorkers + 1 },
			wantErr: "workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want error containing %q", tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error = %v, want ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_NamesYAMLKeys(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Notion.PageSize = -1
	cfg.Render.CommentPrefix = strings.Repeat("/", MaxCommentPrefixLength+1)

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil, want error")
	}
	for _, goName := range []string{"PageSize", "CommentPrefix"} {
		if strings.Contains(err.Error(), goName) {
			t.Errorf("error = %q names Go field %s instead of its YAML key", err.Error(), goName)
		}
	}
}

func TestConfig_FetchTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		timeout string
		want    time.Duration
	}{
		{"45s", 45 * time.Second},
		{"2m", 2 * time.Minute},
		{"", 30 * time.Second},
		{"garbage", 30 * time.Second},
		{"-5s", 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.timeout, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			cfg.Notion.Timeout = tt.timeout
			if got := cfg.FetchTimeout(); got != tt.want {
				t.Errorf("FetchTimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// LoadConfig
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config over defaults", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "test.yaml")
		content := `output:
  dir: "/tmp/cheats"
vault:
  dir: "/notes"
  tag: "linux"
render:
  preserveLanguage: true
workers: 4
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Output.Dir != "/tmp/cheats" {
			t.Errorf("Output.Dir = %q, want %q", cfg.Output.Dir, "/tmp/cheats")
		}
		if cfg.Vault.Tag != "linux" {
			t.Errorf("Vault.Tag = %q, want %q", cfg.Vault.Tag, "linux")
		}
		if !cfg.Render.PreserveLanguage {
			t.Error("Render.PreserveLanguage = false, want true")
		}
		if cfg.Workers != 4 {
			t.Errorf("Workers = %d, want 4", cfg.Workers)
		}
		// Untouched sections keep their defaults.
		if cfg.Notion.SelectProperty != DefaultSelectProperty {
			t.Errorf("Notion.SelectProperty = %q, want default %q", cfg.Notion.SelectProperty, DefaultSelectProperty)
		}
		if cfg.Render.CommentPrefix != DefaultCommentPrefix {
			t.Errorf("Render.CommentPrefix = %q, want default %q", cfg.Render.CommentPrefix, DefaultCommentPrefix)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "invalid.yaml")
		if err := os.WriteFile(configPath, []byte("vault: [unclosed"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "unknown.yaml")
		content := `workers: 2
token: "secret"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value returns ErrInvalidConfig", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(configPath, []byte("notion:\n  pageSize: 500\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("config name resolves yaml in current directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "myconfig.yml"), []byte("workers: 3\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		t.Chdir(dir)

		cfg, err := LoadConfig("myconfig")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Workers != 3 {
			t.Errorf("Workers = %d, want 3", cfg.Workers)
		}
	})

	t.Run("unknown config name lists searched paths", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := LoadConfig("does-not-exist")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "does-not-exist.yaml") {
			t.Errorf("error = %q, want searched paths", err.Error())
		}
	})
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("work")
	if len(paths) < 2 {
		t.Fatalf("SearchPaths() returned %d paths, want at least 2", len(paths))
	}
	if paths[0] != "work.yaml" || paths[1] != "work.yml" {
		t.Errorf("SearchPaths() = %v, want current directory first", paths)
	}
	for _, p := range paths[2:] {
		if !strings.Contains(p, filepath.Join(AppDirName, "work.")) {
			t.Errorf("path %q not under %s", p, AppDirName)
		}
	}
}
