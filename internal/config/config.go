package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/alnah/go-cheatsync/internal/fileutil"
	"github.com/alnah/go-cheatsync/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
)

// Validation errors name fields by their YAML keys, the names users edit.
func init() {
	validation.ErrorTag = "yaml"
}

// AppDirName names the per-user config and cache directories.
const AppDirName = "cheatsync"

// Field limits.
const (
	MaxPathLength          = 4096
	MaxPropertyLength      = 100 // Notion property names
	MaxTagLength           = 100
	MaxOutputNameLength    = 120 // matches fileutil.DefaultMaxNameLength
	MaxCommentPrefixLength = 10  // "#", "//", "--", "REM"
	MaxPageSize            = 100 // Notion API limit
	MaxRequestsPerSecond   = 50
	MaxWorkers             = 64
	MaxTimeout             = 10 * time.Minute
)

// Defaults.
const (
	DefaultSelectProperty    = "Arsenyc"
	DefaultTitleProperty     = "Name"
	DefaultPageSize          = 100
	DefaultTimeout           = "30s"
	DefaultRequestsPerSecond = 3
	DefaultNotionVersion     = "2022-06-28"
	DefaultVaultTag          = "arsenyc"
	DefaultCommentPrefix     = "#"
)

// Config holds all configuration for cheatsheet syncing.
type Config struct {
	Output  OutputConfig `yaml:"output"`
	Notion  NotionConfig `yaml:"notion"`
	Vault   VaultConfig  `yaml:"vault"`
	Render  RenderConfig `yaml:"render"`
	Ledger  LedgerConfig `yaml:"ledger"`
	Workers int          `yaml:"workers"` // 0 = auto
}

// OutputConfig defines where cheatsheets are written.
type OutputConfig struct {
	Dir string `yaml:"dir"` // Empty = current directory
}

// NotionConfig defines how pages are selected and fetched.
type NotionConfig struct {
	SelectProperty    string  `yaml:"selectProperty"` // checkbox opting a page in
	TitleProperty     string  `yaml:"titleProperty"`
	PageSize          int     `yaml:"pageSize"`
	Timeout           string  `yaml:"timeout"` // per page, e.g. "30s"
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Version           string  `yaml:"version"` // Notion-Version header
}

// VaultConfig defines the Obsidian vault scan.
type VaultConfig struct {
	Dir               string `yaml:"dir"`
	Tag               string `yaml:"tag"`
	OutputName        string `yaml:"outputName"`        // Empty = obsidian_<tag>.md
	FrontMatterTitles bool   `yaml:"frontMatterTitles"` // name sections by front-matter title
	IncludeHidden     bool   `yaml:"includeHidden"`     // walk .obsidian, .trash, ...
}

// RenderConfig defines cheatsheet rendering.
type RenderConfig struct {
	CommentPrefix    string `yaml:"commentPrefix"`
	KeepComments     bool   `yaml:"keepComments"`
	PreserveLanguage bool   `yaml:"preserveLanguage"`
	SortByPath       bool   `yaml:"sortByPath"`
	HTML             bool   `yaml:"html"` // also write an HTML preview
}

// LedgerConfig defines the sync history database.
type LedgerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // Empty = user cache directory
}

// Validate checks field lengths, ranges and formats.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	err := validation.Errors{
		"output": validation.ValidateStruct(&c.Output,
			validation.Field(&c.Output.Dir, validation.Length(0, MaxPathLength)),
		),
		"notion": validation.ValidateStruct(&c.Notion,
			validation.Field(&c.Notion.SelectProperty, validation.Length(0, MaxPropertyLength)),
			validation.Field(&c.Notion.TitleProperty, validation.Length(0, MaxPropertyLength)),
			validation.Field(&c.Notion.PageSize, validation.Min(0), validation.Max(MaxPageSize)),
			validation.Field(&c.Notion.Timeout, validation.By(validTimeout)),
			validation.Field(&c.Notion.RequestsPerSecond, validation.Min(0.0), validation.Max(float64(MaxRequestsPerSecond))),
			validation.Field(&c.Notion.Version, validation.Length(0, 20)),
		),
		"vault": validation.ValidateStruct(&c.Vault,
			validation.Field(&c.Vault.Dir, validation.Length(0, MaxPathLength)),
			validation.Field(&c.Vault.Tag, validation.Length(0, MaxTagLength)),
			validation.Field(&c.Vault.OutputName,
				validation.Length(0, MaxOutputNameLength),
				validation.By(plainFileName),
			),
		),
		"render": validation.ValidateStruct(&c.Render,
			validation.Field(&c.Render.CommentPrefix, validation.Length(0, MaxCommentPrefixLength)),
		),
		"ledger": validation.ValidateStruct(&c.Ledger,
			validation.Field(&c.Ledger.Path, validation.Length(0, MaxPathLength)),
		),
		"workers": validation.Validate(c.Workers, validation.Min(0), validation.Max(MaxWorkers)),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// validTimeout accepts an empty value or a positive duration up to MaxTimeout.
func validTimeout(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return errors.New("must be a duration such as 30s or 1m")
	}
	if d <= 0 || d > MaxTimeout {
		return fmt.Errorf("must be between 0 and %s", MaxTimeout)
	}
	return nil
}

// plainFileName rejects output names that would leave the output directory.
func plainFileName(value any) error {
	s, _ := value.(string)
	if fileutil.IsFilePath(s) {
		return errors.New("must be a file name, not a path")
	}
	return nil
}

// FetchTimeout returns the per-page timeout, falling back to the default.
func (c *Config) FetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.Notion.Timeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultTimeout)
	}
	return d
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Notion: NotionConfig{
			SelectProperty:    DefaultSelectProperty,
			TitleProperty:     DefaultTitleProperty,
			PageSize:          DefaultPageSize,
			Timeout:           DefaultTimeout,
			RequestsPerSecond: DefaultRequestsPerSecond,
			Version:           DefaultNotionVersion,
		},
		Vault:  VaultConfig{Tag: DefaultVaultTag},
		Render: RenderConfig{CommentPrefix: DefaultCommentPrefix},
		Ledger: LedgerConfig{Enabled: true},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their DefaultConfig value.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = fileutil.ExpandHome(nameOrPath)
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths returns the locations tried for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries locations in order: current directory, ~/.config/cheatsync/
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

// DefaultLedgerPath returns the ledger database location in the user
// cache directory.
func DefaultLedgerPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating cache directory: %w", err)
	}
	return filepath.Join(dir, AppDirName, "ledger.db"), nil
}
