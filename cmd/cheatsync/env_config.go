package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-cheatsync/internal/config"
)

// envPrefix starts every cheatsync environment variable.
const envPrefix = "CHEATSYNC_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // CHEATSYNC_CONFIG: config file path or name
	OutputDir  string        // CHEATSYNC_OUTPUT_DIR: cheatsheet directory
	VaultDir   string        // CHEATSYNC_VAULT_DIR: Obsidian vault
	Tag        string        // CHEATSYNC_TAG: vault tag
	LedgerPath string        // CHEATSYNC_LEDGER_PATH: sync history database
	Timeout    time.Duration // CHEATSYNC_TIMEOUT: per-page fetch timeout
	Workers    int           // CHEATSYNC_WORKERS: parallel workers
}

// knownEnvVars lists valid CHEATSYNC_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"CHEATSYNC_CONFIG":      true,
	"CHEATSYNC_OUTPUT_DIR":  true,
	"CHEATSYNC_VAULT_DIR":   true,
	"CHEATSYNC_TAG":         true,
	"CHEATSYNC_LEDGER_PATH": true,
	"CHEATSYNC_TIMEOUT":     true,
	"CHEATSYNC_WORKERS":     true,
}

// loadEnvConfig reads configuration from environment variables.
// Invalid durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("CHEATSYNC_CONFIG"),
		OutputDir:  os.Getenv("CHEATSYNC_OUTPUT_DIR"),
		VaultDir:   os.Getenv("CHEATSYNC_VAULT_DIR"),
		Tag:        os.Getenv("CHEATSYNC_TAG"),
		LedgerPath: os.Getenv("CHEATSYNC_LEDGER_PATH"),
	}

	if timeout := os.Getenv("CHEATSYNC_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("CHEATSYNC_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized CHEATSYNC_* variables.
// Helps catch typos like CHEATSYNC_OUTPUTDIR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the config file; CLI flags are merged
// afterwards and win over both.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.VaultDir != "" {
		cfg.Vault.Dir = env.VaultDir
	}
	if env.Tag != "" {
		cfg.Vault.Tag = env.Tag
	}
	if env.LedgerPath != "" {
		cfg.Ledger.Path = env.LedgerPath
	}
	if env.Timeout > 0 {
		cfg.Notion.Timeout = env.Timeout.String()
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
}
