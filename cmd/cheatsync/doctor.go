package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-cheatsync/internal/config"
	"github.com/alnah/go-cheatsync/internal/fileutil"
	"github.com/alnah/go-cheatsync/internal/hints"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Notion   notionInfo `json:"notion"`
	Config   configInfo `json:"config"`
	Paths    pathsInfo  `json:"paths"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// notionInfo holds Notion credential detection results.
type notionInfo struct {
	TokenSet bool `json:"token_set"`
	DotEnv   bool `json:"dotenv"`
}

// configInfo holds config resolution results.
type configInfo struct {
	Source string `json:"source"` // file path or "defaults"
	Valid  bool   `json:"valid"`
}

// pathsInfo holds output, vault and ledger checks.
type pathsInfo struct {
	OutputDir      string `json:"output_dir"`
	OutputWritable bool   `json:"output_writable"`
	VaultDir       string `json:"vault_dir,omitempty"`
	VaultFound     bool   `json:"vault_found"`
	Ledger         string `json:"ledger,omitempty"`
	LedgerOK       bool   `json:"ledger_ok"`
}

// systemInfo holds platform information.
type systemInfo struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	GoVersion string `json:"go_version"`
	CPUs      int    `json:"cpus"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	flags, _, err := parseDoctorFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitUsage
	}

	result := runDoctor(flags.common.config, env)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(configName string, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		System: systemInfo{
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			GoVersion: runtime.Version(),
			CPUs:      runtime.NumCPU(),
		},
	}

	checkNotion(result)
	if cfg := checkConfig(result, configName, env); cfg != nil {
		checkOutput(result, cfg)
		checkVault(result, cfg)
		checkLedger(result, cfg)
	}

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkNotion reports whether a token is available.
func checkNotion(result *doctorResult) {
	result.Notion.TokenSet = strings.TrimSpace(os.Getenv(hints.TokenEnvVar)) != ""
	result.Notion.DotEnv = fileutil.FileExists(".env")
	if !result.Notion.TokenSet {
		result.Warnings = append(result.Warnings,
			hints.TokenEnvVar+" not set; the notion command will fail")
	}
}

// checkConfig loads the configuration the sync commands would use.
func checkConfig(result *doctorResult, name string, env *Environment) *config.Config {
	cfg, err := loadConfig(name, env)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return nil
	}

	result.Config.Source = configSource(name)
	if err := cfg.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return nil
	}
	result.Config.Valid = true
	return cfg
}

// configSource names where loadConfig took the configuration from.
func configSource(name string) string {
	if name == "" {
		name = os.Getenv("CHEATSYNC_CONFIG")
	}
	if name != "" {
		return name
	}
	for _, p := range config.SearchPaths(defaultConfigName) {
		if fileutil.FileExists(p) {
			return p
		}
	}
	return "defaults"
}

// checkOutput verifies the output directory accepts files.
func checkOutput(result *doctorResult, cfg *config.Config) {
	dir := fileutil.ExpandHome(cfg.Output.Dir)
	if dir == "" {
		dir = "."
	}
	result.Paths.OutputDir = dir

	if !fileutil.DirExists(dir) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Output directory %s does not exist; it will be created", dir))
		return
	}

	f, err := os.CreateTemp(dir, ".cheatsync-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Output directory not writable: %s", dir))
		return
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	result.Paths.OutputWritable = true
}

// checkVault verifies the configured vault directory.
func checkVault(result *doctorResult, cfg *config.Config) {
	if cfg.Vault.Dir == "" {
		result.Warnings = append(result.Warnings,
			"vault.dir not set; pass the vault to the vault command")
		return
	}
	dir := fileutil.ExpandHome(cfg.Vault.Dir)
	result.Paths.VaultDir = dir
	if !fileutil.DirExists(dir) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Vault directory not found: %s", dir))
		return
	}
	result.Paths.VaultFound = true
}

// checkLedger opens the sync history database.
func checkLedger(result *doctorResult, cfg *config.Config) {
	if !cfg.Ledger.Enabled {
		return
	}
	store, err := openLedger(cfg)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Sync history unavailable: %v", err))
		return
	}
	_ = store.Close()
	result.Paths.Ledger = cfg.Ledger.Path
	if result.Paths.Ledger == "" {
		result.Paths.Ledger, _ = config.DefaultLedgerPath()
	}
	result.Paths.LedgerOK = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "cheatsync doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Notion")
	if r.Notion.TokenSet {
		fmt.Fprintf(w, "  [OK] %s: set\n", hints.TokenEnvVar)
	} else {
		fmt.Fprintf(w, "  [WARN] %s: not set\n", hints.TokenEnvVar)
	}
	if r.Notion.DotEnv {
		fmt.Fprintln(w, "  [OK] .env: found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Configuration")
	if r.Config.Valid {
		fmt.Fprintf(w, "  [OK] Source: %s\n", r.Config.Source)
	} else {
		fmt.Fprintln(w, "  [ERROR] Invalid or missing")
	}
	fmt.Fprintln(w)

	if r.Config.Valid {
		fmt.Fprintln(w, "Paths")
		if r.Paths.OutputWritable {
			fmt.Fprintf(w, "  [OK] Output: %s (writable)\n", r.Paths.OutputDir)
		} else {
			fmt.Fprintf(w, "  [WARN] Output: %s\n", r.Paths.OutputDir)
		}
		if r.Paths.VaultFound {
			fmt.Fprintf(w, "  [OK] Vault: %s\n", r.Paths.VaultDir)
		}
		if r.Paths.LedgerOK {
			fmt.Fprintf(w, "  [OK] History: %s\n", r.Paths.Ledger)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "System")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s, %s, %d CPUs\n", r.System.OS, r.System.Arch, r.System.GoVersion, r.System.CPUs)
	fmt.Fprintln(w)

	// Warnings
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	// Errors
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	// Final status
	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to sync")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
