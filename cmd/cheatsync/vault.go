package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alnah/go-cheatsync"
	"github.com/alnah/go-cheatsync/internal/config"
	"github.com/alnah/go-cheatsync/internal/fileutil"
	"github.com/alnah/go-cheatsync/internal/hints"
	"github.com/alnah/go-cheatsync/internal/ledger"
	"github.com/alnah/go-cheatsync/internal/vaultfs"
)

// runVaultCmd scans a vault for notes carrying the tag and writes one
// grouped cheatsheet.
func runVaultCmd(ctx context.Context, args []string, env *Environment) error {
	flags, rest, err := parseVaultFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(rest) > 1 {
		return fmt.Errorf("%w: expected at most one vault directory, got %d", ErrUsage, len(rest))
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	if len(rest) == 1 {
		cfg.Vault.Dir = rest[0]
	}
	mergeVaultFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Vault.Dir == "" {
		return fmt.Errorf("%w%s", cheatsync.ErrEmptyRoot, hints.ForVaultNotFound())
	}

	log := env.NewLogger(flags.common.logOptions())
	rec, err := newSyncRecorder(sourceObsidian, cfg, log)
	if err != nil {
		return err
	}
	defer rec.Close()

	var extra []cheatsync.Option
	extra = append(extra, cheatsync.WithSortedSections(cfg.Render.SortByPath))
	if cfg.Vault.FrontMatterTitles {
		extra = append(extra, cheatsync.WithNoteTitle(vaultfs.Title))
	}
	svc := newService(cfg, log, extra...)

	started := env.Now()
	res, err := svc.SyncVault(ctx, vaultfs.FS{IncludeHidden: cfg.Vault.IncludeHidden}, cheatsync.VaultRequest{
		Root:       fileutil.ExpandHome(cfg.Vault.Dir),
		Tag:        cfg.Vault.Tag,
		OutputName: cfg.Vault.OutputName,
	})
	if res != nil {
		status := rec.finish(ctx, &res.UnitResult, len(res.Skipped), started)
		err = res.Err
		printVaultResult(res, status, flags.common, env)
	}
	if err != nil {
		return withVaultHint(err)
	}
	return nil
}

// mergeVaultFlags applies vault flags to cfg (CLI wins).
func mergeVaultFlags(f *vaultFlags, cfg *config.Config) {
	mergeRenderFlags(f.render, cfg)
	if f.tag != "" {
		cfg.Vault.Tag = f.tag
	}
	if f.name != "" {
		cfg.Vault.OutputName = f.name
	}
	if f.sorted {
		cfg.Render.SortByPath = true
	}
	if f.frontMatterTitles {
		cfg.Vault.FrontMatterTitles = true
	}
	if f.includeHidden {
		cfg.Vault.IncludeHidden = true
	}
}

// printVaultResult reports the scan counts and the written cheatsheet.
func printVaultResult(res *cheatsync.VaultResult, status ledger.Status, flags commonFlags, env *Environment) {
	printResults([]cheatsync.UnitResult{res.UnitResult}, []ledger.Status{status}, flags.quiet, flags.verbose, env)
	if res.Err != nil || flags.quiet {
		return
	}

	if flags.verbose {
		fmt.Fprintf(env.Stdout, "%d scanned, %d matched, %d skipped\n", res.Scanned, res.Matched, len(res.Skipped))
	}
	if res.Matched == 0 {
		fmt.Fprintf(env.Stderr, "warning: %s has no sections%s\n", res.OutputPath, hints.ForNoMatchingNotes(res.Unit))
	}
}

// withVaultHint appends the hint matching a vault failure.
func withVaultHint(err error) error {
	switch {
	case errors.Is(err, vaultfs.ErrNotDir), errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w%s", err, hints.ForVaultNotFound())
	case errors.Is(err, cheatsync.ErrWrite):
		return fmt.Errorf("%w%s", err, hints.ForOutputDirectory())
	}
	return err
}
