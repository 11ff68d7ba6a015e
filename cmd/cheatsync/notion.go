package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-cheatsync"
	"github.com/alnah/go-cheatsync/internal/config"
	"github.com/alnah/go-cheatsync/internal/hints"
	"github.com/alnah/go-cheatsync/internal/ledger"
	"github.com/alnah/go-cheatsync/internal/notion"
)

// runNotionCmd syncs the selected Notion pages, or the pages named with
// --page, into one cheatsheet each.
func runNotionCmd(ctx context.Context, args []string, env *Environment) error {
	flags, rest, err := parseNotionFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: unexpected argument %q (use --page ID)", ErrUsage, rest[0])
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	mergeNotionFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	client, err := notion.New(os.Getenv(hints.TokenEnvVar), notionOptions(cfg, env)...)
	if err != nil {
		if errors.Is(err, notion.ErrMissingToken) {
			return fmt.Errorf("%w%s", err, hints.ForMissingToken())
		}
		return err
	}

	log := env.NewLogger(flags.common.logOptions())
	rec, err := newSyncRecorder(sourceNotion, cfg, log)
	if err != nil {
		return err
	}
	defer rec.Close()

	started := env.Now()
	svc := newService(cfg, log)

	var results []cheatsync.UnitResult
	if len(flags.pages) > 0 {
		results = svc.SyncPages(ctx, client, pageRefs(flags.pages))
	} else {
		results, err = svc.SyncNotion(ctx, client)
		if err != nil {
			return withNotionHint(err, cfg)
		}
	}

	statuses := make([]ledger.Status, len(results))
	for i := range results {
		statuses[i] = rec.finish(ctx, &results[i], 0, started)
	}

	summary := printResults(results, statuses, flags.common.quiet, flags.common.verbose, env)
	if summary.Failed > 0 {
		return withNotionHint(fmt.Errorf("%d of %d page(s) failed: %w", summary.Failed, len(results), summary.FirstErr), cfg)
	}
	return nil
}

// mergeNotionFlags applies notion flags to cfg (CLI wins).
func mergeNotionFlags(f *notionFlags, cfg *config.Config) {
	mergeRenderFlags(f.render, cfg)
	if f.timeout != "" {
		cfg.Notion.Timeout = f.timeout
	}
}

// notionOptions builds client options from the config, followed by the
// environment's overrides.
func notionOptions(cfg *config.Config, env *Environment) []notion.Option {
	opts := []notion.Option{
		notion.WithVersion(cfg.Notion.Version),
		notion.WithPageSize(cfg.Notion.PageSize),
		notion.WithRateLimit(cfg.Notion.RequestsPerSecond),
		notion.WithSelectProperty(cfg.Notion.SelectProperty),
		notion.WithTitleProperty(cfg.Notion.TitleProperty),
	}
	return append(opts, env.NotionOptions...)
}

// pageRefs turns --page values into page references. Dashes are kept;
// the API accepts IDs with or without them.
func pageRefs(ids []string) []cheatsync.PageRef {
	refs := make([]cheatsync.PageRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, cheatsync.PageRef{ID: strings.TrimSpace(id), Selected: true})
	}
	return refs
}

// withNotionHint appends the hint matching a Notion failure.
func withNotionHint(err error, cfg *config.Config) error {
	switch {
	case notion.IsUnauthorized(err):
		return fmt.Errorf("%w%s", err, hints.ForUnauthorized())
	case errors.Is(err, cheatsync.ErrNoSelectedPages):
		return fmt.Errorf("%w%s", err, hints.ForNoSelectedPages(cfg.Notion.SelectProperty))
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w%s", err, hints.ForTimeout())
	case errors.Is(err, cheatsync.ErrWrite):
		return fmt.Errorf("%w%s", err, hints.ForOutputDirectory())
	}
	return err
}
