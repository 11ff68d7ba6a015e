package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-cheatsync"
	"github.com/alnah/go-cheatsync/internal/config"
	"github.com/alnah/go-cheatsync/internal/fileutil"
	"github.com/alnah/go-cheatsync/internal/hints"
	"github.com/alnah/go-cheatsync/internal/ledger"
	"github.com/alnah/go-cheatsync/internal/preview"
)

// defaultConfigName is loaded when neither --config nor CHEATSYNC_CONFIG
// is given and a file by that name exists.
const defaultConfigName = "cheatsync"

// Ledger sources.
const (
	sourceNotion   = "notion"
	sourceObsidian = "obsidian"
)

// loadConfig resolves configuration: defaults, then the config file, then
// CHEATSYNC_* variables. Flags are merged by each command afterwards.
func loadConfig(nameOrPath string, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	explicit := true
	if nameOrPath == "" {
		nameOrPath = envCfg.ConfigPath
	}
	if nameOrPath == "" {
		nameOrPath = defaultConfigName
		explicit = false
	}

	cfg, err := config.LoadConfig(nameOrPath)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, config.ErrConfigNotFound):
		cfg = config.DefaultConfig()
	case errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(nameOrPath):
		return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(nameOrPath)))
	default:
		return nil, fmt.Errorf("loading config: %w", err)
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// mergeRenderFlags applies render flags to cfg (CLI wins).
func mergeRenderFlags(f renderFlags, cfg *config.Config) {
	if f.output != "" {
		cfg.Output.Dir = f.output
	}
	if f.workers != 0 {
		cfg.Workers = f.workers
	}
	if f.html {
		cfg.Render.HTML = true
	}
	if f.keepComments {
		cfg.Render.KeepComments = true
	}
	if f.preserveLanguage {
		cfg.Render.PreserveLanguage = true
	}
}

// newService builds a sync service from the resolved configuration.
func newService(cfg *config.Config, log zerolog.Logger, extra ...cheatsync.Option) *cheatsync.Service {
	opts := []cheatsync.Option{
		cheatsync.WithOutputDir(fileutil.ExpandHome(cfg.Output.Dir)),
		cheatsync.WithWorkers(cfg.Workers),
		cheatsync.WithFetchTimeout(cfg.FetchTimeout()),
		cheatsync.WithRenderOptions(cheatsync.RenderOptions{
			CommentPrefix:    cfg.Render.CommentPrefix,
			KeepComments:     cfg.Render.KeepComments,
			PreserveLanguage: cfg.Render.PreserveLanguage,
		}),
		cheatsync.WithLogger(log),
	}
	return cheatsync.New(append(opts, extra...)...)
}

// syncRecorder finishes sync units: HTML previews, ledger entries and
// unchanged detection.
type syncRecorder struct {
	source  string
	store   *ledger.Store // nil when the ledger is disabled or unavailable
	preview *preview.Renderer
	log     zerolog.Logger
}

// newSyncRecorder opens the ledger and the preview renderer cfg asks for.
// A ledger that cannot be opened is logged and left out.
func newSyncRecorder(source string, cfg *config.Config, log zerolog.Logger) (*syncRecorder, error) {
	rec := &syncRecorder{source: source, log: log}

	if cfg.Render.HTML {
		r, err := preview.New(preview.DefaultStyle)
		if err != nil {
			return nil, err
		}
		rec.preview = r
	}

	if cfg.Ledger.Enabled {
		store, err := openLedger(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("sync history disabled")
		} else {
			rec.store = store
		}
	}
	return rec, nil
}

// openLedger opens the configured ledger database.
func openLedger(cfg *config.Config) (*ledger.Store, error) {
	path := fileutil.ExpandHome(cfg.Ledger.Path)
	if path == "" {
		var err error
		if path, err = config.DefaultLedgerPath(); err != nil {
			return nil, err
		}
	}
	return ledger.Open(path)
}

// Close releases the ledger.
func (rec *syncRecorder) Close() {
	if rec.store != nil {
		_ = rec.store.Close()
	}
}

// finish writes the HTML preview of a successful unit, then records it.
// A failed preview turns the unit into a failure. Returns the unit status.
func (rec *syncRecorder) finish(ctx context.Context, r *cheatsync.UnitResult, skipped int, started time.Time) ledger.Status {
	if r.Err == nil && rec.preview != nil {
		if err := rec.writePreview(ctx, r); err != nil {
			r.Err = err
		}
	}

	status := ledger.StatusSynced
	switch {
	case r.Err != nil:
		status = ledger.StatusFailed
	case rec.store != nil:
		same, err := rec.store.Unchanged(ctx, rec.source, r.Unit, r.Content)
		if err != nil {
			rec.log.Warn().Err(err).Str("unit", r.Unit).Msg("reading sync history")
		} else if same {
			status = ledger.StatusUnchanged
		}
	}

	if rec.store == nil {
		return status
	}

	entry := &ledger.Entry{
		Source:     rec.source,
		Unit:       r.Unit,
		Output:     r.OutputPath,
		Sections:   r.Sections,
		Skipped:    skipped,
		Status:     status,
		StartedAt:  started,
		FinishedAt: started.Add(r.Duration),
	}
	if r.Err != nil {
		entry.Error = r.Err.Error()
	} else {
		entry.Digest = ledger.Digest(r.Content)
	}
	// Recording uses its own context so interrupted runs are still logged.
	if err := rec.store.Record(context.WithoutCancel(ctx), entry); err != nil {
		rec.log.Warn().Err(err).Str("unit", r.Unit).Msg("recording sync history")
	}
	return status
}

func (rec *syncRecorder) writePreview(ctx context.Context, r *cheatsync.UnitResult) error {
	html, err := rec.preview.ToHTML(ctx, r.Title, r.Content)
	if err != nil {
		return err
	}
	path := preview.Path(r.OutputPath)
	if err := fileutil.WriteFileAtomic(path, html); err != nil {
		return fmt.Errorf("%w: %s: %v", cheatsync.ErrWrite, path, err)
	}
	return nil
}

// ResultSummary holds the count of succeeded and failed sync units.
type ResultSummary struct {
	Succeeded int
	Unchanged int
	Failed    int
	FirstErr  error
}

// printResults outputs sync results and returns their summary.
func printResults(results []cheatsync.UnitResult, statuses []ledger.Status, quiet, verbose bool, env *Environment) ResultSummary {
	var summary ResultSummary

	for i, r := range results {
		if r.Err != nil {
			summary.Failed++
			if summary.FirstErr == nil {
				summary.FirstErr = r.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Unit, r.Err)
			continue
		}

		summary.Succeeded++
		unchanged := statuses[i] == ledger.StatusUnchanged
		if unchanged {
			summary.Unchanged++
		}

		if quiet {
			continue
		}

		switch {
		case verbose:
			fmt.Fprintf(env.Stdout, "%s -> %s (%d sections, %s, %v)\n",
				r.Unit, r.OutputPath, r.Sections, statuses[i], r.Duration.Round(time.Millisecond))
		case unchanged:
			fmt.Fprintf(env.Stdout, "Unchanged %s\n", r.OutputPath)
		default:
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded (%d unchanged), %d failed\n",
			summary.Succeeded, summary.Unchanged, summary.Failed)
	}

	return summary
}
