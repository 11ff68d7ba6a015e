package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/alnah/go-cheatsync/internal/ledger"
)

// historyTimeLayout formats run times in local time.
const historyTimeLayout = "2006-01-02 15:04:05"

// runHistoryCmd prints the most recent sync runs, newest first.
func runHistoryCmd(ctx context.Context, args []string, env *Environment) error {
	flags, rest, err := parseHistoryFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, rest[0])
	}
	if flags.limit < 0 {
		return fmt.Errorf("%w: --limit must not be negative", ErrUsage)
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}

	store, err := openLedger(cfg)
	if err != nil {
		return fmt.Errorf("opening sync history: %w", err)
	}
	defer func() { _ = store.Close() }()

	entries, err := store.List(ctx, flags.limit)
	if err != nil {
		return fmt.Errorf("reading sync history: %w", err)
	}

	if len(entries) == 0 {
		if !flags.common.quiet {
			fmt.Fprintln(env.Stdout, "No sync recorded yet.")
		}
		return nil
	}
	printHistory(env.Stdout, entries, flags.common.verbose)
	return nil
}

// printHistory writes one aligned row per entry.
func printHistory(w io.Writer, entries []ledger.Entry, verbose bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FINISHED\tSOURCE\tUNIT\tSTATUS\tSECTIONS\tOUTPUT")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			e.FinishedAt.Local().Format(historyTimeLayout), e.Source, e.Unit, e.Status, e.Sections, e.Output)
		if e.Error != "" {
			fmt.Fprintf(tw, "\t\t\terror: %s\t\t\n", e.Error)
		}
		if verbose {
			fmt.Fprintf(tw, "\t\t\tid %s, %d skipped, took %v\t\t\n",
				e.ID, e.Skipped, e.FinishedAt.Sub(e.StartedAt).Round(time.Millisecond))
		}
	}
	_ = tw.Flush()
}
