package cheatsync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// UnitResult holds the outcome of one sync unit.
type UnitResult struct {
	Unit       string // page ID or wanted tag
	Title      string
	OutputPath string
	Content    string // rendered cheatsheet, empty on failure
	Sections   int
	Warnings   []Warning
	Err        error
	Duration   time.Duration
}

// SyncPage fetches one remote page, renders its code blocks as a flat
// cheatsheet and writes it to <output>/<page id>.md.
func (s *Service) SyncPage(ctx context.Context, src DocumentSource, pageID string) (*UnitResult, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	r := s.syncPage(ctx, src, PageRef{ID: pageID})
	return &r, r.Err
}

// SyncPages syncs every page on a bounded number of goroutines. Failed
// pages are recorded in their result and never stop the batch. Results
// are in input order.
func (s *Service) SyncPages(ctx context.Context, src DocumentSource, refs []PageRef) []UnitResult {
	if len(refs) == 0 {
		return nil
	}

	results := make([]UnitResult, len(refs))
	var g errgroup.Group
	g.SetLimit(min(s.workers(), len(refs)))

	for i, ref := range refs {
		g.Go(func() error {
			results[i] = s.syncPage(ctx, src, ref)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.log.Info().Int("pages", len(results)).Int("failed", failed).Msg("notion sync finished")
	return results
}

// SyncNotion lists the source's candidates and syncs the selected ones.
// A listing failure is returned as an error; page failures are not.
func (s *Service) SyncNotion(ctx context.Context, src DocumentSource) ([]UnitResult, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	refs, err := src.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing pages: %w", ErrFetch, err)
	}

	selected := make([]PageRef, 0, len(refs))
	for _, ref := range refs {
		if ref.Selected {
			selected = append(selected, ref)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: %d candidate(s) listed", ErrNoSelectedPages, len(refs))
	}

	return s.SyncPages(ctx, src, selected), nil
}

// syncPage runs one page through fetch, extraction, rendering and write.
func (s *Service) syncPage(ctx context.Context, src DocumentSource, ref PageRef) UnitResult {
	start := time.Now()
	result := UnitResult{Unit: ref.ID, Title: ref.Title}
	fail := func(err error) UnitResult {
		result.Err = err
		result.Duration = time.Since(start)
		s.log.Warn().Str("unit", "notion").Str("page", ref.ID).Err(err).Msg("page skipped")
		return result
	}

	if strings.TrimSpace(ref.ID) == "" {
		return fail(ErrEmptyPageID)
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.fetchTimeout)
	doc, err := src.FetchDocument(fetchCtx, ref.ID)
	cancel()
	if err != nil {
		return fail(fmt.Errorf("%w: page %s: %w", ErrFetch, ref.ID, err))
	}
	if doc == nil {
		return fail(fmt.Errorf("%w: page %s: empty response", ErrFetch, ref.ID))
	}

	if doc.Title != "" {
		result.Title = doc.Title
	}
	assocs, warnings := ExtractMarkdown(doc.Markdown)
	s.logWarnings("notion", ref.ID, warnings)

	sheet := NewCheatsheet(result.Title, MarkerNotion)
	sheet.Add(assocs...)

	result.Content = Render(sheet, s.cfg.render)
	result.Sections = sheet.SectionCount()
	result.Warnings = warnings
	result.OutputPath = s.outputPath(ref.ID + ".md")

	if err := s.writer.WriteFile(result.OutputPath, result.Content); err != nil {
		result.Content = ""
		return fail(fmt.Errorf("%w: %s: %v", ErrWrite, result.OutputPath, err))
	}

	result.Duration = time.Since(start)
	s.log.Info().Str("page", ref.ID).Str("output", result.OutputPath).Int("sections", result.Sections).Msg("page synced")
	return result
}
