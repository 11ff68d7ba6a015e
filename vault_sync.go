package cheatsync

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// vaultTitlePrefix starts the title of every vault cheatsheet.
const vaultTitlePrefix = "Obsidian — #"

// VaultRequest describes one tag-filtered vault scan.
type VaultRequest struct {
	Root       string
	Tag        string
	OutputName string // defaults to obsidian_<tag>.md
}

// SkippedFile is a vault note left out of the cheatsheet.
type SkippedFile struct {
	Path string
	Err  error
}

// VaultResult holds the outcome of a vault scan.
type VaultResult struct {
	UnitResult
	Scanned int
	Matched int
	Skipped []SkippedFile
}

// noteScan is the per-file outcome of a scan worker.
type noteScan struct {
	path     string
	name     string
	matched  bool
	assocs   []Association
	warnings []Warning
	err      error
}

// SyncVault scans every Markdown note under req.Root, keeps the ones
// tagged req.Tag and writes a single grouped cheatsheet with one section
// per matching note. Notes are processed on a bounded worker pool and
// grouped in enumeration order (or by path with WithSortedSections).
// Unreadable notes are skipped; only enumeration, cancellation and the
// final write are returned as errors.
func (s *Service) SyncVault(ctx context.Context, vault Vault, req VaultRequest) (*VaultResult, error) {
	start := time.Now()

	if vault == nil {
		return nil, ErrNilSource
	}
	if strings.TrimSpace(req.Root) == "" {
		return nil, ErrEmptyRoot
	}
	tag := NormalizeTag(req.Tag)
	if tag == "" {
		return nil, ErrEmptyTag
	}

	paths, err := vault.EnumerateMarkdownFiles(req.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileRead, req.Root, err)
	}

	scans := runIndexed(ctx, s.workers(), len(paths),
		func(_ context.Context, i int) noteScan {
			return s.scanNote(vault, paths[i], tag)
		},
		func(i int, err error) noteScan {
			return noteScan{path: paths[i], err: err}
		},
	)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.cfg.sortSections {
		sort.SliceStable(scans, func(i, j int) bool { return scans[i].path < scans[j].path })
	}

	result := &VaultResult{
		UnitResult: UnitResult{Unit: tag, Title: vaultTitlePrefix + tag},
		Scanned:    len(paths),
	}
	sheet := NewGroupedCheatsheet(result.Title, MarkerObsidian)

	for _, sc := range scans {
		if sc.err != nil {
			result.Skipped = append(result.Skipped, SkippedFile{Path: sc.path, Err: sc.err})
			s.log.Warn().Str("unit", "obsidian").Str("path", sc.path).Err(sc.err).Msg("note skipped")
			continue
		}
		if !sc.matched {
			continue
		}
		result.Matched++
		result.Warnings = append(result.Warnings, sc.warnings...)
		s.logWarnings("obsidian", sc.path, sc.warnings)
		sheet.AddGroup(sc.name, sc.assocs)
	}

	name := req.OutputName
	if name == "" {
		name = "obsidian_" + tag + ".md"
	}
	result.OutputPath = s.outputPath(name)
	result.Content = Render(sheet, s.cfg.render)
	result.Sections = len(sheet.Groups)

	if err := s.writer.WriteFile(result.OutputPath, result.Content); err != nil {
		result.Content = ""
		result.Err = fmt.Errorf("%w: %s: %v", ErrWrite, result.OutputPath, err)
		result.Duration = time.Since(start)
		return result, result.Err
	}

	result.Duration = time.Since(start)
	s.log.Info().
		Str("tag", tag).
		Str("output", result.OutputPath).
		Int("scanned", result.Scanned).
		Int("matched", result.Matched).
		Int("skipped", len(result.Skipped)).
		Msg("vault sync finished")
	return result, nil
}

// scanNote reads one note, checks its tags and extracts its snippets.
func (s *Service) scanNote(vault Vault, path, tag string) noteScan {
	sc := noteScan{path: path}

	content, err := vault.ReadFile(path)
	if err != nil {
		sc.err = fmt.Errorf("%w: %s: %v", ErrFileRead, path, err)
		return sc
	}

	if !HasTag(DetectTags(content), tag) {
		return sc
	}

	sc.matched = true
	sc.name = s.cfg.noteTitle(path, content)
	sc.assocs, sc.warnings = ExtractMarkdown(content)
	return sc
}
