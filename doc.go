// Package cheatsync aggregates code snippets from personal notes into
// Markdown cheatsheets.
//
// # Quick Start
//
// Sync one remote page into the output directory:
//
//	svc := cheatsync.New(cheatsync.WithOutputDir("cheats"))
//
//	result, err := svc.SyncPage(ctx, source, "0f2c6d1e...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.OutputPath, result.Sections)
//
// Or collect every note of a vault tagged #linux into one file:
//
//	result, err := svc.SyncVault(ctx, vault, cheatsync.VaultRequest{
//	    Root: "/home/me/Obsidian",
//	    Tag:  "linux",
//	})
//
// # Pipeline
//
// Each sync unit goes through the same stages:
//
//  1. ParseDocument keeps the top-level headings and fenced code blocks
//     of a note (goldmark), skipping front matter.
//  2. Extract binds each code block to the last heading seen before it.
//  3. DetectTags reads front-matter tags and inline #tags (vault only).
//  4. Render drops comment lines from each snippet and writes the
//     cheatsheet.
//  5. The Writer persists it atomically.
//
// # Rendered Output
//
// A page cheatsheet is flat:
//
//	# Docker
//	% notion
//	## Prune
//	```
//	docker system prune -af
//	```
//
// A vault cheatsheet adds one level-2 section per matching note, named by
// its file stem, and moves in-note headings to level 3.
//
// # Collaborators
//
// Sources, vaults and writers are interfaces. The internal notion,
// vaultfs and fileutil packages implement them for the cheatsync
// command; tests substitute in-memory fakes.
//
// # Concurrency
//
// Service holds configuration only and is safe for concurrent use.
// Batches run on at most ResolvePoolSize(workers) goroutines and results
// keep input order.
package cheatsync
