package cheatsync

import "context"

// RemoteDocument is one page fetched from a document source, already
// converted to Markdown.
type RemoteDocument struct {
	ID       string
	Title    string
	Markdown string
}

// PageRef is a sync candidate listed by a document source.
type PageRef struct {
	ID       string
	Title    string
	Selected bool // the page opted in to syncing
}

// DocumentSource fetches remote pages as Markdown.
// FetchDocument fails on auth, network or not-found errors.
type DocumentSource interface {
	FetchDocument(ctx context.Context, id string) (*RemoteDocument, error)
	ListCandidates(ctx context.Context) ([]PageRef, error)
}

// Vault enumerates and reads the Markdown notes under a directory.
type Vault interface {
	EnumerateMarkdownFiles(root string) ([]string, error)
	ReadFile(path string) (string, error)
}

// Writer persists a rendered cheatsheet. Implementations must leave the
// previous file untouched when a write fails.
type Writer interface {
	WriteFile(path, content string) error
}
