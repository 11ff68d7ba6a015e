package cheatsync

import "errors"

// Sentinel errors for library operations.
var (
	// Per-document failures. Drivers record these and keep going.
	ErrFetch    = errors.New("failed to fetch document")
	ErrFileRead = errors.New("failed to read file")

	// ErrWrite is fatal for the sync unit it belongs to.
	ErrWrite = errors.New("failed to write cheatsheet")

	// Input validation errors.
	ErrEmptyPageID     = errors.New("page ID cannot be empty")
	ErrEmptyTag        = errors.New("tag cannot be empty")
	ErrEmptyRoot       = errors.New("vault directory cannot be empty")
	ErrNoSelectedPages = errors.New("no pages selected for sync")
	ErrNilSource       = errors.New("document source is nil")
)

// WarningKind classifies recoverable parse problems.
type WarningKind int

const (
	// WarnUnterminatedFence marks a code fence that ran to end of document.
	WarnUnterminatedFence WarningKind = iota + 1
)

// String returns a short label for the warning kind.
func (k WarningKind) String() string {
	switch k {
	case WarnUnterminatedFence:
		return "unterminated-fence"
	default:
		return "unknown"
	}
}

// Warning is a parse leniency notice. The parse result is still usable.
type Warning struct {
	Kind    WarningKind
	Line    int // 1-based line in the normalized source
	Message string
}
