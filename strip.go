package cheatsync

import "strings"

// DefaultCommentPrefix marks shell and Python style line comments.
const DefaultCommentPrefix = "#"

// StripCommentLines removes every line whose trimmed content starts with
// prefix. Whole lines are dropped; trailing comments, string literals and
// other lines are left alone, and the kept lines are joined with "\n".
// Kept lines never change, so stripping twice equals stripping once.
// An empty prefix removes nothing.
func StripCommentLines(code, prefix string) string {
	lines := strings.Split(normalizeLineEndings(code), "\n")
	kept := lines[:0]
	for _, ln := range lines {
		if prefix != "" && strings.HasPrefix(strings.TrimSpace(ln), prefix) {
			continue
		}
		kept = append(kept, ln)
	}
	return strings.Join(kept, "\n")
}
