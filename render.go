package cheatsync

import (
	"strings"
)

// minFenceLength is the CommonMark minimum for a code fence.
const minFenceLength = 3

// RenderOptions controls cheatsheet rendering.
type RenderOptions struct {
	// CommentPrefix selects the comment lines to drop ("" = DefaultCommentPrefix).
	CommentPrefix string
	// KeepComments disables comment stripping.
	KeepComments bool
	// PreserveLanguage labels each fence with its canonical language.
	// Fences are unlabeled otherwise.
	PreserveLanguage bool
}

// Render turns a cheatsheet into Markdown:
//
//	# <title>
//	<marker>
//	## <heading>
//	```
//	<code without comment lines>
//	```
//
// In a grouped cheatsheet each group adds a "## <name>" line, in-file
// headings move to level 3 and are omitted when empty. Rendering is pure:
// the same cheatsheet always yields the same bytes.
func Render(sheet *Cheatsheet, opts RenderOptions) string {
	var b strings.Builder
	b.WriteString("# " + sheet.Title + "\n")
	b.WriteString(sheet.Marker + "\n")

	for _, g := range sheet.Groups {
		level := 2
		if sheet.Grouped {
			b.WriteString("## " + g.Name + "\n")
			level = 3
		}
		for _, a := range g.Associations {
			if !sheet.Grouped || a.Heading != "" {
				b.WriteString(strings.Repeat("#", level) + " " + a.Heading + "\n")
			}
			writeFence(&b, opts.code(a.Code), opts.label(a.Language))
		}
	}
	return b.String()
}

// code applies comment stripping as configured.
func (o RenderOptions) code(code string) string {
	if o.KeepComments {
		return code
	}
	prefix := o.CommentPrefix
	if prefix == "" {
		prefix = DefaultCommentPrefix
	}
	return StripCommentLines(code, prefix)
}

// label returns the info string of a rendered fence.
func (o RenderOptions) label(language string) string {
	if !o.PreserveLanguage {
		return ""
	}
	return CanonicalLanguage(language)
}

// writeFence writes a fenced block followed by a blank line. The fence
// grows past any backtick run opening a line of code so snippets that
// contain fences stay intact.
func writeFence(b *strings.Builder, code, label string) {
	fence := strings.Repeat("`", max(minFenceLength, longestBacktickRun(code)+1))
	b.WriteString(fence + label + "\n")
	b.WriteString(code + "\n")
	b.WriteString(fence + "\n\n")
}

// longestBacktickRun returns the longest run of backticks that starts a
// line (after indentation) in code.
func longestBacktickRun(code string) int {
	longest := 0
	for _, ln := range strings.Split(code, "\n") {
		trimmed := strings.TrimLeft(ln, " \t")
		n := len(trimmed) - len(strings.TrimLeft(trimmed, "`"))
		if n > longest {
			longest = n
		}
	}
	return longest
}
