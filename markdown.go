package cheatsync

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Line ending normalization.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// markdownParser is shared across goroutines: goldmark keeps per-parse
// state in a fresh parser.Context, never in the parser itself.
var markdownParser = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM, // Tables and task lists parse as Other instead of paragraphs
	),
	goldmark.WithParserOptions(
		// Ahead of the stock fenced code parser (700), which it wraps.
		parser.WithBlockParsers(util.Prioritized(fenceTracker{parser.NewFencedCodeBlockParser()}, 699)),
	),
).Parser()

// ParseDocument parses Markdown into its top-level blocks.
// A leading front-matter block is blanked out before parsing so its
// closing fence is never read as a setext underline. Parsing never fails:
// an unterminated code fence runs to end of document and is reported
// in Document.Warnings.
func ParseDocument(markdown string) Document {
	src := []byte(blankFrontMatter(normalizeLineEndings(markdown)))
	root := markdownParser.Parse(text.NewReader(src))

	var doc Document
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			doc.Blocks = append(doc.Blocks, Block{
				Kind:  BlockHeading,
				Level: node.Level,
				Text:  inlineText(node, src),
			})
		case *ast.FencedCodeBlock:
			doc.Blocks = append(doc.Blocks, Block{
				Kind:     BlockCodeFence,
				Language: string(node.Language(src)),
				Body:     fenceBody(node, src),
			})
			if line, open := unterminatedFence(node, src); open {
				doc.Warnings = append(doc.Warnings, Warning{
					Kind:    WarnUnterminatedFence,
					Line:    line,
					Message: fmt.Sprintf("code fence opened at line %d is never closed", line),
				})
			}
		default:
			doc.Blocks = append(doc.Blocks, Block{Kind: BlockOther})
		}
	}
	return doc
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// blankFrontMatter replaces a recognized front-matter block with empty
// lines, keeping line numbers of the body unchanged.
func blankFrontMatter(content string) string {
	lines := strings.Split(content, "\n")
	end, ok := frontMatterEnd(lines)
	if !ok {
		return content
	}
	return strings.Repeat("\n", end+1) + strings.Join(lines[end+1:], "\n")
}

// inlineText flattens the inline children of a node to plain text,
// dropping emphasis, link and code-span markers.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// fenceBody returns the raw content of a fenced block without the
// newline that ends its last line.
func fenceBody(node *ast.FencedCodeBlock, src []byte) string {
	var buf bytes.Buffer
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Attribute keys set on fenced code blocks by fenceTracker.
var (
	attrFenceOpen   = []byte("cheatsync-fence-open")
	attrFenceClosed = []byte("cheatsync-fence-closed")
)

// fenceTracker wraps goldmark's fenced code parser to record the offset
// of each opening fence and whether a closing fence ended the block.
// goldmark closes a fence that reaches end of input without telling.
type fenceTracker struct {
	parser.BlockParser
}

func (f fenceTracker) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	_, seg := reader.PeekLine()
	node, state := f.BlockParser.Open(parent, reader, pc)
	if node != nil {
		node.SetAttribute(attrFenceOpen, seg.Start)
	}
	return node, state
}

func (f fenceTracker) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	state := f.BlockParser.Continue(node, reader, pc)
	if state&parser.Close != 0 {
		node.SetAttribute(attrFenceClosed, true)
	}
	return state
}

// unterminatedFence reports whether the fence ran to end of document,
// along with the 1-based line of its opening fence.
func unterminatedFence(node *ast.FencedCodeBlock, src []byte) (int, bool) {
	if _, closed := node.Attribute(attrFenceClosed); closed {
		return 0, false
	}
	v, ok := node.Attribute(attrFenceOpen)
	if !ok {
		return 0, false
	}
	start := min(v.(int), len(src))
	return bytes.Count(src[:start], []byte("\n")) + 1, true
}
