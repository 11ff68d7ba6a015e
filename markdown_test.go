package cheatsync

// Notes:
// - ParseDocument: only top-level blocks are reported. Code nested in a
//   list or quote is part of an Other block.
// - Heading text is flattened: emphasis, code spans and links lose their
//   markers.
// - Front matter is blanked before parsing; line numbers in warnings
//   still refer to the original text.

import (
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseDocument - Top-level block recognition
// ---------------------------------------------------------------------------

func TestParseDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Block
	}{
		{
			name:  "headings and fences",
			input: "# Docker\nSome prose.\n```bash\ndocker ps\n```\n## Images\n~~~\ndocker images\n~~~\n",
			want: []Block{
				{Kind: BlockHeading, Level: 1, Text: "Docker"},
				{Kind: BlockOther},
				{Kind: BlockCodeFence, Language: "bash", Body: "docker ps"},
				{Kind: BlockHeading, Level: 2, Text: "Images"},
				{Kind: BlockCodeFence, Body: "docker images"},
			},
		},
		{
			name:  "inline markup is flattened",
			input: "## Use `git` **now** with [docs](https://git-scm.com)\n",
			want:  []Block{{Kind: BlockHeading, Level: 2, Text: "Use git now with docs"}},
		},
		{
			name:  "setext heading",
			input: "Title\n=====\n",
			want:  []Block{{Kind: BlockHeading, Level: 1, Text: "Title"}},
		},
		{
			name:  "multi-line fence body keeps indentation",
			input: "```go\nfunc main() {\n\tprintln(1)\n}\n```\n",
			want:  []Block{{Kind: BlockCodeFence, Language: "go", Body: "func main() {\n\tprintln(1)\n}"}},
		},
		{
			name:  "empty fence",
			input: "```\n```\n",
			want:  []Block{{Kind: BlockCodeFence}},
		},
		{
			name:  "indented code is not a fence",
			input: "    ls -la\n",
			want:  []Block{{Kind: BlockOther}},
		},
		{
			name:  "fence inside a list is not top-level",
			input: "- item\n\n  ```\n  ls\n  ```\n",
			want:  []Block{{Kind: BlockOther}},
		},
		{
			name:  "front matter is ignored",
			input: "---\ntitle: Notes\ntags: [linux]\n---\n# Files\n",
			want:  []Block{{Kind: BlockHeading, Level: 1, Text: "Files"}},
		},
		{
			name:  "CRLF line endings",
			input: "# H\r\n```sh\r\nls\r\npwd\r\n```\r\n",
			want: []Block{
				{Kind: BlockHeading, Level: 1, Text: "H"},
				{Kind: BlockCodeFence, Language: "sh", Body: "ls\npwd"},
			},
		},
		{
			name:  "empty document",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := ParseDocument(tt.input)
			if len(doc.Blocks) != len(tt.want) {
				t.Fatalf("got %d blocks %+v, want %d", len(doc.Blocks), doc.Blocks, len(tt.want))
			}
			for i := range tt.want {
				if doc.Blocks[i] != tt.want[i] {
					t.Errorf("block %d = %+v, want %+v", i, doc.Blocks[i], tt.want[i])
				}
			}
			if len(doc.Warnings) != 0 {
				t.Errorf("unexpected warnings: %+v", doc.Warnings)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseDocument_UnterminatedFence - Lenient parsing
// ---------------------------------------------------------------------------

func TestParseDocument_UnterminatedFence(t *testing.T) {
	t.Parallel()

	doc := ParseDocument("# H\n```sh\nls\npwd")

	if len(doc.Blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(doc.Blocks))
	}
	if doc.Blocks[1].Body != "ls\npwd" {
		t.Errorf("Body = %q, want fence to run to end of document", doc.Blocks[1].Body)
	}
	if len(doc.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(doc.Warnings))
	}
	w := doc.Warnings[0]
	if w.Kind != WarnUnterminatedFence || w.Line != 2 {
		t.Errorf("warning = %+v, want unterminated fence at line 2", w)
	}
	if w.Kind.String() != "unterminated-fence" {
		t.Errorf("Kind.String() = %q", w.Kind.String())
	}
}

func TestParseDocument_FrontMatterKeepsLineNumbers(t *testing.T) {
	t.Parallel()

	doc := ParseDocument("---\ntags: [a]\n---\n```\nls")

	if len(doc.Warnings) != 1 || doc.Warnings[0].Line != 4 {
		t.Errorf("warnings = %+v, want one at line 4", doc.Warnings)
	}
}

// ---------------------------------------------------------------------------
// TestParseDocument_FenceClosure - Closed versus open fences
// ---------------------------------------------------------------------------

func TestParseDocument_FenceClosure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantLine int // 0 means no warning
	}{
		{"closed fence", "```\nls\n```\n", 0},
		{"closed empty fence", "```\n```\n", 0},
		{"closed empty fence at end of input", "```\n```", 0},
		{"longer closing fence", "```\nls\n`````", 0},
		{"empty fence at end of input", "text\n```", 2},
		{"empty fence with trailing newline", "text\n\n~~~\n", 3},
		{"empty fence with info string", "```bash", 1},
		{"third fence reopens", "```\n```\n```", 3},
		{"shorter closing fence keeps it open", "````\nls\n```\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := ParseDocument(tt.input)
			if tt.wantLine == 0 {
				if len(doc.Warnings) != 0 {
					t.Errorf("unexpected warnings: %+v", doc.Warnings)
				}
				return
			}
			if len(doc.Warnings) != 1 {
				t.Fatalf("got %d warnings %+v, want 1", len(doc.Warnings), doc.Warnings)
			}
			if w := doc.Warnings[0]; w.Kind != WarnUnterminatedFence || w.Line != tt.wantLine {
				t.Errorf("warning = %+v, want unterminated fence at line %d", w, tt.wantLine)
			}
		})
	}
}

func TestBlockKind_String(t *testing.T) {
	t.Parallel()

	for kind, want := range map[BlockKind]string{
		BlockHeading:   "heading",
		BlockCodeFence: "code-fence",
		BlockOther:     "other",
	} {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}
