package preview

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	t.Parallel()

	r, err := New("")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sheet := "# Docker <tips>\n% notion\n## Prune\n```bash\ndocker system prune -af\n```\n\n"
	got, err := r.ToHTML(context.Background(), "Docker <tips>", sheet)
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}

	tests := []struct {
		name string
		want string
	}{
		{"doctype", "<!DOCTYPE html>"},
		{"escaped title", "<title>Docker &lt;tips&gt;</title>"},
		{"section anchor", `<h2 id="prune">Prune</h2>`},
		{"highlighted code", `class="chroma"`},
		{"style sheet", ".chroma"},
		{"code content", "prune"},
	}
	for _, tt := range tests {
		if !strings.Contains(got, tt.want) {
			t.Errorf("%s: output missing %q", tt.name, tt.want)
		}
	}
}

func TestToHTML_UnknownStyleFallsBack(t *testing.T) {
	t.Parallel()

	r, err := New("no-such-style")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := r.ToHTML(context.Background(), "x", "# x\n"); err != nil {
		t.Errorf("ToHTML() error = %v", err)
	}
}

func TestToHTML_CanceledContext(t *testing.T) {
	t.Parallel()

	r, err := New(DefaultStyle)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.ToHTML(ctx, "x", "# x\n"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"/out/obsidian_linux.md", "/out/obsidian_linux.html"},
		{"page", "page.html"},
		{"dir.v2/page.markdown", "dir.v2/page.html"},
	}
	for _, tt := range tests {
		if got := Path(tt.in); got != tt.want {
			t.Errorf("Path(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
