package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-cheatsync/internal/logging"
	"github.com/alnah/go-cheatsync/internal/notion"
)

// testToken is the token the fake Notion server accepts.
const testToken = "secret_test"

// testEnv wraps an Environment whose output is captured.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	logs   *bytes.Buffer
	dir    string // working directory of the test
}

// newTestEnv isolates a CLI test: fresh working, config and cache
// directories, no token and no CHEATSYNC_* overrides. Uses t.Setenv and
// t.Chdir, so callers cannot run in parallel.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	work := filepath.Join(root, "work")
	if err := os.MkdirAll(work, 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	t.Chdir(work)

	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	t.Setenv("NOTION_TOKEN", "")
	for name := range knownEnvVars {
		t.Setenv(name, "")
	}

	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		logs:   &bytes.Buffer{},
		dir:    work,
	}
	te.Environment = &Environment{
		Now:    func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) },
		Stdout: te.stdout,
		Stderr: te.stderr,
		NewLogger: func(opts logging.Options) zerolog.Logger {
			return logging.New(te.logs, opts)
		},
	}
	return te
}

// readFile returns the content of path, failing the test on error.
func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// writeFile creates path with content and its parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Fake Notion API
// ---------------------------------------------------------------------------

// fakePage is one page served by the fake Notion API.
type fakePage struct {
	id       string
	title    string
	selected bool
	blocks   string // JSON array of blocks
}

// newFakeNotion serves search, page and block requests for pages and
// points env's Notion client at it.
func newFakeNotion(t *testing.T, env *testEnv, pages ...fakePage) {
	t.Helper()

	byID := make(map[string]fakePage, len(pages))
	for _, p := range pages {
		byID[p.id] = p
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			writeJSON(w, http.StatusUnauthorized, `{"object":"error","status":401,"code":"unauthorized","message":"API token is invalid."}`)
			return
		}

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/search":
			results := make([]string, 0, len(pages))
			for _, p := range pages {
				results = append(results, `{"object":"page","id":"`+p.id+`","properties":`+properties(p)+`}`)
			}
			writeJSON(w, http.StatusOK, `{"results":[`+strings.Join(results, ",")+`],"has_more":false}`)

		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/pages/"):
			p, ok := byID[strings.TrimPrefix(r.URL.Path, "/v1/pages/")]
			if !ok {
				writeJSON(w, http.StatusNotFound, `{"object":"error","status":404,"code":"object_not_found","message":"Could not find page."}`)
				return
			}
			writeJSON(w, http.StatusOK, `{"object":"page","id":"`+p.id+`","properties":`+properties(p)+`}`)

		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/children"):
			id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/blocks/"), "/children")
			p, ok := byID[id]
			if !ok {
				writeJSON(w, http.StatusNotFound, `{"object":"error","status":404,"code":"object_not_found","message":"Could not find block."}`)
				return
			}
			writeJSON(w, http.StatusOK, `{"results":`+p.blocks+`,"has_more":false}`)

		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)

	env.NotionOptions = []notion.Option{notion.WithBaseURL(srv.URL), notion.WithRateLimit(0)}
}

func properties(p fakePage) string {
	selected := "false"
	if p.selected {
		selected = "true"
	}
	return `{"Name":{"type":"title","title":[{"plain_text":"` + p.title + `"}]},` +
		`"Arsenyc":{"type":"checkbox","checkbox":` + selected + `}}`
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// codeBlocks is a page with one heading and one commented snippet.
const codeBlocks = `[
	{"type":"heading_2","heading_2":{"rich_text":[{"plain_text":"Prune"}]}},
	{"type":"paragraph","paragraph":{"rich_text":[{"plain_text":"Free disk space."}]}},
	{"type":"code","code":{"language":"bash","rich_text":[{"plain_text":"# everything\ndocker system prune -af"}]}}
]`
