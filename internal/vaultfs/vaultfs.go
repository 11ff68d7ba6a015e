// Package vaultfs reads Markdown notes from an Obsidian vault on disk.
package vaultfs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/adrg/frontmatter"
)

// Sentinel errors for vault operations.
var (
	ErrNotUTF8    = errors.New("file is not valid UTF-8")
	ErrNotDir     = errors.New("vault path is not a directory")
	ErrFileTooBig = errors.New("file exceeds maximum size")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// MaxFileSize skips notes larger than this (default 8MB).
var MaxFileSize int64 = 8 << 20

// markdownExts lists the extensions treated as notes.
var markdownExts = map[string]bool{
	".md":       true,
	".markdown": true,
}

// FS walks and reads a vault. The zero value skips hidden directories
// such as .obsidian, .trash and .git.
type FS struct {
	IncludeHidden bool
}

// EnumerateMarkdownFiles returns every note under root in lexical order.
// Hidden directories are not entered unless IncludeHidden is set; root
// itself is always walked. Unreadable subdirectories are skipped.
func (v FS) EnumerateMarkdownFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDir, root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path != root && d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() {
			if path != root && !v.IncludeHidden && isHidden(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && markdownExts[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// ReadFile returns the content of a note. Files that are too large or
// not valid UTF-8 are rejected. A UTF-8 byte order mark is dropped.
func (v FS) ReadFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > MaxFileSize {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooBig, info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the vault walk
	if err != nil {
		return "", err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", ErrNotUTF8
	}
	return string(data), nil
}

// isHidden reports whether a directory name starts with a dot.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

type titleMatter struct {
	Title string `yaml:"title"`
}

// Title returns the front-matter title of a note, or its file name
// without extension when there is none or the front matter is not valid
// YAML.
func Title(path, content string) string {
	var meta titleMatter
	if _, err := frontmatter.Parse(strings.NewReader(content), &meta); err == nil {
		if t := strings.TrimSpace(meta.Title); t != "" {
			return t
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
