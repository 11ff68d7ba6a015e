// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// File permission constants.
const (
	DirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	FilePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// DefaultMaxNameLength caps sanitized file names.
const DefaultMaxNameLength = 120

// fallbackName replaces names that sanitize to nothing.
const fallbackName = "untitled"

// Sentinel errors for file utility operations.
var (
	ErrEmptyPath = errors.New("path cannot be empty")
)

// unsafeNameChars matches everything a sanitized name may not contain.
var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_ .-]`)

// WriteFileAtomic writes content to path through a temporary file in the
// same directory, renamed into place once fully written. Parent
// directories are created as needed. On any failure the temporary file is
// removed and an existing file at path is left untouched.
func WriteFileAtomic(path, content string) (err error) {
	if path == "" {
		return ErrEmptyPath
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if err != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmpFile.WriteString(content); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmpFile.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err = tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	// #nosec G302 -- cheatsheets are meant to be readable
	if err = os.Chmod(tmpPath, FilePermissions); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// AtomicWriter adapts WriteFileAtomic to writer interfaces.
type AtomicWriter struct{}

// WriteFile writes content to path atomically.
func (AtomicWriter) WriteFile(path, content string) error {
	return WriteFileAtomic(path, content)
}

// SanitizeFilename turns an arbitrary identifier into a portable file name.
// Accents are decomposed and dropped, characters outside letters, digits,
// underscore, dot, hyphen and space are removed, spaces become
// underscores. The result is at most maxLen bytes (DefaultMaxNameLength
// when maxLen <= 0) and never empty.
//
// Examples:
//   - "Café crème" -> "Cafe_creme"
//   - "a/b:c" -> "abc"
//   - "日本" -> "untitled"
func SanitizeFilename(name string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxNameLength
	}

	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(isNonASCII)))
	ascii, _, err := transform.String(t, name)
	if err != nil {
		ascii = name
	}

	ascii = unsafeNameChars.ReplaceAllString(ascii, "")
	ascii = strings.ReplaceAll(strings.TrimSpace(ascii), " ", "_")
	if ascii == "" {
		ascii = fallbackName
	}
	if len(ascii) > maxLen {
		ascii = ascii[:maxLen]
	}
	return ascii
}

func isNonASCII(r rune) bool {
	return r > unicode.MaxASCII
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "cheatsync" -> false (name)
//   - "./cheatsync.yaml" -> true (relative path)
//   - "/etc/cheatsync.yaml" -> true (absolute)
//   - "sub/dir" -> true (contains separator)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
