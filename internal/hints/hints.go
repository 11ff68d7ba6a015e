// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"path/filepath"
	"strings"
)

// TokenEnvVar names the variable holding the Notion integration token.
const TokenEnvVar = "NOTION_TOKEN"

// ForMissingToken returns hints when no Notion token is configured.
// Mentions a .env file when none exists in the working directory.
func ForMissingToken() string {
	hint := "export " + TokenEnvVar + "=secret_..."
	if _, err := os.Stat(".env"); err != nil {
		hint += " or add it to a .env file"
	}
	return format(hint)
}

// ForUnauthorized returns hints for 401/403 answers from the Notion API.
func ForUnauthorized() string {
	return formatHints([]string{
		"check " + TokenEnvVar,
		"share the pages with your integration",
	})
}

// ForNoSelectedPages returns hints when no page has the selection checkbox.
func ForNoSelectedPages(property string) string {
	return format("tick the " + quote(property) + " checkbox on the pages to sync, or use --page")
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for slow workspaces, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/cheatsync/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml or run 'cheatsync init'"

	for _, p := range searchedPaths {
		if strings.Contains(p, filepath.Join(".config", "cheatsync")) {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForVaultNotFound returns hints when the vault directory is missing.
func ForVaultNotFound() string {
	return format("pass the vault as argument or set vault.dir in the config")
}

// ForNoMatchingNotes returns hints when a scan finds no tagged note.
func ForNoMatchingNotes(tag string) string {
	return format("no note is tagged #" + tag + "; add 'tags: [" + tag + "]' to its front matter or #" + tag + " to its body")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

func quote(s string) string {
	return "\"" + s + "\""
}
