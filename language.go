package cheatsync

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// CanonicalLanguage maps a fence language to the primary alias chroma
// knows it by ("py" becomes "python", "sh" becomes "bash"). Languages
// chroma does not recognize are returned trimmed but otherwise unchanged.
func CanonicalLanguage(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		return ""
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		return language
	}
	cfg := lexer.Config()
	if len(cfg.Aliases) > 0 {
		return cfg.Aliases[0]
	}
	return strings.ToLower(cfg.Name)
}
