package cheatsync

import (
	"regexp"
	"sort"
	"strings"
)

// inlineTagPattern matches "#tag" at start of text or after whitespace.
// A '#' inside a word does not start a tag.
var inlineTagPattern = regexp.MustCompile(`(?:^|\s)#([A-Za-z0-9_/-]+)`)

// DetectTags returns the sorted, deduplicated, lowercase tags of a note,
// taken from inline #tags anywhere in the text and from the tags key of
// its front matter. It never fails; unsupported front matter simply
// contributes nothing.
func DetectTags(markdown string) []string {
	content := normalizeLineEndings(markdown)

	seen := make(map[string]struct{})
	add := func(raw string) {
		if tag := NormalizeTag(raw); tag != "" {
			seen[tag] = struct{}{}
		}
	}

	for _, m := range inlineTagPattern.FindAllStringSubmatch(content, -1) {
		add(m[1])
	}
	for _, tag := range frontMatterTags(strings.Split(content, "\n")) {
		add(tag)
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// NormalizeTag lowercases a tag and strips surrounding whitespace and a
// leading '#', so "#Linux" and "linux" compare equal.
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.TrimLeft(tag, "#")
	return strings.ToLower(strings.TrimSpace(tag))
}

// HasTag reports whether a sorted tag set returned by DetectTags
// contains want. want is normalized first.
func HasTag(tags []string, want string) bool {
	want = NormalizeTag(want)
	if want == "" {
		return false
	}
	i := sort.SearchStrings(tags, want)
	return i < len(tags) && tags[i] == want
}
