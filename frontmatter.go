package cheatsync

import (
	"regexp"
	"strings"
)

// frontMatterScanLimit bounds the search for the closing fence.
// Notes with an unclosed opening fence contribute no front matter.
const frontMatterScanLimit = 400

const frontMatterFence = "---"

var (
	inlineTagsPattern = regexp.MustCompile(`^\s*tags\s*:\s*\[(.*?)\]`)
	tagsKeyPattern    = regexp.MustCompile(`^\s*tags\s*:\s*$`)
	listItemPattern   = regexp.MustCompile(`^\s*-\s+(.+)$`)
	topLevelPattern   = regexp.MustCompile(`^\S`)
)

// frontMatterState is the position of the front-matter tag scanner.
type frontMatterState int

const (
	stateBeforeFrontMatter frontMatterState = iota
	stateSeekingTagsKey
	stateInTagsBlockList
	stateDone
)

// frontMatterEnd returns the index of the closing fence line when the
// first line opens a front-matter block.
func frontMatterEnd(lines []string) (int, bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontMatterFence {
		return 0, false
	}
	limit := min(len(lines), frontMatterScanLimit)
	for i := 1; i < limit; i++ {
		if strings.TrimSpace(lines[i]) == frontMatterFence {
			return i, true
		}
	}
	return 0, false
}

// frontMatterTags extracts the tags key of a front-matter block.
// The inline array form wins over the block list form. Anything this
// scanner does not understand yields no tags.
func frontMatterTags(lines []string) []string {
	end, ok := frontMatterEnd(lines)
	if !ok {
		return nil
	}
	body := lines[1:end]

	for _, ln := range body {
		if m := inlineTagsPattern.FindStringSubmatch(ln); m != nil {
			return splitInlineArray(m[1])
		}
	}

	var tags []string
	state := stateBeforeFrontMatter
	for _, ln := range lines[:end] {
		switch state {
		case stateBeforeFrontMatter:
			if strings.TrimSpace(ln) == frontMatterFence {
				state = stateSeekingTagsKey
			}
		case stateSeekingTagsKey:
			if tagsKeyPattern.MatchString(ln) {
				state = stateInTagsBlockList
			}
		case stateInTagsBlockList:
			if m := listItemPattern.FindStringSubmatch(ln); m != nil {
				tags = append(tags, unquote(m[1]))
			} else if topLevelPattern.MatchString(ln) {
				state = stateDone
			}
		}
		if state == stateDone {
			break
		}
	}
	return tags
}

// splitInlineArray splits the inside of "[a, 'b', "c"]".
func splitInlineArray(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}
		items = append(items, unquote(item))
	}
	return items
}

// unquote trims whitespace, then surrounding single and double quotes.
func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `'"`)
}
