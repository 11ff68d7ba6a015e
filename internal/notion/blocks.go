package notion

import (
	"strings"

	"github.com/tidwall/gjson"
)

// plainLanguage is the Notion code language meaning "none".
const plainLanguage = "plain text"

// BlocksToMarkdown converts top-level Notion blocks to Markdown, one
// Markdown block per Notion block separated by blank lines. Headings, code
// blocks and the common text blocks are kept; other block types and
// nested children are dropped.
func BlocksToMarkdown(blocks []gjson.Result) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if md, ok := blockToMarkdown(b); ok {
			parts = append(parts, md)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}

func blockToMarkdown(b gjson.Result) (string, bool) {
	kind := b.Get("type").String()
	data := b.Get(kind)
	text := func() string { return plainText(data.Get("rich_text")) }
	prose := func() string { return escapeBlockMarkers(text()) }

	switch kind {
	case "heading_1":
		return "# " + singleLine(text()), true
	case "heading_2":
		return "## " + singleLine(text()), true
	case "heading_3":
		return "### " + singleLine(text()), true
	case "code":
		lang := data.Get("language").String()
		if lang == plainLanguage {
			lang = ""
		}
		return fenced(text(), strings.ReplaceAll(lang, " ", "-")), true
	case "paragraph":
		t := prose()
		return t, t != ""
	case "bulleted_list_item":
		return "- " + prose(), true
	case "numbered_list_item":
		return "1. " + prose(), true
	case "quote":
		return "> " + strings.ReplaceAll(prose(), "\n", "\n> "), true
	case "to_do":
		box := "[ ]"
		if data.Get("checked").Bool() {
			box = "[x]"
		}
		return "- " + box + " " + prose(), true
	case "divider":
		return "---", true
	default:
		return "", false
	}
}

// escapeBlockMarkers backslash-escapes every line of plain text that
// Markdown would read as structure: ATX headings, quotes, list markers,
// setext underlines and code fences. Text stays prose, so it can neither
// replace the heading of the next snippet nor open a fence.
func escapeBlockMarkers(text string) string {
	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		body := strings.TrimLeft(ln, " ")
		indent := ln[:len(ln)-len(body)]
		if len(indent) > 3 || !startsBlock(body) {
			continue
		}
		lines[i] = indent + `\` + body
	}
	return strings.Join(lines, "\n")
}

// startsBlock reports whether a line, stripped of its indentation,
// opens or underlines a Markdown block.
func startsBlock(line string) bool {
	switch {
	case line == "":
		return false
	case line[0] == '#', line[0] == '>':
		return true
	case strings.HasPrefix(line, "```"), strings.HasPrefix(line, "~~~"):
		return true
	case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "+ "), strings.HasPrefix(line, "* "):
		return true
	}
	run := strings.TrimRight(line, " ")
	return (run[0] == '=' || run[0] == '-') && strings.Count(run, run[:1]) == len(run)
}

// plainText concatenates the plain_text of a rich text array.
func plainText(richText gjson.Result) string {
	var b strings.Builder
	for _, rt := range richText.Array() {
		b.WriteString(rt.Get("plain_text").String())
	}
	return b.String()
}

// fenced wraps code in a backtick fence longer than any run it contains.
func fenced(code, lang string) string {
	fence := "```"
	for strings.Contains(code, fence) {
		fence += "`"
	}
	return fence + lang + "\n" + code + "\n" + fence
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
