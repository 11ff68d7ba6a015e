package cheatsync

// Extract associates every code fence of doc with the last top-level
// heading seen before it. The heading register lives only for this call
// and is never reset between fences.
func Extract(doc Document) []Association {
	assocs := make([]Association, 0, len(doc.Blocks))

	var (
		heading    string
		hasHeading bool
	)
	for _, b := range doc.Blocks {
		switch b.Kind {
		case BlockHeading:
			heading, hasHeading = b.Text, true
		case BlockCodeFence:
			assocs = append(assocs, Association{
				Heading:    heading,
				HasHeading: hasHeading,
				Language:   b.Language,
				Code:       b.Body,
			})
		}
	}
	return assocs
}

// ExtractMarkdown parses markdown and extracts its associations.
func ExtractMarkdown(markdown string) ([]Association, []Warning) {
	doc := ParseDocument(markdown)
	return Extract(doc), doc.Warnings
}
