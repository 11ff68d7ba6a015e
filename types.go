package cheatsync

// Source markers written under the cheatsheet title.
const (
	MarkerNotion   = "% notion"
	MarkerObsidian = "% obsidian"
)

// BlockKind is the closed set of top-level block variants.
type BlockKind int

const (
	BlockOther BlockKind = iota
	BlockHeading
	BlockCodeFence
)

// String returns a short label for the block kind.
func (k BlockKind) String() string {
	switch k {
	case BlockHeading:
		return "heading"
	case BlockCodeFence:
		return "code-fence"
	default:
		return "other"
	}
}

// Block is one top-level Markdown block. Which fields are meaningful
// depends on Kind: Level and Text for headings, Language and Body for
// code fences. Other blocks carry nothing.
type Block struct {
	Kind     BlockKind
	Level    int
	Text     string
	Language string // "" when the fence declares no language
	Body     string
}

// Document is the ordered sequence of top-level blocks of one Markdown text.
type Document struct {
	Blocks   []Block
	Warnings []Warning
}

// Association binds a code fence to the most recent top-level heading
// that preceded it.
type Association struct {
	Heading    string
	HasHeading bool // false when the fence appeared before any heading
	Language   string
	Code       string
}

// Group is a run of associations sharing an outer heading, one per
// source file in a vault cheatsheet.
type Group struct {
	Name         string
	Associations []Association
}

// Cheatsheet is the logical unit rendered to one output file.
// A flat cheatsheet holds a single unnamed group.
type Cheatsheet struct {
	Title   string
	Marker  string
	Grouped bool
	Groups  []Group
}

// NewCheatsheet creates a flat cheatsheet: associations render directly
// under the title at level 2.
func NewCheatsheet(title, marker string) *Cheatsheet {
	return &Cheatsheet{Title: title, Marker: marker}
}

// NewGroupedCheatsheet creates a cheatsheet whose sections are grouped by
// source: group names render at level 2, in-file headings at level 3.
func NewGroupedCheatsheet(title, marker string) *Cheatsheet {
	return &Cheatsheet{Title: title, Marker: marker, Grouped: true}
}

// Add appends associations to the last group, creating an unnamed group
// on first use.
func (c *Cheatsheet) Add(assocs ...Association) {
	if len(c.Groups) == 0 {
		c.Groups = append(c.Groups, Group{})
	}
	last := &c.Groups[len(c.Groups)-1]
	last.Associations = append(last.Associations, assocs...)
}

// AddGroup appends a named group. A group with no associations still
// renders its heading.
func (c *Cheatsheet) AddGroup(name string, assocs []Association) {
	c.Groups = append(c.Groups, Group{
		Name:         name,
		Associations: append([]Association(nil), assocs...),
	})
}

// SectionCount returns the number of associations across all groups.
func (c *Cheatsheet) SectionCount() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g.Associations)
	}
	return n
}
