package classify

// Kind is the structural category of a line.
type Kind int

const (
	KindBlank Kind = iota
	KindHeading
	KindListItem
	KindTableRow
	KindCodeLine
	KindParagraphLine
)

// String returns a string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindHeading:
		return "heading"
	case KindListItem:
		return "list-item"
	case KindTableRow:
		return "table-row"
	case KindCodeLine:
		return "code"
	case KindParagraphLine:
		return "paragraph"
	default:
		return "unknown"
	}
}

// Role is the classification of a single line. Only the fields relevant to
// Kind are set:
//
//	KindHeading   Level (1-6)
//	KindListItem  Ordered, Depth
//	KindTableRow  Cells, Header
type Role struct {
	Kind    Kind
	Level   int
	Ordered bool
	Depth   int
	Cells   []string
	Header  bool
}

// Blank returns the blank role.
func Blank() Role { return Role{Kind: KindBlank} }

// Heading returns a heading role of the given level.
func Heading(level int) Role { return Role{Kind: KindHeading, Level: level} }

// ListItem returns a list item role.
func ListItem(ordered bool, depth int) Role {
	return Role{Kind: KindListItem, Ordered: ordered, Depth: depth}
}

// TableRow returns a table row role.
func TableRow(cells []string, header bool) Role {
	return Role{Kind: KindTableRow, Cells: cells, Header: header}
}

// CodeLine returns the code line role.
func CodeLine() Role { return Role{Kind: KindCodeLine} }

// ParagraphLine returns the paragraph line role.
func ParagraphLine() Role { return Role{Kind: KindParagraphLine} }

// Line is a classified line of text.
type Line struct {
	// Text is the content with structural markers removed: heading hashes,
	// list bullets and code indentation.
	Text string

	// Raw is the line as it appeared in the source.
	Raw string

	// Markdown is Text with inline emphasis such as **bold** kept. It is only
	// set on paragraph lines and list items whose source had run formatting.
	Markdown string

	Role Role

	// Page is the 1-based source page, or 0 for unpaginated sources.
	Page int

	// PageBreak is set on the first line after an explicit page break.
	PageBreak bool

	// Table identifies the table a TableRow belongs to. Rows with different
	// values never share a table.
	Table int
}

// IsStructural reports whether the line is anything other than blank.
func (l Line) IsStructural() bool {
	return l.Role.Kind != KindBlank
}
