package model

// Text rendering modes as defined for PDF content streams (Tr operator).
const (
	RenderFill = iota
	RenderStroke
	RenderFillStroke
	RenderInvisible
	RenderFillClip
	RenderStrokeClip
	RenderFillStrokeClip
	RenderClip
)

// RenderState is the rendering information a container reader captured for
// a text fragment. Colors are RGB components in the range 0-1.
type RenderState struct {
	RenderingMode int
	StrokeAlpha   float64
	FillAlpha     float64
	FillColor     [3]float64
	StrokeColor   [3]float64
}

// DefaultRenderState returns opaque black fill-mode rendering.
func DefaultRenderState() RenderState {
	return RenderState{
		RenderingMode: RenderFill,
		StrokeAlpha:   1,
		FillAlpha:     1,
	}
}

// RawSegment is one unit of text handed over by a container reader.
//
// Flat sources produce one segment per line or paragraph. Pre-gridded sources
// set Cells, and consecutive rows with the same Table value belong to the
// same grid. Page is 1-based for paginated sources and 0 otherwise.
type RawSegment struct {
	Text      string
	Page      int
	Index     int
	Style     string
	Cells     []string
	Table     int
	PageBreak bool
	Render    *RenderState

	// Bold is set when every non-blank run of a paragraph is bold.
	Bold bool

	// FontSize is the largest run font size in points, or 0 when unknown.
	FontSize float64

	// Markdown is Text with its inline emphasis rendered as Markdown. It is
	// empty when the source carried no run formatting.
	Markdown string
}

// IsGridRow reports whether the segment is a pre-delimited table row.
func (s RawSegment) IsGridRow() bool {
	return s.Cells != nil
}
