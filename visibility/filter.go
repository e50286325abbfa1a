package visibility

import (
	"strings"

	"github.com/tsawler/structura/model"
)

// Annotation flag bits (PDF 32000-1 table 165), 1-based bit positions.
const (
	AnnotationFlagInvisible = 1 << 0
	AnnotationFlagHidden    = 1 << 1
	AnnotationFlagPrint     = 1 << 2
	AnnotationFlagNoZoom    = 1 << 3
	AnnotationFlagNoRotate  = 1 << 4
	AnnotationFlagNoView    = 1 << 5
)

// Config holds configuration for visibility filtering
type Config struct {
	// IncludeHidden disables all filtering.
	// Default: false
	IncludeHidden bool

	// MinFragmentAlpha is the minimum stroke and fill alpha for a fragment.
	// Default: 0.3
	MinFragmentAlpha float64

	// MinXObjectAlpha is the minimum ExtGState CA/ca inside a form XObject.
	// Default: 0.5
	MinXObjectAlpha float64

	// WhiteThreshold is the component value above which a fill color is
	// treated as white on a white page.
	// Default: 0.95
	WhiteThreshold float64

	// WatermarkNames are case-insensitive substrings that mark a form
	// XObject as a watermark or background layer.
	// Default: "watermark", "wm", "background"
	WatermarkNames []string
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		IncludeHidden:    false,
		MinFragmentAlpha: 0.3,
		MinXObjectAlpha:  0.5,
		WhiteThreshold:   0.95,
		WatermarkNames:   []string{"watermark", "wm", "background"},
	}
}

// Reason explains why something was dropped.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonInvisibleMode
	ReasonLowAlpha
	ReasonWhiteFill
	ReasonHiddenAnnotation
	ReasonWatermarkAnnotation
	ReasonTransparentXObject
	ReasonWatermarkXObject
)

// String returns a string representation of the reason
func (r Reason) String() string {
	switch r {
	case ReasonInvisibleMode:
		return "invisible rendering mode"
	case ReasonLowAlpha:
		return "low alpha"
	case ReasonWhiteFill:
		return "near-white fill"
	case ReasonHiddenAnnotation:
		return "hidden annotation"
	case ReasonWatermarkAnnotation:
		return "watermark annotation"
	case ReasonTransparentXObject:
		return "transparent form"
	case ReasonWatermarkXObject:
		return "watermark form"
	default:
		return "visible"
	}
}

// Stats counts what a filter run removed.
type Stats struct {
	Kept    int
	Dropped map[Reason]int
}

// Total returns the number of dropped items.
func (s Stats) Total() int {
	n := 0
	for _, c := range s.Dropped {
		n += c
	}
	return n
}

// Filter applies visibility rules. It holds no mutable state and is safe
// for concurrent use.
type Filter struct {
	config Config
}

// NewFilter creates a filter with default configuration
func NewFilter() *Filter {
	return &Filter{config: DefaultConfig()}
}

// NewFilterWithConfig creates a filter with custom configuration
func NewFilterWithConfig(config Config) *Filter {
	def := DefaultConfig()
	if config.MinFragmentAlpha <= 0 {
		config.MinFragmentAlpha = def.MinFragmentAlpha
	}
	if config.MinXObjectAlpha <= 0 {
		config.MinXObjectAlpha = def.MinXObjectAlpha
	}
	if config.WhiteThreshold <= 0 {
		config.WhiteThreshold = def.WhiteThreshold
	}
	if config.WatermarkNames == nil {
		config.WatermarkNames = def.WatermarkNames
	}
	return &Filter{config: config}
}

// Config returns the filter configuration.
func (f *Filter) Config() Config {
	return f.config
}

// Visible reports whether text painted with rs can be seen.
func (f *Filter) Visible(rs model.RenderState) bool {
	return f.Fragment(rs) == ReasonNone
}

// Fragment decides whether text painted with rs can be seen.
func (f *Filter) Fragment(rs model.RenderState) Reason {
	if f.config.IncludeHidden {
		return ReasonNone
	}
	// Mode 7 only adds the glyphs to the clipping path and paints nothing.
	if rs.RenderingMode == model.RenderInvisible || rs.RenderingMode == model.RenderClip {
		return ReasonInvisibleMode
	}
	if rs.StrokeAlpha < f.config.MinFragmentAlpha || rs.FillAlpha < f.config.MinFragmentAlpha {
		return ReasonLowAlpha
	}
	if f.isWhite(rs.FillColor) {
		return ReasonWhiteFill
	}
	return ReasonNone
}

// Annotation decides whether an annotation with the given /F flags and
// appearance state name (/AS) should contribute text.
func (f *Filter) Annotation(flags int, appearanceState string) Reason {
	if f.config.IncludeHidden {
		return ReasonNone
	}
	if flags&AnnotationFlagHidden != 0 || flags&AnnotationFlagNoView != 0 {
		return ReasonHiddenAnnotation
	}
	if strings.Contains(strings.ToLower(appearanceState), "watermark") {
		return ReasonWatermarkAnnotation
	}
	return ReasonNone
}

// XObject decides whether a form XObject should be painted. alphas are the
// CA and ca constants found in the form's ExtGState resources.
func (f *Filter) XObject(name string, alphas []float64) Reason {
	if f.config.IncludeHidden {
		return ReasonNone
	}
	for _, a := range alphas {
		if a < f.config.MinXObjectAlpha {
			return ReasonTransparentXObject
		}
	}
	lower := strings.ToLower(name)
	for _, marker := range f.config.WatermarkNames {
		if marker != "" && strings.Contains(lower, strings.ToLower(marker)) {
			return ReasonWatermarkXObject
		}
	}
	return ReasonNone
}

// Segments returns the segments whose render state passes Fragment, in their
// original order. Segments without render state always pass.
func (f *Filter) Segments(segments []model.RawSegment) []model.RawSegment {
	kept, _ := f.SegmentsWithStats(segments)
	return kept
}

// SegmentsWithStats is Segments plus a count of what was dropped and why.
func (f *Filter) SegmentsWithStats(segments []model.RawSegment) ([]model.RawSegment, Stats) {
	stats := Stats{Dropped: make(map[Reason]int)}
	if f.config.IncludeHidden {
		stats.Kept = len(segments)
		return segments, stats
	}

	kept := make([]model.RawSegment, 0, len(segments))
	for _, seg := range segments {
		if seg.Render != nil {
			if reason := f.Fragment(*seg.Render); reason != ReasonNone {
				stats.Dropped[reason]++
				continue
			}
		}
		kept = append(kept, seg)
	}
	stats.Kept = len(kept)
	return kept, stats
}

func (f *Filter) isWhite(c [3]float64) bool {
	t := f.config.WhiteThreshold
	return c[0] > t && c[1] > t && c[2] > t
}
