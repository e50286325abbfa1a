package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tsawler/structura/model"
)

func state(mode int, stroke, fill float64, color [3]float64) model.RenderState {
	return model.RenderState{RenderingMode: mode, StrokeAlpha: stroke, FillAlpha: fill, FillColor: color}
}

func TestFragment(t *testing.T) {
	f := NewFilter()

	tests := []struct {
		name string
		rs   model.RenderState
		want Reason
	}{
		{"opaque black", model.DefaultRenderState(), ReasonNone},
		{"invisible mode", state(model.RenderInvisible, 1, 1, [3]float64{}), ReasonInvisibleMode},
		{"clip only mode", state(model.RenderClip, 1, 1, [3]float64{}), ReasonInvisibleMode},
		{"fill and clip mode visible", state(model.RenderFillClip, 1, 1, [3]float64{}), ReasonNone},
		{"stroke mode visible", state(model.RenderStroke, 1, 1, [3]float64{}), ReasonNone},
		{"low fill alpha", state(model.RenderFill, 1, 0.2, [3]float64{}), ReasonLowAlpha},
		{"low stroke alpha", state(model.RenderFill, 0.1, 1, [3]float64{}), ReasonLowAlpha},
		{"alpha at threshold", state(model.RenderFill, 0.3, 0.3, [3]float64{}), ReasonNone},
		{"white fill", state(model.RenderFill, 1, 1, [3]float64{1, 1, 1}), ReasonWhiteFill},
		{"light gray fill", state(model.RenderFill, 1, 1, [3]float64{0.96, 0.97, 0.99}), ReasonWhiteFill},
		{"mid gray fill", state(model.RenderFill, 1, 1, [3]float64{0.9, 0.9, 0.9}), ReasonNone},
		{"yellow fill", state(model.RenderFill, 1, 1, [3]float64{1, 1, 0}), ReasonNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Fragment(tt.rs))
			assert.Equal(t, tt.want == ReasonNone, f.Visible(tt.rs))
		})
	}
}

func TestAnnotation(t *testing.T) {
	f := NewFilter()

	tests := []struct {
		name  string
		flags int
		as    string
		want  Reason
	}{
		{"print only", AnnotationFlagPrint, "", ReasonNone},
		{"hidden", AnnotationFlagHidden, "", ReasonHiddenAnnotation},
		{"no view", AnnotationFlagNoView | AnnotationFlagPrint, "", ReasonHiddenAnnotation},
		{"watermark state", 0, "DraftWatermark", ReasonWatermarkAnnotation},
		{"ordinary state", 0, "On", ReasonNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Annotation(tt.flags, tt.as))
		})
	}
}

func TestXObject(t *testing.T) {
	f := NewFilter()

	tests := []struct {
		name   string
		xname  string
		alphas []float64
		want   Reason
	}{
		{"plain form", "Fm1", []float64{1, 1}, ReasonNone},
		{"no ext gstate", "Fm2", nil, ReasonNone},
		{"transparent", "Fm3", []float64{1, 0.4}, ReasonTransparentXObject},
		{"alpha at threshold", "Fm4", []float64{0.5}, ReasonNone},
		{"watermark name", "X_Watermark", nil, ReasonWatermarkXObject},
		{"wm prefix", "WM0", nil, ReasonWatermarkXObject},
		{"background", "PageBackground", []float64{1}, ReasonWatermarkXObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.XObject(tt.xname, tt.alphas))
		})
	}
}

func TestIncludeHiddenDisablesRules(t *testing.T) {
	f := NewFilterWithConfig(Config{IncludeHidden: true})

	assert.Equal(t, ReasonNone, f.Fragment(state(model.RenderInvisible, 0, 0, [3]float64{1, 1, 1})))
	assert.Equal(t, ReasonNone, f.Annotation(AnnotationFlagHidden, "watermark"))
	assert.Equal(t, ReasonNone, f.XObject("watermark", []float64{0}))

	hidden := state(model.RenderInvisible, 1, 1, [3]float64{})
	segs := []model.RawSegment{{Text: "a", Render: &hidden}}
	assert.Len(t, f.Segments(segs), 1)
}

func TestSegments(t *testing.T) {
	f := NewFilter()
	invisible := state(model.RenderInvisible, 1, 1, [3]float64{})
	faint := state(model.RenderFill, 0.1, 0.1, [3]float64{})
	normal := model.DefaultRenderState()

	segs := []model.RawSegment{
		{Text: "Title", Index: 0, Render: &normal},
		{Text: "CONFIDENTIAL", Index: 1, Render: &faint},
		{Text: "hidden layer", Index: 2, Render: &invisible},
		{Text: "no render info", Index: 3},
		{Text: "Body", Index: 4, Render: &normal},
	}

	kept, stats := f.SegmentsWithStats(segs)

	var texts []string
	for _, s := range kept {
		texts = append(texts, s.Text)
	}
	assert.Equal(t, []string{"Title", "no render info", "Body"}, texts)
	assert.Equal(t, 3, stats.Kept)
	assert.Equal(t, 2, stats.Total())
	assert.Equal(t, 1, stats.Dropped[ReasonLowAlpha])
	assert.Equal(t, 1, stats.Dropped[ReasonInvisibleMode])
}

func TestNewFilterWithConfigFillsDefaults(t *testing.T) {
	f := NewFilterWithConfig(Config{WhiteThreshold: 0.8})
	cfg := f.Config()

	assert.Equal(t, 0.3, cfg.MinFragmentAlpha)
	assert.Equal(t, 0.5, cfg.MinXObjectAlpha)
	assert.Equal(t, 0.8, cfg.WhiteThreshold)
	assert.Equal(t, []string{"watermark", "wm", "background"}, cfg.WatermarkNames)
	assert.Equal(t, ReasonWhiteFill, f.Fragment(state(model.RenderFill, 1, 1, [3]float64{0.85, 0.85, 0.85})))
}

func TestReasonString(t *testing.T) {
	assert.Equal(t, "visible", ReasonNone.String())
	assert.Equal(t, "low alpha", ReasonLowAlpha.String())
	assert.Equal(t, "watermark form", ReasonWatermarkXObject.String())
}
