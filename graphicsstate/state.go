package graphicsstate

import (
	"fmt"
	"math"

	"github.com/tsawler/structura/model"
)

// GraphicsState is the subset of the PDF graphics state that decides whether
// text is visible: colors, constant alpha, text rendering mode and text
// position.
type GraphicsState struct {
	// Current Transformation Matrix
	CTM Matrix

	// Text state
	Text TextState

	// Graphics state stack (for q/Q operators)
	stack []*GraphicsState

	// Colors as RGB in the range 0-1
	StrokeColor [3]float64
	FillColor   [3]float64

	// Constant alpha from ExtGState CA (stroke) and ca (fill)
	StrokeAlpha float64
	FillAlpha   float64
}

// TextState represents text-specific state
type TextState struct {
	FontName string
	FontSize float64

	// Leading (line spacing)
	Leading float64

	// Spacing in unscaled text space units (Tc, Tw) and horizontal
	// scaling as a fraction (Tz / 100)
	CharSpacing       float64
	WordSpacing       float64
	HorizontalScaling float64

	// Text rendering mode (Tr), 3 means neither fill nor stroke
	RenderingMode int

	// Text matrices
	TextMatrix     Matrix
	TextLineMatrix Matrix
}

// NewGraphicsState creates a new graphics state with default values
func NewGraphicsState() *GraphicsState {
	return &GraphicsState{
		CTM:         Identity(),
		StrokeColor: [3]float64{0, 0, 0}, // Black
		FillColor:   [3]float64{0, 0, 0}, // Black
		StrokeAlpha: 1,
		FillAlpha:   1,
		Text: TextState{
			FontSize:          12.0,
			HorizontalScaling: 1,
			TextMatrix:        Identity(),
			TextLineMatrix:    Identity(),
		},
	}
}

// Clone creates a copy of the graphics state without its stack.
func (gs *GraphicsState) Clone() *GraphicsState {
	return &GraphicsState{
		CTM:         gs.CTM,
		Text:        gs.Text,
		StrokeColor: gs.StrokeColor,
		FillColor:   gs.FillColor,
		StrokeAlpha: gs.StrokeAlpha,
		FillAlpha:   gs.FillAlpha,
	}
}

// Save pushes the current graphics state onto the stack (q operator)
func (gs *GraphicsState) Save() {
	gs.stack = append(gs.stack, gs.Clone())
}

// Restore pops a graphics state from the stack (Q operator)
func (gs *GraphicsState) Restore() error {
	if len(gs.stack) == 0 {
		return fmt.Errorf("graphics state stack underflow")
	}

	saved := gs.stack[len(gs.stack)-1]
	gs.stack = gs.stack[:len(gs.stack)-1]

	gs.CTM = saved.CTM
	gs.Text = saved.Text
	gs.StrokeColor = saved.StrokeColor
	gs.FillColor = saved.FillColor
	gs.StrokeAlpha = saved.StrokeAlpha
	gs.FillAlpha = saved.FillAlpha
	return nil
}

// Depth returns the number of saved states.
func (gs *GraphicsState) Depth() int {
	return len(gs.stack)
}

// Transform applies a transformation matrix to CTM (cm operator)
func (gs *GraphicsState) Transform(m Matrix) {
	gs.CTM = m.Multiply(gs.CTM)
}

// SetStrokeColorRGB sets the stroke color (RG operator)
func (gs *GraphicsState) SetStrokeColorRGB(r, g, b float64) {
	gs.StrokeColor = [3]float64{clamp01(r), clamp01(g), clamp01(b)}
}

// SetFillColorRGB sets the fill color (rg operator)
func (gs *GraphicsState) SetFillColorRGB(r, g, b float64) {
	gs.FillColor = [3]float64{clamp01(r), clamp01(g), clamp01(b)}
}

// SetStrokeGray sets a gray stroke color (G operator)
func (gs *GraphicsState) SetStrokeGray(gray float64) {
	gs.SetStrokeColorRGB(gray, gray, gray)
}

// SetFillGray sets a gray fill color (g operator)
func (gs *GraphicsState) SetFillGray(gray float64) {
	gs.SetFillColorRGB(gray, gray, gray)
}

// SetStrokeCMYK sets the stroke color from CMYK components (K operator)
func (gs *GraphicsState) SetStrokeCMYK(c, m, y, k float64) {
	gs.SetStrokeColorRGB(cmykToRGB(c, m, y, k))
}

// SetFillCMYK sets the fill color from CMYK components (k operator)
func (gs *GraphicsState) SetFillCMYK(c, m, y, k float64) {
	gs.SetFillColorRGB(cmykToRGB(c, m, y, k))
}

// SetFillComponents sets the fill color from an sc/scn operand list,
// interpreting 1, 3 or 4 components as gray, RGB or CMYK.
func (gs *GraphicsState) SetFillComponents(comps []float64) {
	switch len(comps) {
	case 1:
		gs.SetFillGray(comps[0])
	case 3:
		gs.SetFillColorRGB(comps[0], comps[1], comps[2])
	case 4:
		gs.SetFillCMYK(comps[0], comps[1], comps[2], comps[3])
	}
}

// SetStrokeComponents is SetFillComponents for the stroke color (SC/SCN).
func (gs *GraphicsState) SetStrokeComponents(comps []float64) {
	switch len(comps) {
	case 1:
		gs.SetStrokeGray(comps[0])
	case 3:
		gs.SetStrokeColorRGB(comps[0], comps[1], comps[2])
	case 4:
		gs.SetStrokeCMYK(comps[0], comps[1], comps[2], comps[3])
	}
}

// SetStrokeAlpha sets the stroking constant alpha (ExtGState CA)
func (gs *GraphicsState) SetStrokeAlpha(alpha float64) {
	gs.StrokeAlpha = clamp01(alpha)
}

// SetFillAlpha sets the non-stroking constant alpha (ExtGState ca)
func (gs *GraphicsState) SetFillAlpha(alpha float64) {
	gs.FillAlpha = clamp01(alpha)
}

// SetFont sets the current font (Tf operator)
func (gs *GraphicsState) SetFont(name string, size float64) {
	gs.Text.FontName = name
	gs.Text.FontSize = size
}

// SetLeading sets text leading (TL operator)
func (gs *GraphicsState) SetLeading(leading float64) {
	gs.Text.Leading = leading
}

// SetCharSpacing sets character spacing (Tc operator)
func (gs *GraphicsState) SetCharSpacing(v float64) {
	gs.Text.CharSpacing = v
}

// SetWordSpacing sets word spacing (Tw operator)
func (gs *GraphicsState) SetWordSpacing(v float64) {
	gs.Text.WordSpacing = v
}

// SetHorizontalScaling sets horizontal scaling from a percentage (Tz operator)
func (gs *GraphicsState) SetHorizontalScaling(percent float64) {
	gs.Text.HorizontalScaling = percent / 100
}

// SetRenderingMode sets text rendering mode (Tr operator)
func (gs *GraphicsState) SetRenderingMode(mode int) {
	gs.Text.RenderingMode = mode
}

// BeginText initializes text state (BT operator)
func (gs *GraphicsState) BeginText() {
	gs.Text.TextMatrix = Identity()
	gs.Text.TextLineMatrix = Identity()
}

// SetTextMatrix sets the text matrix (Tm operator)
func (gs *GraphicsState) SetTextMatrix(m Matrix) {
	gs.Text.TextMatrix = m
	gs.Text.TextLineMatrix = m
}

// TranslateText translates the text matrix (Td operator)
func (gs *GraphicsState) TranslateText(tx, ty float64) {
	gs.Text.TextLineMatrix = Translate(tx, ty).Multiply(gs.Text.TextLineMatrix)
	gs.Text.TextMatrix = gs.Text.TextLineMatrix
}

// TranslateTextSetLeading translates text and sets leading (TD operator)
func (gs *GraphicsState) TranslateTextSetLeading(tx, ty float64) {
	gs.SetLeading(-ty)
	gs.TranslateText(tx, ty)
}

// NextLine moves to next line (T* operator)
func (gs *GraphicsState) NextLine() {
	gs.TranslateText(0, -gs.Text.Leading)
}

// AdvanceText moves the text matrix along the baseline by tx unscaled
// text space units, as happens after each glyph is shown.
func (gs *GraphicsState) AdvanceText(tx float64) {
	gs.Text.TextMatrix = Translate(tx, 0).Multiply(gs.Text.TextMatrix)
}

// GlyphAdvance returns the horizontal displacement for a glyph of width w
// (in thousandths of an em), applying font size, spacing and scaling.
func (gs *GraphicsState) GlyphAdvance(w float64, space bool) float64 {
	tx := w/1000*gs.Text.FontSize + gs.Text.CharSpacing
	if space {
		tx += gs.Text.WordSpacing
	}
	return tx * gs.Text.HorizontalScaling
}

// EffectiveFontSize returns the font size after the text matrix and CTM
// vertical scaling.
func (gs *GraphicsState) EffectiveFontSize() float64 {
	tm := gs.Text.TextMatrix.Multiply(gs.CTM)
	scale := math.Hypot(tm[2], tm[3])
	if scale == 0 {
		return gs.Text.FontSize
	}
	return math.Abs(gs.Text.FontSize * scale)
}

// TextPosition returns the current text origin in device space.
func (gs *GraphicsState) TextPosition() (x, y float64) {
	tm := gs.Text.TextMatrix
	return gs.CTM.Apply(tm[4], tm[5])
}

// Snapshot captures the rendering information for text shown now.
func (gs *GraphicsState) Snapshot() model.RenderState {
	return model.RenderState{
		RenderingMode: gs.Text.RenderingMode,
		StrokeAlpha:   gs.StrokeAlpha,
		FillAlpha:     gs.FillAlpha,
		FillColor:     gs.FillColor,
		StrokeColor:   gs.StrokeColor,
	}
}

func cmykToRGB(c, m, y, k float64) (float64, float64, float64) {
	return (1 - c) * (1 - k), (1 - m) * (1 - k), (1 - y) * (1 - k)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
