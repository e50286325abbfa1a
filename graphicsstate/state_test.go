package graphicsstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/structura/model"
)

func TestNewGraphicsState(t *testing.T) {
	gs := NewGraphicsState()

	assert.True(t, gs.CTM.IsIdentity())
	assert.Equal(t, 1.0, gs.StrokeAlpha)
	assert.Equal(t, 1.0, gs.FillAlpha)
	assert.Equal(t, [3]float64{0, 0, 0}, gs.FillColor)
	assert.Equal(t, 12.0, gs.Text.FontSize)
	assert.Equal(t, model.RenderFill, gs.Text.RenderingMode)
}

func TestSaveRestore(t *testing.T) {
	gs := NewGraphicsState()
	gs.SetFillColorRGB(0.5, 0.5, 0.5)
	gs.SetFont("F1", 14)

	gs.Save()
	require.Equal(t, 1, gs.Depth())

	gs.SetFillColorRGB(1, 1, 1)
	gs.SetFillAlpha(0.1)
	gs.SetRenderingMode(model.RenderInvisible)
	gs.SetFont("F2", 18)

	require.NoError(t, gs.Restore())
	assert.Equal(t, 0, gs.Depth())
	assert.Equal(t, [3]float64{0.5, 0.5, 0.5}, gs.FillColor)
	assert.Equal(t, 1.0, gs.FillAlpha)
	assert.Equal(t, model.RenderFill, gs.Text.RenderingMode)
	assert.Equal(t, "F1", gs.Text.FontName)
}

func TestRestoreUnderflow(t *testing.T) {
	gs := NewGraphicsState()
	assert.Error(t, gs.Restore())
}

func TestColorOperators(t *testing.T) {
	tests := []struct {
		name string
		set  func(gs *GraphicsState)
		want [3]float64
	}{
		{"rgb", func(gs *GraphicsState) { gs.SetFillColorRGB(0.2, 0.4, 0.6) }, [3]float64{0.2, 0.4, 0.6}},
		{"gray", func(gs *GraphicsState) { gs.SetFillGray(1) }, [3]float64{1, 1, 1}},
		{"cmyk white", func(gs *GraphicsState) { gs.SetFillCMYK(0, 0, 0, 0) }, [3]float64{1, 1, 1}},
		{"cmyk black", func(gs *GraphicsState) { gs.SetFillCMYK(0, 0, 0, 1) }, [3]float64{0, 0, 0}},
		{"components gray", func(gs *GraphicsState) { gs.SetFillComponents([]float64{0.5}) }, [3]float64{0.5, 0.5, 0.5}},
		{"components rgb", func(gs *GraphicsState) { gs.SetFillComponents([]float64{1, 0, 0}) }, [3]float64{1, 0, 0}},
		{"clamped", func(gs *GraphicsState) { gs.SetFillColorRGB(2, -1, 0.5) }, [3]float64{1, 0, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGraphicsState()
			tt.set(gs)
			assert.InDeltaSlice(t, tt.want[:], gs.FillColor[:], 1e-9)
		})
	}
}

func TestTextPositioning(t *testing.T) {
	gs := NewGraphicsState()
	gs.BeginText()
	gs.SetTextMatrix(Matrix{1, 0, 0, 1, 72, 700})

	x, y := gs.TextPosition()
	assert.Equal(t, 72.0, x)
	assert.Equal(t, 700.0, y)

	gs.TranslateTextSetLeading(0, -14)
	assert.Equal(t, 14.0, gs.Text.Leading)
	_, y = gs.TextPosition()
	assert.Equal(t, 686.0, y)

	gs.NextLine()
	_, y = gs.TextPosition()
	assert.Equal(t, 672.0, y)

	gs.Transform(Translate(0, 100))
	_, y = gs.TextPosition()
	assert.Equal(t, 772.0, y)
}

func TestSnapshot(t *testing.T) {
	gs := NewGraphicsState()
	gs.SetFillAlpha(0.25)
	gs.SetStrokeAlpha(0.75)
	gs.SetRenderingMode(model.RenderInvisible)
	gs.SetFillGray(0.96)

	rs := gs.Snapshot()

	assert.Equal(t, model.RenderInvisible, rs.RenderingMode)
	assert.Equal(t, 0.25, rs.FillAlpha)
	assert.Equal(t, 0.75, rs.StrokeAlpha)
	assert.Equal(t, [3]float64{0.96, 0.96, 0.96}, rs.FillColor)
}

func TestTextAdvance(t *testing.T) {
	gs := NewGraphicsState()
	gs.BeginText()
	gs.SetFont("F1", 10)
	gs.SetTextMatrix(Matrix{2, 0, 0, 2, 100, 500})

	assert.Equal(t, 20.0, gs.EffectiveFontSize())

	tx := gs.GlyphAdvance(500, false)
	assert.Equal(t, 5.0, tx)

	gs.SetCharSpacing(1)
	gs.SetWordSpacing(2)
	gs.SetHorizontalScaling(50)
	assert.Equal(t, 4.0, gs.GlyphAdvance(500, true))

	gs.AdvanceText(tx)
	x, y := gs.TextPosition()
	assert.Equal(t, 110.0, x)
	assert.Equal(t, 500.0, y)
}

func TestTextStateIsSaved(t *testing.T) {
	gs := NewGraphicsState()
	gs.Save()
	gs.SetRenderingMode(model.RenderInvisible)
	gs.SetHorizontalScaling(200)
	require.NoError(t, gs.Restore())

	assert.Equal(t, model.RenderFill, gs.Text.RenderingMode)
	assert.Equal(t, 1.0, gs.Text.HorizontalScaling)
}
