// Package graphicsstate tracks the parts of the PDF graphics state that decide
// whether text is visible when it is painted.
//
// The state covers colors, constant alpha, the text rendering mode and the
// text position. The state stack is used during content stream
// interpretation:
//
//	gs := graphicsstate.NewGraphicsState()
//	gs.Save()                  // q
//	gs.SetFillAlpha(0.2)       // gs with /ca 0.2
//	gs.SetRenderingMode(3)     // 3 Tr
//	rs := gs.Snapshot()        // handed to the visibility filter
//	gs.Restore()               // Q
//
// Snapshot produces a model.RenderState that travels with each extracted
// text fragment.
package graphicsstate
