package reader

import (
	"github.com/ledongthuc/pdf"

	"github.com/tsawler/structura/graphicsstate"
	"github.com/tsawler/structura/model"
	"github.com/tsawler/structura/visibility"
)

// maxFormDepth bounds nested form XObjects, which may refer to themselves.
const maxFormDepth = 12

// fragment is one shown string with its device-space placement.
type fragment struct {
	text   string
	x, y   float64
	endX   float64
	size   float64
	render model.RenderState
}

// interpreter walks content streams keeping the graphics state needed to
// place text and decide its visibility.
type interpreter struct {
	filter  *visibility.Filter
	gs      *graphicsstate.GraphicsState
	font    pdf.Font
	enc     pdf.TextEncoding
	frags   []fragment
	dropped map[visibility.Reason]int
	depth   int
}

func newInterpreter(filter *visibility.Filter) *interpreter {
	return &interpreter{
		filter:  filter,
		gs:      graphicsstate.NewGraphicsState(),
		dropped: make(map[visibility.Reason]int),
	}
}

// run interprets a content stream, or each stream of a Contents array.
func (in *interpreter) run(content, resources pdf.Value) {
	switch content.Kind() {
	case pdf.Array:
		for i := 0; i < content.Len(); i++ {
			in.run(content.Index(i), resources)
		}
	case pdf.Stream:
		pdf.Interpret(content, func(stk *pdf.Stack, op string) {
			args := make([]pdf.Value, stk.Len())
			for i := len(args) - 1; i >= 0; i-- {
				args[i] = stk.Pop()
			}
			in.operator(op, args, resources)
		})
	}
}

func (in *interpreter) operator(op string, args []pdf.Value, res pdf.Value) {
	gs := in.gs
	switch op {
	case "q":
		gs.Save()
	case "Q":
		_ = gs.Restore()
	case "cm":
		if m, ok := matrix(args); ok {
			gs.Transform(m)
		}
	case "gs":
		if len(args) == 1 {
			in.extGState(res.Key("ExtGState").Key(args[0].Name()))
		}

	// Colour
	case "g":
		if nums := numbers(args); len(nums) == 1 {
			gs.SetFillGray(nums[0])
		}
	case "G":
		if nums := numbers(args); len(nums) == 1 {
			gs.SetStrokeGray(nums[0])
		}
	case "rg":
		if nums := numbers(args); len(nums) == 3 {
			gs.SetFillColorRGB(nums[0], nums[1], nums[2])
		}
	case "RG":
		if nums := numbers(args); len(nums) == 3 {
			gs.SetStrokeColorRGB(nums[0], nums[1], nums[2])
		}
	case "k":
		if nums := numbers(args); len(nums) == 4 {
			gs.SetFillCMYK(nums[0], nums[1], nums[2], nums[3])
		}
	case "K":
		if nums := numbers(args); len(nums) == 4 {
			gs.SetStrokeCMYK(nums[0], nums[1], nums[2], nums[3])
		}
	case "cs":
		gs.SetFillGray(0)
	case "CS":
		gs.SetStrokeGray(0)
	case "sc", "scn":
		gs.SetFillComponents(numbers(args))
	case "SC", "SCN":
		gs.SetStrokeComponents(numbers(args))

	// Text state
	case "BT":
		gs.BeginText()
	case "Tf":
		if len(args) == 2 {
			name := args[0].Name()
			gs.SetFont(name, args[1].Float64())
			in.font = pdf.Font{V: res.Key("Font").Key(name)}
			in.enc = in.font.Encoder()
		}
	case "Tc":
		if len(args) == 1 {
			gs.SetCharSpacing(args[0].Float64())
		}
	case "Tw":
		if len(args) == 1 {
			gs.SetWordSpacing(args[0].Float64())
		}
	case "Tz":
		if len(args) == 1 {
			gs.SetHorizontalScaling(args[0].Float64())
		}
	case "TL":
		if len(args) == 1 {
			gs.SetLeading(args[0].Float64())
		}
	case "Tr":
		if len(args) == 1 {
			gs.SetRenderingMode(int(args[0].Int64()))
		}

	// Text positioning
	case "Td":
		if len(args) == 2 {
			gs.TranslateText(args[0].Float64(), args[1].Float64())
		}
	case "TD":
		if len(args) == 2 {
			gs.TranslateTextSetLeading(args[0].Float64(), args[1].Float64())
		}
	case "Tm":
		if m, ok := matrix(args); ok {
			gs.SetTextMatrix(m)
		}
	case "T*":
		gs.NextLine()

	// Text showing
	case "Tj":
		if len(args) == 1 {
			in.show(args[0].RawString())
		}
	case "'":
		gs.NextLine()
		if len(args) == 1 {
			in.show(args[0].RawString())
		}
	case "\"":
		if len(args) == 3 {
			gs.SetWordSpacing(args[0].Float64())
			gs.SetCharSpacing(args[1].Float64())
			gs.NextLine()
			in.show(args[2].RawString())
		}
	case "TJ":
		if len(args) == 1 {
			in.showArray(args[0])
		}

	case "Do":
		if len(args) == 1 {
			name := args[0].Name()
			in.form(name, res.Key("XObject").Key(name), res)
		}
	}
}

// extGState applies the stroke and fill alpha constants of a named
// graphics state parameter dictionary.
func (in *interpreter) extGState(d pdf.Value) {
	if d.IsNull() {
		return
	}
	if ca := d.Key("CA"); isNumber(ca) {
		in.gs.SetStrokeAlpha(ca.Float64())
	}
	if ca := d.Key("ca"); isNumber(ca) {
		in.gs.SetFillAlpha(ca.Float64())
	}
}

// show records a string as a fragment and advances the text position.
func (in *interpreter) show(raw string) {
	if raw == "" {
		return
	}
	text := raw
	if in.enc != nil {
		text = in.enc.Decode(raw)
	}

	x, y := in.gs.TextPosition()
	size := in.gs.EffectiveFontSize()
	render := in.gs.Snapshot()
	in.gs.AdvanceText(in.width(raw))
	endX, _ := in.gs.TextPosition()

	in.frags = append(in.frags, fragment{text: text, x: x, y: y, endX: endX, size: size, render: render})
}

// showArray handles TJ, where numbers move the pen back by thousandths of
// an em.
func (in *interpreter) showArray(arr pdf.Value) {
	if arr.Kind() != pdf.Array {
		return
	}
	for i := 0; i < arr.Len(); i++ {
		v := arr.Index(i)
		switch v.Kind() {
		case pdf.String:
			in.show(v.RawString())
		case pdf.Integer, pdf.Real:
			t := in.gs.Text
			in.gs.AdvanceText(-v.Float64() / 1000 * t.FontSize * t.HorizontalScaling)
		}
	}
}

// width returns the advance of raw in unscaled text space units. Two-byte
// composite fonts are measured at one em per code; simple fonts use the
// Widths array, falling back to half an em.
func (in *interpreter) width(raw string) float64 {
	if in.font.V.Key("Subtype").Name() == "Type0" {
		var tx float64
		for i := 0; i+1 < len(raw); i += 2 {
			tx += in.gs.GlyphAdvance(1000, false)
		}
		return tx
	}

	var tx float64
	for i := 0; i < len(raw); i++ {
		w := 0.0
		if !in.font.V.IsNull() {
			w = in.font.Width(int(raw[i]))
		}
		if w == 0 {
			w = 500
		}
		tx += in.gs.GlyphAdvance(w, raw[i] == ' ')
	}
	return tx
}

// form interprets a form XObject in place unless the filter rejects it.
func (in *interpreter) form(name string, xobj, parent pdf.Value) {
	if xobj.Kind() != pdf.Stream || xobj.Key("Subtype").Name() != "Form" {
		return
	}
	res := xobj.Key("Resources")
	if reason := in.filter.XObject(name, alphas(res)); reason != visibility.ReasonNone {
		in.dropped[reason]++
		return
	}
	if in.depth >= maxFormDepth {
		return
	}
	if res.IsNull() {
		res = parent
	}

	in.depth++
	in.gs.Save()
	if m, ok := matrix(arrayValues(xobj.Key("Matrix"))); ok {
		in.gs.Transform(m)
	}
	in.run(xobj, res)
	_ = in.gs.Restore()
	in.depth--
}

// annotations interprets the normal appearance of each annotation the
// filter accepts, placed at the annotation's rectangle.
func (in *interpreter) annotations(annots pdf.Value) {
	if annots.Kind() != pdf.Array {
		return
	}
	for i := 0; i < annots.Len(); i++ {
		a := annots.Index(i)
		as := a.Key("AS").Name()
		reason := in.filter.Annotation(int(a.Key("F").Int64()), as)
		if reason == visibility.ReasonNone {
			reason = in.filter.Annotation(0, a.Key("Subtype").Name())
		}
		if reason != visibility.ReasonNone {
			in.dropped[reason]++
			continue
		}

		ap := a.Key("AP").Key("N")
		if ap.Kind() == pdf.Dict && as != "" {
			ap = ap.Key(as)
		}
		if ap.Kind() != pdf.Stream {
			continue
		}

		rect := numbers(arrayValues(a.Key("Rect")))
		in.gs = graphicsstate.NewGraphicsState()
		if len(rect) == 4 {
			var bx, by float64
			if bbox := numbers(arrayValues(ap.Key("BBox"))); len(bbox) == 4 {
				bx, by = bbox[0], bbox[1]
			}
			in.gs.Transform(graphicsstate.Translate(rect[0]-bx, rect[1]-by))
		}
		if m, ok := matrix(arrayValues(ap.Key("Matrix"))); ok {
			in.gs.Transform(m)
		}
		in.run(ap, ap.Key("Resources"))
	}
}

// alphas collects the CA and ca constants of every ExtGState in res.
func alphas(res pdf.Value) []float64 {
	egs := res.Key("ExtGState")
	if egs.Kind() != pdf.Dict {
		return nil
	}
	var out []float64
	for _, key := range egs.Keys() {
		d := egs.Key(key)
		for _, k := range []string{"CA", "ca"} {
			if v := d.Key(k); isNumber(v) {
				out = append(out, v.Float64())
			}
		}
	}
	return out
}

func isNumber(v pdf.Value) bool {
	return v.Kind() == pdf.Integer || v.Kind() == pdf.Real
}

// numbers returns the numeric operands, ignoring names such as pattern
// references.
func numbers(args []pdf.Value) []float64 {
	out := make([]float64, 0, len(args))
	for _, a := range args {
		if isNumber(a) {
			out = append(out, a.Float64())
		}
	}
	return out
}

func arrayValues(v pdf.Value) []pdf.Value {
	if v.Kind() != pdf.Array {
		return nil
	}
	out := make([]pdf.Value, v.Len())
	for i := range out {
		out[i] = v.Index(i)
	}
	return out
}

func matrix(args []pdf.Value) (graphicsstate.Matrix, bool) {
	nums := numbers(args)
	if len(nums) != 6 {
		return graphicsstate.Matrix{}, false
	}
	var m graphicsstate.Matrix
	copy(m[:], nums)
	return m, true
}
