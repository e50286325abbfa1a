package docx

import (
	"context"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/tsawler/structura/model"
)

// paragraph is the decoded content of one w:p element.
type paragraph struct {
	text        strings.Builder
	runs        []*run
	styleID     string
	numID       string
	ilvl        int
	breakBefore bool
	breakAfter  bool
}

// run is one w:r with its direct character formatting.
type run struct {
	text   strings.Builder
	bold   bool
	italic bool
	strike bool
	size   float64
}

func (r *run) sameFormat(o *run) bool {
	return r.bold == o.bold && r.italic == o.italic && r.strike == o.strike
}

// write appends s to the paragraph text and to the open run.
func (p *paragraph) write(s string) {
	p.text.WriteString(s)
	if n := len(p.runs); n > 0 {
		p.runs[n-1].text.WriteString(s)
	}
}

// allBold reports whether every run with visible text is bold.
func (p *paragraph) allBold() bool {
	seen := false
	for _, r := range p.runs {
		if strings.TrimSpace(r.text.String()) == "" {
			continue
		}
		if !r.bold {
			return false
		}
		seen = true
	}
	return seen
}

// fontSize is the largest explicit run size in points.
func (p *paragraph) fontSize() float64 {
	var size float64
	for _, r := range p.runs {
		if strings.TrimSpace(r.text.String()) != "" {
			size = max(size, r.size)
		}
	}
	return size
}

// markdown renders the runs with bold, italic and strikethrough as Markdown
// emphasis. It returns "" when no run is formatted.
func (p *paragraph) markdown() string {
	var (
		sb        strings.Builder
		formatted bool
	)
	for i := 0; i < len(p.runs); {
		r := p.runs[i]
		var text strings.Builder
		for ; i < len(p.runs) && p.runs[i].sameFormat(r); i++ {
			text.WriteString(p.runs[i].text.String())
		}
		s := text.String()
		core := strings.TrimSpace(s)
		if core == "" || (!r.bold && !r.italic && !r.strike) {
			sb.WriteString(s)
			continue
		}
		formatted = true
		if r.strike {
			core = "~~" + core + "~~"
		}
		switch {
		case r.bold && r.italic:
			core = "***" + core + "***"
		case r.bold:
			core = "**" + core + "**"
		case r.italic:
			core = "*" + core + "*"
		}
		lead := s[:len(s)-len(strings.TrimLeft(s, " \t"))]
		trail := s[len(strings.TrimRight(s, " \t")):]
		sb.WriteString(lead + core + trail)
	}
	if !formatted {
		return ""
	}
	return strings.TrimSpace(sb.String())
}

type bodyWalker struct {
	reader       *Reader
	dec          *xml.Decoder
	segments     []model.RawSegment
	tables       int
	pendingBreak bool
}

func (w *bodyWalker) walk(ctx context.Context) error {
	for {
		tok, err := w.dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case "p":
			p, err := w.paragraph()
			if err != nil {
				return err
			}
			w.emitParagraph(p)
		case "tbl":
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := w.table()
			if err != nil {
				return err
			}
			w.emitTable(rows)
		}
	}
}

// paragraph consumes tokens up to the end of the current w:p.
func (w *bodyWalker) paragraph() (*paragraph, error) {
	p := &paragraph{}
	depth, inRun, inRPr := 1, 0, false
	for depth > 0 {
		tok, err := w.dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "r":
				inRun++
				p.runs = append(p.runs, &run{})
			case "rPr":
				inRPr = inRun > 0
			case "b", "i", "strike", "dstrike":
				if inRPr {
					p.format(t)
				}
			case "sz":
				if inRPr {
					if v, err := strconv.ParseFloat(attr(t, "val"), 64); err == nil {
						p.runs[len(p.runs)-1].size = v / 2
					}
				}
			case "pStyle":
				p.styleID = attr(t, "val")
			case "numId":
				p.numID = attr(t, "val")
			case "ilvl":
				p.ilvl, _ = strconv.Atoi(attr(t, "val"))
			case "pageBreakBefore":
				if v := attr(t, "val"); v != "0" && v != "false" {
					p.breakBefore = true
				}
			case "t":
				if inRun > 0 {
					s, err := w.charData()
					if err != nil {
						return nil, err
					}
					depth--
					p.write(s)
				}
			case "tab":
				if inRun > 0 {
					p.write("\t")
				}
			case "br":
				if inRun > 0 {
					if attr(t, "type") == "page" {
						p.pageBreak()
					} else {
						p.write(" ")
					}
				}
			case "lastRenderedPageBreak":
				p.pageBreak()
			case "cr":
				p.write(" ")
			case "noBreakHyphen":
				p.write("-")
			}
		case xml.EndElement:
			depth--
			switch t.Name.Local {
			case "r":
				if inRun > 0 {
					inRun--
				}
			case "rPr":
				inRPr = false
			}
		}
	}
	return p, nil
}

// format applies a run property toggle. A w:val of 0, false or none turns
// the property off.
func (p *paragraph) format(se xml.StartElement) {
	r := p.runs[len(p.runs)-1]
	on := true
	switch attr(se, "val") {
	case "0", "false", "none":
		on = false
	}
	switch se.Name.Local {
	case "b":
		r.bold = on
	case "i":
		r.italic = on
	case "strike", "dstrike":
		r.strike = r.strike || on
	}
}

// pageBreak records a break before the paragraph when no text precedes it
// and before the next paragraph otherwise.
func (p *paragraph) pageBreak() {
	if strings.TrimSpace(p.text.String()) == "" {
		p.breakBefore = true
	} else {
		p.breakAfter = true
	}
}

// charData reads the text of an element whose start tag was just consumed,
// including its end tag.
func (w *bodyWalker) charData() (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := w.dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return sb.String(), nil
}

// table consumes tokens up to the end of the current w:tbl. Text of nested
// tables is folded into the enclosing cell.
func (w *bodyWalker) table() ([][]string, error) {
	var (
		rows   [][]string
		row    []string
		cell   []string
		span   int
		nested int
	)
	for {
		tok, err := w.dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				nested++
			case "tr":
				if nested == 0 {
					row = []string{}
				}
			case "tc":
				if nested == 0 {
					cell = cell[:0]
					span = 1
				}
			case "gridSpan":
				if nested == 0 {
					if n, err := strconv.Atoi(attr(t, "val")); err == nil && n > 1 {
						span = n
					}
				}
			case "p":
				p, err := w.paragraph()
				if err != nil {
					return nil, err
				}
				if text := strings.TrimSpace(p.text.String()); text != "" {
					cell = append(cell, text)
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				if nested == 0 {
					return rows, nil
				}
				nested--
			case "tr":
				if nested == 0 {
					rows = append(rows, row)
				}
			case "tc":
				if nested == 0 {
					row = append(row, strings.Join(cell, " "))
					for i := 1; i < span; i++ {
						row = append(row, "")
					}
				}
			}
		}
	}
}

func (w *bodyWalker) emitParagraph(p *paragraph) {
	text := strings.TrimRight(p.text.String(), " \t")
	style := w.reader.styles.Name(p.styleID)

	numbered := p.numID != "" && p.numID != "0" && strings.TrimSpace(text) != ""
	if numbered {
		marker := "- "
		if w.reader.numbering.Ordered(p.numID, p.ilvl) {
			marker = "1. "
		}
		text = strings.Repeat("  ", p.ilvl) + marker + strings.TrimSpace(text)
	}

	seg := model.RawSegment{
		Text:      text,
		Index:     len(w.segments),
		Style:     style,
		PageBreak: p.breakBefore || w.pendingBreak,
		FontSize:  p.fontSize(),
		Markdown:  p.markdown(),
	}
	if !numbered {
		seg.Bold = p.allBold()
	}
	w.segments = append(w.segments, seg)
	w.pendingBreak = p.breakAfter
}

func (w *bodyWalker) emitTable(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	w.tables++
	for i, cells := range rows {
		w.segments = append(w.segments, model.RawSegment{
			Text:      strings.Join(cells, "\t"),
			Index:     len(w.segments),
			Cells:     cells,
			Table:     w.tables,
			PageBreak: i == 0 && w.pendingBreak,
		})
	}
	w.pendingBreak = false
}

func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
