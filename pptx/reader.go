package pptx

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/tsawler/structura/internal/ooxml"
	"github.com/tsawler/structura/model"
)

const presentationPart = "ppt/presentation.xml"

// Options controls which slides are read.
type Options struct {
	// IncludeHidden keeps slides marked as hidden in the presentation.
	IncludeHidden bool
}

// Slide is the content of one slide. Segments carry the slide number as
// their page and are in shape tree order.
type Slide struct {
	Number   int
	Title    string
	Hidden   bool
	Segments []model.RawSegment
}

// SlideError records a slide that could not be read.
type SlideError struct {
	Slide int
	Err   error
}

func (e *SlideError) Error() string {
	return fmt.Sprintf("slide %d: %v", e.Slide, e.Err)
}

func (e *SlideError) Unwrap() error {
	return e.Err
}

// Reader provides access to PPTX document content.
type Reader struct {
	archive *ooxml.Archive
	opts    Options
	parts   []string
}

// Open opens an in-memory PPTX presentation.
func Open(data []byte, opts Options) (*Reader, error) {
	a, err := ooxml.Open(data)
	if err != nil {
		return nil, err
	}
	if err := a.Require("[Content_Types].xml", presentationPart); err != nil {
		return nil, err
	}

	r := &Reader{archive: a, opts: opts}
	r.parts = r.slideParts()
	return r, nil
}

// slideParts lists the slide parts in presentation order. Packages without
// a usable slide list fall back to the slide file numbering.
func (r *Reader) slideParts() []string {
	var pres presentationXML
	if err := r.archive.Unmarshal(presentationPart, &pres); err == nil && pres.SlideIDList != nil {
		rels := r.archive.Relationships(presentationPart)
		var parts []string
		for _, id := range pres.SlideIDList.SlideID {
			if rel, ok := rels[id.RID]; ok && r.archive.Has(rel.Target) {
				parts = append(parts, rel.Target)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}

	parts := r.archive.Names("ppt/slides/slide", ".xml")
	sort.Slice(parts, func(i, j int) bool {
		return slideNumber(parts[i]) < slideNumber(parts[j])
	})
	return parts
}

// slideNumber extracts the number from a path like "ppt/slides/slide12.xml".
func slideNumber(part string) int {
	name := strings.TrimSuffix(path.Base(part), ".xml")
	n, _ := strconv.Atoi(strings.TrimPrefix(name, "slide"))
	return n
}

// SlideCount returns the number of slides, hidden ones included.
func (r *Reader) SlideCount() int {
	return len(r.parts)
}

// Metadata returns the presentation properties.
func (r *Reader) Metadata() ooxml.CoreProperties {
	return r.archive.CoreProperties()
}

// Slides reads every slide. A slide that fails to parse is reported in the
// returned slice of SlideErrors and skipped. Hidden slides are skipped
// unless Options.IncludeHidden is set.
func (r *Reader) Slides(ctx context.Context) ([]*Slide, []*SlideError, error) {
	var (
		slides  []*Slide
		skipped []*SlideError
	)
	for i, part := range r.parts {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		slide, err := r.readSlide(part, i+1)
		if err != nil {
			skipped = append(skipped, &SlideError{Slide: i + 1, Err: err})
			continue
		}
		if slide.Hidden && !r.opts.IncludeHidden {
			continue
		}
		slides = append(slides, slide)
	}
	return slides, skipped, nil
}

func (r *Reader) readSlide(part string, number int) (*Slide, error) {
	var raw slideXML
	if err := r.archive.Unmarshal(part, &raw); err != nil {
		return nil, err
	}

	s := &Slide{Number: number, Hidden: raw.Show == "0" || raw.Show == "false"}
	tables := 0
	var firstLine string
	var walk func(tree *spTreeXML)
	walk = func(tree *spTreeXML) {
		for _, shape := range tree.Shapes {
			switch {
			case shape.Group != nil:
				walk(shape.Group)
			case shape.Frame != nil && shape.Frame.Tbl != nil:
				tables++
				s.addTable(shape.Frame.Tbl, tables)
			case shape.Sp != nil && shape.Sp.TxBody != nil:
				ph := ""
				if shape.Sp.Ph != nil {
					ph = shape.Sp.Ph.Type
				}
				if isFooterPlaceholder(ph) {
					continue
				}
				if isTitlePlaceholder(ph) {
					if s.Title == "" {
						s.Title = joinParagraphs(shape.Sp.TxBody.P)
					}
					continue
				}
				for _, p := range shape.Sp.TxBody.P {
					text := paragraphText(p)
					if text == "" {
						continue
					}
					if firstLine == "" {
						firstLine = strings.TrimSpace(p.Text)
					}
					s.Segments = append(s.Segments, model.RawSegment{
						Text:  text,
						Page:  number,
						Index: len(s.Segments),
					})
				}
			}
		}
	}
	walk(&raw.SpTree)

	if s.Title == "" {
		s.Title = firstLine
	}
	return s, nil
}

func (s *Slide) addTable(tbl *tblXML, id int) {
	for _, tr := range tbl.Tr {
		var cells []string
		for _, tc := range tr.Tc {
			// Continuation cells of a merge carry no text of their own.
			if tc.HMerge == "1" || tc.HMerge == "true" || tc.VMerge == "1" || tc.VMerge == "true" {
				cells = append(cells, "")
				continue
			}
			var text string
			if tc.TxBody != nil {
				text = joinParagraphs(tc.TxBody.P)
			}
			cells = append(cells, text)
		}
		s.Segments = append(s.Segments, model.RawSegment{
			Text:  strings.Join(cells, "\t"),
			Page:  s.Number,
			Index: len(s.Segments),
			Cells: cells,
			Table: id,
		})
	}
}

// paragraphText returns a paragraph with its bullet written as a Markdown
// list marker indented by level.
func paragraphText(p pXML) string {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return ""
	}

	level, marker := 0, ""
	if p.PPr != nil {
		level = p.PPr.Lvl
		switch {
		case p.PPr.BuNone != nil:
		case p.PPr.BuAutoNum != nil:
			marker = "1. "
		case p.PPr.BuChar != nil || level > 0:
			marker = "- "
		}
	}
	if marker == "" {
		if rest, ok := strings.CutPrefix(text, "•"); ok {
			text, marker = strings.TrimSpace(rest), "- "
		}
	}
	if marker == "" {
		return text
	}
	return strings.Repeat("  ", level) + marker + text
}

func joinParagraphs(ps []pXML) string {
	var parts []string
	for _, p := range ps {
		if t := strings.TrimSpace(p.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func isTitlePlaceholder(phType string) bool {
	return phType == "title" || phType == "ctrTitle"
}

// isFooterPlaceholder returns true if the placeholder type is a footer element.
// Footer elements include: ftr (footer), dt (date/time), sldNum (slide number).
func isFooterPlaceholder(phType string) bool {
	switch phType {
	case "ftr", "dt", "sldNum", "hdr":
		return true
	}
	return false
}
