package source

import (
	"context"
	"fmt"

	"github.com/tsawler/structura/assemble"
	"github.com/tsawler/structura/classify"
	"github.com/tsawler/structura/logger"
	"github.com/tsawler/structura/model"
	"github.com/tsawler/structura/pptx"
)

// PowerPointParser reads PowerPoint (.pptx) presentations, one page per
// slide. Each page opens with a "Slide N" heading followed by the slide
// title as a level two heading.
type PowerPointParser struct {
	classifier    *classify.Classifier
	includeHidden bool
	log           logger.Logger
}

// NewPowerPointParser creates a PowerPoint parser.
func NewPowerPointParser(opts Options) *PowerPointParser {
	return &PowerPointParser{classifier: opts.classifier(), includeHidden: opts.IncludeHidden, log: opts.log("powerpoint")}
}

func (p *PowerPointParser) Name() string { return "powerpoint" }

func (p *PowerPointParser) Supports(name string, _ []byte) bool {
	return hasExt(name, ".pptx")
}

func (p *PowerPointParser) Parse(ctx context.Context, in Input) (*Result, error) {
	if len(in.Data) == 0 {
		return nil, ErrEmptyInput
	}

	r, err := pptx.Open(in.Data, pptx.Options{IncludeHidden: p.includeHidden})
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", in.Name, err)
	}
	slides, failed, err := r.Slides(ctx)
	if err != nil {
		return nil, err
	}

	var lines []classify.Line
	titles := make(map[int]string, len(slides))
	tables := make(map[int]string)
	for _, slide := range slides {
		lines = append(lines, heading(fmt.Sprintf("Slide %d", slide.Number), 1, slide.Number))
		if slide.Title != "" {
			titles[slide.Number] = slide.Title
			lines = append(lines, heading(normalize(slide.Title), 2, slide.Number))
		}

		// Table ids restart on every slide, so they are made unique across
		// the deck before classification.
		segs := slide.Segments
		for i := range segs {
			if segs[i].Table != 0 {
				segs[i].Table += slide.Number * 1000
				tables[segs[i].Table] = slide.Title
			}
		}
		normalizeSegments(segs)
		lines = append(lines, p.classifier.ClassifySegments(segs, classify.ModeFlat)...)
	}

	var warnings []Warning
	for _, se := range failed {
		p.log.Warn("slide skipped", logger.Int("slide", se.Slide), logger.Error(se.Err))
		warnings = append(warnings, Warning{Source: p.Name(), Page: se.Slide, Message: se.Err.Error()})
	}

	meta := newMeta(in, model.FileTypePowerPoint)
	r.Metadata().Apply(&meta)
	if meta.Title == "" && len(slides) > 0 {
		meta.Title = slides[0].Title
	}
	meta.TotalSlides = len(slides)
	FallbackTitle(&meta, in.Name)

	return &Result{
		Lines:    lines,
		Hints:    assemble.Hints{Paginated: true, Meta: meta, PageTitles: titles, TableTitles: tables},
		Warnings: warnings,
	}, nil
}
