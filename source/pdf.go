package source

import (
	"context"
	"fmt"

	"github.com/tsawler/structura/assemble"
	"github.com/tsawler/structura/classify"
	"github.com/tsawler/structura/format"
	"github.com/tsawler/structura/logger"
	"github.com/tsawler/structura/model"
	"github.com/tsawler/structura/reader"
	"github.com/tsawler/structura/visibility"
)

// PDFParser reads the visible text of PDF pages.
type PDFParser struct {
	classifier *classify.Classifier
	filter     *visibility.Filter
	log        logger.Logger
}

// NewPDFParser creates a PDF parser. Hidden content is dropped unless
// Options.IncludeHidden is set.
func NewPDFParser(opts Options) *PDFParser {
	return &PDFParser{classifier: opts.classifier(), filter: opts.filter(), log: opts.log("pdf")}
}

func (p *PDFParser) Name() string { return "pdf" }

func (p *PDFParser) Supports(name string, head []byte) bool {
	return format.IsPDF(head) || format.Detect(name) == model.FileTypePDF
}

func (p *PDFParser) Parse(ctx context.Context, in Input) (*Result, error) {
	if len(in.Data) == 0 {
		return nil, ErrEmptyInput
	}

	r, err := reader.Open(in.Data, p.filter)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", in.Name, err)
	}
	pages, failed, err := r.Pages(ctx)
	if err != nil {
		return nil, err
	}

	var segs []model.RawSegment
	for _, page := range pages {
		if n := page.Stats.Total(); n > 0 {
			p.log.Debug("hidden content dropped", logger.Int("page", page.Number), logger.Int("count", n))
		}
		segs = append(segs, page.Segments...)
	}
	normalizeSegments(segs)

	var warnings []Warning
	for _, pe := range failed {
		p.log.Warn("page skipped", logger.Int("page", pe.Page), logger.Error(pe.Err))
		warnings = append(warnings, Warning{Source: p.Name(), Page: pe.Page, Message: pe.Err.Error()})
	}

	meta := newMeta(in, model.FileTypePDF)
	r.Info().Apply(&meta)
	FallbackTitle(&meta, in.Name)
	p.log.Debug("pdf read", logger.String("file", in.Name), logger.Int("pages", r.PageCount()), logger.Int("withText", len(pages)))

	return &Result{
		Lines:    p.classifier.ClassifySegments(segs, classify.ModeFlat),
		Hints:    assemble.Hints{Paginated: true, Meta: meta},
		Warnings: warnings,
	}, nil
}
