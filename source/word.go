package source

import (
	"context"
	"fmt"

	"github.com/tsawler/structura/assemble"
	"github.com/tsawler/structura/classify"
	"github.com/tsawler/structura/docx"
	"github.com/tsawler/structura/logger"
	"github.com/tsawler/structura/model"
)

// WordParser reads Word (.docx) documents. Paragraph styles drive heading
// levels and explicit page breaks split pages.
type WordParser struct {
	classifier *classify.Classifier
	log        logger.Logger
}

// NewWordParser creates a Word parser.
func NewWordParser(opts Options) *WordParser {
	return &WordParser{classifier: opts.classifier(), log: opts.log("word")}
}

func (p *WordParser) Name() string { return "word" }

func (p *WordParser) Supports(name string, _ []byte) bool {
	return hasExt(name, ".docx")
}

func (p *WordParser) Parse(ctx context.Context, in Input) (*Result, error) {
	if len(in.Data) == 0 {
		return nil, ErrEmptyInput
	}

	r, err := docx.Open(in.Data)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", in.Name, err)
	}
	segs, err := r.Segments(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", in.Name, err)
	}
	normalizeSegments(segs)
	p.log.Debug("word read", logger.String("file", in.Name), logger.Int("segments", len(segs)))

	meta := newMeta(in, model.FileTypeWord)
	r.Metadata().Apply(&meta)
	FallbackTitle(&meta, in.Name)

	return &Result{
		Lines: p.classifier.ClassifySegments(segs, classify.ModeStyled),
		Hints: assemble.Hints{Meta: meta},
	}, nil
}
