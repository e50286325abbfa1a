package source

import (
	"context"
	"fmt"

	"github.com/tsawler/structura/assemble"
	"github.com/tsawler/structura/classify"
	"github.com/tsawler/structura/format"
	"github.com/tsawler/structura/htmldoc"
	"github.com/tsawler/structura/logger"
	"github.com/tsawler/structura/model"
)

// HTMLParser converts HTML to Markdown and classifies the result.
type HTMLParser struct {
	classifier *classify.Classifier
	converter  *htmldoc.Converter
	opts       htmldoc.Options
	log        logger.Logger
}

// NewHTMLParser creates an HTML parser with the standard navigation filter.
func NewHTMLParser(opts Options) *HTMLParser {
	conv := htmldoc.DefaultOptions()
	conv.IncludeHidden = opts.IncludeHidden
	return &HTMLParser{
		classifier: opts.classifier(),
		converter:  htmldoc.NewConverter(),
		opts:       conv,
		log:        opts.log("html"),
	}
}

func (p *HTMLParser) Name() string { return "html" }

func (p *HTMLParser) Supports(name string, head []byte) bool {
	return format.Detect(name) == model.FileTypeHTML ||
		(format.Detect(name) == model.FileTypeUnknown && format.DetectFromMagic(head) == model.FileTypeHTML)
}

func (p *HTMLParser) Parse(ctx context.Context, in Input) (*Result, error) {
	if len(in.Data) == 0 {
		return nil, ErrEmptyInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := p.converter.Convert(in.Data, p.opts)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", in.Name, err)
	}
	p.log.Debug("html converted", logger.String("file", in.Name), logger.String("charset", doc.Charset))

	meta := newMeta(in, model.FileTypeHTML)
	meta.Charset = doc.Charset
	meta.Title = doc.Title
	meta.Description = doc.Meta["description"]
	meta.Keywords = doc.Meta["keywords"]
	meta.Author = doc.Meta["author"]
	FallbackTitle(&meta, in.Name)

	return &Result{
		Lines: p.classifier.ClassifyText(normalize(doc.Markdown), classify.ModeMarkdown),
		Hints: assemble.Hints{Meta: meta},
	}, nil
}
