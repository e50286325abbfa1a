package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/tsawler/structura/assemble"
	"github.com/tsawler/structura/classify"
	"github.com/tsawler/structura/epubdoc"
	"github.com/tsawler/structura/htmldoc"
	"github.com/tsawler/structura/logger"
	"github.com/tsawler/structura/model"
)

// EPUBParser reads EPUB publications, one page per spine chapter. Each
// chapter is converted from XHTML to Markdown and classified as such.
type EPUBParser struct {
	classifier *classify.Classifier
	converter  *htmldoc.Converter
	opts       htmldoc.Options
	log        logger.Logger
}

// NewEPUBParser creates an EPUB parser. Chapters are converted without
// navigation filtering since book markup has no page chrome.
func NewEPUBParser(opts Options) *EPUBParser {
	return &EPUBParser{
		classifier: opts.classifier(),
		converter:  htmldoc.NewConverter(),
		opts:       htmldoc.Options{Navigation: htmldoc.NavigationExclusionExplicit, IncludeHidden: opts.IncludeHidden},
		log:        opts.log("epub"),
	}
}

func (p *EPUBParser) Name() string { return "epub" }

func (p *EPUBParser) Supports(name string, _ []byte) bool {
	return hasExt(name, ".epub")
}

func (p *EPUBParser) Parse(ctx context.Context, in Input) (*Result, error) {
	if len(in.Data) == 0 {
		return nil, ErrEmptyInput
	}

	book, err := epubdoc.Open(in.Data)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", in.Name, err)
	}

	var (
		lines    []classify.Line
		warnings []Warning
		titles   = make(map[int]string, len(book.Chapters))
	)
	for _, ch := range book.Chapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := p.converter.Convert(ch.Content, p.opts)
		if err != nil {
			p.log.Warn("chapter skipped", logger.Int("chapter", ch.Number), logger.Error(err))
			warnings = append(warnings, Warning{Source: p.Name(), Page: ch.Number, Message: err.Error()})
			continue
		}

		title := ch.Title
		if title == "" {
			title = doc.Title
		}
		if title != "" {
			titles[ch.Number] = normalize(title)
		}

		// Markdown table ids are per call, so they are offset by chapter.
		for _, l := range p.classifier.ClassifyText(normalize(doc.Markdown), classify.ModeMarkdown) {
			l.Page = ch.Number
			if l.Table != 0 {
				l.Table = ch.Number*1000 + abs(l.Table)
			}
			lines = append(lines, l)
		}
	}
	p.log.Debug("epub read", logger.String("file", in.Name), logger.Int("chapters", len(book.Chapters)))

	md := book.Metadata
	meta := newMeta(in, model.FileTypeEPUB)
	meta.Title = md.Title
	meta.Author = strings.Join(md.Creators, ", ")
	meta.Subject = strings.Join(md.Subjects, ", ")
	meta.Description = md.Description
	meta.Modified = md.Modified
	FallbackTitle(&meta, in.Name)
	for key, val := range map[string]string{
		"language":   md.Language,
		"publisher":  md.Publisher,
		"identifier": md.Identifier,
		"version":    book.Version,
	} {
		if val != "" {
			meta.Custom[key] = val
		}
	}

	return &Result{
		Lines:    lines,
		Hints:    assemble.Hints{Paginated: true, Meta: meta, PageTitles: titles},
		Warnings: warnings,
	}, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
