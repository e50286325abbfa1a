package source

import (
	"bytes"
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/tsawler/structura/assemble"
	"github.com/tsawler/structura/charset"
	"github.com/tsawler/structura/classify"
	"github.com/tsawler/structura/logger"
	"github.com/tsawler/structura/model"
)

// MarkdownParser reads Markdown files.
type MarkdownParser struct {
	classifier *classify.Classifier
	md         goldmark.Markdown
	log        logger.Logger
}

// NewMarkdownParser creates a Markdown parser.
func NewMarkdownParser(opts Options) *MarkdownParser {
	return &MarkdownParser{
		classifier: opts.classifier(),
		md:         goldmark.New(goldmark.WithExtensions(extension.GFM)),
		log:        opts.log("markdown"),
	}
}

func (p *MarkdownParser) Name() string { return "markdown" }

func (p *MarkdownParser) Supports(name string, _ []byte) bool {
	return hasExt(name, ".md", ".markdown")
}

func (p *MarkdownParser) Parse(ctx context.Context, in Input) (*Result, error) {
	if len(in.Data) == 0 {
		return nil, ErrEmptyInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	det := charset.Detect(in.Data)
	src := normalize(det.Text)
	p.log.Debug("charset detected", logger.String("file", in.Name), logger.String("charset", det.Charset))

	meta := newMeta(in, model.FileTypeMarkdown)
	meta.Charset = det.Charset
	meta.Title = p.firstH1([]byte(src))
	FallbackTitle(&meta, in.Name)

	return &Result{
		Lines: p.classifier.ClassifyText(src, classify.ModeMarkdown),
		Hints: assemble.Hints{Meta: meta},
	}, nil
}

// firstH1 returns the plain text of the first level one heading.
func (p *MarkdownParser) firstH1(src []byte) string {
	doc := p.md.Parser().Parse(text.NewReader(src))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = strings.TrimSpace(plainText(h, src))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

// plainText concatenates the text leaves under n.
func plainText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
