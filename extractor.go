package structura

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tsawler/structura/assemble"
	"github.com/tsawler/structura/logger"
	"github.com/tsawler/structura/model"
	"github.com/tsawler/structura/source"
)

// Extractor is a fluent pipeline over one input. Each configuration method
// returns a new Extractor, so a configured value can be shared and reused.
type Extractor struct {
	// Source
	name   string
	path   string
	data   []byte
	loaded bool

	// Configuration
	options  Options
	registry *source.Registry
	ctx      context.Context
}

// clone copies the Extractor. The input bytes are shared; they are never
// modified.
func (e *Extractor) clone() *Extractor {
	c := *e
	return &c
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// IncludeHiddenLayers keeps content that would otherwise be filtered as
// hidden or decorative.
//
// Example:
//
//	doc, _, err := structura.Open("scan.pdf").IncludeHiddenLayers().Document()
func (e *Extractor) IncludeHiddenLayers() *Extractor {
	c := e.clone()
	c.options.IncludeHiddenLayers = true
	return c
}

// PageChunkSize sets the number of non-blank lines per synthetic page for
// sources without real pages.
//
// Example:
//
//	doc, _, err := structura.Open("notes.txt").PageChunkSize(20).Document()
func (e *Extractor) PageChunkSize(n int) *Extractor {
	c := e.clone()
	c.options.SyntheticPageChunkSize = n
	return c
}

// OCRLanguage sets the Tesseract languages used for images, such as
// "eng+deu".
func (e *Extractor) OCRLanguage(lang string) *Extractor {
	c := e.clone()
	c.options.OCRLanguage = lang
	return c
}

// WithOptions replaces every option at once.
func (e *Extractor) WithOptions(opts Options) *Extractor {
	c := e.clone()
	c.options = opts
	return c
}

// WithRegistry sets the parsers consulted for the input. By default the
// registry is built from the extractor's options.
//
// Example:
//
//	reg := source.DefaultRegistry(source.Options{}).Prepend(myParser)
//	doc, _, err := structura.Open("data.custom").WithRegistry(reg).Document()
func (e *Extractor) WithRegistry(r *source.Registry) *Extractor {
	c := e.clone()
	c.registry = r
	return c
}

// WithLogger sets the logger used for debug output.
func (e *Extractor) WithLogger(l logger.Logger) *Extractor {
	c := e.clone()
	c.options.Logger = l
	return c
}

// WithContext sets the context checked between pages, slides and sheets.
func (e *Extractor) WithContext(ctx context.Context) *Extractor {
	c := e.clone()
	c.ctx = ctx
	return c
}

// Options returns the extractor's options.
func (e *Extractor) Options() Options {
	return e.options
}

// ============================================================================
// Terminal Methods
// ============================================================================

// Document runs the pipeline and returns the assembled document. Warnings
// report non-fatal problems; the document is still usable when they are
// present.
//
// Example:
//
//	doc, warnings, err := structura.Open("deck.pptx").Document()
//	for _, page := range doc.Pages {
//	    fmt.Println(page.Number, page.Title)
//	}
func (e *Extractor) Document() (*model.ParsedDocument, []Warning, error) {
	log := logger.OrNop(e.options.Logger).Named("structura")
	start := time.Now()

	data, err := e.load()
	if err != nil {
		return nil, nil, err
	}

	reg := e.registry
	if reg == nil {
		reg = source.DefaultRegistry(source.Options{
			IncludeHidden: e.options.IncludeHiddenLayers,
			OCRLanguage:   e.options.OCRLanguage,
			Logger:        e.options.Logger,
		})
	}
	parser, err := reg.Find(e.name, data)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("parser selected", logger.String("file", e.name), logger.String("parser", parser.Name()))

	ctx := e.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := parser.Parse(ctx, source.Input{Name: e.name, Data: data})
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", parser.Name(), err)
	}
	source.FallbackTitle(&res.Hints.Meta, e.name)
	log.Debug("lines classified", logger.Int("lines", len(res.Lines)))

	asm := assemble.NewAssemblerWithConfig(assemble.Config{PageChunkSize: e.options.chunkSize()})
	doc := asm.Assemble(res.Lines, res.Hints)
	log.Debug("document assembled",
		logger.Int("pages", doc.PageCount()),
		logger.Int("tables", doc.Metadata.TotalTables),
		logger.Int("warnings", len(res.Warnings)),
		logger.Duration("elapsed", time.Since(start)))

	return doc, fromSource(res.Warnings), nil
}

// ToMarkdown returns the document as Markdown, pages separated by a
// horizontal rule.
//
// Example:
//
//	md, _, err := structura.Open("report.docx").ToMarkdown()
func (e *Extractor) ToMarkdown() (string, []Warning, error) {
	return e.ToMarkdownWithOptions(model.MarkdownOptions{})
}

// ToMarkdownWithOptions returns the document as Markdown rendered with
// opts, for example with a document information preamble.
func (e *Extractor) ToMarkdownWithOptions(opts model.MarkdownOptions) (string, []Warning, error) {
	doc, warnings, err := e.Document()
	if err != nil {
		return "", warnings, err
	}
	return doc.ToMarkdown(opts), warnings, nil
}

// Text returns the raw text of every page, separated by blank lines.
//
// Example:
//
//	text, _, err := structura.Open("page.html").Text()
func (e *Extractor) Text() (string, []Warning, error) {
	doc, warnings, err := e.Document()
	if err != nil {
		return "", warnings, err
	}
	return doc.Text(), warnings, nil
}

// PageCount returns the number of assembled pages.
func (e *Extractor) PageCount() (int, error) {
	doc, _, err := e.Document()
	if err != nil {
		return 0, err
	}
	return doc.PageCount(), nil
}

// load returns the input bytes, reading the file on first use.
func (e *Extractor) load() ([]byte, error) {
	if e.loaded {
		return e.data, nil
	}
	if e.path == "" {
		return nil, fmt.Errorf("no filename specified")
	}
	data, err := os.ReadFile(e.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", e.path, err)
	}
	return data, nil
}
