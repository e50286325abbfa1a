package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/structura/assemble"
	"github.com/tsawler/structura/classify"
	"github.com/tsawler/structura/logger"
	"github.com/tsawler/structura/model"
	"github.com/tsawler/structura/visibility"
)

// Input is one file to parse.
type Input struct {
	// Name is the file name; its extension is a format hint.
	Name string
	Data []byte
}

// Result is the output of a parser.
type Result struct {
	Lines    []classify.Line
	Hints    assemble.Hints
	Warnings []Warning
}

// Warning is a non-fatal problem found while parsing.
type Warning struct {
	// Source names the parser that raised the warning.
	Source string
	// Page is the page, slide or sheet concerned, or 0.
	Page    int
	Message string
}

func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("%s: page %d: %s", w.Source, w.Page, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Source, w.Message)
}

// Parser reads one kind of container.
type Parser interface {
	// Name is a short identifier such as "pdf".
	Name() string
	// Supports reports whether the parser handles a file with the given
	// name and leading bytes.
	Supports(name string, head []byte) bool
	Parse(ctx context.Context, in Input) (*Result, error)
}

// Options configures the default parsers.
type Options struct {
	// IncludeHidden disables visibility filtering and keeps hidden slides,
	// sheets and HTML elements.
	IncludeHidden bool

	// OCRLanguage is a "+" separated Tesseract language list.
	OCRLanguage string

	// Classifier overrides the default structure classifier.
	Classifier *classify.Classifier

	Logger logger.Logger
}

func (o Options) classifier() *classify.Classifier {
	if o.Classifier != nil {
		return o.Classifier
	}
	return classify.NewClassifier()
}

func (o Options) log(name string) logger.Logger {
	return logger.OrNop(o.Logger).Named(name)
}

func (o Options) filter() *visibility.Filter {
	return visibility.NewFilterWithConfig(visibility.Config{IncludeHidden: o.IncludeHidden})
}

func newMeta(in Input, ft model.FileType) model.DocumentMetadata {
	return model.DocumentMetadata{
		FileName: filepath.Base(in.Name),
		FileType: ft,
		FileSize: int64(len(in.Data)),
		MimeType: ft.MimeType(),
		Custom:   make(map[string]string),
	}
}

// normalize returns s in Unicode NFC form with Windows line endings
// folded.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return norm.NFC.String(s)
}

func normalizeSegments(segs []model.RawSegment) {
	for i := range segs {
		segs[i].Text = norm.NFC.String(segs[i].Text)
		if segs[i].Markdown != "" {
			segs[i].Markdown = norm.NFC.String(segs[i].Markdown)
		}
		for j, c := range segs[i].Cells {
			segs[i].Cells[j] = norm.NFC.String(c)
		}
	}
}

// FallbackTitle names the document after its file when the content
// carried no title.
func FallbackTitle(meta *model.DocumentMetadata, name string) {
	if strings.TrimSpace(meta.Title) == "" {
		meta.Title = baseName(name)
	}
}

// baseName returns the file name without directory or extension.
func baseName(name string) string {
	base := filepath.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func hasExt(name string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func heading(text string, level, page int) classify.Line {
	return classify.Line{Text: text, Raw: text, Role: classify.Heading(level), Page: page}
}
