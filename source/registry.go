package source

import (
	"fmt"

	"github.com/tsawler/structura/format"
	"github.com/tsawler/structura/model"
)

// Registry is an ordered list of parsers. It is immutable; Prepend and
// Append return new registries.
type Registry struct {
	parsers []Parser
}

// NewRegistry creates a registry that consults parsers in the given order.
func NewRegistry(parsers ...Parser) *Registry {
	return &Registry{parsers: append([]Parser(nil), parsers...)}
}

// DefaultRegistry returns the built-in parsers in priority order: PDF,
// Word, Excel, PowerPoint, EPUB, CSV, Markdown, HTML, image and plain
// text.
func DefaultRegistry(opts Options) *Registry {
	return NewRegistry(
		NewPDFParser(opts),
		NewWordParser(opts),
		NewExcelParser(opts),
		NewPowerPointParser(opts),
		NewEPUBParser(opts),
		NewCSVParser(opts),
		NewMarkdownParser(opts),
		NewHTMLParser(opts),
		NewImageParser(opts),
		NewTextParser(opts),
	)
}

// Prepend returns a registry that consults p before the existing parsers.
func (r *Registry) Prepend(p ...Parser) *Registry {
	return NewRegistry(append(append([]Parser(nil), p...), r.parsers...)...)
}

// Append returns a registry that consults p after the existing parsers.
func (r *Registry) Append(p ...Parser) *Registry {
	return NewRegistry(append(append([]Parser(nil), r.parsers...), p...)...)
}

// Parsers returns the parsers in order.
func (r *Registry) Parsers() []Parser {
	return append([]Parser(nil), r.parsers...)
}

// Find returns the first parser that supports the file. When none accepts
// the name, the content is sniffed and the lookup repeated with the
// detected type's extension, so misnamed Office files still resolve.
func (r *Registry) Find(name string, data []byte) (Parser, error) {
	head := data[:min(len(data), format.HeadSize)]
	if p := r.lookup(name, head); p != nil {
		return p, nil
	}
	if ft := format.DetectBytes(name, data); ft != model.FileTypeUnknown && ft != format.Detect(name) {
		if p := r.lookup(name+format.Extension(ft), head); p != nil {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

func (r *Registry) lookup(name string, head []byte) Parser {
	for _, p := range r.parsers {
		if p.Supports(name, head) {
			return p
		}
	}
	return nil
}
