package docx

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"

	"github.com/tsawler/structura/internal/ooxml"
	"github.com/tsawler/structura/model"
)

const documentPart = "word/document.xml"

// Reader provides access to DOCX document content.
type Reader struct {
	archive   *ooxml.Archive
	styles    styleSheet
	numbering numbering
}

// Open opens an in-memory DOCX document.
func Open(data []byte) (*Reader, error) {
	a, err := ooxml.Open(data)
	if err != nil {
		return nil, err
	}
	if err := a.Require("[Content_Types].xml", documentPart); err != nil {
		return nil, err
	}

	return &Reader{
		archive:   a,
		styles:    loadStyles(a),
		numbering: loadNumbering(a),
	}, nil
}

// Metadata returns the document properties.
func (r *Reader) Metadata() ooxml.CoreProperties {
	return r.archive.CoreProperties()
}

// Segments returns the body in document order.
func (r *Reader) Segments(ctx context.Context) ([]model.RawSegment, error) {
	data, err := r.archive.Read(documentPart)
	if err != nil {
		return nil, err
	}

	w := &bodyWalker{reader: r, dec: xml.NewDecoder(bytes.NewReader(data))}
	if err := w.walk(ctx); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return w.segments, nil
}
