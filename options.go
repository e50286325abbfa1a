package structura

import (
	"github.com/tsawler/structura/logger"
	"github.com/tsawler/structura/ocr"
)

// DefaultPageChunkSize is the number of non-blank lines per synthetic page
// for sources without real pages.
const DefaultPageChunkSize = 50

// Options configures the pipeline.
type Options struct {
	// IncludeHiddenLayers keeps watermarks, invisible PDF text, hidden
	// slides and sheets, and hidden HTML elements.
	IncludeHiddenLayers bool

	// SyntheticPageChunkSize splits unpaginated sources into pages of this
	// many non-blank lines. Non-positive values use DefaultPageChunkSize.
	SyntheticPageChunkSize int

	// OCRLanguage is a "+" separated Tesseract language list.
	OCRLanguage string

	// Logger receives debug output for each stage. Nil discards it.
	Logger logger.Logger
}

// DefaultOptions returns the default pipeline options.
func DefaultOptions() Options {
	return Options{
		SyntheticPageChunkSize: DefaultPageChunkSize,
		OCRLanguage:            ocr.DefaultLanguage,
	}
}

func (o Options) chunkSize() int {
	if o.SyntheticPageChunkSize <= 0 {
		return DefaultPageChunkSize
	}
	return o.SyntheticPageChunkSize
}
