// Package structura recovers the structure of loosely formatted documents.
//
// A file is read by the first parser in a [source.Registry] that accepts
// it, its lines are classified as headings, paragraphs, list items, code
// and table rows, and the result is assembled into pages that render as
// Markdown.
//
// Basic usage:
//
//	md, warnings, err := structura.Open("report.pdf").ToMarkdown()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", structura.FormatWarnings(warnings))
//	}
//
// With options:
//
//	doc, _, err := structura.FromBytes("notes.txt", data).
//	    PageChunkSize(20).
//	    IncludeHiddenLayers().
//	    Document()
package structura

// Open returns an Extractor for the file at path. The file is read when a
// terminal method such as Document is called.
//
// Example:
//
//	doc, warnings, err := structura.Open("slides.pptx").Document()
func Open(path string) *Extractor {
	return &Extractor{
		name:    path,
		path:    path,
		options: DefaultOptions(),
	}
}

// FromBytes returns an Extractor over data. The name is only a format hint
// and the document's file name.
//
// Example:
//
//	md, _, err := structura.FromBytes("upload.csv", body).ToMarkdown()
func FromBytes(name string, data []byte) *Extractor {
	return &Extractor{
		name:    name,
		data:    data,
		loaded:  true,
		options: DefaultOptions(),
	}
}

// Must wraps a call returning (T, error) and panics if the error is
// non-nil. It is intended for scripts and tests.
//
// Example:
//
//	count := structura.Must(structura.Open("report.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustText wraps a terminal call such as Text or ToMarkdown, discarding the
// warnings and panicking if the error is non-nil.
//
// Example:
//
//	text := structura.MustText(structura.Open("notes.txt").Text())
func MustText[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
