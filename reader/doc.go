// Package reader extracts visible text lines from PDF files.
//
// Each page's content streams are interpreted with a tracked graphics
// state, so every shown string becomes a positioned fragment carrying the
// rendering mode, alpha and fill colour it was painted with. Form XObjects
// and annotation appearances are interpreted in place unless the
// visibility filter rejects them.
//
// # Opening PDF Files
//
//	r, err := reader.Open(data, visibility.NewFilter())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pages, pageErrs, err := r.Pages(ctx)
//
// Pages whose content cannot be interpreted are reported as [PageError]
// values while the remaining pages are still returned.
//
// # Lines
//
// Kept fragments are grouped into lines by baseline, ordered top to
// bottom and left to right. A space is inserted where the horizontal gap
// between fragments is wide enough to be a word break, and a blank
// segment is emitted where the vertical gap between lines suggests a
// paragraph break.
package reader
