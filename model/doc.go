// Package model provides the canonical document model that every source is
// normalized into.
//
// # Document Structure
//
// A [ParsedDocument] owns its pages, a flattened view of their tables and a
// [DocumentMetadata] value whose totals are rebuilt from the pages:
//
//	doc := model.NewDocument()
//	doc.Metadata.Title = "Quarterly Report"
//	doc.AddPage(page)
//	doc.RebuildMetadata()
//
// Each [Page] carries its raw text, the Markdown assembled in source order,
// and the recognized headings, paragraphs, lists and tables. Word and
// character counts are always derived from the raw text.
//
// # Segments
//
// Container readers hand text over as [RawSegment] values. A segment may carry
// a [RenderState] describing how the text was painted, which the visibility
// filter uses to drop watermarks and hidden text.
//
// # Tables
//
// A [Table] is a header row plus body rows of plain strings, with
// ToMarkdown and ToCSV export. Ragged rows are preserved as recovered.
package model
