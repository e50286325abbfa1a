// Package assemble folds classified lines into the canonical document model.
//
// The [Assembler] walks a []classify.Line once. Consecutive paragraph lines
// are joined into paragraphs, adjacent list items of the same kind into one
// list block, table rows into tables and code lines into fenced blocks.
// Every page records its raw text and the Markdown for its content in source
// order.
//
// Paginated sources (PDF pages, sheets, slides) start a new page whenever
// the line's page number changes. Other sources start a new page at an
// explicit page break or after a fixed number of non-blank lines, and never
// split an open table.
package assemble
