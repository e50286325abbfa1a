// Package docx reads Word (.docx) documents into raw segments.
//
// The body of word/document.xml is streamed in document order. Each
// paragraph becomes one segment carrying its resolved style name, list
// paragraphs are given a Markdown list marker and table rows become grid
// segments. Explicit and rendered page breaks are passed on as hints.
package docx
