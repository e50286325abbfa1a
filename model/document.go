package model

import (
	"fmt"
	"strings"
	"time"
)

// PageSeparator is placed between pages in whole-document Markdown.
const PageSeparator = "\n\n---\n\n"

// ParsedDocument is the canonical form of a recovered document.
type ParsedDocument struct {
	Metadata DocumentMetadata `json:"metadata" yaml:"metadata"`
	Pages    []*Page          `json:"pages" yaml:"pages"`
	// Tables is a flattened view of every page's tables in page order.
	Tables []*Table `json:"tables,omitempty" yaml:"tables,omitempty"`
}

// NewDocument creates a new empty document
func NewDocument() *ParsedDocument {
	return &ParsedDocument{
		Metadata: DocumentMetadata{
			Custom: make(map[string]string),
		},
		Pages:  make([]*Page, 0),
		Tables: make([]*Table, 0),
	}
}

// AddPage adds a page to the document and numbers it.
func (d *ParsedDocument) AddPage(page *Page) {
	page.Number = len(d.Pages) + 1
	d.Pages = append(d.Pages, page)
	d.Tables = append(d.Tables, page.Tables...)
}

// GetPage returns a page by number (1-indexed)
func (d *ParsedDocument) GetPage(number int) *Page {
	if number < 1 || number > len(d.Pages) {
		return nil
	}
	return d.Pages[number-1]
}

// PageCount returns the total number of pages
func (d *ParsedDocument) PageCount() int {
	return len(d.Pages)
}

// RebuildMetadata recomputes the metadata totals from the pages.
func (d *ParsedDocument) RebuildMetadata() {
	m := &d.Metadata
	m.TotalPages = len(d.Pages)
	m.TotalWords = 0
	m.TotalCharacters = 0
	m.TotalTables = 0
	for _, p := range d.Pages {
		m.TotalWords += p.WordCount
		m.TotalCharacters += p.CharCount
		m.TotalTables += len(p.Tables)
	}
	if m.MimeType == "" {
		m.MimeType = m.FileType.MimeType()
	}
}

// Text returns the raw text of every page separated by blank lines.
func (d *ParsedDocument) Text() string {
	parts := make([]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		parts = append(parts, p.RawText)
	}
	return strings.Join(parts, "\n\n")
}

// Markdown returns the Markdown of every page, separated by a horizontal
// rule when there is more than one page.
func (d *ParsedDocument) Markdown() string {
	parts := make([]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		md := strings.Trim(p.ToMarkdown(), "\n")
		if md == "" {
			continue
		}
		parts = append(parts, md)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, PageSeparator) + "\n"
}

// MarkdownOptions controls whole-document Markdown rendering.
type MarkdownOptions struct {
	// IncludeInfo prepends the title, author and a Document Information section.
	IncludeInfo bool
}

// ToMarkdown renders the document, optionally with a metadata preamble.
func (d *ParsedDocument) ToMarkdown(opts MarkdownOptions) string {
	if !opts.IncludeInfo {
		return d.Markdown()
	}

	var sb strings.Builder
	m := d.Metadata
	if m.Title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", m.Title)
	}
	if m.Author != "" {
		fmt.Fprintf(&sb, "**Author:** %s\n\n", m.Author)
	}

	sb.WriteString("## Document Information\n\n")
	if m.FileName != "" {
		fmt.Fprintf(&sb, "- **File Name:** %s\n", m.FileName)
	}
	fmt.Fprintf(&sb, "- **File Type:** %s\n", m.FileType)
	if m.FileSize > 0 {
		fmt.Fprintf(&sb, "- **File Size:** %s\n", FormatFileSize(m.FileSize))
	}
	fmt.Fprintf(&sb, "- **Total Pages:** %d\n", m.TotalPages)
	fmt.Fprintf(&sb, "- **Total Words:** %d\n", m.TotalWords)
	fmt.Fprintf(&sb, "- **Total Characters:** %d\n", m.TotalCharacters)
	if m.Subject != "" {
		fmt.Fprintf(&sb, "- **Subject:** %s\n", m.Subject)
	}
	if m.Keywords != "" {
		fmt.Fprintf(&sb, "- **Keywords:** %s\n", m.Keywords)
	}
	if !m.Created.IsZero() {
		fmt.Fprintf(&sb, "- **Created:** %s\n", m.Created.Format(time.RFC3339))
	}
	if !m.Modified.IsZero() {
		fmt.Fprintf(&sb, "- **Modified:** %s\n", m.Modified.Format(time.RFC3339))
	}
	sb.WriteString("\n")

	sb.WriteString(d.Markdown())
	return sb.String()
}
