package assemble

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/structura/classify"
	"github.com/tsawler/structura/model"
)

// Config holds configuration for document assembly
type Config struct {
	// PageChunkSize is the number of structural elements (headings,
	// paragraphs, lists, code blocks and tables) per synthetic page for
	// sources without real pages. Open blocks are never split.
	// Default: 50
	PageChunkSize int

	// MinParagraphLen is the exclusive rune limit a paragraph must exceed to
	// be recorded in Page.Paragraphs.
	// Default: 10
	MinParagraphLen int
}

// DefaultConfig returns the standard assembly configuration.
func DefaultConfig() Config {
	return Config{
		PageChunkSize:   50,
		MinParagraphLen: 10,
	}
}

// Hints describe the source of the lines being assembled.
type Hints struct {
	// Paginated sources carry real page numbers on every line.
	Paginated bool

	// Meta is copied into the document before its totals are rebuilt.
	Meta model.DocumentMetadata

	// PageTitles optionally names pages by their source page number.
	PageTitles map[int]string

	// TableTitles names tables by the Table id carried on their rows.
	TableTitles map[int]string
}

// Assembler builds documents from classified lines. It is immutable after
// construction and safe for concurrent use.
type Assembler struct {
	config Config
}

// NewAssembler creates an assembler with default configuration
func NewAssembler() *Assembler {
	return &Assembler{config: DefaultConfig()}
}

// NewAssemblerWithConfig creates an assembler with custom configuration.
// Non-positive values take their defaults.
func NewAssemblerWithConfig(config Config) *Assembler {
	def := DefaultConfig()
	if config.PageChunkSize <= 0 {
		config.PageChunkSize = def.PageChunkSize
	}
	if config.MinParagraphLen <= 0 {
		config.MinParagraphLen = def.MinParagraphLen
	}
	return &Assembler{config: config}
}

// Config returns the assembler configuration.
func (a *Assembler) Config() Config {
	return a.config
}

// Assemble folds lines into a document. Pages with no text are dropped and
// the remaining pages are numbered from 1.
func (a *Assembler) Assemble(lines []classify.Line, hints Hints) *model.ParsedDocument {
	doc := model.NewDocument()
	meta := hints.Meta
	if meta.Custom == nil {
		meta.Custom = make(map[string]string)
	}
	doc.Metadata = meta

	var b *pageBuilder

	finish := func() {
		if b == nil {
			return
		}
		if page := b.finish(); page.HasContent() {
			if title, ok := hints.PageTitles[page.Source]; ok && hints.Paginated {
				page.Title = title
			}
			doc.AddPage(page)
		}
		b = nil
	}

	for _, line := range lines {
		switch {
		case b == nil:
		case hints.Paginated:
			if line.Page != 0 && line.Page != b.source {
				finish()
			}
		case line.PageBreak:
			finish()
		case line.Role.Kind != classify.KindBlank && !b.continues(line):
			b.flushAll()
			if b.elements >= a.config.PageChunkSize {
				finish()
			}
		}

		if b == nil {
			source := 0
			if hints.Paginated {
				source = line.Page
			}
			b = newPageBuilder(a.config, source)
			b.tableTitles = hints.TableTitles
		}
		b.add(line)
	}
	finish()

	doc.RebuildMetadata()
	return doc
}

// pageBuilder is the fold state for one page.
type pageBuilder struct {
	config Config
	page   *model.Page
	source int

	raw      []string
	blocks   []string
	elements int

	para   []string
	paraMD []string
	code   []string

	list        []string
	listOrdered bool

	table       *model.Table
	tableID     int
	tableTitles map[int]string
}

func newPageBuilder(config Config, source int) *pageBuilder {
	page := model.NewPage()
	page.Source = source
	return &pageBuilder{config: config, page: page, source: source}
}

// continues reports whether line would extend the block that is open.
func (b *pageBuilder) continues(line classify.Line) bool {
	switch line.Role.Kind {
	case classify.KindParagraphLine:
		return len(b.para) > 0
	case classify.KindListItem:
		return len(b.list) > 0 && b.listOrdered == line.Role.Ordered
	case classify.KindCodeLine:
		return len(b.code) > 0
	case classify.KindTableRow:
		return b.continuesTable(line)
	}
	return false
}

// continuesTable reports whether line would extend the open table.
func (b *pageBuilder) continuesTable(line classify.Line) bool {
	return b.table != nil &&
		line.Role.Kind == classify.KindTableRow &&
		!line.Role.Header &&
		line.Table == b.tableID
}

func (b *pageBuilder) add(line classify.Line) {
	b.raw = append(b.raw, line.Raw)

	switch line.Role.Kind {
	case classify.KindBlank:
		b.flushAll()

	case classify.KindHeading:
		b.flushAll()
		level := min(max(line.Role.Level, 1), 6)
		h := strings.Repeat("#", level) + " " + line.Text
		b.page.Headings = append(b.page.Headings, h)
		b.blocks = append(b.blocks, h)
		b.elements++
		if b.page.Title == "" {
			b.page.Title = line.Text
		}

	case classify.KindListItem:
		b.flushParagraph()
		b.flushCode()
		b.flushTable()
		if b.list != nil && b.listOrdered != line.Role.Ordered {
			b.flushList()
		}
		marker := "- "
		if line.Role.Ordered {
			marker = "1. "
		}
		b.list = append(b.list, strings.Repeat("  ", line.Role.Depth)+marker+markdownText(line))
		b.listOrdered = line.Role.Ordered

	case classify.KindTableRow:
		b.flushParagraph()
		b.flushCode()
		b.flushList()
		if b.table != nil && (line.Role.Header || line.Table != b.tableID) {
			b.flushTable()
		}
		if b.table == nil {
			b.table = model.NewTable()
			b.tableID = line.Table
		}
		cells := append([]string(nil), line.Role.Cells...)
		if line.Role.Header {
			b.table.Headers = cells
		} else {
			b.table.AddRow(cells...)
		}

	case classify.KindCodeLine:
		b.flushParagraph()
		b.flushList()
		b.flushTable()
		b.code = append(b.code, line.Text)

	case classify.KindParagraphLine:
		b.flushCode()
		b.flushList()
		b.flushTable()
		b.para = append(b.para, line.Text)
		b.paraMD = append(b.paraMD, markdownText(line))
	}
}

func (b *pageBuilder) flushAll() {
	b.flushParagraph()
	b.flushCode()
	b.flushList()
	b.flushTable()
}

// flushParagraph closes the paragraph accumulator. Short paragraphs are kept
// in the Markdown but not recorded as paragraphs.
func (b *pageBuilder) flushParagraph() {
	if len(b.para) == 0 {
		return
	}
	text := strings.Join(b.para, " ")
	md := strings.Join(b.paraMD, " ")
	b.para, b.paraMD = nil, nil
	b.elements++
	if utf8.RuneCountInString(text) > b.config.MinParagraphLen {
		b.page.Paragraphs = append(b.page.Paragraphs, text)
	}
	b.blocks = append(b.blocks, escapeLeading(md))
}

// markdownText is the text of line as it goes into the Markdown output.
func markdownText(line classify.Line) string {
	if line.Markdown != "" {
		return line.Markdown
	}
	return line.Text
}

var (
	orderedMarker = regexp.MustCompile(`^(?:\d+|[a-zA-Z])([.)])(?:\s|$)`)
	bulletMarker  = regexp.MustCompile(`^[*+\-](?:\s|$)`)
)

// escapeLeading backslash-escapes a block marker at the start of paragraph
// text so the paragraph still reads as a paragraph when its Markdown is
// classified again.
func escapeLeading(text string) string {
	if m := orderedMarker.FindStringSubmatchIndex(text); m != nil {
		return text[:m[2]] + `\` + text[m[2]:]
	}
	switch {
	case strings.HasPrefix(text, "#"),
		strings.HasPrefix(text, "|"),
		strings.HasPrefix(text, ">"),
		strings.HasPrefix(text, "```"),
		strings.HasPrefix(text, "~~~"),
		bulletMarker.MatchString(text):
		return `\` + text
	}
	return text
}

func (b *pageBuilder) flushCode() {
	if len(b.code) == 0 {
		return
	}
	block := "```\n" + strings.Join(b.code, "\n") + "\n```"
	b.code = nil
	b.elements++
	b.page.Paragraphs = append(b.page.Paragraphs, block)
	b.blocks = append(b.blocks, block)
}

func (b *pageBuilder) flushList() {
	if len(b.list) == 0 {
		return
	}
	block := strings.Join(b.list, "\n")
	b.list = nil
	b.elements++
	b.page.Lists = append(b.page.Lists, block)
	b.blocks = append(b.blocks, block)
}

func (b *pageBuilder) flushTable() {
	if b.table == nil {
		return
	}
	t := b.table
	b.table = nil
	if t.IsEmpty() {
		return
	}
	b.elements++
	t.Title = b.tableTitles[b.tableID]
	b.page.Tables = append(b.page.Tables, t)
	b.blocks = append(b.blocks, strings.TrimRight(t.ToMarkdown(), "\n"))
}

// finish closes every open block and returns the page.
func (b *pageBuilder) finish() *model.Page {
	b.flushAll()
	b.page.SetRawText(strings.Join(b.raw, "\n"))
	if b.page.HasStructure() {
		b.page.MarkdownContent = strings.Join(b.blocks, "\n\n") + "\n"
	}
	return b.page
}
