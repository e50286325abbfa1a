package classify

import (
	"strings"

	"github.com/tsawler/structura/model"
)

// Context is what the classifier knows about the surroundings of a line.
type Context struct {
	Prev    string
	Next    string
	HasPrev bool
	HasNext bool
	Mode    Mode

	// Style is the paragraph style name in ModeStyled.
	Style string

	// InFence is set for lines inside a fenced code block in ModeMarkdown.
	InFence bool

	// Bold and FontSize describe the run formatting of the line in
	// ModeStyled. FontSize is in points, 0 when unknown.
	Bold     bool
	FontSize float64
}

// Result is the outcome of classifying a whole text or segment stream.
type Result struct {
	Lines []Line

	// Dropped counts pipe regions that had no separator row and were not
	// turned into tables.
	Dropped int
}

// Classifier assigns roles to lines. It is immutable after construction and
// safe for concurrent use.
type Classifier struct {
	config Config
}

// NewClassifier creates a classifier with default configuration
func NewClassifier() *Classifier {
	return &Classifier{config: DefaultConfig()}
}

// NewClassifierWithConfig creates a classifier with custom configuration.
// Zero limits and nil patterns take their default values.
func NewClassifierWithConfig(config Config) *Classifier {
	def := DefaultConfig()
	if config.MaxHeadingLen <= 0 {
		config.MaxHeadingLen = def.MaxHeadingLen
	}
	if config.MaxBlankFollowedHeadingLen <= 0 {
		config.MaxBlankFollowedHeadingLen = def.MaxBlankFollowedHeadingLen
	}
	if config.MinHeadingLen <= 0 {
		config.MinHeadingLen = def.MinHeadingLen
	}
	if config.ShortHeadingLen <= 0 {
		config.ShortHeadingLen = def.ShortHeadingLen
	}
	if config.MinParagraphLen <= 0 {
		config.MinParagraphLen = def.MinParagraphLen
	}
	if config.MaxBoldHeadingLen <= 0 {
		config.MaxBoldHeadingLen = def.MaxBoldHeadingLen
	}
	if config.YearPattern == nil {
		config.YearPattern = def.YearPattern
	}
	if config.CurrencyPattern == nil {
		config.CurrencyPattern = def.CurrencyPattern
	}
	if config.ATXHeading == nil {
		config.ATXHeading = def.ATXHeading
	}
	if config.CodeFence == nil {
		config.CodeFence = def.CodeFence
	}
	if config.UnorderedPatterns == nil {
		config.UnorderedPatterns = def.UnorderedPatterns
	}
	if config.OrderedPatterns == nil {
		config.OrderedPatterns = def.OrderedPatterns
	}
	if config.CJKHeadings == nil {
		config.CJKHeadings = def.CJKHeadings
	}
	if config.CJKKeywordSuffixes == nil {
		config.CJKKeywordSuffixes = def.CJKKeywordSuffixes
	}
	if config.TableRowPattern == nil {
		config.TableRowPattern = def.TableRowPattern
	}
	if config.TableSeparatorPattern == nil {
		config.TableSeparatorPattern = def.TableSeparatorPattern
	}
	return &Classifier{config: config}
}

// Config returns the classifier configuration.
func (c *Classifier) Config() Config {
	return c.config
}

// Classify assigns a role to a single line. Pipe tables and grid rows are
// not recognized here; use ClassifyText, ClassifyGrid or ClassifySegments
// for those.
func (c *Classifier) Classify(line string, ctx Context) Line {
	out := Line{Raw: line}
	trimmed := strings.TrimSpace(line)

	if ctx.InFence {
		out.Text = strings.TrimRight(line, " \t")
		out.Role = CodeLine()
		return out
	}

	if trimmed == "" {
		out.Role = Blank()
		return out
	}

	if level, text, ok := c.heading(line, trimmed, ctx); ok {
		out.Text = text
		out.Role = Heading(level)
		return out
	}

	if ctx.Mode != ModeGrid {
		if ordered, depth, text, ok := c.listMarker(line); ok {
			out.Text = text
			out.Role = ListItem(ordered, depth)
			return out
		}
		if ctx.Mode == ModeStyled {
			if ordered, ok := styleList(ctx.Style); ok {
				out.Text = trimmed
				out.Role = ListItem(ordered, 0)
				return out
			}
		}
	}

	if ctx.Mode == ModeFlat {
		if rest, ok := codeIndent(line); ok {
			out.Text = strings.TrimRight(rest, " \t")
			out.Role = CodeLine()
			return out
		}
	}

	out.Text = trimmed
	out.Role = ParagraphLine()
	return out
}

func (c *Classifier) heading(line, trimmed string, ctx Context) (int, string, bool) {
	switch ctx.Mode {
	case ModeMarkdown:
		if level, text, ok := c.atxHeading(line); ok {
			return level, text, true
		}
		if level, ok := c.cjkHeading(trimmed); ok {
			return level, trimmed, true
		}
	case ModeStyled:
		if level := StyleLevel(ctx.Style); level > 0 {
			return level, trimmed, true
		}
		if level, ok := c.formatHeading(trimmed, ctx); ok {
			return level, trimmed, true
		}
		if level, ok := c.cjkHeading(trimmed); ok {
			return level, trimmed, true
		}
	case ModeFlat:
		if level, ok := c.cjkHeading(trimmed); ok {
			return level, trimmed, true
		}
		if level, ok := c.flatHeading(trimmed, ctx); ok {
			return level, trimmed, true
		}
	}
	return 0, "", false
}

// codeIndent strips one level of code indentation: a tab or four spaces.
func codeIndent(line string) (string, bool) {
	if strings.HasPrefix(line, "\t") {
		return line[1:], true
	}
	if strings.HasPrefix(line, "    ") {
		return line[4:], true
	}
	return "", false
}

// item is one line or grid row waiting to be classified.
type item struct {
	raw       string
	page      int
	style     string
	pageBreak bool
	cells     []string
	grid      bool
	table     int
	bold      bool
	fontSize  float64
	markdown  string
}

// Analyze classifies text. Pipe tables are located first, then every other
// line goes through Classify.
func (c *Classifier) Analyze(text string, mode Mode) Result {
	lines := SplitLines(text)
	items := make([]item, len(lines))
	for i, l := range lines {
		items[i] = item{raw: l}
	}
	return c.run(items, mode)
}

// ClassifyText classifies text and returns its lines.
func (c *Classifier) ClassifyText(text string, mode Mode) []Line {
	return c.Analyze(text, mode).Lines
}

// ClassifyGrid classifies pre-delimited rows as a single table.
func (c *Classifier) ClassifyGrid(rows [][]string) []Line {
	items := make([]item, len(rows))
	for i, row := range rows {
		items[i] = item{cells: row, grid: true, table: 1}
	}
	return c.run(items, ModeGrid).Lines
}

// ClassifySegments classifies the segments handed over by a container
// reader. Grid segments become table rows whatever the mode; text segments
// are split into lines and classified in mode.
func (c *Classifier) ClassifySegments(segments []model.RawSegment, mode Mode) []Line {
	return c.AnalyzeSegments(segments, mode).Lines
}

// AnalyzeSegments is ClassifySegments with the malformed table count.
func (c *Classifier) AnalyzeSegments(segments []model.RawSegment, mode Mode) Result {
	var items []item
	for _, seg := range segments {
		if seg.IsGridRow() {
			items = append(items, item{
				cells:     seg.Cells,
				grid:      true,
				table:     seg.Table,
				page:      seg.Page,
				pageBreak: seg.PageBreak,
			})
			continue
		}

		lines := SplitLines(seg.Text)
		if len(lines) == 0 {
			lines = []string{""}
		}
		for i, l := range lines {
			it := item{
				raw:       l,
				page:      seg.Page,
				style:     seg.Style,
				pageBreak: seg.PageBreak && i == 0,
				bold:      seg.Bold,
				fontSize:  seg.FontSize,
			}
			if len(lines) == 1 {
				it.markdown = seg.Markdown
			}
			items = append(items, it)
		}
	}
	return c.run(items, mode)
}

func (c *Classifier) run(items []item, mode Mode) Result {
	raws := make([]string, len(items))
	for i, it := range items {
		if it.grid {
			raws[i] = strings.Join(it.cells, "\t")
		} else {
			raws[i] = it.raw
		}
	}

	inFence, fenceMarker := c.fences(items, mode)

	eligible := func(i int) bool {
		return mode != ModeGrid && !items[i].grid && !inFence[i] && !fenceMarker[i]
	}
	spans, dropped := c.scanTables(raws, eligible)

	const (
		spanNone = iota
		spanHeader
		spanSep
		spanBody
	)
	spanRole := make([]int, len(items))
	spanID := make([]int, len(items))
	for n, s := range spans {
		for i := s.start; i < s.end; i++ {
			spanID[i] = -(n + 1)
			switch {
			case i == s.start:
				spanRole[i] = spanHeader
			case i == s.sep:
				spanRole[i] = spanSep
			default:
				spanRole[i] = spanBody
			}
		}
	}

	res := Result{Dropped: dropped, Lines: make([]Line, 0, len(items))}
	pendingBreak := false
	lastGridTable := 0
	prevWasGrid := false

	emit := func(l Line, it item) {
		l.Page = it.page
		l.PageBreak = pendingBreak || it.pageBreak
		pendingBreak = false
		res.Lines = append(res.Lines, l)
	}

	for i, it := range items {
		switch {
		case it.grid:
			if allEmpty(it.cells) {
				pendingBreak = pendingBreak || it.pageBreak
				continue
			}
			header := c.config.GridHeader && (!prevWasGrid || it.table != lastGridTable)
			cells := append([]string(nil), it.cells...)
			emit(Line{
				Text:  strings.Join(cells, " | "),
				Raw:   raws[i],
				Role:  TableRow(cells, header),
				Table: it.table,
			}, it)
			lastGridTable = it.table
			prevWasGrid = true
			continue

		case spanRole[i] == spanSep:
			pendingBreak = pendingBreak || it.pageBreak
			continue

		case spanRole[i] != spanNone:
			cells := SplitRow(it.raw)
			emit(Line{
				Text:  strings.Join(cells, " | "),
				Raw:   it.raw,
				Role:  TableRow(cells, spanRole[i] == spanHeader),
				Table: spanID[i],
			}, it)

		case fenceMarker[i]:
			emit(Line{Raw: it.raw, Role: Blank()}, it)

		default:
			ctx := Context{
				Mode:     mode,
				Style:    it.style,
				InFence:  inFence[i],
				Bold:     it.bold,
				FontSize: it.fontSize,
			}
			if i > 0 {
				ctx.Prev, ctx.HasPrev = raws[i-1], true
			}
			if i+1 < len(items) {
				ctx.Next, ctx.HasNext = raws[i+1], true
			}
			l := c.Classify(it.raw, ctx)
			if it.markdown != "" && (l.Role.Kind == KindParagraphLine || l.Role.Kind == KindListItem) {
				l.Markdown = strings.TrimSpace(it.markdown)
			}
			emit(l, it)
		}
		prevWasGrid = false
	}

	return res
}

// fences marks fenced code in Markdown mode. An unterminated fence runs to
// the end of the input.
func (c *Classifier) fences(items []item, mode Mode) (inFence, marker []bool) {
	inFence = make([]bool, len(items))
	marker = make([]bool, len(items))
	if mode != ModeMarkdown {
		return inFence, marker
	}

	open := ""
	for i, it := range items {
		if it.grid {
			continue
		}
		m := c.config.CodeFence.FindStringSubmatch(it.raw)
		switch {
		case open == "" && m != nil:
			open = m[1]
			marker[i] = true
		case open != "" && closesFence(it.raw, open):
			open = ""
			marker[i] = true
		case open != "":
			inFence[i] = true
		}
	}
	return inFence, marker
}

// SplitLines splits text into lines. CRLF and CR line endings are
// normalized and trailing empty lines are dropped.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// closesFence reports whether line is a bare run of the opening fence
// character at least as long as the opening fence.
func closesFence(line, open string) bool {
	t := strings.TrimSpace(line)
	return len(t) >= len(open) && strings.Trim(t, open[:1]) == ""
}
