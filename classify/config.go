package classify

import "regexp"

// Mode tells the classifier what kind of source a line came from.
type Mode int

const (
	// ModeFlat is text with no markup: PDF text, plain text and OCR output.
	ModeFlat Mode = iota
	// ModeMarkdown is Markdown, including HTML converted to Markdown.
	ModeMarkdown
	// ModeStyled is word-processor paragraphs that carry a style name.
	ModeStyled
	// ModeGrid is pre-delimited rows from CSV, sheets and document tables.
	ModeGrid
)

// String returns a string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeFlat:
		return "flat"
	case ModeMarkdown:
		return "markdown"
	case ModeStyled:
		return "styled"
	case ModeGrid:
		return "grid"
	default:
		return "unknown"
	}
}

// CJKHeadingRule maps a CJK heading marker to a heading level.
type CJKHeadingRule struct {
	Pattern *regexp.Regexp
	Level   int
}

// Config holds configuration for line classification
type Config struct {
	// MaxHeadingLen is the exclusive rune limit for an upper-case flat heading.
	// Default: 80
	MaxHeadingLen int

	// MaxBlankFollowedHeadingLen is the exclusive rune limit for a flat line
	// that is a heading because the next line is blank.
	// Default: 60
	MaxBlankFollowedHeadingLen int

	// MinHeadingLen is the exclusive lower rune limit for an upper-case flat
	// heading.
	// Default: 3
	MinHeadingLen int

	// ShortHeadingLen is the exclusive rune limit below which an upper-case
	// flat heading gets level 2 instead of 3.
	// Default: 30
	ShortHeadingLen int

	// MaxBoldHeadingLen is the exclusive rune limit under which an all-bold
	// paragraph in ModeStyled is a heading whatever its font size.
	// Default: 50
	MaxBoldHeadingLen int

	// MinParagraphLen is the exclusive rune limit a flushed paragraph must
	// exceed to be kept as a paragraph.
	// Default: 10
	MinParagraphLen int

	// GridHeader makes the first non-empty row of every grid a header row.
	// Default: true
	GridHeader bool

	// YearPattern and CurrencyPattern veto the upper-case heading rule.
	YearPattern     *regexp.Regexp
	CurrencyPattern *regexp.Regexp

	// ATXHeading matches Markdown headings. The first group is the hashes.
	ATXHeading *regexp.Regexp

	// CodeFence matches the start or end of a fenced code block.
	CodeFence *regexp.Regexp

	// UnorderedPatterns and OrderedPatterns match list markers, including
	// the leading whitespace and the space after the marker.
	UnorderedPatterns []*regexp.Regexp
	OrderedPatterns   []*regexp.Regexp

	// CJKHeadings apply to lines containing a CJK ideograph, in order.
	CJKHeadings []CJKHeadingRule

	// CJKKeywordSuffixes mark a short CJK line as a level 3 heading.
	CJKKeywordSuffixes *regexp.Regexp

	// TableRowPattern matches a line of a pipe table.
	TableRowPattern *regexp.Regexp

	// TableSeparatorPattern matches the separator line under a pipe table
	// header.
	TableSeparatorPattern *regexp.Regexp
}

// DefaultConfig returns the standard classification rules.
func DefaultConfig() Config {
	return Config{
		MaxHeadingLen:              80,
		MaxBlankFollowedHeadingLen: 60,
		MinHeadingLen:              3,
		ShortHeadingLen:            30,
		MinParagraphLen:            10,
		MaxBoldHeadingLen:          50,
		GridHeader:                 true,
		YearPattern:                regexp.MustCompile(`\d{4}`),
		CurrencyPattern:            regexp.MustCompile(`\$\d+`),
		ATXHeading:                 regexp.MustCompile(`^\s{0,3}(#{1,6})\s+(.*?)(?:\s+#+)?\s*$`),
		CodeFence:                  regexp.MustCompile("^\\s{0,3}(```|~~~)"),
		UnorderedPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^\s*[•*\-+]\s+`),
			regexp.MustCompile(`^\s*[→►▪▫◦‣⁃]\s+`),
		},
		OrderedPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^\s*\d+[.)]\s+`),
			regexp.MustCompile(`^\s*[a-zA-Z][.)]\s+`),
		},
		CJKHeadings: []CJKHeadingRule{
			{regexp.MustCompile(`^第[一二三四五六七八九十]+[章节部分篇]`), 1},
			{regexp.MustCompile(`^[一二三四五六七八九十]+[、.。]`), 2},
			{regexp.MustCompile(`^\d+[、.。]`), 3},
			{regexp.MustCompile(`^[(（][一二三四五六七八九十0-9]+[)）]`), 3},
			{regexp.MustCompile(`^[①-⑩]`), 3},
		},
		CJKKeywordSuffixes:    regexp.MustCompile(`(概述|简介|介绍|总结|结论|背景|目的|方法|结果)$`),
		TableRowPattern:       regexp.MustCompile(`^\s*\|.*\|\s*$`),
		TableSeparatorPattern: regexp.MustCompile(`^\s*\|\s*[-:]+\s*\|`),
	}
}
