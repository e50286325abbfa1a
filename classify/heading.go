package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tsawler/structura/charset"
)

// flatHeading applies the typographic heading rules for unmarked text.
func (c *Classifier) flatHeading(line string, ctx Context) (int, bool) {
	n := utf8.RuneCountInString(line)
	upper := isUpperCase(line)

	capsRule := n < c.config.MaxHeadingLen &&
		upper &&
		!c.config.YearPattern.MatchString(line) &&
		!c.config.CurrencyPattern.MatchString(line) &&
		n > c.config.MinHeadingLen
	blankRule := n < c.config.MaxBlankFollowedHeadingLen &&
		ctx.HasNext && strings.TrimSpace(ctx.Next) == ""

	if !capsRule && !blankRule {
		return 0, false
	}
	if n < c.config.ShortHeadingLen && upper {
		return 2, true
	}
	return 3, true
}

// Point sizes from which an all-bold paragraph is a level 1, 2 or 3 heading.
const (
	boldLevel1Size = 20
	boldLevel2Size = 16
	boldLevel3Size = 14
)

// formatHeading treats an all-bold paragraph as a heading when it is set in
// a large font or is short. The font size picks the level.
func (c *Classifier) formatHeading(line string, ctx Context) (int, bool) {
	if !ctx.Bold {
		return 0, false
	}
	if ctx.FontSize < boldLevel3Size && utf8.RuneCountInString(line) >= c.config.MaxBoldHeadingLen {
		return 0, false
	}
	switch {
	case ctx.FontSize >= boldLevel1Size:
		return 1, true
	case ctx.FontSize >= boldLevel2Size:
		return 2, true
	}
	return 3, true
}

// isUpperCase reports whether line equals its upper-case form and has at
// least one cased letter. Text without case, such as CJK, is never upper case.
func isUpperCase(line string) bool {
	if line != strings.ToUpper(line) {
		return false
	}
	for _, r := range line {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// cjkHeading applies the Chinese heading markers. It only fires for lines
// that contain at least one CJK ideograph.
func (c *Classifier) cjkHeading(line string) (int, bool) {
	if !charset.ContainsCJK(line) {
		return 0, false
	}
	for _, rule := range c.config.CJKHeadings {
		if rule.Pattern.MatchString(line) {
			return rule.Level, true
		}
	}
	if utf8.RuneCountInString(line) < c.config.ShortHeadingLen && c.config.CJKKeywordSuffixes.MatchString(line) {
		return 3, true
	}
	return 0, false
}

// atxHeading recognizes "# Heading" lines and returns the level and text.
func (c *Classifier) atxHeading(line string) (int, string, bool) {
	m := c.config.ATXHeading.FindStringSubmatch(line)
	if m == nil || strings.TrimSpace(m[2]) == "" {
		return 0, "", false
	}
	return len(m[1]), strings.TrimSpace(m[2]), true
}

// StyleLevel maps a word-processor paragraph style name to a heading level.
// Names are compared without case, spaces, underscores or hyphens, so
// "heading 1", "Heading1" and "HEADING_1" are equal. It returns 0 for styles
// that are not headings.
func StyleLevel(style string) int {
	switch normalizeStyle(style) {
	case "title", "heading1":
		return 1
	case "subtitle", "heading2":
		return 2
	case "heading3":
		return 3
	case "heading4":
		return 4
	case "heading5":
		return 5
	case "heading6":
		return 6
	default:
		return 0
	}
}

// styleList reports whether a paragraph style marks a list item, and if so
// whether the list is numbered.
func styleList(style string) (ordered, ok bool) {
	s := normalizeStyle(style)
	if !strings.HasPrefix(s, "list") {
		return false, false
	}
	return strings.Contains(s, "number"), true
}

func normalizeStyle(style string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(style)))
}
