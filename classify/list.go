package classify

import (
	"regexp"
	"strings"
)

// listMarker matches line against the list patterns and returns whether the
// item is ordered, its nesting depth and the text after the marker.
func (c *Classifier) listMarker(line string) (ordered bool, depth int, text string, ok bool) {
	if loc := matchAny(c.config.UnorderedPatterns, line); loc != nil {
		return false, Depth(line), strings.TrimSpace(line[loc[1]:]), true
	}
	if loc := matchAny(c.config.OrderedPatterns, line); loc != nil {
		return true, Depth(line), strings.TrimSpace(line[loc[1]:]), true
	}
	return false, 0, "", false
}

func matchAny(patterns []*regexp.Regexp, line string) []int {
	for _, p := range patterns {
		if loc := p.FindStringIndex(line); loc != nil {
			return loc
		}
	}
	return nil
}

// Depth returns the nesting depth implied by the leading whitespace of line:
// every two columns is one level and a tab counts as two columns.
func Depth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 2
		default:
			return width / 2
		}
	}
	return width / 2
}
