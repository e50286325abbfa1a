package reader

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/structura/model"
)

const (
	// baselineTolerance is the fraction of the font size within which two
	// fragments share a line.
	baselineTolerance = 0.5
	// wordGap is the horizontal gap, as a fraction of the font size, that
	// separates words.
	wordGap = 0.15
	// paragraphGap is the baseline distance, in line heights, above which a
	// blank line is inserted.
	paragraphGap = 1.5
)

type line struct {
	y     float64
	size  float64
	frags []fragment
}

// buildLines groups fragments by baseline and renders them as segments in
// reading order, with blank segments at paragraph breaks.
func buildLines(frags []fragment, page int) []model.RawSegment {
	var lines []*line
	for _, f := range frags {
		if strings.TrimSpace(f.text) == "" {
			continue
		}
		l := findLine(lines, f)
		if l == nil {
			l = &line{y: f.y}
			lines = append(lines, l)
		}
		l.frags = append(l.frags, f)
		l.size = math.Max(l.size, f.size)
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })

	var segs []model.RawSegment
	var prev *line
	for _, l := range lines {
		text := l.text()
		if text == "" {
			continue
		}
		if prev != nil && prev.y-l.y > paragraphGap*math.Min(prev.size, l.size) {
			segs = append(segs, model.RawSegment{Page: page, Index: len(segs)})
		}
		segs = append(segs, model.RawSegment{Text: text, Page: page, Index: len(segs)})
		prev = l
	}
	return segs
}

func findLine(lines []*line, f fragment) *line {
	tol := math.Max(f.size*baselineTolerance, 1)
	for _, l := range lines {
		if math.Abs(l.y-f.y) <= tol {
			return l
		}
	}
	return nil
}

// text joins the line's fragments left to right, inserting a space where
// the gap between them is a word break.
func (l *line) text() string {
	sort.SliceStable(l.frags, func(i, j int) bool { return l.frags[i].x < l.frags[j].x })

	var sb strings.Builder
	for i, f := range l.frags {
		if i > 0 {
			prev := l.frags[i-1]
			gap := f.x - prev.endX
			if gap > wordGap*math.Max(f.size, 1) && !strings.HasSuffix(prev.text, " ") && !strings.HasPrefix(f.text, " ") {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(f.text)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
