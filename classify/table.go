package classify

import "strings"

// tableSpan is a pipe table located by the block scan. Lines [start, end)
// belong to the table and sep is the separator line.
type tableSpan struct {
	start int
	sep   int
	end   int
}

// scanTables finds pipe tables in lines. A run of pipe lines with no
// separator under its first row is malformed: it is counted and left for the
// per-line rules.
func (c *Classifier) scanTables(lines []string, eligible func(int) bool) ([]tableSpan, int) {
	var spans []tableSpan
	dropped := 0

	for i := 0; i < len(lines); {
		if !eligible(i) || !c.config.TableRowPattern.MatchString(lines[i]) {
			i++
			continue
		}

		j := i + 1
		for j < len(lines) && eligible(j) && c.config.TableRowPattern.MatchString(lines[j]) {
			j++
		}

		found := false
		for k := i; k+1 < j; k++ {
			if c.config.TableSeparatorPattern.MatchString(lines[k]) {
				continue
			}
			if c.config.TableSeparatorPattern.MatchString(lines[k+1]) {
				if k > i {
					dropped++
				}
				spans = append(spans, tableSpan{start: k, sep: k + 1, end: j})
				found = true
				break
			}
		}
		if !found {
			dropped++
		}
		i = j
	}

	return spans, dropped
}

// SplitRow splits a pipe table line into trimmed cells. Escaped pipes ("\|")
// are kept as literal pipes inside a cell.
func SplitRow(line string) []string {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, "|")
	if strings.HasSuffix(s, "|") && !strings.HasSuffix(s, `\|`) {
		s = s[:len(s)-1]
	}

	var cells []string
	var cell strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == '|':
			cell.WriteByte('|')
			i++
		case s[i] == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(s[i])
		}
	}
	cells = append(cells, strings.TrimSpace(cell.String()))
	return cells
}

// allEmpty reports whether every cell is blank.
func allEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
