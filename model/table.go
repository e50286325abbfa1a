package model

import (
	"strings"
)

// Table is a recovered table. Headers may be empty when the source had no
// header row. Rows are kept exactly as recovered; a row whose cell count
// differs from the header is not padded or truncated.
type Table struct {
	Title   string     `json:"title,omitempty" yaml:"title,omitempty"`
	Headers []string   `json:"headers,omitempty" yaml:"headers,omitempty"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// NewTable creates a table with the given header row.
func NewTable(headers ...string) *Table {
	return &Table{
		Headers: headers,
		Rows:    make([][]string, 0),
	}
}

// AddRow appends a body row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// RowCount returns the number of body rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the widest of the header and body rows.
func (t *Table) ColCount() int {
	n := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// IsEmpty reports whether the table has neither headers nor rows.
func (t *Table) IsEmpty() bool {
	return len(t.Headers) == 0 && len(t.Rows) == 0
}

// IsRagged reports whether any body row has a different cell count than the
// header row.
func (t *Table) IsRagged() bool {
	if len(t.Headers) == 0 {
		return false
	}
	for _, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return true
		}
	}
	return false
}

// GetText returns the table as tab-separated lines.
func (t *Table) GetText() string {
	var sb strings.Builder
	if len(t.Headers) > 0 {
		sb.WriteString(strings.Join(t.Headers, "\t"))
		sb.WriteString("\n")
	}
	for _, row := range t.Rows {
		sb.WriteString(strings.Join(row, "\t"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToMarkdown converts the table to a pipe table. A table without headers
// uses its first row as the header line so the output stays a valid table.
func (t *Table) ToMarkdown() string {
	headers := t.Headers
	rows := t.Rows
	if len(headers) == 0 {
		if len(rows) == 0 {
			return ""
		}
		headers, rows = rows[0], rows[1:]
	}
	if len(headers) == 0 {
		return ""
	}

	var sb strings.Builder
	writeMarkdownRow(&sb, headers)

	sb.WriteString("|")
	for range headers {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	for _, row := range rows {
		writeMarkdownRow(&sb, row)
	}
	return sb.String()
}

func writeMarkdownRow(sb *strings.Builder, cells []string) {
	sb.WriteString("|")
	for _, cell := range cells {
		sb.WriteString(" ")
		sb.WriteString(EscapeCell(cell))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

// EscapeCell makes a cell value safe for a single pipe-table cell.
func EscapeCell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.TrimSpace(s)
}

// ToCSV converts the table to CSV format
func (t *Table) ToCSV() string {
	var sb strings.Builder
	if len(t.Headers) > 0 {
		writeCSVRow(&sb, t.Headers)
	}
	for _, row := range t.Rows {
		writeCSVRow(&sb, row)
	}
	return sb.String()
}

func writeCSVRow(sb *strings.Builder, row []string) {
	for j, text := range row {
		// Escape quotes and wrap in quotes if necessary
		if strings.ContainsAny(text, ",\"\n") {
			text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
		}
		sb.WriteString(text)
		if j < len(row)-1 {
			sb.WriteString(",")
		}
	}
	sb.WriteString("\n")
}
