// Package xlsx reads Excel (.xlsx) workbooks sheet by sheet.
//
// Cells are read through excelize with their display formatting applied.
// Every sheet is one grid whose rows are padded to the widest row.
package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/structura/internal/ooxml"
	"github.com/tsawler/structura/model"
)

// Options controls which sheets are read.
type Options struct {
	// IncludeHidden keeps hidden and very hidden sheets.
	IncludeHidden bool
}

// Sheet is one worksheet. Number is its 1-based position in the workbook.
type Sheet struct {
	Number int
	Name   string
	Hidden bool
	Rows   [][]string
}

// Reader provides access to XLSX workbook content.
type Reader struct {
	file *excelize.File
	opts Options
}

// Open opens an in-memory workbook.
func Open(data []byte, opts Options) (*Reader, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	return &Reader{file: f, opts: opts}, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	return r.file.Close()
}

// SheetCount returns the number of sheets, hidden ones included.
func (r *Reader) SheetCount() int {
	return len(r.file.GetSheetList())
}

// Metadata returns the workbook properties.
func (r *Reader) Metadata() ooxml.CoreProperties {
	props, err := r.file.GetDocProps()
	if err != nil || props == nil {
		return ooxml.CoreProperties{}
	}
	return ooxml.CoreProperties{
		Title:       strings.TrimSpace(props.Title),
		Subject:     strings.TrimSpace(props.Subject),
		Creator:     strings.TrimSpace(props.Creator),
		Keywords:    strings.TrimSpace(props.Keywords),
		Description: strings.TrimSpace(props.Description),
		Created:     ooxml.ParseTime(props.Created),
		Modified:    ooxml.ParseTime(props.Modified),
	}
}

// Sheets reads every sheet in workbook order. Hidden sheets are skipped
// unless Options.IncludeHidden is set.
func (r *Reader) Sheets(ctx context.Context) ([]*Sheet, error) {
	var sheets []*Sheet
	for i, name := range r.file.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		visible, err := r.file.GetSheetVisible(name)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		if !visible && !r.opts.IncludeHidden {
			continue
		}

		rows, err := r.file.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", name, err)
		}
		sheets = append(sheets, &Sheet{
			Number: i + 1,
			Name:   name,
			Hidden: !visible,
			Rows:   pad(rows),
		})
	}
	return sheets, nil
}

// pad extends every row to the width of the widest one. excelize drops
// trailing empty cells, which would otherwise make rows look ragged.
func pad(rows [][]string) [][]string {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, width)
		for j, v := range row {
			cells[j] = strings.TrimSpace(v)
		}
		out[i] = cells
	}
	return out
}

// Segments returns the sheet as grid rows of one table. The table and page
// are the sheet number.
func (s *Sheet) Segments() []model.RawSegment {
	segs := make([]model.RawSegment, 0, len(s.Rows))
	for i, row := range s.Rows {
		segs = append(segs, model.RawSegment{
			Text:  strings.Join(row, "\t"),
			Page:  s.Number,
			Index: i,
			Cells: row,
			Table: s.Number,
		})
	}
	return segs
}
