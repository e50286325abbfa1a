package source

import (
	"context"
	"fmt"

	"github.com/tsawler/structura/assemble"
	"github.com/tsawler/structura/classify"
	"github.com/tsawler/structura/logger"
	"github.com/tsawler/structura/model"
	"github.com/tsawler/structura/xlsx"
)

// ExcelParser reads Excel (.xlsx, .xlsm) workbooks, one page and one table
// per sheet.
type ExcelParser struct {
	classifier    *classify.Classifier
	includeHidden bool
	log           logger.Logger
}

// NewExcelParser creates an Excel parser.
func NewExcelParser(opts Options) *ExcelParser {
	return &ExcelParser{classifier: opts.classifier(), includeHidden: opts.IncludeHidden, log: opts.log("excel")}
}

func (p *ExcelParser) Name() string { return "excel" }

func (p *ExcelParser) Supports(name string, _ []byte) bool {
	return hasExt(name, ".xlsx", ".xlsm")
}

func (p *ExcelParser) Parse(ctx context.Context, in Input) (*Result, error) {
	if len(in.Data) == 0 {
		return nil, ErrEmptyInput
	}

	r, err := xlsx.Open(in.Data, xlsx.Options{IncludeHidden: p.includeHidden})
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", in.Name, err)
	}
	defer r.Close()

	sheets, err := r.Sheets(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", in.Name, err)
	}

	var lines []classify.Line
	pageTitles := make(map[int]string, len(sheets))
	tableTitles := make(map[int]string, len(sheets))
	for _, sheet := range sheets {
		pageTitles[sheet.Number] = sheet.Name
		tableTitles[sheet.Number] = sheet.Name

		segs := sheet.Segments()
		normalizeSegments(segs)
		lines = append(lines, heading(sheet.Name, 1, sheet.Number))
		lines = append(lines, p.classifier.ClassifySegments(segs, classify.ModeGrid)...)
		p.log.Debug("sheet read", logger.String("sheet", sheet.Name), logger.Int("rows", len(sheet.Rows)))
	}

	meta := newMeta(in, model.FileTypeExcel)
	r.Metadata().Apply(&meta)
	meta.TotalSheets = len(sheets)
	FallbackTitle(&meta, in.Name)

	return &Result{
		Lines: lines,
		Hints: assemble.Hints{Paginated: true, Meta: meta, PageTitles: pageTitles, TableTitles: tableTitles},
	}, nil
}
