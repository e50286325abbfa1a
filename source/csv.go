package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tsawler/structura/assemble"
	"github.com/tsawler/structura/charset"
	"github.com/tsawler/structura/classify"
	"github.com/tsawler/structura/format"
	"github.com/tsawler/structura/logger"
	"github.com/tsawler/structura/model"
)

// csvTableTitle names the single table of a delimited file.
const csvTableTitle = "Data"

// CSVParser reads comma, semicolon, tab or pipe delimited text.
type CSVParser struct {
	classifier *classify.Classifier
	log        logger.Logger
}

// NewCSVParser creates a delimited text parser.
func NewCSVParser(opts Options) *CSVParser {
	return &CSVParser{classifier: opts.classifier(), log: opts.log("csv")}
}

func (p *CSVParser) Name() string { return "csv" }

func (p *CSVParser) Supports(name string, _ []byte) bool {
	return hasExt(name, ".csv", ".tsv")
}

func (p *CSVParser) Parse(ctx context.Context, in Input) (*Result, error) {
	if len(in.Data) == 0 {
		return nil, ErrEmptyInput
	}
	if format.IsBinaryContainer(in.Data) {
		return nil, fmt.Errorf("%w: %s", ErrNotCSV, in.Name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	det := charset.Detect(in.Data)
	text := normalize(det.Text)

	delim := sniffDelimiter(text)
	if hasExt(in.Name, ".tsv") {
		delim = '\t'
	}

	rows, err := readRecords(text, delim)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", in.Name, err)
	}
	p.log.Debug("delimited text read",
		logger.String("file", in.Name),
		logger.String("charset", det.Charset),
		logger.String("delimiter", string(delim)),
		logger.Int("rows", len(rows)))

	segs := make([]model.RawSegment, len(rows))
	for i, row := range rows {
		segs[i] = model.RawSegment{Text: strings.Join(row, "\t"), Index: i, Cells: row, Table: 1}
	}

	meta := newMeta(in, model.FileTypeCSV)
	meta.Charset = det.Charset
	meta.Title = baseName(in.Name)

	return &Result{
		Lines: p.classifier.ClassifySegments(segs, classify.ModeGrid),
		Hints: assemble.Hints{Meta: meta, TableTitles: map[int]string{1: csvTableTitle}},
	}, nil
}

// readRecords parses every record, allowing ragged rows and stray quotes.
func readRecords(text string, delim rune) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		rows = append(rows, rec)
	}
}

// sniffDelimiter picks the candidate that occurs most often in the first
// line, defaulting to a comma.
func sniffDelimiter(text string) rune {
	first, _, _ := strings.Cut(text, "\n")
	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t', '|'} {
		if n := strings.Count(first, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
