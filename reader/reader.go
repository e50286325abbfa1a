package reader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/structura/model"
	"github.com/tsawler/structura/visibility"
)

// ErrEncrypted is returned for password protected files.
var ErrEncrypted = errors.New("encrypted PDF files are not supported")

// Info holds the document information dictionary.
type Info struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
	Created  time.Time
	Modified time.Time
}

// Apply copies the non-empty fields into meta.
func (i Info) Apply(meta *model.DocumentMetadata) {
	if i.Title != "" {
		meta.Title = i.Title
	}
	if i.Author != "" {
		meta.Author = i.Author
	}
	if i.Subject != "" {
		meta.Subject = i.Subject
	}
	if i.Keywords != "" {
		meta.Keywords = i.Keywords
	}
	if !i.Created.IsZero() {
		meta.Created = i.Created
	}
	if !i.Modified.IsZero() {
		meta.Modified = i.Modified
	}
	if meta.Custom == nil {
		meta.Custom = make(map[string]string)
	}
	if i.Creator != "" {
		meta.Custom["creator"] = i.Creator
	}
	if i.Producer != "" {
		meta.Custom["producer"] = i.Producer
	}
}

// Page is the visible text of one PDF page.
type Page struct {
	Number   int
	Segments []model.RawSegment
	Stats    visibility.Stats
}

// Text returns the page lines joined by newlines.
func (p *Page) Text() string {
	lines := make([]string, len(p.Segments))
	for i, seg := range p.Segments {
		lines[i] = seg.Text
	}
	return strings.Join(lines, "\n")
}

// PageError records a page that could not be interpreted.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// Reader reads text from a PDF held in memory.
type Reader struct {
	doc    *pdf.Reader
	filter *visibility.Filter
}

// Open parses the cross-reference table and trailer of data. A nil filter
// uses the default visibility rules.
func Open(data []byte, filter *visibility.Filter) (r *Reader, err error) {
	if filter == nil {
		filter = visibility.NewFilter()
	}

	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, fmt.Errorf("malformed PDF: %v", rec)
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if strings.Contains(err.Error(), "encrypt") {
			return nil, ErrEncrypted
		}
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	return &Reader{doc: doc, filter: filter}, nil
}

// PageCount returns the number of pages in the page tree.
func (r *Reader) PageCount() int {
	return r.doc.NumPage()
}

// Info returns the trailer's document information dictionary.
func (r *Reader) Info() (info Info) {
	defer func() {
		if rec := recover(); rec != nil {
			info = Info{}
		}
	}()

	d := r.doc.Trailer().Key("Info")
	if d.IsNull() {
		return Info{}
	}
	text := func(key string) string {
		return strings.TrimSpace(d.Key(key).Text())
	}
	return Info{
		Title:    text("Title"),
		Author:   text("Author"),
		Subject:  text("Subject"),
		Keywords: text("Keywords"),
		Creator:  text("Creator"),
		Producer: text("Producer"),
		Created:  ParseDate(text("CreationDate")),
		Modified: ParseDate(text("ModDate")),
	}
}

// Page interprets page n (1-based) and returns its visible lines.
func (r *Reader) Page(n int) (page *Page, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			page, err = nil, &PageError{Page: n, Err: fmt.Errorf("%v", rec)}
		}
	}()

	if n < 1 || n > r.doc.NumPage() {
		return nil, &PageError{Page: n, Err: fmt.Errorf("page out of range (1-%d)", r.doc.NumPage())}
	}
	p := r.doc.Page(n)
	if p.V.IsNull() {
		return &Page{Number: n, Stats: visibility.Stats{Dropped: map[visibility.Reason]int{}}}, nil
	}

	in := newInterpreter(r.filter)
	in.run(p.V.Key("Contents"), p.Resources())
	in.annotations(p.V.Key("Annots"))

	segs := make([]model.RawSegment, len(in.frags))
	for i := range in.frags {
		rs := in.frags[i].render
		segs[i] = model.RawSegment{Text: in.frags[i].text, Page: n, Index: i, Render: &rs}
	}
	kept, stats := r.filter.SegmentsWithStats(segs)
	for reason, c := range in.dropped {
		stats.Dropped[reason] += c
	}

	frags := make([]fragment, len(kept))
	for i, seg := range kept {
		frags[i] = in.frags[seg.Index]
	}

	return &Page{Number: n, Segments: buildLines(frags, n), Stats: stats}, nil
}

// Pages returns every page with visible text. Pages that fail are reported
// separately and skipped; the error is non-nil only when ctx is done.
func (r *Reader) Pages(ctx context.Context) ([]*Page, []*PageError, error) {
	var pages []*Page
	var failed []*PageError

	for n := 1; n <= r.doc.NumPage(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		page, err := r.Page(n)
		if err != nil {
			var pe *PageError
			if !errors.As(err, &pe) {
				pe = &PageError{Page: n, Err: err}
			}
			failed = append(failed, pe)
			continue
		}
		if strings.TrimSpace(page.Text()) == "" {
			continue
		}
		pages = append(pages, page)
	}
	return pages, failed, nil
}

// ParseDate parses a PDF date string such as D:20240102150405+02'00'.
// Missing trailing fields default to their minimum; an unparseable value
// yields the zero time.
func ParseDate(s string) time.Time {
	s = strings.TrimPrefix(strings.TrimSpace(s), "D:")
	digits := 0
	for digits < len(s) && digits < 14 && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits < 4 {
		return time.Time{}
	}
	stamp := s[:digits] + "0101000000"[digits-4:]
	t, err := time.Parse("20060102150405", stamp)
	if err != nil {
		return time.Time{}
	}

	zone := strings.ReplaceAll(s[digits:], "'", "")
	if zone == "" || zone[0] == 'Z' {
		return t
	}
	sign := 1
	switch zone[0] {
	case '-':
		sign = -1
	case '+':
	default:
		return t
	}
	zone = zone[1:]
	if len(zone) < 2 {
		return t
	}
	hh, err := strconv.Atoi(zone[:2])
	if err != nil {
		return t
	}
	mm := 0
	if len(zone) >= 4 {
		mm, _ = strconv.Atoi(zone[2:4])
	}
	offset := sign * (hh*3600 + mm*60)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.FixedZone("", offset))
}
