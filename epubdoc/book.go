package epubdoc

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/tsawler/structura/internal/ooxml"
)

// Errors returned by Open.
var (
	ErrInvalidMimetype = errors.New("epub: invalid mimetype (not an EPUB)")
	ErrDRMProtected    = errors.New("epub: DRM-protected content cannot be processed")
	ErrNoContainer     = errors.New("epub: missing META-INF/container.xml")
	ErrNoRootfile      = errors.New("epub: no rootfile in container.xml")
	ErrInvalidPackage  = errors.New("epub: invalid package document")
	ErrEmptySpine      = errors.New("epub: no readable content in spine")
)

// Metadata is the Dublin Core metadata of the package document.
type Metadata struct {
	Title       string
	Creators    []string
	Language    string
	Identifier  string
	Publisher   string
	Description string
	Subjects    []string
	Date        string
	Modified    time.Time
}

// Chapter is one spine item.
type Chapter struct {
	// Number is the 1-based position among the readable chapters.
	Number int
	Href   string
	// Title is the table of contents label for the chapter, if any.
	Title string
	// Linear is false for auxiliary content such as footnote pages.
	Linear  bool
	Content []byte
}

// Book is an opened publication.
type Book struct {
	Version  string
	Metadata Metadata
	Chapters []Chapter
}

// Open reads an EPUB from memory. Spine items whose manifest entry or
// content is missing are skipped.
func Open(data []byte) (*Book, error) {
	arc, err := ooxml.Open(data)
	if err != nil {
		return nil, fmt.Errorf("epub: %w", err)
	}
	if err := checkMimetype(arc); err != nil {
		return nil, err
	}
	if err := checkDRM(arc); err != nil {
		return nil, err
	}

	opfPath, err := rootfile(arc)
	if err != nil {
		return nil, err
	}
	pkg, err := readPackage(arc, opfPath)
	if err != nil {
		return nil, err
	}

	base := path.Dir(opfPath)
	titles := navigationTitles(arc, pkg, base)

	book := &Book{Version: pkg.Version, Metadata: pkg.metadata()}
	for _, ref := range pkg.Spine.ItemRefs {
		item, ok := pkg.item(ref.IDRef)
		if !ok {
			continue
		}
		href := resolve(base, item.Href)
		content, err := arc.Read(href)
		if err != nil {
			continue
		}
		book.Chapters = append(book.Chapters, Chapter{
			Number:  len(book.Chapters) + 1,
			Href:    href,
			Title:   titles[href],
			Linear:  ref.Linear != "no",
			Content: content,
		})
	}
	if len(book.Chapters) == 0 {
		return nil, ErrEmptySpine
	}
	return book, nil
}

// checkMimetype accepts a missing mimetype entry, which some producers
// omit, but rejects any other declared type.
func checkMimetype(arc *ooxml.Archive) error {
	if !arc.Has("mimetype") {
		return nil
	}
	data, err := arc.Read("mimetype")
	if err != nil || strings.TrimSpace(string(data)) != "application/epub+zip" {
		return ErrInvalidMimetype
	}
	return nil
}

// resolve joins a manifest href to the package directory. Fragments are
// dropped and percent escapes decoded.
func resolve(base, href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	if decoded, err := url.PathUnescape(href); err == nil {
		href = decoded
	}
	if base == "." || base == "" {
		return path.Clean(href)
	}
	return path.Join(base, href)
}
