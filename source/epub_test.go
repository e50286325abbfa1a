package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/structura/model"
)

func epubChapter(title, body string) string {
	return `<html xmlns="http://www.w3.org/1999/xhtml"><head><title>` + title + `</title></head><body>` + body + `</body></html>`
}

func epubFile(t *testing.T) []byte {
	t.Helper()
	return zipParts(t, map[string]string{
		"mimetype": "application/epub+zip",
		"META-INF/container.xml": `<container><rootfiles>` +
			`<rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/></rootfiles></container>`,
		"OEBPS/content.opf": `<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
<metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:title>Field Notes</dc:title><dc:creator>Ada Park</dc:creator><dc:creator>Lee Moss</dc:creator>
  <dc:language>en</dc:language><dc:publisher>Quiet Press</dc:publisher>
</metadata>
<manifest>
  <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
  <item id="c1" href="c1.xhtml" media-type="application/xhtml+xml"/>
  <item id="c2" href="c2.xhtml" media-type="application/xhtml+xml"/>
</manifest>
<spine><itemref idref="c1"/><itemref idref="c2"/></spine></package>`,
		"OEBPS/nav.xhtml": `<html><body><nav epub:type="toc"><ol>` +
			`<li><a href="c1.xhtml">Morning Walk</a></li></ol></nav></body></html>`,
		"OEBPS/c1.xhtml": epubChapter("One", `<h1>Morning</h1><p>Dew covered every blade of grass.</p>`),
		"OEBPS/c2.xhtml": epubChapter("Evening", `<h2>Tally</h2>`+
			`<table><thead><tr><th>Bird</th><th>Count</th></tr></thead><tbody><tr><td>Owl</td><td>2</td></tr></tbody></table>`),
	})
}

func TestEPUBParser(t *testing.T) {
	doc, res := parseDoc(t, NewEPUBParser(Options{}), "notes.epub", epubFile(t))

	assert.True(t, res.Hints.Paginated)
	assert.Equal(t, model.FileTypeEPUB, doc.Metadata.FileType)
	assert.Equal(t, "Field Notes", doc.Metadata.Title)
	assert.Equal(t, "Ada Park, Lee Moss", doc.Metadata.Author)
	assert.Equal(t, "en", doc.Metadata.Custom["language"])
	assert.Equal(t, "Quiet Press", doc.Metadata.Custom["publisher"])

	require.Len(t, doc.Pages, 2)
	first := doc.Pages[0]
	assert.Equal(t, "Morning Walk", first.Title)
	assert.Equal(t, 1, first.Source)
	assert.Equal(t, []string{"# Morning"}, first.Headings)
	assert.Equal(t, []string{"Dew covered every blade of grass."}, first.Paragraphs)

	second := doc.Pages[1]
	assert.Equal(t, "Evening", second.Title)
	assert.Equal(t, 2, second.Source)
	assert.Equal(t, []string{"## Tally"}, second.Headings)
	require.Len(t, doc.Tables, 1)
	assert.Contains(t, doc.Tables[0].Headers, "Bird")
}

func TestEPUBParserErrors(t *testing.T) {
	p := NewEPUBParser(Options{})

	_, err := p.Parse(context.Background(), Input{Name: "a.epub"})
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = p.Parse(context.Background(), Input{Name: "a.epub", Data: zipParts(t, map[string]string{"a.txt": "x"})})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Parse(ctx, Input{Name: "a.epub", Data: epubFile(t)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEPUBParserSupports(t *testing.T) {
	p := NewEPUBParser(Options{})
	assert.True(t, p.Supports("book.EPUB", nil))
	assert.False(t, p.Supports("book.zip", nil))
}
