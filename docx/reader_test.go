package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/structura/classify"
)

const wNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

const testStyles = `<?xml version="1.0" encoding="UTF-8"?>
<w:styles ` + wNS + `>
  <w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/></w:style>
  <w:style w:type="paragraph" w:styleId="Chapter"><w:name w:val="Chapter"/><w:pPr><w:outlineLvl w:val="0"/></w:pPr></w:style>
  <w:style w:type="paragraph" w:styleId="Section"><w:name w:val="Section"/><w:basedOn w:val="Chapter2"/></w:style>
  <w:style w:type="paragraph" w:styleId="Chapter2"><w:name w:val="Chapter Two"/><w:pPr><w:outlineLvl w:val="1"/></w:pPr></w:style>
  <w:style w:type="paragraph" w:styleId="BodyText"><w:name w:val="Body Text"/><w:pPr><w:outlineLvl w:val="9"/></w:pPr></w:style>
  <w:style w:type="character" w:styleId="Strong"><w:name w:val="Strong"/></w:style>
</w:styles>`

const testNumbering = `<?xml version="1.0" encoding="UTF-8"?>
<w:numbering ` + wNS + `>
  <w:abstractNum w:abstractNumId="0">
    <w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/></w:lvl>
    <w:lvl w:ilvl="1"><w:numFmt w:val="bullet"/></w:lvl>
  </w:abstractNum>
  <w:abstractNum w:abstractNumId="1">
    <w:lvl w:ilvl="0"><w:numFmt w:val="decimal"/></w:lvl>
  </w:abstractNum>
  <w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
  <w:num w:numId="2"><w:abstractNumId w:val="1"/></w:num>
</w:numbering>`

func para(style, text string) string {
	ppr := ""
	if style != "" {
		ppr = `<w:pPr><w:pStyle w:val="` + style + `"/></w:pPr>`
	}
	return `<w:p>` + ppr + `<w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func listPara(numID, ilvl, text string) string {
	return `<w:p><w:pPr><w:pStyle w:val="ListParagraph"/><w:numPr><w:ilvl w:val="` + ilvl +
		`"/><w:numId w:val="` + numID + `"/></w:numPr></w:pPr><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func buildDOCX(t *testing.T, body string, extra map[string]string) []byte {
	t.Helper()
	parts := map[string]string{
		"[Content_Types].xml": `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?><w:document ` + wNS +
			`><w:body>` + body + `<w:sectPr/></w:body></w:document>`,
	}
	for k, v := range extra {
		parts[k] = v
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func readSegments(t *testing.T, data []byte) []string {
	t.Helper()
	r, err := Open(data)
	require.NoError(t, err)
	segs, err := r.Segments(context.Background())
	require.NoError(t, err)
	texts := make([]string, len(segs))
	for i, s := range segs {
		texts[i] = s.Text
	}
	return texts
}

func TestOpenValidation(t *testing.T) {
	_, err := Open([]byte("not a zip"))
	assert.Error(t, err)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err = zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	_, err = Open(buf.Bytes())
	assert.ErrorContains(t, err, "word/document.xml")
}

func TestParagraphText(t *testing.T) {
	body := `<w:p><w:r><w:t xml:space="preserve">Hello </w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t>world</w:t></w:r></w:p>` +
		`<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>line</w:t><w:br/><w:t>wrap</w:t></w:r></w:p>` +
		`<w:p/>` +
		`<w:p><w:r><w:instrText>PAGE</w:instrText><w:delText>gone</w:delText><w:t>kept</w:t></w:r></w:p>`

	texts := readSegments(t, buildDOCX(t, body, nil))
	assert.Equal(t, []string{"Hello world", "a\tb", "line wrap", "", "kept"}, texts)
}

func TestStyles(t *testing.T) {
	body := para("Heading1", "Intro") + para("Chapter", "Part One") + para("Section", "Details") +
		para("BodyText", "Body") + para("Unknown", "Other") + para("", "Plain")

	r, err := Open(buildDOCX(t, body, map[string]string{"word/styles.xml": testStyles}))
	require.NoError(t, err)
	segs, err := r.Segments(context.Background())
	require.NoError(t, err)
	require.Len(t, segs, 6)

	styles := make([]string, len(segs))
	for i, s := range segs {
		styles[i] = s.Style
	}
	assert.Equal(t, []string{"heading 1", "Heading 1", "Heading 2", "Body Text", "Unknown", ""}, styles)

	lines := classify.NewClassifier().ClassifySegments(segs, classify.ModeStyled)
	require.Len(t, lines, 6)
	assert.Equal(t, classify.Heading(1), lines[0].Role)
	assert.Equal(t, classify.Heading(1), lines[1].Role)
	assert.Equal(t, classify.Heading(2), lines[2].Role)
	assert.Equal(t, classify.KindParagraphLine, lines[3].Role.Kind)
}

// fmtRun builds a w:r with the given run properties.
func fmtRun(rpr, text string) string {
	return `<w:r><w:rPr>` + rpr + `</w:rPr><w:t xml:space="preserve">` + text + `</w:t></w:r>`
}

func TestRunFormatting(t *testing.T) {
	body := `<w:p><w:r><w:t xml:space="preserve">Plain </w:t></w:r>` + fmtRun(`<w:b/>`, "bold ") +
		fmtRun(`<w:i/>`, "italic") + `<w:r><w:t xml:space="preserve"> and </w:t></w:r>` +
		fmtRun(`<w:strike/>`, "gone") + `</w:p>` +
		`<w:p>` + fmtRun(`<w:b/><w:sz w:val="40"/>`, "Big ") + fmtRun(`<w:b/><w:sz w:val="32"/>`, "Title") + `</w:p>` +
		`<w:p><w:pPr><w:rPr><w:b/></w:rPr></w:pPr><w:r><w:t>mark only</w:t></w:r></w:p>` +
		`<w:p>` + fmtRun(`<w:b w:val="0"/><w:i w:val="false"/>`, "switched off") + `</w:p>` +
		`<w:p>` + fmtRun(`<w:b/><w:i/>`, "both") + `</w:p>`

	r, err := Open(buildDOCX(t, body, nil))
	require.NoError(t, err)
	segs, err := r.Segments(context.Background())
	require.NoError(t, err)
	require.Len(t, segs, 5)

	assert.Equal(t, "Plain bold italic and gone", segs[0].Text)
	assert.Equal(t, "Plain **bold** *italic* and ~~gone~~", segs[0].Markdown)
	assert.False(t, segs[0].Bold)

	assert.Equal(t, "Big Title", segs[1].Text)
	assert.True(t, segs[1].Bold)
	assert.Equal(t, 20.0, segs[1].FontSize)
	assert.Equal(t, "**Big Title**", segs[1].Markdown, "adjacent runs with the same emphasis merge")

	assert.False(t, segs[2].Bold, "paragraph mark formatting is not run formatting")
	assert.Empty(t, segs[2].Markdown)

	assert.False(t, segs[3].Bold)
	assert.Empty(t, segs[3].Markdown)

	assert.Equal(t, "***both***", segs[4].Markdown)
}

func TestFormattingHeadings(t *testing.T) {
	long := "This bold sentence is far too long to be mistaken for a heading line."
	body := `<w:p>` + fmtRun(`<w:b/><w:sz w:val="44"/>`, "Annual Review") + `</w:p>` +
		`<w:p>` + fmtRun(`<w:b/><w:sz w:val="32"/>`, "Highlights") + `</w:p>` +
		`<w:p>` + fmtRun(`<w:b/><w:sz w:val="28"/>`, long) + `</w:p>` +
		`<w:p>` + fmtRun(`<w:b/>`, "Short bold line") + `</w:p>` +
		`<w:p>` + fmtRun(`<w:b/>`, long) + `</w:p>` +
		`<w:p>` + fmtRun(`<w:sz w:val="48"/>`, "Large but not bold") + `</w:p>` +
		`<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr>` + fmtRun(`<w:b/>`, "bold item") + `</w:p>`

	r, err := Open(buildDOCX(t, body, map[string]string{"word/numbering.xml": testNumbering}))
	require.NoError(t, err)
	segs, err := r.Segments(context.Background())
	require.NoError(t, err)

	lines := classify.NewClassifier().ClassifySegments(segs, classify.ModeStyled)
	require.Len(t, lines, 7)
	assert.Equal(t, classify.Heading(1), lines[0].Role)
	assert.Equal(t, classify.Heading(2), lines[1].Role)
	assert.Equal(t, classify.Heading(3), lines[2].Role)
	assert.Equal(t, classify.Heading(3), lines[3].Role)
	assert.Equal(t, "Short bold line", lines[3].Text)
	assert.Equal(t, classify.KindParagraphLine, lines[4].Role.Kind)
	assert.Equal(t, "**"+long+"**", lines[4].Markdown)
	assert.Equal(t, classify.KindParagraphLine, lines[5].Role.Kind)
	assert.Equal(t, classify.KindListItem, lines[6].Role.Kind)
	assert.Equal(t, "**bold item**", lines[6].Markdown)
}

func TestLists(t *testing.T) {
	body := listPara("1", "0", "apple") + listPara("1", "1", "green") + listPara("2", "0", "first") +
		listPara("9", "0", "unknown") + listPara("0", "0", "not a list")

	texts := readSegments(t, buildDOCX(t, body, map[string]string{"word/numbering.xml": testNumbering}))
	assert.Equal(t, []string{"- apple", "  - green", "1. first", "- unknown", "not a list"}, texts)
}

func TestTables(t *testing.T) {
	body := para("", "Before") +
		`<w:tbl><w:tblGrid><w:gridCol/><w:gridCol/><w:gridCol/></w:tblGrid>` +
		`<w:tr><w:tc><w:p><w:r><w:t>Name</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>Qty</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>Note</w:t></w:r></w:p></w:tc></w:tr>` +
		`<w:tr><w:tc><w:tcPr><w:gridSpan w:val="2"/></w:tcPr><w:p><w:r><w:t>Merged</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>x</w:t></w:r></w:p><w:p><w:r><w:t>y</w:t></w:r></w:p></w:tc></w:tr>` +
		`<w:tr><w:tc><w:tbl><w:tr><w:tc><w:p><w:r><w:t>inner</w:t></w:r></w:p></w:tc></w:tr></w:tbl></w:tc><w:tc/><w:tc/></w:tr>` +
		`</w:tbl>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>second</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		para("", "After")

	r, err := Open(buildDOCX(t, body, nil))
	require.NoError(t, err)
	segs, err := r.Segments(context.Background())
	require.NoError(t, err)
	require.Len(t, segs, 6)

	assert.False(t, segs[0].IsGridRow())
	assert.Equal(t, []string{"Name", "Qty", "Note"}, segs[1].Cells)
	assert.Equal(t, []string{"Merged", "", "x y"}, segs[2].Cells)
	assert.Equal(t, []string{"inner", "", ""}, segs[3].Cells)
	assert.Equal(t, 1, segs[1].Table)
	assert.Equal(t, 1, segs[3].Table)
	assert.Equal(t, []string{"second"}, segs[4].Cells)
	assert.Equal(t, 2, segs[4].Table)
	assert.Equal(t, "After", segs[5].Text)
}

func TestPageBreaks(t *testing.T) {
	body := para("", "one") +
		`<w:p><w:r><w:t>two</w:t><w:br w:type="page"/></w:r></w:p>` +
		para("", "three") +
		`<w:p><w:pPr><w:pageBreakBefore/></w:pPr><w:r><w:t>four</w:t></w:r></w:p>` +
		`<w:p><w:r><w:lastRenderedPageBreak/><w:t>five</w:t></w:r></w:p>` +
		`<w:p><w:pPr><w:pageBreakBefore w:val="0"/></w:pPr><w:r><w:t>six</w:t></w:r></w:p>`

	r, err := Open(buildDOCX(t, body, nil))
	require.NoError(t, err)
	segs, err := r.Segments(context.Background())
	require.NoError(t, err)
	require.Len(t, segs, 6)

	breaks := make([]bool, len(segs))
	for i, s := range segs {
		breaks[i] = s.PageBreak
	}
	assert.Equal(t, []bool{false, false, true, true, true, false}, breaks)
}

func TestMetadata(t *testing.T) {
	core := `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>Memo</dc:title><dc:creator>Ann</dc:creator></cp:coreProperties>`
	r, err := Open(buildDOCX(t, para("", "x"), map[string]string{"docProps/core.xml": core}))
	require.NoError(t, err)

	meta := r.Metadata()
	assert.Equal(t, "Memo", meta.Title)
	assert.Equal(t, "Ann", meta.Creator)
}

func TestSegmentsCancelled(t *testing.T) {
	body := `<w:tbl><w:tr><w:tc><w:p><w:r><w:t>a</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`
	r, err := Open(buildDOCX(t, body, nil))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Segments(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
