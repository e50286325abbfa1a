package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pNS = `xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
)

func slideDoc(attrs, shapes string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><p:sld ` + pNS + attrs + `><p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/></p:nvGrpSpPr><p:grpSpPr/>` + shapes +
		`</p:spTree></p:cSld></p:sld>`
}

func shape(ph string, paras ...string) string {
	nv := `<p:nvSpPr><p:cNvPr id="2" name="x"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`
	if ph != "" {
		nv = `<p:nvSpPr><p:cNvPr id="2" name="x"/><p:cNvSpPr/><p:nvPr><p:ph type="` + ph + `"/></p:nvPr></p:nvSpPr>`
	}
	body := ""
	for _, p := range paras {
		body += p
	}
	return `<p:sp>` + nv + `<p:spPr/><p:txBody><a:bodyPr/>` + body + `</p:txBody></p:sp>`
}

func text(s string) string {
	return `<a:p><a:r><a:t>` + s + `</a:t></a:r></a:p>`
}

func bullet(lvl int, s string) string {
	return fmt.Sprintf(`<a:p><a:pPr lvl="%d"><a:buChar char="•"/></a:pPr><a:r><a:t>%s</a:t></a:r></a:p>`, lvl, s)
}

func numbered(s string) string {
	return `<a:p><a:pPr><a:buAutoNum type="arabicPeriod"/></a:pPr><a:r><a:t>` + s + `</a:t></a:r></a:p>`
}

func buildPPTX(t *testing.T, slides []string, extra map[string]string) []byte {
	t.Helper()
	parts := map[string]string{
		"[Content_Types].xml": `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
	}
	ids, rels := "", ""
	for i, s := range slides {
		n := i + 1
		parts[fmt.Sprintf("ppt/slides/slide%d.xml", n)] = s
		ids += fmt.Sprintf(`<p:sldId id="%d" r:id="rId%d"/>`, 255+n, n)
		rels += fmt.Sprintf(`<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, n, n)
	}
	parts["ppt/presentation.xml"] = `<p:presentation ` + pNS + `><p:sldIdLst>` + ids + `</p:sldIdLst></p:presentation>`
	parts["ppt/_rels/presentation.xml.rels"] = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` + rels + `</Relationships>`
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

func segmentTexts(s *Slide) []string {
	out := make([]string, len(s.Segments))
	for i, seg := range s.Segments {
		out[i] = seg.Text
	}
	return out
}

func TestSlides(t *testing.T) {
	s1 := slideDoc("", shape("title", text("Quarterly Review"))+
		shape("body", bullet(0, "Revenue up"), bullet(1, "EMEA strongest"), numbered("Hire"), text("Closing remarks"))+
		shape("sldNum", text("1")))
	s2 := slideDoc("", `<p:grpSp><p:nvGrpSpPr><p:cNvPr id="5" name="g"/></p:nvGrpSpPr><p:grpSpPr/>`+
		shape("", text("Grouped text"))+`</p:grpSp>`)

	r, err := Open(buildPPTX(t, []string{s1, s2}, nil), Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, r.SlideCount())

	slides, skipped, err := r.Slides(context.Background())
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, slides, 2)

	assert.Equal(t, 1, slides[0].Number)
	assert.Equal(t, "Quarterly Review", slides[0].Title)
	assert.Equal(t, []string{"- Revenue up", "  - EMEA strongest", "1. Hire", "Closing remarks"}, segmentTexts(slides[0]))
	for _, seg := range slides[0].Segments {
		assert.Equal(t, 1, seg.Page)
	}

	// Without a title placeholder the first text line names the slide.
	assert.Equal(t, "Grouped text", slides[1].Title)
	assert.Equal(t, []string{"Grouped text"}, segmentTexts(slides[1]))
}

func TestSlideOrderFollowsPresentation(t *testing.T) {
	data := buildPPTX(t, []string{slideDoc("", shape("", text("first"))), slideDoc("", shape("", text("second")))},
		map[string]string{
			"ppt/_rels/presentation.xml.rels": `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
				`<Relationship Id="rId1" Type="slide" Target="slides/slide2.xml"/>` +
				`<Relationship Id="rId2" Type="slide" Target="slides/slide1.xml"/></Relationships>`,
		})

	r, err := Open(data, Options{})
	require.NoError(t, err)
	slides, _, err := r.Slides(context.Background())
	require.NoError(t, err)
	require.Len(t, slides, 2)
	assert.Equal(t, "second", slides[0].Title)
	assert.Equal(t, "first", slides[1].Title)
}

func TestTables(t *testing.T) {
	tbl := `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="4" name="t"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>` +
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table"><a:tbl>` +
		`<a:tblGrid><a:gridCol w="1"/><a:gridCol w="1"/></a:tblGrid>` +
		`<a:tr h="1"><a:tc><a:txBody>` + text("Region") + `</a:txBody></a:tc><a:tc><a:txBody>` + text("Sales") + `</a:txBody></a:tc></a:tr>` +
		`<a:tr h="1"><a:tc gridSpan="2"><a:txBody>` + text("Total") + `</a:txBody></a:tc><a:tc hMerge="1"><a:txBody>` + text("") + `</a:txBody></a:tc></a:tr>` +
		`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`
	s := slideDoc("", shape("", text("Intro"))+tbl+shape("", text("Outro")))

	r, err := Open(buildPPTX(t, []string{s}, nil), Options{})
	require.NoError(t, err)
	slides, _, err := r.Slides(context.Background())
	require.NoError(t, err)
	require.Len(t, slides, 1)

	segs := slides[0].Segments
	require.Len(t, segs, 4)
	assert.Equal(t, "Intro", segs[0].Text)
	assert.Equal(t, []string{"Region", "Sales"}, segs[1].Cells)
	assert.Equal(t, []string{"Total", ""}, segs[2].Cells)
	assert.Equal(t, 1, segs[1].Table)
	assert.Equal(t, "Outro", segs[3].Text)
}

func TestHiddenSlides(t *testing.T) {
	data := buildPPTX(t, []string{
		slideDoc("", shape("", text("shown"))),
		slideDoc(` show="0"`, shape("", text("secret"))),
	}, nil)

	r, err := Open(data, Options{})
	require.NoError(t, err)
	slides, _, err := r.Slides(context.Background())
	require.NoError(t, err)
	require.Len(t, slides, 1)
	assert.Equal(t, "shown", slides[0].Title)

	r, err = Open(data, Options{IncludeHidden: true})
	require.NoError(t, err)
	slides, _, err = r.Slides(context.Background())
	require.NoError(t, err)
	require.Len(t, slides, 2)
	assert.True(t, slides[1].Hidden)
	assert.Equal(t, 2, slides[1].Number)
}

func TestBrokenSlideIsSkipped(t *testing.T) {
	data := buildPPTX(t, []string{slideDoc("", shape("", text("ok"))), "<p:sld><broken"}, nil)

	r, err := Open(data, Options{})
	require.NoError(t, err)
	slides, skipped, err := r.Slides(context.Background())
	require.NoError(t, err)
	require.Len(t, slides, 1)
	require.Len(t, skipped, 1)
	assert.Equal(t, 2, skipped[0].Slide)
	assert.Contains(t, skipped[0].Error(), "slide 2")
}

func TestFieldsAndBreaks(t *testing.T) {
	p := `<a:p><a:r><a:t>Page</a:t></a:r><a:fld id="{1}" type="slidenum"><a:t>3</a:t></a:fld><a:br/><a:r><a:t>of 9</a:t></a:r></a:p>`
	r, err := Open(buildPPTX(t, []string{slideDoc("", shape("", p))}, nil), Options{})
	require.NoError(t, err)
	slides, _, err := r.Slides(context.Background())
	require.NoError(t, err)
	require.Len(t, slides, 1)
	assert.Equal(t, []string{"Page3 of 9"}, segmentTexts(slides[0]))
}

func TestOpenErrors(t *testing.T) {
	_, err := Open([]byte("junk"), Options{})
	assert.Error(t, err)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err = zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	_, err = Open(buf.Bytes(), Options{})
	assert.ErrorContains(t, err, "ppt/presentation.xml")
}

func TestSlidesCancelled(t *testing.T) {
	r, err := Open(buildPPTX(t, []string{slideDoc("", shape("", text("x")))}, nil), Options{})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = r.Slides(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
