package ooxml

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/structura/model"
)

func buildPackage(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range parts {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

const coreXML = `<?xml version="1.0" encoding="UTF-8"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
  xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/"
  xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <dc:title> Annual Report </dc:title>
  <dc:subject>Finance</dc:subject>
  <dc:creator>Jane Doe</dc:creator>
  <cp:keywords>revenue, costs</cp:keywords>
  <dc:description>Yearly numbers</dc:description>
  <dcterms:created xsi:type="dcterms:W3CDTF">2024-03-01T09:30:00Z</dcterms:created>
  <dcterms:modified xsi:type="dcterms:W3CDTF">2024-03-02T10:00:00Z</dcterms:modified>
</cp:coreProperties>`

func TestArchive(t *testing.T) {
	data := buildPackage(t, map[string]string{
		"[Content_Types].xml":              "<Types/>",
		"word/document.xml":                "<document/>",
		"ppt/slides/slide2.xml":            "<sld/>",
		"ppt/slides/slide1.xml":            "<sld/>",
		"ppt/slides/_rels/slide1.xml.rels": `<Relationships><Relationship Id="rId1" Type="http://x/notesSlide" Target="../notesSlides/notesSlide1.xml"/></Relationships>`,
		"docProps/core.xml":                coreXML,
	})

	a, err := Open(data)
	require.NoError(t, err)

	assert.True(t, a.Has("word/document.xml"))
	assert.NoError(t, a.Require("[Content_Types].xml", "word/document.xml"))
	assert.Error(t, a.Require("xl/workbook.xml"))

	_, err = a.Read("missing.xml")
	assert.True(t, errors.Is(err, ErrPartNotFound))

	assert.Equal(t, []string{"ppt/slides/slide1.xml", "ppt/slides/slide2.xml"}, a.Names("ppt/slides/slide", ".xml"))

	rels := a.Relationships("ppt/slides/slide1.xml")
	require.Contains(t, rels, "rId1")
	assert.Equal(t, "ppt/notesSlides/notesSlide1.xml", rels["rId1"].Target)
	assert.Empty(t, a.Relationships("ppt/slides/slide2.xml"))
}

func TestCoreProperties(t *testing.T) {
	a, err := Open(buildPackage(t, map[string]string{"docProps/core.xml": coreXML}))
	require.NoError(t, err)

	props := a.CoreProperties()
	assert.Equal(t, "Annual Report", props.Title)
	assert.Equal(t, "Jane Doe", props.Creator)
	assert.Equal(t, "revenue, costs", props.Keywords)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), props.Created)

	var meta model.DocumentMetadata
	props.Apply(&meta)
	assert.Equal(t, "Annual Report", meta.Title)
	assert.Equal(t, "Jane Doe", meta.Author)
	assert.Equal(t, "Finance", meta.Subject)
	assert.Equal(t, "Yearly numbers", meta.Description)
}

func TestOpenInvalid(t *testing.T) {
	_, err := Open([]byte("not a zip"))
	assert.Error(t, err)
}

func TestParseTime(t *testing.T) {
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), ParseTime("2024-01-02"))
	assert.True(t, ParseTime("garbage").IsZero())
}
