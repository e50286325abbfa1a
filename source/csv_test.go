package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/tsawler/structura/model"
)

func TestCSVParser(t *testing.T) {
	data := []byte("name,age,city\nAlice,30,Paris\n\nBob,25,Berlin\n")

	doc, _ := parseDoc(t, NewCSVParser(Options{}), "people.csv", data)

	require.Len(t, doc.Pages, 1)
	require.Len(t, doc.Tables, 1)
	table := doc.Tables[0]
	assert.Equal(t, "Data", table.Title)
	assert.Equal(t, []string{"name", "age", "city"}, table.Headers)
	assert.Equal(t, [][]string{{"Alice", "30", "Paris"}, {"Bob", "25", "Berlin"}}, table.Rows)
	assert.Equal(t, 3, table.ColCount())

	assert.Equal(t, "people", doc.Metadata.Title)
	assert.Equal(t, model.FileTypeCSV, doc.Metadata.FileType)
	assert.Equal(t, "people.csv", doc.Metadata.FileName)
	assert.Equal(t, 1, doc.Metadata.TotalTables)
}

func TestCSVDelimiters(t *testing.T) {
	doc, _ := parseDoc(t, NewCSVParser(Options{}), "eu.csv", []byte("a;b\n1;2\n"))
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, []string{"a", "b"}, doc.Tables[0].Headers)

	doc, _ = parseDoc(t, NewCSVParser(Options{}), "data.tsv", []byte("x\ty\n1\t2\n"))
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, [][]string{{"1", "2"}}, doc.Tables[0].Rows)
}

func TestCSVKeepsRaggedRows(t *testing.T) {
	doc, _ := parseDoc(t, NewCSVParser(Options{}), "r.csv", []byte("a,b,c\n1,2\n3,4,5,6\n"))
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, [][]string{{"1", "2"}, {"3", "4", "5", "6"}}, doc.Tables[0].Rows)
	assert.True(t, doc.Tables[0].IsRagged())
}

func TestCSVQuotedFields(t *testing.T) {
	doc, _ := parseDoc(t, NewCSVParser(Options{}), "q.csv", []byte("title,note\n\"Hello, world\",\"say \"\"hi\"\"\"\n"))
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, [][]string{{"Hello, world", `say "hi"`}}, doc.Tables[0].Rows)
}

func TestCSVDetectsCharset(t *testing.T) {
	data, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte("姓名,城市\n张三,北京\n李四,上海\n"))
	require.NoError(t, err)

	doc, _ := parseDoc(t, NewCSVParser(Options{}), "gbk.csv", data)
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, []string{"姓名", "城市"}, doc.Tables[0].Headers)
	assert.Equal(t, "GBK", doc.Metadata.Charset)
}

func TestCSVRejectsBinary(t *testing.T) {
	p := NewCSVParser(Options{})
	for _, data := range [][]byte{
		[]byte("PK\x03\x04rest"),
		{0xD0, 0xCF, 0x11, 0xE0, 0xA1},
		[]byte("%PDF-1.4"),
	} {
		_, err := p.Parse(context.Background(), Input{Name: "x.csv", Data: data})
		assert.ErrorIs(t, err, ErrNotCSV)
	}

	_, err := p.Parse(context.Background(), Input{Name: "x.csv"})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ',', sniffDelimiter("a,b,c"))
	assert.Equal(t, ';', sniffDelimiter("a;b;c\n1,5;2"))
	assert.Equal(t, '|', sniffDelimiter("a|b"))
	assert.Equal(t, ',', sniffDelimiter("single"))
}
