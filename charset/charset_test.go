package charset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

func TestDetectBOM(t *testing.T) {
	utf16be, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().String("héllo")
	require.NoError(t, err)
	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String("héllo")
	require.NoError(t, err)

	tests := []struct {
		name    string
		data    []byte
		charset string
		text    string
	}{
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "héllo"...), UTF8, "héllo"},
		{"utf-16be bom", []byte(utf16be), UTF16BE, "héllo"},
		{"utf-16le bom", []byte(utf16le), UTF16LE, "héllo"},
		// Content that would otherwise look like Windows-1252 garbage still
		// follows the mark.
		{"utf-8 bom with latin1 body", []byte{0xEF, 0xBB, 0xBF, 'a', 0xE9}, UTF8, "a�"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Detect(tt.data)
			assert.True(t, res.BOM)
			assert.Equal(t, tt.charset, res.Charset)
			assert.Equal(t, tt.text, res.Text)
		})
	}
}

func TestDetectGBK(t *testing.T) {
	const original = "姓名,年龄\n张三,28\n"
	data, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(original))
	require.NoError(t, err)

	res := Detect(data)

	assert.Contains(t, []string{GBK, GB18030}, res.Charset)
	assert.Contains(t, res.Text, "姓名")
	assert.NotContains(t, res.Text, "�")
	assert.Equal(t, original, res.Text)
}

func TestDetectPrefersUTF8OnTie(t *testing.T) {
	res := Detect([]byte("plain ascii, nothing else"))
	assert.Equal(t, UTF8, res.Charset)
	assert.False(t, res.BOM)
	assert.Equal(t, "plain ascii, nothing else", res.Text)
}

func TestDetectValidUTF8CJK(t *testing.T) {
	res := Detect([]byte("第一章 概述\n内容"))
	assert.Equal(t, UTF8, res.Charset)
	assert.Equal(t, "第一章 概述\n内容", res.Text)
}

func TestDetectInvalidUTF8SkipsCandidate(t *testing.T) {
	data, err := charmap.Windows1252.NewEncoder().String("Café, crème brûlée")
	require.NoError(t, err)

	res := Detect([]byte(data))

	for _, c := range res.Candidates {
		assert.NotEqual(t, UTF8, c.Name)
	}
	assert.Len(t, res.Candidates, 5)
}

func TestDetectTieGoesToEarlierCandidate(t *testing.T) {
	data, err := charmap.Windows1252.NewEncoder().String("Café menu, crème brûlée\r\n")
	require.NoError(t, err)

	res := Detect([]byte(data))

	scores := make(map[string]int)
	for _, c := range res.Candidates {
		scores[c.Name] = c.Score
	}
	require.Contains(t, scores, Windows1252)
	assert.Equal(t, scores[GBK], scores[Windows1252])
	assert.Equal(t, GBK, res.Charset)
}

func TestDetectWindows1252(t *testing.T) {
	data, err := charmap.Windows1252.NewEncoder().String("Thé glacé\n")
	require.NoError(t, err)

	res := Detect([]byte(data))

	assert.Equal(t, Windows1252, res.Charset)
	assert.Equal(t, "Thé glacé\n", res.Text)
}

func TestCJKCandidateBeatsWindows1252(t *testing.T) {
	inputs := []string{
		"姓名,年龄\n张三,28\n",
		"第一章 概述",
		"结果",
		"今天天气很好，我们去公园散步。",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			gbk, err := simplifiedchinese.GBK.NewEncoder().String(in)
			require.NoError(t, err)
			latin, err := charmap.Windows1252.NewDecoder().String(gbk)
			require.NoError(t, err)
			assert.Greater(t, Score(in), Score(latin))

			big5, err := traditionalchinese.Big5.NewEncoder().String("結果報告")
			require.NoError(t, err)
			latinBig5, err := charmap.Windows1252.NewDecoder().String(big5)
			require.NoError(t, err)
			assert.Greater(t, Score("結果報告"), Score(latinBig5))
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		// 100 + readable bonus 30
		{"clean ascii", "Hello world", 130},
		// 100 + delimiter 20 + readable 30
		{"csv line", "a,b,c", 150},
		// 100 + cjk 50 + readable 30
		{"cjk", "中文", 180},
		// 100 - 50*2 + ratio 1/3 penalty 30, clamped
		{"replacements", "��a", 0},
		// 1 control in 5 runes > 5/100 = 0: 100 - 10 + ratio 0.8 neither bonus
		{"control", "ab\x01cd", 90},
		{"empty", "", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.text))
		})
	}
}

func TestControlPenaltyThreshold(t *testing.T) {
	// 1 control char in 200 runes is exactly 1%, which does not exceed the
	// len/100 threshold of 2.
	text := strings.Repeat("a", 199) + "\x01"
	assert.Equal(t, 130, Score(text))
}

func TestDetectStrict(t *testing.T) {
	_, err := NewDetector().DetectStrict([]byte("hello"))
	assert.NoError(t, err)

	res, err := NewDetector().DetectStrict(nil)
	assert.NoError(t, err)
	assert.Equal(t, "", res.Text)
}

func TestDetectorWithConfig(t *testing.T) {
	d := NewDetectorWithConfig(Config{Candidates: []Candidate{
		{Name: Windows1252, Encoding: charmap.Windows1252},
	}})
	res := d.Detect([]byte{'c', 'a', 'f', 0xE9})
	assert.Equal(t, Windows1252, res.Charset)
	assert.Equal(t, "café", res.Text)

	def := NewDetectorWithConfig(Config{})
	assert.Len(t, def.config.Candidates, 6)
}

func TestLookupAndDecode(t *testing.T) {
	enc, name := Lookup("latin1")
	require.NotNil(t, enc)
	assert.Equal(t, "windows-1252", name)

	text, err := Decode([]byte{0x63, 0x61, 0x66, 0xE9}, "iso-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "café", text)

	_, err = Decode([]byte("x"), "no-such-charset")
	assert.Error(t, err)

	text, err = Decode([]byte("auto"), "")
	require.NoError(t, err)
	assert.Equal(t, "auto", text)
}
