package charset

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	htmlcharset "golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// Canonical charset names reported by the detector.
const (
	UTF8        = "UTF-8"
	UTF16BE     = "UTF-16BE"
	UTF16LE     = "UTF-16LE"
	GBK         = "GBK"
	GB18030     = "GB18030"
	GB2312      = "GB2312"
	Big5        = "Big5"
	Windows1252 = "windows-1252"
)

// ErrInputUnreadable is returned by DetectStrict when no candidate could
// decode the input. With the default candidates this cannot happen because
// Windows-1252 maps every byte.
var ErrInputUnreadable = errors.New("charset: no candidate encoding could decode the input")

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// Candidate is one encoding hypothesis. Score is filled in during detection.
type Candidate struct {
	Name     string
	Encoding encoding.Encoding
	Score    int
}

// Result is the outcome of a detection run.
type Result struct {
	// Charset is the canonical name of the chosen encoding.
	Charset string

	// Encoding is the chosen decoder.
	Encoding encoding.Encoding

	// Text is the input decoded with Encoding, without any BOM.
	Text string

	// Score is the heuristic score of Text; 0 for BOM matches.
	Score int

	// BOM is true when the encoding came from a byte-order mark.
	BOM bool

	// Candidates holds every candidate that decoded successfully, in
	// evaluation order, with its score.
	Candidates []Candidate
}

// Config holds configuration for charset detection
type Config struct {
	// Candidates are evaluated in order; earlier candidates win ties.
	// Default: UTF-8, GBK, GB18030, GB2312, Big5, Windows-1252
	Candidates []Candidate
}

// DefaultConfig returns the standard candidate set and order.
func DefaultConfig() Config {
	return Config{
		Candidates: []Candidate{
			{Name: UTF8, Encoding: unicode.UTF8},
			{Name: GBK, Encoding: simplifiedchinese.GBK},
			{Name: GB18030, Encoding: simplifiedchinese.GB18030},
			// x/text has no EUC-CN decoder; GBK is a strict superset.
			{Name: GB2312, Encoding: simplifiedchinese.GBK},
			{Name: Big5, Encoding: traditionalchinese.Big5},
			{Name: Windows1252, Encoding: charmap.Windows1252},
		},
	}
}

// Detector chooses the best-fit encoding for byte buffers.
type Detector struct {
	config Config
}

// NewDetector creates a detector with the default candidates.
func NewDetector() *Detector {
	return &Detector{config: DefaultConfig()}
}

// NewDetectorWithConfig creates a detector with custom candidates.
func NewDetectorWithConfig(config Config) *Detector {
	if len(config.Candidates) == 0 {
		config = DefaultConfig()
	}
	return &Detector{config: config}
}

// Detect runs detection with the default detector.
func Detect(data []byte) Result {
	return NewDetector().Detect(data)
}

// Detect returns the best-fit encoding and decoded text. It never fails:
// when nothing scores above zero the first candidate is returned.
func (d *Detector) Detect(data []byte) Result {
	res, _ := d.detect(data)
	return res
}

// DetectStrict is Detect but reports ErrInputUnreadable when every
// candidate failed to decode.
func (d *Detector) DetectStrict(data []byte) (Result, error) {
	return d.detect(data)
}

func (d *Detector) detect(data []byte) (Result, error) {
	if res, ok := detectBOM(data); ok {
		return res, nil
	}

	first := d.config.Candidates[0]
	best := Result{Charset: first.Name, Encoding: first.Encoding}
	bestScore := 0
	decodedAny := false

	for _, c := range d.config.Candidates {
		if c.Name == UTF8 && !utf8.Valid(data) {
			continue
		}
		text, err := c.Encoding.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		decodedAny = true

		c.Score = Score(string(text))
		best.Candidates = append(best.Candidates, c)
		if c.Score > bestScore {
			bestScore = c.Score
			best.Charset = c.Name
			best.Encoding = c.Encoding
			best.Text = string(text)
		}
	}
	best.Score = bestScore

	if best.Text == "" && len(data) > 0 {
		// Nothing scored above zero; fall back to the first candidate's
		// decoding so the caller still gets text.
		text, err := best.Encoding.NewDecoder().Bytes(data)
		if err == nil {
			best.Text = string(text)
		} else {
			best.Text = strings.ToValidUTF8(string(data), string(utf8.RuneError))
		}
	}

	if !decodedAny && len(data) > 0 {
		return best, ErrInputUnreadable
	}
	return best, nil
}

func detectBOM(data []byte) (Result, bool) {
	var (
		name string
		enc  encoding.Encoding
		body []byte
	)
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		name, enc, body = UTF8, unicode.UTF8, data[len(bomUTF8):]
	case bytes.HasPrefix(data, bomUTF16BE):
		name, enc, body = UTF16BE, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), data[len(bomUTF16BE):]
	case bytes.HasPrefix(data, bomUTF16LE):
		name, enc, body = UTF16LE, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), data[len(bomUTF16LE):]
	default:
		return Result{}, false
	}

	text, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		text = body
	}
	return Result{Charset: name, Encoding: enc, Text: string(text), BOM: true}, true
}

// Lookup resolves an encoding label such as "gb2312", "latin1" or
// "utf-16le" using the WHATWG label table. It returns nil and "" for unknown
// labels.
func Lookup(label string) (encoding.Encoding, string) {
	return htmlcharset.Lookup(label)
}

// Decode decodes data with the named encoding. An empty name runs detection.
func Decode(data []byte, label string) (string, error) {
	if label == "" {
		return Detect(data).Text, nil
	}
	enc, _ := Lookup(label)
	if enc == nil {
		return "", errors.New("charset: unknown encoding " + label)
	}
	text, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(text), nil
}
