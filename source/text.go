package source

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/structura/assemble"
	"github.com/tsawler/structura/charset"
	"github.com/tsawler/structura/classify"
	"github.com/tsawler/structura/format"
	"github.com/tsawler/structura/logger"
	"github.com/tsawler/structura/model"
)

// maxTitleLen is the longest first line accepted as a plain text title.
const maxTitleLen = 100

// TextParser reads plain text of any supported encoding. It also accepts
// files with an unknown extension whose content is not binary.
type TextParser struct {
	classifier *classify.Classifier
	log        logger.Logger
}

// NewTextParser creates a plain text parser.
func NewTextParser(opts Options) *TextParser {
	return &TextParser{classifier: opts.classifier(), log: opts.log("text")}
}

func (p *TextParser) Name() string { return "text" }

func (p *TextParser) Supports(name string, head []byte) bool {
	switch format.Detect(name) {
	case model.FileTypeText:
		return true
	case model.FileTypeUnknown:
		return len(head) > 0 && looksLikeText(head)
	}
	return false
}

func (p *TextParser) Parse(ctx context.Context, in Input) (*Result, error) {
	if len(in.Data) == 0 {
		return nil, ErrEmptyInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	det := charset.Detect(in.Data)
	text := normalize(det.Text)
	p.log.Debug("charset detected", logger.String("file", in.Name), logger.String("charset", det.Charset), logger.Int("score", det.Score))

	meta := newMeta(in, model.FileTypeText)
	meta.Charset = det.Charset
	meta.Title = firstLineTitle(text)
	FallbackTitle(&meta, in.Name)

	return &Result{
		Lines: p.classifier.ClassifyText(text, classify.ModeFlat),
		Hints: assemble.Hints{Meta: meta},
	}, nil
}

// firstLineTitle returns the first non-blank line if it is short enough to
// be a title.
func firstLineTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) <= maxTitleLen {
			return line
		}
		return ""
	}
	return ""
}

// looksLikeText rejects containers, images and buffers with NUL bytes
// outside a UTF-16 byte order mark.
func looksLikeText(head []byte) bool {
	if format.IsBinaryContainer(head) || format.IsImage(head) {
		return false
	}
	if len(head) >= 2 && (head[0] == 0xFF && head[1] == 0xFE || head[0] == 0xFE && head[1] == 0xFF) {
		return true
	}
	for _, b := range head {
		if b == 0 {
			return false
		}
	}
	return true
}
