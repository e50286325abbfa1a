package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/tsawler/structura/assemble"
	"github.com/tsawler/structura/classify"
	"github.com/tsawler/structura/format"
	"github.com/tsawler/structura/logger"
	"github.com/tsawler/structura/model"
	"github.com/tsawler/structura/ocr"
)

// minOCRWidth is the width below which images are upscaled before
// recognition.
const minOCRWidth = 1000

// ImageParser recognizes text in raster images. Without OCR support the
// result is empty and carries a warning.
type ImageParser struct {
	classifier *classify.Classifier
	language   string
	log        logger.Logger
}

// NewImageParser creates an image parser.
func NewImageParser(opts Options) *ImageParser {
	return &ImageParser{classifier: opts.classifier(), language: opts.OCRLanguage, log: opts.log("image")}
}

func (p *ImageParser) Name() string { return "image" }

func (p *ImageParser) Supports(name string, head []byte) bool {
	return format.IsImage(head) || format.Detect(name) == model.FileTypeImage
}

func (p *ImageParser) Parse(ctx context.Context, in Input) (*Result, error) {
	if len(in.Data) == 0 {
		return nil, ErrEmptyInput
	}

	img, err := imaging.Decode(bytes.NewReader(in.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", in.Name, err)
	}
	bounds := img.Bounds()

	meta := newMeta(in, model.FileTypeImage)
	meta.Custom["width"] = strconv.Itoa(bounds.Dx())
	meta.Custom["height"] = strconv.Itoa(bounds.Dy())
	FallbackTitle(&meta, in.Name)
	res := &Result{Hints: assemble.Hints{Meta: meta}}

	// Grayscale, contrast and sharpening help Tesseract on photographed
	// pages; small images are enlarged first.
	prepared := imaging.Grayscale(img)
	if bounds.Dx() > 0 && bounds.Dx() < minOCRWidth {
		prepared = imaging.Resize(prepared, bounds.Dx()*2, 0, imaging.Lanczos)
	}
	prepared = imaging.Sharpen(imaging.AdjustContrast(prepared, 20), 0.5)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, prepared, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", in.Name, err)
	}

	client, err := ocr.New(p.language)
	if err != nil {
		if errors.Is(err, ocr.ErrOCRNotEnabled) {
			p.log.Warn("ocr unavailable", logger.String("file", in.Name))
			res.Warnings = append(res.Warnings, Warning{Source: p.Name(), Message: err.Error()})
			return res, nil
		}
		return nil, fmt.Errorf("starting OCR: %w", err)
	}
	defer client.Close()

	text, err := client.Recognize(ctx, buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("recognizing %s: %w", in.Name, err)
	}
	p.log.Debug("image recognized", logger.String("file", in.Name), logger.Int("chars", len(text)))

	text = normalize(text)
	if title := firstLineTitle(text); title != "" {
		res.Hints.Meta.Title = title
	}
	res.Lines = p.classifier.ClassifyText(text, classify.ModeFlat)
	return res, nil
}
