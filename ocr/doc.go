// Package ocr recognizes text in raster images with the Tesseract engine.
//
// The Tesseract binding is only compiled in with the "ocr" build tag:
//
//	go build -tags ocr ./...
//
// Without the tag every call returns [ErrOCRNotEnabled], so image inputs
// degrade to an empty page and a warning instead of failing the build on
// machines without libtesseract.
package ocr

import (
	"errors"
	"strings"
)

// ErrOCRNotEnabled is returned when OCR support was not compiled in.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = "eng"

// Languages splits a "+" separated Tesseract language list such as
// "eng+chi_sim". Empty input yields DefaultLanguage.
func Languages(list string) []string {
	var out []string
	for _, part := range strings.Split(list, "+") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return []string{DefaultLanguage}
	}
	return out
}
