// Package format identifies the type of an input file from its name and its
// leading bytes.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/tsawler/structura/model"
)

// HeadSize is the number of leading bytes the detectors look at.
const HeadSize = 512

var extensions = map[string]model.FileType{
	".pdf":      model.FileTypePDF,
	".docx":     model.FileTypeWord,
	".xlsx":     model.FileTypeExcel,
	".xlsm":     model.FileTypeExcel,
	".pptx":     model.FileTypePowerPoint,
	".csv":      model.FileTypeCSV,
	".tsv":      model.FileTypeCSV,
	".md":       model.FileTypeMarkdown,
	".markdown": model.FileTypeMarkdown,
	".txt":      model.FileTypeText,
	".text":     model.FileTypeText,
	".log":      model.FileTypeText,
	".html":     model.FileTypeHTML,
	".htm":      model.FileTypeHTML,
	".xhtml":    model.FileTypeHTML,
	".png":      model.FileTypeImage,
	".jpg":      model.FileTypeImage,
	".jpeg":     model.FileTypeImage,
	".gif":      model.FileTypeImage,
	".bmp":      model.FileTypeImage,
	".tif":      model.FileTypeImage,
	".tiff":     model.FileTypeImage,
	".webp":     model.FileTypeImage,
	".epub":     model.FileTypeEPUB,
}

// Detect determines the file type from the filename extension.
func Detect(filename string) model.FileType {
	if ft, ok := extensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return ft
	}
	return model.FileTypeUnknown
}

// Extension returns the typical file extension for a file type.
func Extension(ft model.FileType) string {
	switch ft {
	case model.FileTypePDF:
		return ".pdf"
	case model.FileTypeWord:
		return ".docx"
	case model.FileTypeExcel:
		return ".xlsx"
	case model.FileTypePowerPoint:
		return ".pptx"
	case model.FileTypeCSV:
		return ".csv"
	case model.FileTypeMarkdown:
		return ".md"
	case model.FileTypeText:
		return ".txt"
	case model.FileTypeHTML:
		return ".html"
	case model.FileTypeImage:
		return ".png"
	case model.FileTypeEPUB:
		return ".epub"
	default:
		return ""
	}
}

// IsZIP reports whether data starts with a ZIP local file header.
func IsZIP(data []byte) bool {
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}

// IsOLE reports whether data starts with the legacy Office compound file
// signature.
func IsOLE(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xD0, 0xCF, 0x11, 0xE0})
}

// IsPDF reports whether data starts with the PDF header.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF"))
}

// IsBinaryContainer reports whether data is a ZIP, OLE or PDF container.
// Such input is never treated as delimited text.
func IsBinaryContainer(data []byte) bool {
	return IsZIP(data) || IsOLE(data) || IsPDF(data)
}

// IsImage reports whether data starts with a PNG, JPEG, GIF, BMP, TIFF or
// WebP signature.
func IsImage(data []byte) bool {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return true
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return true
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return true
	case bytes.HasPrefix(data, []byte("BM")) && len(data) >= 14 &&
		data[6] == 0 && data[7] == 0 && data[8] == 0 && data[9] == 0:
		return true
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return true
	case len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && string(data[8:12]) == "WEBP":
		return true
	}
	return false
}

// DetectFromMagic checks leading bytes to determine the file type.
// ZIP archives return Unknown; use DetectFromReader or DetectBytes to look
// inside them.
func DetectFromMagic(data []byte) model.FileType {
	switch {
	case len(data) < 2:
		return model.FileTypeUnknown
	case IsPDF(data):
		return model.FileTypePDF
	case IsZIP(data), IsOLE(data):
		return model.FileTypeUnknown
	case IsImage(data):
		return model.FileTypeImage
	case detectHTMLMagic(data):
		return model.FileTypeHTML
	}
	return model.FileTypeUnknown
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n\xef\xbb\xbf")
	if len(data) == 0 {
		return false
	}

	head := strings.ToUpper(string(data[:min(HeadSize, len(data))]))
	if strings.HasPrefix(head, "<!DOCTYPE HTML") || strings.HasPrefix(head, "<HTML") {
		return true
	}
	return strings.HasPrefix(head, "<?XML") && strings.Contains(head, "<HTML")
}

// DetectBytes determines the file type of an in-memory file. Content wins
// over the name; the extension is used when the content is not conclusive.
func DetectBytes(filename string, data []byte) model.FileType {
	if IsZIP(data) {
		if ft, err := detectZIPFormat(bytes.NewReader(data), int64(len(data))); err == nil && ft != model.FileTypeUnknown {
			return ft
		}
	}
	if ft := DetectFromMagic(data); ft != model.FileTypeUnknown {
		return ft
	}
	return Detect(filename)
}

// DetectFromReader inspects the content to determine the file type. It can
// tell the Office Open XML formats apart.
func DetectFromReader(r io.ReaderAt, size int64) (model.FileType, error) {
	magic := make([]byte, HeadSize)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return model.FileTypeUnknown, err
	}
	magic = magic[:n]

	if IsZIP(magic) {
		return detectZIPFormat(r, size)
	}
	return DetectFromMagic(magic), nil
}

// detectZIPFormat inspects a ZIP archive for the Office Open XML part
// directories and the EPUB container document.
func detectZIPFormat(r io.ReaderAt, size int64) (model.FileType, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return model.FileTypeUnknown, err
	}

	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "word/"):
			return model.FileTypeWord, nil
		case strings.HasPrefix(f.Name, "xl/"):
			return model.FileTypeExcel, nil
		case strings.HasPrefix(f.Name, "ppt/"):
			return model.FileTypePowerPoint, nil
		case f.Name == "META-INF/container.xml":
			return model.FileTypeEPUB, nil
		}
	}

	return model.FileTypeUnknown, nil
}
