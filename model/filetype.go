package model

// FileType identifies the kind of source a document was recovered from.
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypePDF
	FileTypeWord
	FileTypeExcel
	FileTypePowerPoint
	FileTypeCSV
	FileTypeMarkdown
	FileTypeText
	FileTypeHTML
	FileTypeImage
	FileTypeEPUB
)

func (ft FileType) String() string {
	switch ft {
	case FileTypePDF:
		return "PDF"
	case FileTypeWord:
		return "Word"
	case FileTypeExcel:
		return "Excel"
	case FileTypePowerPoint:
		return "PowerPoint"
	case FileTypeCSV:
		return "CSV"
	case FileTypeMarkdown:
		return "Markdown"
	case FileTypeText:
		return "Text"
	case FileTypeHTML:
		return "HTML"
	case FileTypeImage:
		return "Image"
	case FileTypeEPUB:
		return "EPUB"
	default:
		return "Unknown"
	}
}

// MimeType returns the canonical MIME type for the file type.
func (ft FileType) MimeType() string {
	switch ft {
	case FileTypePDF:
		return "application/pdf"
	case FileTypeWord:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FileTypeExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FileTypePowerPoint:
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case FileTypeCSV:
		return "text/csv"
	case FileTypeMarkdown:
		return "text/markdown"
	case FileTypeText:
		return "text/plain"
	case FileTypeHTML:
		return "text/html"
	case FileTypeImage:
		return "image/*"
	case FileTypeEPUB:
		return "application/epub+zip"
	default:
		return "application/octet-stream"
	}
}

// Paginated reports whether sources of this type carry real page
// boundaries such as PDF pages, sheets, slides or EPUB chapters.
func (ft FileType) Paginated() bool {
	switch ft {
	case FileTypePDF, FileTypeExcel, FileTypePowerPoint, FileTypeEPUB:
		return true
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler so the type serializes by name.
func (ft FileType) MarshalText() ([]byte, error) {
	return []byte(ft.String()), nil
}
