package model

import (
	"fmt"
	"time"
)

// DocumentMetadata contains descriptive fields and totals for a document.
// The totals are derived from the pages by ParsedDocument.RebuildMetadata.
type DocumentMetadata struct {
	FileName    string    `json:"fileName,omitempty" yaml:"fileName,omitempty"`
	FileType    FileType  `json:"fileType" yaml:"fileType"`
	FileSize    int64     `json:"fileSize,omitempty" yaml:"fileSize,omitempty"`
	MimeType    string    `json:"mimeType,omitempty" yaml:"mimeType,omitempty"`
	Charset     string    `json:"charset,omitempty" yaml:"charset,omitempty"`
	Title       string    `json:"title,omitempty" yaml:"title,omitempty"`
	Author      string    `json:"author,omitempty" yaml:"author,omitempty"`
	Subject     string    `json:"subject,omitempty" yaml:"subject,omitempty"`
	Keywords    string    `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Created     time.Time `json:"created,omitempty" yaml:"created,omitempty"`
	Modified    time.Time `json:"modified,omitempty" yaml:"modified,omitempty"`

	TotalPages      int `json:"totalPages" yaml:"totalPages"`
	TotalWords      int `json:"totalWords" yaml:"totalWords"`
	TotalCharacters int `json:"totalCharacters" yaml:"totalCharacters"`
	TotalTables     int `json:"totalTables" yaml:"totalTables"`
	TotalSheets     int `json:"totalSheets,omitempty" yaml:"totalSheets,omitempty"`
	TotalSlides     int `json:"totalSlides,omitempty" yaml:"totalSlides,omitempty"`

	// Custom metadata
	Custom map[string]string `json:"custom,omitempty" yaml:"custom,omitempty"`
}

// FormatFileSize renders a byte count in a human readable unit.
func FormatFileSize(size int64) string {
	const unit = 1024
	switch {
	case size < unit:
		return fmt.Sprintf("%d B", size)
	case size < unit*unit:
		return fmt.Sprintf("%.2f KB", float64(size)/unit)
	case size < unit*unit*unit:
		return fmt.Sprintf("%.2f MB", float64(size)/(unit*unit))
	default:
		return fmt.Sprintf("%.2f GB", float64(size)/(unit*unit*unit))
	}
}
