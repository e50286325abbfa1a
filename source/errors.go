package source

import "errors"

var (
	// ErrUnsupportedFormat is returned when no parser accepts a file.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptyInput is returned for a zero-length buffer.
	ErrEmptyInput = errors.New("empty input")

	// ErrNotCSV is returned when a file named as delimited text is a binary
	// container such as a ZIP, OLE or PDF file.
	ErrNotCSV = errors.New("not a delimited text file")
)
