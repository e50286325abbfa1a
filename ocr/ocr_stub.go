//go:build !ocr

package ocr

import "context"

// PageSegMode mirrors the Tesseract page segmentation modes.
type PageSegMode int

// Page segmentation modes used by this package.
const (
	PSM_AUTO         PageSegMode = 3
	PSM_SINGLE_BLOCK PageSegMode = 6
	PSM_SPARSE_TEXT  PageSegMode = 11
)

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// New returns ErrOCRNotEnabled.
func New(language string) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op. It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// Recognize returns ErrOCRNotEnabled.
func (c *Client) Recognize(ctx context.Context, imageData []byte) (string, error) {
	return "", ErrOCRNotEnabled
}

// SetPageSegMode returns ErrOCRNotEnabled.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return ErrOCRNotEnabled
}
