package domain

import (
	"context"
	"io"
)

// ImagePreprocessor normalizes a photo before it is sent to OCR.
// Implementations never fail: on error they hand back the original image.
type ImagePreprocessor interface {
	Compress(image *RawDocumentImage) *CompressedDocumentImage
}

// DocumentRasterizer renders a scanned PDF of the card into an image.
type DocumentRasterizer interface {
	Rasterize(document *RawDocumentImage) (*RawDocumentImage, error)
}

// TextRecognizer turns an image into recognized text lines.
type TextRecognizer interface {
	RecognizeText(ctx context.Context, image *CompressedDocumentImage) (OCRLineSequence, error)
}

// ImageStorage archives processed images.
type ImageStorage interface {
	Upload(ctx context.Context, path string, file io.Reader, contentType string) error
	Remove(ctx context.Context, path string) error
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}
