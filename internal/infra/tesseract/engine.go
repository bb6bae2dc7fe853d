//go:build tesseract

// Package tesseract recognizes text locally through libtesseract.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"ine-ocr-server/internal/domain"
)

// Available reports whether the binary was built with tesseract support.
const Available = true

// Engine implements domain.TextRecognizer with gosseract.
type Engine struct {
	language      string
	clientFactory func() *gosseract.Client
	logger        domain.Logger
}

// New creates a tesseract-backed recognizer for the given trained-data language.
func New(language string, logger domain.Logger) (*Engine, error) {
	if language == "" {
		language = "spa"
	}
	return &Engine{
		language:      language,
		clientFactory: gosseract.NewClient,
		logger:        logger,
	}, nil
}

// RecognizeText runs OCR on the image. A fresh client is used per call since
// gosseract clients are not safe for concurrent use.
func (e *Engine) RecognizeText(ctx context.Context, image *domain.CompressedDocumentImage) (domain.OCRLineSequence, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOCRUnavailable, err)
	}
	if image == nil || len(image.Data) == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrOCRUnavailable)
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(e.language); err != nil {
		return nil, fmt.Errorf("%w: set language: %v", domain.ErrOCRUnavailable, err)
	}
	if err := c.SetImageFromBytes(image.Data); err != nil {
		return nil, fmt.Errorf("%w: set image: %v", domain.ErrOCRUnavailable, err)
	}

	text, err := c.Text()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOCRUnavailable, err)
	}

	lines := domain.ParseOCRText(text)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty text", domain.ErrNoTextExtracted)
	}

	e.logger.Info("Extracted OCR text", "provider", "tesseract", "lines", len(lines))
	return lines, nil
}
