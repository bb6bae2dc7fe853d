//go:build !tesseract

package tesseract

import (
	"context"
	"errors"

	"ine-ocr-server/internal/domain"
)

// Available reports whether the binary was built with tesseract support.
const Available = false

// ErrUnavailable is returned by New when the binary was built without the
// tesseract build tag.
var ErrUnavailable = errors.New("tesseract support not compiled in (build with -tags tesseract)")

// Engine is a placeholder so callers compile without cgo.
type Engine struct{}

func New(language string, logger domain.Logger) (*Engine, error) {
	return nil, ErrUnavailable
}

func (e *Engine) RecognizeText(ctx context.Context, image *domain.CompressedDocumentImage) (domain.OCRLineSequence, error) {
	return nil, ErrUnavailable
}
