// Package pdfrender turns PDF scans of an INE into a raster image the OCR
// pipeline can consume.
package pdfrender

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"path/filepath"
	"strings"

	"ine-ocr-server/internal/domain"

	"github.com/gen2brain/go-fitz"
)

const DefaultDPI = 200

var ErrEmptyDocument = errors.New("pdf has no pages")

// Rasterizer implements domain.DocumentRasterizer with MuPDF.
type Rasterizer struct {
	dpi    float64
	logger domain.Logger
}

func NewRasterizer(dpi int, logger domain.Logger) *Rasterizer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Rasterizer{dpi: float64(dpi), logger: logger}
}

// Rasterize renders the first page as PNG. The card front is expected there;
// further pages are ignored.
func (r *Rasterizer) Rasterize(document *domain.RawDocumentImage) (*domain.RawDocumentImage, error) {
	if document == nil || len(document.Data) == 0 {
		return nil, ErrEmptyDocument
	}

	doc, err := fitz.NewFromMemory(document.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages < 1 {
		return nil, ErrEmptyDocument
	}

	img, err := doc.ImageDPI(0, r.dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to render PDF page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode rendered page: %w", err)
	}

	bounds := img.Bounds()
	r.logger.Debug("PDF page rasterized",
		"name", document.Name,
		"pages", pages,
		"width", bounds.Dx(),
		"height", bounds.Dy(),
	)

	return &domain.RawDocumentImage{
		Data:     buf.Bytes(),
		MIMEType: "image/png",
		Name:     pngName(document.Name),
	}, nil
}

func pngName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." || base == "/" {
		base = "document"
	}
	return base + ".png"
}
