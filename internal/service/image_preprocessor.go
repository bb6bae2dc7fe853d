package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"path/filepath"
	"strings"

	// Decoders for the formats phones and browsers hand us.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"ine-ocr-server/internal/domain"
)

const (
	DefaultMaxDimension = 1200
	DefaultJPEGQuality  = 70
	DefaultMaxBytes     = 800 * 1024

	minJPEGQuality  = 40
	qualityStepDown = 10
)

// ImagePreprocessor downscales and recompresses document photos before OCR.
type ImagePreprocessor struct {
	maxDimension int
	quality      int
	maxBytes     int
	logger       domain.Logger
}

// NewImagePreprocessor creates a preprocessor. Non-positive settings fall back
// to the defaults.
func NewImagePreprocessor(maxDimension, quality, maxBytes int, logger domain.Logger) *ImagePreprocessor {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &ImagePreprocessor{
		maxDimension: maxDimension,
		quality:      quality,
		maxBytes:     maxBytes,
		logger:       logger,
	}
}

// Compress bounds the long edge to maxDimension and re-encodes as JPEG.
// Any failure hands back the original image untouched.
func (p *ImagePreprocessor) Compress(raw *domain.RawDocumentImage) *domain.CompressedDocumentImage {
	if raw == nil {
		p.logger.Warn("Image compression skipped, no image given")
		return &domain.CompressedDocumentImage{}
	}

	compressed, err := p.compress(raw)
	if err != nil {
		p.logger.Warn("Image compression failed, using original image",
			"name", raw.Name,
			"mime_type", raw.MIMEType,
			"size", len(raw.Data),
			"error", err,
		)
		return &domain.CompressedDocumentImage{
			Data:     raw.Data,
			MIMEType: raw.MIMEType,
			Name:     raw.Name,
		}
	}
	return compressed
}

func (p *ImagePreprocessor) compress(raw *domain.RawDocumentImage) (*domain.CompressedDocumentImage, error) {
	if raw == nil || len(raw.Data) == 0 {
		return nil, fmt.Errorf("empty image")
	}

	img, format, err := image.Decode(bytes.NewReader(raw.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := ScaleToFit(bounds.Dx(), bounds.Dy(), p.maxDimension)
	if width != bounds.Dx() || height != bounds.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	data, quality, err := p.encode(img)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Image compressed",
		"name", raw.Name,
		"source_format", format,
		"source_size", len(raw.Data),
		"width", width,
		"height", height,
		"quality", quality,
		"size", len(data),
	)

	return &domain.CompressedDocumentImage{
		Data:       data,
		MIMEType:   domain.MIMETypeJPEG,
		Name:       jpegName(raw.Name),
		Width:      width,
		Height:     height,
		Compressed: true,
	}, nil
}

// encode writes img as JPEG at the configured quality, stepping the quality
// down while the output is over the byte budget. The budget is best-effort:
// the last attempt is returned even if it is still too large.
func (p *ImagePreprocessor) encode(img image.Image) ([]byte, int, error) {
	quality := p.quality
	for {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, 0, fmt.Errorf("failed to encode jpeg: %w", err)
		}
		next := quality - qualityStepDown
		if buf.Len() <= p.maxBytes || next < minJPEGQuality {
			return buf.Bytes(), quality, nil
		}
		quality = next
	}
}

// ScaleToFit returns dimensions whose long edge is at most maxDimension,
// keeping the aspect ratio. Images already within bounds are unchanged.
func ScaleToFit(width, height, maxDimension int) (int, int) {
	long := width
	if height > long {
		long = height
	}
	if long <= maxDimension || long == 0 {
		return width, height
	}

	scale := float64(maxDimension) / float64(long)
	w := int(math.Round(float64(width) * scale))
	h := int(math.Round(float64(height) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func jpegName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" {
		base = "document"
	}
	return base + ".jpg"
}
