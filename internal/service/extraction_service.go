package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ine-ocr-server/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Content types accepted for INE photos.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/tiff": true,
	"image/heic": true,
	"image/heif": true,
}

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".heic": true,
	".heif": true,
}

// ExtractionService runs the INE pipeline: preprocess, recognize, parse,
// archive and persist.
type ExtractionService struct {
	preprocessor domain.ImagePreprocessor
	recognizer   domain.TextRecognizer
	repo         domain.ExtractionRepository
	storage      domain.ImageStorage
	rasterizer   domain.DocumentRasterizer
	logger       domain.Logger
	ocrTimeout   time.Duration
	clock        func() time.Time
}

func NewExtractionService(
	preprocessor domain.ImagePreprocessor,
	recognizer domain.TextRecognizer,
	repo domain.ExtractionRepository,
	storage domain.ImageStorage,
	logger domain.Logger,
	ocrTimeout time.Duration,
) *ExtractionService {
	return &ExtractionService{
		preprocessor: preprocessor,
		recognizer:   recognizer,
		repo:         repo,
		storage:      storage,
		logger:       logger,
		ocrTimeout:   ocrTimeout,
		clock:        time.Now,
	}
}

// WithRasterizer enables PDF scans. Without one PDFs are rejected as unsupported.
func (s *ExtractionService) WithRasterizer(rasterizer domain.DocumentRasterizer) *ExtractionService {
	s.rasterizer = rasterizer
	return s
}

// WithClock replaces the clock used for age computation and timestamps.
func (s *ExtractionService) WithClock(clock func() time.Time) *ExtractionService {
	s.clock = clock
	return s
}

// Extract runs the whole pipeline for one photo. When OCR yields no text the
// returned error is domain.ErrNoTextExtracted and no record is stored.
func (s *ExtractionService) Extract(
	ctx context.Context,
	userID string,
	raw *domain.RawDocumentImage,
) (*domain.Extraction, error) {
	prepared, err := s.prepare(raw)
	if err != nil {
		return nil, err
	}

	compressed := s.preprocessor.Compress(prepared)
	id := uuid.New().String()

	// The archive upload runs alongside OCR; it never fails the group.
	var (
		lines     domain.OCRLineSequence
		imagePath string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		lines, err = s.recognize(gctx, compressed)
		return err
	})
	g.Go(func() error {
		imagePath = s.archive(gctx, userID, id, compressed)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("OCR returned no usable text",
			"user_id", userID,
			"name", raw.Name,
			"error", err,
		)
		s.discard(ctx, id, imagePath)
		return nil, domain.ErrNoTextExtracted
	}

	now := s.clock()
	extraction := &domain.Extraction{
		ID:           id,
		UserID:       userID,
		Record:       ExtractIdentity(lines, now),
		Lines:        lines,
		ImagePath:    imagePath,
		OriginalName: raw.Name,
		CreatedAt:    now.UTC(),
	}

	if err := s.repo.Create(ctx, extraction); err != nil {
		s.discard(ctx, id, imagePath)
		return nil, fmt.Errorf("failed to store extraction: %w", err)
	}

	s.logger.Info("INE extraction completed",
		"extraction_id", extraction.ID,
		"user_id", userID,
		"lines", len(lines),
		"curp_found", extraction.Record.CURP != "",
		"compressed", compressed.Compressed,
	)

	return extraction, nil
}

func (s *ExtractionService) recognize(ctx context.Context, image *domain.CompressedDocumentImage) (domain.OCRLineSequence, error) {
	if s.ocrTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.ocrTimeout)
		defer cancel()
	}

	lines, err := s.recognizer.RecognizeText(ctx, image)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrNoTextExtracted
	}
	return lines, nil
}

// archive uploads the processed image. Failures only cost the archive copy.
func (s *ExtractionService) archive(ctx context.Context, userID, extractionID string, image *domain.CompressedDocumentImage) string {
	if s.storage == nil {
		return ""
	}

	ext := ".jpg"
	if !image.Compressed {
		if e := strings.ToLower(filepath.Ext(image.Name)); e != "" {
			ext = e
		}
	}
	path := fmt.Sprintf("%s/%s%s", storageSafe(userID), extractionID, ext)

	if err := s.storage.Upload(ctx, path, bytes.NewReader(image.Data), image.MIMEType); err != nil {
		s.logger.Error("Failed to archive INE image", err, "extraction_id", extractionID)
		return ""
	}
	return path
}

// discard removes an archived image whose extraction was never stored.
func (s *ExtractionService) discard(ctx context.Context, extractionID, path string) {
	if path == "" || s.storage == nil {
		return
	}
	if err := s.storage.Remove(ctx, path); err != nil {
		s.logger.Warn("Failed to remove orphaned INE image", "extraction_id", extractionID, "path", path, "error", err)
	}
}

// prepare validates the upload and rasterizes PDF scans.
func (s *ExtractionService) prepare(raw *domain.RawDocumentImage) (*domain.RawDocumentImage, error) {
	if raw != nil && len(raw.Data) > 0 && isPDF(raw) {
		if s.rasterizer == nil {
			return nil, &domain.ValidationError{Field: "file", Message: "PDF uploads are not supported"}
		}
		page, err := s.rasterizer.Rasterize(raw)
		if err != nil {
			s.logger.Warn("Failed to rasterize PDF", "name", raw.Name, "error", err)
			return nil, &domain.ValidationError{Field: "file", Message: "PDF could not be read"}
		}
		raw = page
	}
	if err := validateImage(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ParseText extracts an identity record from text that was already recognized.
func (s *ExtractionService) ParseText(text string) domain.IdentityRecord {
	return ExtractIdentity(domain.ParseOCRText(text), s.clock())
}

func (s *ExtractionService) ListExtractions(ctx context.Context, userID string) ([]*domain.Extraction, error) {
	extractions, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(extractions, func(i, j int) bool {
		return extractions[i].CreatedAt.After(extractions[j].CreatedAt)
	})
	return extractions, nil
}

func (s *ExtractionService) GetExtraction(ctx context.Context, userID, id string) (*domain.Extraction, error) {
	extraction, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if extraction.UserID != userID {
		return nil, domain.ErrAccessDenied
	}
	return extraction, nil
}

func (s *ExtractionService) DeleteExtraction(ctx context.Context, userID, id string) error {
	extraction, err := s.GetExtraction(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if extraction.ImagePath != "" && s.storage != nil {
		if err := s.storage.Remove(ctx, extraction.ImagePath); err != nil {
			s.logger.Warn("Failed to remove archived INE image", "extraction_id", id, "path", extraction.ImagePath, "error", err)
		}
	}
	return nil
}

func validateImage(raw *domain.RawDocumentImage) error {
	if raw == nil || len(raw.Data) == 0 {
		return &domain.ValidationError{Field: "file", Message: "image is empty"}
	}

	mimeType := normalizeMIME(raw.MIMEType)
	ext := strings.ToLower(filepath.Ext(raw.Name))

	if allowedImageTypes[mimeType] || allowedImageExt[ext] {
		return nil
	}
	return &domain.ValidationError{
		Field:   "file",
		Message: fmt.Sprintf("unsupported image type %q", raw.MIMEType),
	}
}

func isPDF(raw *domain.RawDocumentImage) bool {
	return normalizeMIME(raw.MIMEType) == "application/pdf" ||
		strings.EqualFold(filepath.Ext(raw.Name), ".pdf") ||
		bytes.HasPrefix(raw.Data, []byte("%PDF-"))
}

func normalizeMIME(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}

// storageSafe keeps user IDs usable as a single path segment (guest IDs carry a colon).
func storageSafe(userID string) string {
	return strings.NewReplacer("/", "_", ":", "_", "..", "_").Replace(userID)
}
