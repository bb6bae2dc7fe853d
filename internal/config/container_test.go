package config

import (
	"testing"
	"time"

	"ine-ocr-server/internal/infra/ocrspace"
	"ine-ocr-server/internal/infra/tesseract"
	"ine-ocr-server/internal/repository"
	"ine-ocr-server/pkg/logger"
)

func testConfig() *AppConfig {
	return &AppConfig{
		LogLevel:          "error",
		SupabaseBucket:    "ine-images",
		OCRProvider:       "ocrspace",
		OCRAPIURL:         "http://127.0.0.1:1/parse/image",
		OCRLanguage:       "spa",
		OCREngine:         "2",
		OCRTimeout:        5 * time.Second,
		ImageMaxDimension: 1200,
		ImageJPEGQuality:  70,
		ImageMaxBytes:     800 * 1024,
	}
}

func TestNewContainerWithConfig_WithoutSupabase(t *testing.T) {
	cfg := testConfig()
	c := NewContainerWithConfig(cfg, logger.NewLogger(cfg.LogLevel))

	if _, ok := c.ExtractionRepository.(*repository.MemoryExtractionRepository); !ok {
		t.Fatalf("expected in-memory repository, got %T", c.ExtractionRepository)
	}
	if c.ImageStorage != nil {
		t.Fatalf("expected no image storage, got %T", c.ImageStorage)
	}
	if _, ok := c.Recognizer.(*ocrspace.Client); !ok {
		t.Fatalf("expected OCR.space recognizer, got %T", c.Recognizer)
	}
	if c.AuthService == nil || c.ExtractionService == nil || c.Preprocessor == nil {
		t.Fatalf("expected services to be wired: %+v", c)
	}
}

func TestNewContainerWithConfig_WithSupabase(t *testing.T) {
	cfg := testConfig()
	cfg.SupabaseURL = "http://localhost:54321"
	cfg.SupabaseKey = "anon"
	c := NewContainerWithConfig(cfg, logger.NewLogger(cfg.LogLevel))

	if _, ok := c.ExtractionRepository.(*repository.SupabaseExtractionRepository); !ok {
		t.Fatalf("expected Supabase repository, got %T", c.ExtractionRepository)
	}
	if c.ImageStorage == nil {
		t.Fatalf("expected Supabase image storage")
	}
}

func TestNewContainerWithConfig_TesseractProvider(t *testing.T) {
	cfg := testConfig()
	cfg.OCRProvider = "tesseract"
	c := NewContainerWithConfig(cfg, logger.NewLogger(cfg.LogLevel))

	if tesseract.Available {
		if _, ok := c.Recognizer.(*tesseract.Engine); !ok {
			t.Fatalf("expected Tesseract recognizer, got %T", c.Recognizer)
		}
		return
	}
	if _, ok := c.Recognizer.(*ocrspace.Client); !ok {
		t.Fatalf("expected OCR.space fallback, got %T", c.Recognizer)
	}
}
