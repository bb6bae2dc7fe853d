package config

import (
	"ine-ocr-server/internal/domain"
	"ine-ocr-server/internal/infra/ocrspace"
	"ine-ocr-server/internal/infra/pdfrender"
	"ine-ocr-server/internal/infra/supabase"
	"ine-ocr-server/internal/infra/tesseract"
	"ine-ocr-server/internal/repository"
	"ine-ocr-server/internal/service"
	"ine-ocr-server/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config               domain.Config
	Logger               domain.Logger
	SupabaseClient       domain.SupabaseClient
	ExtractionRepository domain.ExtractionRepository
	ImageStorage         domain.ImageStorage
	Preprocessor         domain.ImagePreprocessor
	Recognizer           domain.TextRecognizer
	AuthService          domain.AuthService
	ExtractionService    domain.ExtractionService
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	cfg := NewConfig()
	return NewContainerWithConfig(cfg, logger.NewLogger(cfg.GetLogLevel()))
}

// NewContainerWithConfig wires the application from an explicit configuration.
// Without Supabase credentials extractions live in memory and images are not archived.
func NewContainerWithConfig(cfg domain.Config, appLogger domain.Logger) *Container {
	supabaseClient := supabase.NewSupabaseClient(cfg, appLogger)

	var (
		extractionRepo domain.ExtractionRepository
		imageStorage   domain.ImageStorage
	)
	if supabaseClient.IsConfigured() {
		if err := supabaseClient.Initialize(); err != nil {
			appLogger.Error("Failed to initialize Supabase client", err)
		}
	}
	if supabaseClient.DB() != nil {
		extractionRepo = repository.NewSupabaseExtractionRepository(supabaseClient, appLogger)
		imageStorage = service.NewStorageService(supabaseClient, cfg.GetSupabaseBucket(), appLogger)
	} else {
		appLogger.Warn("Supabase not configured, using in-memory extraction store")
		extractionRepo = repository.NewMemoryExtractionRepository()
	}

	preprocessor := service.NewImagePreprocessor(
		cfg.GetImageMaxDimension(),
		cfg.GetImageJPEGQuality(),
		cfg.GetImageMaxBytes(),
		appLogger,
	)

	recognizer := newRecognizer(cfg, appLogger)

	extractionService := service.NewExtractionService(
		preprocessor,
		recognizer,
		extractionRepo,
		imageStorage,
		appLogger,
		cfg.GetOCRTimeout(),
	).WithRasterizer(pdfrender.NewRasterizer(cfg.GetPDFRenderDPI(), appLogger))

	return &Container{
		Config:               cfg,
		Logger:               appLogger,
		SupabaseClient:       supabaseClient,
		ExtractionRepository: extractionRepo,
		ImageStorage:         imageStorage,
		Preprocessor:         preprocessor,
		Recognizer:           recognizer,
		AuthService:          service.NewAuthService(supabaseClient, appLogger),
		ExtractionService:    extractionService,
	}
}

// newRecognizer picks the OCR backend. Tesseract needs the tesseract build tag;
// otherwise OCR.space is used.
func newRecognizer(cfg domain.Config, appLogger domain.Logger) domain.TextRecognizer {
	if cfg.GetOCRProvider() == "tesseract" {
		engine, err := tesseract.New(cfg.GetOCRLanguage(), appLogger)
		if err == nil {
			appLogger.Info("Using local Tesseract OCR", "language", cfg.GetOCRLanguage())
			return engine
		}
		appLogger.Warn("Tesseract unavailable, falling back to OCR.space", "error", err)
	}

	if cfg.GetOCRAPIKey() == "" {
		appLogger.Warn("OCR_API_KEY is empty, OCR.space requests will be rejected")
	}
	return ocrspace.NewClient(ocrspace.Options{
		Endpoint: cfg.GetOCRAPIURL(),
		APIKey:   cfg.GetOCRAPIKey(),
		Language: cfg.GetOCRLanguage(),
		Engine:   cfg.GetOCREngine(),
		Timeout:  cfg.GetOCRTimeout(),
	}, appLogger)
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

// GetSupabaseClient returns the Supabase client instance
func (c *Container) GetSupabaseClient() domain.SupabaseClient {
	return c.SupabaseClient
}
