package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"ine-ocr-server/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort         string
	MaxFileSize        int64
	LogLevel           string
	SupabaseURL        string
	SupabaseKey        string
	SupabaseBucket     string
	OCRProvider        string
	OCRAPIURL          string
	OCRAPIKey          string
	OCRLanguage        string
	OCREngine          string
	OCRTimeout         time.Duration
	ImageMaxDimension  int
	ImageJPEGQuality   int
	ImageMaxBytes      int
	PDFRenderDPI       int
	AllowGuest         bool
	CORSAllowedOrigins []string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:        getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		MaxFileSize:       getEnvInt64OrDefault("MAX_FILE_SIZE", 10*1024*1024), // 10MB default
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		SupabaseURL:       getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:       getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		SupabaseBucket:    getEnvOrDefault("SUPABASE_BUCKET", "ine-images"),
		OCRProvider:       strings.ToLower(getEnvOrDefault("OCR_PROVIDER", "ocrspace")),
		OCRAPIURL:         getEnvOrDefault("OCR_API_URL", "https://api.ocr.space/parse/image"),
		OCRAPIKey:         getEnvOrDefault("OCR_API_KEY", ""),
		OCRLanguage:       getEnvOrDefault("OCR_LANGUAGE", "spa"),
		OCREngine:         getEnvOrDefault("OCR_ENGINE", "2"),
		OCRTimeout:        getEnvDurationOrDefault("OCR_TIMEOUT", 30*time.Second),
		ImageMaxDimension: getEnvIntOrDefault("IMAGE_MAX_DIMENSION", 1200),
		ImageJPEGQuality:  getEnvIntOrDefault("IMAGE_JPEG_QUALITY", 70),
		ImageMaxBytes:     getEnvIntOrDefault("IMAGE_MAX_BYTES", 800*1024),
		PDFRenderDPI:      getEnvIntOrDefault("PDF_RENDER_DPI", 200),
		AllowGuest:        getEnvBoolOrDefault("AUTH_ALLOW_GUEST", false),
		CORSAllowedOrigins: getEnvListOrDefault("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:8081", // Expo dev server
			"http://localhost:19006",
			"http://localhost:3000",
		}),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetMaxFileSize returns the maximum allowed upload size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetSupabaseBucket returns the storage bucket used to archive images
func (c *AppConfig) GetSupabaseBucket() string {
	return c.SupabaseBucket
}

func (c *AppConfig) GetOCRProvider() string {
	return c.OCRProvider
}

func (c *AppConfig) GetOCRAPIURL() string {
	return c.OCRAPIURL
}

func (c *AppConfig) GetOCRAPIKey() string {
	return c.OCRAPIKey
}

func (c *AppConfig) GetOCRLanguage() string {
	return c.OCRLanguage
}

func (c *AppConfig) GetOCREngine() string {
	return c.OCREngine
}

// GetOCRTimeout bounds a single OCR round trip
func (c *AppConfig) GetOCRTimeout() time.Duration {
	return c.OCRTimeout
}

func (c *AppConfig) GetImageMaxDimension() int {
	return c.ImageMaxDimension
}

func (c *AppConfig) GetImageJPEGQuality() int {
	return c.ImageJPEGQuality
}

func (c *AppConfig) GetImageMaxBytes() int {
	return c.ImageMaxBytes
}

// GetPDFRenderDPI is the resolution used to rasterize PDF scans
func (c *AppConfig) GetPDFRenderDPI() int {
	return c.PDFRenderDPI
}

// GetAllowGuest reports whether X-Guest-Id requests are accepted without a token
func (c *AppConfig) GetAllowGuest() bool {
	return c.AllowGuest
}

func (c *AppConfig) GetCORSAllowedOrigins() []string {
	return c.CORSAllowedOrigins
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
