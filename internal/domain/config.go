package domain

import "time"

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetMaxFileSize() int64
	GetLogLevel() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetSupabaseBucket() string
	GetOCRProvider() string
	GetOCRAPIURL() string
	GetOCRAPIKey() string
	GetOCRLanguage() string
	GetOCREngine() string
	GetOCRTimeout() time.Duration
	GetImageMaxDimension() int
	GetImageJPEGQuality() int
	GetImageMaxBytes() int
	GetPDFRenderDPI() int
	GetAllowGuest() bool
	GetCORSAllowedOrigins() []string
}
