package domain

import (
	"context"
	"time"
)

// Extraction is one persisted run of the INE pipeline.
type Extraction struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Record       IdentityRecord `json:"record"`
	Lines        []string       `json:"lines"`
	ImagePath    string         `json:"image_path,omitempty"`
	OriginalName string         `json:"original_name"`
	CreatedAt    time.Time      `json:"created_at"`
}

// ExtractionRepository defines persistence operations for extractions.
type ExtractionRepository interface {
	Create(ctx context.Context, extraction *Extraction) error
	GetByID(ctx context.Context, id string) (*Extraction, error)
	GetByUserID(ctx context.Context, userID string) ([]*Extraction, error)
	Delete(ctx context.Context, id string) error
}

// ExtractionService defines the use-case operations behind the INE endpoints.
type ExtractionService interface {
	Extract(ctx context.Context, userID string, image *RawDocumentImage) (*Extraction, error)
	ParseText(text string) IdentityRecord
	ListExtractions(ctx context.Context, userID string) ([]*Extraction, error)
	GetExtraction(ctx context.Context, userID, id string) (*Extraction, error)
	DeleteExtraction(ctx context.Context, userID, id string) error
}
