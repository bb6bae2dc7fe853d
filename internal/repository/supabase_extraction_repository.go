package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ine-ocr-server/internal/domain"

	postgrest "github.com/supabase-community/postgrest-go"
)

const extractionsTable = "ine_extractions"

// SupabaseExtractionRepository implements the domain.ExtractionRepository interface
type SupabaseExtractionRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// extractionRow mirrors the ine_extractions columns. record and lines are jsonb.
type extractionRow struct {
	ID           string                `json:"id"`
	UserID       string                `json:"user_id"`
	Record       domain.IdentityRecord `json:"record"`
	Lines        []string              `json:"lines"`
	ImagePath    string                `json:"image_path"`
	OriginalName string                `json:"original_name"`
	CreatedAt    time.Time             `json:"created_at"`
}

// NewSupabaseExtractionRepository creates a new Supabase extraction repository
func NewSupabaseExtractionRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) *SupabaseExtractionRepository {
	return &SupabaseExtractionRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

func (r *SupabaseExtractionRepository) Create(ctx context.Context, extraction *domain.Extraction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	lines := extraction.Lines
	if lines == nil {
		lines = []string{}
	}
	row := extractionRow{
		ID:           extraction.ID,
		UserID:       extraction.UserID,
		Record:       sanitizeRecord(extraction.Record),
		Lines:        sanitizeLines(lines),
		ImagePath:    extraction.ImagePath,
		OriginalName: stripNUL(extraction.OriginalName),
		CreatedAt:    extraction.CreatedAt.UTC(),
	}

	if _, _, err := client.From(extractionsTable).Insert(row, false, "", "minimal", "").Execute(); err != nil {
		r.logger.Error("Failed to insert extraction in Supabase", err,
			"extraction_id", extraction.ID,
			"lines", len(lines),
		)
		return fmt.Errorf("failed to create extraction: %w", err)
	}

	r.logger.Info("Extraction created", "id", extraction.ID, "user_id", extraction.UserID)
	return nil
}

// GetByID retrieves an extraction by ID
func (r *SupabaseExtractionRepository) GetByID(ctx context.Context, id string) (*domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(extractionsTable).
		Select("*", "", false).
		Eq("id", id).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get extraction: %w", err)
	}

	var rows []extractionRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrExtractionNotFound
	}
	return rows[0].toDomain(), nil
}

// GetByUserID retrieves all extractions for a user, newest first
func (r *SupabaseExtractionRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(extractionsTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get extractions: %w", err)
	}

	var rows []extractionRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	extractions := make([]*domain.Extraction, 0, len(rows))
	for i := range rows {
		extractions = append(extractions, rows[i].toDomain())
	}
	return extractions, nil
}

// Delete deletes an extraction from Supabase
func (r *SupabaseExtractionRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	_, _, err := client.From(extractionsTable).
		Delete("", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete extraction: %w", err)
	}
	return nil
}

func (row extractionRow) toDomain() *domain.Extraction {
	lines := row.Lines
	if lines == nil {
		lines = []string{}
	}
	return &domain.Extraction{
		ID:           row.ID,
		UserID:       row.UserID,
		Record:       row.Record,
		Lines:        lines,
		ImagePath:    row.ImagePath,
		OriginalName: row.OriginalName,
		CreatedAt:    row.CreatedAt,
	}
}

// Postgres rejects NUL in text and jsonb (SQLSTATE 22P05). OCR output occasionally carries one.
func stripNUL(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}

func sanitizeLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = stripNUL(line)
	}
	return out
}

func sanitizeRecord(rec domain.IdentityRecord) domain.IdentityRecord {
	rec.GivenName = stripNUL(rec.GivenName)
	rec.FirstSurname = stripNUL(rec.FirstSurname)
	rec.SecondSurname = stripNUL(rec.SecondSurname)
	rec.Address = stripNUL(rec.Address)
	rec.CURP = stripNUL(rec.CURP)
	return rec
}
