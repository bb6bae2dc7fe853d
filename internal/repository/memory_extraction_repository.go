package repository

import (
	"context"
	"sort"
	"sync"

	"ine-ocr-server/internal/domain"
)

// MemoryExtractionRepository keeps extractions in process memory. Used when
// Supabase is not configured.
type MemoryExtractionRepository struct {
	mu          sync.RWMutex
	extractions map[string]*domain.Extraction
}

func NewMemoryExtractionRepository() *MemoryExtractionRepository {
	return &MemoryExtractionRepository{extractions: make(map[string]*domain.Extraction)}
}

func (r *MemoryExtractionRepository) Create(ctx context.Context, extraction *domain.Extraction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractions[extraction.ID] = cloneExtraction(extraction)
	return nil
}

func (r *MemoryExtractionRepository) GetByID(ctx context.Context, id string) (*domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	extraction, ok := r.extractions[id]
	if !ok {
		return nil, domain.ErrExtractionNotFound
	}
	return cloneExtraction(extraction), nil
}

func (r *MemoryExtractionRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]*domain.Extraction, 0)
	for _, extraction := range r.extractions {
		if extraction.UserID == userID {
			out = append(out, cloneExtraction(extraction))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryExtractionRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.extractions[id]; !ok {
		return domain.ErrExtractionNotFound
	}
	delete(r.extractions, id)
	return nil
}

func cloneExtraction(e *domain.Extraction) *domain.Extraction {
	c := *e
	c.Lines = append([]string(nil), e.Lines...)
	return &c
}
