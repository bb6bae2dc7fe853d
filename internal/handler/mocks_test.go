package handler

import (
	"context"
	"net/http"

	"ine-ocr-server/internal/domain"
)

type mockAuthService struct {
	user      *domain.SupabaseUser
	err       error
	lastToken string
}

func (m *mockAuthService) ValidateToken(token string) (*domain.SupabaseUser, error) {
	m.lastToken = token
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

// MockExtractionService records the calls the handler makes.
type MockExtractionService struct {
	extraction  *domain.Extraction
	extractions []*domain.Extraction
	record      domain.IdentityRecord
	err         error

	lastUserID string
	lastID     string
	lastImage  *domain.RawDocumentImage
	lastText   string
	deleted    bool
}

func NewMockExtractionService() *MockExtractionService {
	return &MockExtractionService{}
}

func (m *MockExtractionService) Extract(ctx context.Context, userID string, image *domain.RawDocumentImage) (*domain.Extraction, error) {
	m.lastUserID = userID
	m.lastImage = image
	if m.err != nil {
		return nil, m.err
	}
	return m.extraction, nil
}

func (m *MockExtractionService) ParseText(text string) domain.IdentityRecord {
	m.lastText = text
	return m.record
}

func (m *MockExtractionService) ListExtractions(ctx context.Context, userID string) ([]*domain.Extraction, error) {
	m.lastUserID = userID
	if m.err != nil {
		return nil, m.err
	}
	return m.extractions, nil
}

func (m *MockExtractionService) GetExtraction(ctx context.Context, userID, id string) (*domain.Extraction, error) {
	m.lastUserID = userID
	m.lastID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.extraction, nil
}

func (m *MockExtractionService) DeleteExtraction(ctx context.Context, userID, id string) error {
	m.lastUserID = userID
	m.lastID = id
	if m.err != nil {
		return m.err
	}
	m.deleted = true
	return nil
}

func createContextWithUser(r *http.Request, user *domain.SupabaseUser) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}
