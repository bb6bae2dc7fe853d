package service

import (
	"context"
	"errors"
	"io"
	"sync"

	"ine-ocr-server/internal/domain"

	"github.com/supabase-community/supabase-go"
)

// MockLogger records messages for assertions.
type MockLogger struct {
	mu       sync.Mutex
	messages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{
		messages: []string{},
	}
}

func (m *MockLogger) record(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *MockLogger) Info(msg string, args ...interface{}) {
	m.record("INFO: " + msg)
}

func (m *MockLogger) Error(msg string, err error, args ...interface{}) {
	m.record("ERROR: " + msg + " - " + err.Error())
}

func (m *MockLogger) Debug(msg string, args ...interface{}) {
	m.record("DEBUG: " + msg)
}

func (m *MockLogger) Warn(msg string, args ...interface{}) {
	m.record("WARN: " + msg)
}

// MockSupabaseClient for testing
type MockSupabaseClient struct {
	users map[string]*domain.SupabaseUser
	calls int
}

func NewMockSupabaseClient() *MockSupabaseClient {
	return &MockSupabaseClient{
		users: map[string]*domain.SupabaseUser{
			"valid-token": {ID: "user-123", Email: "test@example.com"},
		},
	}
}

func (m *MockSupabaseClient) Initialize() error { return nil }

func (m *MockSupabaseClient) IsConfigured() bool { return true }

func (m *MockSupabaseClient) ValidateToken(token string) (*domain.SupabaseUser, error) {
	m.calls++
	if user, ok := m.users[token]; ok {
		return user, nil
	}
	return nil, errors.New("token validation failed")
}

func (m *MockSupabaseClient) DB() *supabase.Client {
	return nil
}

func (m *MockSupabaseClient) GetClientWithToken(token string) (*supabase.Client, error) {
	return nil, nil
}

// MockRecognizer returns canned OCR output.
type MockRecognizer struct {
	lines    domain.OCRLineSequence
	err      error
	received *domain.CompressedDocumentImage
	deadline bool
}

func (m *MockRecognizer) RecognizeText(ctx context.Context, image *domain.CompressedDocumentImage) (domain.OCRLineSequence, error) {
	m.received = image
	_, m.deadline = ctx.Deadline()
	if m.err != nil {
		return nil, m.err
	}
	return m.lines, nil
}

// MockPreprocessor passes images through as already compressed.
type MockPreprocessor struct{}

func (MockPreprocessor) Compress(raw *domain.RawDocumentImage) *domain.CompressedDocumentImage {
	return &domain.CompressedDocumentImage{
		Data:       raw.Data,
		MIMEType:   domain.MIMETypeJPEG,
		Name:       "ine.jpg",
		Width:      1200,
		Height:     900,
		Compressed: true,
	}
}

// MockStorage keeps uploaded files in memory.
type MockStorage struct {
	files     map[string][]byte
	uploadErr error
	removed   []string
}

func NewMockStorage() *MockStorage {
	return &MockStorage{files: make(map[string][]byte)}
}

func (m *MockStorage) Upload(ctx context.Context, path string, file io.Reader, contentType string) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	m.files[path] = data
	return nil
}

func (m *MockStorage) Remove(ctx context.Context, path string) error {
	m.removed = append(m.removed, path)
	delete(m.files, path)
	return nil
}

// MockExtractionRepository for testing
type MockExtractionRepository struct {
	extractions map[string]*domain.Extraction
	createErr   error
}

func NewMockExtractionRepository() *MockExtractionRepository {
	return &MockExtractionRepository{extractions: make(map[string]*domain.Extraction)}
}

func (m *MockExtractionRepository) Create(ctx context.Context, extraction *domain.Extraction) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.extractions[extraction.ID] = extraction
	return nil
}

func (m *MockExtractionRepository) GetByID(ctx context.Context, id string) (*domain.Extraction, error) {
	if e, ok := m.extractions[id]; ok {
		return e, nil
	}
	return nil, domain.ErrExtractionNotFound
}

func (m *MockExtractionRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Extraction, error) {
	var out []*domain.Extraction
	for _, e := range m.extractions {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockExtractionRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.extractions[id]; !ok {
		return domain.ErrExtractionNotFound
	}
	delete(m.extractions, id)
	return nil
}

// MockRasterizer turns any PDF into a fixed PNG payload.
type MockRasterizer struct {
	err   error
	calls int
}

func (m *MockRasterizer) Rasterize(document *domain.RawDocumentImage) (*domain.RawDocumentImage, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &domain.RawDocumentImage{Data: []byte("\x89PNG"), MIMEType: "image/png", Name: "page.png"}, nil
}
