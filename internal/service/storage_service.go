package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"ine-ocr-server/internal/domain"

	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseStorage archives images in a Supabase Storage bucket.
type SupabaseStorage struct {
	supabaseClient domain.SupabaseClient
	bucket         string
	logger         domain.Logger

	// storage-go sets content-type and x-upsert on the client's shared headers.
	uploadMu sync.Mutex
}

func NewStorageService(
	supabaseClient domain.SupabaseClient,
	bucket string,
	logger domain.Logger,
) *SupabaseStorage {
	return &SupabaseStorage{
		supabaseClient: supabaseClient,
		bucket:         bucket,
		logger:         logger,
	}
}

func (s *SupabaseStorage) Upload(
	ctx context.Context,
	path string,
	file io.Reader,
	contentType string,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	client := s.supabaseClient.DB()
	if client == nil || client.Storage == nil {
		return fmt.Errorf("supabase storage not initialized")
	}

	upsert := true
	s.uploadMu.Lock()
	defer s.uploadMu.Unlock()
	_, err := client.Storage.UploadFile(s.bucket, path, file, storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("storage upload failed: %w", err)
	}

	s.logger.Debug("Image archived", "bucket", s.bucket, "path", path)
	return nil
}

func (s *SupabaseStorage) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	client := s.supabaseClient.DB()
	if client == nil || client.Storage == nil {
		return fmt.Errorf("supabase storage not initialized")
	}

	if _, err := client.Storage.RemoveFile(s.bucket, []string{path}); err != nil {
		return fmt.Errorf("storage remove failed: %w", err)
	}
	return nil
}
