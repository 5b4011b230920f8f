package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"document-ingest/internal/domain"
)

// SupabaseFileRepository stores attached files in a Supabase Storage bucket
// through the storage REST API.
type SupabaseFileRepository struct {
	baseURL string
	apiKey  string
	bucket  string
	logger  domain.Logger
}

// NewSupabaseFileRepository creates a new Supabase file repository
func NewSupabaseFileRepository(config domain.Config, logger domain.Logger) domain.FileRepository {
	return &SupabaseFileRepository{
		baseURL: config.GetSupabaseURL(),
		apiKey:  config.GetSupabaseKey(),
		bucket:  config.GetStorageBucket(),
		logger:  logger,
	}
}

// Upload stores the file bytes at the given path in the bucket.
func (s *SupabaseFileRepository) Upload(ctx context.Context, path string, data []byte) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.objectURL(path),
		bytes.NewReader(data),
	)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload file %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("file upload failed with status %d", resp.StatusCode)
	}

	s.logger.Debug("file uploaded", "path", path, "bytes", len(data))
	return nil
}

// Download fetches the file bytes stored at the given path.
func (s *SupabaseFileRepository) Download(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.objectURL(path), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return data, nil
}

func (s *SupabaseFileRepository) objectURL(path string) string {
	return s.baseURL + "/storage/v1/object/" + s.bucket + "/" + path
}
