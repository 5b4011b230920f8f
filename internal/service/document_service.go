// Package service implements the use-case layer over the record store and
// the processing pipeline.
package service

import (
	"context"
	"fmt"
	"time"

	"document-ingest/internal/domain"

	"github.com/google/uuid"
)

type documentService struct {
	documents domain.DocumentRepository
	files     domain.FileRepository
	scheduler domain.Scheduler
	logger    domain.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	documents domain.DocumentRepository,
	files domain.FileRepository,
	scheduler domain.Scheduler,
	logger domain.Logger,
) domain.DocumentService {
	return &documentService{
		documents: documents,
		files:     files,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Upload stores the attached file, creates the record in pending state and
// enqueues its first processing run.
func (s *documentService) Upload(ctx context.Context, input domain.UploadInput) (*domain.Document, error) {
	if input.Title == "" {
		return nil, &domain.ValidationError{Field: "title", Message: "is required"}
	}
	if input.FileName == "" || len(input.Data) == 0 {
		return nil, domain.ErrInvalidFile
	}
	if len(input.Groups) == 0 {
		return nil, &domain.ValidationError{Field: "groups", Message: "at least one group is required"}
	}

	id := uuid.New().String()
	filePath := fmt.Sprintf("uploads/%s/%s", id, input.FileName)

	if err := s.files.Upload(ctx, filePath, input.Data); err != nil {
		return nil, fmt.Errorf("failed to store attached file: %w", err)
	}

	now := time.Now()
	doc := &domain.Document{
		ID:               id,
		Title:            input.Title,
		Authors:          input.Authors,
		Contributors:     input.Contributors,
		IsPublic:         input.IsPublic,
		FilePath:         filePath,
		Groups:           input.Groups,
		ProcessingStatus: domain.ProcessingStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.scheduler.Enqueue(doc.ID)
	s.logger.Info("document uploaded, processing enqueued", "document_id", doc.ID)

	return doc, nil
}

// GetDocument retrieves a single record. A failed record carries its stored
// error message verbatim; pending and processing records carry none.
func (s *documentService) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	return s.documents.GetByID(ctx, id)
}

// ListDocuments retrieves all records.
func (s *documentService) ListDocuments(ctx context.Context) ([]*domain.Document, error) {
	return s.documents.List(ctx)
}

// DeleteDocument deletes a record.
func (s *documentService) DeleteDocument(ctx context.Context, id string) error {
	return s.documents.Delete(ctx, id)
}

// RetryProcessing re-arms a failed record: it resets the status to pending,
// clears the stored error and schedules a fresh processing run. Records in
// any other state are left untouched and reported as ineligible.
func (s *documentService) RetryProcessing(ctx context.Context, id string) (bool, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	if doc.ProcessingStatus != domain.ProcessingStatusFailed {
		s.logger.Debug("document not eligible for retry",
			"document_id", id, "status", string(doc.ProcessingStatus))
		return false, nil
	}

	doc.ProcessingStatus = domain.ProcessingStatusPending
	doc.ProcessingError = ""
	if err := s.documents.Update(ctx, doc); err != nil {
		return false, err
	}

	s.scheduler.Enqueue(doc.ID)
	s.logger.Info("document re-armed for processing", "document_id", id)

	return true, nil
}
