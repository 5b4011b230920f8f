package metagen

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"document-ingest/internal/domain"
)

// Caller is the part of the client the storage service uses. It is an
// interface so tests can substitute a fake without a live endpoint.
type Caller interface {
	Post(ctx context.Context, path string, params FormParams) (string, error)
}

// StoreResult is the interpreted outcome of a successful store call.
type StoreResult struct {
	GeneratedMetadata string
	ExternalGroupID   string
	ExternalDocID     string
}

// StorageService turns a document record into one external-service call and
// an interpreted result. It validates preconditions, shapes the request and
// passes service errors through unchanged; it never invents error kinds of
// its own.
type StorageService struct {
	client Caller
	files  domain.FileRepository
	logger domain.Logger
}

// NewStorageService creates a new storage service
func NewStorageService(client Caller, files domain.FileRepository, logger domain.Logger) *StorageService {
	return &StorageService{
		client: client,
		files:  files,
		logger: logger,
	}
}

// Store uploads the record's attached file and returns the generated
// metadata together with the external identifiers the service addressed it
// by. Precondition failures are reported before any network call and are
// never retried.
func (s *StorageService) Store(ctx context.Context, doc *domain.Document) (*StoreResult, error) {
	group, err := s.validate(doc)
	if err != nil {
		return nil, err
	}

	data, err := s.files.Download(ctx, doc.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to download attached file %s: %w", doc.FilePath, err)
	}

	params := s.buildRequestParams(doc, data)
	path := fmt.Sprintf("/%s/%s", group.ID, doc.ID)

	body, err := s.client.Post(ctx, path, params)
	if err != nil {
		s.logger.Error("metadata generation failed", err, "document_id", doc.ID, "group_id", group.ID)
		return nil, err
	}

	return &StoreResult{
		GeneratedMetadata: body,
		ExternalGroupID:   group.ID,
		ExternalDocID:     doc.ID,
	}, nil
}

// validate checks the record is eligible for processing. These are data
// errors, not transient conditions.
func (s *StorageService) validate(doc *domain.Document) (domain.Group, error) {
	if !doc.HasAttachedFile() {
		return domain.Group{}, domain.ErrFileNotAttached
	}
	group, ok := doc.OwningGroup()
	if !ok {
		return domain.Group{}, domain.ErrNoOwningGroup
	}
	// Group homogeneity is enforced upstream; refuse to silently pick one
	// when the record is inconsistent.
	if len(doc.DistinctGroupIDs()) > 1 {
		return domain.Group{}, domain.ErrMultipleGroups
	}
	return group, nil
}

func (s *StorageService) buildRequestParams(doc *domain.Document, data []byte) FormParams {
	groupIDs := make([]string, 0, len(doc.Groups))
	for _, g := range doc.Groups {
		groupIDs = append(groupIDs, g.ID)
	}

	return FormParams{
		"file":         File(filepath.Base(doc.FilePath), data),
		"collections":  Field(strings.Join(groupIDs, ",")),
		"is-public":    Field(strconv.FormatBool(doc.IsPublic)),
		"title":        Field(doc.Title),
		"authors":      Field(strings.Join(doc.Authors, "|")),
		"contributors": Field(strings.Join(doc.Contributors, "|")),
	}
}
