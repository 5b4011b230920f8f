package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"document-ingest/internal/domain"
)

// documentRow is the wire representation of a record in the documents table.
// Group memberships are embedded through the document_groups join table.
type documentRow struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Authors           string         `json:"authors"`
	Contributors      string         `json:"contributors"`
	IsPublic          bool           `json:"is_public"`
	FilePath          string         `json:"file_path"`
	ProcessingStatus  string         `json:"processing_status"`
	ProcessingError   string         `json:"processing_error"`
	GeneratedMetadata string         `json:"generated_metadata"`
	ExternalGroupID   string         `json:"external_group_id"`
	ExternalDocID     string         `json:"external_doc_id"`
	Groups            []domain.Group `json:"groups"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

const documentSelect = "*, groups(id, name)"

// SupabaseDocumentRepository implements the domain.DocumentRepository interface
type SupabaseDocumentRepository struct {
	supabaseClient *SupabaseClient
	logger         domain.Logger
}

// NewSupabaseDocumentRepository creates a new Supabase document repository
func NewSupabaseDocumentRepository(supabaseClient *SupabaseClient, logger domain.Logger) domain.DocumentRepository {
	return &SupabaseDocumentRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// Create inserts a new document record and its group memberships.
func (r *SupabaseDocumentRepository) Create(ctx context.Context, document *domain.Document) error {
	client := r.supabaseClient.GetClient()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	data := map[string]interface{}{
		"id":                document.ID,
		"title":             document.Title,
		"authors":           strings.Join(document.Authors, "|"),
		"contributors":      strings.Join(document.Contributors, "|"),
		"is_public":         document.IsPublic,
		"file_path":         document.FilePath,
		"processing_status": string(document.ProcessingStatus),
		"created_at":        document.CreatedAt,
		"updated_at":        document.UpdatedAt,
	}

	_, _, err := client.From("documents").Insert(data, false, "", "", "").Execute()
	if err != nil {
		r.logger.Error("failed to insert document", err, "document_id", document.ID)
		return fmt.Errorf("failed to create document: %w", err)
	}

	for _, group := range document.Groups {
		membership := map[string]interface{}{
			"document_id": document.ID,
			"group_id":    group.ID,
		}
		_, _, err := client.From("document_groups").Insert(membership, false, "", "", "").Execute()
		if err != nil {
			r.logger.Error("failed to insert group membership", err,
				"document_id", document.ID, "group_id", group.ID)
			return fmt.Errorf("failed to create group membership: %w", err)
		}
	}

	r.logger.Info("document created", "document_id", document.ID)
	return nil
}

// GetByID retrieves a document record with its group memberships.
func (r *SupabaseDocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	client := r.supabaseClient.GetClient()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("documents").
		Select(documentSelect, "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document %s: %w", id, err)
	}

	var rows []documentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrDocumentNotFound
	}

	return rows[0].toDomain(), nil
}

// List retrieves all document records.
func (r *SupabaseDocumentRepository) List(ctx context.Context) ([]*domain.Document, error) {
	client := r.supabaseClient.GetClient()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("documents").
		Select(documentSelect, "", false).
		Order("created_at", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	var rows []documentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}

	documents := make([]*domain.Document, 0, len(rows))
	for _, row := range rows {
		documents = append(documents, row.toDomain())
	}
	return documents, nil
}

// Update persists the record's mutable fields, including the processing
// fields the pipeline writes back.
func (r *SupabaseDocumentRepository) Update(ctx context.Context, document *domain.Document) error {
	client := r.supabaseClient.GetClient()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	data := map[string]interface{}{
		"title":              document.Title,
		"authors":            strings.Join(document.Authors, "|"),
		"contributors":       strings.Join(document.Contributors, "|"),
		"is_public":          document.IsPublic,
		"file_path":          document.FilePath,
		"processing_status":  string(document.ProcessingStatus),
		"processing_error":   document.ProcessingError,
		"generated_metadata": document.GeneratedMetadata,
		"external_group_id":  document.ExternalGroupID,
		"external_doc_id":    document.ExternalDocID,
		"updated_at":         time.Now(),
	}

	_, _, err := client.From("documents").
		Update(data, "", "").
		Eq("id", document.ID).
		Execute()
	if err != nil {
		r.logger.Error("failed to update document", err, "document_id", document.ID)
		return fmt.Errorf("failed to update document: %w", err)
	}

	return nil
}

// Delete removes a document record by ID.
func (r *SupabaseDocumentRepository) Delete(ctx context.Context, id string) error {
	client := r.supabaseClient.GetClient()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	_, _, err := client.From("documents").
		Delete("", "").
		Eq("id", id).
		Execute()
	if err != nil {
		r.logger.Error("failed to delete document", err, "document_id", id)
		return fmt.Errorf("failed to delete document: %w", err)
	}

	r.logger.Info("document deleted", "document_id", id)
	return nil
}

func (row *documentRow) toDomain() *domain.Document {
	return &domain.Document{
		ID:                row.ID,
		Title:             row.Title,
		Authors:           splitList(row.Authors),
		Contributors:      splitList(row.Contributors),
		IsPublic:          row.IsPublic,
		FilePath:          row.FilePath,
		Groups:            row.Groups,
		ProcessingStatus:  domain.ProcessingStatus(row.ProcessingStatus),
		ProcessingError:   row.ProcessingError,
		GeneratedMetadata: row.GeneratedMetadata,
		ExternalGroupID:   row.ExternalGroupID,
		ExternalDocID:     row.ExternalDocID,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, "|")
}
