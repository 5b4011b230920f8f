package domain

import (
	"context"
	"time"
)

// ProcessingStatus tracks where a document is in the metadata pipeline.
type ProcessingStatus string

const (
	ProcessingStatusPending    ProcessingStatus = "pending"
	ProcessingStatusProcessing ProcessingStatus = "processing"
	ProcessingStatusCompleted  ProcessingStatus = "completed"
	ProcessingStatusFailed     ProcessingStatus = "failed"
)

// Group is a named container a document belongs to. Its ID determines the
// addressing path used by the external metadata service.
type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Document represents a document record owned by the record store. The
// pipeline exclusively owns the processing fields (status, error, generated
// metadata and the two external identifiers); everything else is regular
// record data.
type Document struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	Authors      []string `json:"authors,omitempty"`
	Contributors []string `json:"contributors,omitempty"`
	IsPublic     bool     `json:"is_public"`

	// FilePath is the attached file's location in the file store. Empty means
	// no file is attached.
	FilePath string `json:"file_path,omitempty"`

	// Groups are the record's group memberships, in store order.
	Groups []Group `json:"groups,omitempty"`

	ProcessingStatus  ProcessingStatus `json:"processing_status"`
	ProcessingError   string           `json:"processing_error,omitempty"`
	GeneratedMetadata string           `json:"generated_metadata,omitempty"`

	// Assigned by the external service on success; immutable once set.
	ExternalGroupID string `json:"external_group_id,omitempty"`
	ExternalDocID   string `json:"external_doc_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasAttachedFile reports whether the record has a file to process.
func (d *Document) HasAttachedFile() bool {
	return d.FilePath != ""
}

// OwningGroup resolves the group used for external addressing. By convention
// this is the first membership; the record store does not guarantee any
// ordering beyond that.
func (d *Document) OwningGroup() (Group, bool) {
	if len(d.Groups) == 0 {
		return Group{}, false
	}
	return d.Groups[0], true
}

// DistinctGroupIDs returns the distinct group IDs across memberships,
// preserving first-seen order.
func (d *Document) DistinctGroupIDs() []string {
	seen := make(map[string]struct{}, len(d.Groups))
	ids := make([]string, 0, len(d.Groups))
	for _, g := range d.Groups {
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}
		ids = append(ids, g.ID)
	}
	return ids
}

// DocumentRepository defines persistence operations for document records.
type DocumentRepository interface {
	Create(ctx context.Context, document *Document) error
	GetByID(ctx context.Context, id string) (*Document, error)
	List(ctx context.Context) ([]*Document, error)
	Update(ctx context.Context, document *Document) error
	Delete(ctx context.Context, id string) error
}

// FileRepository defines access to the attached-file store.
type FileRepository interface {
	Upload(ctx context.Context, path string, data []byte) error
	Download(ctx context.Context, path string) ([]byte, error)
}

// UploadInput carries everything needed to create a document record with
// its attached file.
type UploadInput struct {
	Title        string
	Authors      []string
	Contributors []string
	IsPublic     bool
	Groups       []Group
	FileName     string
	Data         []byte
}

// DocumentService defines the use-case operations for documents.
type DocumentService interface {
	Upload(ctx context.Context, input UploadInput) (*Document, error)
	GetDocument(ctx context.Context, id string) (*Document, error)
	ListDocuments(ctx context.Context) ([]*Document, error)
	DeleteDocument(ctx context.Context, id string) error

	// RetryProcessing re-arms a failed record and schedules a fresh job run.
	// The boolean reports eligibility: false means the record was not in the
	// failed state and nothing was changed.
	RetryProcessing(ctx context.Context, id string) (bool, error)
}
