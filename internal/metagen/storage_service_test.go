package metagen

import (
	"context"
	"errors"
	"testing"

	"document-ingest/internal/domain"
)

// fakeCaller records the calls the storage service makes.
type fakeCaller struct {
	calls  int
	path   string
	params FormParams
	body   string
	err    error
}

func (f *fakeCaller) Post(ctx context.Context, path string, params FormParams) (string, error) {
	f.calls++
	f.path = path
	f.params = params
	if f.err != nil {
		return "", f.err
	}
	return f.body, nil
}

// fakeFileRepository serves file bytes from memory.
type fakeFileRepository struct {
	files map[string][]byte
	err   error
}

func (f *fakeFileRepository) Upload(ctx context.Context, path string, data []byte) error {
	if f.files == nil {
		f.files = make(map[string][]byte)
	}
	f.files[path] = data
	return nil
}

func (f *fakeFileRepository) Download(ctx context.Context, path string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.files[path]
	if !ok {
		return nil, errors.New("file not found")
	}
	return data, nil
}

// mockLogger discards everything.
type mockLogger struct{}

func (l *mockLogger) Info(msg string, fields ...interface{})             {}
func (l *mockLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *mockLogger) Debug(msg string, fields ...interface{})            {}
func (l *mockLogger) Warn(msg string, fields ...interface{})             {}

func eligibleDocument() *domain.Document {
	return &domain.Document{
		ID:           "doc-1",
		Title:        "A Title",
		Authors:      []string{"Ada", "Grace"},
		Contributors: nil,
		IsPublic:     true,
		FilePath:     "uploads/doc-1.xml",
		Groups: []domain.Group{
			{ID: "group-1", Name: "First"},
			{ID: "group-1", Name: "First"},
		},
	}
}

func TestStoreFailsWithoutAttachedFile(t *testing.T) {
	caller := &fakeCaller{}
	service := NewStorageService(caller, &fakeFileRepository{}, &mockLogger{})

	doc := eligibleDocument()
	doc.FilePath = ""

	_, err := service.Store(context.Background(), doc)
	if !errors.Is(err, domain.ErrFileNotAttached) {
		t.Fatalf("expected ErrFileNotAttached, got %v", err)
	}
	if caller.calls != 0 {
		t.Fatalf("expected no HTTP call, got %d", caller.calls)
	}
}

func TestStoreFailsWithoutGroupMembership(t *testing.T) {
	caller := &fakeCaller{}
	service := NewStorageService(caller, &fakeFileRepository{}, &mockLogger{})

	doc := eligibleDocument()
	doc.Groups = nil

	_, err := service.Store(context.Background(), doc)
	if !errors.Is(err, domain.ErrNoOwningGroup) {
		t.Fatalf("expected ErrNoOwningGroup, got %v", err)
	}
	if caller.calls != 0 {
		t.Fatalf("expected no HTTP call, got %d", caller.calls)
	}
}

func TestStoreFailsOnInconsistentGroups(t *testing.T) {
	caller := &fakeCaller{}
	service := NewStorageService(caller, &fakeFileRepository{}, &mockLogger{})

	doc := eligibleDocument()
	doc.Groups = []domain.Group{{ID: "group-1"}, {ID: "group-2"}}

	_, err := service.Store(context.Background(), doc)
	if !errors.Is(err, domain.ErrMultipleGroups) {
		t.Fatalf("expected ErrMultipleGroups, got %v", err)
	}
	if caller.calls != 0 {
		t.Fatalf("expected no HTTP call, got %d", caller.calls)
	}
}

func TestStoreBuildsRequestAndMapsResult(t *testing.T) {
	caller := &fakeCaller{body: "<mods>generated</mods>"}
	files := &fakeFileRepository{files: map[string][]byte{
		"uploads/doc-1.xml": []byte("<doc/>"),
	}}
	service := NewStorageService(caller, files, &mockLogger{})

	doc := eligibleDocument()
	result, err := service.Store(context.Background(), doc)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if result.GeneratedMetadata != "<mods>generated</mods>" {
		t.Fatalf("unexpected generated metadata: %q", result.GeneratedMetadata)
	}
	if result.ExternalGroupID != "group-1" {
		t.Fatalf("expected external group ID group-1, got %s", result.ExternalGroupID)
	}
	if result.ExternalDocID != "doc-1" {
		t.Fatalf("expected external doc ID doc-1, got %s", result.ExternalDocID)
	}

	if caller.path != "/group-1/doc-1" {
		t.Fatalf("expected path /group-1/doc-1, got %s", caller.path)
	}

	file := caller.params["file"]
	if file.Filename != "doc-1.xml" || string(file.Data) != "<doc/>" {
		t.Fatalf("unexpected file param: %+v", file)
	}
	if got := string(caller.params["collections"].Data); got != "group-1,group-1" {
		t.Fatalf("expected collections group-1,group-1, got %q", got)
	}
	if got := string(caller.params["is-public"].Data); got != "true" {
		t.Fatalf("expected is-public true, got %q", got)
	}
	if got := string(caller.params["title"].Data); got != "A Title" {
		t.Fatalf("expected title, got %q", got)
	}
	if got := string(caller.params["authors"].Data); got != "Ada|Grace" {
		t.Fatalf("expected authors Ada|Grace, got %q", got)
	}
	if got := string(caller.params["contributors"].Data); got != "" {
		t.Fatalf("expected empty contributors, got %q", got)
	}
}

func TestStorePassesServiceErrorsThroughUnchanged(t *testing.T) {
	svcErr := newError(ErrorKindTimeout, "metadata service request timed out", nil)
	caller := &fakeCaller{err: svcErr}
	files := &fakeFileRepository{files: map[string][]byte{
		"uploads/doc-1.xml": []byte("<doc/>"),
	}}
	service := NewStorageService(caller, files, &mockLogger{})

	_, err := service.Store(context.Background(), eligibleDocument())
	if err != svcErr {
		t.Fatalf("expected the service error to pass through unchanged, got %v", err)
	}
}

func TestStoreFailsWhenFileDownloadFails(t *testing.T) {
	caller := &fakeCaller{}
	files := &fakeFileRepository{err: errors.New("store unavailable")}
	service := NewStorageService(caller, files, &mockLogger{})

	_, err := service.Store(context.Background(), eligibleDocument())
	if err == nil {
		t.Fatal("expected error when file download fails")
	}
	if _, ok := AsServiceError(err); ok {
		t.Fatalf("expected a plain error, got service error %v", err)
	}
	if caller.calls != 0 {
		t.Fatalf("expected no HTTP call, got %d", caller.calls)
	}
}
