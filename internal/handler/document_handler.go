// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"document-ingest/internal/domain"
	apperrors "document-ingest/pkg/errors"

	"github.com/gorilla/mux"
)

const maxUploadBytes = 32 << 20 // 32MB multipart memory limit

// DocumentHandler handles document-related HTTP requests
type DocumentHandler struct {
	documentService domain.DocumentService
	logger          domain.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService domain.DocumentService, logger domain.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		logger:          logger,
	}
}

// UploadDocument accepts a multipart form with the attached file, the record
// fields and the group memberships, then enqueues the record for processing.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	// Strip any path components from the client-supplied filename.
	fileName := strings.TrimSpace(filepath.Base(header.Filename))
	if fileName == "" || fileName == "." {
		fileName = "document"
	}

	input := domain.UploadInput{
		Title:        strings.TrimSpace(r.FormValue("title")),
		Authors:      splitCSV(r.FormValue("authors")),
		Contributors: splitCSV(r.FormValue("contributors")),
		IsPublic:     r.FormValue("is_public") == "true",
		Groups:       parseGroups(r.FormValue("groups")),
		FileName:     fileName,
		Data:         data,
	}

	doc, err := h.documentService.Upload(r.Context(), input)
	if err != nil {
		h.writeAppError(w, "upload failed", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, doc)
}

// GetDocuments lists all document records.
func (h *DocumentHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documentService.ListDocuments(r.Context())
	if err != nil {
		h.writeAppError(w, "failed to list documents", err)
		return
	}

	// Ensure JSON is [] not null when there are no documents.
	if docs == nil {
		docs = make([]*domain.Document, 0)
	}

	h.writeJSON(w, http.StatusOK, docs)
}

// GetDocument returns a single record. A failed record carries its stored
// processing error verbatim in the processing_error field.
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "Document ID is required")
		return
	}

	doc, err := h.documentService.GetDocument(r.Context(), id)
	if err != nil {
		h.writeAppError(w, "failed to get document", err)
		return
	}

	h.writeJSON(w, http.StatusOK, doc)
}

// DeleteDocument deletes a record.
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "Document ID is required")
		return
	}

	if err := h.documentService.DeleteDocument(r.Context(), id); err != nil {
		h.writeAppError(w, "failed to delete document", err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Document deleted"})
}

// RetryDocument re-arms a failed record for another processing run. Records
// that are not in the failed state are reported as a conflict.
func (h *DocumentHandler) RetryDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "Document ID is required")
		return
	}

	retried, err := h.documentService.RetryProcessing(r.Context(), id)
	if err != nil {
		h.writeAppError(w, "failed to retry document", err)
		return
	}

	if !retried {
		h.writeError(w, http.StatusConflict, "Document is not in a failed state")
		return
	}

	h.writeJSON(w, http.StatusAccepted, map[string]string{
		"status": string(domain.ProcessingStatusPending),
	})
}

// splitCSV splits a comma-separated form value, dropping empty entries.
func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseGroups parses a comma-separated list of group IDs, optionally with a
// display name after a colon ("id" or "id:Name").
func parseGroups(value string) []domain.Group {
	ids := splitCSV(value)
	if len(ids) == 0 {
		return nil
	}
	groups := make([]domain.Group, 0, len(ids))
	for _, entry := range ids {
		id, name, _ := strings.Cut(entry, ":")
		groups = append(groups, domain.Group{
			ID:   strings.TrimSpace(id),
			Name: strings.TrimSpace(name),
		})
	}
	return groups
}

// writeError writes an error response
func (h *DocumentHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeAppError maps a service error onto the HTTP taxonomy and writes it,
// logging only the unexpected internal ones.
func (h *DocumentHandler) writeAppError(w http.ResponseWriter, logMsg string, err error) {
	appErr := toAppError(err)
	if appErr.Type == apperrors.ErrorTypeInternal {
		h.logger.Error(logMsg, err)
	}
	h.writeError(w, appErr.StatusCode, appErr.Message)
}

// writeJSON writes a JSON response
func (h *DocumentHandler) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}
