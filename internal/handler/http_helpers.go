package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"document-ingest/internal/domain"
	apperrors "document-ingest/pkg/errors"
)

// toAppError maps domain errors onto the HTTP error taxonomy.
func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return apperrors.NewValidationError(validationErr.Error())
	case errors.Is(err, domain.ErrInvalidFile):
		return apperrors.NewValidationError("A non-empty file is required")
	case errors.Is(err, domain.ErrDocumentNotFound):
		return apperrors.NewNotFoundError("Document not found")
	default:
		return apperrors.NewInternalError("Internal server error", err)
	}
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
