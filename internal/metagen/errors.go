// Package metagen is the client for the external metadata-generation service.
// It uploads a document's attached file and returns the generated metadata,
// mapping every transport and protocol failure into a closed set of typed
// service errors.
package metagen

import "fmt"

// ErrorKind identifies one variant of the closed service-error taxonomy.
// Callers branch on the kind only; the message is for humans.
type ErrorKind string

const (
	ErrorKindConnection      ErrorKind = "connection"
	ErrorKindAuthentication  ErrorKind = "authentication"
	ErrorKindTimeout         ErrorKind = "timeout"
	ErrorKindNotFound        ErrorKind = "not_found"
	ErrorKindForbidden       ErrorKind = "forbidden"
	ErrorKindServer          ErrorKind = "server"
	ErrorKindInvalidResponse ErrorKind = "invalid_response"
)

// ServiceError is the only error type the client and storage service return
// for service failures. Raw transport errors never cross this boundary.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the variant is transient. Only timeouts and
// connection failures qualify for the automatic backoff policy.
func (e *ServiceError) Retryable() bool {
	return e.Kind == ErrorKindTimeout || e.Kind == ErrorKindConnection
}

func newError(kind ErrorKind, message string, cause error) *ServiceError {
	return &ServiceError{Kind: kind, Message: message, Cause: cause}
}

// AsServiceError extracts a *ServiceError from err, if it is one.
func AsServiceError(err error) (*ServiceError, bool) {
	svcErr, ok := err.(*ServiceError)
	return svcErr, ok
}

// IsKind checks if the error is a service error of a specific kind
func IsKind(err error, kind ErrorKind) bool {
	if svcErr, ok := AsServiceError(err); ok {
		return svcErr.Kind == kind
	}
	return false
}
