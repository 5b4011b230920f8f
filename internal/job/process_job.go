// Package job orchestrates document processing runs: it guards against
// duplicate execution, invokes the storage service and persists the outcome,
// applying the retry policy over the service-error taxonomy.
package job

import (
	"context"
	"errors"
	"fmt"

	"document-ingest/internal/domain"
	"document-ingest/internal/metagen"
)

// Storer is the storage-service operation the processor depends on.
type Storer interface {
	Store(ctx context.Context, doc *domain.Document) (*metagen.StoreResult, error)
}

// Processor runs one processing attempt per invocation. It is the only
// component that converts errors into persisted record state and the only one
// that decides retry-worthiness.
type Processor struct {
	documents domain.DocumentRepository
	storage   Storer
	scheduler domain.Scheduler
	retry     domain.RetryPolicy
	config    domain.Config
	logger    domain.Logger
}

// NewProcessor creates a new processor
func NewProcessor(
	documents domain.DocumentRepository,
	storage Storer,
	scheduler domain.Scheduler,
	retry domain.RetryPolicy,
	config domain.Config,
	logger domain.Logger,
) *Processor {
	return &Processor{
		documents: documents,
		storage:   storage,
		scheduler: scheduler,
		retry:     retry,
		config:    config,
		logger:    logger,
	}
}

// Perform executes one processing attempt for the record. Attempt numbers
// start at 1; re-enqueued retries carry the incremented attempt. It is safe
// to invoke multiple times for the same record: the status guard keeps
// redelivered invocations from double-submitting to the external service.
func (p *Processor) Perform(ctx context.Context, recordID string, attempt int) error {
	doc, err := p.documents.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			// The record can never reappear under the same identifier.
			p.logger.Error("document not found, dropping job", err, "document_id", recordID)
			return nil
		}
		return fmt.Errorf("failed to load document %s: %w", recordID, err)
	}

	// Deployment/testing escape hatch: complete without any network call.
	if !p.config.IsMetagenEnabled() {
		p.logger.Info("metadata service disabled, skipping processing", "document_id", recordID)
		doc.ProcessingStatus = domain.ProcessingStatusCompleted
		doc.ProcessingError = ""
		return p.documents.Update(ctx, doc)
	}

	// Idempotency guard: a record already in flight or done is never
	// re-submitted by an automatic invocation.
	if doc.ProcessingStatus == domain.ProcessingStatusProcessing ||
		doc.ProcessingStatus == domain.ProcessingStatusCompleted {
		p.logger.Debug("skipping document, already processing or completed",
			"document_id", recordID, "status", string(doc.ProcessingStatus))
		return nil
	}

	// Persisted before the call so a crash mid-call leaves an observable
	// non-terminal state instead of a false pending.
	doc.ProcessingStatus = domain.ProcessingStatusProcessing
	doc.ProcessingError = ""
	if err := p.documents.Update(ctx, doc); err != nil {
		return fmt.Errorf("failed to mark document %s as processing: %w", recordID, err)
	}

	result, err := p.storage.Store(ctx, doc)
	if err != nil {
		return p.handleFailure(ctx, doc, attempt, err)
	}

	doc.GeneratedMetadata = result.GeneratedMetadata
	doc.ExternalGroupID = result.ExternalGroupID
	doc.ExternalDocID = result.ExternalDocID
	doc.ProcessingStatus = domain.ProcessingStatusCompleted
	doc.ProcessingError = ""
	if err := p.documents.Update(ctx, doc); err != nil {
		return fmt.Errorf("failed to persist processing result for %s: %w", recordID, err)
	}

	p.logger.Info("metadata processing completed", "document_id", recordID, "attempt", attempt)
	return nil
}

// handleFailure persists the failed state and applies the retry/discard
// policy keyed on the error variant.
func (p *Processor) handleFailure(ctx context.Context, doc *domain.Document, attempt int, cause error) error {
	svcErr, ok := metagen.AsServiceError(cause)
	if !ok {
		// Precondition failures and unexpected errors are always terminal.
		message := cause.Error()
		if !isPreconditionError(cause) {
			message = "Unexpected error: " + message
			p.logger.Error("unexpected error processing document", cause, "document_id", doc.ID)
		}
		if err := p.markFailed(ctx, doc, message); err != nil {
			return err
		}
		return cause
	}

	if svcErr.Kind == metagen.ErrorKindAuthentication {
		// Never retried; the job is discarded with an explicit message.
		if err := p.markFailed(ctx, doc, "Authentication failed: "+svcErr.Message); err != nil {
			return err
		}
		p.logger.Error("authentication with metadata service failed, discarding job", svcErr,
			"document_id", doc.ID)
		return nil
	}

	if err := p.markFailed(ctx, doc, svcErr.Message); err != nil {
		return err
	}

	if svcErr.Retryable() && attempt < p.retry.MaxAttempts() {
		delay := p.retry.Delay(attempt)
		p.logger.Warn("transient failure, scheduling retry",
			"document_id", doc.ID, "attempt", attempt, "delay", delay.String(), "error", svcErr.Error())
		p.scheduler.EnqueueAfter(doc.ID, attempt+1, delay)
		return nil
	}

	return svcErr
}

func (p *Processor) markFailed(ctx context.Context, doc *domain.Document, message string) error {
	doc.ProcessingStatus = domain.ProcessingStatusFailed
	doc.ProcessingError = message
	if err := p.documents.Update(ctx, doc); err != nil {
		return fmt.Errorf("failed to persist failure for document %s: %w", doc.ID, err)
	}
	return nil
}

func isPreconditionError(err error) bool {
	return errors.Is(err, domain.ErrFileNotAttached) ||
		errors.Is(err, domain.ErrNoOwningGroup) ||
		errors.Is(err, domain.ErrMultipleGroups)
}
