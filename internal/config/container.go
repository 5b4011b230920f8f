package config

import (
	"time"

	"document-ingest/internal/domain"
	"document-ingest/internal/job"
	"document-ingest/internal/metagen"
	"document-ingest/internal/repository"
	"document-ingest/internal/service"
	"document-ingest/pkg/logger"
)

const (
	workerCount     = 4
	workerQueueSize = 100

	retryMaxAttempts = 3
	retryBaseDelay   = 5 * time.Second
)

// Container holds all application dependencies
type Container struct {
	Config             domain.Config
	Logger             domain.Logger
	SupabaseClient     *repository.SupabaseClient
	DocumentRepository domain.DocumentRepository
	FileRepository     domain.FileRepository
	StorageService     *metagen.StorageService
	WorkerPool         *job.WorkerPool
	Processor          *job.Processor
	DocumentService    domain.DocumentService
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	// Record store and file store
	supabaseClient := repository.NewSupabaseClient(config, appLogger)
	if err := supabaseClient.Initialize(); err != nil {
		return nil, err
	}
	documentRepo := repository.NewSupabaseDocumentRepository(supabaseClient, appLogger)
	fileRepo := repository.NewSupabaseFileRepository(config, appLogger)

	// Pipeline
	metagenClient := metagen.NewClient(config)
	storageService := metagen.NewStorageService(metagenClient, fileRepo, appLogger)
	retryPolicy := job.NewExponentialRetryPolicy(retryMaxAttempts, retryBaseDelay)

	// The pool dispatches processing runs and the processor schedules its
	// retries back through the pool, so the runner is bound after both exist.
	pool := job.NewWorkerPool(workerCount, workerQueueSize, appLogger)
	processor := job.NewProcessor(documentRepo, storageService, pool, retryPolicy, config, appLogger)
	pool.SetRunner(processor)

	documentService := service.NewDocumentService(documentRepo, fileRepo, pool, appLogger)

	return &Container{
		Config:             config,
		Logger:             appLogger,
		SupabaseClient:     supabaseClient,
		DocumentRepository: documentRepo,
		FileRepository:     fileRepo,
		StorageService:     storageService,
		WorkerPool:         pool,
		Processor:          processor,
		DocumentService:    documentService,
	}, nil
}
