package handler

import (
	"net/http"

	"document-ingest/internal/config"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(container *config.Container) http.Handler {
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"document-ingest"}`))
	}).Methods("GET")

	documentHandler := NewDocumentHandler(container.DocumentService, container.Logger)

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(LoggingMiddleware(container.Logger))

	// Document routes
	api.HandleFunc("/documents", documentHandler.GetDocuments).Methods("GET")
	api.HandleFunc("/documents", documentHandler.UploadDocument).Methods("POST")
	api.HandleFunc("/documents/{id}", documentHandler.GetDocument).Methods("GET")
	api.HandleFunc("/documents/{id}", documentHandler.DeleteDocument).Methods("DELETE")
	api.HandleFunc("/documents/{id}/retry", documentHandler.RetryDocument).Methods("POST")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:3000",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return c.Handler(router)
}
