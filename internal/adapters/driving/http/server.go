package http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
	"github.com/custodia-labs/lexcore/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string
	logger     *slog.Logger

	// Services
	docService     driving.DocumentService
	ingestService  driving.IngestionService
	searchService  driving.SearchService
	lineageService driving.LineageService

	// Infrastructure
	taskQueue driven.TaskQueue // optional; refreshes run inline without it
	pingers   map[string]Pinger
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	AllowedOrigins []string
	Logger         *slog.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server. pingers are checked by /ready, keyed
// by the component name reported on failure.
func NewServer(
	cfg Config,
	docService driving.DocumentService,
	ingestService driving.IngestionService,
	searchService driving.SearchService,
	lineageService driving.LineageService,
	taskQueue driven.TaskQueue,
	pingers map[string]Pinger,
) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		router:         http.NewServeMux(),
		version:        cfg.Version,
		logger:         cfg.Logger,
		docService:     docService,
		ingestService:  ingestService,
		searchService:  searchService,
		lineageService: lineageService,
		taskQueue:      taskQueue,
		pingers:        pingers,
	}

	s.setupRoutes()

	var handler http.Handler = s.router
	if len(cfg.AllowedOrigins) > 0 {
		handler = NewCORSMiddleware(cfg.AllowedOrigins).Handler(handler)
	}
	handler = NewLoggingMiddleware(cfg.Logger).Handler(handler)
	handler = NewRecoveryMiddleware(cfg.Logger).Handler(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // batch ingestion and edition recording can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health: at the root for orchestrators and under the API base path where
	// the API document lists them
	for _, prefix := range []string{"", "/api/v1"} {
		s.router.HandleFunc("GET "+prefix+"/health", s.handleHealth)
		s.router.HandleFunc("GET "+prefix+"/ready", s.handleReady)
		s.router.HandleFunc("GET "+prefix+"/version", s.handleVersion)
	}
	s.router.HandleFunc("GET /swagger/doc.json", s.handleSwagger)

	// Documents and ingestion
	s.router.HandleFunc("GET /api/v1/documents", s.handleListDocuments)
	s.router.HandleFunc("POST /api/v1/documents", s.handleIngest)
	s.router.HandleFunc("POST /api/v1/documents/batch", s.handleIngestBatch)
	s.router.HandleFunc("GET /api/v1/documents/{id}", s.handleGetDocument)
	s.router.HandleFunc("GET /api/v1/documents/{id}/chunks", s.handleGetDocumentChunks)
	s.router.HandleFunc("POST /api/v1/documents/{id}/reingest", s.handleReingest)
	s.router.HandleFunc("POST /api/v1/documents/{id}/embeddings", s.handleBackfillEmbeddings)

	// Lineage
	s.router.HandleFunc("POST /api/v1/documents/{id}/editions", s.handleRecordEdition)
	s.router.HandleFunc("POST /api/v1/documents/{id}/refresh", s.handleRefresh)
	s.router.HandleFunc("POST /api/v1/documents/{id}/verify", s.handleVerify)
	s.router.HandleFunc("GET /api/v1/documents/{id}/lineage", s.handleGetLineage)
	s.router.HandleFunc("GET /api/v1/documents/{id}/timeline", s.handleTimeline)
	s.router.HandleFunc("GET /api/v1/documents/{id}/confidence", s.handleConfidence)
	s.router.HandleFunc("GET /api/v1/documents/{id}/compare", s.handleCompare)
	s.router.HandleFunc("POST /api/v1/sources/validate", s.handleValidateSource)

	// Search
	s.router.HandleFunc("POST /api/v1/search", s.handleSearch)
	s.router.HandleFunc("GET /api/v1/chunks/{id}/related", s.handleRelatedSections)

	// Admin
	s.router.HandleFunc("GET /api/v1/admin/queue", s.handleQueueStats)
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
