package services

import (
	"context"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
	"github.com/custodia-labs/lexcore/internal/core/ports/driving"
)

// Ensure documentService implements DocumentService
var _ driving.DocumentService = (*documentService)(nil)

// documentService implements the DocumentService interface
type documentService struct {
	documentStore driven.LegalDocumentStore
	chunkStore    driven.ChunkStore
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	documentStore driven.LegalDocumentStore,
	chunkStore driven.ChunkStore,
) driving.DocumentService {
	return &documentService{
		documentStore: documentStore,
		chunkStore:    chunkStore,
	}
}

// Get retrieves a document by ID
func (s *documentService) Get(ctx context.Context, id string) (*domain.LegalDocument, error) {
	return s.documentStore.Get(ctx, id)
}

// List returns every stored document
func (s *documentService) List(ctx context.Context) ([]*domain.LegalDocument, error) {
	return s.documentStore.List(ctx)
}

// Chunks returns the chunk set of a document. An unknown document is
// ErrNotFound rather than an empty set.
func (s *documentService) Chunks(ctx context.Context, id string) ([]*domain.LegalChunk, error) {
	if _, err := s.documentStore.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.chunkStore.GetByDocument(ctx, id)
}

// Count returns the total number of documents
func (s *documentService) Count(ctx context.Context) (int, error) {
	return s.documentStore.Count(ctx)
}
