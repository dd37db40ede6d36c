package driving

import (
	"context"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// DocumentService provides read-only access to documents and their chunks
type DocumentService interface {
	// Get retrieves a document by ID
	Get(ctx context.Context, id string) (*domain.LegalDocument, error)

	// List returns every document
	List(ctx context.Context) ([]*domain.LegalDocument, error)

	// Chunks returns the chunk set of a document
	Chunks(ctx context.Context, id string) ([]*domain.LegalChunk, error)

	// Count returns the total number of documents
	Count(ctx context.Context) (int, error)
}
