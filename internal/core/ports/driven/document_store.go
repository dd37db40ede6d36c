package driven

import (
	"context"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// LegalDocumentStore persists the current edition of each document
type LegalDocumentStore interface {
	// Save creates or replaces a document
	Save(ctx context.Context, doc *domain.LegalDocument) error

	// Get retrieves a document by ID. Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.LegalDocument, error)

	// List returns every stored document ordered by ID
	List(ctx context.Context) ([]*domain.LegalDocument, error)

	// Delete removes a document and its chunks
	Delete(ctx context.Context, id string) error

	// Count returns total document count
	Count(ctx context.Context) (int, error)
}

// ChunkStore persists chunk sets. A document's chunks are always replaced
// as a whole so readers never see a mix of two editions.
type ChunkStore interface {
	// ReplaceForDocument atomically swaps the chunk set of a document
	ReplaceForDocument(ctx context.Context, documentID string, chunks []*domain.LegalChunk) error

	// Get retrieves a chunk by ID
	Get(ctx context.Context, id string) (*domain.LegalChunk, error)

	// GetByDocument retrieves all chunks for a document in chunk order
	GetByDocument(ctx context.Context, documentID string) ([]*domain.LegalChunk, error)

	// List returns the chunks of the given documents, or all chunks when
	// documentIDs is empty
	List(ctx context.Context, documentIDs []string) ([]*domain.LegalChunk, error)

	// SetEmbeddings stores embeddings keyed by chunk ID. Unknown IDs are ignored.
	SetEmbeddings(ctx context.Context, embeddings map[string][]float32) error

	// DeleteByDocument deletes all chunks for a document
	DeleteByDocument(ctx context.Context, documentID string) error
}
