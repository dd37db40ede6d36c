package driving

import (
	"context"

	"github.com/custodia-labs/lexcore/internal/chunking"
	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// IngestionService turns documents into stored, searchable chunk sets
type IngestionService interface {
	// Ingest validates and stores a document, regenerates its chunks and
	// replaces the stored chunk set in one step. Embeddings are back-filled
	// when an embedding service is available; their failure is reported in
	// the result, not as an error.
	Ingest(ctx context.Context, doc *domain.LegalDocument, opts chunking.Options) (*domain.IngestionResult, error)

	// IngestBatch ingests documents concurrently. Results keep input order;
	// a failed document leaves a nil result and its error joined into err.
	IngestBatch(ctx context.Context, docs []*domain.LegalDocument, opts chunking.Options) ([]*domain.IngestionResult, error)

	// Reingest rebuilds the chunks of a stored document
	Reingest(ctx context.Context, documentID string) (*domain.IngestionResult, error)

	// BackfillEmbeddings embeds chunks of the document that lack one
	BackfillEmbeddings(ctx context.Context, documentID string) (int, error)
}
