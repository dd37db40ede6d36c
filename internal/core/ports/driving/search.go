package driving

import (
	"context"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// SearchService ranks stored chunks against a query
type SearchService interface {
	// Search ranks chunks semantically when embeddings are available and
	// lexically otherwise
	Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResult, error)

	// RelatedSections returns chunks most similar to the given chunk
	RelatedSections(ctx context.Context, chunkID string, limit int) ([]domain.RelatedSection, error)
}
