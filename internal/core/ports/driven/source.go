package driven

import (
	"context"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// SourceFetcher downloads the published bytes of a document
type SourceFetcher interface {
	Fetch(ctx context.Context, url string) (*domain.FetchedSource, error)
}

// ChangeChecker reports whether a document's source differs from the
// edition last recorded for it
type ChangeChecker interface {
	HasChanged(ctx context.Context, documentID string) (bool, error)
}
