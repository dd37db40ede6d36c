package driven

import (
	"context"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// DocumentCache holds recently read documents. A miss is not an error.
type DocumentCache interface {
	Get(ctx context.Context, id string) (*domain.LegalDocument, bool)

	Set(ctx context.Context, doc *domain.LegalDocument) error

	Invalidate(ctx context.Context, id string) error
}
