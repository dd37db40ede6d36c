package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// LineageStore persists document lineage records
type LineageStore interface {
	// Save creates or replaces the lineage of a document
	Save(ctx context.Context, lineage *domain.DocumentLineage) error

	// Get returns domain.ErrNotFound when the document has no lineage yet
	Get(ctx context.Context, documentID string) (*domain.DocumentLineage, error)

	// Delete removes a lineage record
	Delete(ctx context.Context, documentID string) error
}

// ChangeDetectionStore persists the polling state of monitored documents
type ChangeDetectionStore interface {
	Save(ctx context.Context, record *domain.ChangeDetection) error

	Get(ctx context.Context, documentID string) (*domain.ChangeDetection, error)

	// ListDue returns records whose next check time is at or before now
	ListDue(ctx context.Context, now time.Time) ([]*domain.ChangeDetection, error)

	Delete(ctx context.Context, documentID string) error
}
