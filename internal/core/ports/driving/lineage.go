package driving

import (
	"context"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// LineageService tracks where each document came from and how it changed
type LineageService interface {
	// RecordEdition archives the raw bytes, computes custody, appends a
	// version, diffs it against the previous edition and re-ingests
	RecordEdition(ctx context.Context, req *domain.EditionRequest) (*domain.EditionRecord, error)

	// RefreshFromSource fetches the document's source URL and records a new
	// edition when its bytes changed. Returns nil when nothing changed.
	RefreshFromSource(ctx context.Context, documentID string) (*domain.EditionRecord, error)

	// VerifyIntegrity re-hashes the archived bytes against custody
	VerifyIntegrity(ctx context.Context, documentID string) (*domain.IntegrityResult, error)

	// Get returns the lineage of a document
	Get(ctx context.Context, documentID string) (*domain.DocumentLineage, error)

	// Timeline returns the publication and effective events of a document
	Timeline(ctx context.Context, documentID string) ([]domain.TimelineEvent, error)

	// Confidence returns the decayed confidence of a document
	Confidence(ctx context.Context, documentID string) (*domain.ConfidenceReport, error)

	// Compare diffs two stored versions of a document
	Compare(ctx context.Context, documentID, fromVersionID, toVersionID string) (*domain.VersionDiff, error)

	// ValidateSource scores a source URL
	ValidateSource(rawURL string) domain.SourceValidation
}
