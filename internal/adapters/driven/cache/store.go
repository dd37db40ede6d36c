package cache

import (
	"context"
	"log/slog"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.LegalDocumentStore = (*CachedDocumentStore)(nil)

// CachedDocumentStore reads documents through a DocumentCache. Writes go to
// the underlying store first and then invalidate the cached copy, so a new
// edition is never shadowed by the previous one.
type CachedDocumentStore struct {
	driven.LegalDocumentStore
	cache  driven.DocumentCache
	logger *slog.Logger
}

// NewCachedDocumentStore wraps store with cache
func NewCachedDocumentStore(store driven.LegalDocumentStore, cache driven.DocumentCache, logger *slog.Logger) *CachedDocumentStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedDocumentStore{LegalDocumentStore: store, cache: cache, logger: logger}
}

// Get serves from the cache and fills it on a miss
func (s *CachedDocumentStore) Get(ctx context.Context, id string) (*domain.LegalDocument, error) {
	if doc, ok := s.cache.Get(ctx, id); ok {
		return doc, nil
	}

	doc, err := s.LegalDocumentStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, doc); err != nil {
		s.logger.Warn("failed to cache document", "document_id", id, "error", err)
	}
	return doc, nil
}

// Save writes through and invalidates
func (s *CachedDocumentStore) Save(ctx context.Context, doc *domain.LegalDocument) error {
	if err := s.LegalDocumentStore.Save(ctx, doc); err != nil {
		return err
	}
	s.invalidate(ctx, doc.ID)
	return nil
}

// Delete removes from the store and invalidates
func (s *CachedDocumentStore) Delete(ctx context.Context, id string) error {
	if err := s.LegalDocumentStore.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CachedDocumentStore) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("failed to invalidate cached document", "document_id", id, "error", err)
	}
}
