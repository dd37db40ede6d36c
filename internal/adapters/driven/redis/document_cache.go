package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentCache = (*DocumentCache)(nil)

const documentPrefix = "lexcore:doc:"

// DocumentCache shares parsed documents between API instances. Entries
// expire after the configured TTL; new editions invalidate them explicitly.
type DocumentCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewDocumentCache creates a Redis-backed DocumentCache. A non-positive ttl
// defaults to one hour.
func NewDocumentCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *DocumentCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached document. Backend errors are logged and reported
// as a miss so reads fall through to the store.
func (c *DocumentCache) Get(ctx context.Context, id string) (*domain.LegalDocument, bool) {
	data, err := c.client.Get(ctx, documentPrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("document cache read failed", "document_id", id, "error", err)
		}
		return nil, false
	}

	var doc domain.LegalDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		c.logger.Warn("dropping undecodable cache entry", "document_id", id, "error", err)
		_ = c.client.Del(ctx, documentPrefix+id).Err()
		return nil, false
	}
	return &doc, true
}

// Set stores a document under its ID
func (c *DocumentCache) Set(ctx context.Context, doc *domain.LegalDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := c.client.Set(ctx, documentPrefix+doc.ID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache document %s: %w", doc.ID, err)
	}
	return nil
}

// Invalidate drops a cached document; a missing entry is not an error
func (c *DocumentCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, documentPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to invalidate document %s: %w", id, err)
	}
	return nil
}
