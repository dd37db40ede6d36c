package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentCache = (*LRU)(nil)

// DefaultSize is the number of documents kept when no size is configured
const DefaultSize = 256

type entry struct {
	doc     *domain.LegalDocument
	expires time.Time
}

// LRU is an in-process DocumentCache bounded by entry count. Entries older
// than the TTL are treated as misses and evicted on read.
type LRU struct {
	cache *lru.Cache
	ttl   time.Duration
	clock domain.Clock
}

// NewLRU creates an LRU cache holding up to size documents. A zero ttl
// keeps entries until they are evicted or invalidated.
func NewLRU(size int, ttl time.Duration, clock domain.Clock) (*LRU, error) {
	if size <= 0 {
		size = DefaultSize
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &LRU{cache: c, ttl: ttl, clock: clock}, nil
}

// Get returns a cached document
func (c *LRU) Get(ctx context.Context, id string) (*domain.LegalDocument, bool) {
	v, ok := c.cache.Get(id)
	if !ok {
		return nil, false
	}
	e := v.(entry)
	if !e.expires.IsZero() && !c.clock.Now().Before(e.expires) {
		c.cache.Remove(id)
		return nil, false
	}
	return e.doc, true
}

// Set stores a document, evicting the least recently used one when full
func (c *LRU) Set(ctx context.Context, doc *domain.LegalDocument) error {
	e := entry{doc: doc}
	if c.ttl > 0 {
		e.expires = c.clock.Now().Add(c.ttl)
	}
	c.cache.Add(doc.ID, e)
	return nil
}

// Invalidate drops a cached document
func (c *LRU) Invalidate(ctx context.Context, id string) error {
	c.cache.Remove(id)
	return nil
}

// Len returns the number of cached documents
func (c *LRU) Len() int {
	return c.cache.Len()
}
