package domain

import "sync"

// RuntimeConfig tracks which optional services are available at runtime.
// Embedding availability can change while the process runs.
// Thread-safe for concurrent access.
type RuntimeConfig struct {
	mu sync.RWMutex

	// Static (set at startup, read-only)
	StoreBackend string // "postgres" or "files"
	CacheBackend string // "redis", "memory" or "none"

	embeddingAvailable bool
}

// NewRuntimeConfig creates a new RuntimeConfig with initial values
func NewRuntimeConfig(storeBackend, cacheBackend string) *RuntimeConfig {
	return &RuntimeConfig{
		StoreBackend: storeBackend,
		CacheBackend: cacheBackend,
	}
}

// EmbeddingAvailable returns whether embedding service is available
func (c *RuntimeConfig) EmbeddingAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.embeddingAvailable
}

// SetEmbeddingAvailable updates the embedding availability flag
func (c *RuntimeConfig) SetEmbeddingAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.embeddingAvailable = available
}

// EffectiveSearchMode returns the best available search mode
func (c *RuntimeConfig) EffectiveSearchMode() SearchMode {
	if c.EmbeddingAvailable() {
		return SearchModeHybrid
	}
	return SearchModeLexical
}

// Resolve downgrades a requested mode to what the runtime can serve.
func (c *RuntimeConfig) Resolve(requested SearchMode) SearchMode {
	if requested == "" {
		return c.EffectiveSearchMode()
	}
	if requested.RequiresEmbedding() && !c.EmbeddingAvailable() {
		return SearchModeLexical
	}
	return requested
}
