package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// MockSourceFetcher serves canned payloads keyed by URL
type MockSourceFetcher struct {
	mu       sync.RWMutex
	payloads map[string]*domain.FetchedSource

	// FetchErr, when set, is returned by every Fetch
	FetchErr error
	Calls    int
}

// NewMockSourceFetcher creates a new MockSourceFetcher
func NewMockSourceFetcher() *MockSourceFetcher {
	return &MockSourceFetcher{payloads: make(map[string]*domain.FetchedSource)}
}

// Serve registers the bytes returned for url.
func (m *MockSourceFetcher) Serve(url string, data []byte, mimeType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads[url] = &domain.FetchedSource{URL: url, Data: data, MimeType: mimeType}
}

func (m *MockSourceFetcher) Fetch(ctx context.Context, url string) (*domain.FetchedSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	p, ok := m.payloads[url]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, url)
	}
	out := *p
	out.RetrievedAt = time.Now()
	return &out, nil
}
