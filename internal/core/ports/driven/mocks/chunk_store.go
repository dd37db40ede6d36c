package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// MockChunkStore is an in-memory ChunkStore for testing
type MockChunkStore struct {
	mu         sync.RWMutex
	chunks     map[string]*domain.LegalChunk
	byDocument map[string][]*domain.LegalChunk

	// ReplaceErr, when set, is returned by ReplaceForDocument
	ReplaceErr error
}

// NewMockChunkStore creates a new MockChunkStore
func NewMockChunkStore() *MockChunkStore {
	return &MockChunkStore{
		chunks:     make(map[string]*domain.LegalChunk),
		byDocument: make(map[string][]*domain.LegalChunk),
	}
}

func (m *MockChunkStore) ReplaceForDocument(ctx context.Context, documentID string, chunks []*domain.LegalChunk) error {
	if m.ReplaceErr != nil {
		return m.ReplaceErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.byDocument[documentID] {
		delete(m.chunks, c.ID)
	}
	set := make([]*domain.LegalChunk, len(chunks))
	copy(set, chunks)
	for _, c := range set {
		m.chunks[c.ID] = c
	}
	m.byDocument[documentID] = set
	return nil
}

func (m *MockChunkStore) Get(ctx context.Context, id string) (*domain.LegalChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.chunks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *MockChunkStore) GetByDocument(ctx context.Context, documentID string) ([]*domain.LegalChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.LegalChunk, len(m.byDocument[documentID]))
	copy(out, m.byDocument[documentID])
	return out, nil
}

func (m *MockChunkStore) List(ctx context.Context, documentIDs []string) ([]*domain.LegalChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := documentIDs
	if len(ids) == 0 {
		for id := range m.byDocument {
			ids = append(ids, id)
		}
		sort.Strings(ids)
	}
	var out []*domain.LegalChunk
	for _, id := range ids {
		out = append(out, m.byDocument[id]...)
	}
	return out, nil
}

func (m *MockChunkStore) SetEmbeddings(ctx context.Context, embeddings map[string][]float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range embeddings {
		if c, ok := m.chunks[id]; ok {
			c.Embedding = e
		}
	}
	return nil
}

func (m *MockChunkStore) DeleteByDocument(ctx context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byDocument[documentID] {
		delete(m.chunks, c.ID)
	}
	delete(m.byDocument, documentID)
	return nil
}
