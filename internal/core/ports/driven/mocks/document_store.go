package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// MockDocumentStore is an in-memory LegalDocumentStore for testing
type MockDocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*domain.LegalDocument

	// Gets counts calls to Get (for cache assertions)
	Gets int
}

// NewMockDocumentStore creates a new MockDocumentStore
func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{
		documents: make(map[string]*domain.LegalDocument),
	}
}

func (m *MockDocumentStore) Save(ctx context.Context, doc *domain.LegalDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[doc.ID] = doc
	return nil
}

func (m *MockDocumentStore) Get(ctx context.Context, id string) (*domain.LegalDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	doc, ok := m.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (m *MockDocumentStore) List(ctx context.Context) ([]*domain.LegalDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := make([]*domain.LegalDocument, 0, len(m.documents))
	for _, d := range m.documents {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (m *MockDocumentStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.documents, id)
	return nil
}

func (m *MockDocumentStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.documents), nil
}
