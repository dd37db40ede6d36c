package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// MockLineageStore is an in-memory LineageStore for testing
type MockLineageStore struct {
	mu      sync.RWMutex
	records map[string]*domain.DocumentLineage
}

// NewMockLineageStore creates a new MockLineageStore
func NewMockLineageStore() *MockLineageStore {
	return &MockLineageStore{records: make(map[string]*domain.DocumentLineage)}
}

func (m *MockLineageStore) Save(ctx context.Context, l *domain.DocumentLineage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[l.DocumentID] = l
	return nil
}

func (m *MockLineageStore) Get(ctx context.Context, documentID string) (*domain.DocumentLineage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.records[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

func (m *MockLineageStore) Delete(ctx context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, documentID)
	return nil
}

// MockChangeDetectionStore is an in-memory ChangeDetectionStore for testing
type MockChangeDetectionStore struct {
	mu      sync.RWMutex
	records map[string]*domain.ChangeDetection
}

// NewMockChangeDetectionStore creates a new MockChangeDetectionStore
func NewMockChangeDetectionStore() *MockChangeDetectionStore {
	return &MockChangeDetectionStore{records: make(map[string]*domain.ChangeDetection)}
}

func (m *MockChangeDetectionStore) Save(ctx context.Context, record *domain.ChangeDetection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := *record
	m.records[record.DocumentID] = &r
	return nil
}

func (m *MockChangeDetectionStore) Get(ctx context.Context, documentID string) (*domain.ChangeDetection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *r
	return &out, nil
}

func (m *MockChangeDetectionStore) ListDue(ctx context.Context, now time.Time) ([]*domain.ChangeDetection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var due []*domain.ChangeDetection
	for _, r := range m.records {
		if r.IsDue(now) {
			out := *r
			due = append(due, &out)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].DocumentID < due[j].DocumentID })
	return due, nil
}

func (m *MockChangeDetectionStore) Delete(ctx context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, documentID)
	return nil
}
