package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// MockDistributedLock keeps named leases in memory. AcquireFn overrides
// acquisition when a test needs a backend failure.
type MockDistributedLock struct {
	mu     sync.Mutex
	leases map[string]time.Time

	AcquireFn func(name string, ttl time.Duration) (bool, error)
	// ExtendErr, when set, is returned by every Extend.
	ExtendErr error

	// Acquisitions, Extensions and Releases count successful calls per
	// lock name.
	Acquisitions map[string]int
	Extensions   map[string]int
	Releases     map[string]int
}

// NewMockDistributedLock creates an empty lock.
func NewMockDistributedLock() *MockDistributedLock {
	return &MockDistributedLock{
		leases:       make(map[string]time.Time),
		Acquisitions: make(map[string]int),
		Extensions:   make(map[string]int),
		Releases:     make(map[string]int),
	}
}

func (m *MockDistributedLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	if m.AcquireFn != nil {
		return m.AcquireFn(name, ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.heldLocked(name) {
		return false, nil
	}
	m.leases[name] = time.Now().Add(ttl)
	m.Acquisitions[name]++
	return true, nil
}

func (m *MockDistributedLock) Release(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.leases[name]; ok {
		delete(m.leases, name)
		m.Releases[name]++
	}
	return nil
}

// Extend fails with ErrLockNotAcquired once the lease is gone or expired.
func (m *MockDistributedLock) Extend(ctx context.Context, name string, ttl time.Duration) error {
	if m.ExtendErr != nil {
		return m.ExtendErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.heldLocked(name) {
		return domain.ErrLockNotAcquired
	}
	m.leases[name] = time.Now().Add(ttl)
	m.Extensions[name]++
	return nil
}

func (m *MockDistributedLock) Ping(ctx context.Context) error {
	return nil
}

// Held reports whether name currently has an unexpired lease.
func (m *MockDistributedLock) Held(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.heldLocked(name)
}

func (m *MockDistributedLock) heldLocked(name string) bool {
	expiry, ok := m.leases[name]
	return ok && time.Now().Before(expiry)
}
