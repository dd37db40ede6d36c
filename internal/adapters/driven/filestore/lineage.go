package filestore

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.LineageStore         = (*LineageStore)(nil)
	_ driven.ChangeDetectionStore = (*ChangeDetectionStore)(nil)
)

// LineageStore keeps lineage/{documentID}.json
type LineageStore struct {
	s *Store
}

// Lineages returns the lineage store of the corpus
func (s *Store) Lineages() *LineageStore {
	return &LineageStore{s: s}
}

// Save creates or replaces the lineage of a document
func (l *LineageStore) Save(ctx context.Context, lineage *domain.DocumentLineage) error {
	path, err := l.s.recordPath(lineageDir, lineage.DocumentID)
	if err != nil {
		return err
	}
	if lineage.UpdatedAt.IsZero() {
		lineage.UpdatedAt = l.s.clock.Now()
	}

	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return writeJSON(path, lineage)
}

// Get returns domain.ErrNotFound when the document has no lineage
func (l *LineageStore) Get(ctx context.Context, documentID string) (*domain.DocumentLineage, error) {
	path, err := l.s.recordPath(lineageDir, documentID)
	if err != nil {
		return nil, err
	}

	l.s.mu.RLock()
	defer l.s.mu.RUnlock()

	var lineage domain.DocumentLineage
	if err := readJSON(path, &lineage); err != nil {
		return nil, err
	}
	return &lineage, nil
}

// Delete removes a lineage record
func (l *LineageStore) Delete(ctx context.Context, documentID string) error {
	path, err := l.s.recordPath(lineageDir, documentID)
	if err != nil {
		return err
	}

	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	_, err = removeFile(path)
	return err
}

// ChangeDetectionStore keeps checks/{documentID}.json
type ChangeDetectionStore struct {
	s *Store
}

// Checks returns the polling record store of the corpus
func (s *Store) Checks() *ChangeDetectionStore {
	return &ChangeDetectionStore{s: s}
}

// Save creates or updates a polling record
func (c *ChangeDetectionStore) Save(ctx context.Context, record *domain.ChangeDetection) error {
	path, err := c.s.recordPath(checksDir, record.DocumentID)
	if err != nil {
		return err
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return writeJSON(path, record)
}

// Get retrieves the polling record of a document
func (c *ChangeDetectionStore) Get(ctx context.Context, documentID string) (*domain.ChangeDetection, error) {
	path, err := c.s.recordPath(checksDir, documentID)
	if err != nil {
		return nil, err
	}

	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	var record domain.ChangeDetection
	if err := readJSON(path, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListDue returns records due at now, oldest next check first
func (c *ChangeDetectionStore) ListDue(ctx context.Context, now time.Time) ([]*domain.ChangeDetection, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	ids, err := c.s.listIDs(checksDir)
	if err != nil {
		return nil, err
	}

	var due []*domain.ChangeDetection
	for _, id := range ids {
		var record domain.ChangeDetection
		if err := readJSON(filepath.Join(c.s.root, checksDir, id+".json"), &record); err != nil {
			return nil, err
		}
		if record.IsDue(now) {
			due = append(due, &record)
		}
	}

	sort.SliceStable(due, func(i, j int) bool { return due[i].NextCheckDate.Before(due[j].NextCheckDate) })
	return due, nil
}

// Delete removes a polling record
func (c *ChangeDetectionStore) Delete(ctx context.Context, documentID string) error {
	path, err := c.s.recordPath(checksDir, documentID)
	if err != nil {
		return err
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	_, err = removeFile(path)
	return err
}
