package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.LineageStore         = (*LineageStore)(nil)
	_ driven.ChangeDetectionStore = (*ChangeDetectionStore)(nil)
)

// LineageStore implements driven.LineageStore using PostgreSQL
type LineageStore struct {
	db *DB
}

// NewLineageStore creates a new LineageStore
func NewLineageStore(db *DB) *LineageStore {
	return &LineageStore{db: db}
}

// Save creates or replaces the lineage of a document
func (s *LineageStore) Save(ctx context.Context, lineage *domain.DocumentLineage) error {
	origin, err := json.Marshal(lineage.Origin)
	if err != nil {
		return fmt.Errorf("marshal origin: %w", err)
	}
	versions, err := json.Marshal(lineage.Versions)
	if err != nil {
		return fmt.Errorf("marshal versions: %w", err)
	}
	custody, err := json.Marshal(lineage.Custody)
	if err != nil {
		return fmt.Errorf("marshal custody: %w", err)
	}

	updatedAt := lineage.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	query := `
		INSERT INTO document_lineages (document_id, current_version, origin, versions, custody, completeness, accuracy, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (document_id) DO UPDATE SET
			current_version = EXCLUDED.current_version,
			origin = EXCLUDED.origin,
			versions = EXCLUDED.versions,
			custody = EXCLUDED.custody,
			completeness = EXCLUDED.completeness,
			accuracy = EXCLUDED.accuracy,
			updated_at = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		lineage.DocumentID,
		lineage.CurrentVersion,
		origin,
		versions,
		custody,
		lineage.Completeness,
		lineage.Accuracy,
		updatedAt,
	)
	return err
}

// Get returns domain.ErrNotFound when the document has no lineage
func (s *LineageStore) Get(ctx context.Context, documentID string) (*domain.DocumentLineage, error) {
	query := `
		SELECT document_id, current_version, origin, versions, custody, completeness, accuracy, updated_at
		FROM document_lineages
		WHERE document_id = $1
	`

	var lineage domain.DocumentLineage
	var origin, versions, custody []byte

	err := s.db.QueryRowContext(ctx, query, documentID).Scan(
		&lineage.DocumentID,
		&lineage.CurrentVersion,
		&origin,
		&versions,
		&custody,
		&lineage.Completeness,
		&lineage.Accuracy,
		&lineage.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(origin, &lineage.Origin); err != nil {
		return nil, fmt.Errorf("unmarshal origin: %w", err)
	}
	if err := json.Unmarshal(versions, &lineage.Versions); err != nil {
		return nil, fmt.Errorf("unmarshal versions: %w", err)
	}
	if err := json.Unmarshal(custody, &lineage.Custody); err != nil {
		return nil, fmt.Errorf("unmarshal custody: %w", err)
	}

	return &lineage, nil
}

// Delete removes a lineage record
func (s *LineageStore) Delete(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM document_lineages WHERE document_id = $1`, documentID)
	return err
}

// ChangeDetectionStore implements driven.ChangeDetectionStore using PostgreSQL
type ChangeDetectionStore struct {
	db *DB
}

// NewChangeDetectionStore creates a new ChangeDetectionStore
func NewChangeDetectionStore(db *DB) *ChangeDetectionStore {
	return &ChangeDetectionStore{db: db}
}

// Save creates or updates a polling record
func (s *ChangeDetectionStore) Save(ctx context.Context, record *domain.ChangeDetection) error {
	query := `
		INSERT INTO change_detection (document_id, last_check_date, next_check_date, check_frequency, changes_detected, last_error)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (document_id) DO UPDATE SET
			last_check_date = EXCLUDED.last_check_date,
			next_check_date = EXCLUDED.next_check_date,
			check_frequency = EXCLUDED.check_frequency,
			changes_detected = EXCLUDED.changes_detected,
			last_error = EXCLUDED.last_error
	`

	_, err := s.db.ExecContext(ctx, query,
		record.DocumentID,
		NullTime(record.LastCheckDate),
		record.NextCheckDate,
		record.CheckFrequency,
		record.ChangesDetected,
		record.LastError,
	)
	return err
}

// Get retrieves the polling record of a document
func (s *ChangeDetectionStore) Get(ctx context.Context, documentID string) (*domain.ChangeDetection, error) {
	query := `
		SELECT document_id, last_check_date, next_check_date, check_frequency, changes_detected, last_error
		FROM change_detection
		WHERE document_id = $1
	`

	record, err := scanChangeDetection(s.db.QueryRowContext(ctx, query, documentID))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListDue returns records whose next check time is at or before now, oldest first
func (s *ChangeDetectionStore) ListDue(ctx context.Context, now time.Time) ([]*domain.ChangeDetection, error) {
	query := `
		SELECT document_id, last_check_date, next_check_date, check_frequency, changes_detected, last_error
		FROM change_detection
		WHERE next_check_date <= $1
		ORDER BY next_check_date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.ChangeDetection
	for rows.Next() {
		record, err := scanChangeDetection(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Delete removes a polling record
func (s *ChangeDetectionStore) Delete(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM change_detection WHERE document_id = $1`, documentID)
	return err
}

func scanChangeDetection(row rowScanner) (*domain.ChangeDetection, error) {
	var record domain.ChangeDetection
	var lastCheck sql.NullTime

	err := row.Scan(
		&record.DocumentID,
		&lastCheck,
		&record.NextCheckDate,
		&record.CheckFrequency,
		&record.ChangesDetected,
		&record.LastError,
	)
	if err != nil {
		return nil, err
	}

	if lastCheck.Valid {
		record.LastCheckDate = lastCheck.Time
	}

	return &record, nil
}
