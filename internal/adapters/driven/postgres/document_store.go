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
var _ driven.LegalDocumentStore = (*DocumentStore)(nil)

// DocumentStore implements driven.LegalDocumentStore using PostgreSQL.
// The content tree is stored as JSONB next to the indexed metadata columns.
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

const documentColumns = `id, title, type, hierarchy, primary_area, status,
	publication_date, effective_date, last_reform, source_url, content`

// Save creates or updates a document
func (s *DocumentStore) Save(ctx context.Context, doc *domain.LegalDocument) error {
	content, err := json.Marshal(doc.Content)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}

	query := `
		INSERT INTO legal_documents (` + documentColumns + `, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			type = EXCLUDED.type,
			hierarchy = EXCLUDED.hierarchy,
			primary_area = EXCLUDED.primary_area,
			status = EXCLUDED.status,
			publication_date = EXCLUDED.publication_date,
			effective_date = EXCLUDED.effective_date,
			last_reform = EXCLUDED.last_reform,
			source_url = EXCLUDED.source_url,
			content = EXCLUDED.content,
			updated_at = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		doc.ID,
		doc.Title,
		doc.Type,
		doc.Hierarchy,
		doc.PrimaryArea,
		doc.Status,
		NullDate(doc.PublicationDate),
		NullDate(doc.EffectiveDate),
		NullDate(doc.LastReform),
		doc.SourceURL,
		content,
		time.Now(),
	)
	return err
}

// Get retrieves a document by ID
func (s *DocumentStore) Get(ctx context.Context, id string) (*domain.LegalDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM legal_documents WHERE id = $1`

	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// List returns every document ordered by ID
func (s *DocumentStore) List(ctx context.Context) ([]*domain.LegalDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM legal_documents ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.LegalDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}

// Delete deletes a document; its chunks go with it via ON DELETE CASCADE
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM legal_documents WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Count returns total document count
func (s *DocumentStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM legal_documents`).Scan(&count)
	return count, err
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.LegalDocument, error) {
	var doc domain.LegalDocument
	var publication, effective, lastReform sql.NullTime
	var content []byte

	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Type,
		&doc.Hierarchy,
		&doc.PrimaryArea,
		&doc.Status,
		&publication,
		&effective,
		&lastReform,
		&doc.SourceURL,
		&content,
	)
	if err != nil {
		return nil, err
	}

	doc.PublicationDate = DateOf(publication)
	doc.EffectiveDate = DateOf(effective)
	doc.LastReform = DateOf(lastReform)

	if len(content) > 0 {
		if err := json.Unmarshal(content, &doc.Content); err != nil {
			return nil, fmt.Errorf("unmarshal content of %s: %w", doc.ID, err)
		}
	}

	return &doc, nil
}
