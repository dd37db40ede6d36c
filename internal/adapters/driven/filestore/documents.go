package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.LegalDocumentStore = (*DocumentStore)(nil)

// DocumentStore implements driven.LegalDocumentStore over documents/{id}.json
// and keeps metadata.json in step with every write.
type DocumentStore struct {
	s *Store
}

// Documents returns the document store of the corpus
func (s *Store) Documents() *DocumentStore {
	return &DocumentStore{s: s}
}

// Save writes the document file and refreshes its corpus metadata entry
func (d *DocumentStore) Save(ctx context.Context, doc *domain.LegalDocument) error {
	path, err := d.s.recordPath(documentsDir, doc.ID)
	if err != nil {
		return err
	}

	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	if err := writeJSON(path, doc); err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return d.s.updateMetadata(func(meta *domain.CorpusMetadata) {
		entry := domain.CorpusEntry{
			ID:          doc.ID,
			Title:       doc.Title,
			Type:        doc.Type,
			Hierarchy:   doc.Hierarchy,
			PrimaryArea: doc.PrimaryArea,
			Source:      doc.SourceURL,
			Size:        int64(len(encoded)),
			LastUpdated: d.s.clock.Now(),
		}
		for i := range meta.Documents {
			if meta.Documents[i].ID == doc.ID {
				meta.Documents[i] = entry
				return
			}
		}
		meta.Documents = append(meta.Documents, entry)
	})
}

// Get returns domain.ErrNotFound when the document file does not exist
func (d *DocumentStore) Get(ctx context.Context, id string) (*domain.LegalDocument, error) {
	path, err := d.s.recordPath(documentsDir, id)
	if err != nil {
		return nil, err
	}

	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	var doc domain.LegalDocument
	if err := readJSON(path, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// List returns every document ordered by ID
func (d *DocumentStore) List(ctx context.Context) ([]*domain.LegalDocument, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	ids, err := d.s.listIDs(documentsDir)
	if err != nil {
		return nil, err
	}

	docs := make([]*domain.LegalDocument, 0, len(ids))
	for _, id := range ids {
		var doc domain.LegalDocument
		if err := readJSON(filepath.Join(d.s.root, documentsDir, id+".json"), &doc); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, nil
}

// Delete removes the document together with its chunk set
func (d *DocumentStore) Delete(ctx context.Context, id string) error {
	path, err := d.s.recordPath(documentsDir, id)
	if err != nil {
		return err
	}

	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	removed, err := removeFile(path)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrNotFound
	}
	if _, err := removeFile(filepath.Join(d.s.root, chunksDir, id+".json")); err != nil {
		return err
	}

	return d.s.updateMetadata(func(meta *domain.CorpusMetadata) {
		kept := meta.Documents[:0]
		for _, e := range meta.Documents {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		meta.Documents = kept
	})
}

// Count returns the number of document files
func (d *DocumentStore) Count(ctx context.Context) (int, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	ids, err := d.s.listIDs(documentsDir)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Metadata reads metadata.json. A corpus without one yields an empty index.
func (s *Store) Metadata() (*domain.CorpusMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readMetadata()
}

func (s *Store) readMetadata() (*domain.CorpusMetadata, error) {
	var meta domain.CorpusMetadata
	err := readJSON(filepath.Join(s.root, metadataFile), &meta)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.CorpusMetadata{Version: CorpusVersion}, nil
	}
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// updateMetadata applies fn and rewrites metadata.json. Caller holds s.mu.
func (s *Store) updateMetadata(fn func(*domain.CorpusMetadata)) error {
	meta, err := s.readMetadata()
	if err != nil {
		return err
	}
	fn(meta)

	sort.Slice(meta.Documents, func(i, j int) bool { return meta.Documents[i].ID < meta.Documents[j].ID })
	meta.Version = CorpusVersion
	meta.BuildDate = s.clock.Now()
	meta.TotalDocuments = len(meta.Documents)

	return writeJSON(filepath.Join(s.root, metadataFile), meta)
}
