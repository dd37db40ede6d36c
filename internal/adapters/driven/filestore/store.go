// Package filestore keeps the corpus as plain JSON files: one file per
// document, a corpus metadata index, chunk sets, lineage and polling
// records, and batched embedding exports.
//
// Layout under the root directory:
//
//	metadata.json
//	documents/{id}.json
//	chunks/{id}.json
//	lineage/{id}.json
//	checks/{id}.json
//	embeddings/index.json, embeddings/embeddings-NNN.json
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

const (
	// CorpusVersion is written into metadata.json and the embeddings index
	CorpusVersion = "1.0"

	metadataFile = "metadata.json"
	documentsDir = "documents"
	chunksDir    = "chunks"
	lineageDir   = "lineage"
	checksDir    = "checks"
)

// Store is the root of a file corpus. All stores created from it share one
// lock, so a chunk replacement and a document save never interleave.
type Store struct {
	root   string
	clock  domain.Clock
	logger *slog.Logger

	mu sync.RWMutex
}

// Config configures a Store
type Config struct {
	Root   string
	Clock  domain.Clock
	Logger *slog.Logger
}

// Open creates the directory layout if needed
func Open(cfg Config) (*Store, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("%w: corpus directory is required", domain.ErrInvalidInput)
	}
	if cfg.Clock == nil {
		cfg.Clock = domain.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	for _, dir := range []string{documentsDir, chunksDir, lineageDir, checksDir} {
		if err := os.MkdirAll(filepath.Join(cfg.Root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	return &Store{root: cfg.Root, clock: cfg.Clock, logger: cfg.Logger}, nil
}

// Root returns the corpus directory
func (s *Store) Root() string {
	return s.root
}

// recordPath maps an id to {dir}/{id}.json. IDs that are not a single path
// element are rejected.
func (s *Store) recordPath(dir, id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: invalid record id %q", domain.ErrInvalidInput, id)
	}
	return filepath.Join(s.root, dir, id+".json"), nil
}

// writeJSON writes v to a temporary file and renames it into place
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// readJSON returns domain.ErrNotFound for a missing file
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func removeFile(path string) (bool, error) {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// listIDs returns the record ids in dir in sorted order
func (s *Store) listIDs(dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, dir))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
