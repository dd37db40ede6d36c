package services

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/lexcore/internal/chunking"
	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven/mocks"
)

type ingestionFixture struct {
	docs     *mocks.MockDocumentStore
	chunks   *mocks.MockChunkStore
	embedder *mocks.MockEmbeddingService
	svc      *ingestionService
}

func newIngestionFixture(t *testing.T, withEmbedder bool) *ingestionFixture {
	t.Helper()
	f := &ingestionFixture{
		docs:   mocks.NewMockDocumentStore(),
		chunks: mocks.NewMockChunkStore(),
	}
	services := newTestRuntime(nil)
	if withEmbedder {
		f.embedder = mocks.NewMockEmbeddingService()
		services.SetEmbeddingService(f.embedder)
	}
	f.svc = NewIngestionService(IngestionConfig{
		Documents:      f.docs,
		Chunks:         f.chunks,
		Builder:        newTestBuilder(t),
		Services:       services,
		EmbeddingBatch: 1,
	}).(*ingestionService)
	return f
}

func TestIngestionService_Ingest(t *testing.T) {
	f := newIngestionFixture(t, true)
	ctx := context.Background()

	result, err := f.svc.Ingest(ctx, laborLaw(), chunking.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ChunkCount != 2 {
		t.Errorf("expected 2 chunks, got %d", result.ChunkCount)
	}
	if result.EmbeddedCount != 2 {
		t.Errorf("expected 2 embedded chunks, got %d", result.EmbeddedCount)
	}
	if result.Strategy != chunking.StrategyStructure {
		t.Errorf("expected structure strategy, got %s", result.Strategy)
	}
	// batch size 1 means one request per chunk
	if f.embedder.Calls != 2 {
		t.Errorf("expected 2 embedding calls, got %d", f.embedder.Calls)
	}

	if _, err := f.docs.Get(ctx, "lft"); err != nil {
		t.Fatalf("document not stored: %v", err)
	}
	stored, _ := f.chunks.GetByDocument(ctx, "lft")
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored chunks, got %d", len(stored))
	}
	for _, c := range stored {
		if !c.HasEmbedding() {
			t.Errorf("chunk %s stored without embedding", c.ID)
		}
		if c.Metadata.Title != "Ley Federal del Trabajo" {
			t.Errorf("chunk %s has title %q", c.ID, c.Metadata.Title)
		}
	}
}

func TestIngestionService_Ingest_EmbeddingFailureKeepsChunks(t *testing.T) {
	f := newIngestionFixture(t, true)
	f.embedder.SetFailAlways(true)

	result, err := f.svc.Ingest(context.Background(), laborLaw(), noOverlap)
	if err != nil {
		t.Fatalf("embedding failure must not fail ingestion: %v", err)
	}
	if result.EmbeddingError == "" {
		t.Error("expected embedding error to be reported")
	}
	if result.EmbeddedCount != 0 {
		t.Errorf("expected no embedded chunks, got %d", result.EmbeddedCount)
	}

	stored, _ := f.chunks.GetByDocument(context.Background(), "lft")
	if len(stored) != 2 {
		t.Fatalf("expected chunks to be stored, got %d", len(stored))
	}
	for _, c := range stored {
		if c.HasEmbedding() {
			t.Errorf("chunk %s should have no embedding", c.ID)
		}
	}
}

func TestIngestionService_Ingest_InvalidDocument(t *testing.T) {
	f := newIngestionFixture(t, false)
	doc := laborLaw()
	doc.Hierarchy = 0

	_, err := f.svc.Ingest(context.Background(), doc, noOverlap)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if n, _ := f.docs.Count(context.Background()); n != 0 {
		t.Errorf("invalid document was stored")
	}
}

func TestIngestionService_Ingest_EmptyDocumentWarns(t *testing.T) {
	f := newIngestionFixture(t, false)
	doc := laborLaw()
	doc.Content = nil

	result, err := f.svc.Ingest(context.Background(), doc, noOverlap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ChunkCount != 0 || len(result.Warnings) != 1 {
		t.Errorf("expected no chunks and one warning, got %+v", result)
	}
}

func TestIngestionService_Ingest_ReplaceFailure(t *testing.T) {
	f := newIngestionFixture(t, false)
	f.chunks.ReplaceErr = errors.New("disk full")

	if _, err := f.svc.Ingest(context.Background(), laborLaw(), noOverlap); err == nil {
		t.Fatal("expected replace error")
	}
}

func TestIngestionService_ReingestReplacesWholeSet(t *testing.T) {
	f := newIngestionFixture(t, false)
	ctx := context.Background()

	if _, err := f.svc.Ingest(ctx, laborLaw(), noOverlap); err != nil {
		t.Fatal(err)
	}

	doc := laborLaw()
	doc.Content = doc.Content[:1]
	if err := f.docs.Save(ctx, doc); err != nil {
		t.Fatal(err)
	}

	result, err := f.svc.Reingest(ctx, "lft")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ChunkCount != 1 {
		t.Errorf("expected 1 chunk, got %d", result.ChunkCount)
	}
	stored, _ := f.chunks.GetByDocument(ctx, "lft")
	if len(stored) != 1 {
		t.Errorf("stale chunks survived re-ingestion: %d stored", len(stored))
	}

	if _, err := f.svc.Reingest(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIngestionService_IngestBatch_IsolatesFailures(t *testing.T) {
	f := newIngestionFixture(t, false)
	ctx := context.Background()

	bad := laborLaw()
	bad.ID = "bad"
	bad.Hierarchy = 9
	second := laborLaw()
	second.ID = "lft-2"
	second.Content = nil

	results, err := f.svc.IngestBatch(ctx, []*domain.LegalDocument{laborLaw(), bad, second}, noOverlap)
	if err == nil {
		t.Fatal("expected batch error")
	}
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected joined ErrInvalidInput, got %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 result slots, got %d", len(results))
	}
	if results[0] == nil || results[2] == nil {
		t.Error("valid documents should have results")
	}
	if results[1] != nil {
		t.Error("invalid document should have no result")
	}
	if n, _ := f.docs.Count(ctx); n != 2 {
		t.Errorf("expected 2 stored documents, got %d", n)
	}
}

func TestIngestionService_BackfillEmbeddings(t *testing.T) {
	ctx := context.Background()
	f := newIngestionFixture(t, false)

	if _, err := f.svc.BackfillEmbeddings(ctx, "lft"); !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Fatalf("expected ErrEmbeddingUnavailable, got %v", err)
	}

	if _, err := f.svc.Ingest(ctx, laborLaw(), noOverlap); err != nil {
		t.Fatal(err)
	}

	embedder := mocks.NewMockEmbeddingService()
	f.svc.services.SetEmbeddingService(embedder)

	n, err := f.svc.BackfillEmbeddings(ctx, "lft")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 back-filled chunks, got %d", n)
	}

	// everything is embedded now
	n, err = f.svc.BackfillEmbeddings(ctx, "lft")
	if err != nil || n != 0 {
		t.Errorf("expected nothing left to back-fill, got %d, %v", n, err)
	}
}
