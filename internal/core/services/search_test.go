package services

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/lexcore/internal/lineage"
	"github.com/custodia-labs/lexcore/internal/runtime"
)

type searchFixture struct {
	chunks   *mocks.MockChunkStore
	lineages *mocks.MockLineageStore
	embedder *mocks.MockEmbeddingService
	services *runtime.Services
	svc      *searchService
}

// newSearchFixture ingests the labour law fixture and returns a search
// service over it. With an embedder the chunks carry vectors.
func newSearchFixture(t *testing.T, withEmbedder bool) *searchFixture {
	t.Helper()
	f := &searchFixture{
		chunks:   mocks.NewMockChunkStore(),
		lineages: mocks.NewMockLineageStore(),
	}
	if withEmbedder {
		f.embedder = mocks.NewMockEmbeddingService()
		f.services = newTestRuntime(f.embedder)
	} else {
		f.services = newTestRuntime(nil)
	}

	ingestion := NewIngestionService(IngestionConfig{
		Documents: mocks.NewMockDocumentStore(),
		Chunks:    f.chunks,
		Builder:   newTestBuilder(t),
		Services:  f.services,
	})
	if _, err := ingestion.Ingest(context.Background(), laborLaw(), noOverlap); err != nil {
		t.Fatalf("ingest fixture: %v", err)
	}

	f.svc = NewSearchService(SearchConfig{
		Chunks:   f.chunks,
		Services: f.services,
		Lineages: f.lineages,
		Tracker:  lineage.NewTracker(lineage.TrackerConfig{Clock: domain.FixedClock{T: testNow}}),
	}).(*searchService)
	return f
}

func TestSearchService_Search_Lexical(t *testing.T) {
	f := newSearchFixture(t, false)

	result, err := f.svc.Search(context.Background(), "equilibrio producción", domain.SearchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Mode != domain.SearchModeLexical {
		t.Errorf("expected lexical mode without embeddings, got %s", result.Mode)
	}
	if result.TotalCount != 1 || len(result.Results) != 1 {
		t.Fatalf("expected exactly one match, got %d", result.TotalCount)
	}
	if got := result.Results[0].Chunk.Metadata.Article; got != "2" {
		t.Errorf("expected article 2, got %q", got)
	}
	if result.Results[0].Score <= 0 || result.Results[0].Score > 1 {
		t.Errorf("lexical score out of range: %f", result.Results[0].Score)
	}
}

func TestSearchService_Search_EmptyQuery(t *testing.T) {
	f := newSearchFixture(t, false)

	_, err := f.svc.Search(context.Background(), "   ", domain.SearchOptions{})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSearchService_Search_SemanticWithoutEmbeddingDegrades(t *testing.T) {
	f := newSearchFixture(t, false)

	result, err := f.svc.Search(context.Background(), "República", domain.SearchOptions{Mode: domain.SearchModeSemantic})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Mode != domain.SearchModeLexical {
		t.Errorf("expected lexical fallback, got %s", result.Mode)
	}
	if result.TotalCount != 1 {
		t.Errorf("expected 1 result, got %d", result.TotalCount)
	}
}

func TestSearchService_Search_Hybrid(t *testing.T) {
	f := newSearchFixture(t, true)

	result, err := f.svc.Search(context.Background(), "equilibrio producción", domain.SearchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Mode != domain.SearchModeHybrid {
		t.Errorf("expected hybrid mode, got %s", result.Mode)
	}
	// every chunk has a positive cosine with the mock vectors
	if result.TotalCount != 2 {
		t.Errorf("expected both chunks to score, got %d", result.TotalCount)
	}
	for i := 1; i < len(result.Results); i++ {
		if result.Results[i-1].Score < result.Results[i].Score {
			t.Errorf("results not sorted by score")
		}
	}
}

func TestSearchService_Search_QueryEmbeddingFailureFallsBack(t *testing.T) {
	f := newSearchFixture(t, true)
	f.embedder.SetFailNext(true)

	result, err := f.svc.Search(context.Background(), "equilibrio", domain.SearchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Mode != domain.SearchModeLexical {
		t.Errorf("expected lexical fallback, got %s", result.Mode)
	}
}

func TestSearchService_Search_Paging(t *testing.T) {
	f := newSearchFixture(t, true)
	ctx := context.Background()

	all, err := f.svc.Search(ctx, "ley", domain.SearchOptions{Mode: domain.SearchModeSemantic})
	if err != nil {
		t.Fatal(err)
	}
	page, err := f.svc.Search(ctx, "ley", domain.SearchOptions{Mode: domain.SearchModeSemantic, Limit: 1, Offset: 1})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != all.TotalCount {
		t.Errorf("total count must not depend on paging: %d vs %d", page.TotalCount, all.TotalCount)
	}
	if len(page.Results) != 1 || page.Results[0].Chunk.ID != all.Results[1].Chunk.ID {
		t.Errorf("expected second result on page 2")
	}

	beyond, err := f.svc.Search(ctx, "ley", domain.SearchOptions{Offset: 50})
	if err != nil {
		t.Fatal(err)
	}
	if len(beyond.Results) != 0 {
		t.Errorf("expected empty page past the end, got %d", len(beyond.Results))
	}
}

func TestSearchService_Search_MinScore(t *testing.T) {
	f := newSearchFixture(t, false)

	result, err := f.svc.Search(context.Background(), "equilibrio inexistente", domain.SearchOptions{MinScore: 0.9})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalCount != 0 {
		t.Errorf("expected partial matches under the threshold to be dropped, got %d", result.TotalCount)
	}
}

func TestSearchService_Search_AttachesConfidence(t *testing.T) {
	f := newSearchFixture(t, false)
	_ = f.lineages.Save(context.Background(), &domain.DocumentLineage{
		DocumentID:   "lft",
		Origin:       domain.DocumentOrigin{SourceType: domain.SourceTypeOfficial},
		Accuracy:     1,
		Completeness: 1,
	})

	result, err := f.svc.Search(context.Background(), "equilibrio", domain.SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Results) == 0 {
		t.Fatal("expected a result")
	}
	if result.Results[0].Confidence <= 0.8 {
		t.Errorf("expected official bonus on confidence, got %f", result.Results[0].Confidence)
	}
}

func TestSearchService_RelatedSections(t *testing.T) {
	f := newSearchFixture(t, false)
	ctx := context.Background()

	stored, _ := f.chunks.GetByDocument(ctx, "lft")
	if len(stored) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(stored))
	}

	related, err := f.svc.RelatedSections(ctx, stored[0].ID, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(related) != 1 {
		t.Fatalf("expected 1 related section, got %d", len(related))
	}
	if related[0].Chunk.ID != stored[1].ID {
		t.Errorf("expected %s, got %s", stored[1].ID, related[0].Chunk.ID)
	}
	if related[0].Similarity <= 0 || related[0].Similarity >= 1 {
		t.Errorf("similarity out of range: %f", related[0].Similarity)
	}

	if _, err := f.svc.RelatedSections(ctx, "missing", 5); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
