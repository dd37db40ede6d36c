package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/lexcore/internal/chunking"
	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
	"github.com/custodia-labs/lexcore/internal/core/ports/driving"
	"github.com/custodia-labs/lexcore/internal/runtime"
)

// Ensure ingestionService implements IngestionService
var _ driving.IngestionService = (*ingestionService)(nil)

const (
	defaultIngestConcurrency = 4
	defaultEmbeddingBatch    = 32
)

// IngestionConfig holds the dependencies of the ingestion service.
type IngestionConfig struct {
	Documents driven.LegalDocumentStore
	Chunks    driven.ChunkStore
	Builder   *chunking.Builder
	Services  *runtime.Services // embedding may be absent
	Logger    *slog.Logger

	// Options used by Reingest and by callers passing zero options
	Options chunking.Options

	Concurrency int // documents ingested in parallel by IngestBatch (default: 4)

	// EmbeddingRate caps embedding requests per second; zero means unlimited
	EmbeddingRate  float64
	EmbeddingBatch int // texts per embedding request (default: 32)
}

type ingestionService struct {
	documents   driven.LegalDocumentStore
	chunks      driven.ChunkStore
	builder     *chunking.Builder
	services    *runtime.Services
	logger      *slog.Logger
	options     chunking.Options
	concurrency int
	batch       int
	limiter     *rate.Limiter
}

// NewIngestionService creates a new IngestionService
func NewIngestionService(cfg IngestionConfig) driving.IngestionService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultIngestConcurrency
	}

	batch := cfg.EmbeddingBatch
	if batch <= 0 {
		batch = defaultEmbeddingBatch
	}

	opts := cfg.Options
	if opts == (chunking.Options{}) {
		opts = chunking.DefaultOptions()
	}

	var limiter *rate.Limiter
	if cfg.EmbeddingRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.EmbeddingRate), 1)
	}

	return &ingestionService{
		documents:   cfg.Documents,
		chunks:      cfg.Chunks,
		builder:     cfg.Builder,
		services:    cfg.Services,
		logger:      logger,
		options:     opts,
		concurrency: concurrency,
		batch:       batch,
		limiter:     limiter,
	}
}

// Ingest stores the document and swaps in its freshly built chunk set.
func (s *ingestionService) Ingest(ctx context.Context, doc *domain.LegalDocument, opts chunking.Options) (*domain.IngestionResult, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if opts == (chunking.Options{}) {
		opts = s.options
	}

	chunks := s.builder.Build(doc, opts)
	result := &domain.IngestionResult{
		DocumentID: doc.ID,
		ChunkCount: len(chunks),
		Strategy:   opts.Strategy(),
	}
	if len(chunks) == 0 {
		result.Warnings = append(result.Warnings, "document has no text content")
	}

	if svc := s.embedder(); svc != nil && len(chunks) > 0 {
		embedded, err := s.embed(ctx, svc, chunks)
		result.EmbeddedCount = embedded
		if err != nil {
			// chunks stay searchable lexically
			result.EmbeddingError = err.Error()
			s.logger.Warn("embedding failed, storing chunks without vectors",
				"document_id", doc.ID,
				"error", err,
			)
		}
	}

	if err := s.documents.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	if err := s.chunks.ReplaceForDocument(ctx, doc.ID, chunks); err != nil {
		return nil, fmt.Errorf("replace chunks of %s: %w", doc.ID, err)
	}

	s.logger.Info("document ingested",
		"document_id", doc.ID,
		"strategy", result.Strategy,
		"chunks", result.ChunkCount,
		"embedded", result.EmbeddedCount,
	)
	return result, nil
}

// IngestBatch ingests documents with bounded parallelism. One failing
// document does not stop the others.
func (s *ingestionService) IngestBatch(ctx context.Context, docs []*domain.LegalDocument, opts chunking.Options) ([]*domain.IngestionResult, error) {
	results := make([]*domain.IngestionResult, len(docs))
	errs := make([]error, len(docs))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			res, err := s.Ingest(ctx, doc, opts)
			if err != nil {
				id := "<nil>"
				if doc != nil {
					id = doc.ID
				}
				errs[i] = fmt.Errorf("ingest %s: %w", id, err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}

// Reingest rebuilds the chunks of a stored document with the default options.
func (s *ingestionService) Reingest(ctx context.Context, documentID string) (*domain.IngestionResult, error) {
	doc, err := s.documents.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return s.Ingest(ctx, doc, s.options)
}

// BackfillEmbeddings embeds the chunks of a document that have no vector.
func (s *ingestionService) BackfillEmbeddings(ctx context.Context, documentID string) (int, error) {
	svc := s.embedder()
	if svc == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}

	chunks, err := s.chunks.GetByDocument(ctx, documentID)
	if err != nil {
		return 0, err
	}

	var missing []*domain.LegalChunk
	for _, c := range chunks {
		if !c.HasEmbedding() {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}

	embedded, embedErr := s.embed(ctx, svc, missing)
	if embedded > 0 {
		vectors := make(map[string][]float32, embedded)
		for _, c := range missing {
			if c.HasEmbedding() {
				vectors[c.ID] = c.Embedding
			}
		}
		if err := s.chunks.SetEmbeddings(ctx, vectors); err != nil {
			return 0, err
		}
	}
	return embedded, embedErr
}

func (s *ingestionService) embedder() driven.EmbeddingService {
	if s.services == nil {
		return nil
	}
	return s.services.EmbeddingService()
}

// embed fills chunk embeddings batch by batch. Chunks of a failed batch keep
// no embedding; the count of embedded chunks is returned with the error.
func (s *ingestionService) embed(ctx context.Context, svc driven.EmbeddingService, chunks []*domain.LegalChunk) (int, error) {
	embedded := 0
	for start := 0; start < len(chunks); start += s.batch {
		end := min(start+s.batch, len(chunks))
		batch := chunks[start:end]

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return embedded, err
			}
		}

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}
		vectors, err := svc.Embed(ctx, texts)
		if err != nil {
			return embedded, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
		}
		if len(vectors) != len(batch) {
			return embedded, fmt.Errorf("%w: got %d vectors for %d texts", domain.ErrEmbeddingUnavailable, len(vectors), len(batch))
		}
		for i, c := range batch {
			if len(vectors[i]) > 0 {
				c.Embedding = vectors[i]
				embedded++
			}
		}
	}
	return embedded, nil
}
