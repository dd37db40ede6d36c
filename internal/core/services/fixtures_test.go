package services

import (
	"testing"
	"time"

	"github.com/custodia-labs/lexcore/internal/chunking"
	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
	"github.com/custodia-labs/lexcore/internal/runtime"
)

var testNow = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

// noOverlap chunks one unit per chunk without folding in neighbour context
var noOverlap = chunking.Options{MaxChunkSize: 1000, PreserveStructure: true}

func laborLaw() *domain.LegalDocument {
	return &domain.LegalDocument{
		ID:              "lft",
		Title:           "Ley Federal del Trabajo",
		Type:            domain.DocumentTypeLaw,
		Hierarchy:       3,
		PrimaryArea:     "laboral",
		Status:          domain.DocumentStatusActive,
		PublicationDate: domain.NewDate(1970, time.April, 1),
		EffectiveDate:   domain.NewDate(1970, time.May, 1),
		LastReform:      domain.NewDate(2024, time.December, 24),
		SourceURL:       "https://www.diputados.gob.mx/LeyesBiblio/pdf/LFT.pdf",
		Content: []domain.LegalContent{
			{
				ID:      "lft-article-1",
				Type:    domain.ContentTypeArticle,
				Number:  "1",
				Content: "Artículo 1. La presente Ley es de observancia general en toda la República.",
			},
			{
				ID:      "lft-article-2",
				Type:    domain.ContentTypeArticle,
				Number:  "2",
				Content: "Artículo 2. Las normas del trabajo tienden a conseguir el equilibrio entre los factores de la producción y la justicia social.",
			},
		},
	}
}

func newTestBuilder(t *testing.T) *chunking.Builder {
	t.Helper()
	b, err := chunking.NewBuilder(chunking.Config{})
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	return b
}

// newTestRuntime returns a runtime registry, with embedder installed when
// it is not nil.
func newTestRuntime(embedder driven.EmbeddingService) *runtime.Services {
	svc := runtime.NewServices(domain.NewRuntimeConfig("memory", "none"))
	if embedder != nil {
		svc.SetEmbeddingService(embedder)
	}
	return svc
}
