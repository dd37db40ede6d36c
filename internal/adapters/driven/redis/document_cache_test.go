package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*DocumentCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewDocumentCache(client, ttl, nil), mr
}

func cachedConstitution() *domain.LegalDocument {
	return &domain.LegalDocument{
		ID:              "cpeum",
		Title:           "Constitución Política de los Estados Unidos Mexicanos",
		Type:            domain.DocumentTypeConstitution,
		Hierarchy:       1,
		PrimaryArea:     "constitucional",
		Status:          domain.DocumentStatusActive,
		PublicationDate: domain.NewDate(1917, time.February, 5),
		Content: []domain.LegalContent{
			{ID: "cpeum-article-1", Type: domain.ContentTypeArticle, Number: "1", Content: "En los Estados Unidos Mexicanos todas las personas gozarán de los derechos humanos."},
		},
	}
}

func TestDocumentCache_SetGet(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "cpeum"); ok {
		t.Fatal("expected a miss on an empty cache")
	}

	if err := cache.Set(ctx, cachedConstitution()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, ok := cache.Get(ctx, "cpeum")
	if !ok {
		t.Fatal("expected a hit")
	}
	if doc.Hierarchy != 1 || len(doc.Content) != 1 {
		t.Errorf("unexpected document %+v", doc)
	}
	if !doc.PublicationDate.Equal(domain.NewDate(1917, time.February, 5)) {
		t.Errorf("publication date lost: %s", doc.PublicationDate)
	}
}

func TestDocumentCache_Expires(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	if err := cache.Set(ctx, cachedConstitution()); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Minute)

	if _, ok := cache.Get(ctx, "cpeum"); ok {
		t.Error("expected entry to expire")
	}
}

func TestDocumentCache_Invalidate(t *testing.T) {
	cache, _ := newTestCache(t, 0)
	ctx := context.Background()

	if cache.ttl != time.Hour {
		t.Errorf("expected default ttl of one hour, got %s", cache.ttl)
	}

	if err := cache.Set(ctx, cachedConstitution()); err != nil {
		t.Fatal(err)
	}
	if err := cache.Invalidate(ctx, "cpeum"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cache.Get(ctx, "cpeum"); ok {
		t.Error("expected a miss after invalidation")
	}
	if err := cache.Invalidate(ctx, "missing"); err != nil {
		t.Errorf("invalidating a missing entry should not fail: %v", err)
	}
}

func TestDocumentCache_CorruptEntryIsAMiss(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)

	if err := mr.Set(documentPrefix+"cpeum", "{not json"); err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.Get(context.Background(), "cpeum"); ok {
		t.Error("corrupt entry should be a miss")
	}
	if mr.Exists(documentPrefix + "cpeum") {
		t.Error("corrupt entry should be dropped")
	}
}

func TestDocumentCache_BackendDownIsAMiss(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	mr.Close()

	if _, ok := cache.Get(context.Background(), "cpeum"); ok {
		t.Error("expected a miss when redis is unreachable")
	}
	if err := cache.Set(context.Background(), cachedConstitution()); err == nil {
		t.Error("expected set to fail when redis is unreachable")
	}
}
