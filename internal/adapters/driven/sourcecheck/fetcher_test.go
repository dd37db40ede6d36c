package sourcecheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	retrieved := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("ETag", `"v2"`)
		_, _ = w.Write([]byte("<p>Artículo 1.</p>"))
	}))
	defer server.Close()

	f := NewHTTPFetcher(Config{Clock: domain.FixedClock{T: retrieved}})
	got, err := f.Fetch(context.Background(), server.URL+"/cpeum.htm")
	require.NoError(t, err)

	assert.Equal(t, "text/html", got.MimeType)
	assert.Equal(t, `"v2"`, got.ETag)
	assert.Equal(t, "<p>Artículo 1.</p>", string(got.Data))
	assert.Equal(t, retrieved, got.RetrievedAt)
}

func TestHTTPFetcher_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := NewHTTPFetcher(Config{MaxRetries: 2})
	got, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(got.Data))
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPFetcher_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	f := NewHTTPFetcher(Config{MaxRetries: 1})
	_, err := f.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPFetcher_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := NewHTTPFetcher(Config{}).Fetch(context.Background(), server.URL)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHTTPFetcher_BodyTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 100))
	}))
	defer server.Close()

	_, err := NewHTTPFetcher(Config{MaxBodySize: 10}).Fetch(context.Background(), server.URL)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHTTPFetcher_EmptyURL(t *testing.T) {
	_, err := NewHTTPFetcher(Config{}).Fetch(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRetryAfter(t *testing.T) {
	assert.Equal(t, 3*time.Second, retryAfter("", 3*time.Second))
	assert.Equal(t, 5*time.Second, retryAfter("5", time.Second))
	assert.Equal(t, time.Second, retryAfter("Wed, 21 Oct 2015 07:28:00 GMT", time.Second))
	assert.Equal(t, maxRetryWait, retryAfter("86400", time.Second))
}

func TestMediaType(t *testing.T) {
	assert.Equal(t, "application/pdf", mediaType("application/pdf", nil))
	assert.Equal(t, "text/plain", mediaType("", []byte("Artículo 1. Texto plano")))
	assert.Equal(t, "application/octet-stream", mediaType(";;", nil))
}
