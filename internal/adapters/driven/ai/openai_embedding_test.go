package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

func TestNewOpenAIEmbedding_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIEmbedding("", "text-embedding-3-small", "")
	if err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestNewOpenAIEmbedding_Defaults(t *testing.T) {
	svc, err := NewOpenAIEmbedding("sk-test", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	emb := svc.(*OpenAIEmbedding)
	if emb.model != "text-embedding-3-small" {
		t.Errorf("expected default model text-embedding-3-small, got %s", emb.model)
	}
	if emb.baseURL != "https://api.openai.com/v1" {
		t.Errorf("expected default base URL, got %s", emb.baseURL)
	}
}

func TestNewOpenAIEmbedding_TrimsBaseURL(t *testing.T) {
	svc, err := NewOpenAIEmbedding("sk-test", "text-embedding-3-small", "https://custom.api.com/v1/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := svc.(*OpenAIEmbedding).baseURL; got != "https://custom.api.com/v1" {
		t.Errorf("expected trimmed base URL, got %s", got)
	}
}

func TestOpenAIEmbedding_Dimensions(t *testing.T) {
	testCases := []struct {
		model      string
		dimensions int
	}{
		{"text-embedding-3-small", 1536},
		{"text-embedding-3-large", 3072},
		{"text-embedding-ada-002", 1536},
		{"unknown-model", 1536},
	}

	for _, tc := range testCases {
		t.Run(tc.model, func(t *testing.T) {
			svc, err := NewOpenAIEmbedding("sk-test", tc.model, "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if svc.Dimensions() != tc.dimensions {
				t.Errorf("expected %d dimensions, got %d", tc.dimensions, svc.Dimensions())
			}
		})
	}
}

func newOpenAIServer(t *testing.T, handler http.HandlerFunc) *OpenAIEmbedding {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewOpenAIEmbedding("sk-test", "text-embedding-3-small", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc.(*OpenAIEmbedding)
}

func TestOpenAIEmbedding_Embed_Success(t *testing.T) {
	svc := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}

		var req openAIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Input) != 2 || req.Model != "text-embedding-3-small" {
			t.Errorf("unexpected request %+v", req)
		}

		// out of order on purpose
		_ = json.NewEncoder(w).Encode(openAIResponse{
			Data: []openAIEmbeddingData{
				{Index: 1, Embedding: []float32{0.4, 0.5}},
				{Index: 0, Embedding: []float32{0.1, 0.2}},
			},
		})
	})

	embeddings, err := svc.Embed(context.Background(), []string{"artículo 123", "salario mínimo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(embeddings) != 2 {
		t.Fatalf("expected 2 embeddings, got %d", len(embeddings))
	}
	if embeddings[0][0] != 0.1 || embeddings[1][0] != 0.4 {
		t.Errorf("embeddings not in input order: %v", embeddings)
	}
}

func TestOpenAIEmbedding_Embed_Empty(t *testing.T) {
	svc, _ := NewOpenAIEmbedding("sk-test", "", "http://127.0.0.1:1")
	embeddings, err := svc.Embed(context.Background(), nil)
	if err != nil || embeddings != nil {
		t.Errorf("expected nil, nil for empty input; got %v, %v", embeddings, err)
	}
}

func TestOpenAIEmbedding_Embed_APIError(t *testing.T) {
	svc := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key","type":"invalid_request_error","code":"invalid_api_key"}}`))
	})

	_, err := svc.Embed(context.Background(), []string{"test"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Errorf("expected ErrEmbeddingUnavailable, got %v", err)
	}
	var apiErr *apiError
	if !errors.As(err, &apiErr) || apiErr.status != http.StatusUnauthorized {
		t.Fatalf("expected apiError with 401, got %v", err)
	}
	if apiErr.message == "" {
		t.Error("expected provider message to be extracted")
	}
}

func TestOpenAIEmbedding_Embed_InvalidJSON(t *testing.T) {
	svc := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	if _, err := svc.Embed(context.Background(), []string{"test"}); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestOpenAIEmbedding_Embed_MissingVector(t *testing.T) {
	svc := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openAIResponse{
			Data: []openAIEmbeddingData{{Index: 0, Embedding: []float32{0.1}}},
		})
	})

	if _, err := svc.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Error("expected error when a vector is missing")
	}
}

func TestOpenAIEmbedding_Embed_NetworkError(t *testing.T) {
	svc, _ := NewOpenAIEmbedding("sk-test", "", "http://127.0.0.1:1")

	_, err := svc.Embed(context.Background(), []string{"test"})
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Errorf("expected ErrEmbeddingUnavailable, got %v", err)
	}
}

func TestOpenAIEmbedding_HealthCheck(t *testing.T) {
	svc := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openAIResponse{
			Data: []openAIEmbeddingData{{Index: 0, Embedding: []float32{0.1}}},
		})
	})

	if err := svc.HealthCheck(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}
