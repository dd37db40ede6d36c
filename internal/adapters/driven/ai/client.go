package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

const defaultTimeout = 60 * time.Second

// apiError is returned for non-2xx responses. It unwraps to
// domain.ErrEmbeddingUnavailable so callers can fall back to lexical search.
type apiError struct {
	provider string
	status   int
	message  string
}

func (e *apiError) Error() string {
	if e.message != "" {
		return fmt.Sprintf("%s API error (status %d): %s", e.provider, e.status, e.message)
	}
	return fmt.Sprintf("%s API returned status %d", e.provider, e.status)
}

func (e *apiError) Unwrap() error { return domain.ErrEmbeddingUnavailable }

// postJSON sends reqBody as JSON and decodes a 2xx response into respBody.
// errMessage extracts a provider-specific message from an error body.
func postJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string,
	reqBody, respBody any, errMessage func([]byte) string) error {

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s request failed: %v", domain.ErrEmbeddingUnavailable, provider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &apiError{provider: provider, status: resp.StatusCode}
		if errMessage != nil {
			apiErr.message = errMessage(raw)
		}
		return apiErr
	}

	if err := json.Unmarshal(raw, respBody); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", provider, err)
	}
	return nil
}
