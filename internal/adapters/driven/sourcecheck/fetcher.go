// Package sourcecheck downloads published editions from their source URLs
// and reports when a source no longer matches the recorded custody hash.
package sourcecheck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SourceFetcher = (*HTTPFetcher)(nil)

const (
	defaultUserAgent   = "lexcore-sourcecheck/1.0"
	defaultMaxBodySize = 64 << 20
	maxRetryWait       = 2 * time.Minute
)

// Config configures an HTTPFetcher.
type Config struct {
	// RequestsPerSecond throttles outbound requests. Zero disables throttling.
	RequestsPerSecond float64

	// MaxRetries is the number of retries after a 5xx or 429 response.
	MaxRetries int

	// MaxBodySize caps a downloaded edition. Defaults to 64 MiB.
	MaxBodySize int64

	Timeout   time.Duration
	UserAgent string
	Clock     domain.Clock
	Logger    *slog.Logger
}

// HTTPFetcher downloads documents over HTTP(S).
type HTTPFetcher struct {
	client      *http.Client
	limiter     *rate.Limiter
	maxRetries  int
	maxBodySize int64
	userAgent   string
	clock       domain.Clock
	logger      *slog.Logger
}

// NewHTTPFetcher creates a new HTTPFetcher
func NewHTTPFetcher(cfg Config) *HTTPFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = defaultMaxBodySize
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Clock == nil {
		cfg.Clock = domain.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &HTTPFetcher{
		client:      &http.Client{Timeout: cfg.Timeout},
		limiter:     limiter,
		maxRetries:  cfg.MaxRetries,
		maxBodySize: cfg.MaxBodySize,
		userAgent:   cfg.UserAgent,
		clock:       cfg.Clock,
		logger:      cfg.Logger,
	}
}

// Fetch downloads url. Server errors and 429s are retried with linear
// backoff, honouring Retry-After when the server sends one.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*domain.FetchedSource, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: source url is empty", domain.ErrInvalidInput)
	}

	var resp *http.Response
	for attempt := 0; ; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		req.Header.Set("User-Agent", f.userAgent)

		resp, err = f.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}

		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		if !retryable || attempt >= f.maxRetries {
			break
		}

		wait := retryAfter(resp.Header.Get("Retry-After"), time.Duration(attempt+1)*time.Second)
		resp.Body.Close()
		f.logger.Warn("source fetch retry", "url", url, "status", resp.StatusCode, "attempt", attempt+1, "wait", wait)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, fmt.Errorf("fetch %s: %w", url, domain.ErrNotFound)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if int64(len(data)) > f.maxBodySize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrInvalidInput, url, f.maxBodySize)
	}

	return &domain.FetchedSource{
		URL:         url,
		Data:        data,
		MimeType:    mediaType(resp.Header.Get("Content-Type"), data),
		ETag:        resp.Header.Get("ETag"),
		RetrievedAt: f.clock.Now(),
	}, nil
}

// retryAfter parses a delay-seconds Retry-After header, falling back to def.
func retryAfter(header string, def time.Duration) time.Duration {
	if header == "" {
		return def
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return def
	}
	wait := time.Duration(secs) * time.Second
	if wait > maxRetryWait {
		return maxRetryWait
	}
	return wait
}

// mediaType strips parameters from Content-Type, sniffing the body when the
// header is missing.
func mediaType(contentType string, data []byte) string {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "application/octet-stream"
	}
	return mt
}
