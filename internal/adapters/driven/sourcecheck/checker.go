package sourcecheck

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ChangeChecker = (*Checker)(nil)

// Checker compares the current bytes at a document's source URL with the
// SHA-256 in its custody record.
type Checker struct {
	lineages driven.LineageStore
	fetcher  driven.SourceFetcher
	logger   *slog.Logger
}

// NewChecker creates a new Checker
func NewChecker(lineages driven.LineageStore, fetcher driven.SourceFetcher, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{lineages: lineages, fetcher: fetcher, logger: logger}
}

// HasChanged reports true when the source hash differs from custody. A
// document without a source URL or custody hash never reports a change.
func (c *Checker) HasChanged(ctx context.Context, documentID string) (bool, error) {
	lineage, err := c.lineages.Get(ctx, documentID)
	if err != nil {
		return false, fmt.Errorf("load lineage %s: %w", documentID, err)
	}

	url := lineage.Origin.SourceURL
	if url == "" || lineage.Custody.SHA256Hash == "" {
		c.logger.Debug("document has nothing to compare", "document_id", documentID)
		return false, nil
	}

	fetched, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return false, err
	}

	sum := sha256.Sum256(fetched.Data)
	current := hex.EncodeToString(sum[:])
	changed := !strings.EqualFold(current, lineage.Custody.SHA256Hash)
	if changed {
		c.logger.Info("source changed", "document_id", documentID, "url", url,
			"recorded", lineage.Custody.SHA256Hash, "current", current)
	}
	return changed, nil
}
