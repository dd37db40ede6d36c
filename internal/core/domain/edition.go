package domain

import (
	"fmt"
	"strings"
)

// EditionRequest records a newly published edition of a document. Either
// Document carries the structured content, or the content tree is rebuilt
// from Raw after normalisation.
type EditionRequest struct {
	DocumentID       string         `json:"documentId"`
	Document         *LegalDocument `json:"document,omitempty"`
	Raw              []byte         `json:"raw" swaggertype:"string" format:"base64"`
	MimeType         string         `json:"mimeType"`
	Origin           DocumentOrigin `json:"origin"`
	PublicationDate  Date           `json:"publicationDate"`
	EffectiveDate    Date           `json:"effectiveDate"`
	ReformType       ReformType     `json:"reformType,omitempty"`
	ReformedArticles []string       `json:"reformedArticles,omitempty"`
	Description      string         `json:"description,omitempty"`
}

// Validate checks the fields every edition needs.
func (r *EditionRequest) Validate() error {
	if r == nil || strings.TrimSpace(r.DocumentID) == "" {
		return fmt.Errorf("%w: edition document id is required", ErrInvalidInput)
	}
	if len(r.Raw) == 0 {
		return fmt.Errorf("%w: edition raw bytes are required", ErrInvalidInput)
	}
	if r.Document != nil && r.Document.ID != "" && r.Document.ID != r.DocumentID {
		return fmt.Errorf("%w: edition document id %q does not match content id %q", ErrInvalidInput, r.DocumentID, r.Document.ID)
	}
	return nil
}

// EditionRecord is the outcome of recording an edition
type EditionRecord struct {
	DocumentID string           `json:"documentId"`
	Version    LegalVersion     `json:"version"`
	Custody    DigitalCustody   `json:"custody"`
	Source     SourceValidation `json:"source"`
	Quality    QualityReport    `json:"quality"`
	Confidence ConfidenceReport `json:"confidence"`
	// Diff against the previous edition; nil for the first one
	Diff      *VersionDiff     `json:"diff,omitempty"`
	Ingestion *IngestionResult `json:"ingestion,omitempty"`
}
