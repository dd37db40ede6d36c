package domain

import (
	"fmt"
	"time"
)

// SourceType is how a document reached the corpus
type SourceType string

const (
	SourceTypeOfficial       SourceType = "official"
	SourceTypeScraping       SourceType = "scraping"
	SourceTypeManual         SourceType = "manual"
	SourceTypeAPI            SourceType = "api"
	SourceTypeUserSubmission SourceType = "user_submission"
)

// DocumentOrigin records provenance of a document
type DocumentOrigin struct {
	SourceURL         string     `json:"sourceUrl,omitempty"`
	SourceInstitution string     `json:"sourceInstitution"`
	SourceType        SourceType `json:"sourceType"`
	PublicationDate   Date       `json:"publicationDate"`
	CaptureDate       time.Time  `json:"captureDate"`
}

// DigitalCustody is the integrity record of the raw bytes of an edition
type DigitalCustody struct {
	SHA256Hash         string    `json:"sha256Hash"`
	MD5Hash            string    `json:"md5Hash,omitempty"`
	FileSize           int64     `json:"fileSize"`
	MimeType           string    `json:"mimeType"`
	IntegrityVerified  bool      `json:"integrityVerified"`
	LastIntegrityCheck time.Time `json:"lastIntegrityCheck"`
	BlobKey            string    `json:"blobKey,omitempty"`
	Seal               string    `json:"seal,omitempty"`
}

// DocumentLineage is the provenance, version history and trust metadata
// attached to a document.
type DocumentLineage struct {
	DocumentID     string         `json:"documentId"`
	Origin         DocumentOrigin `json:"origin"`
	Versions       []LegalVersion `json:"versions"`
	CurrentVersion string         `json:"currentVersion"`
	Custody        DigitalCustody `json:"custody"`
	Completeness   float64        `json:"completeness"`
	Accuracy       float64        `json:"accuracy"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Current returns the version flagged as current, or nil.
func (l *DocumentLineage) Current() *LegalVersion {
	for i := range l.Versions {
		if l.Versions[i].IsCurrentVersion {
			return &l.Versions[i]
		}
	}
	return nil
}

// Version looks a version up by id.
func (l *DocumentLineage) Version(versionID string) *LegalVersion {
	for i := range l.Versions {
		if l.Versions[i].VersionID == versionID {
			return &l.Versions[i]
		}
	}
	return nil
}

// Validate checks that exactly one version is current and that it matches
// CurrentVersion.
func (l *DocumentLineage) Validate() error {
	if len(l.Versions) == 0 {
		return nil
	}
	current := 0
	for _, v := range l.Versions {
		if v.IsCurrentVersion {
			current++
			if l.CurrentVersion != "" && v.VersionID != l.CurrentVersion {
				return fmt.Errorf("%w: current flag on %s but lineage points at %s", ErrInvalidInput, v.VersionID, l.CurrentVersion)
			}
		}
	}
	if current != 1 {
		return fmt.Errorf("%w: lineage %s has %d current versions", ErrInvalidInput, l.DocumentID, current)
	}
	return nil
}

// IntegrityResult is the outcome of re-hashing stored bytes
type IntegrityResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// SourceValidation is the trust assessment of a source URL
type SourceValidation struct {
	IsOfficial bool     `json:"isOfficial"`
	TrustScore float64  `json:"trustScore"`
	Warnings   []string `json:"warnings"`
	Errors     []string `json:"errors"`
}

// IsValid reports whether the URL could be assessed at all.
func (s SourceValidation) IsValid() bool {
	return len(s.Errors) == 0
}

// QualityReport scores a document's completeness and accuracy
type QualityReport struct {
	Completeness float64  `json:"completeness"`
	Accuracy     float64  `json:"accuracy"`
	Notes        []string `json:"notes"`
}

// ConfidenceReport is the retrieval confidence after temporal decay
type ConfidenceReport struct {
	BaseConfidence      float64 `json:"baseConfidence"`
	OfficialBonus       float64 `json:"officialBonus"`
	TemporalPenalty     float64 `json:"temporalPenalty"`
	MonthsSinceEffect   int     `json:"monthsSinceEffective"`
	EffectiveConfidence float64 `json:"effectiveConfidence"`
}

// FetchedSource is the raw payload of a document as downloaded from its source
type FetchedSource struct {
	URL         string    `json:"url"`
	Data        []byte    `json:"-"`
	MimeType    string    `json:"mimeType"`
	ETag        string    `json:"etag,omitempty"`
	RetrievedAt time.Time `json:"retrievedAt"`
}
