// Package lineage computes the trust metadata attached to a document:
// digital custody of its raw bytes, source trustworthiness, quality and the
// retrieval confidence that decays as the current version ages.
//
// Every check returns a structured result; nothing here returns an error
// for bad input data.
package lineage

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/locale"
)

const (
	// OfficialBonus is added to the base confidence for official sources
	OfficialBonus = 0.2
	// MinConfidence keeps old but valid law retrievable
	MinConfidence = 0.1
	// MaxConfidence caps the effective confidence
	MaxConfidence = 1.0
	// InsecurePenalty multiplies the trust of non-HTTPS sources
	InsecurePenalty = 0.8
)

// TrackerConfig configures a Tracker.
type TrackerConfig struct {
	// Locale supplies the official domain allowlist and domain trust table.
	// Nil selects the Mexican table.
	Locale *locale.Locale

	// Clock stamps integrity checks and dates the confidence decay.
	// Nil selects the system clock.
	Clock domain.Clock

	// ComputeMD5 adds an MD5 digest to custody records
	ComputeMD5 bool
}

// Tracker implements the lineage computations.
// It is immutable and safe for concurrent use.
type Tracker struct {
	officialDomains []string
	domainTrust     []locale.DomainTrust
	defaultTrust    float64
	clock           domain.Clock
	computeMD5      bool
}

// NewTracker creates a Tracker.
func NewTracker(cfg TrackerConfig) *Tracker {
	loc := cfg.Locale
	if loc == nil {
		loc = locale.MexicanSpanish()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = domain.SystemClock{}
	}

	t := &Tracker{
		domainTrust:  loc.DomainTrust,
		defaultTrust: loc.DefaultTrust,
		clock:        clock,
		computeMD5:   cfg.ComputeMD5,
	}
	for _, d := range loc.OfficialDomains {
		t.officialDomains = append(t.officialDomains, strings.ToLower(strings.Trim(d, ". ")))
	}
	return t
}

// ComputeCustody digests data. A new record is always marked verified.
func (t *Tracker) ComputeCustody(data []byte, mimeType string) domain.DigitalCustody {
	sum := sha256.Sum256(data)
	custody := domain.DigitalCustody{
		SHA256Hash:         hex.EncodeToString(sum[:]),
		FileSize:           int64(len(data)),
		MimeType:           mimeType,
		IntegrityVerified:  true,
		LastIntegrityCheck: t.clock.Now().UTC(),
	}
	if t.computeMD5 {
		md := md5.Sum(data)
		custody.MD5Hash = hex.EncodeToString(md[:])
	}
	return custody
}

// ValidateIntegrity re-digests data and compares size, SHA-256 and, when
// recorded, MD5 against custody. Each mismatch adds one error.
func (t *Tracker) ValidateIntegrity(data []byte, custody domain.DigitalCustody) domain.IntegrityResult {
	errs := make([]string, 0)

	if size := int64(len(data)); size != custody.FileSize {
		errs = append(errs, fmt.Sprintf("file size mismatch: expected %d bytes, got %d", custody.FileSize, size))
	}

	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); !strings.EqualFold(got, custody.SHA256Hash) {
		errs = append(errs, fmt.Sprintf("SHA-256 mismatch: expected %s, got %s", custody.SHA256Hash, got))
	}

	if custody.MD5Hash != "" {
		md := md5.Sum(data)
		if got := hex.EncodeToString(md[:]); !strings.EqualFold(got, custody.MD5Hash) {
			errs = append(errs, fmt.Sprintf("MD5 mismatch: expected %s, got %s", custody.MD5Hash, got))
		}
	}

	return domain.IntegrityResult{Valid: len(errs) == 0, Errors: errs}
}

// Reverify validates data and returns custody stamped with the outcome.
func (t *Tracker) Reverify(data []byte, custody domain.DigitalCustody) (domain.DigitalCustody, domain.IntegrityResult) {
	result := t.ValidateIntegrity(data, custody)
	custody.IntegrityVerified = result.Valid
	custody.LastIntegrityCheck = t.clock.Now().UTC()
	return custody, result
}

// ValidateSource scores how far a source URL can be trusted. Hosts on the
// official allowlist score 1, configured domain suffixes score their table
// value, anything else the default. Non-HTTPS sources are multiplied by
// InsecurePenalty. An unparseable URL scores 0 with an error.
func (t *Tracker) ValidateSource(rawURL string) domain.SourceValidation {
	result := domain.SourceValidation{Warnings: make([]string, 0), Errors: make([]string, 0)}

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		result.Errors = append(result.Errors, fmt.Sprintf("invalid source URL %q", rawURL))
		return result
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case t.isOfficial(host):
		result.IsOfficial = true
		result.TrustScore = 1.0
	default:
		result.TrustScore = t.defaultTrust
		for _, dt := range t.domainTrust {
			if matchesDomain(host, strings.ToLower(dt.Suffix)) {
				result.TrustScore = dt.Trust
				break
			}
		}
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s is not an official publication domain", host))
	}

	if !strings.EqualFold(u.Scheme, "https") {
		result.TrustScore *= InsecurePenalty
		result.Warnings = append(result.Warnings, "source is not served over HTTPS")
	}
	return result
}

func (t *Tracker) isOfficial(host string) bool {
	for _, d := range t.officialDomains {
		if matchesDomain(host, d) {
			return true
		}
	}
	return false
}

// matchesDomain reports whether host is d or a subdomain of d.
func matchesDomain(host, d string) bool {
	d = strings.Trim(d, ". ")
	if d == "" {
		return false
	}
	return host == d || strings.HasSuffix(host, "."+d)
}

// ScoreQuality starts completeness and accuracy at 1 and deducts for
// missing or suspicious data, noting every deduction.
func (t *Tracker) ScoreQuality(doc *domain.LegalDocument) domain.QualityReport {
	report := domain.QualityReport{Completeness: 1, Accuracy: 1, Notes: make([]string, 0)}
	if doc == nil {
		report.Completeness, report.Accuracy = 0, 0
		report.Notes = append(report.Notes, "document is missing")
		return report
	}

	if len(doc.Content) == 0 {
		report.Completeness -= 0.5
		report.Notes = append(report.Notes, "document has no content")
	} else {
		empty := 0
		for _, c := range doc.Content {
			if strings.TrimSpace(c.Content) == "" {
				empty++
			}
		}
		if empty > 0 {
			report.Completeness -= 0.2 * float64(empty) / float64(len(doc.Content))
			report.Notes = append(report.Notes, fmt.Sprintf("%d of %d structural units are empty", empty, len(doc.Content)))
		}
	}

	if strings.TrimSpace(doc.SourceURL) == "" {
		report.Completeness -= 0.1
		report.Notes = append(report.Notes, "source URL is missing")
	}
	if doc.LastReform.IsZero() {
		report.Completeness -= 0.1
		report.Notes = append(report.Notes, "last reform date is missing")
	}

	if doc.Status != domain.DocumentStatusActive {
		report.Accuracy -= 0.3
		report.Notes = append(report.Notes, fmt.Sprintf("document status is %q", doc.Status))
	}
	today := domain.DateOf(t.clock.Now().UTC()).String()
	if !doc.PublicationDate.IsZero() && doc.PublicationDate.String() > today {
		report.Accuracy -= 0.5
		report.Notes = append(report.Notes, fmt.Sprintf("publication date %s is in the future", doc.PublicationDate))
	}

	report.Completeness = math.Max(0, report.Completeness)
	report.Accuracy = math.Max(0, report.Accuracy)
	return report
}

// ComputeConfidence derives the retrieval confidence of a lineage:
// accuracy*0.5 + completeness*0.3, plus OfficialBonus for official sources,
// minus a staircase penalty on whole months since the current version took
// effect, clamped to [MinConfidence, MaxConfidence].
func (t *Tracker) ComputeConfidence(l *domain.DocumentLineage) domain.ConfidenceReport {
	if l == nil {
		return domain.ConfidenceReport{EffectiveConfidence: MinConfidence}
	}

	report := domain.ConfidenceReport{
		BaseConfidence: l.Accuracy*0.5 + l.Completeness*0.3,
	}
	if l.Origin.SourceType == domain.SourceTypeOfficial {
		report.OfficialBonus = OfficialBonus
	}

	if current := l.Current(); current != nil && !current.EffectiveDate.IsZero() {
		report.MonthsSinceEffect = domain.MonthsBetween(current.EffectiveDate.Time, t.clock.Now())
		report.TemporalPenalty = TemporalPenalty(report.MonthsSinceEffect)
	}

	effective := report.BaseConfidence + report.OfficialBonus - report.TemporalPenalty
	report.EffectiveConfidence = math.Min(MaxConfidence, math.Max(MinConfidence, effective))
	return report
}

// TemporalPenalty is the confidence decay for a version in force for the
// given number of whole months.
func TemporalPenalty(months int) float64 {
	switch {
	case months > 60:
		return 0.3
	case months > 24:
		return 0.15
	case months > 12:
		return 0.05
	default:
		return 0
	}
}
