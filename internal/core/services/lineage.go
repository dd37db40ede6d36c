package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/custodia-labs/lexcore/internal/chunking"
	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
	"github.com/custodia-labs/lexcore/internal/core/ports/driving"
	"github.com/custodia-labs/lexcore/internal/lineage"
	"github.com/custodia-labs/lexcore/internal/structure"
	"github.com/custodia-labs/lexcore/internal/versioning"
)

// Ensure lineageService implements LineageService
var _ driving.LineageService = (*lineageService)(nil)

const snapshotMIME = "application/json"

// LineageConfig holds the dependencies of the lineage service.
type LineageConfig struct {
	Documents driven.LegalDocumentStore
	Lineages  driven.LineageStore
	Blobs     driven.BlobStore
	Ingestion driving.IngestionService
	Tracker   *lineage.Tracker

	// Parser and Normalisers rebuild the content tree of editions that
	// arrive as raw text only
	Parser      *structure.Parser
	Normalisers driven.NormaliserRegistry

	// Optional
	Sealer         *lineage.Sealer
	Fetcher        driven.SourceFetcher
	Checks         driven.ChangeDetectionStore
	CheckFrequency domain.CheckFrequency

	Clock  domain.Clock
	Logger *slog.Logger
}

type lineageService struct {
	documents   driven.LegalDocumentStore
	lineages    driven.LineageStore
	blobs       driven.BlobStore
	ingestion   driving.IngestionService
	tracker     *lineage.Tracker
	parser      *structure.Parser
	normalisers driven.NormaliserRegistry
	sealer      *lineage.Sealer
	fetcher     driven.SourceFetcher
	checks      driven.ChangeDetectionStore
	frequency   domain.CheckFrequency
	clock       domain.Clock
	logger      *slog.Logger
}

// NewLineageService creates a new LineageService
func NewLineageService(cfg LineageConfig) driving.LineageService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = domain.SystemClock{}
	}
	freq := cfg.CheckFrequency
	if !freq.Valid() {
		freq = domain.CheckWeekly
	}

	return &lineageService{
		documents:   cfg.Documents,
		lineages:    cfg.Lineages,
		blobs:       cfg.Blobs,
		ingestion:   cfg.Ingestion,
		tracker:     cfg.Tracker,
		parser:      cfg.Parser,
		normalisers: cfg.Normalisers,
		sealer:      cfg.Sealer,
		fetcher:     cfg.Fetcher,
		checks:      cfg.Checks,
		frequency:   freq,
		clock:       clock,
		logger:      logger,
	}
}

// RecordEdition archives an edition and makes it the current version.
func (s *lineageService) RecordEdition(ctx context.Context, req *domain.EditionRequest) (*domain.EditionRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()

	previous, err := s.documents.Get(ctx, req.DocumentID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	history, err := s.lineages.Get(ctx, req.DocumentID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	custody := s.tracker.ComputeCustody(req.Raw, req.MimeType)
	if history != nil {
		if cur := history.Current(); cur != nil && strings.EqualFold(cur.SHA256Hash, custody.SHA256Hash) {
			return nil, fmt.Errorf("%w: edition of %s already recorded as version %d", domain.ErrAlreadyExists, req.DocumentID, cur.VersionNumber)
		}
	}

	doc := s.editionDocument(req, previous)
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	var diff *domain.VersionDiff
	if previous != nil {
		d := versioning.DiffVersions(previous, doc)
		diff = &d
	}

	edition := versioning.Edition{
		EffectiveDate:    firstDate(req.EffectiveDate, doc.EffectiveDate, req.PublicationDate),
		PublicationDate:  firstDate(req.PublicationDate, doc.PublicationDate),
		ReformType:       req.ReformType,
		ReformedArticles: req.ReformedArticles,
		Description:      req.Description,
		SHA256Hash:       custody.SHA256Hash,
	}
	if len(edition.ReformedArticles) == 0 && diff != nil {
		edition.ReformedArticles = reformedArticles(diff.Changes)
	}

	var next *domain.DocumentLineage
	if history == nil {
		origin := req.Origin
		if origin.CaptureDate.IsZero() {
			origin.CaptureDate = now
		}
		if origin.SourceURL == "" {
			origin.SourceURL = doc.SourceURL
		}
		next = versioning.NewLineage(doc.ID, origin, edition)
	} else {
		next = versioning.AppendVersion(history, edition)
	}
	version := next.Current()

	custody.BlobKey = editionKey(doc.ID, version.VersionID)
	if err := s.blobs.Put(ctx, custody.BlobKey, req.Raw, req.MimeType); err != nil {
		return nil, fmt.Errorf("archive edition: %w", err)
	}
	if err := s.putSnapshot(ctx, doc, version.VersionID); err != nil {
		return nil, err
	}
	if s.sealer != nil {
		seal, err := s.sealer.Seal(doc.ID, custody)
		if err != nil {
			return nil, fmt.Errorf("seal custody: %w", err)
		}
		custody.Seal = seal
	}

	quality := s.tracker.ScoreQuality(doc)
	next.Custody = custody
	next.Completeness = quality.Completeness
	next.Accuracy = quality.Accuracy
	next.UpdatedAt = now

	if err := s.lineages.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("save lineage: %w", err)
	}

	ingestion, err := s.ingestion.Ingest(ctx, doc, chunking.Options{})
	if err != nil {
		return nil, fmt.Errorf("ingest edition: %w", err)
	}

	s.schedule(ctx, doc.ID, now)

	record := &domain.EditionRecord{
		DocumentID: doc.ID,
		Version:    *version,
		Custody:    custody,
		Source:     s.validateOrigin(next.Origin.SourceURL),
		Quality:    quality,
		Confidence: s.tracker.ComputeConfidence(next),
		Diff:       diff,
		Ingestion:  ingestion,
	}

	s.logger.Info("edition recorded",
		"document_id", doc.ID,
		"version", version.VersionNumber,
		"sha256", custody.SHA256Hash,
		"chunks", ingestion.ChunkCount,
	)
	return record, nil
}

// RefreshFromSource records a new edition when the published bytes differ
// from the current custody hash.
func (s *lineageService) RefreshFromSource(ctx context.Context, documentID string) (*domain.EditionRecord, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("%w: no source fetcher configured", domain.ErrServiceUnavailable)
	}

	history, err := s.lineages.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	url := history.Origin.SourceURL
	if url == "" {
		return nil, fmt.Errorf("%w: %s has no source URL", domain.ErrInvalidInput, documentID)
	}

	fetched, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	sum := sha256.Sum256(fetched.Data)
	if strings.EqualFold(hex.EncodeToString(sum[:]), history.Custody.SHA256Hash) {
		s.logger.Debug("source unchanged", "document_id", documentID)
		return nil, nil
	}

	now := s.clock.Now().UTC()
	origin := history.Origin
	origin.CaptureDate = now

	return s.RecordEdition(ctx, &domain.EditionRequest{
		DocumentID:      documentID,
		Raw:             fetched.Data,
		MimeType:        fetched.MimeType,
		Origin:          origin,
		PublicationDate: domain.NewDate(now.Year(), now.Month(), now.Day()),
		ReformType:      domain.ReformTypeReforma,
		Description:     "retrieved from " + url,
	})
}

// VerifyIntegrity re-hashes the archived edition and checks its seal.
func (s *lineageService) VerifyIntegrity(ctx context.Context, documentID string) (*domain.IntegrityResult, error) {
	history, err := s.lineages.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if history.Custody.BlobKey == "" {
		return nil, fmt.Errorf("%w: %s has no archived edition", domain.ErrNotFound, documentID)
	}

	data, err := s.blobs.Get(ctx, history.Custody.BlobKey)
	if err != nil {
		return nil, fmt.Errorf("read archived edition: %w", err)
	}

	custody, result := s.tracker.Reverify(data, history.Custody)
	if s.sealer != nil && custody.Seal != "" {
		if _, err := s.sealer.Verify(custody.Seal, documentID, history.Custody); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, err.Error())
			custody.IntegrityVerified = false
		}
	}

	history.Custody = custody
	if err := s.lineages.Save(ctx, history); err != nil {
		return nil, err
	}
	if !result.Valid {
		s.logger.Warn("integrity check failed", "document_id", documentID, "errors", result.Errors)
	}
	return &result, nil
}

func (s *lineageService) Get(ctx context.Context, documentID string) (*domain.DocumentLineage, error) {
	return s.lineages.Get(ctx, documentID)
}

func (s *lineageService) Timeline(ctx context.Context, documentID string) ([]domain.TimelineEvent, error) {
	history, err := s.lineages.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return versioning.BuildTimeline(history.Versions), nil
}

func (s *lineageService) Confidence(ctx context.Context, documentID string) (*domain.ConfidenceReport, error) {
	history, err := s.lineages.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	report := s.tracker.ComputeConfidence(history)
	return &report, nil
}

// Compare diffs the archived snapshots of two versions.
func (s *lineageService) Compare(ctx context.Context, documentID, fromVersionID, toVersionID string) (*domain.VersionDiff, error) {
	history, err := s.lineages.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	for _, id := range []string{fromVersionID, toVersionID} {
		if history.Version(id) == nil {
			return nil, fmt.Errorf("%w: version %s of %s", domain.ErrNotFound, id, documentID)
		}
	}

	from, err := s.getSnapshot(ctx, documentID, fromVersionID)
	if err != nil {
		return nil, err
	}
	to, err := s.getSnapshot(ctx, documentID, toVersionID)
	if err != nil {
		return nil, err
	}
	diff := versioning.DiffVersions(from, to)
	return &diff, nil
}

func (s *lineageService) ValidateSource(rawURL string) domain.SourceValidation {
	return s.tracker.ValidateSource(rawURL)
}

// editionDocument returns the structured content of the edition, rebuilding
// it from the raw bytes when none was supplied. Metadata missing from the
// request is carried over from the previous edition.
func (s *lineageService) editionDocument(req *domain.EditionRequest, previous *domain.LegalDocument) *domain.LegalDocument {
	var doc domain.LegalDocument
	switch {
	case req.Document != nil:
		doc = *req.Document
	case previous != nil:
		doc = *previous
		doc.Content = nil
		// a raw edition takes effect on its own dates, never the previous one's
		doc.EffectiveDate = firstDate(req.EffectiveDate, req.PublicationDate)
	}
	doc.ID = req.DocumentID

	if previous != nil {
		if doc.Title == "" {
			doc.Title = previous.Title
		}
		if doc.Type == "" {
			doc.Type = previous.Type
		}
		if doc.Hierarchy == 0 {
			doc.Hierarchy = previous.Hierarchy
		}
		if doc.PrimaryArea == "" {
			doc.PrimaryArea = previous.PrimaryArea
		}
		if doc.PublicationDate.IsZero() {
			doc.PublicationDate = previous.PublicationDate
		}
		if !req.PublicationDate.IsZero() {
			doc.LastReform = req.PublicationDate
		}
	}
	if doc.Status == "" {
		doc.Status = domain.DocumentStatusActive
	}
	if doc.SourceURL == "" {
		doc.SourceURL = req.Origin.SourceURL
	}
	if doc.PublicationDate.IsZero() {
		doc.PublicationDate = req.PublicationDate
	}
	if doc.EffectiveDate.IsZero() || !req.EffectiveDate.IsZero() {
		doc.EffectiveDate = firstDate(req.EffectiveDate, doc.EffectiveDate)
	}

	if len(doc.Content) == 0 && s.parser != nil {
		text := string(req.Raw)
		if s.normalisers != nil {
			if n := s.normalisers.Get(req.MimeType); n != nil {
				text = n.Normalise(text, req.MimeType)
			}
		}
		doc.Content = structure.BuildTree(doc.ID, s.parser.Parse(text))
	}
	return &doc
}

func (s *lineageService) validateOrigin(rawURL string) domain.SourceValidation {
	if rawURL == "" {
		return domain.SourceValidation{
			Warnings: []string{"no source URL recorded"},
			Errors:   make([]string, 0),
		}
	}
	return s.tracker.ValidateSource(rawURL)
}

// schedule starts change detection for new documents and clears the
// changed flag of monitored ones.
func (s *lineageService) schedule(ctx context.Context, documentID string, now time.Time) {
	if s.checks == nil {
		return
	}
	record, err := s.checks.Get(ctx, documentID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		fresh := versioning.NewChangeDetection(documentID, s.frequency, now)
		record = &fresh
	case err != nil:
		s.logger.Warn("failed to load change detection", "document_id", documentID, "error", err)
		return
	default:
		record.ChangesDetected = false
	}
	if err := s.checks.Save(ctx, record); err != nil {
		s.logger.Warn("failed to save change detection", "document_id", documentID, "error", err)
	}
}

func (s *lineageService) putSnapshot(ctx context.Context, doc *domain.LegalDocument, versionID string) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.blobs.Put(ctx, snapshotKey(doc.ID, versionID), data, snapshotMIME); err != nil {
		return fmt.Errorf("archive snapshot: %w", err)
	}
	return nil
}

func (s *lineageService) getSnapshot(ctx context.Context, documentID, versionID string) (*domain.LegalDocument, error) {
	data, err := s.blobs.Get(ctx, snapshotKey(documentID, versionID))
	if err != nil {
		return nil, fmt.Errorf("read snapshot of %s: %w", versionID, err)
	}
	var doc domain.LegalDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot of %s: %w", versionID, err)
	}
	return &doc, nil
}

func editionKey(documentID, versionID string) string {
	return "editions/" + documentID + "/" + versionID
}

func snapshotKey(documentID, versionID string) string {
	return "snapshots/" + documentID + "/" + versionID + ".json"
}

// reformedArticles lists the article numbers touched by a diff.
func reformedArticles(changes []domain.ContentChange) []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range changes {
		if c.UnitType != domain.ContentTypeArticle || c.Number == "" || seen[c.Number] {
			continue
		}
		seen[c.Number] = true
		out = append(out, c.Number)
	}
	return out
}

func firstDate(dates ...domain.Date) domain.Date {
	for _, d := range dates {
		if !d.IsZero() {
			return d
		}
	}
	return domain.Date{}
}
