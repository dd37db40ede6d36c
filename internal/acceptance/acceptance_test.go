// Package acceptance runs the feature files under features/ against the
// processing packages.
package acceptance

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/extract"
	"github.com/custodia-labs/lexcore/internal/lineage"
	"github.com/custodia-labs/lexcore/internal/locale"
	"github.com/custodia-labs/lexcore/internal/structure"
	"github.com/custodia-labs/lexcore/internal/versioning"
)

var now = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "lexcore",
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			Strict:   true,
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

// world holds the state of one scenario
type world struct {
	tracker   *lineage.Tracker
	parser    *structure.Parser
	extractor *extract.Extractor

	lineage    *domain.DocumentLineage
	confidence domain.ConfidenceReport
	source     domain.SourceValidation

	text      string
	units     []structure.Unit
	citations []string

	oldDoc, newDoc *domain.LegalDocument
	diff           domain.VersionDiff

	oldText, newText string
	segments         []domain.TextSegment
}

func InitializeScenario(sc *godog.ScenarioContext) {
	w := &world{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		loc := locale.MexicanSpanish()
		parser, err := structure.NewParser(loc)
		if err != nil {
			return ctx, err
		}
		*w = world{
			tracker:   lineage.NewTracker(lineage.TrackerConfig{Locale: loc, Clock: domain.FixedClock{T: now}}),
			parser:    parser,
			extractor: extract.NewExtractor(loc),
		}
		return ctx, nil
	})

	// confidence
	sc.Step(`^a lineage with accuracy ([\d.]+) and completeness ([\d.]+) from an (official|unofficial) source$`, w.aLineage)
	sc.Step(`^the current version took effect (\d+) months ago$`, w.tookEffectMonthsAgo)
	sc.Step(`^I compute the confidence$`, w.computeConfidence)
	sc.Step(`^the base confidence is ([\d.]+)$`, w.reportValue(func(r domain.ConfidenceReport) float64 { return r.BaseConfidence }))
	sc.Step(`^the official bonus is ([\d.]+)$`, w.reportValue(func(r domain.ConfidenceReport) float64 { return r.OfficialBonus }))
	sc.Step(`^the temporal penalty is ([\d.]+)$`, w.reportValue(func(r domain.ConfidenceReport) float64 { return r.TemporalPenalty }))
	sc.Step(`^the effective confidence is ([\d.]+)$`, w.reportValue(func(r domain.ConfidenceReport) float64 { return r.EffectiveConfidence }))

	// sources
	sc.Step(`^I validate the source "([^"]*)"$`, w.validateSource)
	sc.Step(`^the source is (not )?official$`, w.sourceIsOfficial)
	sc.Step(`^the trust score is ([\d.]+)$`, w.trustScoreIs)
	sc.Step(`^there are no source warnings$`, w.noSourceWarnings)
	sc.Step(`^the source validation has errors$`, w.sourceHasErrors)

	// parsing
	sc.Step(`^the text "([^"]*)"$`, w.theText)
	sc.Step(`^I parse the structural units$`, w.parseUnits)
	sc.Step(`^there (?:is|are) (\d+) units?$`, w.unitCount)
	sc.Step(`^unit (\d+) is an? "([^"]*)" numbered "([^"]*)"$`, w.unitIs)
	sc.Step(`^unit (\d+) contains "([^"]*)"$`, w.unitContains)
	sc.Step(`^I extract the citations$`, w.extractCitations)
	sc.Step(`^the citations include "([^"]*)"$`, w.citationsInclude)

	// versions
	sc.Step(`^an old edition with articles:$`, w.edition(&w.oldDoc))
	sc.Step(`^a new edition with articles:$`, w.edition(&w.newDoc))
	sc.Step(`^I compare the old edition with the new edition$`, func() { w.diff = versioning.DiffVersions(w.oldDoc, w.newDoc) })
	sc.Step(`^I compare the new edition with the old edition$`, func() { w.diff = versioning.DiffVersions(w.newDoc, w.oldDoc) })
	sc.Step(`^(\d+) articles? (?:was|were) removed and (\d+) articles? (?:was|were) added$`, w.articlesRemovedAdded)
	sc.Step(`^the removed article is "([^"]*)"$`, w.removedArticleIs)
	sc.Step(`^I diff "([^"]*)" against "([^"]*)" by (line|word)$`, w.diffText)
	sc.Step(`^concatenating the unchanged and (removed|added) segments gives the (old|new) text$`, w.segmentsRebuild)
}

func (w *world) aLineage(accuracy, completeness float64, kind string) {
	source := domain.SourceTypeScraping
	if kind == "official" {
		source = domain.SourceTypeOfficial
	}
	w.lineage = &domain.DocumentLineage{
		DocumentID:   "doc",
		Origin:       domain.DocumentOrigin{SourceType: source},
		Accuracy:     accuracy,
		Completeness: completeness,
	}
}

func (w *world) tookEffectMonthsAgo(months int) {
	w.lineage.CurrentVersion = "v1"
	w.lineage.Versions = []domain.LegalVersion{{
		VersionID:        "v1",
		VersionNumber:    1,
		EffectiveDate:    domain.DateOf(now.AddDate(0, -months, 0)),
		IsCurrentVersion: true,
	}}
}

func (w *world) computeConfidence() {
	w.confidence = w.tracker.ComputeConfidence(w.lineage)
}

func (w *world) reportValue(field func(domain.ConfidenceReport) float64) func(float64) error {
	return func(want float64) error {
		return approx(field(w.confidence), want)
	}
}

func (w *world) validateSource(rawURL string) {
	w.source = w.tracker.ValidateSource(rawURL)
}

func (w *world) sourceIsOfficial(not string) error {
	if want := not == ""; w.source.IsOfficial != want {
		return fmt.Errorf("expected isOfficial=%t, got %+v", want, w.source)
	}
	return nil
}

func (w *world) trustScoreIs(want float64) error {
	return approx(w.source.TrustScore, want)
}

func (w *world) noSourceWarnings() error {
	if len(w.source.Warnings) > 0 {
		return fmt.Errorf("unexpected warnings %v", w.source.Warnings)
	}
	return nil
}

func (w *world) sourceHasErrors() error {
	if w.source.IsValid() {
		return fmt.Errorf("expected validation errors, got %+v", w.source)
	}
	return nil
}

func (w *world) theText(text string) {
	w.text = text
}

func (w *world) parseUnits() {
	w.units = w.parser.Parse(w.text)
}

func (w *world) unitCount(n int) error {
	if len(w.units) != n {
		return fmt.Errorf("expected %d units, got %d: %+v", n, len(w.units), w.units)
	}
	return nil
}

func (w *world) unit(i int) (structure.Unit, error) {
	if i < 1 || i > len(w.units) {
		return structure.Unit{}, fmt.Errorf("no unit %d among %d", i, len(w.units))
	}
	return w.units[i-1], nil
}

func (w *world) unitIs(i int, unitType, number string) error {
	u, err := w.unit(i)
	if err != nil {
		return err
	}
	if string(u.Type) != unitType || u.Number != number {
		return fmt.Errorf("expected %s %s, got %s %s", unitType, number, u.Type, u.Number)
	}
	return nil
}

func (w *world) unitContains(i int, fragment string) error {
	u, err := w.unit(i)
	if err != nil {
		return err
	}
	if !strings.Contains(u.Text, fragment) {
		return fmt.Errorf("unit text %q does not contain %q", u.Text, fragment)
	}
	return nil
}

func (w *world) extractCitations() {
	w.citations = w.extractor.Citations(w.text)
}

func (w *world) citationsInclude(want string) error {
	for _, c := range w.citations {
		if c == want {
			return nil
		}
	}
	return fmt.Errorf("citation %q not in %q", want, w.citations)
}

func (w *world) edition(target **domain.LegalDocument) func(*godog.Table) error {
	return func(table *godog.Table) error {
		doc := &domain.LegalDocument{ID: "lft", Hierarchy: 3}
		for i, row := range table.Rows {
			if i == 0 {
				continue
			}
			if len(row.Cells) != 2 {
				return fmt.Errorf("row %d: expected id and content", i)
			}
			id := strings.TrimSpace(row.Cells[0].Value)
			doc.Content = append(doc.Content, domain.LegalContent{
				ID:      id,
				Type:    domain.ContentTypeArticle,
				Number:  strings.TrimPrefix(id, "art-"),
				Content: strings.TrimSpace(row.Cells[1].Value),
			})
		}
		*target = doc
		return nil
	}
}

func (w *world) articlesRemovedAdded(removed, added int) error {
	s := w.diff.Summary
	if s.ArticlesRemoved != removed || s.ArticlesAdded != added {
		return fmt.Errorf("expected %d removed and %d added, got %+v", removed, added, s)
	}
	return nil
}

func (w *world) removedArticleIs(id string) error {
	for _, c := range w.diff.Changes {
		if c.Kind == domain.ChangeRemoved {
			if c.ContentID != id {
				return fmt.Errorf("expected %s removed, got %s", id, c.ContentID)
			}
			return nil
		}
	}
	return fmt.Errorf("no removed article")
}

func (w *world) diffText(oldText, newText, granularity string) {
	w.oldText, w.newText = oldText, newText
	w.segments = versioning.DiffText(oldText, newText, versioning.ParseGranularity(granularity))
}

func (w *world) segmentsRebuild(kind, side string) error {
	keep := domain.SegmentRemoved
	want := w.oldText
	if kind == "added" {
		keep = domain.SegmentAdded
	}
	if side == "new" {
		want = w.newText
	}

	var b strings.Builder
	for _, s := range w.segments {
		if s.Type == domain.SegmentUnchanged || s.Type == keep {
			b.WriteString(s.Value)
		}
	}
	if b.String() != want {
		return fmt.Errorf("rebuilt %q, want %q", b.String(), want)
	}
	return nil
}

func approx(got, want float64) error {
	if math.Abs(got-want) > 1e-9 {
		return fmt.Errorf("expected %v, got %v", want, got)
	}
	return nil
}
