package versioning

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

func snapshot(content ...domain.LegalContent) *domain.LegalDocument {
	return &domain.LegalDocument{ID: "lft", Hierarchy: 3, Content: content}
}

func article(id, text string) domain.LegalContent {
	return domain.LegalContent{ID: id, Type: domain.ContentTypeArticle, Number: strings.TrimPrefix(id, "art-"), Content: text}
}

func TestDiffVersions_AddRemoveIsSymmetric(t *testing.T) {
	oldDoc := snapshot(article("art-1", "Uno."), article("art-x", "Derogado."))
	newDoc := snapshot(article("art-1", "Uno."), article("art-y", "Nuevo."))

	forward := DiffVersions(oldDoc, newDoc)
	assert.Equal(t, 1, forward.Summary.ArticlesRemoved)
	assert.Equal(t, 1, forward.Summary.ArticlesAdded)
	assert.Zero(t, forward.Summary.ArticlesModified)
	assert.Equal(t, 2, forward.Summary.TotalChanges)
	require.Len(t, forward.Changes, 2)
	assert.Equal(t, domain.ChangeRemoved, forward.Changes[0].Kind)
	assert.Equal(t, "art-x", forward.Changes[0].ContentID)
	assert.Equal(t, "Derogado.", forward.Changes[0].OldContent)
	assert.Equal(t, domain.ChangeAdded, forward.Changes[1].Kind)
	assert.Equal(t, "art-y", forward.Changes[1].ContentID)

	backward := DiffVersions(newDoc, oldDoc)
	assert.Equal(t, 1, backward.Summary.ArticlesRemoved)
	assert.Equal(t, 1, backward.Summary.ArticlesAdded)
	assert.Equal(t, "art-y", backward.Changes[0].ContentID)
	assert.Equal(t, domain.ChangeRemoved, backward.Changes[0].Kind)
	assert.Equal(t, "art-x", backward.Changes[1].ContentID)
}

func TestDiffVersions_Modified(t *testing.T) {
	oldDoc := snapshot(article("art-5", "El plazo será de diez días."))
	newDoc := snapshot(article("art-5", "El plazo será de quince días."))

	diff := DiffVersions(oldDoc, newDoc)
	require.Len(t, diff.Changes, 1)
	c := diff.Changes[0]
	assert.Equal(t, domain.ChangeModified, c.Kind)
	assert.Equal(t, "5", c.Number)
	assert.Equal(t, 1, diff.Summary.ArticlesModified)
	assert.Equal(t, 1, diff.Summary.TotalChanges)

	assert.Equal(t, []domain.TextSegment{
		{Type: domain.SegmentUnchanged, Value: "El plazo será de "},
		{Type: domain.SegmentRemoved, Value: "diez"},
		{Type: domain.SegmentAdded, Value: "quince"},
		{Type: domain.SegmentUnchanged, Value: " días."},
	}, c.Segments)
}

func TestDiffVersions_Ordering(t *testing.T) {
	oldDoc := snapshot(article("art-1", "a"), article("art-2", "b"), article("art-3", "c"))
	newDoc := snapshot(article("art-0", "z"), article("art-3", "c2"), article("art-4", "d"), article("art-1", "a"))

	diff := DiffVersions(oldDoc, newDoc)
	var got []string
	for _, c := range diff.Changes {
		got = append(got, string(c.Kind)+":"+c.ContentID)
	}
	assert.Equal(t, []string{"removed:art-2", "modified:art-3", "added:art-0", "added:art-4"}, got)
	assert.Equal(t, domain.DiffSummary{ArticlesAdded: 2, ArticlesRemoved: 1, ArticlesModified: 1, TotalChanges: 4}, diff.Summary)
}

func TestDiffVersions_IdenticalAndNil(t *testing.T) {
	doc := snapshot(article("art-1", "a"))
	same := DiffVersions(doc, doc)
	assert.NotNil(t, same.Changes)
	assert.Empty(t, same.Changes)
	assert.Zero(t, same.Summary.TotalChanges)

	fromNothing := DiffVersions(nil, doc)
	assert.Equal(t, 1, fromNothing.Summary.ArticlesAdded)
}

func TestDiffVersions_CountsEveryUnitType(t *testing.T) {
	oldDoc := snapshot()
	newDoc := snapshot(domain.LegalContent{ID: "cap-1", Type: domain.ContentTypeChapter, Content: "Capítulo I"})
	assert.Equal(t, 1, DiffVersions(oldDoc, newDoc).Summary.ArticlesAdded)
}
