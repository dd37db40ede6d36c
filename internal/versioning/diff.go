package versioning

import (
	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// DiffVersions compares two snapshots of a document by content id. Removed
// and modified units are listed in old-document order, followed by added
// units in new-document order. Unchanged units are omitted. Summary counts
// cover every unit type, not only articles.
func DiffVersions(oldDoc, newDoc *domain.LegalDocument) domain.VersionDiff {
	var oldContent, newContent []domain.LegalContent
	if oldDoc != nil {
		oldContent = oldDoc.Content
	}
	if newDoc != nil {
		newContent = newDoc.Content
	}

	newByID := make(map[string]domain.LegalContent, len(newContent))
	for _, c := range newContent {
		newByID[c.ID] = c
	}
	oldIDs := make(map[string]struct{}, len(oldContent))

	changes := make([]domain.ContentChange, 0)
	for _, o := range oldContent {
		oldIDs[o.ID] = struct{}{}
		n, ok := newByID[o.ID]
		switch {
		case !ok:
			changes = append(changes, domain.ContentChange{
				Kind:       domain.ChangeRemoved,
				ContentID:  o.ID,
				UnitType:   o.Type,
				Number:     o.Number,
				OldContent: o.Content,
			})
		case n.Content != o.Content:
			changes = append(changes, domain.ContentChange{
				Kind:       domain.ChangeModified,
				ContentID:  o.ID,
				UnitType:   n.Type,
				Number:     n.Number,
				OldContent: o.Content,
				NewContent: n.Content,
				Segments:   DiffText(o.Content, n.Content, GranularityWord),
			})
		}
	}

	for _, n := range newContent {
		if _, ok := oldIDs[n.ID]; ok {
			continue
		}
		changes = append(changes, domain.ContentChange{
			Kind:       domain.ChangeAdded,
			ContentID:  n.ID,
			UnitType:   n.Type,
			Number:     n.Number,
			NewContent: n.Content,
		})
	}

	return domain.VersionDiff{Changes: changes, Summary: Summarize(changes)}
}

// Summarize counts changes by kind.
func Summarize(changes []domain.ContentChange) domain.DiffSummary {
	var s domain.DiffSummary
	for _, c := range changes {
		switch c.Kind {
		case domain.ChangeAdded:
			s.ArticlesAdded++
		case domain.ChangeRemoved:
			s.ArticlesRemoved++
		case domain.ChangeModified:
			s.ArticlesModified++
		}
	}
	s.TotalChanges = len(changes)
	return s
}
