// Package versioning models the chain of editions a legal document goes
// through as it is reformed: chain traversal, structural and text diffs,
// the publication timeline and the change-check schedule.
package versioning

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// Edition describes a newly received edition of a document
type Edition struct {
	EffectiveDate    domain.Date
	PublicationDate  domain.Date
	ReformType       domain.ReformType
	ReformedArticles []string
	Description      string
	SHA256Hash       string
}

// Ancestors returns the predecessors of versionID, oldest first, by
// following PreviousVersionID until it is empty or unknown. A loop in the
// chain is a corrupted lineage and panics.
func Ancestors(versions []domain.LegalVersion, versionID string) []domain.LegalVersion {
	byID := index(versions)
	v, ok := byID[versionID]
	if !ok {
		return nil
	}

	var chain []domain.LegalVersion
	seen := map[string]bool{versionID: true}
	for prev := v.PreviousVersionID; prev != ""; {
		p, ok := byID[prev]
		if !ok {
			break
		}
		if seen[prev] {
			panic(fmt.Sprintf("versioning: cyclic version chain at %q", prev))
		}
		seen[prev] = true
		chain = append(chain, p)
		prev = p.PreviousVersionID
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Descendants returns every version reachable forward from versionID,
// nearest first, found by scanning for versions whose PreviousVersionID
// points back. A loop panics.
func Descendants(versions []domain.LegalVersion, versionID string) []domain.LegalVersion {
	children := make(map[string][]domain.LegalVersion, len(versions))
	for _, v := range versions {
		if v.PreviousVersionID != "" {
			children[v.PreviousVersionID] = append(children[v.PreviousVersionID], v)
		}
	}

	var out []domain.LegalVersion
	seen := map[string]bool{versionID: true}
	queue := []string{versionID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range children[id] {
			if seen[child.VersionID] {
				panic(fmt.Sprintf("versioning: cyclic version chain at %q", child.VersionID))
			}
			seen[child.VersionID] = true
			out = append(out, child)
			queue = append(queue, child.VersionID)
		}
	}
	return out
}

// NewLineage starts the lineage of a document with its first edition.
func NewLineage(documentID string, origin domain.DocumentOrigin, first Edition) *domain.DocumentLineage {
	v := newVersion(1, first)
	v.IsCurrentVersion = true
	return &domain.DocumentLineage{
		DocumentID:     documentID,
		Origin:         origin,
		Versions:       []domain.LegalVersion{v},
		CurrentVersion: v.VersionID,
	}
}

// AppendVersion returns a copy of l with e appended as the new current
// version linked after the previous current one. l is not modified.
func AppendVersion(l *domain.DocumentLineage, e Edition) *domain.DocumentLineage {
	next := *l
	next.Versions = make([]domain.LegalVersion, len(l.Versions), len(l.Versions)+1)
	copy(next.Versions, l.Versions)

	number := 1
	for _, v := range next.Versions {
		if v.VersionNumber >= number {
			number = v.VersionNumber + 1
		}
	}
	v := newVersion(number, e)
	v.IsCurrentVersion = true

	if prev := next.Current(); prev != nil {
		v.PreviousVersionID = prev.VersionID
		prev.NextVersionID = v.VersionID
		prev.IsCurrentVersion = false
	}

	next.Versions = append(next.Versions, v)
	next.CurrentVersion = v.VersionID
	return &next
}

func newVersion(number int, e Edition) domain.LegalVersion {
	return domain.LegalVersion{
		VersionID:        uuid.NewString(),
		VersionNumber:    number,
		EffectiveDate:    e.EffectiveDate,
		PublicationDate:  e.PublicationDate,
		ReformType:       e.ReformType,
		ReformedArticles: append([]string(nil), e.ReformedArticles...),
		Description:      e.Description,
		SHA256Hash:       e.SHA256Hash,
	}
}

func index(versions []domain.LegalVersion) map[string]domain.LegalVersion {
	m := make(map[string]domain.LegalVersion, len(versions))
	for _, v := range versions {
		m[v.VersionID] = v
	}
	return m
}
