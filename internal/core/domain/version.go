package domain

import "time"

// ReformType is the kind of amendment that produced a version
type ReformType string

const (
	ReformTypeReforma     ReformType = "reforma"
	ReformTypeAdicion     ReformType = "adicion"
	ReformTypeDerogacion  ReformType = "derogacion"
	ReformTypeFeDeErratas ReformType = "fe_de_erratas"
)

// LegalVersion is one edition of a document. Versions form a linear chain
// through PreviousVersionID/NextVersionID with no branching.
type LegalVersion struct {
	VersionID         string     `json:"versionId"`
	VersionNumber     int        `json:"versionNumber"`
	EffectiveDate     Date       `json:"effectiveDate"`
	PublicationDate   Date       `json:"publicationDate"`
	ReformType        ReformType `json:"reformType,omitempty"`
	ReformedArticles  []string   `json:"reformedArticles,omitempty"`
	Description       string     `json:"description,omitempty"`
	PreviousVersionID string     `json:"previousVersionId,omitempty"`
	NextVersionID     string     `json:"nextVersionId,omitempty"`
	IsCurrentVersion  bool       `json:"isCurrentVersion"`
	SHA256Hash        string     `json:"sha256Hash,omitempty"`
}

// ChangeKind classifies a structural change between two snapshots
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeModified ChangeKind = "modified"
)

// ContentChange is one unit-level difference between snapshots
type ContentChange struct {
	Kind       ChangeKind    `json:"type"`
	ContentID  string        `json:"contentId"`
	UnitType   ContentType   `json:"unitType,omitempty"`
	Number     string        `json:"number,omitempty"`
	OldContent string        `json:"oldContent,omitempty"`
	NewContent string        `json:"newContent,omitempty"`
	Segments   []TextSegment `json:"segments,omitempty"`
}

// DiffSummary counts changes by kind
type DiffSummary struct {
	ArticlesAdded    int `json:"articlesAdded"`
	ArticlesRemoved  int `json:"articlesRemoved"`
	ArticlesModified int `json:"articlesModified"`
	TotalChanges     int `json:"totalChanges"`
}

// VersionDiff is the structural diff of two document snapshots
type VersionDiff struct {
	Changes []ContentChange `json:"changes"`
	Summary DiffSummary     `json:"summary"`
}

// SegmentType marks a text diff segment
type SegmentType string

const (
	SegmentUnchanged SegmentType = "unchanged"
	SegmentAdded     SegmentType = "added"
	SegmentRemoved   SegmentType = "removed"
)

// TextSegment is a run of text with the same diff status
type TextSegment struct {
	Type  SegmentType `json:"type"`
	Value string      `json:"value"`
}

// TimelineEventType distinguishes publication from entry into force
type TimelineEventType string

const (
	TimelineEventPublication TimelineEventType = "publication"
	TimelineEventEffective   TimelineEventType = "effective"
)

// TimelineEvent is one dated entry in a document's history
type TimelineEvent struct {
	Date          time.Time         `json:"date"`
	Type          TimelineEventType `json:"type"`
	VersionID     string            `json:"versionId"`
	VersionNumber int               `json:"versionNumber"`
	ReformType    ReformType        `json:"reformType,omitempty"`
	Description   string            `json:"description,omitempty"`
}
