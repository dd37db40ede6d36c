package domain

import (
	"fmt"
	"strings"
)

// DocumentType classifies a legal instrument
type DocumentType string

const (
	DocumentTypeConstitution  DocumentType = "constitution"
	DocumentTypeLaw           DocumentType = "law"
	DocumentTypeCode          DocumentType = "code"
	DocumentTypeRegulation    DocumentType = "regulation"
	DocumentTypeNorm          DocumentType = "norm"
	DocumentTypeJurisprudence DocumentType = "jurisprudence"
	DocumentTypeTreaty        DocumentType = "treaty"
	DocumentTypeFormat        DocumentType = "format"
)

// DocumentStatus is the legal force of a document
type DocumentStatus string

const (
	DocumentStatusActive    DocumentStatus = "active"
	DocumentStatusRepealed  DocumentStatus = "repealed"
	DocumentStatusSuspended DocumentStatus = "suspended"
)

// ContentType is the kind of structural unit
type ContentType string

const (
	ContentTypeTitle     ContentType = "title"
	ContentTypeChapter   ContentType = "chapter"
	ContentTypeSection   ContentType = "section"
	ContentTypeArticle   ContentType = "article"
	ContentTypeParagraph ContentType = "paragraph"
	ContentTypeFraction  ContentType = "fraction"
)

// Rank orders content types from the broadest (0) to the narrowest.
// Unknown types rank below fraction.
func (t ContentType) Rank() int {
	switch t {
	case ContentTypeTitle:
		return 0
	case ContentTypeChapter:
		return 1
	case ContentTypeSection:
		return 2
	case ContentTypeArticle:
		return 3
	case ContentTypeParagraph:
		return 4
	case ContentTypeFraction:
		return 5
	default:
		return 6
	}
}

const (
	// MinHierarchy is the highest legal precedence (constitution)
	MinHierarchy = 1
	// MaxHierarchy is the lowest legal precedence (administrative formats)
	MaxHierarchy = 7
)

// LegalDocument is a complete legal instrument with its structural content.
// JSON field names follow the corpus file format.
type LegalDocument struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Type            DocumentType   `json:"type"`
	Hierarchy       int            `json:"hierarchy"`
	PrimaryArea     string         `json:"primaryArea"`
	Status          DocumentStatus `json:"status"`
	PublicationDate Date           `json:"publicationDate"`
	EffectiveDate   Date           `json:"effectiveDate"`
	LastReform      Date           `json:"lastReform,omitempty"`
	SourceURL       string         `json:"url,omitempty"`
	Content         []LegalContent `json:"content"`
}

// LegalContent is one structural unit of a document
type LegalContent struct {
	ID       string      `json:"id"`
	Type     ContentType `json:"type"`
	Number   string      `json:"number,omitempty"`
	Title    string      `json:"title,omitempty"`
	Content  string      `json:"content"`
	Parent   string      `json:"parent,omitempty"`
	Children []string    `json:"children,omitempty"`
}

// Validate checks the document-level invariants. Structural problems are
// reported as ErrInvalidInput so callers can surface them as validation failures.
func (d *LegalDocument) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidInput)
	}
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: document id is required", ErrInvalidInput)
	}
	if d.Hierarchy < MinHierarchy || d.Hierarchy > MaxHierarchy {
		return fmt.Errorf("%w: hierarchy %d outside [%d,%d]", ErrInvalidInput, d.Hierarchy, MinHierarchy, MaxHierarchy)
	}
	return ValidateContentTree(d.Content)
}

// FullText joins the text of every content node in document order.
func (d *LegalDocument) FullText() string {
	parts := make([]string, 0, len(d.Content))
	for _, c := range d.Content {
		if text := strings.TrimSpace(c.Content); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// ContentByID indexes the document's content nodes by id.
func (d *LegalDocument) ContentByID() map[string]LegalContent {
	m := make(map[string]LegalContent, len(d.Content))
	for _, c := range d.Content {
		m[c.ID] = c
	}
	return m
}

// ValidateContentTree verifies that content ids are unique and that every
// parent reference resolves within the same document. A parent cycle is an
// ingestion bug, not bad data, and panics.
func ValidateContentTree(content []LegalContent) error {
	parents := make(map[string]string, len(content))
	for _, c := range content {
		if c.ID == "" {
			return fmt.Errorf("%w: content node without id", ErrInvalidInput)
		}
		if _, dup := parents[c.ID]; dup {
			return fmt.Errorf("%w: duplicate content id %q", ErrInvalidInput, c.ID)
		}
		parents[c.ID] = c.Parent
	}

	for id, parent := range parents {
		if parent == "" {
			continue
		}
		if _, ok := parents[parent]; !ok {
			return fmt.Errorf("%w: content %q references unknown parent %q", ErrInvalidInput, id, parent)
		}
	}

	// Walk each ancestry chain; a chain longer than the node count must loop.
	for id := range parents {
		steps := 0
		for cur := parents[id]; cur != ""; cur = parents[cur] {
			steps++
			if cur == id || steps > len(parents) {
				panic(fmt.Sprintf("domain: cyclic parent reference at content %q", id))
			}
		}
	}
	return nil
}
