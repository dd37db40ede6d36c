// Package structure segments legal prose into typed structural units
// (title, chapter, section, article, paragraph, fraction) by recognising
// numbering markers at the start of lines.
package structure

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/locale"
)

// Unit is one structural segment of parsed text
type Unit struct {
	Type   domain.ContentType `json:"type"`
	Number string             `json:"number,omitempty"`
	Text   string             `json:"text"`
}

type marker struct {
	unitType domain.ContentType
	re       *regexp.Regexp
}

// Parser recognises structural markers from a locale table.
// A Parser is immutable and safe for concurrent use.
type Parser struct {
	markers []marker
}

// NewParser compiles the marker table of loc. Patterns are anchored at the
// start of the line and matched case-insensitively.
func NewParser(loc *locale.Locale) (*Parser, error) {
	if loc == nil {
		loc = locale.MexicanSpanish()
	}
	p := &Parser{}
	for _, rule := range loc.Markers {
		for _, pattern := range rule.Patterns {
			re, err := regexp.Compile(`(?i)^\s*(?:` + pattern + `)`)
			if err != nil {
				return nil, fmt.Errorf("%w: %s marker %q: %v", domain.ErrInvalidInput, rule.Type, pattern, err)
			}
			p.markers = append(p.markers, marker{unitType: rule.Type, re: re})
		}
	}
	return p, nil
}

// MustNewParser is NewParser for tables known to be valid.
func MustNewParser(loc *locale.Locale) *Parser {
	p, err := NewParser(loc)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports the unit type and number opened by line, if any.
func (p *Parser) Match(line string) (domain.ContentType, string, bool) {
	for _, m := range p.markers {
		sub := m.re.FindStringSubmatch(line)
		if sub == nil {
			continue
		}
		number := ""
		if len(sub) > 1 {
			number = strings.TrimSpace(sub[1])
		}
		return m.unitType, number, true
	}
	return "", "", false
}

// Parse splits text into units. Each recognised marker line opens a new
// unit that collects every following line up to the next marker. Text before
// the first marker becomes an implicit paragraph unit. Parsing is best-effort:
// unmatched or malformed numbering simply stays in the current unit.
func (p *Parser) Parse(text string) []Unit {
	var (
		units []Unit
		open  *Unit
		lines []string
	)

	closeOpen := func() {
		if open == nil {
			return
		}
		open.Text = strings.TrimSpace(strings.Join(lines, "\n"))
		units = append(units, *open)
		open, lines = nil, nil
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, line := range strings.Split(text, "\n") {
		if unitType, number, ok := p.Match(line); ok {
			closeOpen()
			open = &Unit{Type: unitType, Number: number}
			lines = []string{line}
			continue
		}
		if open == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			open = &Unit{Type: domain.ContentTypeParagraph}
		}
		lines = append(lines, line)
	}
	closeOpen()

	return units
}
