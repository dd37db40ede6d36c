// Package extract derives legal-domain keywords and normalised citations
// from chunk text.
package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/lexcore/internal/locale"
	"github.com/custodia-labs/lexcore/internal/textutil"
)

// DefaultMaxPhrases caps the capitalised-phrase fallback
const DefaultMaxPhrases = 10

const (
	// A law name is a capitalised word followed by further capitalised words,
	// optionally joined by lowercase connectors ("Ley Federal del Trabajo").
	lawConnector = `(?:de|del|la|las|los|el|y|e|en|para|sobre|al|a)`
	lawWord      = `\p{Lu}[\p{L}\d]*`
	lawName      = lawWord + `(?:\s+(?:` + lawConnector + `\s+)*` + lawWord + `)*`
)

var (
	capitalisedPhrase = regexp.MustCompile(`[A-ZÁÉÍÓÚÑ][a-záéíóúñ]+(?: [A-ZÁÉÍÓÚÑ][a-záéíóúñ]+)*`)

	articleCitation = regexp.MustCompile(
		`(?i:art[ií]culos?|art\.)\s*(\d+[oº°]?(?:\.\d+)*(?:\s+(?i:bis|ter|qu[aá]ter)\b)?)\.?,?\s+` +
			`((?i:del|de\s+la|de\s+las|de\s+los|de\s+el|de))\s+(` + lawName + `)`)

	// Thesis ids may span several space-separated tokens ("P./J. 20/2014 (10a.)");
	// tokens after the first must carry a digit or a slash.
	jurisprudenceCitation = regexp.MustCompile(
		`(?i:tesis|jurisprudencia)\s+(?:(?i:aislada|de\s+jurisprudencia)\s+)?(?:(?i:n[úu]m\.|no\.|n[úu]mero)\s*)?` +
			`([\p{L}\d][\p{L}\d./\-]*(?:\s+[\p{L}\d./\-()]*[\d/][\p{L}\d./\-()]*)*)`)

	lawCitation = regexp.MustCompile(`\b(?:Ley|C[óo]digo)(?:\s+(?:` + lawConnector + `\s+)*` + lawWord + `)+`)
)

// Extractor applies a locale's term and stop-word lists.
// It is immutable and safe for concurrent use.
type Extractor struct {
	terms      []string
	stopWords  map[string]struct{}
	maxPhrases int
}

// NewExtractor builds an extractor from loc; nil selects the Mexican table.
func NewExtractor(loc *locale.Locale) *Extractor {
	if loc == nil {
		loc = locale.MexicanSpanish()
	}
	e := &Extractor{
		stopWords:  make(map[string]struct{}, len(loc.StopWords)),
		maxPhrases: DefaultMaxPhrases,
	}
	for _, term := range loc.LegalTerms {
		if folded := strings.TrimSpace(textutil.Padded(term)); folded != "" {
			e.terms = append(e.terms, folded)
		}
	}
	for _, w := range loc.StopWords {
		e.stopWords[textutil.Fold(w)] = struct{}{}
	}
	return e
}

// Keywords returns the legal terms present in text. When none are present it
// falls back to the most frequent capitalised phrases, ignoring stop words.
// The result is a sorted set.
func (e *Extractor) Keywords(text string) []string {
	padded := textutil.Padded(text)

	found := make(map[string]struct{})
	for _, term := range e.terms {
		if strings.Contains(padded, " "+term+" ") {
			found[term] = struct{}{}
		}
	}
	if len(found) == 0 {
		for _, phrase := range e.topPhrases(text) {
			found[phrase] = struct{}{}
		}
	}

	keywords := make([]string, 0, len(found))
	for k := range found {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)
	return keywords
}

func (e *Extractor) topPhrases(text string) []string {
	counts := make(map[string]int)
	first := make(map[string]int)

	for i, match := range capitalisedPhrase.FindAllString(text, -1) {
		phrase := e.stripStopWords(match)
		if phrase == "" {
			continue
		}
		if _, seen := first[phrase]; !seen {
			first[phrase] = i
		}
		counts[phrase]++
	}

	phrases := make([]string, 0, len(counts))
	for p := range counts {
		phrases = append(phrases, p)
	}
	sort.Slice(phrases, func(i, j int) bool {
		if counts[phrases[i]] != counts[phrases[j]] {
			return counts[phrases[i]] > counts[phrases[j]]
		}
		return first[phrases[i]] < first[phrases[j]]
	})
	if len(phrases) > e.maxPhrases {
		phrases = phrases[:e.maxPhrases]
	}
	return phrases
}

// stripStopWords drops leading and trailing stop words from a phrase.
func (e *Extractor) stripStopWords(phrase string) string {
	words := strings.Fields(phrase)
	for len(words) > 0 && e.isStopWord(words[0]) {
		words = words[1:]
	}
	for len(words) > 0 && e.isStopWord(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

func (e *Extractor) isStopWord(w string) bool {
	_, ok := e.stopWords[textutil.Fold(w)]
	return ok
}

type citation struct {
	pos  int
	text string
}

// Citations returns article, jurisprudence and law references in order of
// first appearance, without duplicates.
func (e *Extractor) Citations(text string) []string {
	var found []citation

	for _, m := range articleCitation.FindAllStringSubmatchIndex(text, -1) {
		if midWord(text, m[0]) {
			continue
		}
		number := strings.Join(strings.Fields(text[m[2]:m[3]]), " ")
		connector := strings.ToLower(strings.Join(strings.Fields(text[m[4]:m[5]]), " "))
		law := text[m[6]:m[7]]
		found = append(found, citation{pos: m[0], text: "Artículo " + number + " " + connector + " " + law})
	}

	for _, m := range jurisprudenceCitation.FindAllStringSubmatchIndex(text, -1) {
		if midWord(text, m[0]) {
			continue
		}
		id := strings.TrimRight(text[m[2]:m[3]], ".,;:")
		if !containsDigit(id) {
			continue
		}
		found = append(found, citation{pos: m[0], text: "Tesis " + id})
	}

	for _, m := range lawCitation.FindAllStringIndex(text, -1) {
		found = append(found, citation{pos: m[0], text: strings.Join(strings.Fields(text[m[0]:m[1]]), " ")})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	seen := make(map[string]struct{}, len(found))
	out := make([]string, 0, len(found))
	for _, c := range found {
		if _, dup := seen[c.text]; dup {
			continue
		}
		seen[c.text] = struct{}{}
		out = append(out, c.text)
	}
	return out
}

// midWord reports whether pos falls inside a word, e.g. "tesis" in "hipótesis".
func midWord(text string, pos int) bool {
	if pos == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return unicode.IsLetter(r)
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
