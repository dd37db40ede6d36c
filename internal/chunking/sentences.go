package chunking

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SentenceSplitter breaks text at sentence terminators while keeping
// abbreviations ("Art.", "Frac.") and decimal numbering ("1.5") intact.
type SentenceSplitter struct {
	abbreviations map[string]struct{}
}

// NewSentenceSplitter builds a splitter for the given abbreviation tokens.
// Tokens are compared lowercased and must include their trailing period.
func NewSentenceSplitter(abbreviations []string) *SentenceSplitter {
	s := &SentenceSplitter{abbreviations: make(map[string]struct{}, len(abbreviations))}
	for _, a := range abbreviations {
		s.abbreviations[strings.ToLower(strings.TrimSpace(a))] = struct{}{}
	}
	return s
}

// Split returns the trimmed, non-empty sentences of text in order.
// A boundary is '.', '!' or '?' followed by whitespace or the end of the
// text, or a blank line. Requiring whitespace after the terminator keeps
// periods between digits ("1.5") inside the sentence.
func (s *SentenceSplitter) Split(text string) []string {
	var sentences []string
	start := 0

	emit := func(end int) {
		if sentence := strings.TrimSpace(text[start:end]); sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = end
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		next := i + size

		switch {
		case r == '\n' && blankLineFollows(text[next:]):
			emit(next)
		case r == '.' || r == '!' || r == '?':
			if s.isBoundary(text, i, next) {
				emit(next)
			}
		}
		i = next
	}
	emit(len(text))

	return sentences
}

func (s *SentenceSplitter) isBoundary(text string, pos, next int) bool {
	if next < len(text) {
		after, _ := utf8.DecodeRuneInString(text[next:])
		if !unicode.IsSpace(after) {
			return false
		}
	}
	if text[pos] != '.' {
		return true
	}

	token := lastToken(text[:next])
	if _, ok := s.abbreviations[token]; ok {
		return false
	}
	return !isOrdinal(token)
}

// lastToken is the lowercased run of non-space characters ending at the
// end of s, without leading punctuation such as "(" or quotes.
func lastToken(s string) string {
	start := strings.LastIndexFunc(s, unicode.IsSpace) + 1
	token := strings.TrimLeftFunc(s[start:], func(r rune) bool {
		return unicode.IsPunct(r) && r != '.'
	})
	return strings.ToLower(token)
}

// isOrdinal reports tokens such as "1o." or "2º." used to number articles.
func isOrdinal(token string) bool {
	body := strings.TrimSuffix(token, ".")
	if body == token || body == "" {
		return false
	}
	last, size := utf8.DecodeLastRuneInString(body)
	if last != 'o' && last != 'º' && last != '°' && last != 'a' && last != 'ª' {
		return false
	}
	digits := body[:len(body)-size]
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// blankLineFollows reports whether s starts with optional horizontal
// whitespace and another newline.
func blankLineFollows(s string) bool {
	for _, r := range s {
		switch r {
		case '\n':
			return true
		case ' ', '\t', '\r':
			continue
		default:
			return false
		}
	}
	return false
}
