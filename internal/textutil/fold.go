// Package textutil holds the tokenisation and case folding shared by the
// keyword extractor, the lexical scorer and the chunk builders.
package textutil

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Fold case-folds s for caseless comparison. A fresh Caser is used per call
// because cases.Caser is not safe for concurrent use.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Words splits folded text into letter/digit tokens.
func Words(s string) []string {
	return strings.Fields(nonWord.ReplaceAllString(Fold(s), " "))
}

// WordSet returns the distinct folded tokens of s.
func WordSet(s string) map[string]struct{} {
	words := Words(s)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Padded returns the folded tokens of s joined by single spaces with a
// leading and trailing space, so " term " containment is a whole-word test.
func Padded(s string) string {
	return " " + strings.Join(Words(s), " ") + " "
}

// RuneLen counts characters rather than bytes.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
