package normalisers

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// PlaintextNormaliser handles plain text and is the fallback for any type.
type PlaintextNormaliser struct{}

func (n *PlaintextNormaliser) Normalise(content string, _ string) string {
	return tidy(content)
}

func (n *PlaintextNormaliser) SupportedTypes() []string {
	return []string{"text/plain", "*/*"}
}

func (n *PlaintextNormaliser) Priority() int {
	return 1
}

// MarkdownNormaliser strips Markdown markup so structural headings like
// "## Artículo 5" reach the parser as plain lines.
type MarkdownNormaliser struct{}

var (
	mdHeading  = regexp.MustCompile(`(?m)^[ \t]{0,3}#{1,6}[ \t]+`)
	mdQuote    = regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`)
	mdLink     = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	mdEmphasis = regexp.MustCompile(`\*\*|__|~~|` + "`")
	mdRule     = regexp.MustCompile(`(?m)^[ \t]*(?:-{3,}|\*{3,}|_{3,})[ \t]*$`)
)

func (n *MarkdownNormaliser) Normalise(content string, _ string) string {
	content = mdRule.ReplaceAllString(content, "")
	content = mdHeading.ReplaceAllString(content, "")
	content = mdQuote.ReplaceAllString(content, "")
	content = mdLink.ReplaceAllString(content, "$1")
	content = mdEmphasis.ReplaceAllString(content, "")
	return tidy(content)
}

func (n *MarkdownNormaliser) SupportedTypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

func (n *MarkdownNormaliser) Priority() int {
	return 50
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// tidy composes accents (NFC), collapses whitespace inside lines and keeps
// at most one blank line between paragraphs.
func tidy(s string) string {
	s = newlines.Replace(norm.NFC.String(s))

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if len(out) > 0 && !blank {
				out = append(out, "")
				blank = true
			}
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
