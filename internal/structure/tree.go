package structure

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// BuildTree converts parsed units into content nodes for documentID. Each
// node's parent is the nearest preceding node of a broader type, so an
// article under "Capítulo II" points at that chapter.
//
// Ids are derived from type and number rather than position so that the same
// article keeps its id across editions. Paragraphs and fractions are scoped
// under their parent; a repeated number gets a "-2", "-3" suffix.
func BuildTree(documentID string, units []Unit) []domain.LegalContent {
	nodes := make([]domain.LegalContent, 0, len(units))
	used := make(map[string]int)
	var stack []int // indexes into nodes, broadest first

	for _, u := range units {
		rank := u.Type.Rank()
		for len(stack) > 0 && nodes[stack[len(stack)-1]].Type.Rank() >= rank {
			stack = stack[:len(stack)-1]
		}

		scope := documentID
		parent := -1
		if len(stack) > 0 {
			parent = stack[len(stack)-1]
			if rank > domain.ContentTypeArticle.Rank() {
				scope = nodes[parent].ID
			}
		}

		node := domain.LegalContent{
			ID:      nodeID(used, scope, u),
			Type:    u.Type,
			Number:  u.Number,
			Title:   heading(u.Text),
			Content: u.Text,
		}
		if parent >= 0 {
			node.Parent = nodes[parent].ID
			nodes[parent].Children = append(nodes[parent].Children, node.ID)
		}

		nodes = append(nodes, node)
		stack = append(stack, len(nodes)-1)
	}
	return nodes
}

func nodeID(used map[string]int, scope string, u Unit) string {
	base := scope + "-" + string(u.Type)
	if u.Number != "" {
		base += "-" + Slug(u.Number)
	}
	used[base]++
	if n := used[base]; n > 1 || u.Number == "" {
		return fmt.Sprintf("%s-%d", base, n)
	}
	return base
}

// heading returns the first line of a unit, which carries its marker and name.
func heading(text string) string {
	first, _, _ := strings.Cut(text, "\n")
	first = strings.TrimSpace(first)
	if len([]rune(first)) > 120 {
		first = string([]rune(first)[:120])
	}
	return first
}

// Slug normalises a unit number for use inside identifiers.
func Slug(number string) string {
	return strings.ToLower(strings.Join(strings.Fields(number), "-"))
}
