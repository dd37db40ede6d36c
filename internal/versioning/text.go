package versioning

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// Granularity selects the token unit of a text diff
type Granularity string

const (
	GranularityLine Granularity = "line"
	GranularityWord Granularity = "word"
)

// ParseGranularity maps a request value to a Granularity, defaulting to line.
func ParseGranularity(s string) Granularity {
	if strings.EqualFold(strings.TrimSpace(s), string(GranularityWord)) {
		return GranularityWord
	}
	return GranularityLine
}

var wordTokens = regexp.MustCompile(`\s+|\S+`)

// DiffText diffs two strings with Myers' algorithm and returns runs of
// unchanged, removed and added text. Concatenating the unchanged and removed
// values gives oldText back; unchanged and added give newText.
func DiffText(oldText, newText string, g Granularity) []domain.TextSegment {
	a, b := tokenize(oldText, g), tokenize(newText, g)

	var segments []domain.TextSegment
	for _, e := range myers(a, b) {
		if n := len(segments); n > 0 && segments[n-1].Type == e.kind {
			segments[n-1].Value += e.token
			continue
		}
		segments = append(segments, domain.TextSegment{Type: e.kind, Value: e.token})
	}
	if segments == nil {
		segments = make([]domain.TextSegment, 0)
	}
	return segments
}

func tokenize(s string, g Granularity) []string {
	if s == "" {
		return nil
	}
	if g == GranularityWord {
		return wordTokens.FindAllString(s, -1)
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

type edit struct {
	kind  domain.SegmentType
	token string
}

// myers returns the shortest edit script from a to b in forward order. It
// uses the linear-space variant: the middle snake of each box splits it in
// two, so memory stays O(len(a)+len(b)) however many edits there are.
func myers(a, b []string) []edit {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}

	ids := make(map[string]int, len(a)+len(b))
	intern := func(tokens []string) []int {
		out := make([]int, len(tokens))
		for i, t := range tokens {
			id, ok := ids[t]
			if !ok {
				id = len(ids)
				ids[t] = id
			}
			out[i] = id
		}
		return out
	}
	s := &snakeSearch{a: intern(a), b: intern(b)}

	// the shared prefix and suffix never need a search
	pre := 0
	for pre < len(a) && pre < len(b) && s.a[pre] == s.b[pre] {
		pre++
	}
	suf := 0
	for suf < len(a)-pre && suf < len(b)-pre && s.a[len(a)-1-suf] == s.b[len(b)-1-suf] {
		suf++
	}

	path := []point{{0, 0}}
	if inner := s.findPath(pre, pre, len(a)-suf, len(b)-suf); inner != nil {
		path = append(path, inner...)
	}
	path = append(path, point{len(a), len(b)})

	script := make([]edit, 0, len(a)+len(b))
	for i := 1; i < len(path); i++ {
		x, y := path[i-1].x, path[i-1].y
		end := path[i]
		for x < end.x && y < end.y && s.a[x] == s.b[y] {
			script = append(script, edit{kind: domain.SegmentUnchanged, token: a[x]})
			x++
			y++
		}
		switch dx, dy := end.x-x, end.y-y; {
		case dx < dy:
			script = append(script, edit{kind: domain.SegmentAdded, token: b[y]})
			y++
		case dx > dy:
			script = append(script, edit{kind: domain.SegmentRemoved, token: a[x]})
			x++
		}
		for x < end.x && y < end.y && s.a[x] == s.b[y] {
			script = append(script, edit{kind: domain.SegmentUnchanged, token: a[x]})
			x++
			y++
		}
	}
	return script
}

type point struct{ x, y int }

// snakeSearch holds the interned token ids of both sides.
type snakeSearch struct {
	a, b []int
}

// findPath returns the corner points of a shortest path through the box
// [left,right) x [top,bottom); consecutive points differ by one snake or
// one edit plus diagonals. Returns nil for an empty box.
func (s *snakeSearch) findPath(left, top, right, bottom int) []point {
	start, finish, ok := s.midpoint(left, top, right, bottom)
	if !ok {
		return nil
	}
	head := s.findPath(left, top, start.x, start.y)
	if head == nil {
		head = []point{start}
	}
	tail := s.findPath(finish.x, finish.y, right, bottom)
	if tail == nil {
		tail = []point{finish}
	}
	return append(head, tail...)
}

// midpoint runs the forward and backward searches over the box until they
// overlap and returns the middle snake.
func (s *snakeSearch) midpoint(left, top, right, bottom int) (point, point, bool) {
	width, height := right-left, bottom-top
	size := width + height
	if size == 0 {
		return point{}, point{}, false
	}
	delta := width - height
	limit := (size + 1) / 2

	// diagonals run from -limit-1 to limit+1
	off := limit + 1
	vf := make([]int, 2*limit+3)
	vb := make([]int, 2*limit+3)
	vf[off+1] = left
	vb[off+1] = bottom

	for d := 0; d <= limit; d++ {
		for k := d; k >= -d; k -= 2 {
			c := k - delta
			var px, x int
			if k == -d || (k != d && vf[off+k-1] < vf[off+k+1]) {
				px = vf[off+k+1]
				x = px
			} else {
				px = vf[off+k-1]
				x = px + 1
			}
			y := top + (x - left) - k
			py := y
			if d != 0 && x == px {
				py = y - 1
			}
			for x < right && y < bottom && s.a[x] == s.b[y] {
				x++
				y++
			}
			vf[off+k] = x
			if delta%2 != 0 && c >= -(d-1) && c <= d-1 && y >= vb[off+c] {
				return point{px, py}, point{x, y}, true
			}
		}

		for c := d; c >= -d; c -= 2 {
			k := c + delta
			var py, y int
			if c == -d || (c != d && vb[off+c-1] > vb[off+c+1]) {
				py = vb[off+c+1]
				y = py
			} else {
				py = vb[off+c-1]
				y = py - 1
			}
			x := left + (y - top) + k
			px := x
			if d != 0 && y == py {
				px = x + 1
			}
			for x > left && y > top && s.a[x-1] == s.b[y-1] {
				x--
				y--
			}
			vb[off+c] = y
			if delta%2 == 0 && k >= -d && k <= d && x <= vf[off+k] {
				return point{x, y}, point{px, py}, true
			}
		}
	}
	return point{}, point{}, false
}
