package versioning

import (
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

func rebuild(segments []domain.TextSegment) (oldText, newText string) {
	var o, n strings.Builder
	for _, s := range segments {
		switch s.Type {
		case domain.SegmentUnchanged:
			o.WriteString(s.Value)
			n.WriteString(s.Value)
		case domain.SegmentRemoved:
			o.WriteString(s.Value)
		case domain.SegmentAdded:
			n.WriteString(s.Value)
		}
	}
	return o.String(), n.String()
}

func TestDiffText_Lines(t *testing.T) {
	oldText := "Artículo 1.\nTexto original.\nFin.\n"
	newText := "Artículo 1.\nTexto reformado.\nFin.\n"

	got := DiffText(oldText, newText, GranularityLine)
	assert.Equal(t, []domain.TextSegment{
		{Type: domain.SegmentUnchanged, Value: "Artículo 1.\n"},
		{Type: domain.SegmentRemoved, Value: "Texto original.\n"},
		{Type: domain.SegmentAdded, Value: "Texto reformado.\n"},
		{Type: domain.SegmentUnchanged, Value: "Fin.\n"},
	}, got)
}

func TestDiffText_EmptyInputs(t *testing.T) {
	got := DiffText("", "", GranularityLine)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Equal(t, []domain.TextSegment{{Type: domain.SegmentAdded, Value: "nuevo"}}, DiffText("", "nuevo", GranularityWord))
	assert.Equal(t, []domain.TextSegment{{Type: domain.SegmentRemoved, Value: "viejo\n"}}, DiffText("viejo\n", "", GranularityLine))
}

func TestDiffText_Identical(t *testing.T) {
	got := DiffText("sin cambios aquí", "sin cambios aquí", GranularityWord)
	assert.Equal(t, []domain.TextSegment{{Type: domain.SegmentUnchanged, Value: "sin cambios aquí"}}, got)
}

func TestDiffText_ReconstructsBothSides(t *testing.T) {
	pairs := [][2]string{
		{"a b c d e", "a c d x e f"},
		{"El patrón pagará el salario.", "El trabajador cobrará el salario mínimo."},
		{"uno\ndos\ntres", "cero\nuno\ntres\ncuatro"},
		{"x", "y"},
		{"  espacios   raros ", "espacios raros"},
	}
	for _, p := range pairs {
		for _, g := range []Granularity{GranularityLine, GranularityWord} {
			o, n := rebuild(DiffText(p[0], p[1], g))
			assert.Equal(t, p[0], o, "%s old side of %q", g, p)
			assert.Equal(t, p[1], n, "%s new side of %q", g, p)
		}
	}
}

func TestMyers_PrefersRemovalBeforeAddition(t *testing.T) {
	got := myers([]string{"a"}, []string{"b"})
	assert.Equal(t, []edit{
		{kind: domain.SegmentRemoved, token: "a"},
		{kind: domain.SegmentAdded, token: "b"},
	}, got)
	assert.Nil(t, myers(nil, nil))
}

func TestDiffText_LargeScatteredEdits(t *testing.T) {
	if testing.Short() {
		t.Skip("large diff")
	}

	const words = 20000
	var o, n strings.Builder
	for i := 0; i < words; i++ {
		fmt.Fprintf(&o, "palabra%d ", i)
		if i%10 == 0 {
			fmt.Fprintf(&n, "reforma%d ", i)
		} else {
			fmt.Fprintf(&n, "palabra%d ", i)
		}
	}
	oldText, newText := o.String(), n.String()

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	segments := DiffText(oldText, newText, GranularityWord)
	runtime.ReadMemStats(&after)

	// every changed word yields a removed and an added run between unchanged runs
	assert.Len(t, segments, 3*words/10)
	gotOld, gotNew := rebuild(segments)
	assert.Equal(t, oldText, gotOld)
	assert.Equal(t, newText, gotNew)

	allocated := after.TotalAlloc - before.TotalAlloc
	assert.Less(t, allocated, uint64(256<<20), "diff allocated %d MB", allocated>>20)
}

func TestParseGranularity(t *testing.T) {
	assert.Equal(t, GranularityWord, ParseGranularity(" WORD "))
	assert.Equal(t, GranularityLine, ParseGranularity("line"))
	assert.Equal(t, GranularityLine, ParseGranularity(""))
}
