package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/lexcore/internal/locale"
)

func TestKeywords_LegalTerms(t *testing.T) {
	e := NewExtractor(nil)

	keywords := e.Keywords("El TRABAJADOR tendrá derecho a una indemnización y al pago de su Salario.")

	assert.Equal(t, []string{"indemnización", "salario", "trabajador"}, keywords)
}

func TestKeywords_MultiWordTerms(t *testing.T) {
	e := NewExtractor(nil)

	keywords := e.Keywords("Todas las personas gozarán de los Derechos Humanos reconocidos.")

	assert.Contains(t, keywords, "derechos humanos")
}

func TestKeywords_WholeWordsOnly(t *testing.T) {
	e := NewExtractor(nil)

	// "pena" must not match inside "penalización" nor "tasa" inside "tasación"
	keywords := e.Keywords("La penalización y la tasación se calcularán.")

	assert.NotContains(t, keywords, "pena")
	assert.NotContains(t, keywords, "tasa")
}

func TestKeywords_CapitalisedFallback(t *testing.T) {
	e := NewExtractor(nil)
	text := "La Comisión Nacional recibirá quejas. La Comisión Nacional podrá emitir opiniones. " +
		"El Banco Central informará. En Oaxaca se instalará una oficina."

	keywords := e.Keywords(text)

	assert.Contains(t, keywords, "Comisión Nacional")
	assert.Contains(t, keywords, "Banco Central")
	assert.Contains(t, keywords, "Oaxaca")
	assert.NotContains(t, keywords, "La")
	assert.NotContains(t, keywords, "En")
	assert.NotContains(t, keywords, "El")
}

func TestKeywords_FallbackCappedAtTen(t *testing.T) {
	e := NewExtractor(nil)
	text := "Alfa Cero. Beta Dos. Gamma Tres. Delta Cuatro. Epsilon Cinco. Zeta Seis. " +
		"Eta Siete. Theta Ocho. Iota Nueve. Kappa Diez. Lambda Once. Mu Doce. Alfa Cero."

	keywords := e.Keywords(text)

	assert.Len(t, keywords, DefaultMaxPhrases)
	assert.Contains(t, keywords, "Alfa Cero", "most frequent phrase is kept")
	assert.NotContains(t, keywords, "Mu Doce", "last by first occurrence is dropped")
}

func TestKeywords_IdempotentAsSet(t *testing.T) {
	e := NewExtractor(nil)
	a := e.Keywords("contrato salario contrato delito salario")
	b := e.Keywords("delito salario contrato")

	assert.Equal(t, a, b)
	assert.Equal(t, a, e.Keywords("contrato salario contrato delito salario"))
}

func TestKeywords_Empty(t *testing.T) {
	e := NewExtractor(nil)
	assert.Empty(t, e.Keywords(""))
	assert.Empty(t, e.Keywords("sin mayúsculas ni términos"))
}

func TestKeywords_CustomLocale(t *testing.T) {
	loc := &locale.Locale{LegalTerms: []string{"Due Process"}, StopWords: []string{"the"}}
	e := NewExtractor(loc)

	assert.Equal(t, []string{"due process"}, e.Keywords("No person shall be deprived without due process of law."))
}

func TestCitations_ArticleReference(t *testing.T) {
	e := NewExtractor(nil)

	citations := e.Citations("Conforme al artículo 47 de la Ley Federal del Trabajo, el patrón podrá rescindir.")

	assert.Contains(t, citations, "Artículo 47 de la Ley Federal del Trabajo")
	assert.Equal(t, "Artículo 47 de la Ley Federal del Trabajo", citations[0])
}

func TestCitations_ArticleVariants(t *testing.T) {
	e := NewExtractor(nil)
	tests := []struct {
		text string
		want string
	}{
		{"según el Art. 14 de la Constitución Política de los Estados Unidos Mexicanos.",
			"Artículo 14 de la Constitución Política de los Estados Unidos Mexicanos"},
		{"el artículo 27 bis del Código Civil Federal", "Artículo 27 bis del Código Civil Federal"},
		{"ARTÍCULO 1o. de el Código Fiscal de la Federación", "Artículo 1o de el Código Fiscal de la Federación"},
		{"artículo 5, de Ley de Amparo", "Artículo 5 de Ley de Amparo"},
	}
	for _, tt := range tests {
		assert.Contains(t, e.Citations(tt.text), tt.want, tt.text)
	}
}

func TestCitations_Jurisprudence(t *testing.T) {
	e := NewExtractor(nil)

	citations := e.Citations("Véase la tesis P./J. 20/2014 (10a.) y la jurisprudencia 2a./J. 45/2019. La tesis que sustenta el quejoso no aplica.")

	assert.Equal(t, []string{"Tesis P./J. 20/2014 (10a.)", "Tesis 2a./J. 45/2019"}, citations)
}

func TestCitations_BareLawNames(t *testing.T) {
	e := NewExtractor(nil)

	citations := e.Citations("Se aplicará la Ley de Amparo y supletoriamente el Código Federal de Procedimientos Civiles. Las leyes locales no.")

	assert.Equal(t, []string{"Ley de Amparo", "Código Federal de Procedimientos Civiles"}, citations)
}

func TestCitations_DedupFirstOccurrence(t *testing.T) {
	e := NewExtractor(nil)

	citations := e.Citations("El Código Penal Federal prevé la pena. La Ley General de Salud remite al Código Penal Federal.")

	assert.Equal(t, []string{"Código Penal Federal", "Ley General de Salud"}, citations)
}

func TestCitations_IgnoresWordInterior(t *testing.T) {
	e := NewExtractor(nil)
	assert.Empty(t, e.Citations("Bajo la hipótesis 3 del caso."))
}

func TestCitations_None(t *testing.T) {
	e := NewExtractor(nil)
	assert.Empty(t, e.Citations("Texto sin referencias normativas."))
}
