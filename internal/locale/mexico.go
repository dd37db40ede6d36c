package locale

import "github.com/custodia-labs/lexcore/internal/core/domain"

// Number fragments shared by the Mexican marker patterns. Roman numerals are
// matched case-sensitively so ordinary words ("Civil", "mil") are not read as numbers.
const (
	romanOrArabic = `(?-i:[IVXLCDM]+)|\d+`
	ordinalWord   = `primer[oa]?|segund[oa]|tercer[oa]?|cuart[oa]|quint[oa]|sext[oa]|s[eé]ptim[oa]|octav[oa]|noven[oa]|d[eé]cim[oa]|[uú]nic[oa]`
	articleNumber = `\d+[oº°]?(?:\.\d+)*(?:\s+(?:bis|ter|qu[aá]ter)\b)?`
)

// MexicanSpanish returns the built-in table for Mexican federal legislation.
func MexicanSpanish() *Locale {
	return &Locale{
		Name: "es-MX",
		Markers: []MarkerRule{
			{Type: domain.ContentTypeArticle, Patterns: []string{
				`(?:art[ií]culo|art\.)\s*(` + articleNumber + `)`,
			}},
			{Type: domain.ContentTypeSection, Patterns: []string{
				`(?:secci[oó]n|secc\.)\s*(` + romanOrArabic + `|` + ordinalWord + `)\b`,
			}},
			{Type: domain.ContentTypeChapter, Patterns: []string{
				`(?:cap[ií]tulo|cap\.)\s*(` + romanOrArabic + `|` + ordinalWord + `)\b`,
			}},
			{Type: domain.ContentTypeTitle, Patterns: []string{
				`(?:t[ií]tulo|t[ií]t\.)\s*(` + romanOrArabic + `|` + ordinalWord + `)\b`,
			}},
			{Type: domain.ContentTypeFraction, Patterns: []string{
				`(?:fracci[oó]n|frac\.)\s*(` + romanOrArabic + `)\b`,
			}},
			{Type: domain.ContentTypeParagraph, Patterns: []string{
				`(?:p[aá]rrafo|¶)\s*(\d+)\b`,
			}},
		},
		Abbreviations: []string{
			"art.", "arts.", "inc.", "frac.", "fracc.", "núm.", "num.", "no.", "párr.", "parr.",
			"cap.", "tít.", "tit.", "secc.", "fr.", "lic.", "dr.", "dra.", "sr.", "sra.", "ing.",
			"pág.", "pag.", "cfr.", "op.", "cit.", "ej.", "aprox.", "d.o.f.", "s.a.", "a.c.", "c.v.",
		},
		StopWords: []string{
			"a", "al", "algo", "algunas", "algunos", "ante", "antes", "como", "con", "contra",
			"cual", "cuando", "de", "del", "desde", "donde", "durante", "e", "el", "ella",
			"ellas", "ellos", "en", "entre", "era", "es", "esa", "esas", "ese", "eso", "esos",
			"esta", "estas", "este", "esto", "estos", "fue", "ha", "hasta", "la", "las", "le",
			"les", "lo", "los", "mas", "más", "me", "mi", "muy", "ni", "no", "nos", "o", "otra",
			"otro", "para", "pero", "por", "porque", "que", "quien", "se", "sea", "ser", "si",
			"sin", "sobre", "su", "sus", "también", "tiene", "toda", "todas", "todo", "todos",
			"u", "un", "una", "unas", "uno", "unos", "y", "ya", "artículo", "capítulo", "título",
			"sección", "fracción", "párrafo", "transitorio", "transitorios",
		},
		LegalTerms: []string{
			// constitutional
			"constitución", "derechos humanos", "garantías", "amparo", "soberanía", "federación",
			"poder legislativo", "poder ejecutivo", "poder judicial", "congreso de la unión",
			"suprema corte", "municipio", "entidad federativa", "nacionalidad", "ciudadanía",
			// civil
			"contrato", "obligaciones", "propiedad", "posesión", "arrendamiento", "compraventa",
			"sucesión", "testamento", "matrimonio", "divorcio", "patria potestad", "alimentos",
			"persona moral", "persona física", "daño moral", "prescripción",
			// criminal
			"delito", "pena", "prisión", "imputado", "víctima", "ministerio público",
			"proceso penal", "sentencia", "reparación del daño", "tipo penal", "dolo", "culpa",
			// labor
			"trabajador", "patrón", "salario", "jornada", "despido", "indemnización", "huelga",
			"sindicato", "contrato colectivo", "seguridad social", "prima de antigüedad", "vacaciones",
			// tax
			"impuesto", "contribuyente", "crédito fiscal", "deducción", "base gravable",
			"obligación fiscal", "tasa", "retención", "devolución", "comprobante fiscal",
			// administrative
			"acto administrativo", "procedimiento administrativo", "concesión", "licitación",
			"servidor público", "responsabilidad administrativa", "sanción", "recurso de revisión",
			"reglamento", "autoridad", "permiso", "visita de verificación",
		},
		OfficialDomains: []string{
			"gob.mx", "dof.gob.mx", "diputados.gob.mx", "senado.gob.mx", "scjn.gob.mx",
			"sjf.scjn.gob.mx", "ordenjuridico.gob.mx", "sat.gob.mx", "cjf.gob.mx",
		},
		DomainTrust: []DomainTrust{
			{Suffix: "edu.mx", Trust: 0.8},
			{Suffix: "org.mx", Trust: 0.6},
		},
		DefaultTrust: 0.3,
	}
}
