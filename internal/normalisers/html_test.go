package normalisers

import "testing"

func TestHTMLNormaliser(t *testing.T) {
	n := &HTMLNormaliser{}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"paragraph", "<p>Hola</p>", "Hola"},
		{"nested", "<div><p>Hola</p></div>", "Hola"},
		{"paragraph breaks", "<p>Artículo 1.</p><p>Artículo 2.</p>", "Artículo 1.\n\nArtículo 2."},
		{"line break", "Fracción I<br>Fracción II", "Fracción I\nFracción II"},
		{"script dropped", "<script>var a = '<p>x</p>';</script>Texto", "Texto"},
		{"style dropped", "<style>p { color: red }</style>Texto", "Texto"},
		{"head dropped", "<html><head><title>DOF</title></head><body>Decreto</body></html>", "Decreto"},
		{"entities", "Art&iacute;culo 5 &amp; 6 &lt;bis&gt;", "Artículo 5 & 6 <bis>"},
		{"spaces", "<p>Los    trabajadores\n   tendrán</p>", "Los trabajadores\ntendrán"},
		{"table cells", "<table><tr><td>I</td><td>Uno</td></tr></table>", "I Uno"},
		{"unclosed markup", "<p>Texto <b>truncado", "Texto truncado"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalise(tt.input, "text/html"); got != tt.want {
				t.Errorf("Normalise() = %q, want %q", got, tt.want)
			}
		})
	}
}
