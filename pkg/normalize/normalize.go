package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Term normaliza un término de búsqueda: minúsculas, sin acentos, sin espacios sobrantes.
// "Ibuprofén  400" -> "ibuprofen 400". Si la transformación falla devuelve la entrada en minúsculas.
func Term(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(out), " ")
}
