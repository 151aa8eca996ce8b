// Package slug convierte texto libre en identificadores ASCII en minúsculas separados por guiones.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make normaliza s: quita acentos, pasa a minúsculas, descarta símbolos y
// colapsa espacios y guiones en un único '-'. Puede devolver "".
func Make(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r > unicode.MaxASCII:
			continue
		case r == '-' || unicode.IsSpace(r):
			pendingDash = b.Len() > 0
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingDash {
				b.WriteByte('-')
				pendingDash = false
			}
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_")
}

// Truncate corta s a max runas sin dejar un guion colgando al final.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimRight(string(r[:max]), "-")
}
