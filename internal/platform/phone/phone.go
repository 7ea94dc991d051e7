// Package phone normaliza los teléfonos que se usan como identificador de login.
package phone

import "strings"

// Normalize deja solo dígitos: "(11) 99999-8888" => "11999998888".
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Format aplica la máscara (DD) NNNNN-NNNN sobre un número ya normalizado o no.
func Format(s string) string {
	d := Normalize(s)
	switch {
	case len(d) >= 11:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:11]
	case len(d) >= 7:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	case len(d) >= 2:
		return "(" + d[:2] + ") " + d[2:]
	case len(d) == 1:
		return "(" + d
	default:
		return d
	}
}

// Valid exige al menos DDD + 8 dígitos.
func Valid(s string) bool {
	n := len(Normalize(s))
	return n >= 10 && n <= 13
}
