// internal/dna/dna.go
package dna

import (
	"fmt"
	"strings"
	"unicode"
)

var complement [256]byte

func init() {
	complement['A'] = 'T'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['T'] = 'A'
	complement['N'] = 'N'
}

// Normalize strips whitespace and quotes and uppercases bases.
func Normalize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '\'' || r == '"' {
			continue
		}
		out = append(out, unicode.ToUpper(r))
	}
	return string(out)
}

// Validate returns a normalized sequence or an error if any symbol is
// outside {A,C,G,T,N}.
func Validate(raw string) (string, error) {
	s := Normalize(raw)
	if s == "" {
		return "", fmt.Errorf("empty sequence")
	}
	if i := strings.IndexFunc(s, func(r rune) bool {
		return r != 'A' && r != 'C' && r != 'G' && r != 'T' && r != 'N'
	}); i >= 0 {
		return "", fmt.Errorf("invalid base %q at %d; allowed: A C G T N", s[i], i+1)
	}
	return s, nil
}

// RevComp returns the reverse complement. Unknown symbols map to 'N'.
func RevComp(seq []byte) []byte {
	n := len(seq)
	if n == 0 {
		return nil
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := complement[seq[n-1-i]]
		if c == 0 {
			c = 'N'
		}
		out[i] = c
	}
	return out
}

// RevCompString is the string convenience wrapper around RevComp.
func RevCompString(seq string) string { return string(RevComp([]byte(seq))) }

// IsExact reports whether b is an unambiguous A/C/G/T base.
func IsExact(b byte) bool {
	return b == 'A' || b == 'C' || b == 'G' || b == 'T'
}

// BaseEqual reports whether two aligned bases count as a match.
// 'N' (or any non-ACGT symbol) on either side is a hard mismatch; this
// keeps masked genome blocks from scoring as agreement.
func BaseEqual(a, b byte) bool {
	return IsExact(a) && a == b
}
