package ot

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Decompose returns the canonical (single-step) decomposition of cp as
// a base plus combining mark, the pair unicodeDecompose needs to split
// a precomposed character during normalization. x/text's NFD form
// already walks the canonical decomposition recursively, so a
// three-or-more-rune result (Hangul syllables, mainly — handled
// algorithmically by hangul.go instead) is reported as "no
// decomposition" here rather than force-fit into a pair.
func Decompose(cp Codepoint) (Codepoint, Codepoint, bool) {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], rune(cp))
	decomposed := norm.NFD.AppendString(nil, string(buf[:n]))

	runes := make([]rune, 0, 2)
	for i := 0; i < len(decomposed); {
		r, size := utf8.DecodeRune(decomposed[i:])
		runes = append(runes, r)
		i += size
		if len(runes) > 2 {
			break
		}
	}

	if len(runes) != 2 {
		return 0, 0, false
	}
	return Codepoint(runes[0]), Codepoint(runes[1]), true
}

// Compose returns the canonical composition of a base plus combining
// mark, if the Unicode Character Database defines one. It is the
// inverse of Decompose, computed the same way: run x/text's NFC form
// over the two-rune sequence and check whether it collapsed to one.
func Compose(a, b Codepoint) (Codepoint, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	var buf [2 * utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], rune(a))
	n += utf8.EncodeRune(buf[n:], rune(b))

	composed := norm.NFC.AppendString(nil, string(buf[:n]))
	r, size := utf8.DecodeRune(composed)
	if size != len(composed) || r == utf8.RuneError {
		return 0, false
	}
	return Codepoint(r), true
}
