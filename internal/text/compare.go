package text

import (
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Equal reports grapheme-wise equality. Differing lengths or differing
// cached hashes short-circuit to false.
func Equal(a, b Text) bool {
	if a.length != b.length {
		return false
	}
	if a.hash != 0 && b.hash != 0 && a.hash != b.hash {
		return false
	}
	aIt, bIt := NewIter(a), NewIter(b)
	for i := int64(0); i < a.length; i++ {
		if aIt.GraphemeAt(i) != bIt.GraphemeAt(i) {
			return false
		}
	}
	return true
}

// cmpRunes is lexicographic comparison of codepoint sequences, the
// u32_cmp2 analogue used when either side of a grapheme comparison is a
// synthetic cluster.
func cmpRunes(a, b []rune) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Compare orders texts lexicographically by grapheme. Positions where
// both sides are positive scalars compare directly; anywhere a synthetic
// cluster is involved, the clusters' codepoint sequences are compared.
func Compare(a, b Text) int {
	maxLen := a.length
	if b.length > maxLen {
		maxLen = b.length
	}
	aIt, bIt := NewIter(a), NewIter(b)
	for i := int64(0); i < maxLen; i++ {
		ai := aIt.GraphemeAt(i)
		bi := bIt.GraphemeAt(i)
		if ai == bi {
			continue
		}
		var cmp int
		if ai > 0 && bi > 0 {
			if ai < bi {
				cmp = -1
			} else {
				cmp = 1
			}
		} else {
			cmp = cmpRunes(graphemeRunes(ai), graphemeRunes(bi))
		}
		if cmp != 0 {
			return cmp
		}
	}
	return 0
}

// EqualIgnoringCase compares texts case-insensitively: a length-prefix
// check, then per-grapheme identity, falling back to a casefolded
// NFC comparison of the clusters' codepoints on mismatch. language is
// accepted for parity with the case-mapping API; Unicode's full case
// folding is language-independent except for the dotted/dotless i of
// Turkic locales, which is honored.
func EqualIgnoringCase(a, b Text, language string) bool {
	if a.length != b.length {
		return false
	}
	aIt, bIt := NewIter(a), NewIter(b)
	for i := int64(0); i < a.length; i++ {
		ai := aIt.GraphemeAt(i)
		bi := bIt.GraphemeAt(i)
		if ai == bi {
			continue
		}
		af := foldRunes(graphemeRunes(ai), language)
		bf := foldRunes(graphemeRunes(bi), language)
		if af != bf {
			return false
		}
	}
	return true
}

// foldRunes casefolds and NFC-normalizes one cluster's codepoints.
func foldRunes(runes []rune, language string) string {
	folded := make([]rune, 0, len(runes))
	turkic := language == "tr" || language == "az"
	for _, r := range runes {
		switch {
		case turkic && r == 'I':
			folded = append(folded, 'ı')
		case turkic && r == 'İ':
			folded = append(folded, 'i')
		default:
			folded = append(folded, foldRune(r)...)
		}
	}
	return norm.NFC.String(string(folded))
}

// foldRune maps r to the canonical (minimum) member of its simple case
// fold orbit.
func foldRune(r rune) []rune {
	min := r
	for c := unicode.SimpleFold(r); c != r; c = unicode.SimpleFold(c) {
		if c < min {
			min = c
		}
	}
	return []rune{min}
}
