// Package uniname maps between Unicode codepoints and their Unicode
// Character Names. The forward direction is a table lookup; the reverse
// direction (needed by the parser's \{NAME} escape and by
// from_codepoint_names) lazily builds a process-wide index over the
// whole assigned range on first use.
package uniname

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/unicode/runenames"
)

// Name returns the Unicode Character Name of r, or "" if r has none.
func Name(r rune) string {
	name := runenames.Name(r)
	// runenames renders unassigned/control codepoints as "<...>" labels,
	// which are not real character names.
	if strings.HasPrefix(name, "<") {
		return ""
	}
	return name
}

var (
	indexOnce sync.Once
	index     map[string]rune
)

func buildIndex() {
	index = make(map[string]rune, 150000)
	for r := rune(0); r <= unicode.MaxRune; r++ {
		if name := Name(r); name != "" {
			index[name] = r
		}
	}
}

// Lookup resolves a Unicode Character Name (case-insensitively) to its
// codepoint.
func Lookup(name string) (rune, bool) {
	indexOnce.Do(buildIndex)
	r, ok := index[strings.ToUpper(name)]
	return r, ok
}
