package text

import (
	"fmt"

	"github.com/rivo/uniseg"

	"github.com/tomo-lang/tomoc/internal/grapheme"
)

// No codepoint below U+0300 can merge with a neighbor under NFC, so
// boundaries between low scalars never need a normalization check.
const lowestCodepointToCheck = 0x300

// isConcatStable reports whether a ++ b is exactly the grapheme-wise
// concatenation of the two grapheme sequences, i.e. re-normalizing the
// junction would change nothing.
func isConcatStable(a, b Text) bool {
	if a.length == 0 || b.length == 0 {
		return true
	}
	lastA := a.graphemeAt(a.length - 1)
	firstB := b.graphemeAt(0)

	// Synthetic graphemes need the full normalization check.
	if lastA < 0 || firstB < 0 {
		return false
	}
	if lastA < lowestCodepointToCheck && firstB < lowestCodepointToCheck {
		return true
	}

	// Normalize the two boundary codepoints: if they merge, or survive
	// as two codepoints that form a single grapheme cluster, the
	// boundary is unstable.
	normalized := grapheme.NFC([]rune{rune(lastA), rune(firstB)})
	if len(normalized) != 2 {
		return false
	}
	first, _, _, _ := uniseg.StepString(string(normalized), -1)
	return first == string(normalized[0])
}

// concatAssumingSafe builds the bounded rope: child arrays are merged
// flat so depth stays at exactly one.
func concatAssumingSafe(a, b Text) Text {
	if a.length == 0 {
		return b
	}
	if b.length == 0 {
		return a
	}

	switch {
	case a.tag == kindSubtext && b.tag == kindSubtext:
		subs := make([]Text, 0, a.subtexts.Len()+b.subtexts.Len())
		subs = append(subs, a.subtexts.Slices()...)
		subs = append(subs, b.subtexts.Slices()...)
		return newSubtext(a.length+b.length, subs)
	case a.tag == kindSubtext:
		subs := make([]Text, 0, a.subtexts.Len()+1)
		subs = append(subs, a.subtexts.Slices()...)
		subs = append(subs, b)
		return newSubtext(a.length+b.length, subs)
	case b.tag == kindSubtext:
		subs := make([]Text, 0, b.subtexts.Len()+1)
		subs = append(subs, a)
		subs = append(subs, b.subtexts.Slices()...)
		return newSubtext(a.length+b.length, subs)
	default:
		return newSubtext(a.length+b.length, []Text{a, b})
	}
}

// Concat concatenates two texts. Stable boundaries reuse both sides'
// storage via the rope; an unstable boundary synthesizes a short "glue"
// text by normalizing the junction, the only place concat normalizes.
func Concat(a, b Text) Text {
	if a.length == 0 {
		return b
	}
	if b.length == 0 {
		return a
	}
	if isConcatStable(a, b) {
		return concatAssumingSafe(a, b)
	}

	lastA := a.graphemeAt(a.length - 1)
	firstB := b.graphemeAt(0)
	join := append(graphemeRunes(lastA), graphemeRunes(firstB)...)
	glue := fromRunes(join, true)

	switch {
	case a.length == 1 && b.length == 1:
		return glue
	case a.length == 1:
		return concatAssumingSafe(glue, Slice(b, 2, b.length))
	case b.length == 1:
		return concatAssumingSafe(Slice(a, 1, a.length-1), glue)
	default:
		return concatAssumingSafe(
			concatAssumingSafe(Slice(a, 1, a.length-1), glue),
			Slice(b, 2, b.length))
	}
}

// ConcatMany concatenates left to right. Runs of pairwise-stable inputs
// are merged into one flat subtext in a single pass; an unstable
// boundary splits the work and recurses through Concat so the result is
// never observably different from a left-to-right binary fold.
func ConcatMany(items []Text) Text {
	switch len(items) {
	case 0:
		return Empty
	case 1:
		return items[0]
	case 2:
		return Concat(items[0], items[1])
	}

	subtexts := 0
	for _, item := range items {
		if item.length > 0 {
			subtexts += item.numSubtexts()
		}
	}

	children := make([]Text, 0, subtexts)
	var length int64
	wrap := func() Text {
		switch len(children) {
		case 0:
			return Empty
		case 1:
			return children[0]
		}
		return newSubtext(length, children)
	}
	for i, item := range items {
		if item.length == 0 {
			continue
		}
		if i > 0 && !isConcatStable(items[i-1], item) {
			return Concat(wrap(), ConcatMany(items[i:]))
		}
		if item.tag == kindSubtext {
			children = append(children, item.subtexts.Slices()...)
		} else {
			children = append(children, item)
		}
		length += item.length
	}
	return wrap()
}

// Repeat returns count copies of t concatenated. Panics if the result
// would exceed MaxGraphemes.
func Repeat(t Text, count int64) Text {
	if t.length == 0 || count <= 0 {
		return Empty
	}
	if t.length > MaxGraphemes/count {
		panic(fmt.Sprintf("text: repeating %d graphemes %d times would produce too big of a result", t.length, count))
	}
	if t.tag == kindSubtext {
		children := t.subtexts.Slices()
		subs := make([]Text, 0, len(children)*int(count))
		for c := int64(0); c < count; c++ {
			subs = append(subs, children...)
		}
		return newSubtext(t.length*count, subs)
	}
	subs := make([]Text, count)
	for i := range subs {
		subs[i] = t
	}
	return newSubtext(t.length*count, subs)
}

// mainCodepoint returns the main codepoint of a synthetic grapheme.
func mainCodepoint(code int32) rune {
	return grapheme.Default().Lookup(code).Main
}
