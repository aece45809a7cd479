package text

// Iter is cursor state for amortized-O(1) sequential grapheme access
// over a subtext rope. It remembers which child the last index landed in
// and the total length of the children before it, so forward (or
// backward) scans don't re-walk the child list from the start.
//
// The zero Iter for a given text is valid; Iter values are cheap and
// need not be reused across texts.
type Iter struct {
	text    Text
	subtext int
	sumPrev int64
}

// NewIter returns an iterator positioned at the start of t.
func NewIter(t Text) *Iter {
	return &Iter{text: t}
}

// GraphemeAt returns the grapheme code at the 0-based index, updating
// the cursor. Out-of-range returns 0.
func (it *Iter) GraphemeAt(index int64) int32 {
	t := it.text
	if t.tag != kindSubtext {
		return t.graphemeAt(index)
	}
	if index < 0 || index >= t.length {
		return 0
	}
	for index < it.sumPrev && it.subtext > 0 {
		it.subtext--
		it.sumPrev -= t.sub(it.subtext).length
	}
	for {
		child := t.sub(it.subtext)
		if index < it.sumPrev+child.length {
			return child.graphemeAt(index - it.sumPrev)
		}
		it.sumPrev += child.length
		it.subtext++
	}
}

// MainCodepoint returns the "main" codepoint of the grapheme at the
// 0-based index: the scalar itself, or for a synthetic cluster its first
// non-prepended-concatenation-mark codepoint.
func (it *Iter) MainCodepoint(index int64) rune {
	code := it.GraphemeAt(index)
	if code >= 0 {
		return rune(code)
	}
	return mainCodepoint(code)
}
