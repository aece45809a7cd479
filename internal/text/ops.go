package text

import (
	"fmt"
	"strings"

	"github.com/tomo-lang/tomoc/internal/uniname"
)

// Lines splits on "\n" and "\r\n". An unterminated trailing non-empty
// line is included.
func Lines(t Text) []Text {
	var out []Text
	start := int64(1)
	it := NewIter(t)
	for i := int64(0); i < t.length; i++ {
		switch it.GraphemeAt(i) {
		case '\n':
			out = append(out, Slice(t, start, i))
			start = i + 2
		case '\r':
			if i+1 < t.length && it.GraphemeAt(i+1) == '\n' {
				out = append(out, Slice(t, start, i))
				i++
				start = i + 2
			}
		}
	}
	if start <= t.length {
		out = append(out, Slice(t, start, t.length))
	}
	return out
}

// Find returns the 1-based grapheme index of the first occurrence of
// target at or after the 1-based start index, or 0 and false if absent.
func Find(t, target Text, start int64) (int64, bool) {
	if start < 1 {
		start = 1
	}
	if target.length == 0 {
		if start <= t.length+1 {
			return start, true
		}
		return 0, false
	}
	tIt := NewIter(t)
	for i := start - 1; i+target.length <= t.length; i++ {
		found := true
		targetIt := NewIter(target)
		for j := int64(0); j < target.length; j++ {
			if tIt.GraphemeAt(i+j) != targetIt.GraphemeAt(j) {
				found = false
				break
			}
		}
		if found {
			return i + 1, true
		}
	}
	return 0, false
}

// FindAll returns the 1-based indices of all non-overlapping occurrences
// of target.
func FindAll(t, target Text) []int64 {
	var out []int64
	pos := int64(1)
	for pos <= t.length {
		i, ok := Find(t, target, pos)
		if !ok {
			break
		}
		out = append(out, i)
		if target.length == 0 {
			pos = i + 1
		} else {
			pos = i + target.length
		}
	}
	return out
}

// Has reports whether target occurs in t.
func Has(t, target Text) bool {
	_, ok := Find(t, target, 1)
	return ok
}

// Replace replaces every non-overlapping occurrence of target with
// replacement, preserving NFG normalization through Concat's stability
// machinery.
func Replace(t, target, replacement Text) Text {
	if target.length == 0 || t.length == 0 {
		return t
	}
	var pieces []Text
	pos := int64(1)
	for {
		i, ok := Find(t, target, pos)
		if !ok {
			break
		}
		if i > pos {
			pieces = append(pieces, Slice(t, pos, i-1))
		}
		if replacement.length > 0 {
			pieces = append(pieces, replacement)
		}
		pos = i + target.length
	}
	if pos == 1 {
		return t
	}
	if pos <= t.length {
		pieces = append(pieces, Slice(t, pos, t.length))
	}
	return ConcatMany(pieces)
}

// Split splits t on every occurrence of delimiter. An empty delimiter
// splits into single-grapheme clusters.
func Split(t, delimiter Text) []Text {
	if t.length == 0 {
		return []Text{Empty}
	}
	if delimiter.length == 0 {
		return t.Clusters()
	}
	var out []Text
	pos := int64(1)
	for {
		i, ok := Find(t, delimiter, pos)
		if !ok {
			break
		}
		out = append(out, Slice(t, pos, i-1))
		pos = i + delimiter.length
	}
	return append(out, Slice(t, pos, t.length))
}

// SplitAny splits on any grapheme present in delimiters, coalescing runs
// of consecutive delimiter graphemes.
func SplitAny(t, delimiters Text) []Text {
	set := graphemeSet(delimiters)
	var out []Text
	start := int64(1)
	inToken := false
	it := NewIter(t)
	for i := int64(0); i < t.length; i++ {
		if set[it.GraphemeAt(i)] {
			if inToken {
				out = append(out, Slice(t, start, i))
				inToken = false
			}
		} else if !inToken {
			start = i + 1
			inToken = true
		}
	}
	if inToken {
		out = append(out, Slice(t, start, t.length))
	}
	return out
}

func graphemeSet(t Text) map[int32]bool {
	set := make(map[int32]bool, t.length)
	it := NewIter(t)
	for i := int64(0); i < t.length; i++ {
		set[it.GraphemeAt(i)] = true
	}
	return set
}

// StartsWith reports whether prefix is a grapheme-boundary-aware prefix
// of t.
func StartsWith(t, prefix Text) bool {
	if t.length < prefix.length {
		return false
	}
	tIt, pIt := NewIter(t), NewIter(prefix)
	for i := int64(0); i < prefix.length; i++ {
		if tIt.GraphemeAt(i) != pIt.GraphemeAt(i) {
			return false
		}
	}
	return true
}

// EndsWith reports whether suffix is a grapheme-boundary-aware suffix of
// t.
func EndsWith(t, suffix Text) bool {
	if t.length < suffix.length {
		return false
	}
	tIt, sIt := NewIter(t), NewIter(suffix)
	for i := int64(0); i < suffix.length; i++ {
		if tIt.GraphemeAt(t.length-suffix.length+i) != sIt.GraphemeAt(i) {
			return false
		}
	}
	return true
}

// Trim removes graphemes in cutset from both ends (or just the ends
// selected by left/right). An empty cutset trims whitespace.
func Trim(t, cutset Text, left, right bool) Text {
	if cutset.length == 0 {
		cutset = FromString(" \t\r\n\v\f")
	}
	set := graphemeSet(cutset)
	first, last := int64(1), t.length
	it := NewIter(t)
	if left {
		for first <= last && set[it.GraphemeAt(first-1)] {
			first++
		}
	}
	if right {
		for last >= first && set[it.GraphemeAt(last-1)] {
			last--
		}
	}
	if first > last {
		return Empty
	}
	return Slice(t, first, last)
}

// LeftPad pads on the left with pad (cycled) up to width graphemes.
func LeftPad(t, pad Text, width int64) Text {
	return Concat(padding(pad, width-t.length), t)
}

// RightPad pads on the right with pad (cycled) up to width graphemes.
func RightPad(t, pad Text, width int64) Text {
	return Concat(t, padding(pad, width-t.length))
}

// Center pads both sides, left-biased when the slack is odd.
func Center(t, pad Text, width int64) Text {
	slack := width - t.length
	if slack <= 0 {
		return t
	}
	return ConcatMany([]Text{padding(pad, slack/2), t, padding(pad, slack-slack/2)})
}

func padding(pad Text, n int64) Text {
	if n <= 0 || pad.length == 0 {
		return Empty
	}
	full := Repeat(pad, (n+pad.length-1)/pad.length)
	return Slice(full, 1, n)
}

// CodepointNames returns the Unicode Character Name of every codepoint
// in the text, one name per codepoint (not per grapheme).
func CodepointNames(t Text) []Text {
	codepoints := t.UTF32Codepoints()
	out := make([]Text, len(codepoints))
	for i, cp := range codepoints {
		name := uniname.Name(cp)
		if name == "" {
			name = fmt.Sprintf("U+%04X", cp)
		}
		out[i] = FromString(name)
	}
	return out
}

// FromCodepointNames is the inverse of CodepointNames: unknown names are
// skipped.
func FromCodepointNames(names []Text) Text {
	runes := make([]rune, 0, len(names))
	for _, name := range names {
		if r, ok := uniname.Lookup(name.String()); ok {
			runes = append(runes, r)
		}
	}
	return FromRunes(runes)
}

// Quoted renders the text as a double-quoted literal with C-style
// escapes, for diagnostics and emitted C source.
func Quoted(t Text) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, b := range t.UTF8Bytes() {
		switch b {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\a':
			sb.WriteString(`\a`)
		case '\b':
			sb.WriteString(`\b`)
		case '\v':
			sb.WriteString(`\v`)
		case '\f':
			sb.WriteString(`\f`)
		case 0x1b:
			sb.WriteString(`\e`)
		default:
			if b < 0x20 || b == 0x7f {
				fmt.Fprintf(&sb, `\x%02X`, b)
			} else {
				sb.WriteByte(b)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
