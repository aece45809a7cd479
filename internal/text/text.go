// Package text implements the Normal-Form-Grapheme text datastructure:
// immutable, structurally shared text values whose unit of length is the
// grapheme cluster rather than the byte or the codepoint.
//
// A text value is one of five shapes, chosen to minimize allocation:
// inline ASCII (length <= 8), shared ASCII buffer, inline graphemes (up
// to two), shared grapheme buffer, or a depth-1 rope of child texts.
// Multi-codepoint grapheme clusters are assigned negative "synthetic"
// grapheme codes by the process-wide interner in internal/grapheme, so
// every grapheme occupies exactly one int32 and length, indexing, and
// comparison never have to re-segment.
package text

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/tomo-lang/tomoc/internal/grapheme"
	"github.com/tomo-lang/tomoc/internal/varray"
)

type kind uint8

const (
	kindShortASCII kind = iota
	kindASCII
	kindShortGraphemes
	kindGraphemes
	kindSubtext
)

// MaxTextDepth bounds iterator state for nested subtexts. The rope
// builder keeps depth at exactly one, so this is a hard backstop, not a
// tuning knob.
const MaxTextDepth = 48

// MaxGraphemes is the largest text Repeat will produce.
const MaxGraphemes = int64(1) << 40

// Text is an immutable NFG text value. The zero value is the empty text.
//
// Copies share backing storage freely; nothing reachable from a Text is
// ever mutated after construction except the lazily computed hash field,
// which callers access through (*Text).Hash.
type Text struct {
	tag    kind
	length int64

	// hash is the cached SipHash of the grapheme sequence. 0 means "not
	// yet computed"; a computed hash that would be 0 is forced to 1.
	hash uint64

	shortASCII     [8]byte
	ascii          string
	shortGraphemes [2]int32
	graphemes      []int32

	// subtexts is the rope's flat child list. The copy-on-write array
	// lets slicing share a suffix of a parent's children without
	// copying.
	subtexts varray.Array[Text]
}

// newSubtext wraps an already-flat child list as a depth-1 rope node.
func newSubtext(length int64, children []Text) Text {
	return Text{tag: kindSubtext, length: length, subtexts: varray.New(children)}
}

// sub returns the i'th (0-based) rope child.
func (t Text) sub(i int) Text {
	child, _ := t.subtexts.Get(i + 1)
	return child
}

// Empty is the empty text, also used as the sentinel result for invalid
// UTF-8 input to FromString.
var Empty = Text{}

// Len returns the text's length in grapheme clusters.
func (t Text) Len() int64 { return t.length }

// FromString builds a Text from UTF-8 bytes. Invalid UTF-8 yields the
// empty text. An all-ASCII input is stored without decoding; anything
// else is NFC-normalized and segmented into grapheme codes.
func FromString(s string) Text {
	asciiSpan := 0
	for asciiSpan < len(s) && s[asciiSpan] < 0x80 {
		asciiSpan++
	}
	if asciiSpan == len(s) {
		return fromASCII(s)
	}
	if !utf8.ValidString(s) {
		return Empty
	}
	return FromRunes([]rune(s))
}

func fromASCII(s string) Text {
	t := Text{length: int64(len(s))}
	if len(s) <= 8 {
		t.tag = kindShortASCII
		copy(t.shortASCII[:], s)
	} else {
		t.tag = kindASCII
		t.ascii = s
	}
	return t
}

// FromRunes builds a Text from a UTF-32 sequence, normalizing to NFC
// first.
func FromRunes(runes []rune) Text {
	return fromRunes(runes, true)
}

// fromRunes segments a rune sequence into grapheme codes, optionally
// NFC-normalizing first. Case-mapping calls pass normalize=false because
// the Unicode case algorithms preserve NFC.
func fromRunes(runes []rune, normalize bool) Text {
	if len(runes) == 0 {
		return Empty
	}
	if normalize {
		runes = grapheme.NFC(runes)
	}

	var codes []int32
	var short [2]int32
	n := 0
	rest := string(runes)
	state := -1
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		var code int32
		if c, size := utf8.DecodeRuneInString(cluster); size == len(cluster) {
			code = int32(c)
		} else {
			code = grapheme.Default().Intern([]rune(cluster))
		}
		if codes == nil && n < 2 {
			short[n] = code
		} else {
			if codes == nil {
				codes = make([]int32, 0, len(runes))
				codes = append(codes, short[:n]...)
			}
			codes = append(codes, code)
		}
		n++
	}

	if codes == nil {
		return Text{tag: kindShortGraphemes, length: int64(n), shortGraphemes: short}
	}
	return Text{tag: kindGraphemes, length: int64(n), graphemes: codes}
}

// FromGraphemeCodes wraps an existing grapheme-code slice without
// copying. The codes must already be NFG-normalized (each element one
// grapheme); callers are the rope internals and tests.
func FromGraphemeCodes(codes []int32) Text {
	switch len(codes) {
	case 0:
		return Empty
	case 1:
		return Text{tag: kindShortGraphemes, length: 1, shortGraphemes: [2]int32{codes[0]}}
	case 2:
		return Text{tag: kindShortGraphemes, length: 2, shortGraphemes: [2]int32{codes[0], codes[1]}}
	default:
		return Text{tag: kindGraphemes, length: int64(len(codes)), graphemes: codes}
	}
}

// numSubtexts returns how many children a subtext has (1 for leaves).
func (t Text) numSubtexts() int {
	if t.tag != kindSubtext {
		return 1
	}
	return t.subtexts.Len()
}

// NumSubtexts reports the rope fan-out, for tests of the bulk builder's
// bounds.
func (t Text) NumSubtexts() int { return t.numSubtexts() }

// graphemeAt returns the grapheme code at the 0-based index, walking
// into subtext children as needed. O(children) for subtexts; use Iter
// for sequential access.
func (t Text) graphemeAt(i int64) int32 {
	if i < 0 || i >= t.length {
		return 0
	}
	switch t.tag {
	case kindShortASCII:
		return int32(t.shortASCII[i])
	case kindASCII:
		return int32(t.ascii[i])
	case kindShortGraphemes:
		return t.shortGraphemes[i]
	case kindGraphemes:
		return t.graphemes[i]
	case kindSubtext:
		for s := 0; s < t.subtexts.Len(); s++ {
			sub := t.sub(s)
			if i < sub.length {
				return sub.graphemeAt(i)
			}
			i -= sub.length
		}
	}
	return 0
}

// GraphemeAt returns the grapheme code at the 1-based index; negative
// indices count from the end. Out-of-range returns 0.
func (t Text) GraphemeAt(i int64) int32 {
	if i < 0 {
		i = t.length + i + 1
	}
	return t.graphemeAt(i - 1)
}

// graphemeRunes returns the codepoint sequence of a single grapheme
// code: one element for scalars, the interned cluster for synthetics.
func graphemeRunes(code int32) []rune {
	if code >= 0 {
		return []rune{rune(code)}
	}
	return grapheme.Default().Lookup(code).Codepoints
}

// appendGraphemeUTF8 appends the UTF-8 encoding of one grapheme code.
func appendGraphemeUTF8(buf []byte, code int32) []byte {
	if code >= 0 {
		return utf8.AppendRune(buf, rune(code))
	}
	return append(buf, grapheme.Default().Lookup(code).UTF8...)
}

// String renders the text as a UTF-8 Go string.
func (t Text) String() string {
	return string(t.UTF8Bytes())
}

// UTF8Bytes encodes the text as UTF-8.
func (t Text) UTF8Bytes() []byte {
	buf := make([]byte, 0, t.length+t.length/2)
	return t.appendUTF8(buf)
}

func (t Text) appendUTF8(buf []byte) []byte {
	switch t.tag {
	case kindShortASCII:
		return append(buf, t.shortASCII[:t.length]...)
	case kindASCII:
		return append(buf, t.ascii...)
	case kindShortGraphemes:
		for _, g := range t.shortGraphemes[:t.length] {
			buf = appendGraphemeUTF8(buf, g)
		}
		return buf
	case kindGraphemes:
		for _, g := range t.graphemes {
			buf = appendGraphemeUTF8(buf, g)
		}
		return buf
	case kindSubtext:
		t.subtexts.Each(func(_ int, sub Text) {
			buf = sub.appendUTF8(buf)
		})
		return buf
	}
	return buf
}

// UTF32Codepoints returns the text's codepoints after NFG expansion of
// synthetic graphemes.
func (t Text) UTF32Codepoints() []rune {
	out := make([]rune, 0, t.length)
	it := NewIter(t)
	for i := int64(0); i < t.length; i++ {
		out = append(out, graphemeRunes(it.GraphemeAt(i))...)
	}
	return out
}

// FromCodepoints is the inverse of UTF32Codepoints up to NFG
// normalization.
func FromCodepoints(codepoints []rune) Text {
	return FromRunes(codepoints)
}

// FromBytes is the inverse of UTF8Bytes up to NFG normalization.
func FromBytes(b []byte) Text {
	return FromString(string(b))
}

// Clusters returns each grapheme cluster as its own single-grapheme
// text.
func (t Text) Clusters() []Text {
	out := make([]Text, 0, t.length)
	it := NewIter(t)
	for i := int64(0); i < t.length; i++ {
		code := it.GraphemeAt(i)
		out = append(out, Text{tag: kindShortGraphemes, length: 1, shortGraphemes: [2]int32{code}})
	}
	return out
}
