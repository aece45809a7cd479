// Package grapheme implements the process-wide synthetic grapheme
// interner.
//
// A grapheme code is a 32-bit signed integer: non-negative values are
// plain Unicode scalar values, negative values index into this
// interner's table of multi-codepoint clusters. IDs are assigned densely
// starting at -1 and are never reused for the lifetime of the process.
package grapheme

import (
	"sync"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/tomo-lang/tomoc/internal/htable"
	"github.com/tomo-lang/tomoc/internal/siphash"
)

// Cluster holds the decoded information for one interned multi-codepoint
// grapheme cluster.
type Cluster struct {
	// Codepoints is the cluster's UTF-32 code points, in order.
	Codepoints []rune
	// UTF8 is the cluster's pre-encoded UTF-8 bytes.
	UTF8 []byte
	// Main is the cluster's "main" codepoint: the first code point that
	// is not a Unicode prepended_concatenation_mark, used for case
	// mapping and fast-path comparisons. Falls back to the first code
	// point if the whole cluster is prepended-concatenation marks.
	Main rune
}

// Table is an interner instance. Most callers should use the
// process-wide Default table via Intern/Lookup.
//
// The cluster lookup is a chained-scatter htable keyed on the cluster's
// length-prefixed UTF-32 bytes; entries are append-only, so IDs handed
// out under the mutex stay valid for the life of the table.
type Table struct {
	mu      sync.Mutex
	byKey   *htable.Table[string, int32]
	entries []Cluster
	lastID  int32 // most recently interned ID, a one-entry hot-path cache
	lastKey string
}

// NewTable constructs an empty interner.
func NewTable() *Table {
	return &Table{byKey: htable.New[string, int32](
		func(key string) uint64 { return siphash.Hash([]byte(key)) },
		func(a, b string) bool { return a == b },
	)}
}

func keyFor(codepoints []rune) string {
	buf := make([]byte, 0, 4*(len(codepoints)+1))
	buf = appendRune32(buf, int32(len(codepoints)))
	for _, r := range codepoints {
		buf = appendRune32(buf, r)
	}
	return string(buf)
}

func appendRune32(buf []byte, v int32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// Intern returns the negative synthetic grapheme ID for the given
// multi-codepoint cluster, assigning a new one if this is the first time
// the cluster has been seen. codepoints must have length >= 2 (single
// codepoints are represented directly and never interned).
func (t *Table) Intern(codepoints []rune) int32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := keyFor(codepoints)
	if t.lastID != 0 && key == t.lastKey {
		return t.lastID
	}
	if id, ok := t.byKey.Get(key); ok {
		t.lastID, t.lastKey = id, key
		return id
	}

	id := -(int32(len(t.entries)) + 1)

	cp := make([]rune, len(codepoints))
	copy(cp, codepoints)

	u8 := make([]byte, 0, utf8.UTFMax*len(codepoints))
	for _, r := range codepoints {
		u8 = utf8.AppendRune(u8, r)
	}

	main := codepoints[0]
	for _, r := range codepoints {
		if !isPrependedConcatenationMark(r) {
			main = r
			break
		}
	}

	t.entries = append(t.entries, Cluster{Codepoints: cp, UTF8: u8, Main: main})
	t.byKey.Set(key, id)
	t.lastID, t.lastKey = id, key
	return id
}

// Lookup returns the cluster for a previously interned negative ID.
// Panics if id is not a valid synthetic grapheme ID produced by this
// table, since entries are append-only and IDs are never reused.
func (t *Table) Lookup(id int32) Cluster {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := -id - 1
	if idx < 0 || int(idx) >= len(t.entries) {
		panic("grapheme: invalid synthetic grapheme id")
	}
	return t.entries[idx]
}

// Len reports how many distinct clusters have been interned.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// isPrependedConcatenationMark reports whether r has the Unicode
// Prepended_Concatenation_Mark property (a small, closed set: Arabic
// number signs and a few others that attach to what follows them rather
// than what precedes them).
func isPrependedConcatenationMark(r rune) bool {
	switch r {
	case 0x0600, 0x0601, 0x0602, 0x0603, 0x0604, 0x0605, 0x06DD, 0x070F, 0x0890, 0x0891, 0x08E2, 0x110BD, 0x110CD:
		return true
	default:
		return false
	}
}

var defaultTable = NewTable()

// Default is the process-wide interner used by package text.
func Default() *Table { return defaultTable }

// NFC normalizes a rune sequence to Normalization Form C.
func NFC(runes []rune) []rune {
	var buf []byte
	for _, r := range runes {
		buf = utf8.AppendRune(buf, r)
	}
	normalized := norm.NFC.Bytes(buf)
	out := make([]rune, 0, len(runes))
	for len(normalized) > 0 {
		r, size := utf8.DecodeRune(normalized)
		out = append(out, r)
		normalized = normalized[size:]
	}
	return out
}
