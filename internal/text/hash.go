package text

import (
	"encoding/binary"

	"github.com/tomo-lang/tomoc/internal/siphash"
)

// Hash returns the SipHash-2-4 of the grapheme-code sequence, treating
// each int32 as little-endian, under the process-global key. The result
// is cached on the value; a computed hash of 0 is forced to 1 so 0 can
// keep meaning "not yet computed".
func (t *Text) Hash() uint64 {
	if t.hash != 0 {
		return t.hash
	}
	var h siphash.Hasher
	h.Init(siphash.Global())
	var word [4]byte
	it := NewIter(*t)
	for i := int64(0); i < t.length; i++ {
		binary.LittleEndian.PutUint32(word[:], uint32(it.GraphemeAt(i)))
		h.AddBytes(word[:])
	}
	t.hash = h.FinishLastPart()
	if t.hash == 0 {
		t.hash = 1
	}
	return t.hash
}
