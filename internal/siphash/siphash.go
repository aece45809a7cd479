// Package siphash implements SipHash-2-4 with a streaming interface. It
// backs text hashing, the grapheme interner's cluster lookup, and
// internal/htable's key hashing.
package siphash

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
)

// Key is a 128-bit SipHash key.
type Key struct {
	K0, K1 uint64
}

var (
	globalOnce sync.Once
	globalKey  Key
)

// Global returns the process-wide key, randomized once from the OS RNG
// at first use.
func Global() Key {
	globalOnce.Do(func() {
		var buf [16]byte
		if _, err := rand.Read(buf[:]); err != nil {
			panic("siphash: failed to seed global key: " + err.Error())
		}
		globalKey = Key{
			K0: binary.LittleEndian.Uint64(buf[0:8]),
			K1: binary.LittleEndian.Uint64(buf[8:16]),
		}
	})
	return globalKey
}

// Hasher is reusable streaming SipHash-2-4 state: callers add 64-bit
// words at a time and finish with whatever partial tail remains, so
// composite values (text graphemes, array items, struct fields) hash
// without materializing one flat buffer.
type Hasher struct {
	v0, v1, v2, v3 uint64
	length         uint8 // low byte of total length, folded into the final block
	tail           [8]byte
	tailLen        int
}

// Init starts a new streaming hash under the given key.
func (h *Hasher) Init(key Key) {
	h.v0 = 0x736f6d6570736575 ^ key.K0
	h.v1 = 0x646f72616e646f6d ^ key.K1
	h.v2 = 0x6c7967656e657261 ^ key.K0
	h.v3 = 0x7465646279746573 ^ key.K1
	h.length = 0
	h.tailLen = 0
}

func rotl(x uint64, b uint) uint64 { return (x << b) | (x >> (64 - b)) }

func (h *Hasher) sipRound() {
	h.v0 += h.v1
	h.v1 = rotl(h.v1, 13)
	h.v1 ^= h.v0
	h.v0 = rotl(h.v0, 32)
	h.v2 += h.v3
	h.v3 = rotl(h.v3, 16)
	h.v3 ^= h.v2
	h.v0 += h.v3
	h.v3 = rotl(h.v3, 21)
	h.v3 ^= h.v0
	h.v2 += h.v1
	h.v1 = rotl(h.v1, 17)
	h.v1 ^= h.v2
	h.v2 = rotl(h.v2, 32)
}

// Add64 folds in one little-endian 64-bit word (the "c" rounds of
// SipHash-2-4: two compression rounds per word).
func (h *Hasher) Add64(word uint64) {
	h.length += 8
	h.v3 ^= word
	h.sipRound()
	h.sipRound()
	h.v0 ^= word
}

// AddBytes folds in an arbitrary byte slice, buffering a sub-8-byte tail
// across calls so repeated small writes (e.g. one grapheme at a time)
// still produce the same hash as a single bulk write.
func (h *Hasher) AddBytes(data []byte) {
	for len(data) > 0 {
		n := copy(h.tail[h.tailLen:], data)
		h.tailLen += n
		data = data[n:]
		if h.tailLen == 8 {
			h.Add64(binary.LittleEndian.Uint64(h.tail[:]))
			h.tailLen = 0
		}
	}
}

// FinishLastPart finalizes the hash, folding in the buffered tail bytes
// and the total length, and running the four finalization rounds.
func (h *Hasher) FinishLastPart() uint64 {
	var last [8]byte
	copy(last[:], h.tail[:h.tailLen])
	last[7] = h.length + uint8(h.tailLen)

	word := binary.LittleEndian.Uint64(last[:])
	h.v3 ^= word
	h.sipRound()
	h.sipRound()
	h.v0 ^= word

	h.v2 ^= 0xff
	h.sipRound()
	h.sipRound()
	h.sipRound()
	h.sipRound()

	return h.v0 ^ h.v1 ^ h.v2 ^ h.v3
}

// Hash computes SipHash-2-4 over data in one call under the global key.
func Hash(data []byte) uint64 {
	return HashWithKey(Global(), data)
}

// HashWithKey computes SipHash-2-4 over data under an explicit key.
func HashWithKey(key Key, data []byte) uint64 {
	var h Hasher
	h.Init(key)
	h.AddBytes(data)
	return h.FinishLastPart()
}

// HashInt32s hashes a sequence of int32 values treating each as a
// little-endian word, matching the grapheme-sequence hashing rule in the
// text runtime's hash contract.
func HashInt32s(key Key, values []int32) uint64 {
	var h Hasher
	h.Init(key)
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(v))
	}
	h.AddBytes(buf)
	return h.FinishLastPart()
}
