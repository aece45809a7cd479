// Package htable implements a chained-scatter hash table with Brent's
// variation. It backs the grapheme interner's cluster lookup
// (internal/grapheme) and is available to the build orchestrator for any
// open-addressing need that wants O(1) deletion without disturbing
// unrelated entries.
//
// Keys and values are stored in a packed entries slice, with a parallel
// bucket array steering collision chains. Both arrays carry saturating
// reference counts so the table supports structural-sharing copies,
// compacting lazily on the first write after a share.
package htable

const endOfChain = ^uint32(0)

type bucket struct {
	occupied bool
	index    uint32
	next     uint32
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Table is a generic chained-scatter hash table keyed on a comparable
// type. The zero value is an empty, usable table.
type Table[K comparable, V any] struct {
	entries      []entry[K, V]
	entriesRefs  *int32
	buckets      []bucket
	bucketsRefs  *int32
	lastFree     int
	hash         func(K) uint64
	equal        func(K, K) bool
}

// New creates a table using the given hash and equality functions.
func New[K comparable, V any](hash func(K) uint64, equal func(K, K) bool) *Table[K, V] {
	return &Table[K, V]{hash: hash, equal: equal}
}

// Len returns the number of entries.
func (t *Table[K, V]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

func (t *Table[K, V]) bucketIndex(k K) uint64 {
	return t.hash(k) % uint64(len(t.buckets))
}

// Get returns the value for k and whether it was present.
func (t *Table[K, V]) Get(k K) (V, bool) {
	var zero V
	if t == nil || len(t.buckets) == 0 {
		return zero, false
	}
	i := t.bucketIndex(k)
	for t.buckets[i].occupied {
		e := &t.entries[t.buckets[i].index]
		if t.equal(e.key, k) {
			return e.value, true
		}
		if t.buckets[i].next == endOfChain {
			break
		}
		i = uint64(t.buckets[i].next)
	}
	return zero, false
}

func (t *Table[K, V]) maybeCopyOnWrite() {
	if t.entriesRefs != nil && *t.entriesRefs > 0 {
		fresh := make([]entry[K, V], len(t.entries))
		copy(fresh, t.entries)
		*t.entriesRefs--
		t.entries = fresh
		t.entriesRefs = nil
	}
	if t.bucketsRefs != nil && *t.bucketsRefs > 0 {
		fresh := make([]bucket, len(t.buckets))
		copy(fresh, t.buckets)
		*t.bucketsRefs--
		t.buckets = fresh
		t.bucketsRefs = nil
	}
}

func (t *Table[K, V]) setBucket(index int) {
	key := t.entries[index].key
	h := t.bucketIndex(key)
	b := &t.buckets[h]
	if !b.occupied {
		b.occupied = true
		b.index = uint32(index)
		b.next = endOfChain
		return
	}

	for t.buckets[t.lastFree].occupied {
		t.lastFree--
	}

	collidedHash := t.bucketIndex(t.entries[b.index].key)
	if collidedHash != h {
		// Collided with a mid-chain entry: find its predecessor and
		// relocate the occupant to the free slot.
		predecessor := collidedHash
		for t.buckets[predecessor].next != uint32(h) {
			predecessor = uint64(t.buckets[predecessor].next)
		}
		t.buckets[predecessor].next = uint32(t.lastFree)
		t.buckets[t.lastFree] = *b
	} else {
		// Collided with the start of a chain: append to its end.
		endOfChainIdx := h
		for t.buckets[endOfChainIdx].next != endOfChain {
			endOfChainIdx = uint64(t.buckets[endOfChainIdx].next)
		}
		t.buckets[endOfChainIdx].next = uint32(t.lastFree)
		b = &t.buckets[t.lastFree]
	}

	b.occupied = true
	b.index = uint32(index)
	b.next = endOfChain
}

func (t *Table[K, V]) resizeBuckets(newCapacity int) {
	t.buckets = make([]bucket, newCapacity)
	t.bucketsRefs = nil
	t.lastFree = newCapacity - 1
	for i := range t.entries {
		t.setBucket(i)
	}
}

// Set inserts or updates the value for k. Growth happens in
// +min(count,64) increments once load reaches 1.0.
func (t *Table[K, V]) Set(k K, v V) {
	if len(t.buckets) == 0 {
		t.resizeBuckets(4)
	} else if i := t.bucketIndex(k); t.buckets[i].occupied {
		for probe := i; t.buckets[probe].occupied; {
			e := &t.buckets[probe]
			if t.equal(t.entries[e.index].key, k) {
				t.maybeCopyOnWrite()
				t.entries[e.index].value = v
				return
			}
			if t.buckets[probe].next == endOfChain {
				break
			}
			probe = uint64(t.buckets[probe].next)
		}
	}

	if len(t.entries) >= len(t.buckets) {
		newSize := len(t.buckets) + min(len(t.buckets), 64)
		t.maybeCopyOnWrite()
		t.resizeBuckets(newSize)
	}

	t.maybeCopyOnWrite()
	t.entries = append(t.entries, entry[K, V]{key: k, value: v})
	t.setBucket(len(t.entries) - 1)
}

// Remove deletes k if present, swapping the last entry into its place to
// keep deletion O(1) (this disturbs iteration order, matching the source).
func (t *Table[K, V]) Remove(k K) {
	if len(t.entries) == 0 {
		return
	}
	t.maybeCopyOnWrite()

	h := t.bucketIndex(k)
	var prev *uint32
	i := h
	found := false
	for t.buckets[i].occupied {
		if t.equal(t.entries[t.buckets[i].index].key, k) {
			found = true
			break
		}
		if t.buckets[i].next == endOfChain {
			return
		}
		prev = &t.buckets[i].next
		i = uint64(t.buckets[i].next)
	}
	if !found {
		return
	}

	bucketIdx := i
	lastEntry := len(t.entries) - 1
	removedIndex := t.buckets[bucketIdx].index
	if int(removedIndex) != lastEntry {
		lastKey := t.entries[lastEntry].key
		j := t.bucketIndex(lastKey)
		for t.buckets[j].index != uint32(lastEntry) {
			j = uint64(t.buckets[j].next)
		}
		t.buckets[j].index = removedIndex
		t.entries[removedIndex] = t.entries[lastEntry]
	}
	var zero entry[K, V]
	t.entries[lastEntry] = zero
	t.entries = t.entries[:lastEntry]

	var bucketToClear uint64
	if prev != nil {
		bucketToClear = bucketIdx
		*prev = t.buckets[bucketIdx].next
	} else if t.buckets[bucketIdx].next != endOfChain {
		bucketToClear = uint64(t.buckets[bucketIdx].next)
		t.buckets[bucketIdx] = t.buckets[bucketToClear]
	} else {
		bucketToClear = bucketIdx
	}
	t.buckets[bucketToClear] = bucket{}
	if int(bucketToClear) > t.lastFree {
		t.lastFree = int(bucketToClear)
	}
}

// Entries returns every (key, value) pair in internal storage order (the
// order Set appended them, disturbed only by Remove's swap-with-last).
func (t *Table[K, V]) Entries() []struct {
	Key   K
	Value V
} {
	out := make([]struct {
		Key   K
		Value V
	}, len(t.entries))
	for i, e := range t.entries {
		out[i].Key, out[i].Value = e.key, e.value
	}
	return out
}

// Copy returns a reference-counted shallow copy; both tables compact
// their backing storage independently on the next write.
func (t *Table[K, V]) Copy() *Table[K, V] {
	if t.entriesRefs == nil {
		var refs int32
		t.entriesRefs = &refs
	}
	if t.bucketsRefs == nil {
		var refs int32
		t.bucketsRefs = &refs
	}
	if *t.entriesRefs < 1<<30 {
		*t.entriesRefs++
	}
	if *t.bucketsRefs < 1<<30 {
		*t.bucketsRefs++
	}
	cp := *t
	return &cp
}
