// Package varray implements the copy-on-write, stride-addressed packed
// array used as the backing store for the text rope's subtext list
// (internal/text): a length/stride pair over a shared backing slice,
// with compaction happening lazily on the first write after a share.
package varray

// Array is a copy-on-write, stride-addressed view over a backing slice.
// The zero value is a valid empty array.
//
// Stride is a step over elements of T, so Slice, By, and Reversed can
// skip elements or flip traversal direction without copying; any write
// through a shared or strided view compacts into a fresh packed backing
// first.
type Array[T any] struct {
	data   []T
	offset int // index into data of logical element 0
	length int
	stride int // step between logical elements, may be negative
	shared *int32
}

// New wraps an existing slice as an Array with stride 1. The slice is
// taken by reference; mutating it outside the Array afterwards is the
// caller's responsibility to avoid.
func New[T any](items []T) Array[T] {
	if len(items) == 0 {
		return Array[T]{}
	}
	refs := int32(0)
	return Array[T]{data: items, length: len(items), stride: 1, shared: &refs}
}

// Of builds an Array from the given items, copying them into a fresh
// backing slice.
func Of[T any](items ...T) Array[T] {
	cp := make([]T, len(items))
	copy(cp, items)
	return New(cp)
}

// Len returns the number of logical elements.
func (a Array[T]) Len() int { return a.length }

func (a Array[T]) index(i int) int {
	// 1-based; negative indices count from the end.
	if i < 0 {
		i += a.length + 1
	}
	return i - 1
}

// Get returns the i'th element (1-based, negative indices count from the
// end) and whether the index was in range.
func (a Array[T]) Get(i int) (T, bool) {
	off := a.index(i)
	if off < 0 || off >= a.length {
		var zero T
		return zero, false
	}
	return a.data[a.offset+off*a.stride], true
}

// Set assigns the i'th element, compacting the backing slice first if it
// is shared with another Array (copy-on-write).
func (a *Array[T]) Set(i int, value T) bool {
	off := a.index(i)
	if off < 0 || off >= a.length {
		return false
	}
	a.compactIfShared()
	a.data[a.offset+off*a.stride] = value
	return true
}

// compactIfShared copies the backing slice into a fresh, densely packed
// (stride 1) buffer whenever more than one Array refers to it, or whenever
// the stride isn't 1 (so in-place writes would corrupt a logical view
// built via By/Reversed).
func (a *Array[T]) compactIfShared() {
	if a.shared != nil && *a.shared == 0 && a.stride == 1 && a.offset == 0 {
		return
	}
	fresh := make([]T, a.length)
	for i := 0; i < a.length; i++ {
		fresh[i] = a.data[a.offset+i*a.stride]
	}
	if a.shared != nil && *a.shared > 0 {
		*a.shared--
	}
	refs := int32(0)
	a.data = fresh
	a.offset = 0
	a.stride = 1
	a.shared = &refs
}

// Copy returns a shallow, reference-counted copy: both the receiver and
// the result observe writes made through compaction, never through each
// other, because any write compacts first.
func (a Array[T]) Copy() Array[T] {
	if a.shared == nil {
		refs := int32(0)
		a.shared = &refs
	}
	if *a.shared < 1<<30 {
		*a.shared++
	}
	return a
}

// Slice returns the 1-based inclusive subrange [first, last], sharing the
// backing slice (no copy).
func (a Array[T]) Slice(first, last int) Array[T] {
	if first < 0 {
		first += a.length + 1
	}
	if last < 0 {
		last += a.length + 1
	}
	if first < 1 {
		first = 1
	}
	if last > a.length {
		last = a.length
	}
	if first > last {
		return Array[T]{}
	}
	out := a.Copy()
	out.offset = a.offset + (first-1)*a.stride
	out.length = last - first + 1
	return out
}

// By returns a view that steps over every n'th element without copying.
// n may be negative, which also reverses traversal order; Reversed is
// By(-1).
func (a Array[T]) By(n int) Array[T] {
	if n == 0 {
		return Array[T]{}
	}
	out := a.Copy()
	if n > 0 {
		out.length = (a.length + n - 1) / n
		out.stride = a.stride * n
		return out
	}
	// Negative stride: start from the logical last element.
	n = -n
	out.length = (a.length + n - 1) / n
	out.offset = a.offset + (a.length-1)*a.stride
	out.stride = -a.stride * n
	return out
}

// Reversed returns a view with element order flipped, without copying.
func (a Array[T]) Reversed() Array[T] {
	return a.By(-1)
}

// Append grows the array, compacting first if shared; amortized O(1).
func (a *Array[T]) Append(item T) {
	a.compactIfShared()
	if a.stride != 1 {
		a.compactIfShared()
	}
	if a.offset+a.length < len(a.data) {
		a.data = a.data[:a.offset+a.length+1]
	} else {
		a.data = append(a.data, item)
	}
	a.data[a.offset+a.length] = item
	a.length++
}

// Slices materializes the logical view as a fresh, densely packed slice.
func (a Array[T]) Slices() []T {
	out := make([]T, a.length)
	for i := 0; i < a.length; i++ {
		out[i] = a.data[a.offset+i*a.stride]
	}
	return out
}

// Each iterates logical elements in order, honoring stride/direction.
func (a Array[T]) Each(fn func(index int, item T)) {
	for i := 0; i < a.length; i++ {
		fn(i, a.data[a.offset+i*a.stride])
	}
}
