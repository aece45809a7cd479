package varray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexing(t *testing.T) {
	t.Parallel()
	a := Of(10, 20, 30, 40)
	v, ok := a.Get(1)
	require.True(t, ok)
	assert.Equal(t, 10, v)
	v, ok = a.Get(-1)
	require.True(t, ok)
	assert.Equal(t, 40, v)
	_, ok = a.Get(5)
	assert.False(t, ok)
	_, ok = a.Get(0)
	assert.False(t, ok)
}

func TestSliceSharesBacking(t *testing.T) {
	t.Parallel()
	a := Of(1, 2, 3, 4, 5)
	s := a.Slice(2, 4)
	assert.Equal(t, []int{2, 3, 4}, s.Slices())
	// Negative bounds count from the end.
	assert.Equal(t, []int{4, 5}, a.Slice(-2, -1).Slices())
	assert.Equal(t, 0, a.Slice(4, 2).Len())
}

func TestCopyOnWrite(t *testing.T) {
	t.Parallel()
	a := Of(1, 2, 3)
	b := a.Copy()
	require.True(t, b.Set(1, 99))
	v, _ := a.Get(1)
	assert.Equal(t, 1, v, "write through copy must not alias original")
	v, _ = b.Get(1)
	assert.Equal(t, 99, v)
}

func TestSliceWriteDoesNotLeak(t *testing.T) {
	t.Parallel()
	a := Of(1, 2, 3, 4)
	s := a.Slice(1, 2)
	require.True(t, s.Set(1, 77))
	v, _ := a.Get(1)
	assert.Equal(t, 1, v)
}

func TestByAndReversed(t *testing.T) {
	t.Parallel()
	a := Of(1, 2, 3, 4, 5, 6)
	assert.Equal(t, []int{1, 3, 5}, a.By(2).Slices())
	assert.Equal(t, []int{6, 5, 4, 3, 2, 1}, a.Reversed().Slices())
	assert.Equal(t, []int{6, 4, 2}, a.By(-2).Slices())
	assert.Equal(t, 0, a.By(0).Len())
	// A view of a view composes.
	assert.Equal(t, []int{5, 3, 1}, a.By(2).Reversed().Slices())
}

func TestAppend(t *testing.T) {
	t.Parallel()
	var a Array[string]
	a.Append("x")
	a.Append("y")
	assert.Equal(t, []string{"x", "y"}, a.Slices())

	// Appending to a shared array compacts first.
	b := a.Copy()
	b.Append("z")
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, []string{"x", "y", "z"}, b.Slices())
}

func TestEach(t *testing.T) {
	t.Parallel()
	a := Of(7, 8, 9).Reversed()
	var got []int
	a.Each(func(_ int, item int) { got = append(got, item) })
	assert.Equal(t, []int{9, 8, 7}, got)
}
