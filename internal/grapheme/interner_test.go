package grapheme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternAssignsDenseNegativeIDs(t *testing.T) {
	t.Parallel()
	tbl := NewTable()
	a := tbl.Intern([]rune{'e', 0x0329})
	b := tbl.Intern([]rune{'a', 0x0301, 0x0302})
	assert.Equal(t, int32(-1), a)
	assert.Equal(t, int32(-2), b)
	assert.Equal(t, 2, tbl.Len())

	// Re-interning returns the same ID without growing.
	assert.Equal(t, a, tbl.Intern([]rune{'e', 0x0329}))
	assert.Equal(t, 2, tbl.Len())
}

func TestLookup(t *testing.T) {
	t.Parallel()
	tbl := NewTable()
	id := tbl.Intern([]rune{'e', 0x0329})
	c := tbl.Lookup(id)
	assert.Equal(t, []rune{'e', 0x0329}, c.Codepoints)
	assert.Equal(t, []byte("e̩"), c.UTF8)
	assert.Equal(t, 'e', c.Main)

	assert.Panics(t, func() { tbl.Lookup(-99) })
	assert.Panics(t, func() { tbl.Lookup(1) })
}

func TestMainCodepointSkipsPrependedMarks(t *testing.T) {
	t.Parallel()
	tbl := NewTable()
	// U+0600 ARABIC NUMBER SIGN is a prepended concatenation mark.
	id := tbl.Intern([]rune{0x0600, '1'})
	assert.Equal(t, '1', tbl.Lookup(id).Main)
}

func TestSimilarClustersStayDistinct(t *testing.T) {
	t.Parallel()
	tbl := NewTable()
	a := tbl.Intern([]rune{'e', 0x0329})
	b := tbl.Intern([]rune{'e', 0x0330})
	require.NotEqual(t, a, b)
}

func TestNFC(t *testing.T) {
	t.Parallel()
	// e + combining acute composes to é.
	assert.Equal(t, []rune{0xE9}, NFC([]rune{'e', 0x0301}))
	assert.Equal(t, []rune("abc"), NFC([]rune("abc")))
}
