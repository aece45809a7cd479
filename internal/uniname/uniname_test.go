package uniname

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "LATIN SMALL LETTER A", Name('a'))
	assert.Equal(t, "SNOWMAN", Name('☃'))
	assert.Empty(t, Name(0x0007), "control characters have no character name")
}

func TestLookup(t *testing.T) {
	t.Parallel()
	r, ok := Lookup("LATIN SMALL LETTER A")
	require.True(t, ok)
	assert.Equal(t, 'a', r)

	r, ok = Lookup("snowman")
	require.True(t, ok)
	assert.Equal(t, '☃', r)

	_, ok = Lookup("NOT A REAL CHARACTER NAME")
	assert.False(t, ok)
}
