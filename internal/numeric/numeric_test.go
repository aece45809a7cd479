package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt(t *testing.T) {
	t.Parallel()
	tests := []struct {
		digits string
		want   int64
	}{
		{"0", 0},
		{"1234", 1234},
		{"-42", -42},
		{"0xff", 255},
		{"0o777", 511},
		{"0b1010", 10},
	}
	for _, tt := range tests {
		i, err := ParseInt(tt.digits)
		require.NoError(t, err, "digits %q", tt.digits)
		v, ok := i.Int64()
		require.True(t, ok)
		assert.Equal(t, tt.want, v)
	}

	_, err := ParseInt("12abc")
	assert.Error(t, err)
}

func TestFitsBits(t *testing.T) {
	t.Parallel()
	i, err := ParseInt("127")
	require.NoError(t, err)
	assert.True(t, i.FitsBits(8))

	i, err = ParseInt("128")
	require.NoError(t, err)
	assert.False(t, i.FitsBits(8))
	assert.True(t, i.FitsBits(16))

	i, err = ParseInt("-128")
	require.NoError(t, err)
	assert.True(t, i.FitsBits(8))
	assert.True(t, i.Negative())

	huge, err := ParseInt("170141183460469231731687303715884105728")
	require.NoError(t, err)
	assert.False(t, huge.FitsBits(64))
	_, ok := huge.Int64()
	assert.False(t, ok)
}
