// Package numeric defines the numeric-runtime boundary the compiler
// front end relies on: parsing integer literal digit strings of
// arbitrary size and classifying whether they fit the fixed-width
// types. The full bignum/decimal runtime is an external collaborator.
package numeric

import (
	"fmt"
	"math/big"
)

// Int is an arbitrary-precision integer literal value.
type Int struct {
	value big.Int
}

// ParseInt parses a literal digit string as stored by the parser:
// optional sign, then decimal or a 0x/0o/0b prefix, underscores already
// stripped.
func ParseInt(digits string) (*Int, error) {
	var i Int
	if _, ok := i.value.SetString(digits, 0); !ok {
		return nil, fmt.Errorf("numeric: invalid integer literal %q", digits)
	}
	return &i, nil
}

// FitsBits reports whether the value fits a signed integer of the given
// width (8, 16, 32, or 64).
func (i *Int) FitsBits(bits int) bool {
	if bits <= 0 || bits > 64 {
		return false
	}
	min := new(big.Int).Lsh(big.NewInt(-1), uint(bits-1))
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits-1)), big.NewInt(1))
	return i.value.Cmp(min) >= 0 && i.value.Cmp(max) <= 0
}

// Int64 returns the value as int64; ok is false when it doesn't fit.
func (i *Int) Int64() (int64, bool) {
	if !i.value.IsInt64() {
		return 0, false
	}
	return i.value.Int64(), true
}

// String renders the value in decimal.
func (i *Int) String() string {
	return i.value.String()
}

// Negative reports whether the value is below zero.
func (i *Int) Negative() bool {
	return i.value.Sign() < 0
}
