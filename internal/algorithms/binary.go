package algorithms

import (
	stderrors "errors"
	"fmt"
)

var (
	// ErrLengthMismatch is returned when the two addends differ in width.
	ErrLengthMismatch = stderrors.New("input arrays must have the same length")
	// ErrNotBinary is returned when a digit is neither 0 nor 1.
	ErrNotBinary = stderrors.New("digit is not binary")
)

// AddBinaryIntegers adds two n-bit integers stored most significant bit
// first and returns the (n+1)-bit sum, also most significant bit first.
func AddBinaryIntegers(a, b []uint8) ([]uint8, error) {
	n := len(a)
	if n != len(b) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, n, len(b))
	}
	c := make([]uint8, n+1)
	var carry uint8
	for i := n - 1; i >= 0; i-- {
		if a[i] > 1 || b[i] > 1 {
			return nil, fmt.Errorf("%w at index %d", ErrNotBinary, i)
		}
		sum := a[i] + b[i] + carry
		c[i+1] = sum % 2
		carry = sum / 2
	}
	c[0] = carry
	return c, nil
}
