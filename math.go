package tlescrow

import (
	"math"

	"github.com/iov-one/tlescrow/errors"
)

// CheckedAdd returns the sum of two balances or an overflow error. Balances
// are never wrapped or saturated.
func CheckedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return a + b, nil
}

// CheckedSub returns a - b or an insufficient funds error.
func CheckedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errors.Wrapf(errors.ErrInsufficientFunds, "%d - %d", a, b)
	}
	return a - b, nil
}
