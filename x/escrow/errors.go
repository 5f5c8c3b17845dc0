package escrow

import (
	"github.com/iov-one/tlescrow/errors"
)

// escrow takes codes 1000-1010
var (
	ErrExpectedAmountMismatch = errors.Register(1000, "expected amount mismatch")
	ErrNotRentExempt          = errors.Register(1001, "not rent exempt")
)
