package token

import (
	"github.com/iov-one/tlescrow/errors"
)

// token takes codes 1100-1110
var (
	ErrMintMismatch = errors.Register(1100, "mint mismatch")
	ErrNotEmpty     = errors.Register(1101, "account not empty")
)
