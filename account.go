package tlescrow

import (
	"bytes"

	"github.com/iov-one/tlescrow/errors"
)

// AccountInfo is the handle a program receives for every account named by an
// instruction. Programs mutate Lamports and Data in place; the runtime
// persists the result once the whole request succeeded.
type AccountInfo struct {
	Key      Address
	Lamports uint64
	// Owner is the program allowed to modify Data and debit Lamports.
	Owner Address
	Data  []byte

	IsSigner   bool
	IsWritable bool
}

// Clone returns a deep copy of the account.
func (a *AccountInfo) Clone() *AccountInfo {
	c := *a
	if a.Data != nil {
		c.Data = make([]byte, len(a.Data))
		copy(c.Data, a.Data)
	}
	return &c
}

// Equals compares the persisted state of two accounts. Signer and writable
// flags are per request and are ignored.
func (a *AccountInfo) Equals(b *AccountInfo) bool {
	return a.Key == b.Key &&
		a.Lamports == b.Lamports &&
		a.Owner == b.Owner &&
		bytes.Equal(a.Data, b.Data)
}

// IsOwnedBy returns true if given program owns the account.
func (a *AccountInfo) IsOwnedBy(program Address) bool {
	return a.Owner.Equals(program)
}

// NextAccount pops the first account from the list. It fails when the list
// is exhausted, which means the caller presented fewer accounts than the
// instruction requires.
func NextAccount(accounts *[]*AccountInfo) (*AccountInfo, error) {
	if len(*accounts) == 0 {
		return nil, errors.ErrNotEnoughAccountKeys
	}
	acc := (*accounts)[0]
	*accounts = (*accounts)[1:]
	return acc, nil
}
