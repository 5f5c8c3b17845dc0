package token

import (
	"encoding/binary"

	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
)

// AccountLen is the size of the data region of a token account.
const AccountLen = 2*tlescrow.AddressLength + 8 + 1

// ProgramID is the identity of the token program.
var ProgramID = tlescrow.AddressFromSeed("program/token")

// Account is the state stored in a token account.
type Account struct {
	Mint        tlescrow.Address
	Authority   tlescrow.Address
	Amount      uint64
	Initialized bool
}

// Pack serializes the account into its fixed width layout.
func (a Account) Pack() []byte {
	raw := make([]byte, AccountLen)
	copy(raw[0:32], a.Mint[:])
	copy(raw[32:64], a.Authority[:])
	binary.LittleEndian.PutUint64(raw[64:72], a.Amount)
	if a.Initialized {
		raw[72] = 1
	}
	return raw
}

// Unpack parses raw data of a token account. An account that was allocated
// but never initialized fails with ErrUninitializedAccount.
func Unpack(raw []byte) (Account, error) {
	var a Account
	if len(raw) != AccountLen {
		return a, errors.Wrapf(errors.ErrInvalidAccountData, "token account of %d bytes", len(raw))
	}
	switch raw[72] {
	case 0:
		return a, errors.ErrUninitializedAccount
	case 1:
	default:
		return a, errors.Wrapf(errors.ErrInvalidAccountData, "initialized flag %d", raw[72])
	}
	copy(a.Mint[:], raw[0:32])
	copy(a.Authority[:], raw[32:64])
	a.Amount = binary.LittleEndian.Uint64(raw[64:72])
	a.Initialized = true
	return a, nil
}

// load returns the token state of an account owned by this program.
func load(acc *tlescrow.AccountInfo) (Account, error) {
	if !acc.IsOwnedBy(ProgramID) {
		return Account{}, errors.Wrapf(errors.ErrWrongOwner, "account %s is not a token account", acc.Key)
	}
	a, err := Unpack(acc.Data)
	if err != nil {
		return a, errors.Wrapf(err, "account %s", acc.Key)
	}
	return a, nil
}

func store(acc *tlescrow.AccountInfo, a Account) {
	acc.Data = a.Pack()
}
