package token

import (
	"encoding/binary"

	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
	"github.com/iov-one/tlescrow/ledger"
)

const (
	tagInitializeAccount uint8 = iota
	tagTransfer
	tagSetAuthority
	tagCloseAccount
)

// InitializeAccount sets up an allocated account to hold tokens of a mint.
//
// Accounts: [account (writable), mint, authority, rent sysvar]
type InitializeAccount struct{}

// Transfer moves tokens between accounts of the same mint.
//
// Accounts: [from (writable), to (writable), authority (signer)]
type Transfer struct {
	Amount uint64
}

// SetAuthority changes the authority of an account.
//
// Accounts: [account (writable), current authority (signer)]
type SetAuthority struct {
	NewAuthority tlescrow.Address
}

// CloseAccount releases an empty account.
//
// Accounts: [account (writable), destination (writable), authority (signer)]
type CloseAccount struct{}

func decode(data []byte) (interface{}, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInstruction, "empty")
	}
	tag, rest := data[0], data[1:]
	switch tag {
	case tagInitializeAccount:
		if len(rest) != 0 {
			return nil, errors.Wrap(errors.ErrInvalidInstruction, "initialize account")
		}
		return InitializeAccount{}, nil
	case tagTransfer:
		if len(rest) != 8 {
			return nil, errors.Wrap(errors.ErrInvalidInstruction, "transfer")
		}
		return Transfer{Amount: binary.LittleEndian.Uint64(rest)}, nil
	case tagSetAuthority:
		if len(rest) != tlescrow.AddressLength {
			return nil, errors.Wrap(errors.ErrInvalidInstruction, "set authority")
		}
		var ins SetAuthority
		copy(ins.NewAuthority[:], rest)
		return ins, nil
	case tagCloseAccount:
		if len(rest) != 0 {
			return nil, errors.Wrap(errors.ErrInvalidInstruction, "close account")
		}
		return CloseAccount{}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInstruction, "unknown tag %d", tag)
	}
}

// NewInitializeAccount builds an instruction initializing a token account.
func NewInitializeAccount(account, mint, authority tlescrow.Address) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.Writable(account, false),
			ledger.ReadOnly(mint, false),
			ledger.ReadOnly(authority, false),
			ledger.ReadOnly(tlescrow.RentSysvarID, false),
		},
		Data: []byte{tagInitializeAccount},
	}
}

// NewTransfer builds an instruction moving tokens, signed by the authority
// of the source account.
func NewTransfer(from, to, authority tlescrow.Address, amount uint64) ledger.Instruction {
	data := make([]byte, 1+8)
	data[0] = tagTransfer
	binary.LittleEndian.PutUint64(data[1:], amount)
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.Writable(from, false),
			ledger.Writable(to, false),
			ledger.ReadOnly(authority, true),
		},
		Data: data,
	}
}

// NewSetAuthority builds an instruction handing control of an account to a
// new authority.
func NewSetAuthority(account, authority, newAuthority tlescrow.Address) ledger.Instruction {
	data := make([]byte, 1+tlescrow.AddressLength)
	data[0] = tagSetAuthority
	copy(data[1:], newAuthority[:])
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.Writable(account, false),
			ledger.ReadOnly(authority, true),
		},
		Data: data,
	}
}

// NewCloseAccount builds an instruction closing an empty account.
func NewCloseAccount(account, destination, authority tlescrow.Address) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.Writable(account, false),
			ledger.Writable(destination, false),
			ledger.ReadOnly(authority, true),
		},
		Data: []byte{tagCloseAccount},
	}
}
