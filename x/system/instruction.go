package system

import (
	"encoding/binary"

	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
	"github.com/iov-one/tlescrow/ledger"
)

// ProgramID is the identity of the system program.
var ProgramID = tlescrow.ZeroAddress

const (
	tagCreateAccount uint8 = iota
	tagTransfer
)

// CreateAccount funds a new account and assigns it to an owner program.
//
// Accounts: [payer (signer, writable), new account (signer, writable)]
type CreateAccount struct {
	Lamports uint64
	Space    uint64
	Owner    tlescrow.Address
}

// Transfer moves lamports between wallets.
//
// Accounts: [from (signer, writable), to (writable)]
type Transfer struct {
	Lamports uint64
}

func decode(data []byte) (interface{}, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInstruction, "empty")
	}
	tag, rest := data[0], data[1:]
	switch tag {
	case tagCreateAccount:
		if len(rest) != 8+8+tlescrow.AddressLength {
			return nil, errors.Wrap(errors.ErrInvalidInstruction, "create account")
		}
		ins := CreateAccount{
			Lamports: binary.LittleEndian.Uint64(rest[0:8]),
			Space:    binary.LittleEndian.Uint64(rest[8:16]),
		}
		copy(ins.Owner[:], rest[16:])
		return ins, nil
	case tagTransfer:
		if len(rest) != 8 {
			return nil, errors.Wrap(errors.ErrInvalidInstruction, "transfer")
		}
		return Transfer{Lamports: binary.LittleEndian.Uint64(rest)}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInstruction, "unknown tag %d", tag)
	}
}

// NewCreateAccount builds an instruction creating account as a rent funded
// account of given size owned by owner.
func NewCreateAccount(payer, account tlescrow.Address, lamports, space uint64, owner tlescrow.Address) ledger.Instruction {
	data := make([]byte, 1+8+8+tlescrow.AddressLength)
	data[0] = tagCreateAccount
	binary.LittleEndian.PutUint64(data[1:9], lamports)
	binary.LittleEndian.PutUint64(data[9:17], space)
	copy(data[17:], owner[:])
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.Writable(payer, true),
			ledger.Writable(account, true),
		},
		Data: data,
	}
}

// NewTransfer builds an instruction moving lamports between wallets.
func NewTransfer(from, to tlescrow.Address, lamports uint64) ledger.Instruction {
	data := make([]byte, 1+8)
	data[0] = tagTransfer
	binary.LittleEndian.PutUint64(data[1:], lamports)
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.Writable(from, true),
			ledger.Writable(to, false),
		},
		Data: data,
	}
}
