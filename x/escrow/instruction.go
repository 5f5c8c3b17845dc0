package escrow

import (
	"encoding/binary"

	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
	"github.com/iov-one/tlescrow/ledger"
)

const (
	tagInitEscrow uint8 = iota
	tagExchange
	tagResetTimeLock
	tagCancel
)

// InitEscrow activates an allocated escrow record.
//
// Accounts:
//   0. initializer (signer)
//   1. temporary deposit token account, controlled by the initializer (writable)
//   2. initializer token account receiving the payment, owned by the token program
//   3. escrow record (writable)
//   4. rent sysvar
type InitEscrow struct {
	// Amount the initializer expects in return.
	Amount uint64
}

// Exchange completes the trade.
//
// Accounts:
//   0. taker (signer)
//   1. taker token account sending the payment (writable)
//   2. taker token account receiving the deposit (writable)
//   3. deposit token account (writable)
//   4. initializer main account (writable)
//   5. initializer token account receiving the payment (writable)
//   6. escrow record (writable)
type Exchange struct {
	// Amount the taker expects to receive. It must match the deposit.
	Amount uint64
}

// ResetTimeLock restarts the unlock and timeout clocks of the escrow.
//
// Accounts:
//   0. initializer (signer)
//   1. escrow record (writable)
type ResetTimeLock struct{}

// Cancel returns the deposit to the initializer.
//
// Accounts:
//   0. initializer (signer)
//   1. deposit token account (writable)
//   2. initializer main account (writable)
//   3. token account receiving the returned deposit (writable)
//   4. escrow record (writable)
type Cancel struct{}

// Decode parses instruction data.
func Decode(data []byte) (interface{}, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInstruction, "empty")
	}
	tag, rest := data[0], data[1:]
	switch tag {
	case tagInitEscrow:
		amount, err := unpackAmount(rest)
		if err != nil {
			return nil, err
		}
		return InitEscrow{Amount: amount}, nil
	case tagExchange:
		amount, err := unpackAmount(rest)
		if err != nil {
			return nil, err
		}
		return Exchange{Amount: amount}, nil
	case tagResetTimeLock:
		return ResetTimeLock{}, nil
	case tagCancel:
		return Cancel{}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInstruction, "unknown tag %d", tag)
	}
}

func unpackAmount(raw []byte) (uint64, error) {
	if len(raw) < 8 {
		return 0, errors.Wrap(errors.ErrInvalidInstruction, "amount")
	}
	return binary.LittleEndian.Uint64(raw[:8]), nil
}

func withAmount(tag uint8, amount uint64) []byte {
	data := make([]byte, 1+8)
	data[0] = tag
	binary.LittleEndian.PutUint64(data[1:], amount)
	return data
}

// NewInitEscrow builds an InitEscrow instruction.
func NewInitEscrow(programID, initializer, deposit, receive, record tlescrow.Address, amount uint64) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: programID,
		Accounts: []ledger.AccountMeta{
			ledger.ReadOnly(initializer, true),
			ledger.Writable(deposit, false),
			ledger.ReadOnly(receive, false),
			ledger.Writable(record, false),
			ledger.ReadOnly(tlescrow.RentSysvarID, false),
		},
		Data: withAmount(tagInitEscrow, amount),
	}
}

// NewExchange builds an Exchange instruction.
func NewExchange(
	programID, taker, takerSending, takerReceive, deposit, initializer, initializerReceive, record tlescrow.Address,
	amount uint64,
) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: programID,
		Accounts: []ledger.AccountMeta{
			ledger.ReadOnly(taker, true),
			ledger.Writable(takerSending, false),
			ledger.Writable(takerReceive, false),
			ledger.Writable(deposit, false),
			ledger.Writable(initializer, false),
			ledger.Writable(initializerReceive, false),
			ledger.Writable(record, false),
		},
		Data: withAmount(tagExchange, amount),
	}
}

// NewResetTimeLock builds a ResetTimeLock instruction.
func NewResetTimeLock(programID, initializer, record tlescrow.Address) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: programID,
		Accounts: []ledger.AccountMeta{
			ledger.ReadOnly(initializer, true),
			ledger.Writable(record, false),
		},
		Data: []byte{tagResetTimeLock},
	}
}

// NewCancel builds a Cancel instruction. The initializer signs and its
// main account receives the lamports of the closed accounts.
func NewCancel(programID, initializer, deposit, returnTo, record tlescrow.Address) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: programID,
		Accounts: []ledger.AccountMeta{
			ledger.Writable(initializer, true),
			ledger.Writable(deposit, false),
			ledger.Writable(initializer, false),
			ledger.Writable(returnTo, false),
			ledger.Writable(record, false),
		},
		Data: []byte{tagCancel},
	}
}
