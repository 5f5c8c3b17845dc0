package escrow

import (
	"encoding/binary"

	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
)

// RecordLen is the size of the data region of an escrow record account.
const RecordLen = 1 + 3*tlescrow.AddressLength + 3*8

// Record holds the terms and state of a single trade.
type Record struct {
	IsInitialized bool
	// Initializer is the party who created the escrow.
	Initializer tlescrow.Address
	// DepositAccount is the token account holding the offered tokens.
	DepositAccount tlescrow.Address
	// InitializerReceiveAccount is where the taker pays.
	InitializerReceiveAccount tlescrow.Address
	ExpectedAmount            uint64
	UnlockTime                uint64
	TimeOut                   uint64
}

// Pack serializes the record into its fixed width layout.
func (r Record) Pack() []byte {
	raw := make([]byte, RecordLen)
	if r.IsInitialized {
		raw[0] = 1
	}
	copy(raw[1:33], r.Initializer[:])
	copy(raw[33:65], r.DepositAccount[:])
	copy(raw[65:97], r.InitializerReceiveAccount[:])
	binary.LittleEndian.PutUint64(raw[97:105], r.ExpectedAmount)
	binary.LittleEndian.PutUint64(raw[105:113], r.UnlockTime)
	binary.LittleEndian.PutUint64(raw[113:121], r.TimeOut)
	return raw
}

// Unpack parses a record. An allocated but never initialized record
// unpacks to the zero value. An account without data, which is what a
// closed record becomes, fails with ErrUninitializedAccount.
func Unpack(raw []byte) (Record, error) {
	var r Record
	switch len(raw) {
	case RecordLen:
	case 0:
		return r, errors.ErrUninitializedAccount
	default:
		return r, errors.Wrapf(errors.ErrInvalidAccountData, "escrow record of %d bytes", len(raw))
	}
	switch raw[0] {
	case 0:
	case 1:
		r.IsInitialized = true
	default:
		return r, errors.Wrapf(errors.ErrInvalidAccountData, "initialized flag %d", raw[0])
	}
	copy(r.Initializer[:], raw[1:33])
	copy(r.DepositAccount[:], raw[33:65])
	copy(r.InitializerReceiveAccount[:], raw[65:97])
	r.ExpectedAmount = binary.LittleEndian.Uint64(raw[97:105])
	r.UnlockTime = binary.LittleEndian.Uint64(raw[105:113])
	r.TimeOut = binary.LittleEndian.Uint64(raw[113:121])
	return r, nil
}
