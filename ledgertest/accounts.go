package ledgertest

import (
	"github.com/iov-one/tlescrow"
)

// Account builds an account handle for program tests.
func Account(key, owner tlescrow.Address, lamports uint64, data []byte) *tlescrow.AccountInfo {
	return &tlescrow.AccountInfo{
		Key:        key,
		Owner:      owner,
		Lamports:   lamports,
		Data:       data,
		IsWritable: true,
	}
}

// Signer marks the account as a verified signer and returns it.
func Signer(acc *tlescrow.AccountInfo) *tlescrow.AccountInfo {
	acc.IsSigner = true
	return acc
}

// ReadOnly clears the writable flag and returns the account.
func ReadOnly(acc *tlescrow.AccountInfo) *tlescrow.AccountInfo {
	acc.IsWritable = false
	return acc
}

// BlockInfo returns a block info at given slot with a no-op logger.
func BlockInfo(slot uint64) tlescrow.BlockInfo {
	info, err := tlescrow.NewBlockInfo(slot, "test-chain", nil)
	if err != nil {
		panic(err)
	}
	return info
}
