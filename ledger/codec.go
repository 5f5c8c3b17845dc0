package ledger

import (
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// storedAccount is the persisted form of an account. Request scoped flags
// are not stored.
type storedAccount struct {
	Lamports uint64
	Owner    []byte
	Data     []byte
}

type signDoc struct {
	ChainID      string
	Instructions []signInstruction
}

type signInstruction struct {
	ProgramID []byte
	Accounts  []signMeta
	Data      []byte
}

type signMeta struct {
	Key        []byte
	IsSigner   bool
	IsWritable bool
}
