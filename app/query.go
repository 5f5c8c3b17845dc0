package app

import (
	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
	"github.com/iov-one/tlescrow/x/escrow"
	"github.com/iov-one/tlescrow/x/token"
)

// EscrowView is the decoded state of an escrow record.
type EscrowView struct {
	Address                   tlescrow.Address `json:"address"`
	Lamports                  uint64           `json:"lamports"`
	Initializer               tlescrow.Address `json:"initializer"`
	DepositAccount            tlescrow.Address `json:"deposit_account"`
	InitializerReceiveAccount tlescrow.Address `json:"initializer_receive_account"`
	ExpectedAmount            uint64           `json:"expected_amount"`
	UnlockTime                uint64           `json:"unlock_time"`
	TimeOut                   uint64           `json:"time_out"`
	// Authority controls the deposit while the escrow is active.
	Authority tlescrow.Address `json:"authority"`
	// Deposit is the token amount currently held by the deposit.
	Deposit uint64 `json:"deposit"`
}

// Escrow returns the active escrow stored at given address.
func (a *App) Escrow(addr tlescrow.Address) (*EscrowView, error) {
	acc, err := a.Account(addr)
	if err != nil {
		return nil, err
	}
	if !acc.IsOwnedBy(a.EscrowProgramID()) {
		return nil, errors.Wrapf(errors.ErrNotFound, "escrow %s", addr)
	}
	r, err := escrow.Unpack(acc.Data)
	if err != nil {
		return nil, err
	}
	if !r.IsInitialized {
		return nil, errors.Wrapf(errors.ErrUninitializedAccount, "escrow %s", addr)
	}
	authority, _, err := escrow.AuthorityFor(a.EscrowProgramID(), addr)
	if err != nil {
		return nil, err
	}
	deposit, err := a.Account(r.DepositAccount)
	if err != nil {
		return nil, err
	}
	amount, err := token.NewCustodian(a.EscrowProgramID()).Balance(deposit)
	if err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	return &EscrowView{
		Address:                   addr,
		Lamports:                  acc.Lamports,
		Initializer:               r.Initializer,
		DepositAccount:            r.DepositAccount,
		InitializerReceiveAccount: r.InitializerReceiveAccount,
		ExpectedAmount:            r.ExpectedAmount,
		UnlockTime:                r.UnlockTime,
		TimeOut:                   r.TimeOut,
		Authority:                 authority,
		Deposit:                   amount,
	}, nil
}

// TokenAccount returns the token state of an account.
func (a *App) TokenAccount(addr tlescrow.Address) (token.Account, error) {
	acc, err := a.Account(addr)
	if err != nil {
		return token.Account{}, err
	}
	if !acc.IsOwnedBy(token.ProgramID) {
		return token.Account{}, errors.Wrapf(errors.ErrNotFound, "token account %s", addr)
	}
	return token.Unpack(acc.Data)
}
