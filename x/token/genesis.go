package token

import (
	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
	"github.com/iov-one/tlescrow/ledger"
)

// GenesisAccount is the genesis file representation of a token account.
type GenesisAccount struct {
	Address   tlescrow.Address `json:"address"`
	Mint      tlescrow.Address `json:"mint"`
	Authority tlescrow.Address `json:"authority"`
	Amount    uint64           `json:"amount"`
	// Lamports defaults to the rent exempt minimum.
	Lamports uint64 `json:"lamports"`
}

// Initializer loads the "tokens" genesis section. It must run after the
// ledger initializer, which creates the rent sysvar.
type Initializer struct{}

var _ tlescrow.Initializer = (*Initializer)(nil)

// FromGenesis creates every listed token account.
func (*Initializer) FromGenesis(opts tlescrow.Options, db tlescrow.KVStore) error {
	var accounts []GenesisAccount
	if err := opts.ReadOptions("tokens", &accounts); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "tokens: %s", err)
	}
	if len(accounts) == 0 {
		return nil
	}

	sysvar, err := ledger.LoadAccount(db, tlescrow.RentSysvarID)
	if err != nil {
		return err
	}
	rent, err := tlescrow.RentFromAccount(sysvar)
	if err != nil {
		return errors.Wrap(err, "rent sysvar")
	}

	for i, a := range accounts {
		existing, err := ledger.LoadAccount(db, a.Address)
		if err != nil {
			return err
		}
		if existing.Lamports != 0 {
			return errors.Wrapf(errors.ErrAlreadyInitialized, "token %d (%s)", i, a.Address)
		}
		lamports := a.Lamports
		if lamports == 0 {
			lamports = rent.MinimumBalance(AccountLen)
		}
		acc := &tlescrow.AccountInfo{
			Key:      a.Address,
			Lamports: lamports,
			Owner:    ProgramID,
		}
		store(acc, Account{
			Mint:        a.Mint,
			Authority:   a.Authority,
			Amount:      a.Amount,
			Initialized: true,
		})
		if err := ledger.SaveAccount(db, acc); err != nil {
			return errors.Wrapf(err, "token %d", i)
		}
	}
	return nil
}
