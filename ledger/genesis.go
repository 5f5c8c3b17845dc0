package ledger

import (
	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
)

// SysvarOwner owns the sysvar accounts. No program is registered under it,
// so sysvars can only be read.
var SysvarOwner = tlescrow.AddressFromSeed("sysvar")

// GenesisAccount is the genesis file representation of an account.
type GenesisAccount struct {
	Address  tlescrow.Address `json:"address"`
	Lamports uint64           `json:"lamports"`
	Owner    tlescrow.Address `json:"owner"`
	Data     []byte           `json:"data"`
}

// Initializer loads the "accounts" and "rent" genesis sections.
type Initializer struct{}

var _ tlescrow.Initializer = (*Initializer)(nil)

// FromGenesis creates the rent sysvar and every listed account.
func (*Initializer) FromGenesis(opts tlescrow.Options, db tlescrow.KVStore) error {
	rent := tlescrow.DefaultRent()
	if err := opts.ReadOptions("rent", &rent); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "rent: %s", err)
	}
	if err := rent.Validate(); err != nil {
		return errors.Wrap(err, "rent")
	}
	sysvar := &tlescrow.AccountInfo{
		Key:      tlescrow.RentSysvarID,
		Lamports: 1,
		Owner:    SysvarOwner,
		Data:     rent.Pack(),
	}
	if err := SaveAccount(db, sysvar); err != nil {
		return err
	}

	var accounts []GenesisAccount
	if err := opts.ReadOptions("accounts", &accounts); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "accounts: %s", err)
	}
	for i, a := range accounts {
		if a.Lamports == 0 {
			return errors.Wrapf(errors.ErrInvalidInput, "account %d (%s) has no lamports", i, a.Address)
		}
		if db.Has(accountKey(a.Address)) {
			return errors.Wrapf(errors.ErrAlreadyInitialized, "account %d (%s)", i, a.Address)
		}
		acc := &tlescrow.AccountInfo{
			Key:      a.Address,
			Lamports: a.Lamports,
			Owner:    a.Owner,
			Data:     a.Data,
		}
		if err := SaveAccount(db, acc); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
