package ledger

import (
	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
)

var accountPrefix = []byte("acct:")

func accountKey(addr tlescrow.Address) []byte {
	k := make([]byte, 0, len(accountPrefix)+tlescrow.AddressLength)
	k = append(k, accountPrefix...)
	return append(k, addr[:]...)
}

// LoadAccount returns the account stored under given address. An account
// that does not exist is returned as an empty account owned by the system
// program, holding no lamports and no data.
func LoadAccount(db tlescrow.KVStore, addr tlescrow.Address) (*tlescrow.AccountInfo, error) {
	acc := &tlescrow.AccountInfo{Key: addr}
	raw := db.Get(accountKey(addr))
	if raw == nil {
		return acc, nil
	}
	var s storedAccount
	if err := cdc.UnmarshalBinaryBare(raw, &s); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidState, "account %s: %s", addr, err)
	}
	owner, err := tlescrow.NewAddress(s.Owner)
	if err != nil {
		return nil, errors.Wrapf(err, "account %s owner", addr)
	}
	acc.Lamports = s.Lamports
	acc.Owner = owner
	acc.Data = s.Data
	return acc, nil
}

// SaveAccount persists the account. Accounts left without lamports are
// removed from the ledger.
func SaveAccount(db tlescrow.KVStore, acc *tlescrow.AccountInfo) error {
	k := accountKey(acc.Key)
	if acc.Lamports == 0 {
		db.Delete(k)
		return nil
	}
	raw, err := cdc.MarshalBinaryBare(storedAccount{
		Lamports: acc.Lamports,
		Owner:    acc.Owner.Bytes(),
		Data:     acc.Data,
	})
	if err != nil {
		return errors.Wrapf(errors.ErrHuman, "marshal account %s: %s", acc.Key, err)
	}
	db.Set(k, raw)
	return nil
}
