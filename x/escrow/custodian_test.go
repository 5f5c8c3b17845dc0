package escrow

import (
	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
)

var tokenID = tlescrow.AddressFromSeed("program/token")

// fakeCustodian keeps token balances and authorities in memory. Accounts
// unknown to it are treated as foreign.
type fakeCustodian struct {
	caller    tlescrow.Address
	balances  map[tlescrow.Address]uint64
	authority map[tlescrow.Address]tlescrow.Address
	calls     []string
}

var _ Custodian = (*fakeCustodian)(nil)

func newFakeCustodian(caller tlescrow.Address) *fakeCustodian {
	return &fakeCustodian{
		caller:    caller,
		balances:  make(map[tlescrow.Address]uint64),
		authority: make(map[tlescrow.Address]tlescrow.Address),
	}
}

func (f *fakeCustodian) open(acc *tlescrow.AccountInfo, authority tlescrow.Address, amount uint64) {
	f.balances[acc.Key] = amount
	f.authority[acc.Key] = authority
}

func (f *fakeCustodian) ProgramID() tlescrow.Address {
	return tokenID
}

func (f *fakeCustodian) authorize(acc *tlescrow.AccountInfo, a tlescrow.Authority) error {
	current, ok := f.authority[acc.Key]
	if !ok {
		return errors.Wrapf(errors.ErrWrongOwner, "unknown account %s", acc.Key)
	}
	if !current.Equals(a.Key) {
		return errors.ErrIncorrectAuthority
	}
	return a.Verify(f.caller)
}

func (f *fakeCustodian) Balance(acc *tlescrow.AccountInfo) (uint64, error) {
	if _, ok := f.authority[acc.Key]; !ok {
		return 0, errors.Wrapf(errors.ErrWrongOwner, "unknown account %s", acc.Key)
	}
	return f.balances[acc.Key], nil
}

func (f *fakeCustodian) Transfer(from, to *tlescrow.AccountInfo, a tlescrow.Authority, amount uint64) error {
	if err := f.authorize(from, a); err != nil {
		return err
	}
	if _, ok := f.authority[to.Key]; !ok {
		return errors.Wrapf(errors.ErrWrongOwner, "unknown account %s", to.Key)
	}
	if f.balances[from.Key] < amount {
		return errors.ErrInsufficientFunds
	}
	f.balances[from.Key] -= amount
	f.balances[to.Key] += amount
	f.calls = append(f.calls, "transfer")
	return nil
}

func (f *fakeCustodian) ChangeAuthority(acc *tlescrow.AccountInfo, current tlescrow.Authority, next tlescrow.Address) error {
	if err := f.authorize(acc, current); err != nil {
		return err
	}
	f.authority[acc.Key] = next
	f.calls = append(f.calls, "change authority")
	return nil
}

func (f *fakeCustodian) Close(acc *tlescrow.AccountInfo, a tlescrow.Authority, rentRecipient *tlescrow.AccountInfo) error {
	if err := f.authorize(acc, a); err != nil {
		return err
	}
	if f.balances[acc.Key] != 0 {
		return errors.ErrInvalidState
	}
	rentRecipient.Lamports += acc.Lamports
	acc.Lamports = 0
	acc.Data = nil
	delete(f.authority, acc.Key)
	delete(f.balances, acc.Key)
	f.calls = append(f.calls, "close")
	return nil
}
