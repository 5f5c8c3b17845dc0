package token

import (
	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
)

// Custodian performs token operations on behalf of a calling program. It
// works directly on the account handles the runtime passed to the caller,
// so all changes share the fate of the caller's request.
type Custodian struct {
	caller tlescrow.Address
}

// NewCustodian returns a custodian for the given program. Derivation proofs
// presented through it are checked against that program identity.
func NewCustodian(caller tlescrow.Address) *Custodian {
	return &Custodian{caller: caller}
}

// authorize checks that the authority is the current authority of the
// account and that it has been proven.
func (c *Custodian) authorize(acc *tlescrow.AccountInfo, state Account, authority tlescrow.Authority) error {
	if !state.Authority.Equals(authority.Key) {
		return errors.Wrapf(errors.ErrIncorrectAuthority, "account %s is controlled by %s, not %s",
			acc.Key, state.Authority, authority.Key)
	}
	if err := authority.Verify(c.caller); err != nil {
		return err
	}
	return nil
}

// Balance returns the token amount held by the account.
func (c *Custodian) Balance(acc *tlescrow.AccountInfo) (uint64, error) {
	state, err := load(acc)
	if err != nil {
		return 0, err
	}
	return state.Amount, nil
}

// Transfer moves amount tokens between two accounts of the same mint.
func (c *Custodian) Transfer(from, to *tlescrow.AccountInfo, authority tlescrow.Authority, amount uint64) error {
	src, err := load(from)
	if err != nil {
		return err
	}
	dst, err := load(to)
	if err != nil {
		return err
	}
	if !src.Mint.Equals(dst.Mint) {
		return errors.Wrapf(ErrMintMismatch, "%s and %s", src.Mint, dst.Mint)
	}
	if err := c.authorize(from, src, authority); err != nil {
		return err
	}
	if src.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "account %s holds %d, need %d", from.Key, src.Amount, amount)
	}
	if from.Key.Equals(to.Key) {
		return nil
	}
	if src.Amount, err = tlescrow.CheckedSub(src.Amount, amount); err != nil {
		return err
	}
	if dst.Amount, err = tlescrow.CheckedAdd(dst.Amount, amount); err != nil {
		return err
	}
	store(from, src)
	store(to, dst)
	return nil
}

// ChangeAuthority hands control of the account to a new authority.
func (c *Custodian) ChangeAuthority(acc *tlescrow.AccountInfo, current tlescrow.Authority, next tlescrow.Address) error {
	state, err := load(acc)
	if err != nil {
		return err
	}
	if err := c.authorize(acc, state, current); err != nil {
		return err
	}
	state.Authority = next
	store(acc, state)
	return nil
}

// Close releases an empty token account and sends its lamports to the rent
// recipient. The runtime drops the account once the request succeeds.
func (c *Custodian) Close(acc *tlescrow.AccountInfo, authority tlescrow.Authority, rentRecipient *tlescrow.AccountInfo) error {
	state, err := load(acc)
	if err != nil {
		return err
	}
	if err := c.authorize(acc, state, authority); err != nil {
		return err
	}
	if state.Amount != 0 {
		return errors.Wrapf(ErrNotEmpty, "account %s holds %d", acc.Key, state.Amount)
	}
	if acc.Key.Equals(rentRecipient.Key) {
		return errors.Wrap(errors.ErrInvalidInput, "cannot close into itself")
	}
	if rentRecipient.Lamports, err = tlescrow.CheckedAdd(rentRecipient.Lamports, acc.Lamports); err != nil {
		return err
	}
	acc.Lamports = 0
	acc.Data = nil
	return nil
}

// ProgramID returns the identity of the token program.
func (c *Custodian) ProgramID() tlescrow.Address {
	return ProgramID
}
