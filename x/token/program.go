package token

import (
	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
)

// Program is the token program. Instructions submitted directly by users
// are authorized by signatures only.
type Program struct{}

var _ tlescrow.Program = Program{}

// Process dispatches a token instruction.
func (Program) Process(info tlescrow.BlockInfo, programID tlescrow.Address, accounts []*tlescrow.AccountInfo, data []byte) error {
	ins, err := decode(data)
	if err != nil {
		return err
	}
	c := NewCustodian(programID)

	switch ins := ins.(type) {
	case InitializeAccount:
		info.Logger().Debug("Instruction: InitializeAccount")
		return initializeAccount(accounts)
	case Transfer:
		info.Logger().Debug("Instruction: Transfer", "amount", ins.Amount)
		from, to, authority, err := threeAccounts(accounts)
		if err != nil {
			return err
		}
		return c.Transfer(from, to, tlescrow.SignedBy(authority), ins.Amount)
	case SetAuthority:
		info.Logger().Debug("Instruction: SetAuthority", "authority", ins.NewAuthority)
		acc, err := tlescrow.NextAccount(&accounts)
		if err != nil {
			return err
		}
		authority, err := tlescrow.NextAccount(&accounts)
		if err != nil {
			return err
		}
		return c.ChangeAuthority(acc, tlescrow.SignedBy(authority), ins.NewAuthority)
	case CloseAccount:
		info.Logger().Debug("Instruction: CloseAccount")
		acc, dest, authority, err := threeAccounts(accounts)
		if err != nil {
			return err
		}
		return c.Close(acc, tlescrow.SignedBy(authority), dest)
	default:
		return errors.Wrapf(errors.ErrHuman, "unhandled %T", ins)
	}
}

func threeAccounts(accounts []*tlescrow.AccountInfo) (a, b, c *tlescrow.AccountInfo, err error) {
	if a, err = tlescrow.NextAccount(&accounts); err != nil {
		return
	}
	if b, err = tlescrow.NextAccount(&accounts); err != nil {
		return
	}
	c, err = tlescrow.NextAccount(&accounts)
	return
}

func initializeAccount(accounts []*tlescrow.AccountInfo) error {
	acc, err := tlescrow.NextAccount(&accounts)
	if err != nil {
		return err
	}
	mint, err := tlescrow.NextAccount(&accounts)
	if err != nil {
		return err
	}
	authority, err := tlescrow.NextAccount(&accounts)
	if err != nil {
		return err
	}
	sysvar, err := tlescrow.NextAccount(&accounts)
	if err != nil {
		return err
	}
	rent, err := tlescrow.RentFromAccount(sysvar)
	if err != nil {
		return err
	}

	if !acc.IsOwnedBy(ProgramID) {
		return errors.Wrapf(errors.ErrWrongOwner, "account %s", acc.Key)
	}
	if _, err := Unpack(acc.Data); !errors.ErrUninitializedAccount.Is(err) {
		if err == nil {
			return errors.Wrapf(errors.ErrAlreadyInitialized, "account %s", acc.Key)
		}
		return err
	}
	if !rent.IsExempt(acc.Lamports, len(acc.Data)) {
		return errors.Wrapf(errors.ErrInsufficientFunds, "account %s is not rent exempt", acc.Key)
	}
	store(acc, Account{
		Mint:        mint.Key,
		Authority:   authority.Key,
		Initialized: true,
	})
	return nil
}
