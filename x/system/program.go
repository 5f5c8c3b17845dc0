package system

import (
	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
)

// MaxSpace limits the data size of a created account.
const MaxSpace = 10 * 1024 * 1024

// Program is the system program.
type Program struct{}

var _ tlescrow.Program = Program{}

// Process dispatches a system instruction.
func (Program) Process(info tlescrow.BlockInfo, programID tlescrow.Address, accounts []*tlescrow.AccountInfo, data []byte) error {
	ins, err := decode(data)
	if err != nil {
		return err
	}
	switch ins := ins.(type) {
	case CreateAccount:
		info.Logger().Debug("Instruction: CreateAccount", "owner", ins.Owner, "space", ins.Space)
		return createAccount(accounts, ins)
	case Transfer:
		info.Logger().Debug("Instruction: Transfer", "lamports", ins.Lamports)
		return transfer(accounts, ins)
	default:
		return errors.Wrapf(errors.ErrHuman, "unhandled %T", ins)
	}
}

func createAccount(accounts []*tlescrow.AccountInfo, ins CreateAccount) error {
	payer, err := tlescrow.NextAccount(&accounts)
	if err != nil {
		return err
	}
	account, err := tlescrow.NextAccount(&accounts)
	if err != nil {
		return err
	}
	if !payer.IsSigner || !account.IsSigner {
		return errors.Wrap(errors.ErrMissingSignature, "payer and new account must sign")
	}
	if account.Lamports != 0 || len(account.Data) != 0 || !account.Owner.IsZero() {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "account %s", account.Key)
	}
	if ins.Space > MaxSpace {
		return errors.Wrapf(errors.ErrInvalidInput, "space %d", ins.Space)
	}
	if ins.Lamports == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "account must be funded")
	}
	if payer.Lamports, err = tlescrow.CheckedSub(payer.Lamports, ins.Lamports); err != nil {
		return errors.Wrap(err, "payer")
	}
	account.Lamports = ins.Lamports
	account.Data = make([]byte, ins.Space)
	account.Owner = ins.Owner
	return nil
}

func transfer(accounts []*tlescrow.AccountInfo, ins Transfer) error {
	from, err := tlescrow.NextAccount(&accounts)
	if err != nil {
		return err
	}
	to, err := tlescrow.NextAccount(&accounts)
	if err != nil {
		return err
	}
	if !from.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "account %s", from.Key)
	}
	if len(from.Data) != 0 {
		return errors.Wrapf(errors.ErrInvalidAccountData, "account %s carries data", from.Key)
	}
	if from.Key == to.Key {
		return nil
	}
	if from.Lamports, err = tlescrow.CheckedSub(from.Lamports, ins.Lamports); err != nil {
		return err
	}
	to.Lamports, err = tlescrow.CheckedAdd(to.Lamports, ins.Lamports)
	return err
}
