package escrow

import (
	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
)

// Custodian moves tokens on behalf of the escrow program. An authority is
// accepted only if it is the current authority of the account and it either
// signed the request or comes with a derivation proof of the escrow program.
type Custodian interface {
	// ProgramID is the program owning the accounts the custodian manages.
	ProgramID() tlescrow.Address
	Balance(account *tlescrow.AccountInfo) (uint64, error)
	Transfer(from, to *tlescrow.AccountInfo, authority tlescrow.Authority, amount uint64) error
	ChangeAuthority(account *tlescrow.AccountInfo, current tlescrow.Authority, next tlescrow.Address) error
	Close(account *tlescrow.AccountInfo, authority tlescrow.Authority, rentRecipient *tlescrow.AccountInfo) error
}

// Processor runs escrow instructions.
type Processor struct {
	programID tlescrow.Address
	custodian Custodian
	policy    CancelPolicy
	conf      Configuration
}

var _ tlescrow.Program = (*Processor)(nil)

// NewProcessor returns the escrow program running under programID. The
// cancel policy follows the configuration.
func NewProcessor(programID tlescrow.Address, custodian Custodian, conf Configuration) *Processor {
	return &Processor{
		programID: programID,
		custodian: custodian,
		policy:    policyFor(conf),
		conf:      conf,
	}
}

// WithPolicy replaces the cancel policy.
func (p *Processor) WithPolicy(policy CancelPolicy) *Processor {
	p.policy = policy
	return p
}

// ProgramID returns the identity the processor owns escrow records under.
func (p *Processor) ProgramID() tlescrow.Address {
	return p.programID
}

// Process dispatches an escrow instruction.
func (p *Processor) Process(info tlescrow.BlockInfo, programID tlescrow.Address, accounts []*tlescrow.AccountInfo, data []byte) error {
	if !programID.Equals(p.programID) {
		return errors.Wrapf(errors.ErrWrongOwner, "escrow program is %s, invoked as %s", p.programID, programID)
	}
	ins, err := Decode(data)
	if err != nil {
		return err
	}
	switch ins := ins.(type) {
	case InitEscrow:
		info.Logger().Info("Instruction: InitEscrow", "amount", ins.Amount)
		return p.initEscrow(info, accounts, ins.Amount)
	case Exchange:
		info.Logger().Info("Instruction: Exchange", "amount", ins.Amount)
		return p.exchange(info, accounts, ins.Amount)
	case ResetTimeLock:
		info.Logger().Info("Instruction: ResetTimeLock")
		return p.resetTimeLock(info, accounts)
	case Cancel:
		info.Logger().Info("Instruction: Cancel")
		return p.cancel(info, accounts)
	default:
		return errors.Wrapf(errors.ErrHuman, "unhandled %T", ins)
	}
}

func (p *Processor) initEscrow(info tlescrow.BlockInfo, accounts []*tlescrow.AccountInfo, amount uint64) error {
	var initializer, deposit, receive, recordAcc, sysvar *tlescrow.AccountInfo
	if err := nextAccounts(&accounts, &initializer, &deposit, &receive, &recordAcc, &sysvar); err != nil {
		return err
	}
	if !initializer.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "initializer %s", initializer.Key)
	}
	if !receive.IsOwnedBy(p.custodian.ProgramID()) {
		return errors.Wrapf(errors.ErrWrongOwner, "receive account %s is not a token account", receive.Key)
	}
	if err := p.checkRecordAccount(recordAcc); err != nil {
		return err
	}
	rent, err := tlescrow.RentFromAccount(sysvar)
	if err != nil {
		return err
	}
	if !rent.IsExempt(recordAcc.Lamports, len(recordAcc.Data)) {
		return errors.Wrapf(ErrNotRentExempt, "escrow record %s holds %d lamports, %d required",
			recordAcc.Key, recordAcc.Lamports, rent.MinimumBalance(len(recordAcc.Data)))
	}
	record, err := Unpack(recordAcc.Data)
	if err != nil {
		return errors.Wrapf(err, "escrow record %s", recordAcc.Key)
	}
	if record.IsInitialized {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "escrow record %s", recordAcc.Key)
	}

	record.IsInitialized = true
	record.Initializer = initializer.Key
	record.DepositAccount = deposit.Key
	record.InitializerReceiveAccount = receive.Key
	record.ExpectedAmount = amount
	if _, open := p.policy.(AlwaysAllow); !open {
		if record.UnlockTime, record.TimeOut, err = p.deadlines(info.Slot()); err != nil {
			return err
		}
	}
	recordAcc.Data = record.Pack()

	authority, _, err := AuthorityFor(p.programID, recordAcc.Key)
	if err != nil {
		return err
	}
	info.Logger().Debug("Calling the token program to transfer deposit authority", "authority", authority)
	if err := p.custodian.ChangeAuthority(deposit, tlescrow.SignedBy(initializer), authority); err != nil {
		return errors.Wrap(err, "hand over deposit")
	}
	return nil
}

func (p *Processor) exchange(info tlescrow.BlockInfo, accounts []*tlescrow.AccountInfo, amount uint64) error {
	var taker, takerSending, takerReceive, deposit, initializer, initializerReceive, recordAcc *tlescrow.AccountInfo
	err := nextAccounts(&accounts, &taker, &takerSending, &takerReceive, &deposit, &initializer, &initializerReceive, &recordAcc)
	if err != nil {
		return err
	}
	if !taker.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "taker %s", taker.Key)
	}
	if len(recordAcc.Data) == 0 {
		return errors.Wrapf(errors.ErrUninitializedAccount, "escrow record %s", recordAcc.Key)
	}
	balance, err := p.custodian.Balance(deposit)
	if err != nil {
		return errors.Wrap(err, "deposit")
	}
	if amount != balance {
		return errors.Wrapf(ErrExpectedAmountMismatch, "taker expects %d, deposit holds %d", amount, balance)
	}
	record, err := p.loadRecord(recordAcc)
	if err != nil {
		return err
	}
	if !record.DepositAccount.Equals(deposit.Key) {
		return errors.Wrapf(errors.ErrInvalidAccountData, "deposit account %s", deposit.Key)
	}
	if !record.Initializer.Equals(initializer.Key) {
		return errors.Wrapf(errors.ErrInvalidAccountData, "initializer %s", initializer.Key)
	}
	if !record.InitializerReceiveAccount.Equals(initializerReceive.Key) {
		return errors.Wrapf(errors.ErrInvalidAccountData, "initializer receive account %s", initializerReceive.Key)
	}

	authority, err := p.authority(recordAcc)
	if err != nil {
		return err
	}
	info.Logger().Debug("Calling the token program to pay the initializer", "amount", record.ExpectedAmount)
	if err := p.custodian.Transfer(takerSending, initializerReceive, tlescrow.SignedBy(taker), record.ExpectedAmount); err != nil {
		return errors.Wrap(err, "pay initializer")
	}
	info.Logger().Debug("Calling the token program to release the deposit", "amount", balance)
	if err := p.custodian.Transfer(deposit, takerReceive, authority, balance); err != nil {
		return errors.Wrap(err, "release deposit")
	}
	info.Logger().Debug("Calling the token program to close the deposit")
	if err := p.custodian.Close(deposit, authority, initializer); err != nil {
		return errors.Wrap(err, "close deposit")
	}
	return closeRecord(info, recordAcc, initializer)
}

func (p *Processor) resetTimeLock(info tlescrow.BlockInfo, accounts []*tlescrow.AccountInfo) error {
	var initializer, recordAcc *tlescrow.AccountInfo
	if err := nextAccounts(&accounts, &initializer, &recordAcc); err != nil {
		return err
	}
	if !initializer.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "initializer %s", initializer.Key)
	}
	record, err := p.loadRecord(recordAcc)
	if err != nil {
		return err
	}
	if !record.Initializer.Equals(initializer.Key) {
		return errors.Wrapf(errors.ErrInvalidAccountData, "initializer %s", initializer.Key)
	}

	unlock, timeout, err := p.deadlines(info.Slot())
	if err != nil {
		return err
	}
	record.UnlockTime = unlock
	record.TimeOut = timeout
	recordAcc.Data = record.Pack()
	info.Logger().Debug("Timelock reset", "unlock_time", unlock, "time_out", timeout)
	return nil
}

// deadlines returns the unlock time and timeout of a timelock started at
// the given slot.
func (p *Processor) deadlines(slot uint64) (unlock, timeout uint64, err error) {
	unlock, err = tlescrow.CheckedAdd(slot, p.conf.UnlockDelay)
	if err != nil {
		return 0, 0, errors.Wrap(err, "unlock time")
	}
	timeout, err = tlescrow.CheckedAdd(unlock, p.conf.TimeoutDelay)
	if err != nil {
		return 0, 0, errors.Wrap(err, "timeout")
	}
	return unlock, timeout, nil
}

func (p *Processor) cancel(info tlescrow.BlockInfo, accounts []*tlescrow.AccountInfo) error {
	var initializer, deposit, initializerMain, returnTo, recordAcc *tlescrow.AccountInfo
	if err := nextAccounts(&accounts, &initializer, &deposit, &initializerMain, &returnTo, &recordAcc); err != nil {
		return err
	}
	if !initializer.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "initializer %s", initializer.Key)
	}
	record, err := p.loadRecord(recordAcc)
	if err != nil {
		return err
	}
	if !record.Initializer.Equals(initializer.Key) {
		return errors.Wrapf(errors.ErrInvalidAccountData, "initializer %s", initializer.Key)
	}
	if !record.DepositAccount.Equals(deposit.Key) {
		return errors.Wrapf(errors.ErrInvalidAccountData, "deposit account %s", deposit.Key)
	}
	if !record.Initializer.Equals(initializerMain.Key) {
		return errors.Wrapf(errors.ErrInvalidAccountData, "initializer main account %s", initializerMain.Key)
	}
	if !p.policy.IsCancelAllowed(info.Slot(), record) {
		return errors.Wrapf(errors.ErrTimelocked, "escrow unlocks at slot %d, now %d", record.UnlockTime, info.Slot())
	}

	authority, err := p.authority(recordAcc)
	if err != nil {
		return err
	}
	balance, err := p.custodian.Balance(deposit)
	if err != nil {
		return errors.Wrap(err, "deposit")
	}
	info.Logger().Debug("Calling the token program to return the deposit", "amount", balance)
	if err := p.custodian.Transfer(deposit, returnTo, authority, balance); err != nil {
		return errors.Wrap(err, "return deposit")
	}
	info.Logger().Debug("Calling the token program to close the deposit")
	if err := p.custodian.Close(deposit, authority, initializerMain); err != nil {
		return errors.Wrap(err, "close deposit")
	}
	return closeRecord(info, recordAcc, initializerMain)
}

// checkRecordAccount ensures the record can be modified by this program.
func (p *Processor) checkRecordAccount(acc *tlescrow.AccountInfo) error {
	if !acc.IsOwnedBy(p.programID) || !acc.IsWritable {
		return errors.Wrapf(errors.ErrIllegalOwner, "escrow record %s", acc.Key)
	}
	return nil
}

// loadRecord returns the active escrow stored in the account.
func (p *Processor) loadRecord(acc *tlescrow.AccountInfo) (Record, error) {
	if len(acc.Data) == 0 {
		return Record{}, errors.Wrapf(errors.ErrUninitializedAccount, "escrow record %s", acc.Key)
	}
	if err := p.checkRecordAccount(acc); err != nil {
		return Record{}, err
	}
	record, err := Unpack(acc.Data)
	if err != nil {
		return record, errors.Wrapf(err, "escrow record %s", acc.Key)
	}
	if !record.IsInitialized {
		return record, errors.Wrapf(errors.ErrUninitializedAccount, "escrow record %s", acc.Key)
	}
	return record, nil
}

func (p *Processor) authority(recordAcc *tlescrow.AccountInfo) (tlescrow.Authority, error) {
	key, proof, err := AuthorityFor(p.programID, recordAcc.Key)
	if err != nil {
		return tlescrow.Authority{}, err
	}
	return tlescrow.DerivedBy(key, proof), nil
}

// closeRecord moves the lamports of the record to the initializer and
// clears it. The runtime removes the empty account.
func closeRecord(info tlescrow.BlockInfo, recordAcc, initializer *tlescrow.AccountInfo) error {
	if recordAcc.Key.Equals(initializer.Key) {
		return errors.Wrap(errors.ErrInvalidAccountData, "escrow record cannot be its own initializer")
	}
	info.Logger().Debug("Closing the escrow record", "lamports", recordAcc.Lamports)
	total, err := tlescrow.CheckedAdd(initializer.Lamports, recordAcc.Lamports)
	if err != nil {
		return errors.Wrap(err, "reclaim escrow record")
	}
	initializer.Lamports = total
	recordAcc.Lamports = 0
	recordAcc.Data = nil
	return nil
}

// nextAccounts pops one account per destination, in order.
func nextAccounts(accounts *[]*tlescrow.AccountInfo, dst ...**tlescrow.AccountInfo) error {
	for _, d := range dst {
		acc, err := tlescrow.NextAccount(accounts)
		if err != nil {
			return err
		}
		*d = acc
	}
	return nil
}
