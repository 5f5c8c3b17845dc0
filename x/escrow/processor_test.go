package escrow

import (
	"math"
	"testing"

	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
	"github.com/iov-one/tlescrow/ledgertest"
	"github.com/iov-one/tlescrow/ledgertest/assert"
)

var programID = tlescrow.AddressFromSeed("program/escrow")

type fixture struct {
	custodian *fakeCustodian
	processor *Processor

	initializer  *tlescrow.AccountInfo
	deposit      *tlescrow.AccountInfo
	receive      *tlescrow.AccountInfo
	record       *tlescrow.AccountInfo
	taker        *tlescrow.AccountInfo
	takerSending *tlescrow.AccountInfo
	takerReceive *tlescrow.AccountInfo

	// main is the initializer main account presented to Cancel. The
	// signer is used when nil.
	main *tlescrow.AccountInfo
}

const (
	initializerLamports = 1000
	depositLamports     = 2000
)

var recordLamports = tlescrow.DefaultRent().MinimumBalance(RecordLen)

// newFixture returns an initializer offering 100 tokens in the deposit and
// a taker holding 50 tokens of the requested mint.
func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		custodian:    newFakeCustodian(programID),
		initializer:  ledgertest.Signer(ledgertest.Account(tlescrow.AddressFromSeed("initializer"), tlescrow.ZeroAddress, initializerLamports, nil)),
		deposit:      ledgertest.Account(ledgertest.RandomAddr(), tokenID, depositLamports, nil),
		receive:      ledgertest.Account(ledgertest.RandomAddr(), tokenID, depositLamports, nil),
		record:       ledgertest.Account(ledgertest.RandomAddr(), programID, recordLamports, make([]byte, RecordLen)),
		taker:        ledgertest.Signer(ledgertest.Account(tlescrow.AddressFromSeed("taker"), tlescrow.ZeroAddress, 1000, nil)),
		takerSending: ledgertest.Account(ledgertest.RandomAddr(), tokenID, depositLamports, nil),
		takerReceive: ledgertest.Account(ledgertest.RandomAddr(), tokenID, depositLamports, nil),
	}
	f.custodian.open(f.deposit, f.initializer.Key, 100)
	f.custodian.open(f.receive, f.initializer.Key, 0)
	f.custodian.open(f.takerSending, f.taker.Key, 50)
	f.custodian.open(f.takerReceive, f.taker.Key, 0)
	f.processor = NewProcessor(programID, f.custodian, DefaultConfiguration())
	return f
}

func rentSysvar() *tlescrow.AccountInfo {
	return ledgertest.ReadOnly(ledgertest.Account(tlescrow.RentSysvarID, tlescrow.AddressFromSeed("sysvar"), 1, tlescrow.DefaultRent().Pack()))
}

func (f *fixture) initEscrow(amount uint64) error {
	data := NewInitEscrow(programID, f.initializer.Key, f.deposit.Key, f.receive.Key, f.record.Key, amount).Data
	return f.processor.Process(ledgertest.BlockInfo(1), programID,
		[]*tlescrow.AccountInfo{f.initializer, f.deposit, f.receive, f.record, rentSysvar()}, data)
}

func (f *fixture) exchange(amount uint64) error {
	data := NewExchange(programID, f.taker.Key, f.takerSending.Key, f.takerReceive.Key,
		f.deposit.Key, f.initializer.Key, f.receive.Key, f.record.Key, amount).Data
	return f.processor.Process(ledgertest.BlockInfo(2), programID, []*tlescrow.AccountInfo{
		f.taker, f.takerSending, f.takerReceive, f.deposit, f.initializer, f.receive, f.record,
	}, data)
}

func (f *fixture) cancel(slot uint64, signer *tlescrow.AccountInfo) error {
	data := NewCancel(programID, signer.Key, f.deposit.Key, f.receive.Key, f.record.Key).Data
	main := signer
	if f.main != nil {
		main = f.main
	}
	return f.processor.Process(ledgertest.BlockInfo(slot), programID, []*tlescrow.AccountInfo{
		signer, f.deposit, main, f.receive, f.record,
	}, data)
}

func (f *fixture) resetTimeLock(slot uint64, signer *tlescrow.AccountInfo) error {
	data := NewResetTimeLock(programID, signer.Key, f.record.Key).Data
	return f.processor.Process(ledgertest.BlockInfo(slot), programID, []*tlescrow.AccountInfo{signer, f.record}, data)
}

func (f *fixture) stored(t testing.TB) Record {
	t.Helper()
	r, err := Unpack(f.record.Data)
	assert.Nil(t, err)
	return r
}

func TestInitEscrow(t *testing.T) {
	cases := map[string]struct {
		Prepare func(*fixture)
		WantErr *errors.Error
	}{
		"success": {},
		"initializer did not sign": {
			Prepare: func(f *fixture) { f.initializer.IsSigner = false },
			WantErr: errors.ErrMissingSignature,
		},
		"receive account is not a token account": {
			Prepare: func(f *fixture) { f.receive.Owner = tlescrow.ZeroAddress },
			WantErr: errors.ErrWrongOwner,
		},
		"record is not rent exempt": {
			Prepare: func(f *fixture) { f.record.Lamports = recordLamports - 1 },
			WantErr: ErrNotRentExempt,
		},
		"record owned by another program": {
			Prepare: func(f *fixture) { f.record.Owner = tokenID },
			WantErr: errors.ErrIllegalOwner,
		},
		"record of a wrong size": {
			Prepare: func(f *fixture) {
				f.record.Data = make([]byte, RecordLen+1)
				f.record.Lamports = 2 * recordLamports
			},
			WantErr: errors.ErrInvalidAccountData,
		},
		"deposit not controlled by the initializer": {
			Prepare: func(f *fixture) { f.custodian.authority[f.deposit.Key] = f.taker.Key },
			WantErr: errors.ErrIncorrectAuthority,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			if tc.Prepare != nil {
				tc.Prepare(f)
			}
			err := f.initEscrow(50)
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.WantErr != nil {
				return
			}

			want := Record{
				IsInitialized:             true,
				Initializer:               f.initializer.Key,
				DepositAccount:            f.deposit.Key,
				InitializerReceiveAccount: f.receive.Key,
				ExpectedAmount:            50,
			}
			assert.Equal(t, want, f.stored(t))

			authority, _, err := AuthorityFor(programID, f.record.Key)
			assert.Nil(t, err)
			assert.Equal(t, authority, f.custodian.authority[f.deposit.Key])
		})
	}
}

func TestInitEscrowOnlyOnce(t *testing.T) {
	f := newFixture(t)
	assert.Nil(t, f.initEscrow(50))
	before := f.stored(t)

	// The deposit is no longer controlled by the initializer, yet the
	// record check fails first.
	err := f.initEscrow(70)
	assert.IsErr(t, errors.ErrAlreadyInitialized, err)
	assert.Equal(t, before, f.stored(t))
}

func TestInitEscrowNeedsAllAccounts(t *testing.T) {
	f := newFixture(t)
	data := NewInitEscrow(programID, f.initializer.Key, f.deposit.Key, f.receive.Key, f.record.Key, 1).Data
	err := f.processor.Process(ledgertest.BlockInfo(1), programID,
		[]*tlescrow.AccountInfo{f.initializer, f.deposit, f.receive, f.record}, data)
	assert.IsErr(t, errors.ErrNotEnoughAccountKeys, err)
}

func TestExchange(t *testing.T) {
	f := newFixture(t)
	assert.Nil(t, f.initEscrow(50))

	assert.Nil(t, f.exchange(100))

	assert.Equal(t, uint64(100), f.custodian.balances[f.takerReceive.Key])
	assert.Equal(t, uint64(50), f.custodian.balances[f.receive.Key])
	assert.Equal(t, uint64(0), f.custodian.balances[f.takerSending.Key])
	assert.Equal(t, []string{"change authority", "transfer", "transfer", "close"}, f.custodian.calls)

	// Deposit and record lamports went back to the initializer.
	assert.Equal(t, uint64(0), f.deposit.Lamports)
	assert.Equal(t, uint64(0), f.record.Lamports)
	assert.Equal(t, 0, len(f.record.Data))
	assert.Equal(t, initializerLamports+depositLamports+recordLamports, f.initializer.Lamports)

	// The escrow is closed for good.
	assert.IsErr(t, errors.ErrUninitializedAccount, f.exchange(100))
	assert.IsErr(t, errors.ErrUninitializedAccount, f.cancel(3, f.initializer))
	assert.IsErr(t, errors.ErrUninitializedAccount, f.resetTimeLock(3, f.initializer))
}

func TestExchangeRejects(t *testing.T) {
	cases := map[string]struct {
		Amount  uint64
		Prepare func(*fixture)
		WantErr *errors.Error
	}{
		"amount does not match the deposit": {
			Amount:  99,
			WantErr: ErrExpectedAmountMismatch,
		},
		"taker did not sign": {
			Amount:  100,
			Prepare: func(f *fixture) { f.taker.IsSigner = false },
			WantErr: errors.ErrMissingSignature,
		},
		"substituted deposit": {
			Amount: 7,
			Prepare: func(f *fixture) {
				fake := ledgertest.Account(ledgertest.RandomAddr(), tokenID, depositLamports, nil)
				f.custodian.open(fake, f.taker.Key, 7)
				f.deposit = fake
			},
			WantErr: errors.ErrInvalidAccountData,
		},
		"substituted initializer": {
			Amount:  100,
			Prepare: func(f *fixture) { f.initializer = ledgertest.Account(ledgertest.RandomAddr(), tlescrow.ZeroAddress, 1, nil) },
			WantErr: errors.ErrInvalidAccountData,
		},
		"substituted receive account": {
			Amount: 100,
			Prepare: func(f *fixture) {
				fake := ledgertest.Account(ledgertest.RandomAddr(), tokenID, depositLamports, nil)
				f.custodian.open(fake, f.taker.Key, 0)
				f.receive = fake
			},
			WantErr: errors.ErrInvalidAccountData,
		},
		"taker cannot pay": {
			Amount:  100,
			Prepare: func(f *fixture) { f.custodian.balances[f.takerSending.Key] = 49 },
			WantErr: errors.ErrInsufficientFunds,
		},
		"read only record": {
			Amount:  100,
			Prepare: func(f *fixture) { f.record.IsWritable = false },
			WantErr: errors.ErrIllegalOwner,
		},
		"record lamports overflow the initializer": {
			Amount:  100,
			Prepare: func(f *fixture) { f.initializer.Lamports = math.MaxUint64 - depositLamports },
			WantErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			assert.Nil(t, f.initEscrow(50))
			if tc.Prepare != nil {
				tc.Prepare(f)
			}
			calls := len(f.custodian.calls)

			err := f.exchange(tc.Amount)
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Equal(t, recordLamports, f.record.Lamports)
			assert.Equal(t, RecordLen, len(f.record.Data))
			if tc.WantErr != ErrExpectedAmountMismatch {
				return
			}
			// Validation failed before any custodian call.
			assert.Equal(t, calls, len(f.custodian.calls))
			assert.Equal(t, uint64(100), f.custodian.balances[f.deposit.Key])
			assert.Equal(t, uint64(50), f.custodian.balances[f.takerSending.Key])
			assert.Equal(t, recordLamports, f.record.Lamports)
		})
	}
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	assert.Nil(t, f.initEscrow(50))

	assert.Nil(t, f.cancel(5, f.initializer))

	assert.Equal(t, uint64(100), f.custodian.balances[f.receive.Key])
	assert.Equal(t, uint64(0), f.record.Lamports)
	assert.Equal(t, 0, len(f.record.Data))
	assert.Equal(t, initializerLamports+depositLamports+recordLamports, f.initializer.Lamports)
	assert.IsErr(t, errors.ErrUninitializedAccount, f.cancel(6, f.initializer))
}

func TestCancelRejects(t *testing.T) {
	cases := map[string]struct {
		Prepare func(*fixture)
		Signer  func(*fixture) *tlescrow.AccountInfo
		WantErr *errors.Error
	}{
		"not the initializer": {
			Signer:  func(f *fixture) *tlescrow.AccountInfo { return f.taker },
			WantErr: errors.ErrInvalidAccountData,
		},
		"initializer did not sign": {
			Prepare: func(f *fixture) { f.initializer.IsSigner = false },
			WantErr: errors.ErrMissingSignature,
		},
		"record owned by another program": {
			Prepare: func(f *fixture) { f.record.Owner = tokenID },
			WantErr: errors.ErrIllegalOwner,
		},
		"read only record": {
			Prepare: func(f *fixture) { f.record.IsWritable = false },
			WantErr: errors.ErrIllegalOwner,
		},
		"wrong deposit": {
			Prepare: func(f *fixture) {
				fake := ledgertest.Account(ledgertest.RandomAddr(), tokenID, depositLamports, nil)
				f.custodian.open(fake, f.initializer.Key, 0)
				f.deposit = fake
			},
			WantErr: errors.ErrInvalidAccountData,
		},
		"substituted initializer main account": {
			Prepare: func(f *fixture) {
				f.main = ledgertest.Account(ledgertest.RandomAddr(), tlescrow.ZeroAddress, 1, nil)
			},
			WantErr: errors.ErrInvalidAccountData,
		},
		"record lamports overflow the initializer": {
			Prepare: func(f *fixture) { f.initializer.Lamports = math.MaxUint64 - depositLamports },
			WantErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			assert.Nil(t, f.initEscrow(50))
			deposit := f.deposit.Key
			if tc.Prepare != nil {
				tc.Prepare(f)
			}
			signer := f.initializer
			if tc.Signer != nil {
				signer = tc.Signer(f)
			}

			err := f.cancel(5, signer)
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Equal(t, recordLamports, f.record.Lamports)
			assert.Equal(t, RecordLen, len(f.record.Data))
			if tc.WantErr == errors.ErrOverflow {
				// Reclaiming the record is the last step. The runtime
				// discards the custodian calls made before it.
				return
			}
			assert.Equal(t, uint64(100), f.custodian.balances[deposit])
		})
	}
}

func TestCancelPolicy(t *testing.T) {
	f := newFixture(t)
	f.processor.WithPolicy(UnlockedPolicy{})
	assert.Nil(t, f.initEscrow(50))
	assert.Nil(t, f.resetTimeLock(10, f.initializer))

	assert.IsErr(t, errors.ErrTimelocked, f.cancel(109, f.initializer))
	assert.Equal(t, uint64(100), f.custodian.balances[f.deposit.Key])
	assert.Nil(t, f.cancel(110, f.initializer))
}

func TestInitEscrowStartsEnforcedTimelock(t *testing.T) {
	f := newFixture(t)
	conf := DefaultConfiguration()
	conf.EnforceTimelock = true
	f.processor = NewProcessor(programID, f.custodian, conf)
	assert.Nil(t, f.initEscrow(50))

	r := f.stored(t)
	assert.Equal(t, uint64(101), r.UnlockTime)
	assert.Equal(t, uint64(1101), r.TimeOut)

	assert.IsErr(t, errors.ErrTimelocked, f.cancel(1, f.initializer))
	assert.IsErr(t, errors.ErrTimelocked, f.cancel(100, f.initializer))

	// The timeout does not close the escrow on its own.
	assert.Nil(t, f.cancel(5000, f.initializer))
}

func TestInitEscrowTimelockOverflow(t *testing.T) {
	f := newFixture(t)
	conf := DefaultConfiguration()
	conf.EnforceTimelock = true
	conf.UnlockDelay = math.MaxUint64
	f.processor = NewProcessor(programID, f.custodian, conf)

	assert.IsErr(t, errors.ErrOverflow, f.initEscrow(50))
	assert.Equal(t, false, f.stored(t).IsInitialized)
}

func TestEnforceTimelockSelectsPolicy(t *testing.T) {
	conf := DefaultConfiguration()
	assert.Equal(t, AlwaysAllow{}, NewProcessor(programID, nil, conf).policy)
	conf.EnforceTimelock = true
	assert.Equal(t, UnlockedPolicy{}, NewProcessor(programID, nil, conf).policy)
}

func TestResetTimeLock(t *testing.T) {
	f := newFixture(t)
	assert.Nil(t, f.initEscrow(50))
	before := f.stored(t)

	assert.Nil(t, f.resetTimeLock(500, f.initializer))

	after := f.stored(t)
	assert.Equal(t, uint64(600), after.UnlockTime)
	assert.Equal(t, uint64(1600), after.TimeOut)
	after.UnlockTime, after.TimeOut = 0, 0
	assert.Equal(t, before, after)

	assert.IsErr(t, errors.ErrInvalidAccountData, f.resetTimeLock(700, f.taker))
	assert.IsErr(t, errors.ErrOverflow, f.resetTimeLock(^uint64(0)-50, f.initializer))
	assert.Equal(t, uint64(600), f.stored(t).UnlockTime)
}

func TestResetTimeLockUninitialized(t *testing.T) {
	f := newFixture(t)
	assert.IsErr(t, errors.ErrUninitializedAccount, f.resetTimeLock(1, f.initializer))
}

func TestProcessorChecksProgramID(t *testing.T) {
	f := newFixture(t)
	data := NewResetTimeLock(programID, f.initializer.Key, f.record.Key).Data
	err := f.processor.Process(ledgertest.BlockInfo(1), tokenID, []*tlescrow.AccountInfo{f.initializer, f.record}, data)
	assert.IsErr(t, errors.ErrWrongOwner, err)
}

func TestUnknownInstruction(t *testing.T) {
	f := newFixture(t)
	err := f.processor.Process(ledgertest.BlockInfo(1), programID, nil, []byte{9})
	assert.IsErr(t, errors.ErrInvalidInstruction, err)
}
