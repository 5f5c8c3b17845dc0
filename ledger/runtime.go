package ledger

import (
	"bytes"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/sync/errgroup"
)

type registration struct {
	program tlescrow.Program
	// invokes lists programs this program calls in process. Accounts owned
	// by them may be modified while this program runs.
	invokes map[tlescrow.Address]bool
}

// Runtime executes transactions against account storage.
type Runtime struct {
	mu       sync.Mutex
	db       tlescrow.CacheableKVStore
	chainID  string
	slot     uint64
	logger   log.Logger
	programs map[tlescrow.Address]registration
}

// NewRuntime returns a runtime operating on given store. The slot clock
// starts at zero.
func NewRuntime(db tlescrow.CacheableKVStore, chainID string, logger log.Logger) (*Runtime, error) {
	if !tlescrow.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "chain id %q", chainID)
	}
	if logger == nil {
		logger = tlescrow.DefaultLogger
	}
	return &Runtime{
		db:       db,
		chainID:  chainID,
		logger:   logger,
		programs: make(map[tlescrow.Address]registration),
	}, nil
}

// Register makes the program available under given identity. invokes lists
// the programs it calls in process, whose accounts it may therefore change.
//
// Register panics when the identity is already taken.
func (r *Runtime) Register(id tlescrow.Address, p tlescrow.Program, invokes ...tlescrow.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.programs[id]; ok {
		panic("program already registered: " + id.String())
	}
	reg := registration{program: p, invokes: make(map[tlescrow.Address]bool)}
	for _, a := range invokes {
		reg.invokes[a] = true
	}
	r.programs[id] = reg
}

// ChainID returns the chain this runtime signs transactions for.
func (r *Runtime) ChainID() string {
	return r.chainID
}

// Slot returns the current logical time.
func (r *Runtime) Slot() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slot
}

// AdvanceSlot moves the clock forward and returns the new slot. The clock
// never goes backwards.
func (r *Runtime) AdvanceSlot(n uint64) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, err := tlescrow.CheckedAdd(r.slot, n)
	if err != nil {
		return r.slot, err
	}
	r.slot = next
	return r.slot, nil
}

// Account returns the committed state of an account.
func (r *Runtime) Account(addr tlescrow.Address) (*tlescrow.AccountInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return LoadAccount(r.db, addr)
}

// InitGenesis runs the initializers against a cache wrap of the store and
// commits the result only if all of them succeeded.
func (r *Runtime) InitGenesis(opts tlescrow.Options, init tlescrow.Initializer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cache := r.db.CacheWrap()
	if err := init.FromGenesis(opts, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	cache.Write()
	return nil
}

// Store gives read access to the committed state, for queries and
// configuration.
func (r *Runtime) Store() tlescrow.KVStore {
	return r.db
}

// Execute verifies and runs a transaction. Either all instructions succeed
// and their changes are committed, or nothing is.
func (r *Runtime) Execute(tx *Tx) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if _, err := tx.VerifySignatures(r.chainID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.execute(tx)
}

// ExecuteBlock runs transactions in the given order and returns one result
// per transaction. A failed transaction does not stop the block. Signatures
// are verified concurrently before execution starts.
func (r *Runtime) ExecuteBlock(txs []*Tx) []error {
	results := make([]error, len(txs))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, tx := range txs {
		i, tx := i, tx
		g.Go(func() error {
			if err := tx.Validate(); err != nil {
				results[i] = err
				return nil
			}
			_, results[i] = tx.VerifySignatures(r.chainID)
			return nil
		})
	}
	_ = g.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, tx := range txs {
		if results[i] != nil {
			continue
		}
		results[i] = r.execute(tx)
	}
	return results
}

func (r *Runtime) execute(tx *Tx) (err error) {
	reqID := uuid.New().String()
	info, err := tlescrow.NewBlockInfo(r.slot, r.chainID, r.logger.With("request", reqID))
	if err != nil {
		return err
	}

	cache := r.db.CacheWrap()
	defer func() {
		if err != nil {
			cache.Discard()
			info.Logger().Info("transaction rejected", "slot", r.slot, "err", err)
			return
		}
		cache.Write()
		info.Logger().Debug("transaction committed", "slot", r.slot)
	}()
	defer errors.Recover(&err)

	for i, ins := range tx.Instructions {
		if err := r.invoke(info, cache, ins); err != nil {
			return errors.Wrapf(err, "instruction %d", i)
		}
	}
	return nil
}

func (r *Runtime) invoke(info tlescrow.BlockInfo, db tlescrow.KVStore, ins Instruction) error {
	reg, ok := r.programs[ins.ProgramID]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "program %s", ins.ProgramID)
	}

	accounts := make([]*tlescrow.AccountInfo, len(ins.Accounts))
	loaded := make(map[tlescrow.Address]*tlescrow.AccountInfo, len(ins.Accounts))
	before := make(map[tlescrow.Address]*tlescrow.AccountInfo, len(ins.Accounts))
	for i, m := range ins.Accounts {
		// The same account listed twice is one handle.
		if acc, ok := loaded[m.Key]; ok {
			acc.IsSigner = acc.IsSigner || m.IsSigner
			acc.IsWritable = acc.IsWritable || m.IsWritable
			accounts[i] = acc
			continue
		}
		acc, err := LoadAccount(db, m.Key)
		if err != nil {
			return err
		}
		acc.IsSigner = m.IsSigner
		acc.IsWritable = m.IsWritable
		loaded[m.Key] = acc
		before[m.Key] = acc.Clone()
		accounts[i] = acc
	}

	if err := reg.program.Process(info, ins.ProgramID, accounts, ins.Data); err != nil {
		return err
	}

	if err := r.verify(ins.ProgramID, reg, loaded, before); err != nil {
		return err
	}
	for _, acc := range loaded {
		if err := SaveAccount(db, acc); err != nil {
			return err
		}
	}
	return nil
}

// verify enforces the rules every program must follow.
func (r *Runtime) verify(
	programID tlescrow.Address,
	reg registration,
	loaded, before map[tlescrow.Address]*tlescrow.AccountInfo,
) error {
	var sumBefore, sumAfter uint64
	for key, acc := range loaded {
		prev := before[key]
		if acc.Key != prev.Key {
			return errors.Wrapf(errors.ErrHuman, "account %s changed its key", prev.Key)
		}
		var err error
		if sumBefore, err = tlescrow.CheckedAdd(sumBefore, prev.Lamports); err != nil {
			return err
		}
		if sumAfter, err = tlescrow.CheckedAdd(sumAfter, acc.Lamports); err != nil {
			return err
		}
		if acc.Equals(prev) {
			continue
		}
		if !acc.IsWritable {
			return errors.Wrapf(errors.ErrReadOnly, "account %s", key)
		}
		modified := !bytes.Equal(acc.Data, prev.Data) || acc.Owner != prev.Owner || acc.Lamports < prev.Lamports
		if modified && !prev.IsOwnedBy(programID) && !reg.invokes[prev.Owner] {
			return errors.Wrapf(errors.ErrIllegalOwner, "account %s owned by %s", key, prev.Owner)
		}
	}
	if sumBefore != sumAfter {
		return errors.Wrapf(errors.ErrUnbalanced, "%d before, %d after", sumBefore, sumAfter)
	}
	return nil
}
