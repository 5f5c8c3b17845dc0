/*
Package tlescrow defines the primitives shared by the ledger runtime and the
programs it executes: addresses and derived authorities, account handles,
the rent model, storage interfaces and the per request BlockInfo.

We pass a BlockInfo struct with all runtime-defined information down to the
programs. It carries the logical clock (slot) and the request logger.
*/
package tlescrow

import (
	"regexp"

	"github.com/iov-one/tlescrow/errors"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	// DefaultLogger is used for all block info that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID is the RegExp to ensure valid chain IDs
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

// BlockInfo describes where a request is being executed.
type BlockInfo struct {
	slot    uint64
	chainID string
	logger  log.Logger
}

// NewBlockInfo creates a BlockInfo struct with current context of where it is being executed
func NewBlockInfo(slot uint64, chainID string, logger log.Logger) (BlockInfo, error) {
	if !IsValidChainID(chainID) {
		return BlockInfo{}, errors.Wrap(errors.ErrInvalidInput, "chainID invalid")
	}
	if logger == nil {
		logger = DefaultLogger
	}
	return BlockInfo{
		slot:    slot,
		chainID: chainID,
		logger:  logger,
	}, nil
}

// Slot is the current logical time as declared by the runtime.
func (b BlockInfo) Slot() uint64 {
	return b.slot
}

func (b BlockInfo) ChainID() string {
	return b.chainID
}

func (b BlockInfo) Logger() log.Logger {
	if b.logger == nil {
		return DefaultLogger
	}
	return b.logger
}

// WithLogInfo accepts keyvalue pairs, and returns another
// block info like this, after passing all the keyvals to the
// Logger
func (b BlockInfo) WithLogInfo(keyvals ...interface{}) BlockInfo {
	b.logger = b.Logger().With(keyvals...)
	return b
}
