package app

import (
	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
	"github.com/iov-one/tlescrow/ledger"
	"github.com/iov-one/tlescrow/store"
	"github.com/iov-one/tlescrow/x/escrow"
	"github.com/iov-one/tlescrow/x/system"
	"github.com/iov-one/tlescrow/x/token"
	"github.com/tendermint/tendermint/libs/log"
)

// DefaultEscrowProgramID is the identity of the escrow program unless genesis
// names another one.
var DefaultEscrowProgramID = tlescrow.AddressFromSeed("program/escrow")

// App is a ledger with all programs registered.
type App struct {
	*ledger.Runtime
	escrow *escrow.Processor
}

// New creates an in memory ledger from the genesis.
func New(gen Genesis, logger log.Logger) (*App, error) {
	rt, err := ledger.NewRuntime(store.MemStore(), gen.ChainID, logger)
	if err != nil {
		return nil, err
	}
	escrowID, err := escrowProgramID(gen.AppOptions)
	if err != nil {
		return nil, err
	}

	init := tlescrow.ChainInitializers(
		&ledger.Initializer{},
		&token.Initializer{},
		&escrow.Initializer{},
	)
	if err := rt.InitGenesis(gen.AppOptions, init); err != nil {
		return nil, err
	}
	conf, err := escrow.LoadConfiguration(rt.Store())
	if err != nil {
		return nil, errors.Wrap(err, "escrow")
	}

	proc := escrow.NewProcessor(escrowID, token.NewCustodian(escrowID), conf)
	rt.Register(system.ProgramID, system.Program{})
	rt.Register(token.ProgramID, token.Program{})
	rt.Register(escrowID, proc, token.ProgramID)

	return &App{Runtime: rt, escrow: proc}, nil
}

// EscrowProgramID returns the identity the escrow program runs under.
func (a *App) EscrowProgramID() tlescrow.Address {
	return a.escrow.ProgramID()
}
