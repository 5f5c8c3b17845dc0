package tlescrow

import (
	"encoding/json"
)

// Program is the on-ledger logic the runtime dispatches instructions to.
//
// A program receives the accounts named by the instruction, in the order the
// caller listed them, and the raw instruction data. It mutates the account
// handles in place. Returning an error aborts the whole request and none of
// the changes are persisted.
type Program interface {
	Process(info BlockInfo, programID Address, accounts []*AccountInfo, data []byte) error
}

// ProgramFunc is an adapter to allow the use of ordinary functions as
// programs.
type ProgramFunc func(info BlockInfo, programID Address, accounts []*AccountInfo, data []byte) error

func (fn ProgramFunc) Process(info BlockInfo, programID Address, accounts []*AccountInfo, data []byte) error {
	return fn(info, programID, accounts, data)
}

// Options are the genesis options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...Initializer) Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []Initializer
}

// FromGenesis passes the options to every initializer in order.
func (c chainInitializer) FromGenesis(opts Options, kv KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
