package escrow

import (
	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
	"github.com/iov-one/tlescrow/gconf"
)

// Initializer stores the escrow configuration from the genesis "conf"
// section, falling back to DefaultConfiguration.
type Initializer struct{}

var _ tlescrow.Initializer = (*Initializer)(nil)

// FromGenesis saves the escrow configuration.
func (*Initializer) FromGenesis(opts tlescrow.Options, db tlescrow.KVStore) error {
	conf := DefaultConfiguration()
	err := gconf.InitConfig(db, opts, pkg, &conf)
	switch {
	case err == nil:
		return nil
	case errors.ErrNotFound.Is(err):
		return gconf.Save(db, pkg, DefaultConfiguration())
	default:
		return err
	}
}
