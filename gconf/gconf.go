package gconf

import (
	"encoding/json"

	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
)

// ReadStore is a subset of tlescrow.KVStore.
type ReadStore interface {
	Get([]byte) []byte
}

// Store is a subset of tlescrow.KVStore.
type Store interface {
	ReadStore
	Set([]byte, []byte)
}

// Configuration is implemented by every extension configuration. You must
// add your own Validate method.
type Configuration interface {
	Validate() error
}

func key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save will Validate the object, before writing it to a special "configuration"
// singleton for that package name.
func Save(db Store, pkg string, src Configuration) error {
	k := key(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", k)
	}
	raw, err := json.Marshal(src)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "marshal: key %q: %s", k, err)
	}
	db.Set(k, raw)
	return nil
}

// Load reads the configuration singleton of given package into dst.
func Load(db ReadStore, pkg string, dst Configuration) error {
	k := key(pkg)
	raw := db.Get(k)
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "key %q", k)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.Wrapf(errors.ErrInvalidState, "unmarshal: key %q: %s", k, err)
	}
	return nil
}

// InitConfig will take opts["conf"][pkg], parse it into the given Configuration object
// validate it, and store under the proper key in the database
// Returns an error if anything goes wrong
func InitConfig(db Store, opts tlescrow.Options, pkg string, conf Configuration) error {
	var confOptions tlescrow.Options
	if err := opts.ReadOptions("conf", &confOptions); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "read conf: %s", err)
	}
	if confOptions[pkg] == nil {
		return errors.Wrapf(errors.ErrNotFound, "no configuration in genesis for %q package", pkg)
	}
	if err := confOptions.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "read configuration for %s: %s", pkg, err)
	}
	if err := Save(db, pkg, conf); err != nil {
		return errors.Wrapf(err, "save configuration for %s", pkg)
	}
	return nil
}
