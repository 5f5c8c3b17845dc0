package escrow

import (
	"github.com/iov-one/tlescrow/errors"
	"github.com/iov-one/tlescrow/gconf"
)

const pkg = "escrow"

// Configuration of the escrow program, stored with gconf.
type Configuration struct {
	// UnlockDelay is the number of slots after a ResetTimeLock, or after
	// InitEscrow when the timelock is enforced, before the escrow unlocks.
	UnlockDelay uint64 `json:"unlock_delay"`
	// TimeoutDelay is the number of slots between unlock and timeout.
	TimeoutDelay uint64 `json:"timeout_delay"`
	// EnforceTimelock makes Cancel fail until the unlock time.
	EnforceTimelock bool `json:"enforce_timelock"`
}

// DefaultConfiguration returns the configuration used when genesis does not
// provide one.
func DefaultConfiguration() Configuration {
	return Configuration{
		UnlockDelay:  100,
		TimeoutDelay: 1000,
	}
}

func (c Configuration) Validate() error {
	if c.UnlockDelay == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "unlock delay must be positive")
	}
	if c.TimeoutDelay == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "timeout delay must be positive")
	}
	return nil
}

// LoadConfiguration reads the stored configuration.
func LoadConfiguration(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, pkg, &conf); err != nil {
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}
