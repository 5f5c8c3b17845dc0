package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
	"github.com/iov-one/tlescrow/x/token"
)

// Genesis file format.
type Genesis struct {
	ChainID    string           `json:"chain_id"`
	AppOptions tlescrow.Options `json:"app_options"`
}

// LoadGenesis tries to load a given file into a Genesis struct.
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	bytes, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrapf(errors.ErrNotFound, "loading genesis file: %s", err)
	}

	if err := json.Unmarshal(bytes, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInvalidInput, "unmarshaling genesis file: %s", err)
	}
	return gen, nil
}

// escrowProgramID reads the optional "escrow_program" option, which lets a
// chain deploy the escrow program under its own identity.
func escrowProgramID(opts tlescrow.Options) (tlescrow.Address, error) {
	id := DefaultEscrowProgramID
	if err := opts.ReadOptions("escrow_program", &id); err != nil {
		return id, errors.Wrapf(errors.ErrInvalidInput, "escrow program: %s", err)
	}
	if id.IsZero() || id.Equals(token.ProgramID) {
		return id, errors.Wrapf(errors.ErrInvalidInput, "escrow program cannot be %s", id)
	}
	return id, nil
}
