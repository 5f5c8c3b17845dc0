package escrow

import (
	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
)

var authoritySeed = []byte("escrow")

// AuthorityFor returns the authority controlling the deposit of the escrow
// stored at record, together with the proof the program presents to act on
// its behalf. Every escrow has its own authority.
func AuthorityFor(programID, record tlescrow.Address) (tlescrow.Address, tlescrow.DerivationProof, error) {
	seeds := [][]byte{authoritySeed, record.Bytes()}
	addr, nonce, err := tlescrow.FindProgramAddress(seeds, programID)
	if err != nil {
		return addr, tlescrow.DerivationProof{}, errors.Wrapf(err, "escrow authority for %s", record)
	}
	return addr, tlescrow.DerivationProof{Seeds: seeds, Nonce: nonce}, nil
}
