package tlescrow

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/iov-one/tlescrow/errors"
)

const (
	// MaxSeeds is the maximum number of seeds used to derive an authority,
	// nonce included.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32
)

var derivationMarker = []byte("ProgramDerivedAddress")

// CreateProgramAddress computes the authority derived from the given seeds
// and program identity. The result is never a valid ed25519 public key, so
// nobody can hold a private key for it. Only the program can act on its
// behalf, by presenting the seeds as a DerivationProof.
func CreateProgramAddress(seeds [][]byte, programID Address) (Address, error) {
	if len(seeds) > MaxSeeds {
		return Address{}, errors.ErrInvalidSeeds.Newf("%d seeds", len(seeds))
	}
	h := sha256.New()
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return Address{}, errors.ErrInvalidSeeds.Newf("seed %d is %d bytes", i, len(s))
		}
		h.Write(s)
	}
	h.Write(programID[:])
	h.Write(derivationMarker)

	var a Address
	copy(a[:], h.Sum(nil))
	if isOnCurve(a) {
		return Address{}, errOnCurve
	}
	return a, nil
}

// FindProgramAddress searches for the highest nonce that, appended to the
// seeds, yields a valid derived authority.
func FindProgramAddress(seeds [][]byte, programID Address) (Address, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return Address{}, 0, errors.ErrInvalidSeeds.Newf("%d seeds", len(seeds))
	}
	all := make([][]byte, len(seeds)+1)
	copy(all, seeds)
	for nonce := 255; nonce > 0; nonce-- {
		all[len(seeds)] = []byte{uint8(nonce)}
		a, err := CreateProgramAddress(all, programID)
		if err == nil {
			return a, uint8(nonce), nil
		}
		if !onCurve(err) {
			return Address{}, 0, err
		}
	}
	return Address{}, 0, errors.ErrInvalidSeeds.New("no viable nonce")
}

var errOnCurve = errors.ErrInvalidSeeds.New("derived address is on curve")

func onCurve(err error) bool {
	return err == errOnCurve
}

func isOnCurve(a Address) bool {
	_, err := new(edwards25519.Point).SetBytes(a[:])
	return err == nil
}

// DerivationProof is what a program presents instead of a signature when it
// acts on behalf of an authority derived from its own identity.
type DerivationProof struct {
	Seeds [][]byte
	Nonce uint8
}

// Address recomputes the authority this proof stands for, when presented by
// the given program.
func (p DerivationProof) Address(programID Address) (Address, error) {
	seeds := make([][]byte, 0, len(p.Seeds)+1)
	seeds = append(seeds, p.Seeds...)
	seeds = append(seeds, []byte{p.Nonce})
	return CreateProgramAddress(seeds, programID)
}

// Authority is the identity named by a caller as entitled to act on an
// account. It is either an account key verified as a signer by the runtime,
// or a derived authority backed by a proof.
type Authority struct {
	Key    Address
	Signed bool
	Proof  *DerivationProof
}

// SignedBy returns the authority of the given account as seen by the
// runtime.
func SignedBy(acc *AccountInfo) Authority {
	return Authority{Key: acc.Key, Signed: acc.IsSigner}
}

// DerivedBy returns a derived authority backed by the given proof.
func DerivedBy(key Address, proof DerivationProof) Authority {
	return Authority{Key: key, Proof: &proof}
}

// Verify returns an error unless the authority has been proven. Proofs are
// checked against the identity of the program presenting them.
func (a Authority) Verify(caller Address) error {
	if a.Proof == nil {
		if !a.Signed {
			return errors.Wrapf(errors.ErrMissingSignature, "authority %s", a.Key)
		}
		return nil
	}
	derived, err := a.Proof.Address(caller)
	if err != nil {
		return errors.Wrap(err, "derivation proof")
	}
	if !derived.Equals(a.Key) {
		return errors.Wrapf(errors.ErrIncorrectAuthority, "proof derives %s, not %s", derived, a.Key)
	}
	return nil
}
