package tlescrow

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"

	"github.com/btcsuite/btcutil/base58"
	"github.com/iov-one/tlescrow/errors"
)

// AddressLength is the length of all addresses. An address is either an
// ed25519 public key or an authority derived from a program identity.
const AddressLength = 32

// Address identifies an account, a signer or a program.
type Address [AddressLength]byte

// ZeroAddress is the address of the system program and the owner of accounts
// that were never assigned.
var ZeroAddress Address

// NewAddress copies raw bytes into an address. Input must be exactly
// AddressLength long.
func NewAddress(raw []byte) (Address, error) {
	var a Address
	if len(raw) != AddressLength {
		return a, errors.ErrInvalidInput.Newf("address length %d", len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

// AddressFromSeed returns a well known address computed from a human readable
// name. It is used for program identities and sysvars.
func AddressFromSeed(name string) Address {
	return Address(sha256.Sum256([]byte(name)))
}

// ParseAddress decodes the base58 representation of an address.
func ParseAddress(s string) (Address, error) {
	raw := base58.Decode(s)
	if len(raw) == 0 && len(s) != 0 {
		return Address{}, errors.ErrInvalidInput.Newf("malformed address %q", s)
	}
	return NewAddress(raw)
}

// Equals checks if two addresses are the same
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a[:], b[:])
}

// IsZero returns true for the zero address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// Bytes returns a copy of the address as a slice.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressLength)
	copy(b, a[:])
	return b
}

// String returns a human readable base58 string.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// MarshalJSON provides a base58 representation for JSON.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	if len(enc) == 0 {
		*a = ZeroAddress
		return nil
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
