package ledgertest

import (
	"crypto/rand"
	"crypto/sha256"

	"github.com/iov-one/tlescrow"
	"golang.org/x/crypto/ed25519"
)

// Key is an ed25519 key pair together with the address it signs for.
type Key struct {
	Priv    ed25519.PrivateKey
	Address tlescrow.Address
}

// NewKey returns a random key.
func NewKey() Key {
	var seed [ed25519.SeedSize]byte
	if _, err := rand.Read(seed[:]); err != nil {
		panic(err)
	}
	return keyFromSeed(seed[:])
}

// KeyFromSeed deterministically derives a key from a name. Use it for
// readable test fixtures.
func KeyFromSeed(name string) Key {
	seed := sha256.Sum256([]byte(name))
	return keyFromSeed(seed[:])
}

func keyFromSeed(seed []byte) Key {
	priv := ed25519.NewKeyFromSeed(seed)
	var addr tlescrow.Address
	copy(addr[:], priv.Public().(ed25519.PublicKey))
	return Key{Priv: priv, Address: addr}
}

// RandomAddr returns an address nobody holds a key for.
func RandomAddr() tlescrow.Address {
	var a tlescrow.Address
	if _, err := rand.Read(a[:]); err != nil {
		panic(err)
	}
	return a
}
