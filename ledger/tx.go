package ledger

import (
	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
	"golang.org/x/crypto/ed25519"
)

// AccountMeta names an account used by an instruction. Position in the
// instruction account list is meaningful to the program.
type AccountMeta struct {
	Key        tlescrow.Address `json:"key"`
	IsSigner   bool             `json:"is_signer"`
	IsWritable bool             `json:"is_writable"`
}

// Writable declares an account the instruction may modify.
func Writable(key tlescrow.Address, signer bool) AccountMeta {
	return AccountMeta{Key: key, IsSigner: signer, IsWritable: true}
}

// ReadOnly declares an account the instruction may only read.
func ReadOnly(key tlescrow.Address, signer bool) AccountMeta {
	return AccountMeta{Key: key, IsSigner: signer}
}

// Instruction is a single program invocation.
type Instruction struct {
	ProgramID tlescrow.Address `json:"program_id"`
	Accounts  []AccountMeta    `json:"accounts"`
	Data      []byte           `json:"data"`
}

// Signature is an ed25519 signature of the transaction sign bytes. The
// signer address is the public key.
type Signature struct {
	Signer    tlescrow.Address `json:"signer"`
	Signature []byte           `json:"signature"`
}

// Tx is an atomic list of instructions.
type Tx struct {
	Instructions []Instruction `json:"instructions"`
	Signatures   []Signature   `json:"signatures"`
}

// NewTx creates an unsigned transaction.
func NewTx(ins ...Instruction) *Tx {
	return &Tx{Instructions: ins}
}

// Validate checks the transaction is well formed.
func (tx *Tx) Validate() error {
	if len(tx.Instructions) == 0 {
		return errors.ErrInvalidInput.New("no instructions")
	}
	return nil
}

// SignBytes returns the bytes every signer must sign. They are bound to the
// chain so that a transaction cannot be replayed on another ledger.
func (tx *Tx) SignBytes(chainID string) ([]byte, error) {
	doc := signDoc{ChainID: chainID}
	for _, ins := range tx.Instructions {
		si := signInstruction{
			ProgramID: ins.ProgramID.Bytes(),
			Data:      ins.Data,
		}
		for _, m := range ins.Accounts {
			si.Accounts = append(si.Accounts, signMeta{
				Key:        m.Key.Bytes(),
				IsSigner:   m.IsSigner,
				IsWritable: m.IsWritable,
			})
		}
		doc.Instructions = append(doc.Instructions, si)
	}
	bz, err := cdc.MarshalBinaryBare(doc)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrHuman, "sign bytes: %s", err)
	}
	return bz, nil
}

// Sign adds a signature made with given private key.
func (tx *Tx) Sign(chainID string, key ed25519.PrivateKey) error {
	bz, err := tx.SignBytes(chainID)
	if err != nil {
		return err
	}
	signer, err := tlescrow.NewAddress(key.Public().(ed25519.PublicKey))
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, Signature{
		Signer:    signer,
		Signature: ed25519.Sign(key, bz),
	})
	return nil
}

// VerifySignatures checks every signature and returns the set of verified
// signers. Every account declared as a signer by any instruction must have
// signed.
func (tx *Tx) VerifySignatures(chainID string) (map[tlescrow.Address]bool, error) {
	bz, err := tx.SignBytes(chainID)
	if err != nil {
		return nil, err
	}
	signed := make(map[tlescrow.Address]bool, len(tx.Signatures))
	for _, s := range tx.Signatures {
		if !ed25519.Verify(ed25519.PublicKey(s.Signer[:]), bz, s.Signature) {
			return nil, errors.Wrapf(errors.ErrMissingSignature, "invalid signature of %s", s.Signer)
		}
		signed[s.Signer] = true
	}
	for i, ins := range tx.Instructions {
		for _, m := range ins.Accounts {
			if m.IsSigner && !signed[m.Key] {
				return nil, errors.Wrapf(errors.ErrMissingSignature, "instruction %d: %s", i, m.Key)
			}
		}
	}
	return signed, nil
}
