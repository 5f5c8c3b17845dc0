package tlescrow

import (
	"encoding/binary"
	"math"
	"math/big"

	"github.com/iov-one/tlescrow/errors"
	"github.com/shopspring/decimal"
)

// RentSysvarID is the address of the account holding the current rent
// parameters.
var RentSysvarID = AddressFromSeed("sysvar/rent")

const (
	// AccountStorageOverhead is charged for every account on top of its
	// data.
	AccountStorageOverhead = 128

	// RentSysvarLen is the packed length of the rent parameters.
	RentSysvarLen = 17

	DefaultLamportsPerByteYear uint64  = 3480
	DefaultExemptionThreshold  float64 = 2.0
	DefaultBurnPercent         uint8   = 50
)

// Rent describes the storage cost model. An account holding at least
// MinimumBalance lamports for its size is exempt from rent and persists
// indefinitely.
type Rent struct {
	LamportsPerByteYear uint64  `json:"lamports_per_byte_year"`
	ExemptionThreshold  float64 `json:"exemption_threshold"`
	BurnPercent         uint8   `json:"burn_percent"`
}

// DefaultRent returns the rent parameters used when none are configured.
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionThreshold:  DefaultExemptionThreshold,
		BurnPercent:         DefaultBurnPercent,
	}
}

// Validate ensures the rent parameters are usable.
func (r Rent) Validate() error {
	if r.ExemptionThreshold < 0 || math.IsNaN(r.ExemptionThreshold) || math.IsInf(r.ExemptionThreshold, 0) {
		return errors.ErrInvalidInput.Newf("exemption threshold %v", r.ExemptionThreshold)
	}
	if r.BurnPercent > 100 {
		return errors.ErrInvalidInput.Newf("burn percent %d", r.BurnPercent)
	}
	return nil
}

// MinimumBalance returns the lowest balance an account holding dataLen bytes
// needs to be rent exempt.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	size := decimal.NewFromInt(int64(AccountStorageOverhead + dataLen))
	perYear := decimal.NewFromBigInt(new(big.Int).SetUint64(r.LamportsPerByteYear), 0)
	min := size.Mul(perYear).Mul(decimal.NewFromFloat(r.ExemptionThreshold)).Floor()
	if min.GreaterThan(maxBalance) {
		return math.MaxUint64
	}
	return min.BigInt().Uint64()
}

var maxBalance = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// IsExempt returns true if the balance is enough to keep an account of given
// size forever.
func (r Rent) IsExempt(lamports uint64, dataLen int) bool {
	return lamports >= r.MinimumBalance(dataLen)
}

// Pack serializes the rent parameters into the sysvar layout.
func (r Rent) Pack() []byte {
	raw := make([]byte, RentSysvarLen)
	binary.LittleEndian.PutUint64(raw[0:8], r.LamportsPerByteYear)
	binary.LittleEndian.PutUint64(raw[8:16], math.Float64bits(r.ExemptionThreshold))
	raw[16] = r.BurnPercent
	return raw
}

// UnpackRent deserializes the sysvar layout.
func UnpackRent(raw []byte) (Rent, error) {
	if len(raw) != RentSysvarLen {
		return Rent{}, errors.Wrapf(errors.ErrInvalidAccountData, "rent sysvar is %d bytes", len(raw))
	}
	r := Rent{
		LamportsPerByteYear: binary.LittleEndian.Uint64(raw[0:8]),
		ExemptionThreshold:  math.Float64frombits(binary.LittleEndian.Uint64(raw[8:16])),
		BurnPercent:         raw[16],
	}
	return r, r.Validate()
}

// RentFromAccount reads rent parameters from the sysvar account. The account
// must be the rent sysvar itself.
func RentFromAccount(acc *AccountInfo) (Rent, error) {
	if !acc.Key.Equals(RentSysvarID) {
		return Rent{}, errors.Wrapf(errors.ErrInvalidAccountData, "%s is not the rent sysvar", acc.Key)
	}
	return UnpackRent(acc.Data)
}
