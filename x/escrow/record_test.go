package escrow

import (
	"math"
	"testing"

	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRoundTrip(t *testing.T) {
	records := map[string]Record{
		"zero": {},
		"active": {
			IsInitialized:             true,
			Initializer:               tlescrow.AddressFromSeed("alice"),
			DepositAccount:            tlescrow.AddressFromSeed("deposit"),
			InitializerReceiveAccount: tlescrow.AddressFromSeed("receive"),
			ExpectedAmount:            50,
			UnlockTime:                600,
			TimeOut:                   1600,
		},
		"extreme values": {
			IsInitialized:  true,
			Initializer:    tlescrow.AddressFromSeed("bob"),
			ExpectedAmount: math.MaxUint64,
			UnlockTime:     math.MaxUint64 - 1,
			TimeOut:        math.MaxUint64,
		},
	}
	for name, r := range records {
		t.Run(name, func(t *testing.T) {
			raw := r.Pack()
			require.Len(t, raw, RecordLen)
			got, err := Unpack(raw)
			require.NoError(t, err)
			assert.Equal(t, r, got)
		})
	}
}

func TestRecordLayout(t *testing.T) {
	r := Record{
		IsInitialized:             true,
		Initializer:               tlescrow.Address{1},
		DepositAccount:            tlescrow.Address{2},
		InitializerReceiveAccount: tlescrow.Address{3},
		ExpectedAmount:            0x0a0b,
		UnlockTime:                0x0c,
		TimeOut:                   0x0d,
	}
	raw := r.Pack()
	assert.Equal(t, 121, len(raw))
	assert.Equal(t, byte(1), raw[0])
	assert.Equal(t, byte(1), raw[1])
	assert.Equal(t, byte(2), raw[33])
	assert.Equal(t, byte(3), raw[65])
	assert.Equal(t, []byte{0x0b, 0x0a, 0, 0, 0, 0, 0, 0}, raw[97:105])
	assert.Equal(t, byte(0x0c), raw[105])
	assert.Equal(t, byte(0x0d), raw[113])
}

func TestUnpackRejects(t *testing.T) {
	_, err := Unpack(nil)
	assert.True(t, errors.ErrUninitializedAccount.Is(err))

	_, err = Unpack(make([]byte, RecordLen-1))
	assert.True(t, errors.ErrInvalidAccountData.Is(err))

	raw := make([]byte, RecordLen)
	raw[0] = 2
	_, err = Unpack(raw)
	assert.True(t, errors.ErrInvalidAccountData.Is(err))
}
