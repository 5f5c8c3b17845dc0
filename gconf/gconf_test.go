package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/errors"
	"github.com/iov-one/tlescrow/ledgertest/assert"
	"github.com/iov-one/tlescrow/store"
)

type MyConfig struct {
	Number int64            `json:"number"`
	Text   string           `json:"text"`
	Addr   tlescrow.Address `json:"addr"`
}

func (c *MyConfig) Validate() error {
	if c.Number < 0 {
		return errors.ErrInvalidInput.New("negative number")
	}
	return nil
}

func TestSaveLoad(t *testing.T) {
	cases := map[string]struct {
		Conf        *MyConfig
		WantSaveErr *errors.Error
	}{
		"valid": {
			Conf: &MyConfig{Number: 852151421, Text: "foobar", Addr: tlescrow.AddressFromSeed("a")},
		},
		"zero value": {
			Conf: &MyConfig{},
		},
		"invalid configuration cannot be saved": {
			Conf:        &MyConfig{Number: -1},
			WantSaveErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := Save(db, "mypkg", tc.Conf); !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %s", err)
			}
			if tc.WantSaveErr != nil {
				return
			}

			var got MyConfig
			assert.Nil(t, Load(db, "mypkg", &got))
			assert.Equal(t, *tc.Conf, got)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	var conf MyConfig
	err := Load(store.MemStore(), "mypkg", &conf)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestInitConfig(t *testing.T) {
	const genesis = `{"conf": {"mypkg": {"number": 7, "text": "seven"}}}`
	var opts tlescrow.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	var conf MyConfig
	assert.Nil(t, InitConfig(db, opts, "mypkg", &conf))

	var loaded MyConfig
	assert.Nil(t, Load(db, "mypkg", &loaded))
	assert.Equal(t, MyConfig{Number: 7, Text: "seven"}, loaded)

	err := InitConfig(db, opts, "otherpkg", &conf)
	assert.IsErr(t, errors.ErrNotFound, err)
}
