package store

import "github.com/iov-one/tlescrow"

// Move references for all storage types into this package
// for shorter names everywhere

type KVStore = tlescrow.KVStore
type CacheableKVStore = tlescrow.CacheableKVStore
type KVCacheWrap = tlescrow.KVCacheWrap

// ReadOnlyKVStore is the read half of a KVStore. Cache wraps only read from
// their parent; all writes go through a Batch.
type ReadOnlyKVStore interface {
	Get(key []byte) []byte
	Has(key []byte) bool
}

// SetDeleter is the write half of a KVStore.
type SetDeleter interface {
	Set(key, value []byte)
	Delete(key []byte)
}

// Batch accumulates writes to apply them together.
type Batch interface {
	SetDeleter
	Write()
}
