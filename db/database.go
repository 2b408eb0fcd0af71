package db

import (
	"encoding/binary"
	"errors"
	"io"
)

var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore keeps fork reads across runs. Implementations are safe for concurrent use.
type KeyValueStore interface {
	// Get calls cb with the value stored under key, or returns ErrKeyNotFound
	Get(key []byte, cb func(value []byte) error) error
	Put(key, value []byte) error
	Delete(key []byte) error
	io.Closer
}

// Bucket partitions the key space by the kind of value stored under it
type Bucket byte

const (
	ForkStorage Bucket = iota
	ForkNonce
	ForkClassHash
	ForkCompiledClass
)

// Key is the bucket byte, the chain scope, the big endian block number and
// then parts in order. Scoping by chain keeps networks sharing a store apart.
func (b Bucket) Key(chain []byte, block uint64, parts ...[]byte) []byte {
	size := 1 + len(chain) + 8
	for _, part := range parts {
		size += len(part)
	}
	key := make([]byte, 0, size)
	key = append(key, byte(b))
	key = append(key, chain...)
	key = binary.BigEndian.AppendUint64(key, block)
	for _, part := range parts {
		key = append(key, part...)
	}
	return key
}
