package state

import (
	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/starknet"
)

// StorageEntry represents a key-value pair in contract storage.
type StorageEntry struct {
	ContractAddress felt.Address
	Key             felt.Felt
}

// Overlay holds local writes on top of an optional parent. Lookups fall
// through to the parent so a child only stores its own diff.
type Overlay struct {
	parent *Overlay

	Storage             map[StorageEntry]felt.Felt
	Nonces              map[felt.Address]felt.Felt
	ClassHashes         map[felt.Address]felt.ClassHash
	Classes             map[felt.ClassHash]*starknet.CompiledClass
	CompiledClassHashes map[felt.ClassHash]felt.CasmClassHash
}

func NewOverlay(parent *Overlay) *Overlay {
	return &Overlay{
		parent:              parent,
		Storage:             make(map[StorageEntry]felt.Felt),
		Nonces:              make(map[felt.Address]felt.Felt),
		ClassHashes:         make(map[felt.Address]felt.ClassHash),
		Classes:             make(map[felt.ClassHash]*starknet.CompiledClass),
		CompiledClassHashes: make(map[felt.ClassHash]felt.CasmClassHash),
	}
}

func lookup[K comparable, V any](o *Overlay, get func(*Overlay) map[K]V, k K) (V, bool) {
	for ; o != nil; o = o.parent {
		if v, ok := get(o)[k]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

func (o *Overlay) GetStorage(addr felt.Address, key felt.Felt) (felt.Felt, bool) {
	return lookup(o, func(o *Overlay) map[StorageEntry]felt.Felt { return o.Storage }, StorageEntry{addr, key})
}

func (o *Overlay) GetNonce(addr felt.Address) (felt.Felt, bool) {
	return lookup(o, func(o *Overlay) map[felt.Address]felt.Felt { return o.Nonces }, addr)
}

func (o *Overlay) GetClassHash(addr felt.Address) (felt.ClassHash, bool) {
	return lookup(o, func(o *Overlay) map[felt.Address]felt.ClassHash { return o.ClassHashes }, addr)
}

func (o *Overlay) GetClass(classHash felt.ClassHash) (*starknet.CompiledClass, bool) {
	return lookup(o, func(o *Overlay) map[felt.ClassHash]*starknet.CompiledClass { return o.Classes }, classHash)
}

func (o *Overlay) GetCompiledClassHash(classHash felt.ClassHash) (felt.CasmClassHash, bool) {
	return lookup(o, func(o *Overlay) map[felt.ClassHash]felt.CasmClassHash { return o.CompiledClassHashes }, classHash)
}

// Merge copies every entry of child into o
func (o *Overlay) Merge(child *Overlay) {
	for k, v := range child.Storage {
		o.Storage[k] = v
	}
	for k, v := range child.Nonces {
		o.Nonces[k] = v
	}
	for k, v := range child.ClassHashes {
		o.ClassHashes[k] = v
	}
	for k, v := range child.Classes {
		o.Classes[k] = v
	}
	for k, v := range child.CompiledClassHashes {
		o.CompiledClassHashes[k] = v
	}
}

func (o *Overlay) Empty() bool {
	return len(o.Storage) == 0 && len(o.Nonces) == 0 && len(o.ClassHashes) == 0 &&
		len(o.Classes) == 0 && len(o.CompiledClassHashes) == 0
}
