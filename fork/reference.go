package fork

import (
	"context"
	"errors"
	"fmt"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/db"
	"github.com/NethermindEth/juno-cheatnet/starknet"
	"github.com/NethermindEth/juno-cheatnet/utils"
	"go.uber.org/zap"
)

// Reference reads remote state at a single pinned block
type Reference struct {
	client  Client
	header  BlockHeader
	chainID felt.Felt
	cache   *Cache
	log     utils.StructuredLogger
}

// NewReference resolves block to a concrete block number so that every
// later read observes the same remote state even when "latest" moves on.
func NewReference(ctx context.Context, client Client, block BlockID, log utils.StructuredLogger) (*Reference, error) {
	header, err := client.BlockHeader(ctx, block)
	if err != nil {
		return nil, fmt.Errorf("resolve fork block %s: %w", block, err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch fork chain id: %w", err)
	}

	log.Info("Pinned fork block",
		zap.Uint64("number", header.Number),
		zap.Stringer("hash", &header.Hash),
		zap.String("requested", block.String()),
	)
	return &Reference{
		client:  client,
		header:  *header,
		chainID: chainID,
		log:     log,
	}, nil
}

func (r *Reference) WithCache(c *Cache) *Reference {
	r.cache = c
	return r
}

func (r *Reference) Block() BlockID {
	return BlockNumber(r.header.Number)
}

func (r *Reference) Header() BlockHeader {
	return r.header
}

func (r *Reference) ChainID() felt.Felt {
	return r.chainID
}

// key scopes a cache key to the fork's chain
func (r *Reference) key(bucket db.Bucket, block uint64, parts ...[]byte) []byte {
	chain := r.chainID.Bytes()
	return bucket.Key(chain[:], block, parts...)
}

func (r *Reference) cached(key []byte, v any) bool {
	return r.cache != nil && r.cache.Get(key, v)
}

func (r *Reference) store(key []byte, v any) {
	if r.cache != nil {
		r.cache.Put(key, v)
	}
}

// StorageAt returns zero for contracts unknown to the fork node
func (r *Reference) StorageAt(ctx context.Context, addr felt.Address, key felt.Felt) (felt.Felt, error) {
	addrBytes := addr.Bytes()
	cacheKey := r.key(db.ForkStorage, r.header.Number, addrBytes[:], feltKey(&key))
	var value felt.Felt
	if r.cached(cacheKey, &value) {
		return value, nil
	}

	value, err := r.client.StorageAt(ctx, r.Block(), addr, key)
	if err != nil {
		if !errors.Is(err, ErrContractNotFound) {
			return felt.Zero, err
		}
		value = felt.Zero
	}
	r.store(cacheKey, &value)
	return value, nil
}

func (r *Reference) NonceAt(ctx context.Context, addr felt.Address) (felt.Felt, error) {
	addrBytes := addr.Bytes()
	cacheKey := r.key(db.ForkNonce, r.header.Number, addrBytes[:])
	var nonce felt.Felt
	if r.cached(cacheKey, &nonce) {
		return nonce, nil
	}

	nonce, err := r.client.NonceAt(ctx, r.Block(), addr)
	if err != nil {
		if !errors.Is(err, ErrContractNotFound) {
			return felt.Zero, err
		}
		nonce = felt.Zero
	}
	r.store(cacheKey, &nonce)
	return nonce, nil
}

// ClassHashAt returns the zero hash for addresses with nothing deployed
func (r *Reference) ClassHashAt(ctx context.Context, addr felt.Address) (felt.ClassHash, error) {
	addrBytes := addr.Bytes()
	cacheKey := r.key(db.ForkClassHash, r.header.Number, addrBytes[:])
	var classHash felt.ClassHash
	if r.cached(cacheKey, &classHash) {
		return classHash, nil
	}

	classHash, err := r.client.ClassHashAt(ctx, r.Block(), addr)
	if err != nil {
		if !errors.Is(err, ErrContractNotFound) {
			return felt.ClassHash{}, err
		}
		classHash = felt.ClassHash{}
	}
	r.store(cacheKey, &classHash)
	return classHash, nil
}

// CompiledClass does not cache misses, a class may be declared on the node later
// but it will never change once it exists.
func (r *Reference) CompiledClass(ctx context.Context, classHash felt.ClassHash) (*starknet.CompiledClass, error) {
	hashBytes := classHash.Bytes()
	cacheKey := r.key(db.ForkCompiledClass, 0, hashBytes[:])
	class := new(starknet.CompiledClass)
	if r.cached(cacheKey, class) {
		return class, nil
	}

	class, err := r.client.CompiledClass(ctx, classHash)
	if err != nil {
		return nil, err
	}
	r.store(cacheKey, class)
	return class, nil
}
