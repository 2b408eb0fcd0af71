package crypto

import (
	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	pedersenhash "github.com/consensys/gnark-crypto/ecc/stark-curve/pedersen-hash"
	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const pedersenCacheSize = 1 << 16

var lruPedersen, _ = lru.New(pedersenCacheSize)

var pedersenCache = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cheatnet",
	Name:      "pedersen_cache",
	Help:      "Pedersen hash cache lookups",
}, []string{"hit"})

type pairKey struct {
	x, y felt.Felt
}

// PedersenArray implements [Pedersen array hashing].
//
// [Pedersen array hashing]: https://docs.starknet.io/documentation/develop/Hashing/hash-functions/#array_hashing
func PedersenArray(elems ...*felt.Felt) felt.Felt {
	var digest PedersenDigest
	return digest.Update(elems...).Finish()
}

// PedersenSlice hashes a slice of felts the same way PedersenArray does
func PedersenSlice(elems []felt.Felt) felt.Felt {
	var digest PedersenDigest
	for i := range elems {
		digest.Update(&elems[i])
	}
	return digest.Finish()
}

// Pedersen implements the [Pedersen hash].
//
// [Pedersen hash]: https://docs.starknet.io/documentation/develop/Hashing/hash-functions/#pedersen_hash
func Pedersen(a, b *felt.Felt) felt.Felt {
	key := pairKey{x: *a, y: *b}
	if res, ok := lruPedersen.Get(key); ok {
		pedersenCache.WithLabelValues("true").Inc()
		return res.(felt.Felt)
	}

	hash := felt.Felt(pedersenhash.Pedersen(a.Impl(), b.Impl()))
	lruPedersen.Add(key, hash)
	pedersenCache.WithLabelValues("false").Inc()
	return hash
}

// PedersenDigest accumulates elements of a Pedersen array hash
type PedersenDigest struct {
	digest fp.Element
	count  uint64
}

func (d *PedersenDigest) Update(elems ...*felt.Felt) *PedersenDigest {
	for idx := range elems {
		d.digest = pedersenhash.Pedersen(&d.digest, elems[idx].Impl())
	}
	d.count += uint64(len(elems))
	return d
}

func (d *PedersenDigest) Finish() felt.Felt {
	d.digest = pedersenhash.Pedersen(&d.digest, new(fp.Element).SetUint64(d.count))
	return felt.Felt(d.digest)
}
