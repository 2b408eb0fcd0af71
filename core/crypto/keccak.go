package crypto

import (
	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"golang.org/x/crypto/sha3"
)

// StarknetKeccak implements [StarkNet keccak]
//
// [StarkNet keccak]: https://docs.starknet.io/documentation/develop/Hashing/hash-functions/#starknet_keccak
func StarknetKeccak(b []byte) felt.Felt {
	h := sha3.NewLegacyKeccak256()
	// hash.Hash never returns an error on Write
	_, _ = h.Write(b)
	d := h.Sum(nil)
	// Remove the first 6 bits from the first byte
	d[0] &= 3
	return felt.FromBytes[felt.Felt](d)
}
