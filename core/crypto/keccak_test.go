package crypto_test

import (
	"testing"

	"github.com/NethermindEth/juno-cheatnet/core/crypto"
	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/stretchr/testify/assert"
)

func TestStarknetKeccak(t *testing.T) {
	tests := map[string]string{
		"":         "0x1d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		"abc":      "0x203657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45",
		"starknet": "0x14909ac0d4a034239ea4f7265fac97d189ff7430fec65bce3879ab4b5a8d058",
		// entry point selectors are the keccak of the function name
		"transfer": "0x83afd3f4caedc6eebf44246fe54e38c95e3179a5ec9ea81740eca5b482d12e",
	}
	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			got := crypto.StarknetKeccak([]byte(input))
			assert.Equal(t, felt.UnsafeFromString[felt.Felt](want), got)
		})
	}
}
