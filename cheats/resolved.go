package cheats

import (
	"slices"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/starknet"
)

// Resolved is the set of overrides in effect for one invocation
type Resolved struct {
	Values      map[Fact]Value       `json:"values,omitempty"`
	BlockHashes map[uint64]felt.Felt `json:"block_hashes,omitempty"`
}

func (r *Resolved) Empty() bool {
	return len(r.Values) == 0 && len(r.BlockHashes) == 0
}

func (r *Resolved) Get(fact Fact) (Value, bool) {
	v, ok := r.Values[fact]
	return v, ok
}

func (r *Resolved) Caller() (felt.Address, bool) {
	v, ok := r.Values[CallerAddress]
	if !ok {
		return felt.Address{}, false
	}
	return felt.Address(v[0]), true
}

func (r *Resolved) BlockHash(number uint64) (felt.Felt, bool) {
	h, ok := r.BlockHashes[number]
	return h, ok
}

// AffectsExecutionInfo reports whether Apply would change anything
func (r *Resolved) AffectsExecutionInfo() bool {
	return len(r.Values) > 0
}

// Apply writes the overridden facts into info
func (r *Resolved) Apply(info *starknet.ExecutionInfo) {
	for fact, v := range r.Values {
		switch fact {
		case CallerAddress:
			info.CallerAddress = felt.Address(v[0])
		case BlockNumber:
			info.BlockInfo.BlockNumber, _ = v[0].Uint64()
		case BlockTimestamp:
			info.BlockInfo.BlockTimestamp, _ = v[0].Uint64()
		case SequencerAddress:
			info.BlockInfo.SequencerAddress = felt.Address(v[0])
		case AccountContractAddress:
			info.TxInfo.AccountContractAddress = felt.Address(v[0])
		case TransactionHash:
			info.TxInfo.TransactionHash = v[0]
		case Nonce:
			info.TxInfo.Nonce = v[0]
		case ChainID:
			info.TxInfo.ChainID = v[0]
		case Version:
			info.TxInfo.Version = v[0]
		case MaxFee:
			info.TxInfo.MaxFee = v[0]
		case Signature:
			info.TxInfo.Signature = slices.Clone(v)
		}
	}
}
