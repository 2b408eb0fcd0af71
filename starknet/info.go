package starknet

import (
	"maps"
	"slices"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
)

type BlockInfo struct {
	BlockNumber      uint64       `json:"block_number"`
	BlockTimestamp   uint64       `json:"block_timestamp"`
	SequencerAddress felt.Address `json:"sequencer_address"`
}

type TxInfo struct {
	Version                felt.Felt    `json:"version"`
	AccountContractAddress felt.Address `json:"account_contract_address"`
	MaxFee                 felt.Felt    `json:"max_fee"`
	Signature              []felt.Felt  `json:"signature"`
	TransactionHash        felt.Felt    `json:"transaction_hash"`
	ChainID                felt.Felt    `json:"chain_id"`
	Nonce                  felt.Felt    `json:"nonce"`
}

// ExecutionInfo is what a contract observes through get_execution_info
type ExecutionInfo struct {
	BlockInfo          BlockInfo    `json:"block_info"`
	TxInfo             TxInfo       `json:"tx_info"`
	CallerAddress      felt.Address `json:"caller_address"`
	ContractAddress    felt.Address `json:"contract_address"`
	EntryPointSelector felt.Felt    `json:"entry_point_selector"`
}

func (e *ExecutionInfo) Clone() *ExecutionInfo {
	out := *e
	out.TxInfo.Signature = slices.Clone(e.TxInfo.Signature)
	return &out
}

type ExecutionResources struct {
	Steps       uint64            `json:"steps"`
	MemoryHoles uint64            `json:"memory_holes,omitempty"`
	Builtins    map[string]uint64 `json:"builtin_instance_counter,omitempty"`
	Syscalls    map[string]uint64 `json:"syscall_counter,omitempty"`
}

// Add accumulates other into r
func (r *ExecutionResources) Add(other *ExecutionResources) {
	r.Steps += other.Steps
	r.MemoryHoles += other.MemoryHoles
	r.Builtins = addCounters(r.Builtins, other.Builtins)
	r.Syscalls = addCounters(r.Syscalls, other.Syscalls)
}

func (r *ExecutionResources) Clone() ExecutionResources {
	return ExecutionResources{
		Steps:       r.Steps,
		MemoryHoles: r.MemoryHoles,
		Builtins:    maps.Clone(r.Builtins),
		Syscalls:    maps.Clone(r.Syscalls),
	}
}

func addCounters(dst, src map[string]uint64) map[string]uint64 {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]uint64, len(src))
	}
	for k, v := range src {
		dst[k] += v
	}
	return dst
}
