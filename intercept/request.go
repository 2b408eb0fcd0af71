package intercept

import (
	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/starknet"
)

type Kind uint8

const (
	KindInvoke Kind = iota
	KindGetExecutionInfo
	KindGetBlockHash
	KindStorageRead
	KindStorageWrite
	KindCallContract
	KindLibraryCall
	KindEmitEvent
	KindReplaceClass
	KindDeploy
	KindCheatcode
	KindRemainingSteps
)

var kindNames = [...]string{
	KindInvoke:           "invoke",
	KindGetExecutionInfo: "get_execution_info",
	KindGetBlockHash:     "get_block_hash",
	KindStorageRead:      "storage_read",
	KindStorageWrite:     "storage_write",
	KindCallContract:     "call_contract",
	KindLibraryCall:      "library_call",
	KindEmitEvent:        "emit_event",
	KindReplaceClass:     "replace_class",
	KindDeploy:           "deploy",
	KindCheatcode:        "cheatcode",
	KindRemainingSteps:   "remaining_steps",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Syscall reports whether the request is issued by contract code as a system call
func (k Kind) Syscall() bool {
	return k != KindInvoke && k != KindCheatcode && k != KindRemainingSteps
}

// Request is anything an executing contract can ask of its host
type Request interface {
	Kind() Kind
}

// Invoke asks for the frame's entry point to be executed
type Invoke struct{}

type GetExecutionInfo struct{}

type GetBlockHash struct {
	BlockNumber uint64
}

type StorageRead struct {
	Key felt.Felt
}

type StorageWrite struct {
	Key   felt.Felt
	Value felt.Felt
}

type CallContract struct {
	Address  felt.Address
	Selector felt.Felt
	Calldata []felt.Felt
}

type LibraryCall struct {
	ClassHash felt.ClassHash
	Selector  felt.Felt
	Calldata  []felt.Felt
}

type EmitEvent struct {
	starknet.Event
}

type ReplaceClass struct {
	ClassHash felt.ClassHash
}

type Deploy struct {
	ClassHash      felt.ClassHash
	Salt           felt.Felt
	Calldata       []felt.Felt
	DeployFromZero bool
}

// Cheatcode is a named out-of-band request from test code
type Cheatcode struct {
	Name   string
	Inputs []felt.Felt
}

type RemainingSteps struct{}

func (Invoke) Kind() Kind           { return KindInvoke }
func (GetExecutionInfo) Kind() Kind { return KindGetExecutionInfo }
func (GetBlockHash) Kind() Kind     { return KindGetBlockHash }
func (StorageRead) Kind() Kind      { return KindStorageRead }
func (StorageWrite) Kind() Kind     { return KindStorageWrite }
func (CallContract) Kind() Kind     { return KindCallContract }
func (LibraryCall) Kind() Kind      { return KindLibraryCall }
func (EmitEvent) Kind() Kind        { return KindEmitEvent }
func (ReplaceClass) Kind() Kind     { return KindReplaceClass }
func (Deploy) Kind() Kind           { return KindDeploy }
func (Cheatcode) Kind() Kind        { return KindCheatcode }
func (RemainingSteps) Kind() Kind   { return KindRemainingSteps }

// Response carries whatever the claiming layer produced. Which fields are
// meaningful depends on the request kind.
type Response struct {
	// Retdata of a call, or panic data when Failed is set
	Retdata []felt.Felt
	Failed  bool
	// Value of a single-felt answer such as a storage read or block hash
	Value     felt.Felt
	Address   felt.Address
	Info      *starknet.ExecutionInfo
	Resources starknet.ExecutionResources
	// Mocked is set when a mock answered an Invoke
	Mocked bool
}
