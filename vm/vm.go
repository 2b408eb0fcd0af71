package vm

import (
	"context"
	"fmt"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/intercept"
	"github.com/NethermindEth/juno-cheatnet/starknet"
)

//go:generate mockgen -destination=../mocks/mock_executor.go -package=mocks github.com/NethermindEth/juno-cheatnet/vm Executor,Host

// Host services every request an executing entry point makes
type Host interface {
	Syscall(ctx context.Context, req intercept.Request) (*intercept.Response, error)
}

// ExecutionContext is everything an executor needs to run one entry point
type ExecutionContext struct {
	Call      *starknet.CallEntryPoint
	ClassHash felt.ClassHash
	Class     *starknet.CompiledClass
	// Budget is shared by every call of one top-level invocation
	Budget *Budget
}

// Outcome of a completed entry point. Failed is set when the contract
// panicked, in which case Retdata holds the panic data.
type Outcome struct {
	Retdata   []felt.Felt
	Failed    bool
	Resources starknet.ExecutionResources
}

type Executor interface {
	Execute(ctx context.Context, ec *ExecutionContext, host Host) (*Outcome, error)
}

// ExecutionError is a fault that is not an application panic. PCs lists the
// program counters of the failing frame, innermost last.
type ExecutionError struct {
	Message string
	PCs     []uint64
}

func (e *ExecutionError) Error() string {
	return e.Message
}

func Errorf(format string, args ...any) *ExecutionError {
	return &ExecutionError{Message: fmt.Sprintf(format, args...)}
}

func EntryPointNotFound(selector *felt.Felt) *ExecutionError {
	return Errorf("Entry point EntryPointSelector(%s) not found in contract.", selector)
}
