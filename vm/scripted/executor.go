package scripted

import (
	"context"
	"errors"
	"fmt"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/starknet"
	"github.com/NethermindEth/juno-cheatnet/utils"
	"github.com/NethermindEth/juno-cheatnet/vm"
	"go.uber.org/zap"
)

// Step costs charged against the shared budget
const (
	EntryPointSteps uint64 = 50
	SyscallSteps    uint64 = 100
)

var _ vm.Executor = (*Executor)(nil)

// Executor runs Contracts in process. It is meant for tests and tooling
// where compiling real contracts is not an option.
type Executor struct {
	contracts map[felt.ClassHash]*Contract
	log       utils.StructuredLogger
}

func New(log utils.StructuredLogger) *Executor {
	return &Executor{
		contracts: make(map[felt.ClassHash]*Contract),
		log:       log,
	}
}

// Register makes c executable and returns what must be declared for it
func (e *Executor) Register(c *Contract) (felt.ClassHash, *starknet.CompiledClass) {
	classHash := c.ClassHash()
	e.contracts[classHash] = c
	return classHash, c.CompiledClass()
}

func (e *Executor) Execute(ctx context.Context, ec *vm.ExecutionContext, host vm.Host) (out *vm.Outcome, err error) {
	contract, ok := e.contracts[ec.ClassHash]
	if !ok {
		return nil, vm.Errorf("Class with hash %s is not executable by the scripted executor.", &ec.ClassHash)
	}
	fn, ok := contract.lookup(ec.Call.EntryPointType, &ec.Call.EntryPointSelector)
	if !ok {
		return nil, vm.EntryPointNotFound(&ec.Call.EntryPointSelector)
	}

	c := newContext(ctx, ec, host, e.entryOffset(ec))
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("Scripted contract panicked",
				zap.String("contract", contract.Name),
				zap.Any("panic", r))
			out, err = nil, &vm.ExecutionError{Message: fmt.Sprint(r), PCs: c.pcs}
		}
	}()

	if err = c.Step(EntryPointSteps); err != nil {
		return nil, c.fault(err)
	}
	retdata, err := fn(c)
	if err != nil {
		var panicErr *starknet.PanicError
		if errors.As(err, &panicErr) {
			return &vm.Outcome{Retdata: panicErr.Data, Failed: true, Resources: c.resources}, nil
		}
		return nil, c.fault(err)
	}
	if retdata == nil {
		retdata = []felt.Felt{}
	}
	return &vm.Outcome{Retdata: retdata, Resources: c.resources}, nil
}

func (e *Executor) entryOffset(ec *vm.ExecutionContext) uint64 {
	if ep, ok := ec.Class.FindEntryPoint(ec.Call.EntryPointType, &ec.Call.EntryPointSelector); ok {
		return ep.Offset
	}
	return 0
}
