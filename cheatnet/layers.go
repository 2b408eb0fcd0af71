package cheatnet

import (
	"context"
	"errors"
	"slices"

	"github.com/NethermindEth/juno-cheatnet/cheats"
	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/intercept"
	"github.com/NethermindEth/juno-cheatnet/starknet"
	"github.com/NethermindEth/juno-cheatnet/state"
	"github.com/NethermindEth/juno-cheatnet/trace"
	"github.com/NethermindEth/juno-cheatnet/vm"
	"go.uber.org/zap"
)

// BlockHashLag is how far behind the current block get_block_hash may look
const BlockHashLag = 10

// blockHashContract stores the hash of block n at key n
var blockHashContract = felt.FromUint64[felt.Address](1)

// overrideLayer answers from installed mocks and overrides
type overrideLayer struct {
	r *Runtime
}

func (l *overrideLayer) Name() string {
	return "override"
}

func (l *overrideLayer) Handle(_ context.Context, frame *intercept.Frame, req intercept.Request) (intercept.Result, error) {
	switch req := req.(type) {
	case intercept.Invoke:
		call := frame.Call
		if call.CallType != starknet.Call {
			return intercept.Pass(), nil
		}
		hit, ok := l.r.mocks.Lookup(call.StorageAddress, call.EntryPointSelector, call.Calldata)
		if !ok {
			return intercept.Pass(), nil
		}
		l.r.mocks.Consume(hit)
		return intercept.Handled(&intercept.Response{
			Retdata: slices.Clone(hit.Retdata),
			Mocked:  true,
		}), nil
	case intercept.GetExecutionInfo:
		if !frame.Cheats.AffectsExecutionInfo() {
			return intercept.Pass(), nil
		}
		info := l.r.executionInfo(frame)
		frame.Cheats.Apply(info)
		return intercept.Handled(&intercept.Response{Info: info}), nil
	case intercept.GetBlockHash:
		if hash, ok := frame.Cheats.BlockHash(req.BlockNumber); ok {
			return intercept.Handled(&intercept.Response{Value: hash}), nil
		}
	}
	return intercept.Pass(), nil
}

// captureLayer records invocations into the trace and claims emitted events
type captureLayer struct {
	r       *Runtime
	handles map[*intercept.Frame]trace.Handle
}

func (l *captureLayer) Name() string {
	return "capture"
}

func (l *captureLayer) EnterCall(frame *intercept.Frame) {
	l.handles[frame] = l.r.builder.Enter(frame.Call, &frame.Cheats)
}

func (l *captureLayer) ExitCall(frame *intercept.Frame, resp *intercept.Response, err error) {
	h, ok := l.handles[frame]
	if !ok {
		return
	}
	delete(l.handles, frame)

	switch {
	case err != nil:
		l.r.builder.Exit(h, trace.Failed(err.Error()), nil)
	case resp.Failed:
		l.r.builder.Exit(h, trace.Panicked(resp.Retdata), &resp.Resources)
	default:
		if resp.Mocked {
			l.r.builder.MarkMocked(h)
		}
		l.r.builder.Exit(h, trace.Succeeded(resp.Retdata), &resp.Resources)
	}
}

func (l *captureLayer) Handle(_ context.Context, _ *intercept.Frame, req intercept.Request) (intercept.Result, error) {
	ev, ok := req.(intercept.EmitEvent)
	if !ok {
		return intercept.Pass(), nil
	}
	if err := ev.Validate(); err != nil {
		return intercept.Pass(), &vm.ExecutionError{Message: err.Error()}
	}
	l.r.builder.Emit(&ev.Event)
	return intercept.Handled(nil), nil
}

// nativeLayer is the default behaviour of the chain and claims everything
type nativeLayer struct {
	r *Runtime
}

func (l *nativeLayer) Name() string {
	return "native"
}

func (l *nativeLayer) Handle(ctx context.Context, frame *intercept.Frame, req intercept.Request) (intercept.Result, error) {
	var (
		resp *intercept.Response
		err  error
	)
	switch req := req.(type) {
	case intercept.Invoke:
		resp, err = l.execute(ctx, frame)
	case intercept.GetExecutionInfo:
		resp = &intercept.Response{Info: l.r.executionInfo(frame)}
	case intercept.GetBlockHash:
		resp, err = l.blockHash(ctx, frame, req.BlockNumber)
	case intercept.StorageRead:
		resp = new(intercept.Response)
		resp.Value, err = l.r.state.Storage(ctx, frame.Call.StorageAddress, req.Key)
	case intercept.StorageWrite:
		l.r.state.SetStorage(frame.Call.StorageAddress, req.Key, req.Value)
	case intercept.CallContract:
		resp, err = l.r.invoke(ctx, frame, &starknet.CallEntryPoint{
			StorageAddress:     req.Address,
			CallerAddress:      frame.Call.StorageAddress,
			EntryPointSelector: req.Selector,
			Calldata:           req.Calldata,
			EntryPointType:     starknet.External,
			CallType:           starknet.Call,
		})
	case intercept.LibraryCall:
		classHash := req.ClassHash
		resp, err = l.r.invoke(ctx, frame, &starknet.CallEntryPoint{
			ClassHash:          &classHash,
			StorageAddress:     frame.Call.StorageAddress,
			CallerAddress:      frame.Call.CallerAddress,
			EntryPointSelector: req.Selector,
			Calldata:           req.Calldata,
			EntryPointType:     starknet.External,
			CallType:           starknet.Delegate,
		})
	case intercept.EmitEvent:
		if verr := req.Validate(); verr != nil {
			err = &vm.ExecutionError{Message: verr.Error()}
		}
	case intercept.ReplaceClass:
		err = l.replaceClass(ctx, frame, req.ClassHash)
	case intercept.Deploy:
		resp, err = l.deploy(ctx, frame, req)
	case intercept.RemainingSteps:
		resp = &intercept.Response{Value: felt.FromUint64[felt.Felt](l.r.budget.Remaining())}
	case intercept.Cheatcode:
		err = vm.Errorf("Unknown cheatcode %q.", req.Name)
	default:
		err = vm.Errorf("Unsupported request %s.", req.Kind())
	}
	if err != nil {
		return intercept.Pass(), err
	}
	return intercept.Handled(resp), nil
}

func (l *nativeLayer) execute(ctx context.Context, frame *intercept.Frame) (*intercept.Response, error) {
	call := frame.Call
	if call.CallType == starknet.Call {
		classHash, err := l.r.state.ClassHash(ctx, call.StorageAddress)
		if err != nil {
			return nil, err
		}
		if classHash.IsZero() {
			return nil, vm.Errorf("Requested contract address %s is not deployed.", &call.StorageAddress)
		}
		frame.ClassHash = classHash
	}

	class, err := l.r.state.CompiledClass(ctx, frame.ClassHash)
	if err != nil {
		if errors.Is(err, state.ErrClassNotDeclared) {
			return nil, vm.Errorf("Class with hash %s is not declared.", &frame.ClassHash)
		}
		return nil, err
	}
	if _, ok := class.FindEntryPoint(call.EntryPointType, &call.EntryPointSelector); !ok {
		return nil, vm.EntryPointNotFound(&call.EntryPointSelector)
	}

	out, err := l.r.executor.Execute(ctx, &vm.ExecutionContext{
		Call:      call,
		ClassHash: frame.ClassHash,
		Class:     class,
		Budget:    l.r.budget,
	}, &host{r: l.r, frame: frame})
	if err != nil {
		var execErr *vm.ExecutionError
		if !errors.As(err, &execErr) {
			return nil, err
		}
		l.r.recordError(frame.ClassHash, execErr.PCs)
		data, ok := starknet.DecodePanic(execErr.Message)
		if !ok {
			return nil, err
		}
		return &intercept.Response{
			Retdata:   data,
			Failed:    true,
			Resources: frame.ChildResources.Clone(),
		}, nil
	}

	resources := out.Resources.Clone()
	resources.Add(&frame.ChildResources)
	return &intercept.Response{
		Retdata:   out.Retdata,
		Failed:    out.Failed,
		Resources: resources,
	}, nil
}

// blockHash serves get_block_hash from the block hash contract. Recent
// blocks are out of range and fail with a panic like on chain.
func (l *nativeLayer) blockHash(ctx context.Context, frame *intercept.Frame, number uint64) (*intercept.Response, error) {
	current := l.r.block.BlockNumber
	if v, ok := frame.Cheats.Get(cheats.BlockNumber); ok {
		current, _ = v[0].Uint64()
	}
	if number+BlockHashLag > current {
		reason, _ := felt.FromShortString[felt.Felt]("Block number out of range")
		return &intercept.Response{Failed: true, Retdata: []felt.Felt{reason}}, nil
	}
	hash, err := l.r.state.Storage(ctx, blockHashContract, felt.FromUint64[felt.Felt](number))
	if err != nil {
		return nil, err
	}
	return &intercept.Response{Value: hash}, nil
}

func (l *nativeLayer) replaceClass(ctx context.Context, frame *intercept.Frame, classHash felt.ClassHash) error {
	err := l.r.state.ReplaceClass(ctx, frame.Call.StorageAddress, classHash)
	if errors.Is(err, state.ErrClassNotDeclared) {
		return vm.Errorf("Class with hash %s is not declared.", &classHash)
	}
	return err
}

func (l *nativeLayer) deploy(ctx context.Context, frame *intercept.Frame, req intercept.Deploy) (*intercept.Response, error) {
	deployer := frame.Call.StorageAddress
	if req.DeployFromZero {
		deployer = felt.Address{}
	}
	addr := starknet.ContractAddress(deployer, req.ClassHash, req.Salt, req.Calldata)

	current, err := l.r.state.ClassHash(ctx, addr)
	if err != nil {
		return nil, err
	}
	if !current.IsZero() {
		return nil, vm.Errorf("Requested contract address %s is unavailable for deployment.", &addr)
	}
	class, err := l.r.state.CompiledClass(ctx, req.ClassHash)
	if err != nil {
		return nil, vm.Errorf("Class with hash %s is not declared.", &req.ClassHash)
	}
	if !class.HasConstructor() {
		if len(req.Calldata) > 0 {
			return nil, vm.Errorf("Cannot pass calldata to a contract with no constructor.")
		}
		l.r.state.SetClassHash(addr, req.ClassHash)
		return &intercept.Response{Address: addr, Retdata: []felt.Felt{}}, nil
	}

	l.r.state.Checkpoint()
	l.r.state.SetClassHash(addr, req.ClassHash)
	resp, err := l.r.invoke(ctx, frame, &starknet.CallEntryPoint{
		StorageAddress:     addr,
		CallerAddress:      frame.Call.StorageAddress,
		EntryPointSelector: starknet.ConstructorSelector,
		Calldata:           req.Calldata,
		EntryPointType:     starknet.Constructor,
		CallType:           starknet.Call,
	})
	if err != nil || resp.Failed {
		_ = l.r.state.Rollback()
	} else {
		_ = l.r.state.Commit()
	}
	if err != nil {
		return nil, err
	}
	resp.Address = addr
	return resp, nil
}

// host binds a frame to the chain for the executor
type host struct {
	r     *Runtime
	frame *intercept.Frame
}

func (h *host) Syscall(ctx context.Context, req intercept.Request) (*intercept.Response, error) {
	resp, err := h.r.chain.Dispatch(ctx, h.frame, req)
	if err != nil {
		h.r.log.Debug("Request failed",
			zap.Stringer("kind", req.Kind()),
			zap.Stringer("contract", &h.frame.Call.StorageAddress),
			zap.Error(err))
	}
	return resp, err
}
