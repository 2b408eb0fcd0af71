package cheatnet

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/NethermindEth/juno-cheatnet/cheats"
	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/events"
	"github.com/NethermindEth/juno-cheatnet/fork"
	"github.com/NethermindEth/juno-cheatnet/intercept"
	"github.com/NethermindEth/juno-cheatnet/mockcall"
	"github.com/NethermindEth/juno-cheatnet/starknet"
	"github.com/NethermindEth/juno-cheatnet/state"
	"github.com/NethermindEth/juno-cheatnet/trace"
	"github.com/NethermindEth/juno-cheatnet/utils"
	"github.com/NethermindEth/juno-cheatnet/vm"
	"go.uber.org/zap"
)

const (
	DefaultMaxDepth = 100
	DefaultMaxSteps = 10_000_000
)

var ErrContractUnavailable = errors.New("contract address unavailable for deployment")

// EncounteredErrors maps the class of every failing frame to its program counters
type EncounteredErrors map[felt.ClassHash][]uint64

// CallResult is the outcome of one top-level invocation
type CallResult struct {
	trace.Result
	Trace     *trace.CallTrace
	Resources starknet.ExecutionResources
}

// Runtime owns every piece of mutable state of one test case. It is not safe
// for concurrent use; parallel cases each get their own Runtime.
type Runtime struct {
	executor vm.Executor
	state    *state.State
	cheats   *cheats.Store
	mocks    *mockcall.Registry
	builder  *trace.Builder
	chain    *intercept.Chain
	spies    []*events.Spy
	errors   EncounteredErrors
	budget   *vm.Budget

	block    starknet.BlockInfo
	tx       starknet.TxInfo
	maxDepth int
	maxSteps uint64
	capture  bool
	extra    []intercept.Layer
	fork     state.ForkReader
	log      utils.Logger
}

type Option func(*Runtime)

func WithLogger(log utils.Logger) Option {
	return func(r *Runtime) {
		r.log = log
	}
}

// WithFork reads missing state from ref and takes the default block context
// and chain id from the pinned block.
func WithFork(ref *fork.Reference) Option {
	return func(r *Runtime) {
		r.fork = ref
		header := ref.Header()
		r.block = header.BlockInfo()
		r.tx.ChainID = ref.ChainID()
	}
}

func WithBlockInfo(info starknet.BlockInfo) Option {
	return func(r *Runtime) {
		r.block = info
	}
}

func WithChainID(chainID felt.Felt) Option {
	return func(r *Runtime) {
		r.tx.ChainID = chainID
	}
}

func WithMaxDepth(depth int) Option {
	return func(r *Runtime) {
		r.maxDepth = depth
	}
}

// WithMaxSteps bounds the steps of each top-level call, zero means unlimited
func WithMaxSteps(steps uint64) Option {
	return func(r *Runtime) {
		r.maxSteps = steps
	}
}

// WithLayers puts layers in front of the standard chain
func WithLayers(layers ...intercept.Layer) Option {
	return func(r *Runtime) {
		r.extra = append(r.extra, layers...)
	}
}

// WithoutCapture builds a chain without trace and event capture
func WithoutCapture() Option {
	return func(r *Runtime) {
		r.capture = false
	}
}

// DefaultBlockInfo is the block context of a runtime that is not forking
func DefaultBlockInfo() starknet.BlockInfo {
	return starknet.BlockInfo{
		BlockNumber:      2000,
		SequencerAddress: felt.UnsafeFromString[felt.Address]("0x1000"),
	}
}

func New(executor vm.Executor, opts ...Option) *Runtime {
	r := &Runtime{
		executor: executor,
		errors:   make(EncounteredErrors),
		maxDepth: DefaultMaxDepth,
		maxSteps: DefaultMaxSteps,
		capture:  true,
		tx: starknet.TxInfo{
			ChainID: utils.Sepolia.ChainID(),
			Version: felt.One,
		},
		block: DefaultBlockInfo(),
		log:   utils.NewNopZapLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.state = state.New(r.fork, r.log)
	r.cheats = cheats.NewStore(r.log)
	r.mocks = mockcall.NewRegistry(r.log)
	r.builder = trace.NewBuilder(r.log)
	r.budget = vm.NewBudget(r.maxSteps)

	r.chain = intercept.NewChain(r.log, &cheatcodeLayer{r}, &overrideLayer{r})
	if r.capture {
		r.chain.Use(&captureLayer{r: r, handles: make(map[*intercept.Frame]trace.Handle)})
	}
	r.chain.Use(&nativeLayer{r})
	if len(r.extra) > 0 {
		r.chain.Prepend(r.extra...)
	}
	return r
}

func (r *Runtime) Cheats() *cheats.Store {
	return r.cheats
}

func (r *Runtime) Mocks() *mockcall.Registry {
	return r.mocks
}

func (r *Runtime) State() *state.State {
	return r.state
}

func (r *Runtime) Chain() *intercept.Chain {
	return r.chain
}

func (r *Runtime) BlockInfo() starknet.BlockInfo {
	return r.block
}

// Call runs a top-level invocation. Engine faults and panics are reported in
// the result; the error is reserved for cancellation and broken chains.
func (r *Runtime) Call(ctx context.Context, call *starknet.CallEntryPoint) (*CallResult, error) {
	if err := call.Validate(); err != nil {
		return nil, err
	}
	r.budget = vm.NewBudget(r.maxSteps)
	depth := r.state.Depth()
	roots := len(r.builder.Roots())

	resp, err := r.invoke(ctx, nil, call)
	r.builder.Close()
	r.state.RollbackTo(depth)

	res := new(CallResult)
	if newRoots := r.builder.Roots(); len(newRoots) > roots {
		res.Trace = r.builder.Tree(newRoots[len(newRoots)-1])
	}
	switch {
	case err != nil:
		if fatal(err) {
			return nil, err
		}
		res.Result = trace.Failed(err.Error())
	case resp.Failed:
		res.Result = trace.Panicked(resp.Retdata)
		res.Resources = resp.Resources
	default:
		res.Result = trace.Succeeded(resp.Retdata)
		res.Resources = resp.Resources
	}
	return res, nil
}

func fatal(err error) bool {
	return errors.Is(err, intercept.ErrUnclaimedRequest) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// invoke runs the invocation lifecycle shared by top-level and nested calls
func (r *Runtime) invoke(ctx context.Context, parent *intercept.Frame, call *starknet.CallEntryPoint) (*intercept.Response, error) {
	depth := 0
	if parent != nil {
		depth = parent.Depth + 1
	}
	if depth >= r.maxDepth {
		return nil, vm.Errorf("Requested call depth %d exceeds the limit of %d.", depth, r.maxDepth)
	}

	resolved := r.cheats.Snapshot(call.StorageAddress)
	if caller, ok := resolved.Caller(); ok {
		call = call.Clone()
		call.CallerAddress = caller
	}
	frame := &intercept.Frame{
		Call:   call,
		Cheats: resolved,
		Parent: parent,
		Depth:  depth,
	}
	if call.ClassHash != nil {
		frame.ClassHash = *call.ClassHash
	}

	r.chain.EnterCall(frame)
	r.cheats.Tick(cheats.Contract(call.StorageAddress))

	r.state.Checkpoint()
	resp, err := r.chain.Dispatch(ctx, frame, intercept.Invoke{})
	if err != nil || resp.Failed {
		_ = r.state.Rollback()
	} else {
		_ = r.state.Commit()
	}

	r.chain.ExitCall(frame, resp, err)
	if parent != nil && resp != nil {
		parent.ChildResources.Add(&resp.Resources)
	}
	return resp, err
}

// executionInfo is what the frame observes before overrides are applied
func (r *Runtime) executionInfo(frame *intercept.Frame) *starknet.ExecutionInfo {
	info := &starknet.ExecutionInfo{
		BlockInfo:          r.block,
		TxInfo:             r.tx,
		CallerAddress:      frame.Call.CallerAddress,
		ContractAddress:    frame.Call.StorageAddress,
		EntryPointSelector: frame.Call.EntryPointSelector,
	}
	return info.Clone()
}

func (r *Runtime) recordError(classHash felt.ClassHash, pcs []uint64) {
	if len(pcs) == 0 {
		return
	}
	r.errors[classHash] = slices.Clone(pcs)
}

// EncounteredErrors returns a copy of the failures seen so far
func (r *Runtime) EncounteredErrors() EncounteredErrors {
	out := make(EncounteredErrors, len(r.errors))
	for k, v := range r.errors {
		out[k] = slices.Clone(v)
	}
	return out
}

// Traces returns every top-level invocation in call order
func (r *Runtime) Traces() []*trace.CallTrace {
	return utils.Map(r.builder.Roots(), r.builder.Tree)
}

// Declare makes class available under classHash
func (r *Runtime) Declare(classHash felt.ClassHash, class *starknet.CompiledClass, compiledClassHash felt.CasmClassHash) {
	r.state.Declare(classHash, class, compiledClassHash)
	r.log.Debug("Declared class", zap.Stringer("classHash", &classHash))
}

// Deploy deploys classHash from the zero address and runs its constructor
func (r *Runtime) Deploy(ctx context.Context, classHash felt.ClassHash, salt felt.Felt, calldata []felt.Felt) (felt.Address, *CallResult, error) {
	addr := starknet.ContractAddress(felt.Address{}, classHash, salt, calldata)
	class, err := r.state.CompiledClass(ctx, classHash)
	if err != nil {
		return addr, nil, err
	}
	current, err := r.state.ClassHash(ctx, addr)
	if err != nil {
		return addr, nil, err
	}
	if !current.IsZero() {
		return addr, nil, fmt.Errorf("%w: %s", ErrContractUnavailable, &addr)
	}

	if !class.HasConstructor() {
		if len(calldata) > 0 {
			return addr, nil, errors.New("cannot pass calldata to a contract with no constructor")
		}
		r.state.SetClassHash(addr, classHash)
		return addr, &CallResult{Result: trace.Succeeded([]felt.Felt{})}, nil
	}

	r.state.Checkpoint()
	r.state.SetClassHash(addr, classHash)
	res, err := r.Call(ctx, &starknet.CallEntryPoint{
		StorageAddress:     addr,
		EntryPointSelector: starknet.ConstructorSelector,
		Calldata:           calldata,
		EntryPointType:     starknet.Constructor,
		CallType:           starknet.Call,
	})
	if err != nil || !res.OK() {
		_ = r.state.Rollback()
		return addr, res, err
	}
	return addr, res, r.state.Commit()
}

// ReplaceClass points addr at classHash, keeping its storage
func (r *Runtime) ReplaceClass(ctx context.Context, addr felt.Address, classHash felt.ClassHash) error {
	return r.state.ReplaceClass(ctx, addr, classHash)
}

// Store writes values to consecutive storage keys starting at key
func (r *Runtime) Store(addr felt.Address, key felt.Felt, values ...felt.Felt) {
	k := key
	for _, v := range values {
		r.state.SetStorage(addr, k, v)
		k.Add(&k, &felt.One)
	}
}

// Load reads n consecutive storage keys starting at key
func (r *Runtime) Load(ctx context.Context, addr felt.Address, key felt.Felt, n int) ([]felt.Felt, error) {
	out := make([]felt.Felt, 0, n)
	k := key
	for range n {
		v, err := r.state.Storage(ctx, addr, k)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		k.Add(&k, &felt.One)
	}
	return out, nil
}

// SpyEvents starts a spy that sees every event emitted from now on
func (r *Runtime) SpyEvents(addrs ...felt.Address) *events.Spy {
	spy := events.NewSpy()
	if len(addrs) == 0 {
		spy.WatchAll()
	} else {
		spy.Watch(addrs...)
	}
	spy.SkipTo(r.builder.Seq())
	r.spies = append(r.spies, spy)
	return spy
}

// Events drains the events pending for spy
func (r *Runtime) Events(spy *events.Spy) []trace.Event {
	return spy.Collect(r.Traces()...)
}

// ActiveCheats lists installed overrides and mocks for diagnostics
func (r *Runtime) ActiveCheats() []string {
	return slices.Sorted(maps.Keys(r.cheats.Active()))
}
