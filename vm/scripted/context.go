package scripted

import (
	"context"
	"errors"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/intercept"
	"github.com/NethermindEth/juno-cheatnet/starknet"
	"github.com/NethermindEth/juno-cheatnet/vm"
)

// Context is what a Function sees of the chain while it runs
type Context struct {
	ctx       context.Context
	ec        *vm.ExecutionContext
	host      vm.Host
	resources starknet.ExecutionResources
	pc        uint64
	pcs       []uint64
}

func newContext(ctx context.Context, ec *vm.ExecutionContext, host vm.Host, pc uint64) *Context {
	return &Context{ctx: ctx, ec: ec, host: host, pc: pc, pcs: []uint64{pc}}
}

func (c *Context) Context() context.Context {
	return c.ctx
}

func (c *Context) Calldata() []felt.Felt {
	return c.ec.Call.Calldata
}

// Address is the storage address the entry point runs under
func (c *Context) Address() felt.Address {
	return c.ec.Call.StorageAddress
}

func (c *Context) ClassHash() felt.ClassHash {
	return c.ec.ClassHash
}

// Step charges n steps against the call tree's budget
func (c *Context) Step(n uint64) error {
	if c.ec.Budget != nil {
		if err := c.ec.Budget.Consume(n); err != nil {
			return err
		}
	}
	c.resources.Steps += n
	return nil
}

// Panic builds the error a Function returns to revert with data
func (c *Context) Panic(data ...felt.Felt) error {
	return &starknet.PanicError{Data: data}
}

// PanicShort reverts with a single short string
func (c *Context) PanicShort(msg string) error {
	v, err := felt.FromShortString[felt.Felt](msg)
	if err != nil {
		return err
	}
	return c.Panic(v)
}

// fault converts err into an ExecutionError carrying this frame's program counters
func (c *Context) fault(err error) *vm.ExecutionError {
	var execErr *vm.ExecutionError
	if errors.As(err, &execErr) {
		return &vm.ExecutionError{Message: execErr.Message, PCs: c.pcs}
	}
	return &vm.ExecutionError{Message: err.Error(), PCs: c.pcs}
}

func (c *Context) syscall(req intercept.Request) (*intercept.Response, error) {
	c.pc++
	c.pcs = append(c.pcs, c.pc)
	if req.Kind().Syscall() {
		if err := c.Step(SyscallSteps); err != nil {
			return nil, err
		}
		if c.resources.Syscalls == nil {
			c.resources.Syscalls = make(map[string]uint64)
		}
		c.resources.Syscalls[req.Kind().String()]++
	}
	return c.host.Syscall(c.ctx, req)
}

// failure turns a failed call response into a PanicError
func failure(resp *intercept.Response) error {
	if resp.Failed {
		return &starknet.PanicError{Data: resp.Retdata}
	}
	return nil
}

func (c *Context) ExecutionInfo() (*starknet.ExecutionInfo, error) {
	resp, err := c.syscall(intercept.GetExecutionInfo{})
	if err != nil {
		return nil, err
	}
	return resp.Info, nil
}

func (c *Context) CallerAddress() (felt.Address, error) {
	info, err := c.ExecutionInfo()
	if err != nil {
		return felt.Address{}, err
	}
	return info.CallerAddress, nil
}

func (c *Context) BlockHash(number uint64) (felt.Felt, error) {
	resp, err := c.syscall(intercept.GetBlockHash{BlockNumber: number})
	if err != nil {
		return felt.Zero, err
	}
	return resp.Value, failure(resp)
}

func (c *Context) StorageRead(key felt.Felt) (felt.Felt, error) {
	resp, err := c.syscall(intercept.StorageRead{Key: key})
	if err != nil {
		return felt.Zero, err
	}
	return resp.Value, nil
}

func (c *Context) StorageWrite(key, value felt.Felt) error {
	_, err := c.syscall(intercept.StorageWrite{Key: key, Value: value})
	return err
}

// CallContract returns a PanicError when the callee panicked. Callers that
// want to propagate the failure can return that error unchanged.
func (c *Context) CallContract(addr felt.Address, selector felt.Felt, calldata []felt.Felt) ([]felt.Felt, error) {
	resp, err := c.syscall(intercept.CallContract{Address: addr, Selector: selector, Calldata: calldata})
	if err != nil {
		return nil, err
	}
	return resp.Retdata, failure(resp)
}

func (c *Context) LibraryCall(classHash felt.ClassHash, selector felt.Felt, calldata []felt.Felt) ([]felt.Felt, error) {
	resp, err := c.syscall(intercept.LibraryCall{ClassHash: classHash, Selector: selector, Calldata: calldata})
	if err != nil {
		return nil, err
	}
	return resp.Retdata, failure(resp)
}

func (c *Context) Deploy(classHash felt.ClassHash, salt felt.Felt, calldata []felt.Felt, fromZero bool) (felt.Address, []felt.Felt, error) {
	resp, err := c.syscall(intercept.Deploy{
		ClassHash:      classHash,
		Salt:           salt,
		Calldata:       calldata,
		DeployFromZero: fromZero,
	})
	if err != nil {
		return felt.Address{}, nil, err
	}
	return resp.Address, resp.Retdata, failure(resp)
}

func (c *Context) EmitEvent(keys, data []felt.Felt) error {
	_, err := c.syscall(intercept.EmitEvent{Event: starknet.Event{Keys: keys, Data: data}})
	return err
}

func (c *Context) ReplaceClass(classHash felt.ClassHash) error {
	_, err := c.syscall(intercept.ReplaceClass{ClassHash: classHash})
	return err
}

// Cheatcode issues a named cheatcode and returns its output
func (c *Context) Cheatcode(name string, inputs ...felt.Felt) ([]felt.Felt, error) {
	resp, err := c.syscall(intercept.Cheatcode{Name: name, Inputs: inputs})
	if err != nil {
		return nil, err
	}
	return resp.Retdata, nil
}

func (c *Context) RemainingSteps() (uint64, error) {
	resp, err := c.syscall(intercept.RemainingSteps{})
	if err != nil {
		return 0, err
	}
	return resp.Value.Uint64()
}
