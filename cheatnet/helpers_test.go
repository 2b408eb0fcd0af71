package cheatnet_test

import (
	"testing"

	"github.com/NethermindEth/juno-cheatnet/cheatnet"
	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/starknet"
	"github.com/NethermindEth/juno-cheatnet/utils"
	"github.com/NethermindEth/juno-cheatnet/vm/scripted"
	"github.com/stretchr/testify/require"
)

func f(v uint64) felt.Felt {
	return felt.FromUint64[felt.Felt](v)
}

func addr(v uint64) felt.Address {
	return felt.FromUint64[felt.Address](v)
}

func short(s string) felt.Felt {
	v, err := felt.FromShortString[felt.Felt](s)
	if err != nil {
		panic(err)
	}
	return v
}

var nopLog = utils.NewNopZapLogger()

type env struct {
	rt   *cheatnet.Runtime
	exec *scripted.Executor
}

func newEnv(opts ...cheatnet.Option) *env {
	exec := scripted.New(nopLog)
	return &env{rt: cheatnet.New(exec, opts...), exec: exec}
}

// declare registers c with the executor and declares its class
func (e *env) declare(c *scripted.Contract) felt.ClassHash {
	classHash, class := e.exec.Register(c)
	e.rt.Declare(classHash, class, felt.CasmClassHash{})
	return classHash
}

// deployAt places c at a fixed address without running a constructor
func (e *env) deployAt(at felt.Address, c *scripted.Contract) felt.ClassHash {
	classHash := e.declare(c)
	e.rt.State().SetClassHash(at, classHash)
	return classHash
}

func (e *env) call(t *testing.T, to felt.Address, fn string, calldata ...felt.Felt) *cheatnet.CallResult {
	t.Helper()
	res, err := e.rt.Call(t.Context(), &starknet.CallEntryPoint{
		StorageAddress:     to,
		EntryPointSelector: starknet.Selector(fn),
		Calldata:           calldata,
		EntryPointType:     starknet.External,
		CallType:           starknet.Call,
	})
	require.NoError(t, err)
	return res
}

// probe exposes one entry point per capability of the host
var probe = &scripted.Contract{
	Name: "probe",
	Functions: map[string]scripted.Function{
		"caller": func(c *scripted.Context) ([]felt.Felt, error) {
			caller, err := c.CallerAddress()
			return []felt.Felt{felt.Felt(caller)}, err
		},
		"block": func(c *scripted.Context) ([]felt.Felt, error) {
			info, err := c.ExecutionInfo()
			if err != nil {
				return nil, err
			}
			return []felt.Felt{
				f(info.BlockInfo.BlockNumber),
				f(info.BlockInfo.BlockTimestamp),
				felt.Felt(info.BlockInfo.SequencerAddress),
			}, nil
		},
		"tx": func(c *scripted.Context) ([]felt.Felt, error) {
			info, err := c.ExecutionInfo()
			if err != nil {
				return nil, err
			}
			out := []felt.Felt{info.TxInfo.ChainID, felt.Felt(info.TxInfo.AccountContractAddress)}
			return append(out, info.TxInfo.Signature...), nil
		},
		"read": func(c *scripted.Context) ([]felt.Felt, error) {
			v, err := c.StorageRead(c.Calldata()[0])
			return []felt.Felt{v}, err
		},
		"write": func(c *scripted.Context) ([]felt.Felt, error) {
			return nil, c.StorageWrite(c.Calldata()[0], c.Calldata()[1])
		},
		"forward": func(c *scripted.Context) ([]felt.Felt, error) {
			in := c.Calldata()
			return c.CallContract(felt.Address(in[0]), in[1], in[2:])
		},
		"write_then_forward": func(c *scripted.Context) ([]felt.Felt, error) {
			in := c.Calldata()
			if err := c.StorageWrite(f(0), f(1)); err != nil {
				return nil, err
			}
			return c.CallContract(felt.Address(in[0]), in[1], in[2:])
		},
		"emit": func(c *scripted.Context) ([]felt.Felt, error) {
			return nil, c.EmitEvent(c.Calldata(), []felt.Felt{f(0xda7a)})
		},
		"emit_around": func(c *scripted.Context) ([]felt.Felt, error) {
			if err := c.EmitEvent([]felt.Felt{f(1)}, nil); err != nil {
				return nil, err
			}
			if _, err := c.CallContract(felt.Address(c.Calldata()[0]), starknet.Selector("emit"), []felt.Felt{f(2)}); err != nil {
				return nil, err
			}
			return nil, c.EmitEvent([]felt.Felt{f(3)}, nil)
		},
		"emit_too_many": func(c *scripted.Context) ([]felt.Felt, error) {
			return nil, c.EmitEvent(make([]felt.Felt, starknet.MaxEventKeys+1), nil)
		},
		"fail": func(c *scripted.Context) ([]felt.Felt, error) {
			if err := c.StorageWrite(f(0), f(0xbad)); err != nil {
				return nil, err
			}
			return nil, c.PanicShort("boom")
		},
		"block_hash": func(c *scripted.Context) ([]felt.Felt, error) {
			n, err := c.Calldata()[0].Uint64()
			if err != nil {
				return nil, err
			}
			h, err := c.BlockHash(n)
			return []felt.Felt{h}, err
		},
		"recurse": func(c *scripted.Context) ([]felt.Felt, error) {
			return c.CallContract(c.Address(), starknet.Selector("recurse"), nil)
		},
		"library": func(c *scripted.Context) ([]felt.Felt, error) {
			in := c.Calldata()
			return c.LibraryCall(felt.ClassHash(in[0]), in[1], in[2:])
		},
		"deploy": func(c *scripted.Context) ([]felt.Felt, error) {
			in := c.Calldata()
			deployed, _, err := c.Deploy(felt.ClassHash(in[0]), in[1], in[2:], false)
			return []felt.Felt{felt.Felt(deployed)}, err
		},
		"replace": func(c *scripted.Context) ([]felt.Felt, error) {
			return nil, c.ReplaceClass(felt.ClassHash(c.Calldata()[0]))
		},
		"remaining": func(c *scripted.Context) ([]felt.Felt, error) {
			n, err := c.RemainingSteps()
			return []felt.Felt{f(n)}, err
		},
		"cheat": func(c *scripted.Context) ([]felt.Felt, error) {
			// calldata: [name_len, name chunks..., inputs...]
			in := c.Calldata()
			n, _ := in[0].Uint64()
			var name string
			for _, chunk := range in[1 : 1+n] {
				s, _ := felt.ShortString(chunk)
				name += s
			}
			return c.Cheatcode(name, in[1+n:]...)
		},
	},
	Constructor: func(c *scripted.Context) ([]felt.Felt, error) {
		in := c.Calldata()
		if len(in) == 0 {
			return nil, nil
		}
		if in[0].Equal(new(felt.Felt).SetUint64(0xdead)) {
			return nil, c.PanicShort("constructor failed")
		}
		return nil, c.StorageWrite(f(0), in[0])
	},
}

// counter keeps a value at storage key 0
var counter = &scripted.Contract{
	Name: "counter",
	Functions: map[string]scripted.Function{
		"increment": func(c *scripted.Context) ([]felt.Felt, error) {
			v, err := c.StorageRead(f(0))
			if err != nil {
				return nil, err
			}
			v.Add(&v, &felt.One)
			return []felt.Felt{v}, c.StorageWrite(f(0), v)
		},
		"get": func(c *scripted.Context) ([]felt.Felt, error) {
			v, err := c.StorageRead(f(0))
			return []felt.Felt{v}, err
		},
	},
}

// reader can only read the value written by counter
var reader = &scripted.Contract{
	Name: "reader",
	Functions: map[string]scripted.Function{
		"get": func(c *scripted.Context) ([]felt.Felt, error) {
			v, err := c.StorageRead(f(0))
			return []felt.Felt{v, short("reader")}, err
		},
	},
}

// cheatCall encodes a cheat invocation for probe's "cheat" entry point
func cheatCall(name string, inputs ...felt.Felt) []felt.Felt {
	var chunks []felt.Felt
	for len(name) > 0 {
		n := min(len(name), 31)
		chunks = append(chunks, short(name[:n]))
		name = name[n:]
	}
	out := append([]felt.Felt{f(uint64(len(chunks)))}, chunks...)
	return append(out, inputs...)
}
